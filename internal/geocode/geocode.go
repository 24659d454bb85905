// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"

	"github.com/wneessen/weather-dashboard/internal/geo"
)

// Geocoder resolves a place name to its coordinates. An unresolvable name returns an error
// wrapping weather.ErrNotFound.
type Geocoder interface {
	Name() string
	Search(ctx context.Context, query string) (geo.Place, error)
}
