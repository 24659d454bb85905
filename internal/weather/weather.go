// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/units"
	"github.com/wneessen/weather-dashboard/internal/vartype"
)

// Provider is implemented by the weather API backend.
type Provider interface {
	Name() string
	Current(ctx context.Context, coords geo.Coordinate, mode units.Mode) (Current, error)
	Forecast(ctx context.Context, coords geo.Coordinate, mode units.Mode) (Forecast, error)
}

// Sample is a single weather data point.
type Sample struct {
	Time                 time.Time
	Temperature          float64
	ConditionMain        string
	ConditionDescription string
	WindSpeed            float64
	Humidity             int
}

// Series is a forecast sample sequence in ascending time order.
type Series []Sample

// Current holds the current conditions at a coordinate. Values the provider may omit are
// optional.
type Current struct {
	Time                 time.Time
	Coordinates          geo.Coordinate
	Name                 string
	Temperature          float64
	ConditionMain        string
	ConditionDescription string
	FeelsLike            vartype.VarFloat64
	Humidity             vartype.VarInt
	WindSpeed            vartype.VarFloat64
	Sunrise              time.Time
	Sunset               time.Time
	UTCOffset            int
}

// Forecast is the forecast response for a coordinate.
type Forecast struct {
	Coordinates geo.Coordinate
	CityName    string
	UTCOffset   int
	Series      Series
}

// Snapshot is the complete current and forecast payload for one resolved coordinate at one
// point in time.
type Snapshot struct {
	Coordinates geo.Coordinate
	DisplayName string
	Current     Current
	Forecast    Series
	UTCOffset   int
	Units       units.Mode
	FetchedAt   time.Time
}
