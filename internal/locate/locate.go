// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package locate determines the coordinate of the machine the dashboard runs on.
package locate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

// Locator returns the current coordinate from a single source.
type Locator interface {
	Name() string
	Locate(ctx context.Context) (geo.Coordinate, error)
}

// Chain tries its locators in order and returns the first coordinate found.
type Chain struct {
	locators []Locator
	log      *logger.Logger
}

func NewChain(log *logger.Logger, locators ...Locator) *Chain {
	return &Chain{locators: locators, log: log}
}

func (c *Chain) Name() string {
	return "locator chain"
}

// Names returns the names of the chained locators in order.
func (c *Chain) Names() []string {
	names := make([]string, 0, len(c.locators))
	for _, locator := range c.locators {
		names = append(names, locator.Name())
	}
	return names
}

// Locate returns the first valid coordinate of the chain. If no locator succeeds, or none is
// configured, the error wraps weather.ErrGeolocationDenied.
func (c *Chain) Locate(ctx context.Context) (geo.Coordinate, error) {
	if len(c.locators) == 0 {
		return geo.Coordinate{}, fmt.Errorf("%w: no locator configured", weather.ErrGeolocationDenied)
	}

	var errs []error
	for _, locator := range c.locators {
		if err := ctx.Err(); err != nil {
			return geo.Coordinate{}, err
		}
		coord, err := locator.Locate(ctx)
		if err == nil && !coord.Valid() {
			err = fmt.Errorf("invalid coordinate %s", coord)
		}
		if err != nil {
			c.log.Debug("locator failed", slog.String("locator", locator.Name()), logger.Err(err))
			errs = append(errs, fmt.Errorf("%s: %w", locator.Name(), err))
			continue
		}
		c.log.Debug("location found", slog.String("locator", locator.Name()),
			slog.String("coordinate", coord.String()))
		return coord.Truncated(), nil
	}

	return geo.Coordinate{}, fmt.Errorf("%w: %w", weather.ErrGeolocationDenied, errors.Join(errs...))
}
