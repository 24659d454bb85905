// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/logger"
)

const FetchTimeout = time.Second * 30

// refresh re-fetches the weather for the retained location. Without a retained location
// there is nothing to do.
func (s *Service) refresh(ctx context.Context) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	view, err := s.dashboard.Refresh(ctxFetch)
	switch {
	case errors.Is(err, dashboard.ErrNoSnapshot):
		s.logger.Debug("no location retained yet, skipping refresh")
	case errors.Is(err, dashboard.ErrBusy):
		s.logger.Debug("lookup in flight, skipping refresh")
	case errors.Is(err, dashboard.ErrSuperseded):
		s.logger.Debug("refresh superseded by a newer lookup")
	case err != nil:
		s.logger.Error("failed to refresh weather data", logger.Err(err))
	default:
		s.logger.Debug("weather data refreshed", slog.String("display_name", view.DisplayName))
	}
}

func (s *Service) lookupDefaultCity(ctx context.Context) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	if _, err := s.dashboard.LookupByName(ctxFetch, s.config.DefaultCity); err != nil {
		s.logger.Warn("failed to look up default city", slog.String("city", s.config.DefaultCity),
			logger.Err(err))
	}
}

// Once looks up place, or the default city if place is empty, and writes the resulting view
// as JSON to the output.
func (s *Service) Once(ctx context.Context, place string) error {
	place = strings.TrimSpace(place)
	if place == "" {
		place = s.config.DefaultCity
	}
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	view, err := s.dashboard.LookupByName(ctxFetch, place)
	if err != nil {
		return fmt.Errorf("failed to look up %q: %w", place, err)
	}

	encoder := json.NewEncoder(s.output)
	encoder.SetIndent("", "  ")
	if err = encoder.Encode(view); err != nil {
		return fmt.Errorf("failed to encode weather data: %w", err)
	}
	return nil
}
