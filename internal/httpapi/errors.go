// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	KindInvalidInput = "invalid_input"
	KindSuperseded   = "superseded"
)

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// statusFor maps a lookup error to the HTTP status and the message shown to the user.
func statusFor(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, dashboard.ErrSuperseded):
		return http.StatusConflict, errorResponse{"Request superseded by a newer one.", KindSuperseded}
	case errors.Is(err, dashboard.ErrInvalidCoordinate):
		return http.StatusBadRequest, errorResponse{"Invalid coordinate.", KindInvalidInput}
	case errors.Is(err, weather.ErrNotFound):
		return http.StatusNotFound, errorResponse{"City not found.", weather.KindNotFound}
	case errors.Is(err, weather.ErrWeatherUnavailable):
		return http.StatusBadGateway, errorResponse{"Weather data not available.", weather.KindWeatherUnavailable}
	case errors.Is(err, weather.ErrNetwork):
		return http.StatusGatewayTimeout, errorResponse{"Network error fetching weather.", weather.KindNetwork}
	case errors.Is(err, weather.ErrGeolocationDenied):
		return http.StatusForbidden, errorResponse{"Could not get your location.", weather.KindGeolocationDenied}
	default:
		return http.StatusInternalServerError, errorResponse{"Something went wrong.", weather.Kind(err)}
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Warn("request failed", slog.String("path", r.URL.Path), slog.Int("status", status),
			logger.Err(err))
	}
	writeJSON(w, status, body)
}

func (s *Server) writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg, Kind: KindInvalidInput})
}
