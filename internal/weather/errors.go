// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package weather

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a place name does not resolve to any location.
	ErrNotFound = errors.New("location not found")
	// ErrWeatherUnavailable is returned when the weather API answers a request unsuccessfully.
	ErrWeatherUnavailable = errors.New("weather data not available")
	// ErrNetwork is returned for transport failures, timeouts and malformed responses.
	ErrNetwork = errors.New("network error")
	// ErrGeolocationDenied is returned when no current location can be determined.
	ErrGeolocationDenied = errors.New("geolocation denied or unsupported")
)

// Failure kinds as reported to the rendering layer.
const (
	KindNotFound           = "not_found"
	KindWeatherUnavailable = "weather_unavailable"
	KindNetwork            = "network_error"
	KindGeolocationDenied  = "geolocation_denied"
	KindCanceled           = "canceled"
	KindUnknown            = "unknown"
)

// Kind returns the failure kind of err. A nil error has an empty kind.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrWeatherUnavailable):
		return KindWeatherUnavailable
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	case errors.Is(err, ErrGeolocationDenied):
		return KindGeolocationDenied
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindUnknown
	}
}
