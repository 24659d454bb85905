// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/units"
	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	name             = "openweathermap"
	CurrentEndpoint  = "https://api.openweathermap.org/data/2.5/weather"
	ForecastEndpoint = "https://api.openweathermap.org/data/2.5/forecast"
	DefaultTimeout   = time.Second * 10
)

type OpenWeatherMap struct {
	apiKey  string
	timeout time.Duration
	log     *logger.Logger
	http    *http.Client
}

type resCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type resCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type currentResponse struct {
	Coord   resCoord       `json:"coord"`
	Weather []resCondition `json:"weather"`
	Main    struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	DT  int64 `json:"dt"`
	Sys struct {
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"sys"`
	Timezone int    `json:"timezone"`
	Name     string `json:"name"`
}

type forecastResponse struct {
	Count int `json:"cnt"`
	List  []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []resCondition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
	City struct {
		Name     string   `json:"name"`
		Coord    resCoord `json:"coord"`
		Country  string   `json:"country"`
		Timezone int      `json:"timezone"`
	} `json:"city"`
}

func New(http *http.Client, log *logger.Logger, apiKey string, timeout time.Duration) (*OpenWeatherMap, error) {
	if http == nil {
		return nil, fmt.Errorf("http client is required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OpenWeatherMap API key is required")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &OpenWeatherMap{apiKey: apiKey, timeout: timeout, http: http, log: log}, nil
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// Current returns the current conditions at coords in the given unit mode.
func (o *OpenWeatherMap) Current(ctx context.Context, coords geo.Coordinate, mode units.Mode) (weather.Current, error) {
	res := new(currentResponse)
	if _, err := o.http.GetWithTimeout(ctx, CurrentEndpoint, res, o.query(coords, mode), nil, o.timeout); err != nil {
		return weather.Current{}, classify("current weather", err)
	}

	current := weather.Current{
		Time:        time.Unix(res.DT, 0).UTC(),
		Coordinates: geo.Coordinate{Lat: res.Coord.Lat, Lon: res.Coord.Lon},
		Name:        res.Name,
		FeelsLike:   vartype.FromPointer(res.Main.FeelsLike),
		Humidity:    vartype.FromPointer(res.Main.Humidity),
		WindSpeed:   vartype.FromPointer(res.Wind.Speed),
		UTCOffset:   res.Timezone,
	}
	if res.Main.Temp != nil {
		current.Temperature = *res.Main.Temp
	}
	if len(res.Weather) > 0 {
		current.ConditionMain = res.Weather[0].Main
		current.ConditionDescription = res.Weather[0].Description
	}
	if res.Sys.Sunrise > 0 {
		current.Sunrise = time.Unix(res.Sys.Sunrise, 0).UTC()
	}
	if res.Sys.Sunset > 0 {
		current.Sunset = time.Unix(res.Sys.Sunset, 0).UTC()
	}
	o.log.Debug("current weather received", slog.String("name", current.Name),
		slog.String("condition", current.ConditionMain), slog.String("units", mode.String()))

	return current, nil
}

// Forecast returns the 5 day / 3 hour forecast at coords in the given unit mode.
func (o *OpenWeatherMap) Forecast(ctx context.Context, coords geo.Coordinate, mode units.Mode) (weather.Forecast, error) {
	res := new(forecastResponse)
	if _, err := o.http.GetWithTimeout(ctx, ForecastEndpoint, res, o.query(coords, mode), nil, o.timeout); err != nil {
		return weather.Forecast{}, classify("forecast", err)
	}

	forecast := weather.Forecast{
		Coordinates: geo.Coordinate{Lat: res.City.Coord.Lat, Lon: res.City.Coord.Lon},
		CityName:    res.City.Name,
		UTCOffset:   res.City.Timezone,
		Series:      make(weather.Series, 0, len(res.List)),
	}
	for _, item := range res.List {
		sample := weather.Sample{
			Time:        time.Unix(item.DT, 0).UTC(),
			Temperature: item.Main.Temp,
			WindSpeed:   item.Wind.Speed,
			Humidity:    item.Main.Humidity,
		}
		if len(item.Weather) > 0 {
			sample.ConditionMain = item.Weather[0].Main
			sample.ConditionDescription = item.Weather[0].Description
		}
		forecast.Series = append(forecast.Series, sample)
	}
	o.log.Debug("forecast received", slog.String("city", forecast.CityName),
		slog.Int("samples", len(forecast.Series)), slog.String("units", mode.String()))

	return forecast, nil
}

func (o *OpenWeatherMap) query(coords geo.Coordinate, mode units.Mode) url.Values {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%f", coords.Lat))
	query.Set("lon", fmt.Sprintf("%f", coords.Lon))
	query.Set("units", mode.String())
	query.Set("appid", o.apiKey)
	return query
}

// classify maps a HTTP client error to the weather error taxonomy. Cancellation is passed
// through unchanged, the lookup was superseded and nobody waits for its result.
func classify(what string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s request canceled: %w", what, err)
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: %s: %w", weather.ErrWeatherUnavailable, what, err)
	}
	return fmt.Errorf("%w: %s: %w", weather.ErrNetwork, what, err)
}
