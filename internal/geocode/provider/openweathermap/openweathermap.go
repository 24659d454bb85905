// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	APIEndpoint = "https://api.openweathermap.org/geo/1.0/direct"
	APITimeout  = time.Second * 10
	name        = "openweathermap-geocoding"
)

type OpenWeatherMap struct {
	apikey string
	http   *http.Client
	lang   language.Tag
}

type Result struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

func New(client *http.Client, lang language.Tag, apikey string) *OpenWeatherMap {
	return &OpenWeatherMap{
		apikey: apikey,
		lang:   lang,
		http:   client,
	}
}

func (o *OpenWeatherMap) Name() string {
	return name
}

// Search resolves query to the best matching place. The localized name for the configured
// language is preferred when the API knows one.
func (o *OpenWeatherMap) Search(ctx context.Context, query string) (geo.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return geo.Place{}, fmt.Errorf("%w: empty place name", weather.ErrNotFound)
	}

	var response []Result
	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", "1")
	values.Set("appid", o.apikey)

	if _, err := o.http.GetWithTimeout(ctx, APIEndpoint, &response, values, nil, APITimeout); err != nil {
		return geo.Place{}, classify(query, err)
	}
	if len(response) == 0 {
		return geo.Place{}, fmt.Errorf("%w: no results for %q", weather.ErrNotFound, query)
	}

	result := response[0]
	place := geo.Place{
		Coordinate: geo.Coordinate{Lat: result.Lat, Lon: result.Lon},
		Name:       result.Name,
		Country:    result.Country,
		State:      result.State,
	}
	base, _ := o.lang.Base()
	if local, ok := result.LocalNames[base.String()]; ok && local != "" {
		place.Name = local
	}

	return place, nil
}

func classify(query string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("geocoding request canceled: %w", err)
	}
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == 404 {
			return fmt.Errorf("%w: %q: %w", weather.ErrNotFound, query, err)
		}
		return fmt.Errorf("%w: failed to resolve %q: %w", weather.ErrWeatherUnavailable, query, err)
	}
	return fmt.Errorf("%w: failed to resolve %q: %w", weather.ErrNetwork, query, err)
}
