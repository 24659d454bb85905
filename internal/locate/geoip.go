// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locate

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/http"
)

const (
	GeoIPEndpoint = "https://reallyfreegeoip.org/json/"
	GeoIPTimeout  = time.Second * 5
)

// GeoIP locates the public IP address of the host.
type GeoIP struct {
	http *http.Client
}

type geoIPResult struct {
	IP          string  `json:"ip"`
	CountryCode string  `json:"country_code"`
	Country     string  `json:"country_name"`
	RegionCode  string  `json:"region_code,omitempty"`
	City        string  `json:"city,omitempty"`
	ZipCode     string  `json:"zip_code,omitempty"`
	TimeZone    string  `json:"time_zone"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

func NewGeoIP(client *http.Client) *GeoIP {
	return &GeoIP{http: client}
}

func (g *GeoIP) Name() string {
	return "geoip"
}

func (g *GeoIP) Locate(ctx context.Context) (geo.Coordinate, error) {
	result := new(geoIPResult)
	if _, err := g.http.GetWithTimeout(ctx, GeoIPEndpoint, result, nil, nil, GeoIPTimeout); err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to get geolocation data from API: %w", err)
	}
	if result.CountryCode == "" && result.Latitude == 0 && result.Longitude == 0 {
		return geo.Coordinate{}, fmt.Errorf("geolocation API returned no location for %q", result.IP)
	}
	return geo.Coordinate{Lat: result.Latitude, Lon: result.Longitude}, nil
}
