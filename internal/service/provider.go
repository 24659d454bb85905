// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/background"
	"github.com/wneessen/weather-dashboard/internal/geocode"
	owmgeocode "github.com/wneessen/weather-dashboard/internal/geocode/provider/openweathermap"
	"github.com/wneessen/weather-dashboard/internal/httpapi"
	"github.com/wneessen/weather-dashboard/internal/locate"
	"github.com/wneessen/weather-dashboard/internal/weather"
	owmweather "github.com/wneessen/weather-dashboard/internal/weather/provider/openweathermap"
)

func (s *Service) selectWeatherProvider() (weather.Provider, error) {
	provider, err := owmweather.New(s.apiClient, s.logger, s.config.OpenWeatherMap.APIKey, s.config.Timeouts.Request)
	if err != nil {
		return nil, err
	}
	return provider, nil
}

func (s *Service) selectGeocoder(lang language.Tag) geocode.Geocoder {
	return geocode.NewCachedGeocoder(owmgeocode.New(s.apiClient, lang, s.config.OpenWeatherMap.APIKey),
		s.config.Geocoder.CacheHitTTL, s.config.Geocoder.CacheMissTTL)
}

// selectLocator builds the current location chain. The locators are tried in the order file,
// gpsd, GeoIP.
func (s *Service) selectLocator() *locate.Chain {
	var locators []locate.Locator

	if !s.config.GeoLocation.DisableGeolocationFile {
		locators = append(locators, locate.NewFile(s.config.GeoLocation.File))
	}

	if !s.config.GeoLocation.DisableGPSD {
		locators = append(locators, locate.NewGPSD(s.config.GeoLocation.GPSDHost, s.config.GeoLocation.GPSDPort,
			s.config.Timeouts.Request))
	}

	if !s.config.GeoLocation.DisableGeoIP {
		locators = append(locators, locate.NewGeoIP(s.rawClient))
	}

	return locate.NewChain(s.logger, locators...)
}

// selectBackground uses Unsplash photos when an access key is configured and the condition
// themes otherwise.
func (s *Service) selectBackground() background.Resolver {
	if s.config.Unsplash.AccessKey == "" {
		return background.Theme{}
	}
	return background.NewUnsplash(s.rawClient, s.logger, s.config.Unsplash.AccessKey, s.config.Timeouts.Background)
}

// selectTileProxy uses the client without rate limit, a map view requests many tiles at once.
func (s *Service) selectTileProxy() *httpapi.TileProxy {
	return httpapi.NewTileProxy(s.rawClient, s.config.OpenWeatherMap.APIKey, s.config.Timeouts.Request)
}
