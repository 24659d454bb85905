// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kkyr/fig"

	"github.com/wneessen/weather-dashboard/internal/forecast"
	"github.com/wneessen/weather-dashboard/internal/units"
)

const (
	configEnv         = "WEATHERDASH"
	DefaultSummaryTpl = `{{emojiWithSpace .Current.Emoji}}{{.Current.Temperature}} {{title .Current.Description}}, {{.DisplayName}}`
	DefaultPopupTpl   = `<b>{{.DisplayName}}</b><br>{{title .Current.Description}}<br>` +
		`🌡️ {{.Current.Temperature}} | 💨 {{.Current.Wind}} | 💧 {{.Current.Humidity}}` +
		`<div class="popup-coords">Lat: {{floatFormat .Latitude 2}}, Lon: {{floatFormat .Longitude 2}}</div>`
)

// Config represents the application's configuration structure.
type Config struct {
	// Allowed values: metric, imperial
	Units       string     `fig:"units" default:"metric"`
	Locale      string     `fig:"locale"`
	LogLevel    slog.Level `fig:"loglevel" default:"0"`
	Listen      string     `fig:"listen" default:"127.0.0.1:8080"`
	DefaultCity string     `fig:"default_city" default:"London"`

	OpenWeatherMap struct {
		APIKey string `fig:"apikey"`
		// Requests per second towards the API, 0 disables the limit
		RateLimit float64 `fig:"rate_limit" default:"1"`
		RateBurst int     `fig:"rate_burst" default:"5"`
	} `fig:"openweathermap"`

	Unsplash struct {
		AccessKey string `fig:"access_key"`
	} `fig:"unsplash"`

	Display struct {
		// Allowed values: local, location or an IANA time zone name
		Timezone string `fig:"timezone" default:"local"`
	} `fig:"display"`

	Server struct {
		AllowedOrigins []string `fig:"allowed_origins" default:"[*]"`
	} `fig:"server"`

	Intervals struct {
		Refresh time.Duration `fig:"refresh" default:"15m"`
	} `fig:"intervals"`

	Timeouts struct {
		Request    time.Duration `fig:"request" default:"10s"`
		Background time.Duration `fig:"background" default:"5s"`
		Shutdown   time.Duration `fig:"shutdown" default:"10s"`
	} `fig:"timeouts"`

	Geocoder struct {
		CacheHitTTL  time.Duration `fig:"cache_hit_ttl" default:"24h"`
		CacheMissTTL time.Duration `fig:"cache_miss_ttl" default:"10m"`
	} `fig:"geocoder"`

	Templates struct {
		Summary string `fig:"summary"`
		Popup   string `fig:"popup"`
	} `fig:"templates"`

	GeoLocation struct {
		File                   string `fig:"file"`
		GPSDHost               string `fig:"gpsd_host" default:"localhost"`
		GPSDPort               string `fig:"gpsd_port" default:"2947"`
		DisableGeolocationFile bool   `fig:"disable_geolocation_file"`
		DisableGPSD            bool   `fig:"disable_gpsd"`
		DisableGeoIP           bool   `fig:"disable_geoip"`
	} `fig:"geolocation"`
}

func NewFromFile(path, file string) (*Config, error) {
	conf := new(Config)
	_, err := os.Stat(filepath.Join(path, file))
	if err != nil {
		return conf, fmt.Errorf("failed to read Config: %w", err)
	}
	if err = fig.Load(conf, fig.Dirs(path), fig.File(file), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func New() (*Config, error) {
	conf := new(Config)
	if err := fig.Load(conf, fig.AllowNoFile(), fig.UseEnv(configEnv)); err != nil {
		return conf, fmt.Errorf("failed to load Config: %w", err)
	}

	return conf, conf.Validate()
}

func (c *Config) Validate() error {
	if _, err := units.ParseMode(c.Units); err != nil {
		return err
	}
	if _, err := forecast.ResolveLocation(c.Display.Timezone, 0); err != nil {
		return err
	}
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.Intervals.Refresh <= 0 {
		return fmt.Errorf("invalid refresh interval: %s", c.Intervals.Refresh)
	}
	if c.Timeouts.Request <= 0 {
		return fmt.Errorf("invalid request timeout: %s", c.Timeouts.Request)
	}
	if c.OpenWeatherMap.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %f", c.OpenWeatherMap.RateLimit)
	}
	if c.Locale == "" {
		c.Locale = getLocale()
	}
	if c.Templates.Summary == "" {
		c.Templates.Summary = DefaultSummaryTpl
	}
	if c.Templates.Popup == "" {
		c.Templates.Popup = DefaultPopupTpl
	}
	if c.GeoLocation.File == "" {
		home, _ := os.UserHomeDir()
		c.GeoLocation.File = filepath.Join(home, ".config", "weather-dashboard", "geolocation")
	}

	return nil
}

// DefaultDir returns the directory searched for a config file when none is given.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "weather-dashboard")
}

func getLocale() string {
	locale := os.Getenv("LC_MESSAGES")
	if idx := strings.Index(locale, "."); idx != -1 {
		lang := locale[:idx]
		return strings.ReplaceAll(lang, "_", "-")
	}
	return locale
}
