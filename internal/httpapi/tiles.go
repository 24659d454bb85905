// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	httpclient "github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	TileEndpoint   = "https://tile.openweathermap.org/map"
	BaseLayerURL   = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileTimeout    = time.Second * 10
	MaxZoom        = 19
	overlayOpacity = 0.5
)

// Layer describes a map tile layer in the form of a Leaflet URL template.
type Layer struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	Attribution string  `json:"attribution"`
	Opacity     float64 `json:"opacity"`
	Overlay     bool    `json:"overlay"`
	Default     bool    `json:"default"`
}

type overlay struct {
	id       string
	name     string
	upstream string
}

var overlays = []overlay{
	{"clouds", "Clouds", "clouds_new"},
	{"precipitation", "Precipitation", "precipitation_new"},
	{"temperature", "Temperature", "temp_new"},
}

// Fetcher returns the raw body and content type of a GET request.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string, query url.Values, timeout time.Duration) ([]byte, string, error)
}

// TileProxy forwards weather overlay tile requests to OpenWeatherMap and adds the API key, so the
// key never reaches the browser.
type TileProxy struct {
	fetcher  Fetcher
	apiKey   string
	endpoint string
	timeout  time.Duration
}

func NewTileProxy(fetcher Fetcher, apiKey string, timeout time.Duration) *TileProxy {
	if timeout <= 0 {
		timeout = TileTimeout
	}
	return &TileProxy{fetcher: fetcher, apiKey: apiKey, endpoint: TileEndpoint, timeout: timeout}
}

// Layers returns the OpenStreetMap base layer and the weather overlays. Overlay URLs point at
// the proxy below prefix.
func (p *TileProxy) Layers(prefix string) []Layer {
	layers := []Layer{{
		ID:          "osm",
		Name:        "OpenStreetMap",
		URL:         BaseLayerURL,
		Attribution: "© OpenStreetMap contributors",
		Opacity:     1,
		Default:     true,
	}}
	for i, o := range overlays {
		layers = append(layers, Layer{
			ID:          o.id,
			Name:        o.name,
			URL:         fmt.Sprintf("%s/%s/{z}/{x}/{y}.png", prefix, o.id),
			Attribution: o.name + " © OpenWeatherMap",
			Opacity:     overlayOpacity,
			Overlay:     true,
			Default:     i == 0,
		})
	}
	return layers
}

// Tile returns the tile of layer at z/x/y.
func (p *TileProxy) Tile(ctx context.Context, layer string, z, x, y int) ([]byte, string, error) {
	upstream, ok := upstreamLayer(layer)
	if !ok {
		return nil, "", fmt.Errorf("unknown layer %q", layer)
	}
	query := url.Values{}
	query.Set("appid", p.apiKey)
	endpoint := fmt.Sprintf("%s/%s/%d/%d/%d.png", p.endpoint, upstream, z, x, y)
	return p.fetcher.Fetch(ctx, endpoint, query, p.timeout)
}

func (s *Server) handleLayers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]Layer{"layers": s.tiles.Layers("/api/map/tiles")})
}

func (s *Server) handleTile(w http.ResponseWriter, r *http.Request) {
	layer := chi.URLParam(r, "layer")
	if _, ok := upstreamLayer(layer); !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Unknown map layer.", Kind: KindInvalidInput})
		return
	}
	z, x, y, err := parseTile(chi.URLParam(r, "z"), chi.URLParam(r, "x"), chi.URLParam(r, "y"))
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	body, contentType, err := s.tiles.Tile(r.Context(), layer, z, x, y)
	if err != nil {
		status := http.StatusGatewayTimeout
		var statusErr *httpclient.StatusError
		if errors.As(err, &statusErr) {
			status = http.StatusBadGateway
		}
		s.log.Debug("failed to fetch map tile", slog.String("layer", layer), logger.Err(err))
		writeJSON(w, status, errorResponse{Error: "Map tile not available.", Kind: "tile_unavailable"})
		return
	}
	if contentType == "" {
		contentType = "image/png"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func upstreamLayer(id string) (string, bool) {
	for _, o := range overlays {
		if o.id == id {
			return o.upstream, true
		}
	}
	return "", false
}

// parseTile parses tile coordinates. x and y must lie within the 2^z grid of the zoom level.
func parseTile(zVal, xVal, yVal string) (int, int, int, error) {
	z, err := strconv.Atoi(zVal)
	if err != nil || z < 0 || z > MaxZoom {
		return 0, 0, 0, fmt.Errorf("invalid zoom level %q", zVal)
	}
	limit := 1 << z
	x, err := strconv.Atoi(xVal)
	if err != nil || x < 0 || x >= limit {
		return 0, 0, 0, fmt.Errorf("invalid tile x %q", xVal)
	}
	y, err := strconv.Atoi(yVal)
	if err != nil || y < 0 || y >= limit {
		return 0, 0, 0, fmt.Errorf("invalid tile y %q", yVal)
	}
	return z, x, y, nil
}
