// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package httpapi serves the dashboard over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/presenter"
	"github.com/wneessen/weather-dashboard/internal/recent"
	"github.com/wneessen/weather-dashboard/internal/units"
)

// Dashboard is the part of the dashboard the HTTP API drives.
type Dashboard interface {
	LookupByName(ctx context.Context, query string) (presenter.View, error)
	LookupByCoordinate(ctx context.Context, coord geo.Coordinate) (presenter.View, error)
	LookupCurrentLocation(ctx context.Context) (presenter.View, error)
	SetUnits(ctx context.Context, mode units.Mode) (presenter.View, error)
	ToggleUnits(ctx context.Context) (presenter.View, error)
	Last() (presenter.View, bool)
	Units() units.Mode
	Recents() []recent.Entry
}

// Options configures a Server. Tiles and Metrics are optional.
type Options struct {
	AllowedOrigins []string
	Tiles          *TileProxy
	Metrics        http.Handler
}

type Server struct {
	log       *logger.Logger
	dash      Dashboard
	tiles     *TileProxy
	metrics   http.Handler
	origins   []string
	validate  *validator.Validate
	facts     *Facts
	startedAt time.Time
}

type coordinateQuery struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

type unitsRequest struct {
	Units string `json:"units" validate:"required,oneof=metric imperial"`
}

type unitsResponse struct {
	Units units.Mode `json:"units"`
}

func New(log *logger.Logger, dash Dashboard, opts Options) (*Server, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if dash == nil {
		return nil, fmt.Errorf("dashboard is required")
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return &Server{
		log:       log,
		dash:      dash,
		tiles:     opts.Tiles,
		metrics:   opts.Metrics,
		origins:   origins,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		facts:     NewFacts(),
		startedAt: time.Now(),
	}, nil
}

// Handler returns the router with all routes and middlewares.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(s.accessLog)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", s.handleHealth)
	if s.metrics != nil {
		router.Method(http.MethodGet, "/metrics", s.metrics)
	}
	router.Route("/api", func(r chi.Router) {
		r.Get("/weather", s.handleWeather)
		r.Get("/weather/current-location", s.handleCurrentLocation)
		r.Get("/weather/last", s.handleLast)
		r.Put("/units", s.handleSetUnits)
		r.Post("/units/toggle", s.handleToggleUnits)
		r.Get("/recent", s.handleRecent)
		r.Get("/facts/random", s.handleRandomFact)
		if s.tiles != nil {
			r.Get("/map/layers", s.handleLayers)
			r.Get("/map/tiles/{layer}/{z}/{x}/{y}.png", s.handleTile)
		}
	})
	return router
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Truncate(time.Second).String(),
	})
}

// handleWeather looks up a place by name (q) or by coordinate (lat and lon).
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Has("lat") || query.Has("lon") {
		coord, err := s.parseCoordinate(query.Get("lat"), query.Get("lon"))
		if err != nil {
			s.writeBadRequest(w, err.Error())
			return
		}
		view, err := s.dash.LookupByCoordinate(r.Context(), coord)
		s.writeView(w, r, view, err)
		return
	}

	name := strings.TrimSpace(query.Get("q"))
	if name == "" {
		s.writeBadRequest(w, "query parameter 'q' or 'lat' and 'lon' are required")
		return
	}
	view, err := s.dash.LookupByName(r.Context(), name)
	s.writeView(w, r, view, err)
}

func (s *Server) handleCurrentLocation(w http.ResponseWriter, r *http.Request) {
	view, err := s.dash.LookupCurrentLocation(r.Context())
	s.writeView(w, r, view, err)
}

func (s *Server) handleLast(w http.ResponseWriter, _ *http.Request) {
	view, ok := s.dash.Last()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "No weather data yet.", Kind: "no_snapshot"})
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleSetUnits(w http.ResponseWriter, r *http.Request) {
	req := new(unitsRequest)
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1024)).Decode(req); err != nil {
		s.writeBadRequest(w, "invalid request body")
		return
	}
	req.Units = strings.ToLower(strings.TrimSpace(req.Units))
	if err := s.validate.Struct(req); err != nil {
		s.writeBadRequest(w, "units must be 'metric' or 'imperial'")
		return
	}
	mode, err := units.ParseMode(req.Units)
	if err != nil {
		s.writeBadRequest(w, err.Error())
		return
	}

	view, err := s.dash.SetUnits(r.Context(), mode)
	s.writeUnitsResult(w, r, view, err)
}

func (s *Server) handleToggleUnits(w http.ResponseWriter, r *http.Request) {
	view, err := s.dash.ToggleUnits(r.Context())
	s.writeUnitsResult(w, r, view, err)
}

func (s *Server) handleRecent(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, presenter.Recents(s.dash.Recents()))
}

func (s *Server) handleRandomFact(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"fact": s.facts.Random()})
}

// writeUnitsResult answers a unit change. Without retained weather data there is nothing to
// re-fetch and only the new mode is returned.
func (s *Server) writeUnitsResult(w http.ResponseWriter, r *http.Request, view presenter.View, err error) {
	if errors.Is(err, dashboard.ErrNoSnapshot) {
		writeJSON(w, http.StatusOK, unitsResponse{Units: s.dash.Units()})
		return
	}
	s.writeView(w, r, view, err)
}

func (s *Server) writeView(w http.ResponseWriter, r *http.Request, view presenter.View, err error) {
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) parseCoordinate(latVal, lonVal string) (geo.Coordinate, error) {
	if latVal == "" || lonVal == "" {
		return geo.Coordinate{}, errors.New("lat and lon parameters are required")
	}
	lat, err := strconv.ParseFloat(latVal, 64)
	if err != nil {
		return geo.Coordinate{}, errors.New("invalid lat parameter")
	}
	lon, err := strconv.ParseFloat(lonVal, 64)
	if err != nil {
		return geo.Coordinate{}, errors.New("invalid lon parameter")
	}
	if err = s.validate.Struct(coordinateQuery{Lat: lat, Lon: lon}); err != nil {
		return geo.Coordinate{}, errors.New("lat must be within [-90,90] and lon within [-180,180]")
	}
	return geo.Coordinate{Lat: lat, Lon: lon}, nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug("http request", slog.String("method", r.Method), slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()), slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
