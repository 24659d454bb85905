// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the weather dashboard together and runs its HTTP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	stdhttp "net/http"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/dashboard"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/httpapi"
	"github.com/wneessen/weather-dashboard/internal/job"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/metrics"
	"github.com/wneessen/weather-dashboard/internal/presenter"
	"github.com/wneessen/weather-dashboard/internal/units"
)

const (
	RefreshJobName    = "weather_refresh_job"
	readHeaderTimeout = time.Second * 10
)

type Service struct {
	SignalSrc signalSource

	config    *config.Config
	logger    *logger.Logger
	t         *spreak.Localizer
	apiClient *http.Client
	rawClient *http.Client
	dashboard *dashboard.Dashboard
	metrics   *metrics.Metrics
	server    *httpapi.Server
	jobs      []*job.Job
	output    io.Writer

	addrLock sync.RWMutex
	addr     net.Addr
}

func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer) (*Service, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if conf == nil {
		return nil, fmt.Errorf("config is required")
	}
	if t == nil {
		return nil, fmt.Errorf("localizer is required")
	}
	mode, err := units.ParseMode(conf.Units)
	if err != nil {
		return nil, err
	}

	service := &Service{
		SignalSrc: stdLibSignalSource{},
		config:    conf,
		logger:    log,
		t:         t,
		apiClient: http.New(log).WithRateLimit(conf.OpenWeatherMap.RateLimit, conf.OpenWeatherMap.RateBurst),
		rawClient: http.New(log),
		output:    os.Stdout,
	}

	provider, err := service.selectWeatherProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to create weather provider: %w", err)
	}
	pres, err := presenter.New(conf, t)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	service.metrics, err = metrics.New()
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	locator := service.selectLocator()
	log.Debug("geolocation providers enabled", slog.Any("providers", locator.Names()))
	service.dashboard, err = dashboard.New(log, dashboard.Options{
		Provider:    provider,
		Geocoder:    service.selectGeocoder(t.Language()),
		Locator:     locator,
		Backgrounds: service.selectBackground(),
		Presenter:   pres,
		Metrics:     service.metrics,
		Units:       mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard: %w", err)
	}

	service.server, err = httpapi.New(log, service.dashboard, httpapi.Options{
		AllowedOrigins: conf.Server.AllowedOrigins,
		Tiles:          service.selectTileProxy(),
		Metrics:        service.metrics.Handler(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP API: %w", err)
	}

	service.jobs = append(service.jobs, job.New(RefreshJobName, conf.Intervals.Refresh, service.refresh))
	return service, nil
}

// Run serves the HTTP API until the context is cancelled and then shuts the server down
// gracefully.
func (s *Service) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	s.setAddr(listener.Addr())

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	server := &stdhttp.Server{
		Handler:           s.server.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return runCtx },
	}

	var wg sync.WaitGroup
	for _, j := range s.jobs {
		if j == nil {
			continue
		}
		wg.Go(func() {
			if err := j.Start(runCtx); err != nil {
				s.logger.Error("scheduled job failed", slog.String("job", j.Name()), logger.Err(err))
			}
		})
	}

	sigChan := make(chan os.Signal, 1)
	s.SignalSrc.Notify(sigChan, syscall.SIGUSR1, syscall.SIGUSR2)
	wg.Go(func() {
		defer s.SignalSrc.Stop(sigChan)
		s.HandleSignals(runCtx, sigChan)
	})

	if s.config.DefaultCity != "" {
		wg.Go(func() { s.lookupDefaultCity(runCtx) })
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.Serve(listener) }()
	s.logger.Info(s.t.Get("http server listening"), slog.String("addr", listener.Addr().String()))

	var runErr error
	select {
	case <-ctx.Done():
	case err = <-serveErr:
		if !errors.Is(err, stdhttp.ErrServerClosed) {
			runErr = fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.WithoutCancel(ctx), s.config.Timeouts.Shutdown)
	defer cancelShutdown()
	if err = server.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to shut down http server: %w", err)
	}
	cancelRun()
	wg.Wait()

	return runErr
}

// Addr returns the address the HTTP server listens on, or nil if it has not been started.
func (s *Service) Addr() net.Addr {
	s.addrLock.RLock()
	defer s.addrLock.RUnlock()
	return s.addr
}

func (s *Service) setAddr(addr net.Addr) {
	s.addrLock.Lock()
	s.addr = addr
	s.addrLock.Unlock()
}
