// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

type signalSource interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// stdLibSignalSource is the production implementation.
type stdLibSignalSource struct{}

func (stdLibSignalSource) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (stdLibSignalSource) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// HandleSignals refreshes the weather data on SIGUSR1 and logs the retained location on SIGUSR2
func (s *Service) HandleSignals(ctx context.Context, sigChan chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigChan:
			switch sig {
			case syscall.SIGUSR1:
				s.refresh(ctx)
			case syscall.SIGUSR2:
				snap, ok := s.dashboard.Snapshot()
				if !ok {
					s.logger.Info("no location retained yet")
					continue
				}
				s.logger.Info("currently retained location", slog.String("display_name", snap.DisplayName),
					slog.Float64("latitude", snap.Coordinates.Lat), slog.Float64("longitude", snap.Coordinates.Lon),
					slog.String("units", snap.Units.String()))
			}
		}
	}
}
