// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package locate

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/stratoberry/go-gpsd"

	"github.com/wneessen/weather-dashboard/internal/geo"
)

const (
	GPSDHost        = "localhost"
	GPSDPort        = "2947"
	GPSDWaitTimeout = time.Second * 5
)

// GPSD waits for the first 2D fix reported by a gpsd daemon.
type GPSD struct {
	addr    string
	timeout time.Duration
}

func NewGPSD(host, port string, timeout time.Duration) *GPSD {
	if host == "" {
		host = GPSDHost
	}
	if port == "" {
		port = GPSDPort
	}
	if timeout <= 0 {
		timeout = GPSDWaitTimeout
	}
	return &GPSD{addr: net.JoinHostPort(host, port), timeout: timeout}
}

func (g *GPSD) Name() string {
	return "gpsd"
}

func (g *GPSD) Locate(ctx context.Context) (geo.Coordinate, error) {
	session, err := gpsd.Dial(g.addr)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("failed to connect to gpsd at %q: %w", g.addr, err)
	}
	defer func() { _ = session.Close() }()

	fixes := make(chan geo.Coordinate, 1)
	session.AddFilter("TPV", func(r interface{}) {
		tpv, ok := r.(*gpsd.TPVReport)
		if !ok || tpv.Mode < gpsd.Mode2D {
			return
		}
		select {
		case fixes <- geo.Coordinate{Lat: tpv.Lat, Lon: tpv.Lon}:
		default:
		}
	})
	// The watcher only returns once the socket is closed and blocks until done is read.
	done := session.Watch()
	closed := make(chan struct{})
	go func() {
		<-done
		close(closed)
	}()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()
	select {
	case coord := <-fixes:
		return coord, nil
	case <-closed:
		return geo.Coordinate{}, fmt.Errorf("gpsd connection closed before a fix was reported")
	case <-timer.C:
		return geo.Coordinate{}, fmt.Errorf("no 2D fix from gpsd within %s", g.timeout)
	case <-ctx.Done():
		return geo.Coordinate{}, ctx.Err()
	}
}
