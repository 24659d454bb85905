// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package background picks the dashboard background for a place and its weather condition.
package background

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wneessen/weather-dashboard/internal/condition"
	"github.com/wneessen/weather-dashboard/internal/http"
	"github.com/wneessen/weather-dashboard/internal/logger"
)

const (
	UnsplashEndpoint = "https://api.unsplash.com/photos/random"
	DefaultTimeout   = time.Second * 5

	// breakerTrips is the number of consecutive failures that open the circuit
	breakerTrips = 3
)

// Source tells where a background came from.
type Source string

const (
	SourceImage Source = "image"
	SourceTheme Source = "theme"
)

// Background is either a photo URL or, as fallback, a condition theme. Theme is always set.
type Background struct {
	Source   Source `json:"source"`
	ImageURL string `json:"image_url,omitempty"`
	Credit   string `json:"credit,omitempty"`
	Theme    string `json:"theme"`
}

// Resolver returns the background for a place. It never fails, errors fall back to the
// condition theme.
type Resolver interface {
	Resolve(ctx context.Context, place, conditionMain string) Background
}

// Theme is the Resolver that always returns the condition theme.
type Theme struct{}

func (Theme) Resolve(_ context.Context, _, conditionMain string) Background {
	return themeFor(conditionMain)
}

// Unsplash looks up a random landscape photo matching place and condition.
type Unsplash struct {
	accessKey string
	timeout   time.Duration
	http      *http.Client
	log       *logger.Logger
	breaker   *gobreaker.CircuitBreaker
}

type unsplashPhoto struct {
	URLs struct {
		Regular string `json:"regular"`
	} `json:"urls"`
	User struct {
		Name string `json:"name"`
	} `json:"user"`
}

func NewUnsplash(client *http.Client, log *logger.Logger, accessKey string, timeout time.Duration) *Unsplash {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "unsplash",
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTrips
		},
		// a lookup superseded by the caller says nothing about Unsplash
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit breaker state changed", slog.String("breaker", name),
				slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
	return &Unsplash{
		accessKey: accessKey,
		timeout:   timeout,
		http:      client,
		log:       log,
		breaker:   breaker,
	}
}

func (u *Unsplash) Resolve(ctx context.Context, place, conditionMain string) Background {
	photo, err := u.random(ctx, strings.TrimSpace(place+" "+conditionMain))
	if err != nil {
		u.log.Debug("falling back to condition theme", slog.String("place", place), logger.Err(err))
		return themeFor(conditionMain)
	}

	bg := themeFor(conditionMain)
	bg.Source = SourceImage
	bg.ImageURL = photo.URLs.Regular
	bg.Credit = photo.User.Name
	return bg
}

func (u *Unsplash) random(ctx context.Context, query string) (*unsplashPhoto, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := u.breaker.Execute(func() (interface{}, error) {
		values := url.Values{}
		values.Set("query", query)
		values.Set("orientation", "landscape")
		values.Set("client_id", u.accessKey)

		photo := new(unsplashPhoto)
		if _, err := u.http.GetWithTimeout(ctx, UnsplashEndpoint, photo, values, nil, u.timeout); err != nil {
			return nil, err
		}
		if photo.URLs.Regular == "" {
			return nil, errors.New("no usable photo returned")
		}
		return photo, nil
	})
	if err != nil {
		return nil, fmt.Errorf("unsplash lookup failed: %w", err)
	}
	photo, ok := result.(*unsplashPhoto)
	if !ok {
		return nil, errors.New("unexpected result type from circuit breaker")
	}
	return photo, nil
}

func themeFor(conditionMain string) Background {
	return Background{
		Source: SourceTheme,
		Theme:  condition.Theme(condition.Classify(conditionMain)),
	}
}
