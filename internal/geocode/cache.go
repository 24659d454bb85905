// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package geocode

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

type cacheKey struct {
	Provider string
	Query    string
}

type cacheEntry struct {
	Place  geo.Place
	Found  bool
	Expiry time.Time
}

type CachedGeocoder struct {
	coder   Geocoder
	ttlHit  time.Duration
	ttlMiss time.Duration

	mu    sync.RWMutex
	cache map[cacheKey]cacheEntry
}

func NewCachedGeocoder(coder Geocoder, ttlHit, ttlMiss time.Duration) *CachedGeocoder {
	return &CachedGeocoder{
		coder:   coder,
		ttlHit:  ttlHit,
		ttlMiss: ttlMiss,
		cache:   make(map[cacheKey]cacheEntry),
	}
}

func (c *CachedGeocoder) Name() string {
	return "geocoder cache using " + c.coder.Name()
}

// Search resolves query through the wrapped geocoder. Found places are kept for ttlHit and
// names the provider does not know are remembered as not found for ttlMiss. Other errors
// are never cached.
func (c *CachedGeocoder) Search(ctx context.Context, query string) (geo.Place, error) {
	key := newKey(c.coder.Name(), query)

	c.mu.RLock()
	entry, ok := c.cache[key]
	if ok && time.Now().Before(entry.Expiry) {
		c.mu.RUnlock()
		if !entry.Found {
			return geo.Place{CacheHit: true}, weather.ErrNotFound
		}
		place := entry.Place
		place.CacheHit = true
		return place, nil
	}
	c.mu.RUnlock()

	place, err := c.coder.Search(ctx, query)
	notFound := errors.Is(err, weather.ErrNotFound)
	if err != nil && !notFound {
		return place, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttlHit
	if notFound {
		ttl = c.ttlMiss
	}
	c.cache[key] = cacheEntry{
		Place:  place,
		Found:  !notFound,
		Expiry: time.Now().Add(ttl),
	}

	return place, err
}

func newKey(provider, query string) cacheKey {
	return cacheKey{
		Provider: provider,
		Query:    strings.ToLower(strings.Join(strings.Fields(query), " ")),
	}
}
