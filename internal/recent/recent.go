// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package recent keeps the list of recently viewed locations.
package recent

import (
	"sync"

	"github.com/wneessen/weather-dashboard/internal/units"
)

// MaxEntries is the maximum number of locations kept.
const MaxEntries = 5

// Entry is a recently viewed location. Temperature is measured in Units.
type Entry struct {
	DisplayName      string
	Temperature      float64
	ConditionSummary string
	IconKey          string
	Units            units.Mode
}

// Cache holds the recent locations, most recent first. The zero value is not usable, use New.
type Cache struct {
	max     int
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty cache holding up to MaxEntries places.
func New() *Cache {
	return &Cache{max: MaxEntries, entries: make([]Entry, 0, MaxEntries+1)}
}

// Record moves entry to the front. An existing entry with the exact same display name is
// replaced.
func (c *Cache) Record(entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = prepend(c.entries, entry, c.max)
}

// Preview returns the list as it would be after recording entry, without recording it.
func (c *Cache) Preview(entry Entry) []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return prepend(c.entries, entry, c.max)
}

func prepend(current []Entry, entry Entry, limit int) []Entry {
	entries := make([]Entry, 0, limit+1)
	entries = append(entries, entry)
	for _, e := range current {
		if e.DisplayName == entry.DisplayName {
			continue
		}
		entries = append(entries, e)
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

// List returns a copy of the entries, most recent first.
func (c *Cache) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of remembered places.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
