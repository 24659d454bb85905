// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package dashboard orchestrates weather lookups and holds the state of the single dashboard:
// the retained snapshot, the unit mode and the recent locations.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wneessen/weather-dashboard/internal/background"
	"github.com/wneessen/weather-dashboard/internal/condition"
	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/geocode"
	"github.com/wneessen/weather-dashboard/internal/locate"
	"github.com/wneessen/weather-dashboard/internal/logger"
	"github.com/wneessen/weather-dashboard/internal/metrics"
	"github.com/wneessen/weather-dashboard/internal/presenter"
	"github.com/wneessen/weather-dashboard/internal/recent"
	"github.com/wneessen/weather-dashboard/internal/units"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

// Lookup kinds, used as log attribute and metric label.
const (
	LookupName            = "name"
	LookupCoordinate      = "coordinate"
	LookupCurrentLocation = "current_location"
	LookupRefresh         = "refresh"
	LookupUnits           = "units"
)

// Display names used when the weather provider does not name the place.
const (
	CurrentLocationName  = "Current location"
	SelectedLocationName = "Selected Location"
)

var (
	// ErrSuperseded is returned by a lookup that completed after a newer lookup was issued. Its
	// result is discarded.
	ErrSuperseded = errors.New("lookup superseded by a newer request")
	// ErrNoSnapshot is returned when an operation needs a retained snapshot and there is none.
	ErrNoSnapshot = errors.New("no weather data retained")
	// ErrBusy is returned by Refresh while another lookup is in flight. The pending lookup is
	// left alone.
	ErrBusy = errors.New("lookup in progress, refresh skipped")
	// ErrInvalidCoordinate is returned for coordinates outside the valid latitude and longitude
	// range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// errUnitsChanged makes a lookup fetch again because the unit mode changed while it was in
	// flight.
	errUnitsChanged = errors.New("unit mode changed during lookup")
)

// Phase is the state of the latest lookup.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseResolvingLocation
	PhaseFetchingWeather
	PhaseSucceeded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseResolvingLocation:
		return "resolving_location"
	case PhaseFetchingWeather:
		return "fetching_weather"
	case PhaseSucceeded:
		return "succeeded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Options holds the collaborators of a Dashboard. Provider, Geocoder and Presenter are
// required.
type Options struct {
	Provider    weather.Provider
	Geocoder    geocode.Geocoder
	Locator     locate.Locator
	Backgrounds background.Resolver
	Presenter   *presenter.Presenter
	Recents     *recent.Cache
	Metrics     *metrics.Metrics
	Units       units.Mode
}

type Dashboard struct {
	log         *logger.Logger
	provider    weather.Provider
	geocoder    geocode.Geocoder
	locator     locate.Locator
	backgrounds background.Resolver
	presenter   *presenter.Presenter
	recents     *recent.Cache
	metrics     *metrics.Metrics

	mu       sync.Mutex
	seq      uint64
	inflight bool
	cancel   context.CancelFunc
	mode     units.Mode
	phase    Phase
	snapshot *weather.Snapshot
	view     *presenter.View
}

// target is what a lookup fetches weather for. name overrides the provider's place name,
// fallback is used when the provider reports none.
type target struct {
	coord    geo.Coordinate
	name     string
	fallback string
}

type resolver func(ctx context.Context, seq uint64) (target, error)

func New(log *logger.Logger, opts Options) (*Dashboard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if opts.Provider == nil {
		return nil, fmt.Errorf("weather provider is required")
	}
	if opts.Geocoder == nil {
		return nil, fmt.Errorf("geocoder is required")
	}
	if opts.Presenter == nil {
		return nil, fmt.Errorf("presenter is required")
	}
	if opts.Locator == nil {
		opts.Locator = locate.NewChain(log)
	}
	if opts.Backgrounds == nil {
		opts.Backgrounds = background.Theme{}
	}
	if opts.Recents == nil {
		opts.Recents = recent.New()
	}

	return &Dashboard{
		log:         log,
		provider:    opts.Provider,
		geocoder:    opts.Geocoder,
		locator:     opts.Locator,
		backgrounds: opts.Backgrounds,
		presenter:   opts.Presenter,
		recents:     opts.Recents,
		metrics:     opts.Metrics,
		mode:        opts.Units,
	}, nil
}

// LookupByName resolves query to a place and fetches its weather.
func (d *Dashboard) LookupByName(ctx context.Context, query string) (presenter.View, error) {
	query = strings.TrimSpace(query)
	return d.lookup(ctx, LookupName, nil, func(ctx context.Context, seq uint64) (target, error) {
		d.setPhase(seq, PhaseResolvingLocation)
		place, err := d.ResolveByName(ctx, query)
		if err != nil {
			return target{}, err
		}
		return target{coord: place.Coordinate, name: place.Name, fallback: query}, nil
	})
}

// LookupByCoordinate fetches the weather at coord, as done for a click on the map.
func (d *Dashboard) LookupByCoordinate(ctx context.Context, coord geo.Coordinate) (presenter.View, error) {
	if !coord.Valid() {
		return presenter.View{}, fmt.Errorf("%w: %s", ErrInvalidCoordinate, coord)
	}
	return d.lookup(ctx, LookupCoordinate, nil, func(context.Context, uint64) (target, error) {
		return target{coord: coord, fallback: SelectedLocationName}, nil
	})
}

// LookupCurrentLocation asks the locator for the current position and fetches its weather.
func (d *Dashboard) LookupCurrentLocation(ctx context.Context) (presenter.View, error) {
	return d.lookup(ctx, LookupCurrentLocation, nil, func(ctx context.Context, seq uint64) (target, error) {
		d.setPhase(seq, PhaseResolvingLocation)
		coord, err := d.locator.Locate(ctx)
		if err != nil {
			return target{}, err
		}
		return target{coord: coord, fallback: CurrentLocationName}, nil
	})
}

// Refresh re-fetches the weather of the retained snapshot. It never supersedes another lookup,
// while one is in flight ErrBusy is returned.
func (d *Dashboard) Refresh(ctx context.Context) (presenter.View, error) {
	if _, ok := d.Snapshot(); !ok {
		return presenter.View{}, ErrNoSnapshot
	}
	return d.lookup(ctx, LookupRefresh, nil, d.retained)
}

// SetUnits switches the unit mode and re-fetches the retained snapshot's coordinate in the new
// mode. The place name is never resolved again. Without a retained snapshot only the mode
// changes and ErrNoSnapshot is returned, a lookup in flight then fetches again in the new mode
// before it commits. The mode stays switched if the re-fetch fails.
func (d *Dashboard) SetUnits(ctx context.Context, mode units.Mode) (presenter.View, error) {
	return d.switchUnits(ctx, func(units.Mode) units.Mode { return mode })
}

// ToggleUnits is SetUnits with the other unit mode.
func (d *Dashboard) ToggleUnits(ctx context.Context) (presenter.View, error) {
	return d.switchUnits(ctx, units.Mode.Toggle)
}

// ResolveByName resolves query with the geocoder. An unknown place yields weather.ErrNotFound.
func (d *Dashboard) ResolveByName(ctx context.Context, query string) (geo.Place, error) {
	place, err := d.geocoder.Search(ctx, query)
	if err != nil {
		return geo.Place{}, err
	}
	d.log.Debug("place resolved", slog.String("query", query), slog.String("name", place.Name),
		slog.String("coordinate", place.Coordinate.String()), slog.Bool("cache_hit", place.CacheHit))
	return place, nil
}

// FetchByCoordinate requests the current conditions and the forecast at coord concurrently.
// Both must succeed, no partial snapshot is ever returned.
func (d *Dashboard) FetchByCoordinate(ctx context.Context, coord geo.Coordinate, mode units.Mode) (weather.Snapshot, error) {
	var current weather.Current
	var fcast weather.Forecast

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		current, err = d.provider.Current(gctx, coord, mode)
		return err
	})
	group.Go(func() error {
		var err error
		fcast, err = d.provider.Forecast(gctx, coord, mode)
		return err
	})
	if err := group.Wait(); err != nil {
		return weather.Snapshot{}, err
	}

	offset := current.UTCOffset
	if offset == 0 {
		offset = fcast.UTCOffset
	}
	return weather.Snapshot{
		Coordinates: coord,
		DisplayName: current.Name,
		Current:     current,
		Forecast:    fcast.Series,
		UTCOffset:   offset,
		Units:       mode,
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// Units returns the current unit mode.
func (d *Dashboard) Units() units.Mode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// Phase returns the state of the latest lookup.
func (d *Dashboard) Phase() Phase {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.phase
}

// Snapshot returns the retained snapshot, if any.
func (d *Dashboard) Snapshot() (weather.Snapshot, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.snapshot == nil {
		return weather.Snapshot{}, false
	}
	return *d.snapshot, true
}

// Last returns the view of the retained snapshot, if any.
func (d *Dashboard) Last() (presenter.View, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.view == nil {
		return presenter.View{}, false
	}
	return *d.view, true
}

// Recents returns the recently viewed locations, most recent first.
func (d *Dashboard) Recents() []recent.Entry {
	return d.recents.List()
}

func (d *Dashboard) switchUnits(ctx context.Context, next func(units.Mode) units.Mode) (presenter.View, error) {
	d.mu.Lock()
	mode := next(d.mode)
	d.mode = mode
	ok := d.snapshot != nil
	d.mu.Unlock()

	d.log.Debug("unit mode changed", slog.String("units", mode.String()))
	if !ok {
		return presenter.View{}, ErrNoSnapshot
	}
	return d.lookup(ctx, LookupUnits, &mode, d.retained)
}

// lookup runs one lookup from start to commit. mode overrides the dashboard's unit mode for
// this lookup if not nil.
func (d *Dashboard) lookup(ctx context.Context, kind string, mode *units.Mode, resolve resolver) (presenter.View, error) {
	start := time.Now()
	seq, ctx, cancel, lookupMode, err := d.begin(ctx, kind, mode)
	if err != nil {
		d.log.Debug("lookup skipped", slog.String("kind", kind), logger.Err(err))
		d.metrics.ObserveLookup(kind, "busy", start)
		return presenter.View{}, err
	}
	defer cancel()
	defer d.finish(seq)

	view, err := d.execute(ctx, seq, kind, lookupMode, resolve)
	result := metrics.ResultSuccess
	switch {
	case errors.Is(err, ErrSuperseded):
		result = "superseded"
	case err != nil:
		result = weather.Kind(err)
	}
	d.metrics.ObserveLookup(kind, result, start)
	return view, err
}

func (d *Dashboard) execute(ctx context.Context, seq uint64, kind string, mode units.Mode, resolve resolver) (presenter.View, error) {
	tgt, err := resolve(ctx, seq)
	if err != nil {
		return presenter.View{}, d.fail(seq, kind, err)
	}

	for {
		d.setPhase(seq, PhaseFetchingWeather)
		snap, err := d.FetchByCoordinate(ctx, tgt.coord, mode)
		if err != nil {
			return presenter.View{}, d.fail(seq, kind, err)
		}
		snap.DisplayName = tgt.displayName(snap.Current.Name)

		bg := d.backgrounds.Resolve(ctx, snap.DisplayName, snap.Current.ConditionMain)
		d.metrics.ObserveBackground(string(bg.Source))

		view, err := d.commit(seq, kind, snap, bg)
		if !errors.Is(err, errUnitsChanged) {
			return view, err
		}
		mode = d.Units()
		d.log.Debug("unit mode changed during lookup, fetching again", slog.String("kind", kind),
			slog.String("units", mode.String()))
	}
}

// begin issues a new sequence token and cancels the lookup in flight. A refresh does neither
// while a lookup is in flight and fails with ErrBusy.
func (d *Dashboard) begin(ctx context.Context, kind string, mode *units.Mode) (uint64, context.Context, context.CancelFunc, units.Mode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if kind == LookupRefresh && d.inflight {
		return 0, nil, nil, d.mode, ErrBusy
	}
	if d.cancel != nil {
		d.cancel()
	}
	d.seq++
	d.inflight = true
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	if mode != nil {
		d.mode = *mode
	}
	d.setPhaseLocked(d.seq, PhaseIdle)
	return d.seq, ctx, cancel, d.mode, nil
}

// finish marks the latest lookup as done.
func (d *Dashboard) finish(seq uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq == d.seq {
		d.inflight = false
	}
}

// commit replaces the retained snapshot, records the recent entry and stores the view, unless
// a newer lookup was issued in the meantime. A snapshot fetched in a unit mode that is no
// longer current is not committed, errUnitsChanged is returned instead.
func (d *Dashboard) commit(seq uint64, kind string, snap weather.Snapshot, bg background.Background) (presenter.View, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		d.log.Debug("discarding superseded lookup", slog.String("kind", kind), slog.Uint64("seq", seq))
		return presenter.View{}, ErrSuperseded
	}
	if snap.Units != d.mode {
		return presenter.View{}, errUnitsChanged
	}

	entry := recent.Entry{
		DisplayName:      snap.DisplayName,
		Temperature:      snap.Current.Temperature,
		ConditionSummary: snap.Current.ConditionDescription,
		IconKey:          condition.Icon(condition.Classify(snap.Current.ConditionMain)),
		Units:            snap.Units,
	}
	view, err := d.presenter.BuildView(snap, bg, d.recents.Preview(entry))
	if err != nil {
		d.setPhaseLocked(seq, PhaseFailed)
		d.log.Error("failed to build weather view", slog.String("kind", kind), logger.Err(err))
		return presenter.View{}, err
	}

	d.snapshot = &snap
	d.view = &view
	d.recents.Record(entry)
	d.setPhaseLocked(seq, PhaseSucceeded)
	d.log.Info("weather lookup succeeded", slog.String("kind", kind), slog.String("name", snap.DisplayName),
		slog.String("coordinate", snap.Coordinates.String()), slog.String("units", snap.Units.String()))
	return view, nil
}

// fail records a failed lookup. A lookup that was superseded reports ErrSuperseded instead of
// its own error, which usually is the cancellation caused by the newer lookup.
func (d *Dashboard) fail(seq uint64, kind string, err error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if seq != d.seq {
		d.log.Debug("discarding superseded lookup", slog.String("kind", kind), slog.Uint64("seq", seq),
			logger.Err(err))
		return ErrSuperseded
	}
	d.setPhaseLocked(seq, PhaseFailed)
	d.log.Warn("weather lookup failed", slog.String("kind", kind), slog.String("failure", weather.Kind(err)),
		logger.Err(err))
	return err
}

func (d *Dashboard) setPhase(seq uint64, phase Phase) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setPhaseLocked(seq, phase)
}

func (d *Dashboard) setPhaseLocked(seq uint64, phase Phase) {
	if seq != d.seq {
		return
	}
	d.phase = phase
	d.metrics.ObservePhase(phase.String())
	d.log.Debug("lookup phase changed", slog.Uint64("seq", seq), slog.String("phase", phase.String()))
}

// retained resolves to the snapshot retained when the lookup starts.
func (d *Dashboard) retained(context.Context, uint64) (target, error) {
	snap, ok := d.Snapshot()
	if !ok {
		return target{}, ErrNoSnapshot
	}
	return target{coord: snap.Coordinates, name: snap.DisplayName}, nil
}

func (t target) displayName(providerName string) string {
	switch {
	case t.name != "":
		return t.name
	case providerName != "":
		return providerName
	default:
		return t.fallback
	}
}
