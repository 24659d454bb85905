// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors of the dashboard.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weather_dashboard"

// ResultSuccess is the result label of a successful lookup. Failed lookups are labeled with
// their failure kind.
const ResultSuccess = "success"

type Metrics struct {
	gatherer prometheus.Gatherer

	lookups     *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	phases      *prometheus.CounterVec
	backgrounds *prometheus.CounterVec
}

// New creates the collectors and registers them with a fresh registry. Go runtime and process
// collectors are registered alongside.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Total weather lookups by lookup kind and result.",
		}, []string{"kind", "result"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of weather lookups by lookup kind.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		phases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_phase_transitions_total",
			Help:      "Total lookup state transitions by entered phase.",
		}, []string{"phase"}),
		backgrounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backgrounds_total",
			Help:      "Total resolved backgrounds by source.",
		}, []string{"source"}),
	}

	cs := []prometheus.Collector{
		m.lookups, m.durations, m.phases, m.backgrounds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	var errs []error
	for _, c := range cs {
		if err := reg.Register(c); err != nil {
			errs = append(errs, err)
		}
	}
	return m, errors.Join(errs...)
}

// ObserveLookup records a finished lookup of kind that started at start.
func (m *Metrics) ObserveLookup(kind, result string, start time.Time) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(kind, result).Inc()
	m.durations.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObservePhase(phase string) {
	if m == nil {
		return
	}
	m.phases.WithLabelValues(phase).Inc()
}

func (m *Metrics) ObserveBackground(source string) {
	if m == nil {
		return
	}
	m.backgrounds.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Gatherer returns the registry the collectors are registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}
