// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create metrics: %s", err)
	}
	if m.Gatherer() == nil {
		t.Fatal("expected gatherer to be non-nil")
	}
}

func TestMetrics_Observe(t *testing.T) {
	t.Run("lookups are counted by kind and result", func(t *testing.T) {
		m := testMetrics(t)
		m.ObserveLookup("name", ResultSuccess, time.Now())
		m.ObserveLookup("name", ResultSuccess, time.Now())
		m.ObserveLookup("name", "not_found", time.Now())

		if got := counterValue(t, m, "weather_dashboard_lookups_total", map[string]string{
			"kind": "name", "result": ResultSuccess,
		}); got != 2 {
			t.Errorf("expected 2 successful lookups, got %f", got)
		}
		if got := counterValue(t, m, "weather_dashboard_lookups_total", map[string]string{
			"kind": "name", "result": "not_found",
		}); got != 1 {
			t.Errorf("expected 1 failed lookup, got %f", got)
		}
	})
	t.Run("backgrounds are counted by source", func(t *testing.T) {
		m := testMetrics(t)
		m.ObserveBackground("theme")
		if got := counterValue(t, m, "weather_dashboard_backgrounds_total", map[string]string{
			"source": "theme",
		}); got != 1 {
			t.Errorf("expected 1 theme background, got %f", got)
		}
	})
	t.Run("nil metrics ignore observations", func(t *testing.T) {
		var m *Metrics
		m.ObserveLookup("name", ResultSuccess, time.Now())
		m.ObservePhase("idle")
		m.ObserveBackground("theme")
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := testMetrics(t)
	m.ObservePhase("fetching_weather")

	srv := httptest.NewServer(m.Handler())
	t.Cleanup(srv.Close)
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %s", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("failed to request metrics: %s", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %s", err)
	}
	want := `weather_dashboard_lookup_phase_transitions_total{phase="fetching_weather"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("expected exposition to contain %q", want)
	}
}

func testMetrics(t *testing.T) *Metrics {
	t.Helper()
	m, err := New()
	if err != nil {
		t.Fatalf("failed to create metrics: %s", err)
	}
	return m
}

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Gatherer().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %s", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			matched := 0
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] == pair.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}
