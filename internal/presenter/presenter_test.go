// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vorlif/spreak"

	"github.com/wneessen/weather-dashboard/internal/background"
	"github.com/wneessen/weather-dashboard/internal/condition"
	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/geo"
	"github.com/wneessen/weather-dashboard/internal/i18n"
	"github.com/wneessen/weather-dashboard/internal/recent"
	"github.com/wneessen/weather-dashboard/internal/template"
	"github.com/wneessen/weather-dashboard/internal/units"
	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

var (
	fetchedAt = time.Date(2025, time.October, 14, 12, 0, 0, 0, time.UTC)
	sunriseAt = time.Date(2025, time.October, 14, 6, 27, 0, 0, time.UTC)
	sunsetAt  = time.Date(2025, time.October, 14, 17, 10, 0, 0, time.UTC)
	london    = geo.Coordinate{Lat: 51.5074, Lon: -0.1278}
	bgTheme   = background.Background{Source: background.SourceTheme, Theme: condition.ThemeRainy}
)

func TestNew(t *testing.T) {
	t.Run("creating a new presenter succeeds", func(t *testing.T) {
		conf, lang := testConfLang(t, "en")
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if pres == nil {
			t.Fatal("expected presenter to be non-nil")
		}
	})
	t.Run("creating presenter with invalid templates fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(conf *config.Config)
		}{
			{"summary", func(conf *config.Config) { conf.Templates.Summary = "{{invalid" }},
			{"popup", func(conf *config.Config) { conf.Templates.Popup = "{{invalid" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t, "en")
				tt.templateFn(conf)
				_, err := New(conf, lang)
				if err == nil {
					t.Fatal("expected presenter to fail, but didn't")
				}
				wantErr := "failed to parse"
				if !strings.Contains(err.Error(), wantErr) {
					t.Errorf("expected error to contain %q, got %q", wantErr, err)
				}
			})
		}
	})
	t.Run("creating presenter with template execution errors fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(conf *config.Config)
		}{
			{"summary", func(conf *config.Config) { conf.Templates.Summary = "{{.Data}}" }},
			{"popup", func(conf *config.Config) { conf.Templates.Popup = "{{.Data}}" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t, "en")
				tt.templateFn(conf)
				_, err := New(conf, lang)
				if err == nil {
					t.Fatal("expected presenter to fail, but didn't")
				}
				wantErr := "failed to render"
				if !strings.Contains(err.Error(), wantErr) {
					t.Errorf("expected error to contain %q, got %q", wantErr, err)
				}
			})
		}
	})
}

func TestPresenter_BuildView(t *testing.T) {
	t.Run("current conditions are formatted", func(t *testing.T) {
		view := testView(t, "en", testSnapshot(units.Metric), nil)
		want := CurrentView{
			Temperature: "12°C",
			FeelsLike:   "11°C",
			Humidity:    "81%",
			Wind:        "4 m/s",
			Description: "light rain",
			Condition:   "rain",
			Icon:        "fas fa-cloud-showers-heavy text-primary",
			Emoji:       condition.Emoji(condition.Rain),
			Sunrise:     "06:27 AM",
			Sunset:      "05:10 PM",
		}
		if diff := cmp.Diff(want, view.Current); diff != "" {
			t.Errorf("current view mismatch (-want +got):\n%s", diff)
		}
		if view.DisplayName != "London" {
			t.Errorf("expected display name to be %q, got %q", "London", view.DisplayName)
		}
		if view.Icon != want.Icon {
			t.Errorf("expected icon to be %q, got %q", want.Icon, view.Icon)
		}
		if view.Background != bgTheme {
			t.Errorf("expected background to be passed through, got %+v", view.Background)
		}
	})
	t.Run("imperial snapshot uses imperial units", func(t *testing.T) {
		snap := testSnapshot(units.Imperial)
		snap.Current.Temperature = 71.6
		snap.Current.WindSpeed = vartype.NewVariable(9.8)
		view := testView(t, "en", snap, nil)
		if view.Current.Temperature != "72°F" {
			t.Errorf("expected temperature to be %q, got %q", "72°F", view.Current.Temperature)
		}
		if view.Current.Wind != "10 mph" {
			t.Errorf("expected wind to be %q, got %q", "10 mph", view.Current.Wind)
		}
		if view.Units != units.Imperial {
			t.Errorf("expected units to be imperial, got %s", view.Units)
		}
	})
	t.Run("missing optional values render placeholder", func(t *testing.T) {
		snap := testSnapshot(units.Metric)
		snap.Current.FeelsLike = vartype.VarFloat64{}
		snap.Current.Humidity = vartype.VarInt{}
		snap.Current.WindSpeed = vartype.VarFloat64{}
		snap.Current.ConditionDescription = ""
		view := testView(t, "en", snap, nil)
		for name, got := range map[string]string{
			"feels like":  view.Current.FeelsLike,
			"humidity":    view.Current.Humidity,
			"wind":        view.Current.Wind,
			"description": view.Current.Description,
		} {
			if got != vartype.Placeholder {
				t.Errorf("expected %s to be the placeholder, got %q", name, got)
			}
		}
	})
	t.Run("hourly forecast holds the first eight samples", func(t *testing.T) {
		view := testView(t, "en", testSnapshot(units.Metric), nil)
		if len(view.Hourly) != 8 {
			t.Fatalf("expected 8 hourly entries, got %d", len(view.Hourly))
		}
		want := HourlyView{Time: "12:00", Icon: condition.Icon(condition.Rain), Temperature: "11°C"}
		if diff := cmp.Diff(want, view.Hourly[0]); diff != "" {
			t.Errorf("first hourly entry mismatch (-want +got):\n%s", diff)
		}
		if view.Hourly[7].Time != "09:00" {
			t.Errorf("expected last hourly entry at 09:00, got %s", view.Hourly[7].Time)
		}
	})
	t.Run("daily forecast groups by date", func(t *testing.T) {
		view := testView(t, "en", testSnapshot(units.Metric), nil)
		if len(view.Daily) != 2 {
			t.Fatalf("expected 2 daily entries, got %d", len(view.Daily))
		}
		first := view.Daily[0]
		if first.Date != "2025-10-14" {
			t.Errorf("expected first date to be 2025-10-14, got %s", first.Date)
		}
		if first.Icon != condition.Icon(condition.Rain) {
			t.Errorf("expected noon sample icon, got %q", first.Icon)
		}
		// 11, 12, 10, 9 averages to 10.5
		if first.Temperature != "11°C" {
			t.Errorf("expected rounded mean of 11°C, got %s", first.Temperature)
		}
		if first.Label == "" {
			t.Error("expected a localized date label")
		}
		if view.Daily[1].Icon != condition.Icon(condition.Clear) {
			t.Errorf("expected second day noon icon to be clear, got %q", view.Daily[1].Icon)
		}
	})
	t.Run("empty forecast yields empty lists", func(t *testing.T) {
		snap := testSnapshot(units.Metric)
		snap.Forecast = nil
		view := testView(t, "en", snap, nil)
		if view.Hourly == nil || len(view.Hourly) != 0 {
			t.Errorf("expected empty hourly list, got %v", view.Hourly)
		}
		if view.Daily == nil || len(view.Daily) != 0 {
			t.Errorf("expected empty daily list, got %v", view.Daily)
		}
	})
	t.Run("summary and popup are rendered", func(t *testing.T) {
		view := testView(t, "en", testSnapshot(units.Metric), nil)
		wantSummary := template.EmojiWithSpace(condition.Emoji(condition.Rain)) + "12°C Light Rain, London"
		if view.Summary != wantSummary {
			t.Errorf("expected summary to be %q, got %q", wantSummary, view.Summary)
		}
		for _, want := range []string{"<b>London</b>", "Light Rain", "12°C", "4 m/s", "81%", "Lat: 51.51", "Lon: -0.13"} {
			if !strings.Contains(view.Popup, want) {
				t.Errorf("expected popup to contain %q, got %q", want, view.Popup)
			}
		}
	})
	t.Run("popup escapes the place name", func(t *testing.T) {
		snap := testSnapshot(units.Metric)
		snap.DisplayName = "<i>Evil</i>"
		view := testView(t, "en", snap, nil)
		if strings.Contains(view.Popup, "<i>") {
			t.Errorf("expected place name to be escaped, got %q", view.Popup)
		}
	})
	t.Run("suggestion is localized", func(t *testing.T) {
		view := testView(t, "de", testSnapshot(units.Metric), nil)
		want := SuggestionView{
			Text:     "Heute regnet es, bleib drinnen oder nimm einen Regenschirm mit!",
			Clothing: "Empfehlung: Regenjacke, Regenschirm, wasserdichte Schuhe.",
		}
		if diff := cmp.Diff(want, view.Suggestion); diff != "" {
			t.Errorf("suggestion mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("suggestion uses the rounded temperature", func(t *testing.T) {
		snap := testSnapshot(units.Metric)
		snap.Current.ConditionMain = "Clear"
		snap.Current.Temperature = 25.4
		view := testView(t, "en", snap, nil)
		if view.Suggestion.Text != "Weather is moderate, enjoy your day!" {
			t.Errorf("expected moderate suggestion, got %q", view.Suggestion.Text)
		}
	})
	t.Run("astro data is set", func(t *testing.T) {
		view := testView(t, "en", testSnapshot(units.Metric), nil)
		if !view.Astro.IsDay {
			t.Error("expected noon to be daytime")
		}
		if view.Astro.MoonPhaseIcon == "" {
			t.Error("expected a moon phase icon")
		}
		if view.Astro.Sunrise != "06:27 AM" || view.Astro.Sunset != "05:10 PM" {
			t.Errorf("unexpected sun times %q / %q", view.Astro.Sunrise, view.Astro.Sunset)
		}
	})
	t.Run("missing sun times are computed", func(t *testing.T) {
		snap := testSnapshot(units.Metric)
		snap.Current.Sunrise = time.Time{}
		snap.Current.Sunset = time.Time{}
		view := testView(t, "en", snap, nil)
		if view.Current.Sunrise == vartype.Placeholder || view.Current.Sunset == vartype.Placeholder {
			t.Errorf("expected computed sun times, got %q / %q", view.Current.Sunrise, view.Current.Sunset)
		}
		if !strings.HasSuffix(view.Current.Sunrise, "AM") {
			t.Errorf("expected a morning sunrise in London, got %q", view.Current.Sunrise)
		}
	})
	t.Run("recents keep their own units", func(t *testing.T) {
		recents := []recent.Entry{
			{DisplayName: "Paris", Temperature: 71.6, ConditionSummary: "clear sky", IconKey: "fas fa-sun text-warning", Units: units.Imperial},
			{DisplayName: "London", Temperature: 12.4, ConditionSummary: "light rain", IconKey: "fas fa-cloud-showers-heavy text-primary", Units: units.Metric},
		}
		view := testView(t, "en", testSnapshot(units.Metric), recents)
		want := []RecentView{
			{DisplayName: "Paris", Temperature: "72°F", Condition: "clear sky", Icon: "fas fa-sun text-warning"},
			{DisplayName: "London", Temperature: "12°C", Condition: "light rain", Icon: "fas fa-cloud-showers-heavy text-primary"},
		}
		if diff := cmp.Diff(want, view.Recent); diff != "" {
			t.Errorf("recents mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMoonPhaseIcon(t *testing.T) {
	want := "🌔"
	if got := MoonPhaseIcon["Waxing Gibbous"]; got != want {
		t.Errorf("expected moon phase icon to be %q, got %q", want, got)
	}
	if len(MoonPhaseIcon) != 8 {
		t.Errorf("expected 8 moon phases, got %d", len(MoonPhaseIcon))
	}
}

func testView(t *testing.T, lang string, snap weather.Snapshot, recents []recent.Entry) View {
	t.Helper()
	conf, loc := testConfLang(t, lang)
	pres, err := New(conf, loc)
	if err != nil {
		t.Fatalf("failed to create presenter: %s", err)
	}
	view, err := pres.BuildView(snap, bgTheme, recents)
	if err != nil {
		t.Fatalf("failed to build view: %s", err)
	}
	return view
}

func testSnapshot(mode units.Mode) weather.Snapshot {
	conds := []struct {
		main string
		temp float64
	}{
		{"Rain", 11}, {"Clouds", 12}, {"Clouds", 10}, {"Clear", 9}, {"Clear", 8},
		{"Clear", 7}, {"Clouds", 9}, {"Clear", 13}, {"Clear", 15}, {"Snow", 14},
	}
	series := make(weather.Series, 0, len(conds))
	for i, c := range conds {
		series = append(series, weather.Sample{
			Time:          fetchedAt.Add(time.Duration(i*3) * time.Hour),
			Temperature:   c.temp,
			ConditionMain: c.main,
		})
	}
	return weather.Snapshot{
		Coordinates: london,
		DisplayName: "London",
		Current: weather.Current{
			Time:                 fetchedAt,
			Coordinates:          london,
			Name:                 "London",
			Temperature:          12.4,
			ConditionMain:        "Rain",
			ConditionDescription: "light rain",
			FeelsLike:            vartype.NewVariable(11.2),
			Humidity:             vartype.NewVariable(81),
			WindSpeed:            vartype.NewVariable(4.12),
			Sunrise:              sunriseAt,
			Sunset:               sunsetAt,
		},
		Forecast:  series,
		Units:     mode,
		FetchedAt: fetchedAt,
	}
}

func testConfLang(t *testing.T, lang string) (*config.Config, *spreak.Localizer) {
	t.Helper()
	conf, err := config.New()
	if err != nil {
		t.Fatalf("failed to create config: %s", err)
	}
	conf.Display.Timezone = "UTC"
	loc, err := i18n.New(lang)
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	return conf, loc
}
