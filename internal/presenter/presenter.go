// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter turns a weather snapshot into the render-ready view the dashboard serves.
package presenter

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/weather-dashboard/internal/background"
	"github.com/wneessen/weather-dashboard/internal/condition"
	"github.com/wneessen/weather-dashboard/internal/config"
	"github.com/wneessen/weather-dashboard/internal/forecast"
	"github.com/wneessen/weather-dashboard/internal/recent"
	"github.com/wneessen/weather-dashboard/internal/template"
	"github.com/wneessen/weather-dashboard/internal/units"
	"github.com/wneessen/weather-dashboard/internal/vartype"
	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	DateKeyFormat = "2006-01-02"
	HourFormat    = "15:04"
	SunFormat     = "03:04 PM"
)

// CurrentView holds the formatted current conditions.
type CurrentView struct {
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feels_like"`
	Humidity    string `json:"humidity"`
	Wind        string `json:"wind"`
	Description string `json:"description"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
	Emoji       string `json:"emoji"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
}

type HourlyView struct {
	Time        string `json:"time"`
	Icon        string `json:"icon"`
	Temperature string `json:"temperature"`
}

type DailyView struct {
	Date        string `json:"date"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Temperature string `json:"temperature"`
}

type SuggestionView struct {
	Text     string `json:"text"`
	Clothing string `json:"clothing"`
}

// AstroView holds the sun and moon data of the day the snapshot was taken.
type AstroView struct {
	Sunrise       string `json:"sunrise"`
	Sunset        string `json:"sunset"`
	IsDay         bool   `json:"is_day"`
	MoonPhase     string `json:"moon_phase"`
	MoonPhaseIcon string `json:"moon_phase_icon"`
}

type RecentView struct {
	DisplayName string `json:"display_name"`
	Temperature string `json:"temperature"`
	Condition   string `json:"condition"`
	Icon        string `json:"icon"`
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// View is the render-ready record of one successful lookup. Every value is already formatted
// for the unit mode the snapshot was fetched in.
type View struct {
	DisplayName string                `json:"display_name"`
	Coordinates Coordinates           `json:"coordinates"`
	Units       units.Mode            `json:"units"`
	FetchedAt   time.Time             `json:"fetched_at"`
	Current     CurrentView           `json:"current"`
	Hourly      []HourlyView          `json:"hourly"`
	Daily       []DailyView           `json:"daily"`
	Icon        string                `json:"icon"`
	Background  background.Background `json:"background"`
	Suggestion  SuggestionView        `json:"suggestion"`
	Astro       AstroView             `json:"astro"`
	Popup       string                `json:"popup"`
	Summary     string                `json:"summary"`
	Recent      []RecentView          `json:"recent"`
}

// TemplateContext is the data the summary and popup templates are executed with.
type TemplateContext struct {
	DisplayName string
	Latitude    float64
	Longitude   float64
	Units       string

	UpdateTime    time.Time
	SunriseTime   time.Time
	SunsetTime    time.Time
	IsDay         bool
	MoonPhase     string
	MoonPhaseIcon string

	Current CurrentView
}

type Presenter struct {
	templates *template.Templates
	localizer *spreak.Localizer
	timezone  string
}

// New parses the configured templates and makes sure they can be executed with a
// TemplateContext.
func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	tpls, err := template.New(conf, loc)
	if err != nil {
		return nil, err
	}
	pres := &Presenter{
		templates: tpls,
		localizer: loc,
		timezone:  conf.Display.Timezone,
	}

	if _, err = tpls.RenderSummary(TemplateContext{}); err != nil {
		return nil, err
	}
	if _, err = tpls.RenderPopup(TemplateContext{}); err != nil {
		return nil, err
	}
	return pres, nil
}

// BuildView formats snapshot together with its background and the recents list.
func (p *Presenter) BuildView(snap weather.Snapshot, bg background.Background, recents []recent.Entry) (View, error) {
	loc := p.location(snap.UTCOffset)
	cat := condition.Classify(snap.Current.ConditionMain)
	sunriseTime, sunsetTime := sunTimes(snap)
	tplCtx := p.BuildContext(snap, sunriseTime, sunsetTime, loc)

	view := View{
		DisplayName: snap.DisplayName,
		Coordinates: Coordinates{Lat: snap.Coordinates.Lat, Lon: snap.Coordinates.Lon},
		Units:       snap.Units,
		FetchedAt:   snap.FetchedAt,
		Current:     tplCtx.Current,
		Hourly:      p.hourly(snap.Forecast, snap.Units, loc),
		Daily:       p.daily(snap.Forecast, snap.Units, loc),
		Icon:        condition.Icon(cat),
		Background:  bg,
		Suggestion:  p.suggestion(cat, snap.Current.Temperature),
		Astro: AstroView{
			Sunrise:       tplCtx.Current.Sunrise,
			Sunset:        tplCtx.Current.Sunset,
			IsDay:         tplCtx.IsDay,
			MoonPhase:     p.templates.Loc(tplCtx.MoonPhase),
			MoonPhaseIcon: tplCtx.MoonPhaseIcon,
		},
		Recent: Recents(recents),
	}

	var err error
	if view.Summary, err = p.templates.RenderSummary(tplCtx); err != nil {
		return view, err
	}
	if view.Popup, err = p.templates.RenderPopup(tplCtx); err != nil {
		return view, err
	}
	return view, nil
}

// BuildContext returns the template data for snap. Sunrise and sunset are expected in UTC or
// any zone, they are formatted in loc.
func (p *Presenter) BuildContext(snap weather.Snapshot, sunriseTime, sunsetTime time.Time,
	loc *time.Location,
) TemplateContext {
	cur := snap.Current
	cat := condition.Classify(cur.ConditionMain)
	moon := moonphase.New(snap.FetchedAt)
	phase := moon.PhaseName()

	return TemplateContext{
		DisplayName:   snap.DisplayName,
		Latitude:      snap.Coordinates.Lat,
		Longitude:     snap.Coordinates.Lon,
		Units:         snap.Units.String(),
		UpdateTime:    snap.FetchedAt.In(loc),
		SunriseTime:   sunriseTime.In(loc),
		SunsetTime:    sunsetTime.In(loc),
		IsDay:         isDay(snap.FetchedAt, sunriseTime, sunsetTime),
		MoonPhase:     phase,
		MoonPhaseIcon: MoonPhaseIcon[phase],
		Current: CurrentView{
			Temperature: units.Format(cur.Temperature, units.Temperature, snap.Units),
			FeelsLike:   units.FormatVar(cur.FeelsLike, units.Temperature, snap.Units),
			Humidity:    formatHumidity(cur.Humidity),
			Wind:        units.FormatVar(cur.WindSpeed, units.Speed, snap.Units),
			Description: descriptionOf(cur.ConditionDescription),
			Condition:   cat.String(),
			Icon:        condition.Icon(cat),
			Emoji:       condition.Emoji(cat),
			Sunrise:     formatClock(sunriseTime, loc),
			Sunset:      formatClock(sunsetTime, loc),
		},
	}
}

func (p *Presenter) hourly(series weather.Series, mode units.Mode, loc *time.Location) []HourlyView {
	samples := forecast.Hourly(series)
	views := make([]HourlyView, 0, len(samples))
	for _, sample := range samples {
		views = append(views, HourlyView{
			Time:        sample.Time.In(loc).Format(HourFormat),
			Icon:        condition.Icon(condition.Classify(sample.ConditionMain)),
			Temperature: units.Format(sample.Temperature, units.Temperature, mode),
		})
	}
	return views
}

func (p *Presenter) daily(series weather.Series, mode units.Mode, loc *time.Location) []DailyView {
	days := forecast.Daily(series, loc)
	views := make([]DailyView, 0, len(days))
	for _, day := range days {
		views = append(views, DailyView{
			Date:        day.Date.Format(DateKeyFormat),
			Label:       p.templates.LocalizedDate(day.Date),
			Icon:        condition.Icon(condition.Classify(day.Representative.ConditionMain)),
			Temperature: units.Format(day.MeanTemperature, units.Temperature, mode),
		})
	}
	return views
}

// suggestion picks the texts from the temperature as it is displayed, rounded. The thresholds
// do not convert between unit modes.
func (p *Presenter) suggestion(cat condition.Category, temperature float64) SuggestionView {
	sugg := condition.Suggest(cat, float64(units.Round(temperature)))
	return SuggestionView{
		Text:     p.localizer.Get(sugg.Text),
		Clothing: p.localizer.Get(sugg.Clothing),
	}
}

// Recents formats entries, each in the unit mode it was recorded in.
func Recents(entries []recent.Entry) []RecentView {
	views := make([]RecentView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, RecentView{
			DisplayName: entry.DisplayName,
			Temperature: units.Format(entry.Temperature, units.Temperature, entry.Units),
			Condition:   entry.ConditionSummary,
			Icon:        entry.IconKey,
		})
	}
	return views
}

// location resolves the display zone. The policy was validated with the config, an error here
// falls back to local time.
func (p *Presenter) location(offset int) *time.Location {
	loc, err := forecast.ResolveLocation(p.timezone, offset)
	if err != nil {
		return time.Local
	}
	return loc
}

// sunTimes returns the provider's sunrise and sunset, or computes them for the snapshot's
// coordinate and day when they are missing.
func sunTimes(snap weather.Snapshot) (time.Time, time.Time) {
	rise, set := snap.Current.Sunrise, snap.Current.Sunset
	if !rise.IsZero() && !set.IsZero() {
		return rise, set
	}
	day := snap.FetchedAt.UTC()
	return sunrise.SunriseSunset(snap.Coordinates.Lat, snap.Coordinates.Lon, day.Year(), day.Month(), day.Day())
}

func isDay(at, rise, set time.Time) bool {
	if rise.IsZero() || set.IsZero() {
		return false
	}
	return at.After(rise) && at.Before(set)
}

func descriptionOf(desc string) string {
	if desc == "" {
		return vartype.Placeholder
	}
	return desc
}
