// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/humanize/locale/fr"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wneessen/weather-dashboard/internal/config"
)

// Templates holds the parsed summary and map popup templates. The popup is HTML and its
// values are escaped.
type Templates struct {
	Summary   *template.Template
	Popup     *htmltemplate.Template
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	lang      language.Tag
}

var humanizers = humanize.MustNew(humanize.WithLocale(de.New(), fr.New()))

var i18nVars = map[string]localize.MsgID{
	"temp":            "Temperature",
	"humidity":        "Humidity",
	"wind":            "Wind",
	"apparent":        "Feels like",
	"forecastfor":     "Forecast for",
	"sunrise":         "Sunrise",
	"sunset":          "Sunset",
	"moonphase":       "Moonphase",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
}

func New(conf *config.Config, loc *spreak.Localizer) (*Templates, error) {
	tpls := &Templates{
		localizer: loc,
		lang:      loc.Language(),
		humanizer: humanizers.CreateHumanizer(loc.Language()),
	}

	tpl, err := template.New("summary").Funcs(tpls.templateFuncMap()).Parse(conf.Templates.Summary)
	if err != nil {
		return tpls, fmt.Errorf("failed to parse summary template: %w", err)
	}
	tpls.Summary = tpl

	popup, err := htmltemplate.New("popup").Funcs(htmltemplate.FuncMap(tpls.templateFuncMap())).
		Parse(conf.Templates.Popup)
	if err != nil {
		return tpls, fmt.Errorf("failed to parse popup template: %w", err)
	}
	tpls.Popup = popup

	return tpls, nil
}

// RenderSummary executes the summary template with data.
func (t *Templates) RenderSummary(data any) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := t.Summary.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render summary template: %w", err)
	}
	return buf.String(), nil
}

// RenderPopup executes the popup template with data.
func (t *Templates) RenderPopup(data any) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := t.Popup.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to render popup template: %w", err)
	}
	return buf.String(), nil
}

// Loc returns the localized label for key, or key itself if it is unknown.
func (t *Templates) Loc(key string) string {
	if raw, ok := i18nVars[strings.ToLower(key)]; ok {
		return t.localizer.Get(raw)
	}
	return key
}

// LocalizedTime formats val as a time of day in the conventions of the configured language.
func (t *Templates) LocalizedTime(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.TimeFormat)
}

// LocalizedDate formats val as a date in the conventions of the configured language.
func (t *Templates) LocalizedDate(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.DateFormat)
}

// Title upper-cases the first letter of every word using the rules of the configured language.
func (t *Templates) Title(val string) string {
	return cases.Title(t.lang).String(val)
}

func (t *Templates) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":     timeFormat,
		"localizedTime":  t.LocalizedTime,
		"localizedDate":  t.LocalizedDate,
		"floatFormat":    floatFormat,
		"loc":            t.Loc,
		"title":          t.Title,
		"lc":             strings.ToLower,
		"uc":             strings.ToUpper,
		"emojiWithSpace": EmojiWithSpace,
	}
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// EmojiWithSpace pads emoji with one space more than its display width.
func EmojiWithSpace(emoji string) string {
	if emoji == "" {
		return ""
	}
	width := runewidth.StringWidth(emoji)
	return fmt.Sprintf("%s%s", emoji, strings.Repeat(" ", width+1))
}
