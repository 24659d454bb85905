// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package condition classifies free-text weather conditions into coarse categories and
// derives icons, background themes and suggestions from them.
package condition

import (
	"strings"

	"github.com/vorlif/spreak/localize"
)

// Category is the coarse classification of a weather condition.
type Category int

const (
	Other Category = iota
	Rain
	Snow
	Cloud
	Clear
)

const (
	WarmThreshold = 25.0
	ColdThreshold = 10.0
)

// rule pairs a keyword with the category it selects. The order of rules is the match priority.
type rule struct {
	keyword  string
	category Category
}

var rules = []rule{
	{"rain", Rain},
	{"snow", Snow},
	{"cloud", Cloud},
	{"clear", Clear},
}

// Suggestion is a pair of message IDs, the activity suggestion and the clothing recommendation.
type Suggestion struct {
	Text     localize.MsgID
	Clothing localize.MsgID
}

// Classify returns the category of the first rule whose keyword is a case-insensitive substring
// of conditionMain. Rules are checked in the order rain, snow, cloud, clear. No match yields Other.
func Classify(conditionMain string) Category {
	cond := strings.ToLower(conditionMain)
	for _, r := range rules {
		if strings.Contains(cond, r.keyword) {
			return r.category
		}
	}
	return Other
}

func (c Category) String() string {
	switch c {
	case Rain:
		return "rain"
	case Snow:
		return "snow"
	case Cloud:
		return "cloud"
	case Clear:
		return "clear"
	default:
		return "other"
	}
}

// Icon returns the Font Awesome classes for the category.
func Icon(c Category) string {
	return icons[c]
}

// Emoji returns a single emoji for the category, used by the text templates.
func Emoji(c Category) string {
	return emojis[c]
}

// Theme returns the background theme class of the category. Clear and Other both map to the
// sunny theme.
func Theme(c Category) string {
	switch c {
	case Rain:
		return ThemeRainy
	case Snow:
		return ThemeSnowy
	case Cloud:
		return ThemeCloudy
	default:
		return ThemeSunny
	}
}

// Suggest returns the suggestion for the category. For Clear and Other the temperature selects
// warm (above WarmThreshold), cold (below ColdThreshold) or moderate texts. The thresholds are
// compared against temperature in whatever unit mode it was measured in, so with imperial units
// 26°F is already "warm".
func Suggest(c Category, temperature float64) Suggestion {
	switch c {
	case Rain:
		return suggestions[suggestRain]
	case Snow:
		return suggestions[suggestSnow]
	case Cloud:
		return suggestions[suggestCloud]
	}
	switch {
	case temperature > WarmThreshold:
		return suggestions[suggestWarm]
	case temperature < ColdThreshold:
		return suggestions[suggestCold]
	default:
		return suggestions[suggestModerate]
	}
}
