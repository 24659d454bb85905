// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package condition

const (
	ThemeRainy  = "weather-rainy"
	ThemeSnowy  = "weather-snowy"
	ThemeCloudy = "weather-cloudy"
	ThemeSunny  = "weather-sunny"
)

const (
	suggestRain = iota
	suggestSnow
	suggestCloud
	suggestWarm
	suggestCold
	suggestModerate
)

var icons = map[Category]string{
	Rain:  "fas fa-cloud-showers-heavy text-primary",
	Snow:  "fas fa-snowflake text-info",
	Cloud: "fas fa-cloud text-secondary",
	Clear: "fas fa-sun text-warning",
	Other: "fas fa-smog text-muted",
}

var emojis = map[Category]string{
	Rain:  "🌧️",
	Snow:  "❄️",
	Cloud: "☁️",
	Clear: "☀️",
	Other: "🌫️",
}

var suggestions = map[int]Suggestion{
	suggestRain: {
		Text:     "It's rainy today, maybe stay in or bring an umbrella!",
		Clothing: "Recommendation: Raincoat, umbrella, waterproof shoes.",
	},
	suggestSnow: {
		Text:     "It's snowy, perfect for hot chocolate!",
		Clothing: "Recommendation: Warm coat, boots, gloves.",
	},
	suggestCloud: {
		Text:     "Cloudy skies, good for a walk.",
		Clothing: "Recommendation: Light jacket.",
	},
	suggestWarm: {
		Text:     "It's sunny and warm, great for outdoor activities!",
		Clothing: "Recommendation: T-shirt, sunglasses, sunscreen.",
	},
	suggestCold: {
		Text:     "It's chilly, dress warmly!",
		Clothing: "Recommendation: Coat, scarf, hat.",
	},
	suggestModerate: {
		Text:     "Weather is moderate, enjoy your day!",
		Clothing: "Recommendation: Comfortable clothes.",
	},
}
