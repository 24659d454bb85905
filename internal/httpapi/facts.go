// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package httpapi

import (
	"math/rand/v2"
)

var weatherFacts = []string{
	"The highest temperature ever recorded on Earth was 56.7°C (134°F) in Death Valley, USA.",
	"Raindrops can fall at speeds of about 22 miles per hour.",
	"Snowflakes can take up to an hour to reach the ground.",
	"A bolt of lightning is five times hotter than the surface of the sun.",
	"The coldest temperature ever recorded was -89.2°C (-128.6°F) in Antarctica.",
	"The wettest place on Earth is Mawsynram, India.",
	"Hurricanes can release the energy of 10,000 nuclear bombs.",
	"The fastest wind speed ever recorded was 253 mph during Cyclone Olivia in 1996.",
}

// Facts hands out weather facts at random.
type Facts struct {
	facts []string
	intn  func(int) int
}

func NewFacts() *Facts {
	return &Facts{facts: weatherFacts, intn: rand.IntN}
}

func (f *Facts) Random() string {
	return f.facts[f.intn(len(f.facts))]
}
