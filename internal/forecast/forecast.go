// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package forecast reduces a forecast series to the hourly strip and the per-day summary.
package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/wneessen/weather-dashboard/internal/weather"
)

const (
	HourlySamples = 8
	MaxDays       = 5

	PolicyLocal    = "local"
	PolicyLocation = "location"
)

// DailyAggregate is the aggregate of all samples that fall on one calendar date.
type DailyAggregate struct {
	Date            time.Time
	Representative  weather.Sample
	MeanTemperature float64
}

// Hourly returns the first HourlySamples samples of series in their original order.
func Hourly(series weather.Series) weather.Series {
	n := min(len(series), HourlySamples)
	out := make(weather.Series, n)
	copy(out, series[:n])
	return out
}

// Daily groups series by calendar date in loc, keeping the first MaxDays dates in the order
// they first appear. Each day is represented by the sample closest to local noon of that date,
// the earliest sample wins a tie.
func Daily(series weather.Series, loc *time.Location) []DailyAggregate {
	if loc == nil {
		loc = time.Local
	}

	type group struct {
		date    time.Time
		samples weather.Series
	}
	groups := make([]*group, 0, MaxDays)
	index := make(map[time.Time]*group)
	for _, sample := range series {
		y, m, d := sample.Time.In(loc).Date()
		date := time.Date(y, m, d, 0, 0, 0, 0, loc)
		grp, ok := index[date]
		if !ok {
			if len(groups) == MaxDays {
				continue
			}
			grp = &group{date: date}
			index[date] = grp
			groups = append(groups, grp)
		}
		grp.samples = append(grp.samples, sample)
	}

	days := make([]DailyAggregate, 0, len(groups))
	for _, grp := range groups {
		days = append(days, DailyAggregate{
			Date:            grp.date,
			Representative:  nearest(grp.samples, noonOf(grp.date, loc)),
			MeanTemperature: mean(grp.samples),
		})
	}
	return days
}

// ResolveLocation returns the display time zone for the given policy. PolicyLocal is the
// process time zone, PolicyLocation the fixed UTC offset the provider reported for the place.
// Anything else is loaded as an IANA zone name.
func ResolveLocation(policy string, offsetSeconds int) (*time.Location, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", PolicyLocal:
		return time.Local, nil
	case PolicyLocation:
		return time.FixedZone(offsetName(offsetSeconds), offsetSeconds), nil
	default:
		loc, err := time.LoadLocation(policy)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone policy %q: %w", policy, err)
		}
		return loc, nil
	}
}

func noonOf(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc)
}

func nearest(samples weather.Series, target time.Time) weather.Sample {
	best := samples[0]
	bestDiff := absDuration(best.Time.Sub(target))
	for _, sample := range samples[1:] {
		if diff := absDuration(sample.Time.Sub(target)); diff < bestDiff {
			best, bestDiff = sample, diff
		}
	}
	return best
}

func mean(samples weather.Series) float64 {
	var sum float64
	for _, sample := range samples {
		sum += sample.Temperature
	}
	return sum / float64(len(samples))
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func offsetName(seconds int) string {
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
