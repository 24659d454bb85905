// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package units formats temperature and speed values for the selected unit mode.
package units

import (
	"fmt"
	"math"
	"strings"

	"github.com/wneessen/weather-dashboard/internal/vartype"
)

// Mode is the global unit system of a dashboard.
type Mode int

const (
	Metric Mode = iota
	Imperial
)

// Kind selects which quantity a value represents.
type Kind int

const (
	Temperature Kind = iota
	Speed
)

// ParseMode parses "metric" or "imperial" (case-insensitive).
func ParseMode(val string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, fmt.Errorf("invalid units: %q", val)
	}
}

// String returns the mode name, which is also the value the weather API expects.
func (m Mode) String() string {
	if m == Imperial {
		return "imperial"
	}
	return "metric"
}

// Toggle returns the other unit mode.
func (m Mode) Toggle() Mode {
	if m == Imperial {
		return Metric
	}
	return Imperial
}

// TemperatureUnit returns the temperature unit label of the mode.
func (m Mode) TemperatureUnit() string {
	if m == Imperial {
		return "°F"
	}
	return "°C"
}

// SpeedUnit returns the speed unit label of the mode.
func (m Mode) SpeedUnit() string {
	if m == Imperial {
		return "mph"
	}
	return "m/s"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Format renders value rounded to the nearest integer with the unit label of kind in mode.
// NaN and infinite values render as the placeholder.
func Format(value float64, kind Kind, mode Mode) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return vartype.Placeholder
	}
	rounded := Round(value)
	switch kind {
	case Speed:
		return fmt.Sprintf("%d %s", rounded, mode.SpeedUnit())
	default:
		return fmt.Sprintf("%d%s", rounded, mode.TemperatureUnit())
	}
}

// FormatVar is like Format but renders the placeholder for values that are not set.
func FormatVar(value vartype.VarFloat64, kind Kind, mode Mode) string {
	if !value.IsSet() {
		return vartype.Placeholder
	}
	return Format(value.Value(), kind, mode)
}

// Round rounds to the nearest integer, halves round towards positive infinity.
func Round(value float64) int {
	return int(math.Floor(value + 0.5))
}
