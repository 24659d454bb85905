// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"time"

	"github.com/wneessen/weather-dashboard/internal/vartype"
)

// formatClock renders t as a 12 hour clock time in loc. Zero times render as the placeholder.
func formatClock(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return vartype.Placeholder
	}
	return t.In(loc).Format(SunFormat)
}

func formatHumidity(humidity vartype.VarInt) string {
	if !humidity.IsSet() {
		return vartype.Placeholder
	}
	return fmt.Sprintf("%d%%", humidity.Value())
}
