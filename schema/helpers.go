package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatTrimmed renders a float with at most one decimal place, dropping
// the fraction entirely for whole numbers. 50.0 -> "50", 10.5 -> "10.5".
func formatTrimmed(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}

// FormatShutterSpeed renders an exposure time in photographic notation.
// Sub-second values become reciprocal fractions: 0.005 -> "1/200s".
// Values of a second or more keep one decimal: 1.0 -> "1.0s", 1.5 -> "1.5s".
// Zero or negative values render as the unknown marker.
func FormatShutterSpeed(v float64) string {
	switch {
	case v <= 0:
		return UnknownLabel
	case v < 1:
		return fmt.Sprintf("1/%ds", int(math.Round(1/v)))
	default:
		return fmt.Sprintf("%.1fs", v)
	}
}

// FormatAperture renders an f-number: 2.8 -> "f/2.8", 2.0 -> "f/2".
func FormatAperture(v float64) string {
	if v <= 0 {
		return UnknownLabel
	}
	return "f/" + formatTrimmed(v)
}

// FormatFocalLength renders a focal length in millimeters: 50.0 -> "50 mm".
func FormatFocalLength(v float64) string {
	if v <= 0 {
		return UnknownLabel
	}
	return formatTrimmed(v) + " mm"
}

// FormatFocalRange renders a grouped focal length bucket. Equal endpoints
// collapse to a single value: (50, 50) -> "50 mm", (10, 11.2) -> "10-11.2 mm".
func FormatFocalRange(lo, hi float64) string {
	if lo == hi {
		return formatTrimmed(lo) + " mm"
	}
	return formatTrimmed(lo) + "-" + formatTrimmed(hi) + " mm"
}

// FormatISO renders a sensitivity value: 3200 -> "ISO 3200".
func FormatISO(v int) string {
	if v <= 0 {
		return UnknownLabel
	}
	return "ISO " + strconv.Itoa(v)
}

// FormatCombo renders an aperture and focal length pair: "f/2.8 @ 50 mm".
func FormatCombo(aperture, focal float64) string {
	return FormatAperture(aperture) + " @ " + FormatFocalLength(focal)
}
