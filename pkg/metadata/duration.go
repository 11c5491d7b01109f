package metadata

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DurationKeys are the tag spellings checked for a duration, in order.
var DurationKeys = []string{"duration", "DURATION", "Duration", "length", "LENGTH", "TOTAL_DURATION"}

// ParseDuration parses a tag value as seconds ("12.5") or as a clock value
// ("HH:MM:SS", "MM:SS", optionally with fractional seconds) and returns
// milliseconds.
func ParseDuration(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrBadDuration
	}

	if !strings.Contains(value, ":") {
		secs, err := strconv.ParseFloat(value, 64)
		if err != nil || secs < 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, value)
		}
		return int64(math.Round(secs * 1000)), nil
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadDuration, value)
	}
	var total float64
	for i, p := range parts {
		n, err := strconv.ParseFloat(p, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, value)
		}
		// only the last field may carry a fraction
		if i < len(parts)-1 && n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %q", ErrBadDuration, value)
		}
		total = total*60 + n
	}
	return int64(math.Round(total * 1000)), nil
}

// durationFromTags returns the first positive duration among DurationKeys.
func durationFromTags(tags map[string]string) (int64, string, bool) {
	for _, key := range DurationKeys {
		v, ok := tags[key]
		if !ok {
			continue
		}
		if ms, err := ParseDuration(v); err == nil && ms > 0 {
			return ms, key, true
		}
	}
	return 0, "", false
}
