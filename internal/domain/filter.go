package domain

import (
	"fmt"
	"strings"
	"time"
)

const dateOnlyLayout = "2006-01-02"

// TimeWindow is an optional inclusive [Start, End] datetime filter.
// The zero value means no filtering.
type TimeWindow struct {
	Start *time.Time
	End   *time.Time
}

// IsZero reports whether the window filters nothing.
func (w TimeWindow) IsZero() bool {
	return w.Start == nil && w.End == nil
}

// Contains reports whether a reading falls inside the window. Readings with
// an inferred datetime are always retained: their real sensor time is
// unknown, and dropping unknown-time data under a filter loses it forever.
func (w TimeWindow) Contains(r Reading) bool {
	if w.IsZero() || r.DatetimeInferred {
		return true
	}
	if w.Start != nil && r.Datetime.Before(*w.Start) {
		return false
	}
	if w.End != nil && r.Datetime.After(*w.End) {
		return false
	}
	return true
}

// ParseTimeWindow builds a window from optional startDate/endDate strings
// (ISO datetime or bare date). A date-only end is widened to end-of-day so
// a single-day filter covers the whole day rather than just its midnight.
func ParseTimeWindow(startStr, endStr string) (TimeWindow, error) {
	var w TimeWindow

	if s := strings.TrimSpace(startStr); s != "" {
		start, _, err := parseBound(s)
		if err != nil {
			return TimeWindow{}, fmt.Errorf("invalid startDate %q: %w", s, err)
		}
		w.Start = &start
	}

	if s := strings.TrimSpace(endStr); s != "" {
		end, dateOnly, err := parseBound(s)
		if err != nil {
			return TimeWindow{}, fmt.Errorf("invalid endDate %q: %w", s, err)
		}
		if dateOnly {
			end = end.Add(24*time.Hour - time.Nanosecond)
		}
		w.End = &end
	}

	if w.Start != nil && w.End != nil && w.End.Before(*w.Start) {
		return TimeWindow{}, fmt.Errorf("endDate %s precedes startDate %s", endStr, startStr)
	}
	return w, nil
}

// parseBound parses a filter bound and reports whether it was date-only.
func parseBound(s string) (time.Time, bool, error) {
	if ts, err := time.Parse(dateOnlyLayout, s); err == nil {
		return ts.UTC(), true, nil
	}
	if ts, ok := parseDatetime(s); ok {
		return ts, false, nil
	}
	return time.Time{}, false, fmt.Errorf("not an ISO date or datetime")
}
