package scraper

import (
	"strings"
	"time"
)

// now is swapped out in tests
var now = time.Now

// timestampLayouts are tried in order for string timestamps. Actors emit
// RFC 3339 instants, sometimes without an offset or time part.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeTimestamp coerces a candidate timestamp field into a concrete
// instant. Numeric values are Unix epoch seconds; strings are parsed as
// ISO 8601 with a trailing "Z" accepted as a zero UTC offset. Absent or
// malformed values fall back to the current wall clock, reported by the
// second return value so callers can tell a real timestamp from the
// fallback. This never fails.
func NormalizeTimestamp(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return now(), false
	case float64:
		return time.Unix(int64(t), 0), true
	case int64:
		return time.Unix(t, 0), true
	case int:
		return time.Unix(int64(t), 0), true
	case string:
		if t == "" {
			return now(), false
		}
		s := t
		if strings.HasSuffix(s, "Z") {
			s = strings.TrimSuffix(s, "Z") + "+00:00"
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		return now(), false
	default:
		return now(), false
	}
}
