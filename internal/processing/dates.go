package processing

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 06 15:04:05 -0700",
	"Mon, 02 Jan 06 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// zoneOffsets covers abbreviations feeds commonly emit. time.Parse gives an
// unknown abbreviation a zero offset unless the local zone defines it.
var zoneOffsets = map[string]int{
	"EST":  -5 * 3600,
	"EDT":  -4 * 3600,
	"CST":  -6 * 3600,
	"CDT":  -5 * 3600,
	"MST":  -7 * 3600,
	"MDT":  -6 * 3600,
	"PST":  -8 * 3600,
	"PDT":  -7 * 3600,
	"BST":  1 * 3600,
	"CET":  1 * 3600,
	"CEST": 2 * 3600,
}

// ParseDate reads an upstream publish date. Unknown or empty input yields the
// zero time, which orders as the oldest possible date.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return withKnownOffset(ts).UTC()
		}
	}

	return time.Time{}
}

func withKnownOffset(ts time.Time) time.Time {
	name, offset := ts.Zone()
	if offset != 0 {
		return ts
	}
	known, ok := zoneOffsets[name]
	if !ok {
		return ts
	}
	return time.Date(ts.Year(), ts.Month(), ts.Day(), ts.Hour(), ts.Minute(), ts.Second(),
		ts.Nanosecond(), time.FixedZone(name, known))
}
