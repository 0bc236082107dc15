package processing_test

import (
	"testing"
	"time"

	"github.com/DeafMist/intel-feed/internal/processing"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	ts := processing.ParseDate("Sat, 03 Jan 2026 10:00:00 GMT")
	require.True(t, ts.Equal(time.Date(2026, 1, 3, 10, 0, 0, 0, time.UTC)))

	ts = processing.ParseDate("Fri, 02 Jan 2026 11:00:00 +0200")
	require.True(t, ts.Equal(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)))

	ts = processing.ParseDate("2026-01-03T04:05:06Z")
	require.Equal(t, 4, ts.Hour())

	require.True(t, processing.ParseDate("2026-01-01").Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	require.True(t, processing.ParseDate("").IsZero())
	require.True(t, processing.ParseDate("yesterday").IsZero())
}

func TestParseDateZoneAbbreviations(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{raw: "Fri, 02 Jan 2026 05:00:00 EST", want: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "Thu, 02 Jul 2026 03:00:00 PDT", want: time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "Thu, 02 Jul 2026 11:00:00 BST", want: time.Date(2026, 7, 2, 10, 0, 0, 0, time.UTC)},
		{raw: "Fri, 02 Jan 2026 10:00:00 UTC", want: time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := processing.ParseDate(tt.raw)
			require.True(t, got.Equal(tt.want), "got %s", got)
		})
	}
}

func TestParseDateOrdersAcrossZones(t *testing.T) {
	pacific := processing.ParseDate("Fri, 02 Jan 2026 04:00:00 PST")
	gmt := processing.ParseDate("Fri, 02 Jan 2026 10:00:00 GMT")
	require.True(t, pacific.After(gmt))
}
