package timezone_test

import (
	"concierge/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocationDefaultsToUTC(t *testing.T) {
	assert.NotNil(t, timezone.GetLocation())
	assert.False(t, timezone.Now().IsZero())
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse(time.DateOnly, "2025-03-14")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-14", timezone.Format(parsed, time.DateOnly))
	assert.Equal(t, timezone.GetLocation(), parsed.Location())
}

func TestStartOfDay(t *testing.T) {
	at := time.Date(2025, 3, 14, 17, 45, 12, 99, timezone.GetLocation())

	start := timezone.StartOfDay(at)

	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, timezone.GetLocation()), start)
	assert.True(t, timezone.Today().Before(timezone.Now()) || timezone.Today().Equal(timezone.Now()))
}

func TestNights(t *testing.T) {
	day := func(s string) time.Time {
		d, err := timezone.Parse(time.DateOnly, s)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     int
	}{
		{name: "single night", checkIn: "2025-03-14", checkOut: "2025-03-15", want: 1},
		{name: "a week", checkIn: "2025-03-01", checkOut: "2025-03-08", want: 7},
		{name: "across month end", checkIn: "2025-02-27", checkOut: "2025-03-02", want: 3},
		{name: "same day", checkIn: "2025-03-14", checkOut: "2025-03-14", want: 0},
		{name: "reversed", checkIn: "2025-03-15", checkOut: "2025-03-14", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, timezone.Nights(day(tt.checkIn), day(tt.checkOut)))
		})
	}
}
