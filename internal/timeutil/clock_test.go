package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDaysSince(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := NewFixedClock(now)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"same instant", now, 0},
		{"half a day", now.Add(-12 * time.Hour), 0},
		{"exactly seven days", now.Add(-7 * 24 * time.Hour), 7},
		{"thirty days", now.Add(-30 * 24 * time.Hour), 30},
		{"future timestamp", now.Add(48 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, clock.DaysSince(tt.t))
		})
	}
}

func TestParseLocal(t *testing.T) {
	clock, err := NewClock("Europe/Zurich")
	require.NoError(t, err)

	t.Run("with offset", func(t *testing.T) {
		got, err := clock.ParseLocal("2025-06-15T12:00:00+02:00")
		require.NoError(t, err)
		require.Equal(t, "Europe/Zurich", got.Location().String())
		require.True(t, got.Equal(time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)))
	})

	t.Run("without offset is reference-local", func(t *testing.T) {
		got, err := clock.ParseLocal("2025-06-15T12:00:00")
		require.NoError(t, err)
		require.Equal(t, 12, got.Hour())
		require.Equal(t, "Europe/Zurich", got.Location().String())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := clock.ParseLocal("not-a-timestamp")
		require.Error(t, err)
	})
}

func TestCalendarWeek(t *testing.T) {
	// 2025-06-15 falls in ISO week 24.
	clock := NewFixedClock(time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC))
	require.Equal(t, 24, clock.CalendarWeek())

	// ISO week 53 is capped so it can index a 52-slot series.
	clock = NewFixedClock(time.Date(2020, 12, 31, 12, 0, 0, 0, time.UTC))
	require.Equal(t, 52, clock.CalendarWeek())
}

func TestNewClockUnknownTimezone(t *testing.T) {
	_, err := NewClock("Mars/Olympus_Mons")
	require.Error(t, err)
}
