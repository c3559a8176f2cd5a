package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gflcollect/boxes-backend-go/internal/catalog"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// testNow falls in ISO week 24, so any week index up to 24 is valid.
var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func fills(values ...float64) []*float64 {
	weeks := make([]*float64, models.MaxWeeks)
	for i, v := range values {
		v := v
		weeks[i] = &v
	}
	return weeks
}

func testBox(id int, weeks []*float64) *models.Box {
	return &models.Box{
		ID:            id,
		Address:       "Rue de la Paix 12",
		Commune:       "Genève",
		PostalCode:    "1201",
		ContainerType: "Textile",
		AverageFill:   5,
		Weeks:         weeks,
	}
}

func newTestEngine(boxes ...*models.Box) *Engine {
	return NewEngine(catalog.New(boxes), timeutil.NewFixedClock(testNow))
}

func TestAverageFillIgnoresMissingWeeks(t *testing.T) {
	weeks := make([]*float64, models.MaxWeeks)
	five, seven := 5.0, 7.0
	weeks[1] = &five
	weeks[3] = &seven

	box := testBox(1, weeks)
	engine := newTestEngine(box)

	require.Equal(t, 6.0, engine.AverageFill(box))
}

func TestAverageFillFallsBackToCatalogAverage(t *testing.T) {
	box := testBox(1, make([]*float64, models.MaxWeeks))
	box.AverageFill = 4.2
	engine := newTestEngine(box)

	require.Equal(t, 4.2, engine.AverageFill(box))
}

func TestLatestWeekSkipsMissingAndRespectsCalendar(t *testing.T) {
	weeks := make([]*float64, models.MaxWeeks)
	three, eight := 3.0, 8.0
	weeks[2] = &three
	weeks[29] = &eight // week 30, beyond the calendar week cap of 24

	box := testBox(1, weeks)

	week, ok := box.LatestWeek(24)
	require.True(t, ok)
	require.Equal(t, 3, week)

	empty := testBox(2, make([]*float64, models.MaxWeeks))
	_, ok = empty.LatestWeek(24)
	require.False(t, ok)
}

func TestUrgencyLogisticMidpoint(t *testing.T) {
	days := 7
	require.InDelta(t, 5.0, urgencyScore(&days, 5), 1e-9)
}

func TestUrgencyMonotonic(t *testing.T) {
	prev := 0.0
	for d := 0; d <= 60; d++ {
		d := d
		u := urgencyScore(&d, 5)
		require.GreaterOrEqual(t, u, prev, "urgency must not decrease at day %d", d)
		require.LessOrEqual(t, u, 10.0)
		prev = u
	}
}

func TestUrgencyNeverVisited(t *testing.T) {
	tests := []struct {
		averageFill float64
		want        float64
	}{
		{9, 7.2}, // capped multiplication, not the cap itself
		{10, 8},
		{2, 1.6},
		{0, 0},
	}
	for _, tt := range tests {
		require.InDelta(t, tt.want, urgencyScore(nil, tt.averageFill), 1e-9)
	}
}

func TestUrgencyFutureVisitClampsToZero(t *testing.T) {
	days := -3
	require.Equal(t, 0.0, urgencyScore(&days, 5))
}

func TestTrendRequiresHistory(t *testing.T) {
	weeks := make([]*float64, models.MaxWeeks)
	eight := 8.0
	weeks[0] = &eight

	require.Equal(t, 0.0, trendBonus(testBox(1, weeks), 1))
	require.Equal(t, 0.0, trendBonus(testBox(2, make([]*float64, models.MaxWeeks)), 0))
}

func TestTrendBoundedAndNonNegative(t *testing.T) {
	// Strongly increasing series: slope 2/week, raw bonus 1.0.
	rising := testBox(1, fills(2, 4, 6, 8))
	require.InDelta(t, 1.0, trendBonus(rising, 4), 1e-9)

	// Steeper than the cap allows.
	steep := testBox(2, fills(0, 4, 8, 10))
	bonus := trendBonus(steep, 4)
	require.LessOrEqual(t, bonus, 2.0)

	// Falling series never yields a negative bonus.
	falling := testBox(3, fills(9, 7, 5, 3))
	require.Equal(t, 0.0, trendBonus(falling, 4))
}

func TestTrendWindowUsesFourMostRecentWeeks(t *testing.T) {
	// Old weeks fall outside the window; the last four are flat.
	box := testBox(1, fills(1, 2, 6, 6, 6, 6))
	require.Equal(t, 0.0, trendBonus(box, 6))
}

func TestUrgencyMultiplierBounds(t *testing.T) {
	for _, u := range []float64{0, 2.5, 5, 7.5, 10} {
		m := 1.0 + u/10*urgencyBoost
		require.GreaterOrEqual(t, m, 1.0)
		require.LessOrEqual(t, m, 1.5)
	}
}

func TestComputeFlatNeverVisitedScenario(t *testing.T) {
	// Four flat weeks at 8, never visited: average_fill 8, zero trend,
	// urgency 6.4, expected fill 8, multiplier 1.32 -> score 105.6.
	box := testBox(42, fills(8, 8, 8, 8))
	engine := newTestEngine(box)

	rec, err := engine.Compute(42)
	require.NoError(t, err)

	require.Equal(t, 0.0, rec.Trend)
	require.InDelta(t, 6.4, rec.Urgency, 1e-9)
	require.InDelta(t, 8.0, rec.ExpectedFill, 1e-9)
	require.InDelta(t, 105.6, rec.ProfitabilityScore, 1e-9)
	require.Nil(t, rec.DaysSinceLastVisit)
}

func TestComputeVisitedBox(t *testing.T) {
	box := testBox(7, fills(8, 8, 8, 8))
	lastVisit := testNow.Add(-7 * 24 * time.Hour)
	box.LastVisit = &lastVisit
	engine := newTestEngine(box)

	rec, err := engine.Compute(7)
	require.NoError(t, err)

	require.NotNil(t, rec.DaysSinceLastVisit)
	require.Equal(t, 7, *rec.DaysSinceLastVisit)
	require.InDelta(t, 5.0, rec.Urgency, 1e-9)
	// base 80 x multiplier 1.25
	require.InDelta(t, 100.0, rec.ProfitabilityScore, 1e-9)
}

func TestComputeFutureLastVisit(t *testing.T) {
	box := testBox(9, fills(8, 8, 8, 8))
	future := testNow.Add(72 * time.Hour)
	box.LastVisit = &future
	engine := newTestEngine(box)

	rec, err := engine.Compute(9)
	require.NoError(t, err)
	require.Equal(t, 0.0, rec.Urgency)
	require.InDelta(t, 80.0, rec.ProfitabilityScore, 1e-9)
}

func TestComputeUnknownBox(t *testing.T) {
	engine := newTestEngine()
	_, err := engine.Compute(404)
	require.ErrorIs(t, err, models.ErrBoxNotFound)
}
