package scoring

import (
	"math"

	"github.com/gflcollect/boxes-backend-go/internal/catalog"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// Scoring parameters. The urgency curve is a logistic with its inflection
// at 7 days; the trend bonus is capped at +2 points; urgency acts as a
// bounded final multiplier of at most +50%.
const (
	trendWindow        = 4
	maxTrendBonus      = 2.0
	urgencySteepness   = 0.5
	urgencyInflection  = 7.0
	neverVisitedCap    = 8.0
	neverVisitedFactor = 0.8
	fillWeight         = 0.7
	averageWeight      = 0.3
	urgencyBoost       = 0.5
)

// Engine computes score records from the catalog and the current time.
// All computations are pure: one bad box degrades to clamped defaults
// (zero trend, zero urgency) instead of failing the whole ranking.
type Engine struct {
	catalog *catalog.Catalog
	clock   *timeutil.Clock
}

// NewEngine creates a score engine over the given catalog.
func NewEngine(cat *catalog.Catalog, clock *timeutil.Clock) *Engine {
	return &Engine{catalog: cat, clock: clock}
}

// Compute builds a fresh ScoreRecord for one box.
func (e *Engine) Compute(boxID int) (*models.ScoreRecord, error) {
	box, err := e.catalog.Get(boxID)
	if err != nil {
		return nil, err
	}

	currentWeek, hasHistory := box.LatestWeek(e.clock.CalendarWeek())
	averageFill := e.AverageFill(box)
	trend := trendBonus(box, currentWeek)

	fillScore := 0.0
	if hasHistory {
		fillScore = Clamp(*box.Weeks[currentWeek-1]+trend, 0, 10)
	}

	expectedFill := Clamp(fillScore*fillWeight+averageFill*averageWeight, 0, 10)

	var days *int
	if box.LastVisit != nil {
		d := e.clock.DaysSince(*box.LastVisit)
		days = &d
	}
	urgency := urgencyScore(days, averageFill)

	baseScore := expectedFill / 10 * 100
	multiplier := 1.0 + urgency/10*urgencyBoost
	profitability := baseScore * multiplier

	return &models.ScoreRecord{
		BoxID:              boxID,
		FillScore:          fillScore,
		Trend:              trend,
		Urgency:            urgency,
		ExpectedFill:       expectedFill,
		ProfitabilityScore: profitability,
		DaysSinceLastVisit: days,
		ComputedAt:         e.clock.Now(),
	}, nil
}

// AverageFill returns the mean of the box's recorded weekly values,
// missing weeks excluded from both numerator and denominator. A box with
// no recorded week at all falls back to the rolling average loaded from
// the catalog source.
func (e *Engine) AverageFill(box *models.Box) float64 {
	var values []float64
	for _, w := range box.Weeks {
		if w != nil {
			values = append(values, *w)
		}
	}
	if len(values) == 0 {
		return box.AverageFill
	}
	return Mean(values)
}

// trendBonus compares the box's recent weeks ordered strictly oldest to
// newest and converts the fitted slope into a bounded bonus in [0, 2].
// A box with fewer than two recorded weeks in the window contributes zero.
func trendBonus(box *models.Box, currentWeek int) float64 {
	if currentWeek < 1 {
		return 0
	}
	var window []float64
	for week := 1; week <= currentWeek; week++ {
		if v := box.Weeks[week-1]; v != nil {
			window = append(window, *v)
		}
	}
	if len(window) > trendWindow {
		window = window[len(window)-trendWindow:]
	}
	if len(window) < 2 {
		return 0
	}
	return Clamp(LinearSlope(window)*0.5, 0, maxTrendBonus)
}

// urgencyScore maps days-since-last-visit onto [0, 10]. Never-visited
// boxes get a heuristic based on their average fill; a future-dated last
// visit (negative days) clamps to zero rather than failing.
func urgencyScore(days *int, averageFill float64) float64 {
	if days == nil {
		return math.Min(neverVisitedCap, averageFill*neverVisitedFactor)
	}
	if *days < 0 {
		return 0
	}
	u := 10 / (1 + math.Exp(-urgencySteepness*(float64(*days)-urgencyInflection)))
	return Clamp(u, 0, 10)
}
