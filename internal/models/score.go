package models

import "time"

// ScoreRecord is one cached scoring result for a box. Records are owned by
// the score cache and replaced whole on recomputation; they are never
// mutated in place.
type ScoreRecord struct {
	BoxID              int       `json:"box_id"`
	FillScore          float64   `json:"fill_score"`
	Trend              float64   `json:"trend"`
	Urgency            float64   `json:"urgency"`
	ExpectedFill       float64   `json:"expected_fill"`
	ProfitabilityScore float64   `json:"profitability_score"`
	DaysSinceLastVisit *int      `json:"days_since_last_visit"`
	ComputedAt         time.Time `json:"computed_at"`
}

// Recommendation joins a box's static attributes with its current score,
// as returned by the ranking endpoint.
type Recommendation struct {
	BoxID              int     `json:"box_id"`
	Address            string  `json:"address"`
	Commune            string  `json:"commune"`
	PostalCode         string  `json:"postal_code"`
	ContainerType      string  `json:"container_type"`
	ProfitabilityScore float64 `json:"profitability_score"`
	ExpectedFill       float64 `json:"expected_fill"`
	AverageFill        float64 `json:"average_fill"`
	DaysSinceLastVisit *int    `json:"days_since_last_visit"`
}

// RecommendationFilter holds the query parameters of the ranking endpoint.
type RecommendationFilter struct {
	MaxBoxes int     `form:"max_boxes"`
	MinScore float64 `form:"min_score"`
}

// BoxDetail is the full view of one box: attributes, current score,
// recent weekly history and visit history.
type BoxDetail struct {
	Box
	Score         *ScoreRecord       `json:"score"`
	RecentHistory []WeekHistoryEntry `json:"recent_history"`
}
