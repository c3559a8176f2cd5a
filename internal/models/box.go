package models

import "time"

// MaxWeeks is the number of weekly fill observations tracked per year.
const MaxWeeks = 52

// MaxVisitHistory bounds the in-memory visit history kept per box.
const MaxVisitHistory = 52

// Box represents one physical collection container and its fill history.
type Box struct {
	ID            int    `json:"box_id"`
	Address       string `json:"address"`
	Commune       string `json:"commune"`
	PostalCode    string `json:"postal_code"`
	ContainerType string `json:"container_type"`

	// AverageFill is the rolling average fill level loaded from the
	// catalog source (0-10 scale).
	AverageFill float64 `json:"average_fill"`

	// Weeks holds up to 52 weekly fill observations for the current
	// year, index 0 = week 1. A nil entry means no observation was
	// recorded for that week.
	Weeks []*float64 `json:"weeks,omitempty"`

	// LastVisit is nil for a box that has never been visited.
	LastVisit *time.Time `json:"last_visit,omitempty"`

	// VisitHistory keeps the most recent observations, oldest first,
	// bounded to MaxVisitHistory entries.
	VisitHistory []VisitObservation `json:"visit_history,omitempty"`
}

// VisitObservation is one entry of a box's bounded in-memory visit history.
type VisitObservation struct {
	VisitedAt    time.Time `json:"visited_at"`
	ObservedFill float64   `json:"observed_fill"`
	ExpectedFill float64   `json:"expected_fill"`
}

// LatestWeek returns the highest week index (1-based) at or before maxWeek
// that holds a recorded fill value. The second return value is false when
// no week of the box has a recorded value.
func (b *Box) LatestWeek(maxWeek int) (int, bool) {
	if maxWeek > len(b.Weeks) {
		maxWeek = len(b.Weeks)
	}
	for i := maxWeek; i >= 1; i-- {
		if b.Weeks[i-1] != nil {
			return i, true
		}
	}
	return 0, false
}

// WeekHistoryEntry is one point of a box's recent weekly history, as
// exposed by the box detail endpoint.
type WeekHistoryEntry struct {
	Week      int     `json:"week"`
	FillLevel float64 `json:"fill_level"`
}

// BoxCreateRequest is the payload for adding a box to the catalog.
type BoxCreateRequest struct {
	ID            int     `json:"box_id" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	Commune       string  `json:"commune" binding:"required"`
	PostalCode    string  `json:"postal_code" binding:"required"`
	ContainerType string  `json:"container_type" binding:"required"`
	AverageFill   float64 `json:"average_fill"`
}

// BoxUpdateRequest carries the mutable static attributes of a box.
// Nil fields are left unchanged.
type BoxUpdateRequest struct {
	Address       *string  `json:"address"`
	Commune       *string  `json:"commune"`
	PostalCode    *string  `json:"postal_code"`
	ContainerType *string  `json:"container_type"`
	AverageFill   *float64 `json:"average_fill"`
}
