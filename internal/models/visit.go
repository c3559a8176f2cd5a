package models

import "time"

// VisitEvent is one immutable journal entry for an observed visit. The
// expected fill recorded here is the value that was cached at the moment
// of the visit, kept for expected-vs-observed auditing.
type VisitEvent struct {
	ID           string    `json:"id"`
	BoxID        int       `json:"box_id"`
	VisitedAt    time.Time `json:"visited_at"`
	ObservedFill float64   `json:"observed_fill"`
	ExpectedFill float64   `json:"expected_fill"`
}

// VisitRequest is the payload for recording a visit.
type VisitRequest struct {
	BoxID        int     `json:"box_id" binding:"required"`
	ObservedFill float64 `json:"fill_level"`
}

// VisitedBox summarizes a box that has been visited at least once.
type VisitedBox struct {
	BoxID              int                `json:"box_id"`
	Address            string             `json:"address"`
	Commune            string             `json:"commune"`
	PostalCode         string             `json:"postal_code"`
	ContainerType      string             `json:"container_type"`
	LastVisit          time.Time          `json:"last_visit"`
	DaysSinceLastVisit int                `json:"days_since_last_visit"`
	VisitHistory       []VisitObservation `json:"visit_history"`
}

// BoxVisitState is the durable per-box visit state reloaded at startup.
type BoxVisitState struct {
	BoxID        int                `json:"box_id"`
	LastVisit    time.Time          `json:"last_visit"`
	VisitHistory []VisitObservation `json:"visit_history"`
}
