package models

// TopBox is one entry of the best-performing boxes list.
type TopBox struct {
	BoxID       int     `json:"box_id"`
	Address     string  `json:"address"`
	AverageFill float64 `json:"average_fill"`
}

// NetworkStats aggregates catalog-wide statistics for the dashboard.
type NetworkStats struct {
	TotalBoxes   int      `json:"total_boxes"`
	VisitedBoxes int      `json:"visited_boxes"`
	VisitRate    float64  `json:"visit_rate"`
	AverageFill  float64  `json:"average_fill"`
	TopBoxes     []TopBox `json:"top_boxes"`
}
