package service

import (
	"log"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gflcollect/boxes-backend-go/internal/catalog"
	"github.com/gflcollect/boxes-backend-go/internal/metrics"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/repository"
	"github.com/gflcollect/boxes-backend-go/internal/scoring"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// Default ranking parameters, applied when the caller passes none.
const (
	DefaultMaxBoxes = 20
	DefaultMinScore = 30.0
)

// recentHistoryWeeks is how many recent weekly observations the box detail
// view exposes.
const recentHistoryWeeks = 8

// OptimizerService is the single mutating entry point into the catalog. It
// orchestrates visit tracking, score recomputation and persistence.
type OptimizerService struct {
	catalog   *catalog.Catalog
	engine    *scoring.Engine
	cache     *scoring.Cache
	visitRepo *repository.VisitRepository
	clock     *timeutil.Clock
}

// NewOptimizerService creates a new optimizer service
func NewOptimizerService(
	cat *catalog.Catalog,
	engine *scoring.Engine,
	cache *scoring.Cache,
	visitRepo *repository.VisitRepository,
	clock *timeutil.Clock,
) *OptimizerService {
	return &OptimizerService{
		catalog:   cat,
		engine:    engine,
		cache:     cache,
		visitRepo: visitRepo,
		clock:     clock,
	}
}

// Bootstrap restores durable visit state into the catalog and precomputes
// all scores. A corrupt or unreadable state store is reported as a
// PersistenceWarning: the engine starts with empty visit state and keeps
// operating in memory.
func (s *OptimizerService) Bootstrap() error {
	var warning error
	states, err := s.visitRepo.LoadStates()
	if err != nil {
		metrics.PersistenceFailures.Inc()
		warning = &models.PersistenceWarning{Op: "load state", Err: err}
		log.Printf("WARNING: %v", warning)
	} else {
		s.catalog.RestoreVisitState(states)
	}

	s.cache.RecomputeAll(s.catalog.IDs())
	log.Printf("Optimizer initialized with %d boxes", s.catalog.Len())
	return warning
}

// Rank returns boxes ordered by descending profitability score, excluding
// scores below filter.MinScore and limited to filter.MaxBoxes entries.
// Calling Rank twice without an intervening mutation yields identical
// ordering and scores.
func (s *OptimizerService) Rank(filter models.RecommendationFilter) []models.Recommendation {
	if filter.MaxBoxes <= 0 {
		filter.MaxBoxes = DefaultMaxBoxes
	}
	if filter.MinScore < 0 {
		filter.MinScore = 0
	}

	var recs []models.Recommendation
	for _, box := range s.catalog.List() {
		rec, err := s.cache.Get(box.ID)
		if err != nil {
			// One bad box must never prevent ranking the rest.
			log.Printf("WARNING: skipping box %d: %v", box.ID, err)
			continue
		}
		if rec.ProfitabilityScore < filter.MinScore {
			continue
		}
		recs = append(recs, s.recommendation(box, rec))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ProfitabilityScore > recs[j].ProfitabilityScore
	})

	if len(recs) > filter.MaxBoxes {
		recs = recs[:filter.MaxBoxes]
	}
	return recs
}

// AllBoxes returns every box with its score, sorted by descending score.
// The optional search term matches against address and box identifier.
func (s *OptimizerService) AllBoxes(search string) []models.Recommendation {
	search = strings.ToLower(strings.TrimSpace(search))

	var recs []models.Recommendation
	for _, box := range s.catalog.List() {
		if search != "" &&
			!strings.Contains(strings.ToLower(box.Address), search) &&
			!strings.Contains(strconv.Itoa(box.ID), search) {
			continue
		}
		rec, err := s.cache.Get(box.ID)
		if err != nil {
			log.Printf("WARNING: skipping box %d: %v", box.ID, err)
			continue
		}
		recs = append(recs, s.recommendation(box, rec))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].ProfitabilityScore > recs[j].ProfitabilityScore
	})
	return recs
}

func (s *OptimizerService) recommendation(box *models.Box, rec *models.ScoreRecord) models.Recommendation {
	return models.Recommendation{
		BoxID:              box.ID,
		Address:            box.Address,
		Commune:            box.Commune,
		PostalCode:         box.PostalCode,
		ContainerType:      box.ContainerType,
		ProfitabilityScore: rec.ProfitabilityScore,
		ExpectedFill:       rec.ExpectedFill,
		AverageFill:        s.engine.AverageFill(box),
		DaysSinceLastVisit: rec.DaysSinceLastVisit,
	}
}

// BoxDetail returns a box's attributes, its current score record, its
// recent weekly history and its visit history.
func (s *OptimizerService) BoxDetail(boxID int) (*models.BoxDetail, error) {
	box, err := s.catalog.Get(boxID)
	if err != nil {
		return nil, err
	}
	rec, err := s.cache.Get(boxID)
	if err != nil {
		return nil, err
	}

	var recent []models.WeekHistoryEntry
	week, ok := box.LatestWeek(s.clock.CalendarWeek())
	if ok {
		for w := week; w >= 1 && len(recent) < recentHistoryWeeks; w-- {
			if v := box.Weeks[w-1]; v != nil {
				recent = append(recent, models.WeekHistoryEntry{Week: w, FillLevel: *v})
			}
		}
	}

	return &models.BoxDetail{
		Box:           *box,
		Score:         rec,
		RecentHistory: recent,
	}, nil
}

// VisitedBoxes returns every box visited at least once, most recently
// visited first.
func (s *OptimizerService) VisitedBoxes() []models.VisitedBox {
	var visited []models.VisitedBox
	for _, box := range s.catalog.List() {
		if box.LastVisit == nil {
			continue
		}
		visited = append(visited, models.VisitedBox{
			BoxID:              box.ID,
			Address:            box.Address,
			Commune:            box.Commune,
			PostalCode:         box.PostalCode,
			ContainerType:      box.ContainerType,
			LastVisit:          *box.LastVisit,
			DaysSinceLastVisit: s.clock.DaysSince(*box.LastVisit),
			VisitHistory:       box.VisitHistory,
		})
	}

	sort.SliceStable(visited, func(i, j int) bool {
		return visited[i].LastVisit.After(visited[j].LastVisit)
	})
	return visited
}

// RecordVisit records one observed visit: it journals a VisitEvent
// capturing the expected fill in effect at the moment of the call, updates
// the box's visit state, recomputes that box's score only, and persists.
// A persistence failure is returned as a PersistenceWarning; the in-memory
// mutation is not rolled back.
func (s *OptimizerService) RecordVisit(boxID int, observedFill float64) (*models.VisitEvent, error) {
	if observedFill < 0 || observedFill > 10 {
		return nil, models.NewValidationError("fill_level", "must be within [0,10], got %.2f", observedFill)
	}
	if _, err := s.catalog.Get(boxID); err != nil {
		return nil, err
	}

	// Expected fill as cached at the moment of the call, for later
	// expected-vs-observed accuracy analysis.
	rec, err := s.cache.Get(boxID)
	if err != nil {
		return nil, err
	}
	expected := rec.ExpectedFill

	now := s.clock.Now()
	event := models.VisitEvent{
		ID:           uuid.NewString(),
		BoxID:        boxID,
		VisitedAt:    now,
		ObservedFill: observedFill,
		ExpectedFill: expected,
	}

	state, err := s.catalog.MarkVisited(boxID, models.VisitObservation{
		VisitedAt:    now,
		ObservedFill: observedFill,
		ExpectedFill: expected,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.cache.Recompute(boxID); err != nil {
		log.Printf("WARNING: failed to recompute score for box %d: %v", boxID, err)
	}
	metrics.ScoreRecomputations.Inc()
	metrics.VisitsRecorded.Inc()

	log.Printf("VISIT - box #%d: expected %.1f, observed %.1f", boxID, expected, observedFill)

	if err := s.visitRepo.AppendVisit(event, state); err != nil {
		metrics.PersistenceFailures.Inc()
		warning := &models.PersistenceWarning{Op: "record visit", Err: err}
		log.Printf("WARNING: %v", warning)
		return &event, warning
	}

	return &event, nil
}

// RecentEvents returns the newest visit journal entries, for auditing
// expected-vs-observed fill accuracy.
func (s *OptimizerService) RecentEvents(limit int) ([]models.VisitEvent, error) {
	return s.visitRepo.RecentEvents(limit)
}

// ResetAllVisits clears every box's last-visit timestamp and history,
// truncates the journal, recomputes all scores and persists the cleared
// state. Irreversible; callers are responsible for explicit confirmation.
// Returns the number of boxes whose visit state was cleared.
func (s *OptimizerService) ResetAllVisits() (int, error) {
	cleared := len(s.VisitedBoxes())

	s.catalog.ClearVisits()
	s.cache.RecomputeAll(s.catalog.IDs())

	log.Printf("RESET - cleared visit state for %d boxes", cleared)

	if err := s.visitRepo.ResetAll(); err != nil {
		metrics.PersistenceFailures.Inc()
		warning := &models.PersistenceWarning{Op: "reset visits", Err: err}
		log.Printf("WARNING: %v", warning)
		return cleared, warning
	}
	return cleared, nil
}

// NetworkStats aggregates catalog-wide statistics.
func (s *OptimizerService) NetworkStats() models.NetworkStats {
	boxes := s.catalog.List()

	stats := models.NetworkStats{TotalBoxes: len(boxes)}

	var fills []float64
	for _, box := range boxes {
		if box.LastVisit != nil {
			stats.VisitedBoxes++
		}
		fills = append(fills, box.AverageFill)
	}
	stats.AverageFill = scoring.Mean(fills)
	if stats.TotalBoxes > 0 {
		stats.VisitRate = float64(stats.VisitedBoxes) / float64(stats.TotalBoxes) * 100
	}

	top := make([]*models.Box, len(boxes))
	copy(top, boxes)
	sort.SliceStable(top, func(i, j int) bool { return top[i].AverageFill > top[j].AverageFill })
	for i := 0; i < len(top) && i < 5; i++ {
		stats.TopBoxes = append(stats.TopBoxes, models.TopBox{
			BoxID:       top[i].ID,
			Address:     top[i].Address,
			AverageFill: top[i].AverageFill,
		})
	}

	return stats
}

// AddBox registers a new box with an empty weekly series.
func (s *OptimizerService) AddBox(req models.BoxCreateRequest) error {
	if req.AverageFill < 0 || req.AverageFill > 10 {
		return models.NewValidationError("average_fill", "must be within [0,10], got %.2f", req.AverageFill)
	}

	err := s.catalog.Add(&models.Box{
		ID:            req.ID,
		Address:       req.Address,
		Commune:       req.Commune,
		PostalCode:    req.PostalCode,
		ContainerType: req.ContainerType,
		AverageFill:   req.AverageFill,
		Weeks:         make([]*float64, models.MaxWeeks),
	})
	if err != nil {
		return err
	}

	if _, err := s.cache.Recompute(req.ID); err != nil {
		log.Printf("WARNING: failed to score new box %d: %v", req.ID, err)
	}
	log.Printf("Box #%d added: %s", req.ID, req.Address)
	return nil
}

// UpdateBox applies static-attribute changes and rescores the box.
func (s *OptimizerService) UpdateBox(boxID int, req models.BoxUpdateRequest) error {
	if err := s.catalog.Update(boxID, req); err != nil {
		return err
	}
	if _, err := s.cache.Recompute(boxID); err != nil {
		log.Printf("WARNING: failed to rescore box %d: %v", boxID, err)
	}
	log.Printf("Box #%d updated", boxID)
	return nil
}

// RemoveBox deletes a box from the catalog and drops its cached score and
// persisted visit state. Journal rows are kept for auditing.
func (s *OptimizerService) RemoveBox(boxID int) error {
	if err := s.catalog.Remove(boxID); err != nil {
		return err
	}
	s.cache.Invalidate(boxID)

	if err := s.visitRepo.RemoveBox(boxID); err != nil {
		metrics.PersistenceFailures.Inc()
		warning := &models.PersistenceWarning{Op: "remove box", Err: err}
		log.Printf("WARNING: %v", warning)
		return warning
	}
	log.Printf("Box #%d removed", boxID)
	return nil
}
