package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gflcollect/boxes-backend-go/internal/database"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// VisitRepository persists the append-only visit journal and the per-box
// engine state snapshot. Journal rows are never updated or deleted except
// by the bulk reset.
type VisitRepository struct {
	db    *sql.DB
	clock *timeutil.Clock
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *sql.DB, clock *timeutil.Clock) *VisitRepository {
	return &VisitRepository{db: db, clock: clock}
}

// AppendVisit writes one journal row and the updated state of the visited
// box in a single transaction. The call returns only after the durable
// write completed or failed.
func (r *VisitRepository) AppendVisit(event models.VisitEvent, state models.BoxVisitState) error {
	history, err := json.Marshal(state.VisitHistory)
	if err != nil {
		return fmt.Errorf("failed to encode visit history: %w", err)
	}

	return database.Transaction(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(
			`INSERT INTO visit_events (id, box_id, visited_at, observed_fill, expected_fill)
			 VALUES (?, ?, ?, ?, ?)`,
			event.ID, event.BoxID, event.VisitedAt.Format(time.RFC3339), event.ObservedFill, event.ExpectedFill,
		)
		if err != nil {
			return fmt.Errorf("failed to append visit event: %w", err)
		}

		_, err = tx.Exec(
			`INSERT INTO box_visit_state (box_id, last_visit, visit_history)
			 VALUES (?, ?, ?)
			 ON CONFLICT(box_id) DO UPDATE SET last_visit = excluded.last_visit, visit_history = excluded.visit_history`,
			state.BoxID, state.LastVisit.Format(time.RFC3339), string(history),
		)
		if err != nil {
			return fmt.Errorf("failed to save box visit state: %w", err)
		}
		return nil
	})
}

// LoadStates reads every box's persisted visit state, normalizing all
// timestamps to the reference timezone.
func (r *VisitRepository) LoadStates() ([]models.BoxVisitState, error) {
	rows, err := r.db.Query("SELECT box_id, last_visit, visit_history FROM box_visit_state")
	if err != nil {
		return nil, fmt.Errorf("failed to query visit states: %w", err)
	}
	defer rows.Close()

	var states []models.BoxVisitState
	for rows.Next() {
		var st models.BoxVisitState
		var lastVisit, history string
		if err := rows.Scan(&st.BoxID, &lastVisit, &history); err != nil {
			return nil, fmt.Errorf("failed to scan visit state: %w", err)
		}

		t, err := r.clock.ParseLocal(lastVisit)
		if err != nil {
			return nil, fmt.Errorf("corrupt visit state for box %d: %w", st.BoxID, err)
		}
		st.LastVisit = t

		if err := json.Unmarshal([]byte(history), &st.VisitHistory); err != nil {
			return nil, fmt.Errorf("corrupt visit history for box %d: %w", st.BoxID, err)
		}
		for i := range st.VisitHistory {
			st.VisitHistory[i].VisitedAt = r.clock.Normalize(st.VisitHistory[i].VisitedAt)
		}

		states = append(states, st)
	}

	return states, rows.Err()
}

// RecentEvents returns the newest journal entries, most recent first.
func (r *VisitRepository) RecentEvents(limit int) ([]models.VisitEvent, error) {
	if limit < 1 {
		limit = 100
	}
	rows, err := r.db.Query(
		`SELECT id, box_id, visited_at, observed_fill, expected_fill
		 FROM visit_events ORDER BY visited_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit events: %w", err)
	}
	defer rows.Close()

	var events []models.VisitEvent
	for rows.Next() {
		var ev models.VisitEvent
		var visitedAt string
		if err := rows.Scan(&ev.ID, &ev.BoxID, &visitedAt, &ev.ObservedFill, &ev.ExpectedFill); err != nil {
			return nil, fmt.Errorf("failed to scan visit event: %w", err)
		}
		t, err := r.clock.ParseLocal(visitedAt)
		if err != nil {
			return nil, fmt.Errorf("corrupt visit event %s: %w", ev.ID, err)
		}
		ev.VisitedAt = t
		events = append(events, ev)
	}

	return events, rows.Err()
}

// ResetAll truncates the journal and clears every box's visit state.
func (r *VisitRepository) ResetAll() error {
	return database.Transaction(r.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM visit_events"); err != nil {
			return fmt.Errorf("failed to truncate visit journal: %w", err)
		}
		if _, err := tx.Exec("DELETE FROM box_visit_state"); err != nil {
			return fmt.Errorf("failed to clear visit states: %w", err)
		}
		return nil
	})
}

// RemoveBox deletes the persisted state of one box, used when a box is
// removed from the catalog. Journal rows are kept for auditing.
func (r *VisitRepository) RemoveBox(boxID int) error {
	if _, err := r.db.Exec("DELETE FROM box_visit_state WHERE box_id = ?", boxID); err != nil {
		return fmt.Errorf("failed to remove visit state for box %d: %w", boxID, err)
	}
	return nil
}
