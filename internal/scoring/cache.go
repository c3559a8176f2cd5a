package scoring

import (
	"sync"

	"github.com/gflcollect/boxes-backend-go/internal/models"
)

// Cache maps box identifiers to their last computed score record. Entries
// are replaced whole, never mutated field by field, so concurrent readers
// observe either the old record or the new one.
type Cache struct {
	mu      sync.RWMutex
	engine  *Engine
	records map[int]*models.ScoreRecord
}

// NewCache creates an empty score cache backed by the given engine.
func NewCache(engine *Engine) *Cache {
	return &Cache{
		engine:  engine,
		records: make(map[int]*models.ScoreRecord),
	}
}

// Get returns the cached record for a box, computing it lazily when the
// box has never been scored.
func (c *Cache) Get(boxID int) (*models.ScoreRecord, error) {
	c.mu.RLock()
	rec, ok := c.records[boxID]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}
	return c.Recompute(boxID)
}

// Recompute forces a fresh computation for exactly one box and replaces
// its cache entry. No other box's entry is touched.
func (c *Cache) Recompute(boxID int) (*models.ScoreRecord, error) {
	rec, err := c.engine.Compute(boxID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.records[boxID] = rec
	c.mu.Unlock()
	return rec, nil
}

// Invalidate drops the cache entry for one box, used when the box is
// removed from the catalog.
func (c *Cache) Invalidate(boxID int) {
	c.mu.Lock()
	delete(c.records, boxID)
	c.mu.Unlock()
}

// RecomputeAll rebuilds the whole cache, used at startup and after a full
// reset. Boxes that cannot be scored are skipped; they will be retried on
// first access.
func (c *Cache) RecomputeAll(boxIDs []int) {
	fresh := make(map[int]*models.ScoreRecord, len(boxIDs))
	for _, id := range boxIDs {
		rec, err := c.engine.Compute(id)
		if err != nil {
			continue
		}
		fresh[id] = rec
	}
	c.mu.Lock()
	c.records = fresh
	c.mu.Unlock()
}
