package catalog

import (
	"sort"
	"sync"

	"github.com/gflcollect/boxes-backend-go/internal/models"
)

// Catalog is the in-memory registry of every box. Reads may run
// concurrently; the single writer (the visit tracker and the box admin
// operations) takes the write lock. Readers receive snapshot copies, never
// the live records.
type Catalog struct {
	mu    sync.RWMutex
	boxes map[int]*models.Box
}

// New builds a catalog from loaded boxes.
func New(boxes []*models.Box) *Catalog {
	c := &Catalog{boxes: make(map[int]*models.Box, len(boxes))}
	for _, b := range boxes {
		c.boxes[b.ID] = b
	}
	return c
}

// Get returns a snapshot of the box with the given identifier. The live
// record is only ever touched under the catalog lock; callers own the copy
// and never observe a concurrent mutation through it.
func (c *Catalog) Get(id int) (*models.Box, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.boxes[id]
	if !ok {
		return nil, models.ErrBoxNotFound
	}
	return snapshot(b), nil
}

// snapshot copies a box for handing out to readers. The weekly series
// backing array is shared: its entries are never written after load.
func snapshot(b *models.Box) *models.Box {
	cp := *b
	if b.LastVisit != nil {
		t := *b.LastVisit
		cp.LastVisit = &t
	}
	cp.VisitHistory = append([]models.VisitObservation(nil), b.VisitHistory...)
	return &cp
}

// IDs returns all box identifiers in ascending order.
func (c *Catalog) IDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, 0, len(c.boxes))
	for id := range c.boxes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// List returns snapshots of all boxes ordered by ascending identifier.
func (c *Catalog) List() []*models.Box {
	c.mu.RLock()
	defer c.mu.RUnlock()
	boxes := make([]*models.Box, 0, len(c.boxes))
	for _, b := range c.boxes {
		boxes = append(boxes, snapshot(b))
	}
	sort.Slice(boxes, func(i, j int) bool { return boxes[i].ID < boxes[j].ID })
	return boxes
}

// Len returns the number of boxes in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.boxes)
}

// Add registers a new box. Adding an identifier that already exists is a
// validation error.
func (c *Catalog) Add(b *models.Box) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.boxes[b.ID]; ok {
		return models.NewValidationError("box_id", "box #%d already exists", b.ID)
	}
	if b.Weeks == nil {
		b.Weeks = make([]*float64, models.MaxWeeks)
	}
	c.boxes[b.ID] = b
	return nil
}

// Remove deletes a box from the catalog.
func (c *Catalog) Remove(id int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.boxes[id]; !ok {
		return models.ErrBoxNotFound
	}
	delete(c.boxes, id)
	return nil
}

// Update applies the non-nil fields of req to the box's static attributes.
func (c *Catalog) Update(id int, req models.BoxUpdateRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.boxes[id]
	if !ok {
		return models.ErrBoxNotFound
	}
	if req.Address != nil {
		b.Address = *req.Address
	}
	if req.Commune != nil {
		b.Commune = *req.Commune
	}
	if req.PostalCode != nil {
		b.PostalCode = *req.PostalCode
	}
	if req.ContainerType != nil {
		b.ContainerType = *req.ContainerType
	}
	if req.AverageFill != nil {
		if *req.AverageFill < 0 || *req.AverageFill > 10 {
			return models.NewValidationError("average_fill", "must be within [0,10], got %.2f", *req.AverageFill)
		}
		b.AverageFill = *req.AverageFill
	}
	return nil
}

// MarkVisited sets the box's last-visit timestamp, appends the observation
// to its bounded visit history and returns a snapshot of the box's durable
// visit state for persistence.
func (c *Catalog) MarkVisited(id int, obs models.VisitObservation) (models.BoxVisitState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.boxes[id]
	if !ok {
		return models.BoxVisitState{}, models.ErrBoxNotFound
	}
	t := obs.VisitedAt
	b.LastVisit = &t
	b.VisitHistory = append(b.VisitHistory, obs)
	if len(b.VisitHistory) > models.MaxVisitHistory {
		b.VisitHistory = b.VisitHistory[len(b.VisitHistory)-models.MaxVisitHistory:]
	}

	history := make([]models.VisitObservation, len(b.VisitHistory))
	copy(history, b.VisitHistory)
	return models.BoxVisitState{BoxID: id, LastVisit: t, VisitHistory: history}, nil
}

// RestoreVisitState rewires a box's visit state from a durable snapshot.
// Unknown box identifiers are skipped: the catalog source is authoritative
// for which boxes exist.
func (c *Catalog) RestoreVisitState(states []models.BoxVisitState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, st := range states {
		b, ok := c.boxes[st.BoxID]
		if !ok {
			continue
		}
		t := st.LastVisit
		b.LastVisit = &t
		history := st.VisitHistory
		if len(history) > models.MaxVisitHistory {
			history = history[len(history)-models.MaxVisitHistory:]
		}
		b.VisitHistory = history
	}
}

// ClearVisits removes every box's last-visit timestamp and visit history.
func (c *Catalog) ClearVisits() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, b := range c.boxes {
		b.LastVisit = nil
		b.VisitHistory = nil
	}
}
