package ledger

import (
	"sync/atomic"

	"colorledger/models"
)

// Snapshot is an immutable view of the ledger ordered by page and row.
// Callers must not modify the formulas it holds.
type Snapshot struct {
	Version  uint64
	Formulas []models.Formula
	index    map[string]int
}

func newSnapshot(version uint64, formulas []models.Formula) *Snapshot {
	index := make(map[string]int, len(formulas))
	for idx, formula := range formulas {
		index[formula.ID] = idx
	}
	return &Snapshot{Version: version, Formulas: formulas, index: index}
}

// Lookup returns the formula with id.
func (s *Snapshot) Lookup(id string) (models.Formula, bool) {
	idx, ok := s.index[id]
	if !ok {
		return models.Formula{}, false
	}
	return s.Formulas[idx], true
}

// Cache publishes snapshots atomically. Readers never block and never see a
// partially built snapshot; writers must be serialized by the caller.
type Cache struct {
	current atomic.Pointer[Snapshot]
}

// NewCache returns an empty cache at version zero.
func NewCache() *Cache {
	c := &Cache{}
	c.current.Store(newSnapshot(0, []models.Formula{}))
	return c
}

// Load returns the current snapshot.
func (c *Cache) Load() *Snapshot {
	return c.current.Load()
}

// Replace publishes formulas as the new snapshot.
func (c *Cache) Replace(formulas []models.Formula) *Snapshot {
	if formulas == nil {
		formulas = []models.Formula{}
	}
	next := newSnapshot(c.Load().Version+1, formulas)
	c.current.Store(next)
	return next
}

// Patch copies the current snapshot, applies fn to the formula with id and
// publishes the copy. It reports false when id is not cached.
func (c *Cache) Patch(id string, fn func(*models.Formula)) bool {
	prev := c.Load()
	idx, ok := prev.index[id]
	if !ok {
		return false
	}

	formulas := make([]models.Formula, len(prev.Formulas))
	copy(formulas, prev.Formulas)
	formula := formulas[idx].Clone()
	fn(&formula)
	formulas[idx] = formula

	c.current.Store(newSnapshot(prev.Version+1, formulas))
	return true
}

// Remove publishes a snapshot without the formula with id.
func (c *Cache) Remove(id string) bool {
	prev := c.Load()
	idx, ok := prev.index[id]
	if !ok {
		return false
	}

	formulas := make([]models.Formula, 0, len(prev.Formulas)-1)
	formulas = append(formulas, prev.Formulas[:idx]...)
	formulas = append(formulas, prev.Formulas[idx+1:]...)

	c.current.Store(newSnapshot(prev.Version+1, formulas))
	return true
}
