package services

import (
	"sync"
	"time"

	"callbot-management/models"
)

// StatusBoard is the live consultation-queue view. Entries are keyed by
// vulnerable id and kept in arrival order; an update for a known id
// replaces that entry in place, an unknown id is appended. Every update
// carries a monotonic version and a stale version never overwrites a
// newer one, so interleaved snapshot and stream arrivals reconcile to the
// same state regardless of order.
type StatusBoard struct {
	mu    sync.RWMutex
	items []models.ConsultationStatus
	index map[string]int
	clock func() int64
}

func NewStatusBoard() *StatusBoard {
	return &StatusBoard{
		index: make(map[string]int),
		clock: func() int64 { return time.Now().UnixNano() },
	}
}

// Stamp assigns the next version to an update. Callers that already carry
// a version (replayed stream events) keep theirs.
func (b *StatusBoard) Stamp(s *models.ConsultationStatus) {
	if s.Version == 0 {
		s.Version = b.clock()
	}
}

// Apply reconciles one update into the board. Returns false when the
// update was stale and dropped.
func (b *StatusBoard) Apply(s models.ConsultationStatus) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[s.VulnerableID]; ok {
		if s.Version < b.items[i].Version {
			return false
		}
		b.items[i] = s
		return true
	}

	b.index[s.VulnerableID] = len(b.items)
	b.items = append(b.items, s)
	return true
}

// Snapshot returns the ordered board contents.
func (b *StatusBoard) Snapshot() []models.ConsultationStatus {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.ConsultationStatus, len(b.items))
	copy(out, b.items)
	return out
}

// Get returns the entry for one vulnerable id.
func (b *StatusBoard) Get(vulnerableID string) (models.ConsultationStatus, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if i, ok := b.index[vulnerableID]; ok {
		return b.items[i], true
	}
	return models.ConsultationStatus{}, false
}

// Progress computes the derived aggregates: counts per status and the
// completion percentage (completed+failed over total).
func (b *StatusBoard) Progress() models.QueueProgress {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p := models.QueueProgress{
		Total:    len(b.items),
		ByStatus: make(map[string]int),
	}
	done := 0
	for _, s := range b.items {
		p.ByStatus[s.Status]++
		if s.Status == models.StatusCompleted || s.Status == models.StatusFailed {
			done++
		}
	}
	if p.Total > 0 {
		p.Percentage = float64(done) / float64(p.Total) * 100
	}
	return p
}

// Reset clears the board, keeping backing storage.
func (b *StatusBoard) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = b.items[:0]
	b.index = make(map[string]int)
}
