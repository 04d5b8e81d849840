// Package registry keeps the in-memory mapping from gateway request ids to
// provider video state. It is scoped to the process lifetime: nothing is
// persisted and nothing is evicted, which is an accepted scaling limitation.
package registry

import (
	"fmt"
	"sync"
	"time"

	"server/internal/domain"
)

// Registry is a threadsafe in-memory store of video generation requests.
// Records are returned by value so callers never share memory with the map;
// the critical section is pure in-memory assignment and never does I/O.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*domain.VideoRequest
	order   []string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{records: make(map[string]*domain.VideoRequest)}
}

// Insert stores a new record keyed by its RequestID. Request ids are UUIDs,
// so a collision should never happen; the contract is still explicit and a
// duplicate fails with domain.ErrDuplicateOperation.
func (r *Registry) Insert(rec domain.VideoRequest) error {
	if rec.RequestID == "" {
		return fmt.Errorf("registry: empty request id: %w", domain.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.RequestID]; ok {
		return fmt.Errorf("registry: request %s: %w", rec.RequestID, domain.ErrDuplicateOperation)
	}
	stored := rec
	r.records[rec.RequestID] = &stored
	r.order = append(r.order, rec.RequestID)
	return nil
}

// Get returns a copy of the record for the given request id.
func (r *Registry) Get(requestID string) (domain.VideoRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[requestID]
	if !ok {
		return domain.VideoRequest{}, fmt.Errorf("registry: request %s: %w", requestID, domain.ErrNotFound)
	}
	return *rec, nil
}

// FindByVideoID returns the request id that maps to the given provider video
// id. Video ids are provider-unique; if duplicates ever exist the first match
// in insertion order wins.
func (r *Registry) FindByVideoID(videoID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if r.records[id].VideoID == videoID {
			return id, nil
		}
	}
	return "", fmt.Errorf("registry: video %s: %w", videoID, domain.ErrNotFound)
}

// UpdateStatus records the latest provider status and check time for a
// request. Status updates are best-effort: an absent request id is not an
// error at this layer, the method just reports whether the update applied.
func (r *Registry) UpdateStatus(requestID, status string, checkedAt time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[requestID]
	if !ok {
		return false
	}
	rec.Status = status
	t := checkedAt
	rec.LastCheckedAt = &t
	return true
}

// List returns copies of all records in insertion order.
func (r *Registry) List() []domain.VideoRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.VideoRequest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.records[id])
	}
	return out
}

// Len reports the number of tracked requests.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}
