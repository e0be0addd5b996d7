package sessions

import (
	"fmt"
	"sync"

	apperrors "github.com/jrsteele09/orbithall-admin/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is a process-local implementation of Repo
type InMemoryRepo struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		records: make(map[string]Record),
	}
}

// Upsert creates or updates a session record
func (r *InMemoryRepo) Upsert(sessionID string, record Record) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record.ID = sessionID
	if record.BackendUser != nil {
		u := *record.BackendUser
		record.BackendUser = &u
	}
	r.records[sessionID] = record
	return nil
}

// Get retrieves a session record by ID
func (r *InMemoryRepo) Get(sessionID string) (Record, error) {
	if sessionID == "" {
		return Record{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[sessionID]
	if !ok {
		return Record{}, apperrors.ErrSessionNotFound
	}
	if record.BackendUser != nil {
		u := *record.BackendUser
		record.BackendUser = &u
	}
	return record, nil
}

// Delete removes a session record
func (r *InMemoryRepo) Delete(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, sessionID)
	return nil
}
