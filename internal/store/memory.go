package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
)

// MemoryStore keeps sessions and reports in process memory. Sessions are
// deep-copied on the way in and out, so callers never share state with
// the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*interview.Session
	reports  map[uuid.UUID]*interview.Report
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]*interview.Session),
		reports:  make(map[uuid.UUID]*interview.Report),
	}
}

// CreateSession stores a new session at version 1.
func (m *MemoryStore) CreateSession(ctx context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists", s.ID)
	}
	stored := s.Clone()
	stored.Version = 1
	m.sessions[s.ID] = stored
	s.Version = 1
	return nil
}

// LoadSession returns a copy of the stored session.
func (m *MemoryStore) LoadSession(ctx context.Context, id uuid.UUID) (*interview.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", interview.ErrSessionNotFound, id)
	}
	return s.Clone(), nil
}

// SaveSession persists a mutated session, enforcing the version check.
func (m *MemoryStore) SaveSession(ctx context.Context, s *interview.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", interview.ErrSessionNotFound, s.ID)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("%w: session %s has version %d, caller has %d",
			ErrVersionConflict, s.ID, stored.Version, s.Version)
	}
	next := s.Clone()
	next.Version = s.Version + 1
	m.sessions[s.ID] = next
	s.Version = next.Version
	return nil
}

// SaveReport stores a compiled report, replacing any prior one for the
// same session.
func (m *MemoryStore) SaveReport(ctx context.Context, r *interview.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.reports[r.SessionID] = &cp
	return nil
}

// LoadReport returns the stored report for a session, if any.
func (m *MemoryStore) LoadReport(ctx context.Context, sessionID uuid.UUID) (*interview.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.reports[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: session %s", ErrReportNotFound, sessionID)
	}
	cp := *r
	return &cp, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() {}
