// Package store persists sessions and reports. The production backend is
// PostgreSQL; an in-memory implementation backs tests and local runs.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
)

// ErrVersionConflict indicates a concurrent writer changed the session
// since it was loaded.
var ErrVersionConflict = errors.New("session version conflict")

// ErrReportNotFound indicates no report has been compiled for a session.
var ErrReportNotFound = errors.New("report not found")

// Store persists sessions and compiled reports. Save enforces optimistic
// concurrency: the stored version must match the session's version at
// load time, and a successful save bumps it.
type Store interface {
	CreateSession(ctx context.Context, s *interview.Session) error
	LoadSession(ctx context.Context, id uuid.UUID) (*interview.Session, error)
	SaveSession(ctx context.Context, s *interview.Session) error

	SaveReport(ctx context.Context, r *interview.Report) error
	LoadReport(ctx context.Context, sessionID uuid.UUID) (*interview.Report, error)

	Close()
}
