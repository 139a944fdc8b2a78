package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-coach/internal/interview"
)

// PostgresStore persists sessions and reports in PostgreSQL. The
// transcript travels as a JSONB document; scalar session fields are
// columns so they can be queried directly.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Migrate creates the schema if it does not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS interview_sessions (
    id            UUID PRIMARY KEY,
    candidate_id  TEXT NOT NULL,
    company       TEXT NOT NULL DEFAULT '',
    job_title     TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL,
    phase         TEXT NOT NULL,
    version       INTEGER NOT NULL,
    document      JSONB NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_interview_sessions_candidate
    ON interview_sessions (candidate_id);

CREATE TABLE IF NOT EXISTS interview_reports (
    session_id   UUID PRIMARY KEY REFERENCES interview_sessions(id),
    report       JSONB NOT NULL,
    generated_at TIMESTAMPTZ NOT NULL
);`
	if _, err := p.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// CreateSession inserts a new session at version 1.
func (p *PostgresStore) CreateSession(ctx context.Context, s *interview.Session) error {
	stored := s.Clone()
	stored.Version = 1
	doc, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO interview_sessions
		     (id, candidate_id, company, job_title, status, phase, version, document, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		stored.ID, stored.CandidateID, stored.Scope.Company, stored.Scope.JobTitle,
		stored.Status, stored.Phase, stored.Version, doc, stored.CreatedAt, stored.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	s.Version = 1
	return nil
}

// LoadSession fetches a session by ID.
func (p *PostgresStore) LoadSession(ctx context.Context, id uuid.UUID) (*interview.Session, error) {
	var doc []byte
	var version int
	err := p.pool.QueryRow(ctx,
		`SELECT document, version FROM interview_sessions WHERE id = $1`, id,
	).Scan(&doc, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", interview.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var s interview.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session %s: %w", id, err)
	}
	s.Version = version
	return &s, nil
}

// SaveSession updates a session, enforcing the optimistic version check.
func (p *PostgresStore) SaveSession(ctx context.Context, s *interview.Session) error {
	next := s.Clone()
	next.Version = s.Version + 1
	doc, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tag, err := p.pool.Exec(ctx,
		`UPDATE interview_sessions
		    SET status = $1, phase = $2, version = $3, document = $4, updated_at = $5
		  WHERE id = $6 AND version = $7`,
		next.Status, next.Phase, next.Version, doc, next.UpdatedAt, next.ID, s.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing row from a stale version.
		var exists bool
		if err := p.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM interview_sessions WHERE id = $1)`, s.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", interview.ErrSessionNotFound, s.ID)
		}
		return fmt.Errorf("%w: session %s at version %d", ErrVersionConflict, s.ID, s.Version)
	}
	s.Version = next.Version
	return nil
}

// SaveReport upserts the compiled report for a session.
func (p *PostgresStore) SaveReport(ctx context.Context, r *interview.Report) error {
	doc, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO interview_reports (session_id, report, generated_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (session_id) DO UPDATE
		     SET report = EXCLUDED.report, generated_at = EXCLUDED.generated_at`,
		r.SessionID, doc, r.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// LoadReport fetches the report for a session.
func (p *PostgresStore) LoadReport(ctx context.Context, sessionID uuid.UUID) (*interview.Report, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx,
		`SELECT report FROM interview_reports WHERE session_id = $1`, sessionID,
	).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", ErrReportNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var r interview.Report
	if err := json.Unmarshal(doc, &r); err != nil {
		return nil, fmt.Errorf("failed to decode report for session %s: %w", sessionID, err)
	}
	return &r, nil
}
