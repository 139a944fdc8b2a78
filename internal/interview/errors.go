package interview

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors for the engine's error taxonomy. Sequencing errors are
// caller misuse and are never retried internally; grounding and generation
// errors are surfaced after the provider-level retry budget is exhausted.
var (
	// ErrOutOfOrderAnswer is returned when an answer does not reference the
	// most recently produced, not-yet-answered question.
	ErrOutOfOrderAnswer = errors.New("answer does not reference the pending question")

	// ErrSessionClosed is returned for operations on a finished or
	// abandoned session.
	ErrSessionClosed = errors.New("session is closed")

	// ErrSessionNotFinished is returned when a report is requested for a
	// session that is still in progress.
	ErrSessionNotFinished = errors.New("session is not finished")

	// ErrSessionBusy is returned when another mutating operation holds the
	// session; callers may retry once the conflicting operation completes.
	ErrSessionBusy = errors.New("session is busy")

	// ErrSessionNotFound is returned when no session exists for the id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrRetrievalUnavailable is returned when the document retriever
	// cannot produce grounding passages. Retryable by the caller.
	ErrRetrievalUnavailable = errors.New("document retrieval unavailable")

	// ErrGenerationFailed is returned when the generation provider fails
	// after internal retries are exhausted.
	ErrGenerationFailed = errors.New("question generation failed")

	// ErrEvaluationFailed is returned when answer scoring cannot produce a
	// complete result after internal retries are exhausted.
	ErrEvaluationFailed = errors.New("answer evaluation failed")
)

// OpError carries the session context for a failed engine operation so the
// surrounding layer can present an actionable message.
type OpError struct {
	SessionID uuid.UUID
	Phase     Phase
	Op        string
	Err       error
}

func (e *OpError) Error() string {
	if e.Phase != "" {
		return fmt.Sprintf("%s: session %s (phase %s): %v", e.Op, e.SessionID, e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: session %s: %v", e.Op, e.SessionID, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}
