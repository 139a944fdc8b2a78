package interview

import (
	"time"

	"github.com/google/uuid"
)

// PassageRef records one retrieved passage that grounded a generated
// question, kept for auditability of the generation step.
type PassageRef struct {
	PassageID string  `json:"passage_id"`
	Snippet   string  `json:"snippet"`
	Score     float64 `json:"score"`
}

// Question is a single generated interview prompt.
type Question struct {
	ID        uuid.UUID    `json:"id"`
	SessionID uuid.UUID    `json:"session_id"`
	Phase     Phase        `json:"phase"`
	Ordinal   int          `json:"ordinal"` // position within the session, 0-based
	Text      string       `json:"text"`
	Tail      bool         `json:"tail"` // follow-up to the prior answer rather than a new topic
	Grounding []PassageRef `json:"grounding,omitempty"`
	Model     string       `json:"model,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
