package interview

import (
	"time"

	"github.com/google/uuid"
)

// PhaseSummary aggregates all evaluations belonging to one phase.
type PhaseSummary struct {
	Phase         Phase              `json:"phase"`
	QuestionCount int                `json:"question_count"`
	Dimensions    map[string]float64 `json:"dimensions"` // mean per dimension reported in this phase
	Score         float64            `json:"score"`      // mean over the phase's dimension means
	Percentile    float64            `json:"percentile"` // against the reference population
}

// Report is the final aggregate for a finished session. It is created once
// and immutable afterwards; recompiling from the same transcript yields
// identical numeric content.
type Report struct {
	ID                   uuid.UUID          `json:"id"`
	SessionID            uuid.UUID          `json:"session_id"`
	PhaseSummaries       []PhaseSummary     `json:"phase_summaries"`
	DimensionAggregates  map[string]float64 `json:"dimension_aggregates"`
	OverallScore         float64            `json:"overall_score"`
	OverallPercentile    float64            `json:"overall_percentile"`
	Strengths            []string           `json:"strengths,omitempty"`
	Weaknesses           []string           `json:"weaknesses,omitempty"`
	NarrativeUnavailable bool               `json:"narrative_unavailable,omitempty"`
	GeneratedAt          time.Time          `json:"generated_at"`
}
