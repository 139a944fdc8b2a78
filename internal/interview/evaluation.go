package interview

import (
	"time"

	"github.com/google/uuid"
)

// Availability records which modalities actually contributed to an
// evaluation. Text is mandatory and always true for a completed result;
// audio and video reflect whether the optional extractors succeeded.
type Availability struct {
	Text  bool `json:"text"`
	Audio bool `json:"audio"`
	Video bool `json:"video"`
}

// DimensionScore is one competency dimension's result: a 0..5 score and a
// short rationale.
type DimensionScore struct {
	Score     float64 `json:"score"`
	Rationale string  `json:"rationale"`
}

// Evaluation is the scored result for a single answer.
type Evaluation struct {
	QuestionID   uuid.UUID                 `json:"question_id"`
	Phase        Phase                     `json:"phase"`
	Dimensions   map[string]DimensionScore `json:"dimensions"`
	Availability Availability              `json:"availability"`
	CreatedAt    time.Time                 `json:"created_at"`
}

// PhaseContribution is the evaluation's overall contribution to its phase:
// the mean over all scored dimensions.
func (e *Evaluation) PhaseContribution() float64 {
	if len(e.Dimensions) == 0 {
		return 0
	}
	var sum float64
	for _, d := range e.Dimensions {
		sum += d.Score
	}
	return sum / float64(len(e.Dimensions))
}
