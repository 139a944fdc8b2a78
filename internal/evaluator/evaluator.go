package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/signals"
)

// Evaluator scores answers using the LLM for substance and deterministic
// signal scoring for delivery.
type Evaluator struct {
	client           llm.Client
	retry            llm.Policy
	extractorTimeout time.Duration
}

// New builds an Evaluator around an LLM client.
func New(client llm.Client) *Evaluator {
	return &Evaluator{
		client:           client,
		retry:            llm.DefaultPolicy(),
		extractorTimeout: signals.DefaultExtractorTimeout,
	}
}

// WithRetry overrides the retry policy for model scoring calls.
func (e *Evaluator) WithRetry(p llm.Policy) *Evaluator {
	e.retry = p
	return e
}

type scorePayload struct {
	Dimensions map[string]struct {
		Score     float64 `json:"score"`
		Rationale string  `json:"rationale"`
	} `json:"dimensions"`
}

// Evaluate scores one answered question. The model must return every
// mandatory dimension for the question's phase; malformed or incomplete
// responses are retried under the evaluator's policy, and exhaustion
// surfaces as ErrEvaluationFailed. Audio and video dimensions are added
// from extracted signals when those modalities are usable.
func (e *Evaluator) Evaluate(ctx context.Context, q *interview.Question, a *interview.Answer) (*interview.Evaluation, error) {
	set, err := signals.Extract(ctx, a, e.extractorTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: signal extraction: %v", interview.ErrEvaluationFailed, err)
	}

	mandatory := MandatoryDimensions(q.Phase)
	prompt := prompts.MustFormat("evaluation.json", "score_answer", map[string]string{
		"Phase":      string(q.Phase),
		"Question":   q.Text,
		"Answer":     a.Text,
		"Signals":    set.Text.Describe(),
		"Dimensions": strings.Join(mandatory, ", "),
	})

	var payload scorePayload
	err = llm.Do(ctx, e.retry, func(ctx context.Context) error {
		raw, genErr := e.client.GenerateJSON(ctx, prompt, llm.TierStandard)
		if genErr != nil {
			return genErr
		}
		if valErr := validateScorePayload(raw); valErr != nil {
			return valErr
		}
		var p scorePayload
		if decErr := json.Unmarshal([]byte(raw), &p); decErr != nil {
			return fmt.Errorf("failed to decode score payload: %w", decErr)
		}
		for _, dim := range mandatory {
			if _, ok := p.Dimensions[dim]; !ok {
				return fmt.Errorf("score payload missing dimension %q", dim)
			}
		}
		payload = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrEvaluationFailed, err)
	}

	eval := &interview.Evaluation{
		QuestionID:   q.ID,
		Phase:        q.Phase,
		Dimensions:   make(map[string]interview.DimensionScore, len(mandatory)+3),
		Availability: set.Availability,
		CreatedAt:    time.Now().UTC(),
	}
	for _, dim := range mandatory {
		d := payload.Dimensions[dim]
		eval.Dimensions[dim] = interview.DimensionScore{Score: d.Score, Rationale: d.Rationale}
	}

	if set.Audio != nil {
		eval.Dimensions[DimVocalConfidence] = interview.DimensionScore{
			Score:     set.Audio.Confidence / 20,
			Rationale: fmt.Sprintf("prosodic confidence %.0f/100 from intensity, pitch stability, and voice quality", set.Audio.Confidence),
		}
		eval.Dimensions[DimSpeechFluency] = interview.DimensionScore{
			Score:     set.Audio.Fluency / 20,
			Rationale: fmt.Sprintf("speech fluency %.0f/100 from pacing and voiced continuity", set.Audio.Fluency),
		}
	}
	if set.Video != nil {
		eval.Dimensions[DimVisualEngagement] = interview.DimensionScore{
			Score:     set.Video.Engagement / 20,
			Rationale: fmt.Sprintf("visual engagement %.0f/100 from gaze, expression, and smile ratio", set.Video.Engagement),
		}
	}

	return eval, nil
}
