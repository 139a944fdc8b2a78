// Package report compiles a finished session's transcript into the final
// competency report: per-phase and overall aggregates, percentile
// placement against a reference population, and a model-written
// strengths/weaknesses narrative.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
)

// OverallSeries is the reference distribution series for the whole
// interview score.
const OverallSeries = "overall"

// Compiler builds reports from finished sessions.
type Compiler struct {
	client llm.Client
	dist   ReferenceDistribution
	retry  llm.Policy
}

// NewCompiler builds a Compiler. dist may be nil, in which case
// percentiles stay at zero.
func NewCompiler(client llm.Client, dist ReferenceDistribution) *Compiler {
	return &Compiler{client: client, dist: dist, retry: llm.DefaultPolicy()}
}

// WithRetry overrides the retry policy for narrative generation.
func (c *Compiler) WithRetry(p llm.Policy) *Compiler {
	c.retry = p
	return c
}

type narrativePayload struct {
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
}

// Compile aggregates a finished session into a report. Numeric content is
// a pure function of the transcript, so recompiling yields the same
// numbers. Narrative generation failures degrade the report to
// numeric-only rather than failing the call.
func (c *Compiler) Compile(ctx context.Context, s *interview.Session) (*interview.Report, error) {
	if s.Status != interview.StatusFinished {
		return nil, fmt.Errorf("%w: session %s is %s", interview.ErrSessionNotFinished, s.ID, s.Status)
	}

	rep := &interview.Report{
		ID:                  uuid.New(),
		SessionID:           s.ID,
		DimensionAggregates: make(map[string]float64),
		GeneratedAt:         time.Now().UTC(),
	}

	dimTotals := make(map[string]float64)
	dimCounts := make(map[string]int)

	for _, phase := range interview.Phases() {
		summary := interview.PhaseSummary{Phase: phase, Dimensions: make(map[string]float64)}
		phaseTotals := make(map[string]float64)
		phaseCounts := make(map[string]int)

		for _, ex := range s.Transcript {
			if ex.Question.Phase != phase || ex.Evaluation == nil {
				continue
			}
			summary.QuestionCount++
			for dim, d := range ex.Evaluation.Dimensions {
				phaseTotals[dim] += d.Score
				phaseCounts[dim]++
				dimTotals[dim] += d.Score
				dimCounts[dim]++
			}
		}
		if summary.QuestionCount == 0 {
			continue
		}

		// Summation order is fixed so recompiling the same transcript
		// reproduces the exact same floats.
		dims := make([]string, 0, len(phaseTotals))
		for dim := range phaseTotals {
			dims = append(dims, dim)
		}
		sort.Strings(dims)

		var sum float64
		for _, dim := range dims {
			mean := phaseTotals[dim] / float64(phaseCounts[dim])
			summary.Dimensions[dim] = mean
			sum += mean
		}
		summary.Score = sum / float64(len(dims))
		if c.dist != nil {
			if p, ok := c.dist.Percentile(string(phase), summary.Score); ok {
				summary.Percentile = p
			}
		}
		rep.PhaseSummaries = append(rep.PhaseSummaries, summary)
	}

	var overallSum float64
	for dim, total := range dimTotals {
		rep.DimensionAggregates[dim] = total / float64(dimCounts[dim])
	}
	for _, summary := range rep.PhaseSummaries {
		overallSum += summary.Score
	}
	if len(rep.PhaseSummaries) > 0 {
		rep.OverallScore = overallSum / float64(len(rep.PhaseSummaries))
	}
	if c.dist != nil {
		if p, ok := c.dist.Percentile(OverallSeries, rep.OverallScore); ok {
			rep.OverallPercentile = p
		}
	}

	c.addNarrative(ctx, s, rep)
	return rep, nil
}

func (c *Compiler) addNarrative(ctx context.Context, s *interview.Session, rep *interview.Report) {
	if c.client == nil {
		rep.NarrativeUnavailable = true
		return
	}

	prompt := prompts.MustFormat("report.json", "narrative", map[string]string{
		"Company":    s.Scope.Company,
		"JobTitle":   s.Scope.JobTitle,
		"Transcript": renderTranscript(s),
		"Scores":     renderScores(rep),
	})

	var payload narrativePayload
	err := llm.Do(ctx, c.retry, func(ctx context.Context) error {
		raw, genErr := c.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
		if genErr != nil {
			return genErr
		}
		var p narrativePayload
		if decErr := json.Unmarshal([]byte(raw), &p); decErr != nil {
			return fmt.Errorf("failed to decode narrative payload: %w", decErr)
		}
		if len(p.Strengths) == 0 && len(p.Weaknesses) == 0 {
			return fmt.Errorf("narrative payload carries no content")
		}
		payload = p
		return nil
	})
	if err != nil {
		rep.NarrativeUnavailable = true
		return
	}

	rep.Strengths = payload.Strengths
	rep.Weaknesses = payload.Weaknesses
}

func renderTranscript(s *interview.Session) string {
	var b strings.Builder
	for i, ex := range s.Transcript {
		fmt.Fprintf(&b, "Q%d (%s): %s\n", i+1, ex.Question.Phase, ex.Question.Text)
		if ex.Answer != nil {
			fmt.Fprintf(&b, "A%d: %s\n", i+1, ex.Answer.Text)
		}
		if ex.Evaluation != nil {
			dims := make([]string, 0, len(ex.Evaluation.Dimensions))
			for dim := range ex.Evaluation.Dimensions {
				dims = append(dims, dim)
			}
			sort.Strings(dims)
			for _, dim := range dims {
				d := ex.Evaluation.Dimensions[dim]
				fmt.Fprintf(&b, "  %s: %.1f (%s)\n", dim, d.Score, d.Rationale)
			}
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderScores(rep *interview.Report) string {
	var b strings.Builder
	for _, summary := range rep.PhaseSummaries {
		fmt.Fprintf(&b, "%s: %.2f\n", summary.Phase, summary.Score)
	}
	fmt.Fprintf(&b, "overall: %.2f", rep.OverallScore)
	return b.String()
}
