package evaluator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
)

// fakeClient replays canned responses, one per GenerateJSON call.
type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return "", errors.New("no more canned responses")
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

func testQuestion(phase interview.Phase) *interview.Question {
	return &interview.Question{
		ID:    uuid.New(),
		Phase: phase,
		Text:  "Tell me about a system you redesigned.",
	}
}

const goodScoreJSON = `{"dimensions": {
	"communication_clarity": {"score": 4.0, "rationale": "well structured"},
	"competency_evidence": {"score": 3.5, "rationale": "specific project cited"},
	"role_impact": {"score": 3.0, "rationale": "impact stated but not quantified"}
}}`

func fastRetry() llm.Policy {
	return llm.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestEvaluate_TextOnlyAnswer(t *testing.T) {
	client := &fakeClient{responses: []string{goodScoreJSON}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	eval, err := ev.Evaluate(context.Background(), q, &interview.Answer{
		QuestionID: q.ID,
		Text:       "I redesigned the billing pipeline and cut costs by 30%.",
	})
	require.NoError(t, err)

	assert.Equal(t, q.ID, eval.QuestionID)
	assert.Equal(t, interview.PhaseExperienceCompetency, eval.Phase)
	assert.True(t, eval.Availability.Text)
	assert.False(t, eval.Availability.Audio)

	assert.Len(t, eval.Dimensions, 3, "no audio or video dimensions without those modalities")
	assert.Equal(t, 4.0, eval.Dimensions["communication_clarity"].Score)
}

func TestEvaluate_BlankAnswerFailsWithoutModelCall(t *testing.T) {
	client := &fakeClient{responses: []string{goodScoreJSON}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	_, err := ev.Evaluate(context.Background(), q, &interview.Answer{QuestionID: q.ID, Text: "   "})
	require.ErrorIs(t, err, interview.ErrEvaluationFailed)
	assert.Zero(t, client.calls, "nothing to score without answer text")
}

func TestEvaluate_PromptCarriesRubricAndSignals(t *testing.T) {
	client := &fakeClient{responses: []string{goodScoreJSON}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	_, err := ev.Evaluate(context.Background(), q, &interview.Answer{QuestionID: q.ID, Text: "An answer."})
	require.NoError(t, err)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "competency_evidence")
	assert.Contains(t, client.prompts[0], "words: 2")
	assert.Contains(t, client.prompts[0], q.Text)
}

func TestEvaluate_MalformedTwiceThenSuccess(t *testing.T) {
	client := &fakeClient{responses: []string{
		"not json at all",
		`{"dimensions": {"communication_clarity": {"score": 9, "rationale": "out of range"}}}`,
		goodScoreJSON,
	}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	eval, err := ev.Evaluate(context.Background(), q, &interview.Answer{QuestionID: q.ID, Text: "An answer."})
	require.NoError(t, err)

	assert.Equal(t, 3, client.calls)
	assert.Equal(t, 3.5, eval.Dimensions["competency_evidence"].Score)
}

func TestEvaluate_MissingMandatoryDimensionFails(t *testing.T) {
	partial := `{"dimensions": {"communication_clarity": {"score": 4, "rationale": "fine"}}}`
	client := &fakeClient{responses: []string{partial, partial, partial}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	_, err := ev.Evaluate(context.Background(), q, &interview.Answer{QuestionID: q.ID, Text: "An answer."})

	require.Error(t, err)
	assert.ErrorIs(t, err, interview.ErrEvaluationFailed)
	assert.Equal(t, 3, client.calls, "incomplete payloads should be retried before failing")
}

func TestEvaluate_ProviderDownFails(t *testing.T) {
	boom := errors.New("provider down")
	client := &fakeClient{errs: []error{boom, boom, boom}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	_, err := ev.Evaluate(context.Background(), q, &interview.Answer{QuestionID: q.ID, Text: "An answer."})

	assert.ErrorIs(t, err, interview.ErrEvaluationFailed)
}

func TestEvaluate_AudioAnswerAddsDeterministicDimensions(t *testing.T) {
	client := &fakeClient{responses: []string{goodScoreJSON}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	eval, err := ev.Evaluate(context.Background(), q, &interview.Answer{
		QuestionID: q.ID,
		Text:       "I redesigned the billing pipeline with my team over two quarters.",
		Audio: &interview.AudioFeatures{
			DurationSec: 30, RMSEnergy: 0.08,
			IntensityMean: 58, IntensityStd: 11.6,
			F0Mean: 120, F0Std: 18,
			Jitter: 0.004, Shimmer: 0.02,
			SpectralCentroidMean: 1400, SpectralBandwidthMean: 1500,
			MFCCStd: 2, ZCRMean: 0.05, VoicedRatio: 0.45,
			Gender: "male",
		},
	})
	require.NoError(t, err)

	assert.True(t, eval.Availability.Audio)
	require.Contains(t, eval.Dimensions, DimVocalConfidence)
	require.Contains(t, eval.Dimensions, DimSpeechFluency)

	vc := eval.Dimensions[DimVocalConfidence].Score
	assert.GreaterOrEqual(t, vc, 0.0)
	assert.LessOrEqual(t, vc, 5.0)
}

func TestEvaluate_SilentAudioDegradesNotFails(t *testing.T) {
	client := &fakeClient{responses: []string{goodScoreJSON}}
	ev := New(client).WithRetry(fastRetry())

	q := testQuestion(interview.PhaseExperienceCompetency)
	eval, err := ev.Evaluate(context.Background(), q, &interview.Answer{
		QuestionID: q.ID,
		Text:       "An answer with a broken recording.",
		Audio:      &interview.AudioFeatures{DurationSec: 30, RMSEnergy: 0.001},
	})
	require.NoError(t, err)

	assert.False(t, eval.Availability.Audio)
	assert.NotContains(t, eval.Dimensions, DimVocalConfidence)
}

func TestMandatoryDimensions_PerPhase(t *testing.T) {
	for _, phase := range interview.Phases() {
		dims := MandatoryDimensions(phase)
		assert.Contains(t, dims, "communication_clarity", "phase %s", phase)
		assert.Len(t, dims, 3)
	}
}
