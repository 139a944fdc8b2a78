package question

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/retrieval"
)

type fakeRetriever struct {
	passages []retrieval.Passage
	err      error
	queries  []retrieval.Query
}

func (f *fakeRetriever) Retrieve(ctx context.Context, q retrieval.Query, topK int) ([]retrieval.Passage, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	return f.passages, nil
}

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	if len(f.responses) > 0 {
		return f.responses[len(f.responses)-1], nil
	}
	return "", errors.New("no canned response")
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

func fastConfig() Config {
	return Config{TopK: 3, ContextBudget: 500, Retry: llm.Policy{MaxAttempts: 2, BaseDelay: time.Millisecond}}
}

func newSession() *interview.Session {
	return interview.NewSession("cand-1",
		interview.Scope{Company: "Initech", JobTitle: "Platform Engineer"},
		interview.DifficultyNormal, interview.PersonaPracticalLeader, nil)
}

func TestProduce_MainQuestionGroundedInRetrieval(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{
		{ID: "doc-1", Content: "Initech runs a large Kubernetes fleet.", Score: 2.0},
	}}
	client := &fakeClient{responses: []string{"How would you scale our Kubernetes fleet?"}}
	o := New(retriever, client, fastConfig())

	s := newSession()
	q, err := o.Produce(context.Background(), s, interview.PhaseExperienceCompetency)
	require.NoError(t, err)

	assert.Equal(t, s.ID, q.SessionID)
	assert.Equal(t, interview.PhaseExperienceCompetency, q.Phase)
	assert.False(t, q.Tail)
	assert.Equal(t, "How would you scale our Kubernetes fleet?", q.Text)
	require.Len(t, q.Grounding, 1)
	assert.Equal(t, "doc-1", q.Grounding[0].PassageID)

	require.Len(t, retriever.queries, 1)
	assert.Equal(t, "Initech", retriever.queries[0].Company)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Kubernetes fleet")
	assert.Contains(t, client.prompts[0], "Initech")
}

func TestProduce_RetrievalFailurePropagates(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("search backend unreachable")}
	client := &fakeClient{responses: []string{"unused?"}}
	o := New(retriever, client, fastConfig())

	_, err := o.Produce(context.Background(), newSession(), interview.PhaseExperienceCompetency)
	assert.ErrorIs(t, err, interview.ErrRetrievalUnavailable)
	assert.Zero(t, client.calls, "generation must not run without grounding")
}

func TestProduce_GenerationFailureAfterRetries(t *testing.T) {
	retriever := &fakeRetriever{}
	boom := errors.New("model overloaded")
	client := &fakeClient{errs: []error{boom, boom}}
	o := New(retriever, client, fastConfig())

	_, err := o.Produce(context.Background(), newSession(), interview.PhaseExperienceCompetency)
	assert.ErrorIs(t, err, interview.ErrGenerationFailed)
	assert.Equal(t, 2, client.calls)
}

func TestProduce_NormalizesModelOutput(t *testing.T) {
	retriever := &fakeRetriever{}
	client := &fakeClient{responses: []string{"Here is a question. Tell me about a failed launch\nAnd another one?"}}
	o := New(retriever, client, fastConfig())

	q, err := o.Produce(context.Background(), newSession(), interview.PhaseExperienceCompetency)
	require.NoError(t, err)
	assert.Equal(t, "Here is a question?", q.Text, "only the first sentence survives, with a question mark")
}

func TestProduce_RegeneratesOnRepeat(t *testing.T) {
	retriever := &fakeRetriever{}
	client := &fakeClient{responses: []string{
		"Tell me about a time you led a migration project?",
		"What is the hardest production incident you have handled?",
	}}
	o := New(retriever, client, fastConfig())

	s := newSession()
	s.AppendQuestion(interview.Question{Text: "Tell me about a time you led a migration project?", Phase: interview.PhaseExperienceCompetency})

	q, err := o.Produce(context.Background(), s, interview.PhaseExperienceCompetency)
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "What is the hardest production incident you have handled?", q.Text)
}

func TestProduce_TailQuestionAfterAnswerInSamePhase(t *testing.T) {
	retriever := &fakeRetriever{passages: []retrieval.Passage{
		{ID: "doc-7", Content: "Initech ships to three regions behind feature flags.", Score: 1.5},
	}}
	client := &fakeClient{responses: []string{"What would you do differently in that rollout?"}}
	o := New(retriever, client, fastConfig())

	s := newSession()
	s.AppendQuestion(interview.Question{ID: mustID(), Text: "Tell me about a rollout you led?", Phase: interview.PhaseExperienceCompetency})
	pending := s.PendingQuestion()
	require.NoError(t, s.SubmitAnswer(interview.Answer{QuestionID: pending.ID, Text: "I led the v2 rollout across three regions."}))

	q, err := o.Produce(context.Background(), s, interview.PhaseExperienceCompetency)
	require.NoError(t, err)

	assert.True(t, q.Tail)
	require.Len(t, q.Grounding, 1, "tail questions carry their retrieval grounding")
	assert.Equal(t, "doc-7", q.Grounding[0].PassageID)

	require.Len(t, retriever.queries, 1, "tail questions run retrieval")
	assert.Contains(t, retriever.queries[0].Text, "I led the v2 rollout", "retrieval query folds in the prior answer")
	assert.Equal(t, "Initech", retriever.queries[0].Company)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "I led the v2 rollout")
	assert.Contains(t, client.prompts[0], "feature flags", "retrieved context reaches the follow-up prompt")
}

func TestProduce_TailQuestionRetrievalFailurePropagates(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("search backend unreachable")}
	client := &fakeClient{responses: []string{"unused?"}}
	o := New(retriever, client, fastConfig())

	s := newSession()
	s.AppendQuestion(interview.Question{ID: mustID(), Text: "Tell me about a rollout you led?", Phase: interview.PhaseExperienceCompetency})
	pending := s.PendingQuestion()
	require.NoError(t, s.SubmitAnswer(interview.Answer{QuestionID: pending.ID, Text: "I led the v2 rollout."}))

	_, err := o.Produce(context.Background(), s, interview.PhaseExperienceCompetency)
	assert.ErrorIs(t, err, interview.ErrRetrievalUnavailable)
	assert.Zero(t, client.calls)
}

func TestProduce_NewPhaseStartsWithMainQuestion(t *testing.T) {
	retriever := &fakeRetriever{}
	client := &fakeClient{responses: []string{"How would you structure a market entry analysis?"}}
	o := New(retriever, client, fastConfig())

	s := newSession()
	s.AppendQuestion(interview.Question{ID: mustID(), Text: "Earlier question?", Phase: interview.PhaseExperienceCompetency})
	pending := s.PendingQuestion()
	require.NoError(t, s.SubmitAnswer(interview.Answer{QuestionID: pending.ID, Text: "Earlier answer."}))

	q, err := o.Produce(context.Background(), s, interview.PhaseSituationalCase)
	require.NoError(t, err)

	assert.False(t, q.Tail, "a new phase opens with a main question even when a prior answer exists")
	assert.Len(t, retriever.queries, 1)
}

func TestProduce_GroundingSnippetTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", snippetMaxLen+50)
	retriever := &fakeRetriever{passages: []retrieval.Passage{{ID: "doc-1", Content: long, Score: 1}}}
	client := &fakeClient{responses: []string{"A question?"}}
	o := New(retriever, client, fastConfig())

	q, err := o.Produce(context.Background(), newSession(), interview.PhaseExperienceCompetency)
	require.NoError(t, err)

	require.Len(t, q.Grounding, 1)
	snippet := q.Grounding[0].Snippet
	assert.True(t, utf8.ValidString(snippet), "truncation must not split a rune")
	assert.Equal(t, snippetMaxLen, utf8.RuneCountInString(snippet))
}

func mustID() uuid.UUID {
	return uuid.New()
}
