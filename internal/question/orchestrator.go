// Package question produces interview questions: main questions that
// open a topic and tail questions that probe the prior answer, both
// grounded in retrieved company material.
package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/llm"
	"github.com/jonathan/interview-coach/internal/prompts"
	"github.com/jonathan/interview-coach/internal/retrieval"
)

// SimilarityThreshold is the Jaccard score above which a generated
// question counts as a repeat of an earlier one.
const SimilarityThreshold = 0.6

const snippetMaxLen = 200

// Config tunes question production.
type Config struct {
	TopK          int
	ContextBudget int
	Retry         llm.Policy
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		TopK:          5,
		ContextBudget: retrieval.DefaultContextBudget,
		Retry:         llm.DefaultPolicy(),
	}
}

// Orchestrator generates questions for a session.
type Orchestrator struct {
	retriever retrieval.Retriever
	client    llm.Client
	cfg       Config
}

// New builds an Orchestrator.
func New(retriever retrieval.Retriever, client llm.Client, cfg Config) *Orchestrator {
	if cfg.TopK < 1 {
		cfg.TopK = 5
	}
	if cfg.ContextBudget < 1 {
		cfg.ContextBudget = retrieval.DefaultContextBudget
	}
	if cfg.Retry.MaxAttempts < 1 {
		cfg.Retry = llm.DefaultPolicy()
	}
	return &Orchestrator{retriever: retriever, client: client, cfg: cfg}
}

// Produce generates the next question for a session positioned at phase.
// When the most recent answered exchange belongs to the same phase, the
// result is a tail question probing that answer; otherwise it is a main
// question opening the phase. Both kinds are retrieval-grounded; tail
// queries additionally carry the prior answer's text. Retrieval failures
// surface as ErrRetrievalUnavailable so callers can retry the whole
// operation; generation failures surface as ErrGenerationFailed.
func (o *Orchestrator) Produce(ctx context.Context, s *interview.Session, phase interview.Phase) (*interview.Question, error) {
	prior := s.LastAnswered()
	if prior != nil && prior.Question.Phase == phase {
		return o.tailQuestion(ctx, s, phase, prior)
	}
	return o.mainQuestion(ctx, s, phase)
}

func (o *Orchestrator) mainQuestion(ctx context.Context, s *interview.Session, phase interview.Phase) (*interview.Question, error) {
	query := retrieval.Query{
		Text:     phase.Focus(),
		Company:  s.Scope.Company,
		JobTitle: s.Scope.JobTitle,
	}
	passages, err := o.retriever.Retrieve(ctx, query, o.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrRetrievalUnavailable, err)
	}

	asked := s.AskedQuestions()
	data := map[string]string{
		"Company":       s.Scope.Company,
		"JobTitle":      s.Scope.JobTitle,
		"Phase":         string(phase),
		"Focus":         phase.Focus(),
		"Persona":       s.Persona.StyleGuide(),
		"Difficulty":    s.Difficulty.Instruction(),
		"ResumeSummary": orNone(s.ResumeSummary),
		"Context":       orNone(retrieval.BuildContext(passages, o.cfg.ContextBudget)),
		"Asked":         askedList(asked),
	}
	prompt := prompts.MustFormat("interview.json", "main_question", data)

	text, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	// One regeneration pass when the model repeats an earlier question.
	if repeatsAny(text, asked) {
		retryPrompt := prompt + "\n\nYour previous attempt repeated an earlier question. Pick a different angle on the same focus."
		if regenerated, regenErr := o.generate(ctx, retryPrompt); regenErr == nil {
			text = regenerated
		}
	}

	return o.newQuestion(s, phase, text, false, passages), nil
}

func (o *Orchestrator) tailQuestion(ctx context.Context, s *interview.Session, phase interview.Phase, prior *interview.Exchange) (*interview.Question, error) {
	// The retrieval query folds in the prior answer so the follow-up
	// stays grounded in both company material and what the candidate
	// just said.
	query := retrieval.Query{
		Text:     phase.Focus() + " " + prior.Answer.Text,
		Company:  s.Scope.Company,
		JobTitle: s.Scope.JobTitle,
	}
	passages, err := o.retriever.Retrieve(ctx, query, o.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", interview.ErrRetrievalUnavailable, err)
	}

	prompt := prompts.MustFormat("interview.json", "tail_question", map[string]string{
		"Company":       s.Scope.Company,
		"JobTitle":      s.Scope.JobTitle,
		"Phase":         string(phase),
		"Persona":       s.Persona.StyleGuide(),
		"Difficulty":    s.Difficulty.Instruction(),
		"PriorQuestion": prior.Question.Text,
		"PriorAnswer":   prior.Answer.Text,
		"Context":       orNone(retrieval.BuildContext(passages, o.cfg.ContextBudget)),
	})

	text, err := o.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if TooSimilar(text, prior.Question.Text, SimilarityThreshold) {
		retryPrompt := prompt + "\n\nYour previous attempt restated the original question. Probe a different aspect of the answer."
		if regenerated, regenErr := o.generate(ctx, retryPrompt); regenErr == nil {
			text = regenerated
		}
	}

	return o.newQuestion(s, phase, text, true, passages), nil
}

func (o *Orchestrator) generate(ctx context.Context, prompt string) (string, error) {
	var text string
	err := llm.Do(ctx, o.cfg.Retry, func(ctx context.Context) error {
		out, genErr := o.client.GenerateContent(ctx, prompt, llm.TierLite)
		if genErr != nil {
			return genErr
		}
		out = EnsureQuestionMark(FirstSentence(out))
		if out == "" {
			return fmt.Errorf("model returned empty question")
		}
		text = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", interview.ErrGenerationFailed, err)
	}
	return text, nil
}

func (o *Orchestrator) newQuestion(s *interview.Session, phase interview.Phase, text string, tail bool, passages []retrieval.Passage) *interview.Question {
	q := &interview.Question{
		ID:        uuid.New(),
		SessionID: s.ID,
		Phase:     phase,
		Ordinal:   len(s.Transcript),
		Text:      text,
		Tail:      tail,
		Model:     o.client.GetModel(llm.TierLite),
		CreatedAt: time.Now().UTC(),
	}
	for _, p := range passages {
		snippet := p.Content
		if r := []rune(snippet); len(r) > snippetMaxLen {
			snippet = string(r[:snippetMaxLen])
		}
		q.Grounding = append(q.Grounding, interview.PassageRef{
			PassageID: p.ID,
			Snippet:   snippet,
			Score:     p.Score,
		})
	}
	return q
}

func repeatsAny(text string, asked []string) bool {
	for _, prev := range asked {
		if TooSimilar(text, prev, SimilarityThreshold) {
			return true
		}
	}
	return false
}

func askedList(asked []string) string {
	if len(asked) == 0 {
		return "(none yet)"
	}
	var b strings.Builder
	for i, q := range asked {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(not provided)"
	}
	return s
}
