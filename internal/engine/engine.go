// Package engine orchestrates interview sessions: it owns the operation
// surface (start, next question, submit answer, finish, report) and
// enforces single-writer access per session. Each mutating operation
// works on a private copy of the session and persists it before the
// result is returned, so a failed operation leaves no partial state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/interview"
	"github.com/jonathan/interview-coach/internal/store"
)

// QuestionProducer generates the next question for a session.
type QuestionProducer interface {
	Produce(ctx context.Context, s *interview.Session, phase interview.Phase) (*interview.Question, error)
}

// AnswerEvaluator scores an answered question.
type AnswerEvaluator interface {
	Evaluate(ctx context.Context, q *interview.Question, a *interview.Answer) (*interview.Evaluation, error)
}

// ReportCompiler builds the final report for a finished session.
type ReportCompiler interface {
	Compile(ctx context.Context, s *interview.Session) (*interview.Report, error)
}

// Engine coordinates the session state machine with generation,
// evaluation, and persistence.
type Engine struct {
	store     store.Store
	questions QuestionProducer
	evaluator AnswerEvaluator
	reports   ReportCompiler
	locks     *sessionLocks
}

// New builds an Engine.
func New(st store.Store, questions QuestionProducer, evaluator AnswerEvaluator, reports ReportCompiler) *Engine {
	return &Engine{
		store:     st,
		questions: questions,
		evaluator: evaluator,
		reports:   reports,
		locks:     newSessionLocks(),
	}
}

// StartConfig describes a new interview session.
type StartConfig struct {
	CandidateID   string
	Scope         interview.Scope
	ResumeSummary string
	Difficulty    interview.Difficulty
	Persona       interview.Persona
	PhaseTargets  map[interview.Phase]int
}

// StartInterview creates and persists a new session positioned at the
// first phase.
func (e *Engine) StartInterview(ctx context.Context, cfg StartConfig) (*interview.Session, error) {
	if cfg.CandidateID == "" {
		return nil, fmt.Errorf("start_interview: candidate id is required")
	}
	if !cfg.Difficulty.Valid() {
		cfg.Difficulty = interview.DifficultyNormal
	}
	if !cfg.Persona.Valid() {
		cfg.Persona = interview.PersonaPracticalLeader
	}

	s := interview.NewSession(cfg.CandidateID, cfg.Scope, cfg.Difficulty, cfg.Persona, cfg.PhaseTargets)
	s.ResumeSummary = cfg.ResumeSummary
	if err := e.store.CreateSession(ctx, s); err != nil {
		return nil, &interview.OpError{SessionID: s.ID, Op: "start_interview", Err: err}
	}
	return s, nil
}

// NextQuestion advances the state machine and produces the next question.
// Producing a question is the only operation that can advance the phase;
// at full exhaustion the session closes and ErrSessionClosed is returned.
func (e *Engine) NextQuestion(ctx context.Context, id uuid.UUID) (*interview.Question, error) {
	release := e.locks.tryAcquire(id.String())
	if release == nil {
		return nil, &interview.OpError{SessionID: id, Op: "next_question", Err: interview.ErrSessionBusy}
	}
	defer release()

	s, err := e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "next_question", Err: err}
	}

	statusBefore := s.Status
	phase, err := s.PrepareNextQuestion()
	if err != nil {
		// Exhaustion closes the session; persist that transition.
		if s.Status != statusBefore {
			if saveErr := e.store.SaveSession(ctx, s); saveErr != nil {
				return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "next_question", Err: saveErr}
			}
		}
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "next_question", Err: err}
	}

	q, err := e.questions.Produce(ctx, s, phase)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: phase, Op: "next_question", Err: err}
	}

	s.AppendQuestion(*q)
	if err := e.store.SaveSession(ctx, s); err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: phase, Op: "next_question", Err: err}
	}
	return q, nil
}

// SubmitAnswer records an answer to the pending question and returns its
// evaluation. The answer and evaluation are persisted together; when
// evaluation fails nothing is recorded and the submission can be retried.
func (e *Engine) SubmitAnswer(ctx context.Context, id uuid.UUID, answer interview.Answer) (*interview.Evaluation, error) {
	release := e.locks.tryAcquire(id.String())
	if release == nil {
		return nil, &interview.OpError{SessionID: id, Op: "submit_answer", Err: interview.ErrSessionBusy}
	}
	defer release()

	s, err := e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "submit_answer", Err: err}
	}

	if answer.SubmittedAt.IsZero() {
		answer.SubmittedAt = time.Now().UTC()
	}
	if err := s.SubmitAnswer(answer); err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "submit_answer", Err: err}
	}

	answered := &s.Transcript[len(s.Transcript)-1].Question
	eval, err := e.evaluator.Evaluate(ctx, answered, &answer)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "submit_answer", Err: err}
	}

	if err := s.AttachEvaluation(*eval); err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "submit_answer", Err: err}
	}
	if err := e.store.SaveSession(ctx, s); err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "submit_answer", Err: err}
	}
	return eval, nil
}

// Finish forces a session into its terminal state. Finishing an already
// finished session is a no-op.
func (e *Engine) Finish(ctx context.Context, id uuid.UUID) (*interview.Session, error) {
	release := e.locks.tryAcquire(id.String())
	if release == nil {
		return nil, &interview.OpError{SessionID: id, Op: "finish", Err: interview.ErrSessionBusy}
	}
	defer release()

	s, err := e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "finish", Err: err}
	}
	if s.Status == interview.StatusFinished {
		return s, nil
	}

	s.Finish()
	if err := e.store.SaveSession(ctx, s); err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "finish", Err: err}
	}
	return s, nil
}

// Report returns the session's report, compiling and persisting it on
// first request. Requesting the report of an unfinished session returns
// ErrSessionNotFinished.
func (e *Engine) Report(ctx context.Context, id uuid.UUID) (*interview.Report, error) {
	release := e.locks.tryAcquire(id.String())
	if release == nil {
		return nil, &interview.OpError{SessionID: id, Op: "report", Err: interview.ErrSessionBusy}
	}
	defer release()

	rep, err := e.store.LoadReport(ctx, id)
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, store.ErrReportNotFound) {
		return nil, &interview.OpError{SessionID: id, Op: "report", Err: err}
	}

	s, err := e.store.LoadSession(ctx, id)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "report", Err: err}
	}

	rep, err = e.reports.Compile(ctx, s)
	if err != nil {
		return nil, &interview.OpError{SessionID: id, Phase: s.Phase, Op: "report", Err: err}
	}
	if err := e.store.SaveReport(ctx, rep); err != nil {
		return nil, &interview.OpError{SessionID: id, Op: "report", Err: err}
	}
	return rep, nil
}
