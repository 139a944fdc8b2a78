package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/jonathan/interview-coach/internal/engine"
	"github.com/jonathan/interview-coach/internal/interview"
)

// InterviewEngine is the engine surface the HTTP layer depends on.
type InterviewEngine interface {
	StartInterview(ctx context.Context, cfg engine.StartConfig) (*interview.Session, error)
	NextQuestion(ctx context.Context, id uuid.UUID) (*interview.Question, error)
	SubmitAnswer(ctx context.Context, id uuid.UUID, answer interview.Answer) (*interview.Evaluation, error)
	Finish(ctx context.Context, id uuid.UUID) (*interview.Session, error)
	Report(ctx context.Context, id uuid.UUID) (*interview.Report, error)
}

// StartInterviewRequest creates a new interview session.
type StartInterviewRequest struct {
	CandidateID   string         `json:"candidate_id" validate:"required,min=1"`
	Company       string         `json:"company"`
	JobTitle      string         `json:"job_title"`
	ResumeSummary string         `json:"resume_summary"`
	Difficulty    string         `json:"difficulty" validate:"omitempty,oneof=easy normal hard"`
	Persona       string         `json:"persona" validate:"omitempty,oneof=practical_leader executive"`
	PhaseTargets  map[string]int `json:"phase_targets"`
}

// Validate validates the StartInterviewRequest using the validator.
func (r *StartInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SubmitAnswerRequest submits the candidate's answer to the pending question.
type SubmitAnswerRequest struct {
	QuestionID string                   `json:"question_id" validate:"required,uuid"`
	Text       string                   `json:"text" validate:"required,min=1"`
	Audio      *interview.AudioFeatures `json:"audio,omitempty"`
	Video      *interview.VideoFeatures `json:"video,omitempty"`
}

// Validate validates the SubmitAnswerRequest using the validator.
func (r *SubmitAnswerRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// SessionResponse is the API view of a session.
type SessionResponse struct {
	ID            uuid.UUID        `json:"id"`
	Status        interview.Status `json:"status"`
	Phase         interview.Phase  `json:"phase"`
	QuestionCount int              `json:"question_count"`
}

func sessionResponse(s *interview.Session) SessionResponse {
	return SessionResponse{
		ID:            s.ID,
		Status:        s.Status,
		Phase:         s.Phase,
		QuestionCount: len(s.Transcript),
	}
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	targets := make(map[interview.Phase]int, len(req.PhaseTargets))
	for phase, n := range req.PhaseTargets {
		targets[interview.Phase(phase)] = n
	}

	session, err := s.engine.StartInterview(r.Context(), engine.StartConfig{
		CandidateID:   req.CandidateID,
		Scope:         interview.Scope{Company: req.Company, JobTitle: req.JobTitle},
		ResumeSummary: req.ResumeSummary,
		Difficulty:    interview.Difficulty(req.Difficulty),
		Persona:       interview.Persona(req.Persona),
		PhaseTargets:  targets,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, sessionResponse(session))
}

func (s *Server) handleNextQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	q, err := s.engine.NextQuestion(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, q)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	questionID, err := uuid.Parse(req.QuestionID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid question id")
		return
	}

	eval, err := s.engine.SubmitAnswer(r.Context(), id, interview.Answer{
		QuestionID: questionID,
		Text:       req.Text,
		Audio:      req.Audio,
		Video:      req.Video,
	})
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, eval)
}

func (s *Server) handleFinish(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	session, err := s.engine.Finish(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, sessionResponse(session))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}

	rep, err := s.engine.Report(r.Context(), id)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, rep)
}

func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid session id")
		return uuid.Nil, false
	}
	return id, true
}
