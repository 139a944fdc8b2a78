package interview

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusFinished   Status = "finished"
	StatusAbandoned  Status = "abandoned"
)

// Scope identifies the company and job the interview targets.
type Scope struct {
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
}

// Exchange is one transcript entry: a produced question, the candidate's
// answer once submitted, and the evaluation once scoring completes.
type Exchange struct {
	Question   Question    `json:"question"`
	Answer     *Answer     `json:"answer,omitempty"`
	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// Session is one interview instance. The phase state machine owns all
// mutation; other components read it. The phase index only increases and
// the per-phase question count never exceeds the configured target.
type Session struct {
	ID            uuid.UUID     `json:"id"`
	CandidateID   string        `json:"candidate_id"`
	Scope         Scope         `json:"scope"`
	ResumeSummary string        `json:"resume_summary,omitempty"`
	Difficulty    Difficulty    `json:"difficulty"`
	Persona       Persona       `json:"persona"`
	Phase         Phase         `json:"phase"`
	QuestionIndex int           `json:"question_index"` // within the current phase
	PhaseTargets  map[Phase]int `json:"phase_targets"`
	Status        Status        `json:"status"`
	Transcript    []Exchange    `json:"transcript"`
	Version       int           `json:"version"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// NewSession creates an in-progress session positioned at the first phase.
// Zero or negative target overrides fall back to the phase default.
func NewSession(candidateID string, scope Scope, difficulty Difficulty, persona Persona, targetOverrides map[Phase]int) *Session {
	targets := DefaultPhaseTargets()
	for phase, n := range targetOverrides {
		if phase.Valid() && n > 0 {
			targets[phase] = n
		}
	}
	now := time.Now().UTC()
	return &Session{
		ID:           uuid.New(),
		CandidateID:  candidateID,
		Scope:        scope,
		Difficulty:   difficulty,
		Persona:      persona,
		Phase:        PhaseExperienceCompetency,
		PhaseTargets: targets,
		Status:       StatusInProgress,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Target returns the configured question count for a phase.
func (s *Session) Target(phase Phase) int {
	if n, ok := s.PhaseTargets[phase]; ok {
		return n
	}
	return DefaultPhaseTargets()[phase]
}

// PrepareNextQuestion advances the state machine to the phase the next
// question belongs to. It stays in the current phase while its target is
// unmet, moves to the next phase when the target is reached, and closes
// the session when the final phase is exhausted, returning ErrSessionClosed.
func (s *Session) PrepareNextQuestion() (Phase, error) {
	if s.Status != StatusInProgress {
		return s.Phase, ErrSessionClosed
	}
	for s.QuestionIndex >= s.Target(s.Phase) {
		next, ok := s.Phase.Next()
		if !ok {
			s.close()
			return PhaseFinished, ErrSessionClosed
		}
		s.Phase = next
		s.QuestionIndex = 0
	}
	return s.Phase, nil
}

// AppendQuestion records a produced question in the transcript and consumes
// one slot of the current phase's budget.
func (s *Session) AppendQuestion(q Question) {
	s.Transcript = append(s.Transcript, Exchange{Question: q})
	s.QuestionIndex++
	s.UpdatedAt = time.Now().UTC()
}

// PendingQuestion returns the most recently produced question that has no
// answer yet, or nil.
func (s *Session) PendingQuestion() *Question {
	if len(s.Transcript) == 0 {
		return nil
	}
	last := &s.Transcript[len(s.Transcript)-1]
	if last.Answer != nil {
		return nil
	}
	return &last.Question
}

// LastAnswered returns the most recent exchange that has an answer, or nil.
// Used to seed tail-question generation.
func (s *Session) LastAnswered() *Exchange {
	for i := len(s.Transcript) - 1; i >= 0; i-- {
		if s.Transcript[i].Answer != nil {
			return &s.Transcript[i]
		}
	}
	return nil
}

// AskedQuestions returns the text of every question produced so far.
func (s *Session) AskedQuestions() []string {
	out := make([]string, 0, len(s.Transcript))
	for _, ex := range s.Transcript {
		out = append(out, ex.Question.Text)
	}
	return out
}

// SubmitAnswer attaches an answer to the pending question. The answer must
// reference the most recently produced, not-yet-answered question.
func (s *Session) SubmitAnswer(a Answer) error {
	if s.Status != StatusInProgress {
		return ErrSessionClosed
	}
	pending := s.PendingQuestion()
	if pending == nil || pending.ID != a.QuestionID {
		return ErrOutOfOrderAnswer
	}
	last := &s.Transcript[len(s.Transcript)-1]
	last.Answer = &a
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// AttachEvaluation records the scored result for the latest answered
// exchange and closes the session once the final phase is exhausted.
func (s *Session) AttachEvaluation(ev Evaluation) error {
	if len(s.Transcript) == 0 {
		return ErrOutOfOrderAnswer
	}
	last := &s.Transcript[len(s.Transcript)-1]
	if last.Answer == nil || last.Question.ID != ev.QuestionID {
		return ErrOutOfOrderAnswer
	}
	last.Evaluation = &ev
	s.UpdatedAt = time.Now().UTC()
	if s.exhausted() {
		s.close()
	}
	return nil
}

// exhausted reports whether every phase's question budget has been spent
// and the last question is answered.
func (s *Session) exhausted() bool {
	if s.PendingQuestion() != nil {
		return false
	}
	if _, ok := s.Phase.Next(); ok {
		return false
	}
	return s.QuestionIndex >= s.Target(s.Phase)
}

// Finish forces the session into the terminal state from any state.
func (s *Session) Finish() {
	if s.Status == StatusInProgress {
		s.close()
	}
}

func (s *Session) close() {
	s.Status = StatusFinished
	s.Phase = PhaseFinished
	s.QuestionIndex = 0
	s.UpdatedAt = time.Now().UTC()
}

// Evaluations returns all evaluations in transcript order.
func (s *Session) Evaluations() []Evaluation {
	out := make([]Evaluation, 0, len(s.Transcript))
	for _, ex := range s.Transcript {
		if ex.Evaluation != nil {
			out = append(out, *ex.Evaluation)
		}
	}
	return out
}

// Clone returns a deep copy of the session. Engine operations mutate a
// clone and persist it, so a failed or cancelled operation leaves the
// stored session untouched.
func (s *Session) Clone() *Session {
	out := *s
	out.PhaseTargets = make(map[Phase]int, len(s.PhaseTargets))
	for k, v := range s.PhaseTargets {
		out.PhaseTargets[k] = v
	}
	out.Transcript = make([]Exchange, len(s.Transcript))
	for i, ex := range s.Transcript {
		cp := Exchange{Question: ex.Question}
		cp.Question.Grounding = append([]PassageRef(nil), ex.Question.Grounding...)
		if ex.Answer != nil {
			a := *ex.Answer
			if a.Audio != nil {
				audio := *a.Audio
				a.Audio = &audio
			}
			if a.Video != nil {
				video := *a.Video
				a.Video = &video
			}
			cp.Answer = &a
		}
		if ex.Evaluation != nil {
			ev := *ex.Evaluation
			ev.Dimensions = make(map[string]DimensionScore, len(ex.Evaluation.Dimensions))
			for k, v := range ex.Evaluation.Dimensions {
				ev.Dimensions[k] = v
			}
			cp.Evaluation = &ev
		}
		out.Transcript[i] = cp
	}
	return &out
}
