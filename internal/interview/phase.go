// Package interview defines the domain model for simulated interview
// sessions: the phase state machine, questions, answers, evaluations and
// the final report, plus the error taxonomy shared by the engine packages.
package interview

// Phase is one stage of the fixed interview progression. The three
// question-producing phases always run in the same order; Finished is the
// terminal state of the session state machine.
type Phase string

const (
	PhaseExperienceCompetency Phase = "experience_competency"
	PhaseSituationalCase      Phase = "situational_case"
	PhaseOrganizationalFit    Phase = "organizational_fit"
	PhaseFinished             Phase = "finished"
)

// phaseOrder is the fixed progression of question-producing phases.
var phaseOrder = []Phase{
	PhaseExperienceCompetency,
	PhaseSituationalCase,
	PhaseOrganizationalFit,
}

// Phases returns the ordered question-producing phases (Finished excluded).
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// Next returns the phase that follows p in the fixed progression.
// ok is false when p is the last question-producing phase or Finished.
func (p Phase) Next() (next Phase, ok bool) {
	for i, candidate := range phaseOrder {
		if candidate == p && i+1 < len(phaseOrder) {
			return phaseOrder[i+1], true
		}
	}
	return PhaseFinished, false
}

// Valid reports whether p is a question-producing phase.
func (p Phase) Valid() bool {
	for _, candidate := range phaseOrder {
		if candidate == p {
			return true
		}
	}
	return false
}

// Focus returns a short description of what the phase probes, used when
// building retrieval queries and generation prompts.
func (p Phase) Focus() string {
	switch p {
	case PhaseExperienceCompetency:
		return "past experience and demonstrated competencies"
	case PhaseSituationalCase:
		return "situational judgment on a realistic business case"
	case PhaseOrganizationalFit:
		return "alignment with company culture and motivation for the role"
	default:
		return ""
	}
}

// DefaultPhaseTargets returns the default number of questions per phase.
func DefaultPhaseTargets() map[Phase]int {
	return map[Phase]int{
		PhaseExperienceCompetency: 3,
		PhaseSituationalCase:      3,
		PhaseOrganizationalFit:    2,
	}
}

// Persona selects the interviewer style used for generation prompts.
type Persona string

const (
	PersonaPracticalLeader Persona = "practical_leader"
	PersonaExecutive       Persona = "executive"
)

// StyleGuide returns the prompt fragment describing how this persona asks
// questions and weighs answers.
func (p Persona) StyleGuide() string {
	switch p {
	case PersonaExecutive:
		return "You are a senior executive. Ask about vision, business impact and ownership; favor answers that connect decisions to organizational outcomes."
	default:
		return "You are a hands-on team lead. Ask about concrete execution, metrics and collaboration; favor answers with specific numbers, timelines and personal contribution."
	}
}

// Valid reports whether p is a recognized persona.
func (p Persona) Valid() bool {
	return p == PersonaPracticalLeader || p == PersonaExecutive
}

// Difficulty adjusts the register of generated questions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// Instruction returns the prompt fragment for this difficulty level.
func (d Difficulty) Instruction() string {
	switch d {
	case DifficultyEasy:
		return "Keep the question approachable: ask for an overview of an experience."
	case DifficultyHard:
		return "Make the question demanding: probe hypotheses, risks and what the candidate learned afterwards."
	default:
		return "Ask at a standard level: request the candidate's role and measurable results."
	}
}

// Valid reports whether d is a recognized difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyNormal || d == DifficultyHard
}
