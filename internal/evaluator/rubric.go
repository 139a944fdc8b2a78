// Package evaluator scores candidate answers. The language model judges
// the substance of an answer against a per-phase rubric; audio and video
// dimensions are computed deterministically from extracted signals.
package evaluator

import "github.com/jonathan/interview-coach/internal/interview"

// Deterministic dimension names appended when the modality is available.
const (
	DimVocalConfidence  = "vocal_confidence"
	DimSpeechFluency    = "speech_fluency"
	DimVisualEngagement = "visual_engagement"
)

var phaseDimensions = map[interview.Phase][]string{
	interview.PhaseExperienceCompetency: {
		"communication_clarity",
		"competency_evidence",
		"role_impact",
	},
	interview.PhaseSituationalCase: {
		"communication_clarity",
		"problem_decomposition",
		"tradeoff_judgment",
	},
	interview.PhaseOrganizationalFit: {
		"communication_clarity",
		"culture_alignment",
		"motivation_specificity",
	},
}

// MandatoryDimensions returns the rubric dimensions the model must score
// for a phase. Every phase includes communication_clarity.
func MandatoryDimensions(phase interview.Phase) []string {
	dims, ok := phaseDimensions[phase]
	if !ok {
		return []string{"communication_clarity"}
	}
	out := make([]string, len(dims))
	copy(out, dims)
	return out
}
