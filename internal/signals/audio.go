package signals

import (
	"errors"
	"math"

	"github.com/jonathan/interview-coach/internal/interview"
)

// SilenceThresholdRMS is the mean RMS energy below which a recording is
// treated as silent and prosodic scoring is refused.
const SilenceThresholdRMS = 0.015

// ErrSilentAudio indicates the recording carried no usable speech.
var ErrSilentAudio = errors.New("audio is silent or empty")

// genderNorm holds per-gender reference values for prosodic scoring.
type genderNorm struct {
	Intensity        float64
	SpectralCentroid float64
}

var genderNorms = map[string]genderNorm{
	"male":   {Intensity: 58.0, SpectralCentroid: 1400.0},
	"female": {Intensity: 55.0, SpectralCentroid: 1800.0},
}

var defaultNorm = genderNorm{Intensity: 56.5, SpectralCentroid: 1600.0}

// AudioScores are prosodic quality scores on a 0..100 scale.
type AudioScores struct {
	Confidence float64 `json:"confidence"`
	Fluency    float64 `json:"fluency"`
	Stability  float64 `json:"stability"`
	Clarity    float64 `json:"clarity"`
	Overall    float64 `json:"overall"`
}

// ScoreAudio computes prosodic scores from low-level audio features.
// wordCount comes from the answer transcript and feeds the speaking-rate
// component. Returns ErrSilentAudio when the recording is below the
// silence threshold or carries no words.
func ScoreAudio(f *interview.AudioFeatures, wordCount int) (*AudioScores, error) {
	if f == nil {
		return nil, ErrSilentAudio
	}
	if f.RMSEnergy < SilenceThresholdRMS || wordCount == 0 || f.DurationSec <= 0 {
		return nil, ErrSilentAudio
	}

	norm, ok := genderNorms[f.Gender]
	if !ok {
		norm = defaultNorm
	}

	f0CV := f.F0Std / math.Max(f.F0Mean, 1.0)
	intensityCV := f.IntensityStd / math.Max(f.IntensityMean, 1.0)
	wpm := float64(wordCount) / f.DurationSec * 60.0

	// Confidence: intensity against the gender norm, pitch stability,
	// voice quality from jitter and shimmer.
	intensityScore := Sigmoid(f.IntensityMean/norm.Intensity, 1.0, 2.0) * 100
	f0StabilityScore := Gaussian(f0CV, 0.15, 0.08) * 100
	jitterScore := math.Max(0, 100-f.Jitter*10000)
	shimmerScore := math.Max(0, 100-f.Shimmer*100)
	qualityScore := (jitterScore + shimmerScore) / 2
	confidence := intensityScore*0.5 + f0StabilityScore*0.3 + qualityScore*0.2

	// Fluency: speaking rate around 160 wpm, voiced continuity around
	// a 0.45 voiced ratio, spectral steadiness.
	speedScore := 70.0
	if wpm > 0 {
		speedScore = Gaussian(wpm, 160, 30) * 100
	}
	voicedScore := Gaussian(f.VoicedRatio, 0.45, 0.15) * 100
	zcrScore := math.Max(0, 100-f.ZCRMean*300)
	fluency := speedScore*0.5 + voicedScore*0.3 + zcrScore*0.2

	// Stability: consistency of pitch and intensity over the answer.
	pitchStability := Gaussian(f0CV, 0.12, 0.08) * 100
	intensityStability := Gaussian(intensityCV, 0.2, 0.1) * 100
	stability := pitchStability*0.6 + intensityStability*0.4

	// Clarity: spectral placement against the gender norm, bandwidth,
	// MFCC consistency.
	spectralScore := Gaussian(f.SpectralCentroidMean, norm.SpectralCentroid, 600) * 100
	bandwidthScore := Sigmoid(f.SpectralBandwidthMean, 1200, 0.002) * 100
	mfccScore := math.Max(0, 100-f.MFCCStd*15)
	clarity := spectralScore*0.5 + bandwidthScore*0.3 + mfccScore*0.2

	overall := confidence*0.3 + fluency*0.3 + stability*0.2 + clarity*0.2

	return &AudioScores{
		Confidence: clamp(confidence, 0, 100),
		Fluency:    clamp(fluency, 0, 100),
		Stability:  clamp(stability, 0, 100),
		Clarity:    clamp(clarity, 0, 100),
		Overall:    clamp(overall, 0, 100),
	}, nil
}
