package signals

import (
	"errors"

	"github.com/jonathan/interview-coach/internal/interview"
)

// ErrNoVideo indicates the recording carried no usable video frames.
var ErrNoVideo = errors.New("video is empty or too short")

// VideoScores are nonverbal engagement scores on a 0..100 scale.
type VideoScores struct {
	Engagement float64 `json:"engagement"`
	Presence   float64 `json:"presence"`
	Overall    float64 `json:"overall"`
}

// ScoreVideo computes engagement scores from aggregated video features.
// Reference ranges: a 12-20 per-minute blink rate is relaxed, a smile
// ratio of 0.25-0.40 reads as approachable, and sustained gaze contact
// signals attention.
func ScoreVideo(f *interview.VideoFeatures) (*VideoScores, error) {
	if f == nil || f.DurationSec <= 0 {
		return nil, ErrNoVideo
	}

	gazeScore := Sigmoid(f.GazeContactRatio, 0.5, 6.0) * 100
	blinkScore := Gaussian(f.BlinkRate, 16, 6) * 100
	smileScore := Gaussian(f.SmileRatio, 0.325, 0.12) * 100
	expressionScore := Sigmoid(f.ExpressionVariability, 0.3, 5.0) * 100

	stabilityScore := clamp(f.HeadStability, 0, 1) * 100

	engagement := gazeScore*0.4 + smileScore*0.35 + expressionScore*0.25
	presence := stabilityScore*0.6 + blinkScore*0.4
	overall := engagement*0.6 + presence*0.4

	return &VideoScores{
		Engagement: clamp(engagement, 0, 100),
		Presence:   clamp(presence, 0, 100),
		Overall:    clamp(overall, 0, 100),
	}, nil
}
