package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/interview"
)

func engagedVideo() *interview.VideoFeatures {
	return &interview.VideoFeatures{
		DurationSec:           90,
		GazeContactRatio:      0.75,
		BlinkRate:             16,
		HeadStability:         0.85,
		SmileRatio:            0.3,
		ExpressionVariability: 0.5,
	}
}

func TestScoreVideo_EngagedCandidate(t *testing.T) {
	scores, err := ScoreVideo(engagedVideo())
	require.NoError(t, err)

	assert.Greater(t, scores.Engagement, 60.0)
	assert.Greater(t, scores.Presence, 60.0)
	assert.LessOrEqual(t, scores.Overall, 100.0)
}

func TestScoreVideo_AvertedGazeScoresLower(t *testing.T) {
	engaged, err := ScoreVideo(engagedVideo())
	require.NoError(t, err)

	averted := engagedVideo()
	averted.GazeContactRatio = 0.1
	avertedScores, err := ScoreVideo(averted)
	require.NoError(t, err)

	assert.Greater(t, engaged.Engagement, avertedScores.Engagement)
}

func TestScoreVideo_RapidBlinkingLowersPresence(t *testing.T) {
	calm, err := ScoreVideo(engagedVideo())
	require.NoError(t, err)

	stressed := engagedVideo()
	stressed.BlinkRate = 30
	stressedScores, err := ScoreVideo(stressed)
	require.NoError(t, err)

	assert.Greater(t, calm.Presence, stressedScores.Presence)
}

func TestScoreVideo_StableHeadRaisesPresence(t *testing.T) {
	shaky := engagedVideo()
	shaky.HeadStability = 0.0
	shakyScores, err := ScoreVideo(shaky)
	require.NoError(t, err)

	steady := engagedVideo()
	steady.HeadStability = 1.0
	steadyScores, err := ScoreVideo(steady)
	require.NoError(t, err)

	// Stability carries 60% of the presence blend on the 0..100 scale.
	assert.InDelta(t, 60.0, steadyScores.Presence-shakyScores.Presence, 0.001)
}

func TestScoreVideo_NoFrames(t *testing.T) {
	_, err := ScoreVideo(&interview.VideoFeatures{DurationSec: 0})
	assert.ErrorIs(t, err, ErrNoVideo)

	_, err = ScoreVideo(nil)
	assert.ErrorIs(t, err, ErrNoVideo)
}
