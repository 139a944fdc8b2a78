package signals

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-coach/internal/interview"
)

func TestExtract_TextOnly(t *testing.T) {
	answer := &interview.Answer{Text: "I rebuilt the deployment pipeline."}

	set, err := Extract(context.Background(), answer, time.Second)
	require.NoError(t, err)

	assert.True(t, set.Availability.Text)
	assert.False(t, set.Availability.Audio)
	assert.False(t, set.Availability.Video)
	assert.Nil(t, set.Audio)
	assert.Nil(t, set.Video)
	assert.Equal(t, 5, set.Text.WordCount)
}

func TestExtract_AllModalities(t *testing.T) {
	answer := &interview.Answer{
		Text:  "I rebuilt the deployment pipeline and cut release time by 60%.",
		Audio: goodAudio(),
		Video: engagedVideo(),
	}

	set, err := Extract(context.Background(), answer, time.Second)
	require.NoError(t, err)

	assert.True(t, set.Availability.Text)
	assert.True(t, set.Availability.Audio)
	assert.True(t, set.Availability.Video)
	require.NotNil(t, set.Audio)
	require.NotNil(t, set.Video)
}

func TestExtract_SilentAudioDegradesToUnavailable(t *testing.T) {
	silent := goodAudio()
	silent.RMSEnergy = 0.001
	answer := &interview.Answer{Text: "Some answer text here.", Audio: silent}

	set, err := Extract(context.Background(), answer, time.Second)
	require.NoError(t, err, "a bad recording must not fail the extraction")

	assert.True(t, set.Availability.Text)
	assert.False(t, set.Availability.Audio)
	assert.Nil(t, set.Audio)
}

func TestExtract_EmptyVideoDegradesToUnavailable(t *testing.T) {
	answer := &interview.Answer{
		Text:  "Some answer text here.",
		Video: &interview.VideoFeatures{DurationSec: 0},
	}

	set, err := Extract(context.Background(), answer, time.Second)
	require.NoError(t, err)

	assert.False(t, set.Availability.Video)
	assert.Nil(t, set.Video)
}

func TestExtract_EmptyTextFails(t *testing.T) {
	set, err := Extract(context.Background(), &interview.Answer{Text: "   "}, time.Second)
	require.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Nil(t, set)
}

func TestExtract_CancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := Extract(ctx, &interview.Answer{Text: "Some answer text here."}, time.Second)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, set)
}

func TestRunBounded_TimesOut(t *testing.T) {
	blocked := make(chan struct{})
	defer close(blocked)

	err := runBounded(context.Background(), 10*time.Millisecond, func() error {
		<-blocked
		return nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
