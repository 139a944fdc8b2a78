package signals

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/interview-coach/internal/interview"
)

// DefaultExtractorTimeout bounds each modality extractor.
const DefaultExtractorTimeout = 10 * time.Second

// ErrEmptyAnswer indicates the answer carried no scoreable text.
var ErrEmptyAnswer = errors.New("answer text is empty")

// Set bundles the signals extracted from one answer. Audio and Video are
// nil when the modality was absent or its extractor failed; Availability
// records which modalities produced usable signals.
type Set struct {
	Text         TextSignals
	Audio        *AudioScores
	Video        *VideoScores
	Availability interview.Availability
}

// Extract runs all applicable extractors over an answer. Text extraction
// is mandatory and its failure fails the call, so Availability.Text is
// always true on a returned Set; audio and video extraction degrade to
// unavailable on error so a bad recording never blocks an evaluation.
// Each extractor runs under its own deadline.
func Extract(ctx context.Context, answer *interview.Answer, timeout time.Duration) (*Set, error) {
	if timeout <= 0 {
		timeout = DefaultExtractorTimeout
	}
	if strings.TrimSpace(answer.Text) == "" {
		return nil, ErrEmptyAnswer
	}

	set := &Set{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var text TextSignals
		if err := runBounded(gctx, timeout, func() error {
			text = AnalyzeText(answer.Text)
			return nil
		}); err != nil {
			return err
		}
		set.Text = text
		set.Availability.Text = true
		return nil
	})

	if answer.Audio != nil {
		audio := answer.Audio
		wordCount := len(strings.Fields(answer.Text))
		g.Go(func() error {
			var scores *AudioScores
			if err := runBounded(gctx, timeout, func() error {
				s, scoreErr := ScoreAudio(audio, wordCount)
				if scoreErr != nil {
					return scoreErr
				}
				scores = s
				return nil
			}); err != nil {
				return nil
			}
			set.Audio = scores
			set.Availability.Audio = true
			return nil
		})
	}

	if answer.Video != nil {
		video := answer.Video
		g.Go(func() error {
			var scores *VideoScores
			if err := runBounded(gctx, timeout, func() error {
				s, scoreErr := ScoreVideo(video)
				if scoreErr != nil {
					return scoreErr
				}
				scores = s
				return nil
			}); err != nil {
				return nil
			}
			set.Video = scores
			set.Availability.Video = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return set, nil
}

// runBounded executes fn in its own goroutine and abandons it once the
// deadline or the surrounding context expires. The caller must not read
// state written by fn when an error comes back.
func runBounded(ctx context.Context, timeout time.Duration, fn func() error) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := tctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- fn() }()

	select {
	case err := <-done:
		return err
	case <-tctx.Done():
		return tctx.Err()
	}
}
