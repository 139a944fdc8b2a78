package signals

import (
	"fmt"
	"regexp"
	"strings"
)

var fillerWords = map[string]bool{
	"um": true, "uh": true, "like": true, "basically": true,
	"actually": true, "literally": true, "right": true, "okay": true,
	"so": true, "well": true, "yeah": true,
}

var hedgeWords = map[string]bool{
	"maybe": true, "perhaps": true, "possibly": true, "kind": true,
	"sort": true, "somewhat": true, "probably": true, "guess": true,
	"think": true, "might": true,
}

var (
	sentenceEnd = regexp.MustCompile(`[.!?]+`)
	numberLike  = regexp.MustCompile(`\d+(?:[.,]\d+)?%?|\$\d+`)
	wordClean   = regexp.MustCompile(`[^a-z0-9']+`)
)

// TextSignals are lexical features of an answer transcript.
type TextSignals struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
	TypeTokenRatio    float64 `json:"type_token_ratio"`
	FillerRatio       float64 `json:"filler_ratio"`
	HedgeRatio        float64 `json:"hedge_ratio"`
	QuantifiedClaims  int     `json:"quantified_claims"`
}

// AnalyzeText computes lexical signals from an answer transcript.
func AnalyzeText(text string) TextSignals {
	words := strings.Fields(text)
	s := TextSignals{WordCount: len(words)}
	if s.WordCount == 0 {
		return s
	}

	s.SentenceCount = len(sentenceEnd.FindAllString(text, -1))
	if s.SentenceCount == 0 {
		s.SentenceCount = 1
	}
	s.AvgSentenceLength = float64(s.WordCount) / float64(s.SentenceCount)

	types := make(map[string]bool, len(words))
	fillers := 0
	hedges := 0
	for _, w := range words {
		norm := wordClean.ReplaceAllString(strings.ToLower(w), "")
		if norm == "" {
			continue
		}
		types[norm] = true
		if fillerWords[norm] {
			fillers++
		}
		if hedgeWords[norm] {
			hedges++
		}
	}
	s.TypeTokenRatio = float64(len(types)) / float64(s.WordCount)
	s.FillerRatio = float64(fillers) / float64(s.WordCount)
	s.HedgeRatio = float64(hedges) / float64(s.WordCount)
	s.QuantifiedClaims = len(numberLike.FindAllString(text, -1))

	return s
}

// Describe renders the signals as prompt-ready lines.
func (s TextSignals) Describe() string {
	return fmt.Sprintf(
		"- words: %d\n- sentences: %d (avg %.1f words)\n- vocabulary diversity: %.2f\n- filler-word ratio: %.3f\n- hedging ratio: %.3f\n- quantified claims: %d",
		s.WordCount, s.SentenceCount, s.AvgSentenceLength,
		s.TypeTokenRatio, s.FillerRatio, s.HedgeRatio, s.QuantifiedClaims,
	)
}
