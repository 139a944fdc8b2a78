package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", cfg.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", cfg.GetModel(TierAdvanced))
}

func TestGetModel_FallbackChain(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierStandard: "model-std"}}
	assert.Equal(t, "model-std", cfg.GetModel(TierAdvanced), "unknown tier should fall back to standard")

	cfg = &Config{Models: map[ModelTier]string{TierLite: "model-lite"}}
	assert.Equal(t, "model-lite", cfg.GetModel(TierAdvanced), "should fall back to lite when standard missing")

	cfg = &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", cfg.GetModel(TierAdvanced))
}

func TestTemperature_Default(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, float32(0.3), cfg.Temperature(TierLite))

	cfg = DefaultConfig()
	assert.Equal(t, float32(0.5), cfg.Temperature(TierLite))
	assert.Equal(t, float32(0.2), cfg.Temperature(TierStandard))
}

func TestWithModel_DoesNotMutateOriginal(t *testing.T) {
	base := DefaultConfig()
	derived := base.WithModel(TierLite, "custom-model")

	assert.Equal(t, "custom-model", derived.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash-lite", base.GetModel(TierLite))
	assert.Equal(t, base.Temperature(TierLite), derived.Temperature(TierLite))
}

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json fence",
			input:    "```json\n{\"score\": 4}\n```",
			expected: "{\"score\": 4}",
		},
		{
			name:     "bare fence",
			input:    "```\n{\"score\": 4}\n```",
			expected: "{\"score\": 4}",
		},
		{
			name:     "no fence",
			input:    "{\"score\": 4}",
			expected: "{\"score\": 4}",
		},
		{
			name:     "surrounding whitespace",
			input:    "  \n{\"score\": 4}\n  ",
			expected: "{\"score\": 4}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}
