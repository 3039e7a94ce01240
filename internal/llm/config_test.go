package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetModelFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		tier     ModelTier
		expected string
	}{
		{
			name:     "Exact tier match",
			config:   DefaultConfig(),
			tier:     TierAdvanced,
			expected: "gemini-2.5-pro",
		},
		{
			name: "Missing tier falls back to standard",
			config: &Config{Models: map[ModelTier]string{
				TierStandard: "standard-model",
			}},
			tier:     TierAdvanced,
			expected: "standard-model",
		},
		{
			name: "Falls back to lite when standard missing",
			config: &Config{Models: map[ModelTier]string{
				TierLite: "lite-model",
			}},
			tier:     TierAdvanced,
			expected: "lite-model",
		},
		{
			name:     "Empty config returns empty string",
			config:   &Config{Models: map[ModelTier]string{}},
			tier:     TierStandard,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.GetModel(tt.tier))
		})
	}
}

func TestWithModelDoesNotMutateReceiver(t *testing.T) {
	base := DefaultConfig()
	modified := base.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "custom-model", modified.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-flash", base.GetModel(TierStandard))
	assert.Equal(t, base.GetModel(TierAdvanced), modified.GetModel(TierAdvanced))
}

func TestMockClientScriptedResponses(t *testing.T) {
	mock := NewMockClient(
		[]string{`{"a": 1}`, `{"b": 2}`},
		[]error{nil, nil},
	)

	first, err := mock.GenerateJSON(t.Context(), "sys", "user one", 0.8, TierStandard)
	assert.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, first)

	second, err := mock.GenerateJSON(t.Context(), "sys", "user two", 0.2, TierAdvanced)
	assert.NoError(t, err)
	assert.Equal(t, `{"b": 2}`, second)

	// Running past the script is an error
	_, err = mock.GenerateJSON(t.Context(), "sys", "user three", 0.2, TierAdvanced)
	assert.Error(t, err)

	calls := mock.Calls()
	assert.Len(t, calls, 3)
	assert.Equal(t, "user one", calls[0].User)
	assert.Equal(t, float32(0.8), calls[0].Temperature)
	assert.Equal(t, TierAdvanced, calls[1].Tier)
}
