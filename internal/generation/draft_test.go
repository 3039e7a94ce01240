package generation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/types"
)

func heroSpec(t *testing.T) fields.FieldSpec {
	t.Helper()
	spec, err := fields.ParseFieldSpec(fields.KeyHeroDescription)
	require.NoError(t, err)
	return spec
}

func TestGenerateDraftSuccess(t *testing.T) {
	mock := llm.NewMockClient([]string{`{"hero_description": "Fast invoicing for small teams."}`}, nil)
	gen := NewGenerator(mock)

	candidate, genErr := gen.GenerateDraft(t.Context(), heroSpec(t), "sys", "user", DraftTemperature, llm.TierStandard, 0)

	require.Nil(t, genErr)
	require.NotNil(t, candidate)
	assert.Equal(t, "Fast invoicing for small teams.", candidate.Fields[fields.KeyHeroDescription])
	assert.Equal(t, 0, candidate.Iteration)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, DraftTemperature, calls[0].Temperature)
	assert.Equal(t, llm.TierStandard, calls[0].Tier)
}

func TestGenerateDraftRecoversProseWrappedJSON(t *testing.T) {
	mock := llm.NewMockClient([]string{
		"Here you go: {\"hero_description\": \"Copy that ships.\"} Let me know!",
	}, nil)
	gen := NewGenerator(mock)

	candidate, genErr := gen.GenerateDraft(t.Context(), heroSpec(t), "sys", "user", DraftTemperature, llm.TierStandard, 0)

	require.Nil(t, genErr)
	assert.Equal(t, "Copy that ships.", candidate.Fields[fields.KeyHeroDescription])
}

func TestGenerateDraftParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"Not JSON at all", "I cannot produce JSON today."},
		{"Wrong type for field", `{"hero_description": 42}`},
		{"Missing required field", `{"headline": "x"}`},
		{"Empty string fails schema", `{"hero_description": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockClient([]string{tt.response}, nil)
			gen := NewGenerator(mock)

			candidate, genErr := gen.GenerateDraft(t.Context(), heroSpec(t), "sys", "user", DraftTemperature, llm.TierStandard, 0)

			assert.Nil(t, candidate)
			require.NotNil(t, genErr)
			assert.Equal(t, types.ReasonParseError, genErr.Reason)
			assert.NotEmpty(t, genErr.Details)
		})
	}
}

func TestGenerateDraftProviderError(t *testing.T) {
	mock := llm.NewMockClient(nil, []error{errors.New("rpc deadline exceeded")})
	gen := NewGenerator(mock)

	candidate, genErr := gen.GenerateDraft(t.Context(), heroSpec(t), "sys", "user", DraftTemperature, llm.TierStandard, 0)

	assert.Nil(t, candidate)
	require.NotNil(t, genErr)
	assert.Equal(t, types.ReasonProviderError, genErr.Reason)
	assert.Contains(t, genErr.Details, "deadline")
}

func TestGenerateDraftMultiFieldSpec(t *testing.T) {
	spec, err := fields.ParseFieldSpec(fields.KeySEOMeta)
	require.NoError(t, err)

	mock := llm.NewMockClient([]string{
		`{"seo_title": "Acme Cloud billing that just works for small teams", "seo_description": "Acme Cloud gives growing teams transparent billing, automated invoicing, and clear reporting so finance stays simple while the product scales."}`,
	}, nil)
	gen := NewGenerator(mock)

	candidate, genErr := gen.GenerateDraft(t.Context(), spec, "sys", "user", DraftTemperature, llm.TierStandard, 0)

	require.Nil(t, genErr)
	assert.Len(t, candidate.Fields, 2)
	assert.NotEmpty(t, candidate.Fields[fields.KeySEOTitle])
	assert.NotEmpty(t, candidate.Fields[fields.KeySEODescription])
}
