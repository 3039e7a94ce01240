package repair

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/generation"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
	"github.com/jonathan/copydesk/internal/validation"
)

const (
	compliantHero    = "Acme Cloud gives growing teams clear billing, fast invoices, and honest pricing."
	nonCompliantHero = "Billing software."
)

func heroOptions(t *testing.T, maxIterations int) Options {
	t.Helper()
	spec, err := fields.ParseFieldSpec(fields.KeyHeroDescription)
	require.NoError(t, err)

	s := &settings.Settings{
		SystemInstructions: "Write plainly.",
		KeywordPolicy:      settings.KeywordPolicy{IncludeAlways: []string{"Acme Cloud"}},
	}

	return Options{
		Spec:          spec,
		Settings:      s,
		Constraints:   spec.Constraints(s),
		Brief:         "Landing page hero for a billing product.",
		MaxIterations: maxIterations,
	}
}

func evaluate(t *testing.T, opts Options, text string) (*types.Candidate, *types.ComplianceReport) {
	t.Helper()
	candidate := &types.Candidate{Fields: map[string]string{fields.KeyHeroDescription: text}}
	return candidate, validation.Evaluate(candidate.Fields, opts.Constraints)
}

func TestRunRepairLoopAlreadyCompliant(t *testing.T) {
	opts := heroOptions(t, 2)
	mock := llm.NewMockClient(nil, nil)
	initial, report := evaluate(t, opts, compliantHero)
	require.True(t, report.OverallPass)

	result := RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	assert.Equal(t, StopCompliant, result.StopReason)
	assert.Same(t, initial, result.Final)
	assert.Empty(t, result.History)
	// No provider calls for an already-compliant candidate
	assert.Empty(t, mock.Calls())
}

func TestRunRepairLoopZeroBudgetLeavesInitial(t *testing.T) {
	opts := heroOptions(t, 0)
	mock := llm.NewMockClient(nil, nil)
	initial, report := evaluate(t, opts, nonCompliantHero)
	require.False(t, report.OverallPass)

	result := RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	assert.Equal(t, StopBudgetExhausted, result.StopReason)
	assert.Same(t, initial, result.Final)
	assert.False(t, result.FinalReport.OverallPass)
	assert.Empty(t, mock.Calls())
}

func TestRunRepairLoopFixesOnFirstIteration(t *testing.T) {
	opts := heroOptions(t, 2)
	mock := llm.NewMockClient([]string{
		`{"hero_description": "` + compliantHero + `"}`,
	}, nil)
	initial, report := evaluate(t, opts, nonCompliantHero)

	result := RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	assert.Equal(t, StopCompliant, result.StopReason)
	assert.True(t, result.FinalReport.OverallPass)
	require.Len(t, result.History, 1)
	assert.Equal(t, 1, result.History[0].Iteration)
	assert.True(t, result.History[0].Report.OverallPass)

	// Repairs run at the low temperature on the advanced tier
	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, generation.RepairTemperature, calls[0].Temperature)
	assert.Equal(t, llm.TierAdvanced, calls[0].Tier)
}

func TestRunRepairLoopBudgetExhausted(t *testing.T) {
	opts := heroOptions(t, 2)
	mock := llm.NewMockClient([]string{
		`{"hero_description": "Still too short."}`,
		`{"hero_description": "Also still too short."}`,
	}, nil)
	initial, report := evaluate(t, opts, nonCompliantHero)

	result := RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	assert.Equal(t, StopBudgetExhausted, result.StopReason)
	assert.False(t, result.FinalReport.OverallPass)
	assert.Len(t, result.History, 2)
	assert.Len(t, mock.Calls(), 2)
	// Final holds the last revision, not the initial draft
	assert.Equal(t, "Also still too short.", result.Final.Fields[fields.KeyHeroDescription])
}

func TestRunRepairLoopProviderFailureKeepsLastGood(t *testing.T) {
	opts := heroOptions(t, 3)
	mock := llm.NewMockClient(
		[]string{`{"hero_description": "A bit longer but still not compliant copy."}`, ""},
		[]error{nil, errors.New("provider unavailable")},
	)
	initial, report := evaluate(t, opts, nonCompliantHero)

	result := RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	assert.Equal(t, StopProviderError, result.StopReason)
	// The first revision survives; the failed second call changes nothing
	require.Len(t, result.History, 1)
	assert.Equal(t, "A bit longer but still not compliant copy.", result.Final.Fields[fields.KeyHeroDescription])
	assert.Len(t, mock.Calls(), 2)
}

func TestRunRepairLoopPromptContents(t *testing.T) {
	opts := heroOptions(t, 1)
	events := []string{}
	opts.OnEvent = func(kind, _ string) { events = append(events, kind) }

	mock := llm.NewMockClient([]string{
		`{"hero_description": "` + compliantHero + `"}`,
	}, nil)
	initial, report := evaluate(t, opts, nonCompliantHero)

	RunRepairLoop(t.Context(), generation.NewGenerator(mock), initial, report, opts)

	calls := mock.Calls()
	require.Len(t, calls, 1)

	// System prompt layers the revision contract over the drafting instructions
	assert.Contains(t, calls[0].System, "revision pass")
	assert.Contains(t, calls[0].System, "marketing copywriter")

	// User prompt carries the current copy, the issues, and the full rule set
	assert.Contains(t, calls[0].User, "## Current Copy")
	assert.Contains(t, calls[0].User, nonCompliantHero)
	assert.Contains(t, calls[0].User, "## Issues To Fix")
	assert.Contains(t, calls[0].User, "missing required phrase")
	assert.Contains(t, calls[0].User, "## All Constraints")
	assert.Contains(t, calls[0].User, "between 10 and 25 words")

	assert.Equal(t, []string{types.EventRepairStart, types.EventRepairResult}, events)
}
