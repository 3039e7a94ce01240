// Package pipeline provides the high-level orchestration for constrained copy generation.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/copydesk/internal/db"
	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/generation"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/repair"
	"github.com/jonathan/copydesk/internal/retrieval"
	"github.com/jonathan/copydesk/internal/selection"
	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
	"github.com/jonathan/copydesk/internal/validation"
)

// Defaults applied when RunOptions leave the knobs unset
const (
	DefaultVariantCount  = 3
	DefaultMaxIterations = 2
	DefaultGroundingK    = 3

	// UnsetMaxIterations is the sentinel callers pass when the repair budget
	// was not specified. MaxIterations == 0 is a valid explicit budget
	// (evaluate the draft, never repair), so "unset" must be negative.
	UnsetMaxIterations = -1
)

// RunOptions holds the per-request configuration for one generation run.
type RunOptions struct {
	Field               string
	Brief               string
	SettingsOverrides   map[string]any
	ConstraintOverrides *types.ConstraintOverrides
	VariantCount        int
	// MaxIterations is the repair budget per variant: 0 disables repair,
	// negative (UnsetMaxIterations) selects DefaultMaxIterations
	MaxIterations int
	// Parallelism bounds concurrent variant lanes; <=1 runs them sequentially
	Parallelism int
	GroundingK  int
	// OnProgress receives every timeline event as it is recorded
	OnProgress func(types.TimelineEvent)
}

// Orchestrator drives generation runs. Each run owns its own constraint set,
// variant list, and timeline; nothing is shared across concurrent runs except
// the injected collaborators, which must be safe for concurrent use.
type Orchestrator struct {
	Client   llm.Client
	Settings settings.Provider
	// Retriever is optional; nil disables grounding
	Retriever retrieval.Searcher
	// DB is optional; nil disables artifact persistence
	DB *db.DB
}

// Run executes the full generate -> evaluate -> repair -> score -> select
// loop and always returns a structured RunResult when it starts at all.
// Only configuration problems (missing system instructions, unknown field
// spec, unresolvable settings) fail the run outright.
func (o *Orchestrator) Run(ctx context.Context, opts RunOptions) (*types.RunResult, error) {
	applyDefaults(&opts)

	base, err := o.Settings.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings: %w", err)
	}

	merged, err := settings.ApplyOverrides(base, opts.SettingsOverrides)
	if err != nil {
		return nil, fmt.Errorf("failed to apply settings overrides: %w", err)
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	spec, err := fields.ParseFieldSpec(opts.Field)
	if err != nil {
		return nil, err
	}

	// Constraints are fixed here, before any variant is generated, and stay
	// immutable for the rest of the run.
	constraints := spec.Constraints(merged)
	if opts.ConstraintOverrides != nil {
		for key, override := range opts.ConstraintOverrides.Fields {
			constraints[key] = constraints[key].Merge(override)
		}
	}

	runID := uuid.New()
	recorder := NewRecorder(opts.OnProgress)
	recorder.Record(-1, types.EventRunStarted,
		fmt.Sprintf("field=%s variants=%d max_iterations=%d", opts.Field, opts.VariantCount, opts.MaxIterations))

	grounding := ""
	if o.Retriever != nil {
		snippets := o.Retriever.Search(opts.Brief, opts.GroundingK)
		grounding = retrieval.FormatGrounding(snippets)
	}

	if o.DB != nil {
		if dbErr := o.DB.CreateRun(ctx, runID, opts.Field, opts.Brief); dbErr != nil {
			fmt.Printf("Warning: failed to create database run: %v\n", dbErr)
		}
	}

	gen := generation.NewGenerator(o.Client)
	system := spec.SystemPrompt(merged)

	variants := make([]types.Variant, opts.VariantCount)
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i := 0; i < opts.VariantCount; i++ {
		g.Go(func() error {
			variants[i] = o.runVariant(gCtx, gen, spec, merged, constraints, system, grounding, i, opts, recorder)
			return nil
		})
	}
	// Lanes record their own failures and never return errors
	_ = g.Wait()

	winnerIdx := selection.SelectWinner(variants)
	winner := types.Winner{VariantIndex: winnerIdx, Score: selection.FailureScore}
	if winnerIdx >= 0 {
		winner.Final = variants[winnerIdx].Final
		winner.Compliance = variants[winnerIdx].FinalReport
		winner.Score = variants[winnerIdx].Score
	}
	recorder.Record(-1, types.EventWinner, fmt.Sprintf("variant %d selected (score %.1f)", winnerIdx, winner.Score))

	result := &types.RunResult{
		RunID:    runID.String(),
		Field:    opts.Field,
		Winner:   winner,
		Variants: variants,
		Timeline: recorder.Events(),
	}

	if o.DB != nil {
		if dbErr := o.DB.SaveRunResult(ctx, runID, result); dbErr != nil {
			fmt.Printf("Warning: failed to save run result: %v\n", dbErr)
		}
		status := db.StatusNonCompliant
		if result.Compliant() {
			status = db.StatusCompliant
		}
		if dbErr := o.DB.CompleteRun(ctx, runID, status); dbErr != nil {
			fmt.Printf("Warning: failed to complete database run: %v\n", dbErr)
		}
	}

	return result, nil
}

// runVariant drives one lane: DRAFTING -> EVALUATING -> (REPAIRING ->
// EVALUATING)* -> SCORED, or DRAFTING -> FAILED on a generation error.
// A failed lane carries the failure sentinel score and the run continues.
func (o *Orchestrator) runVariant(ctx context.Context, gen *generation.Generator, spec fields.FieldSpec, merged *settings.Settings, constraints map[string]types.ConstraintSet, system, grounding string, index int, opts RunOptions, recorder *Recorder) types.Variant {
	recorder.Record(index, types.EventDraftRequest, fmt.Sprintf("drafting variant %d", index))

	user := spec.UserPrompt(fields.PromptInput{
		Brief:       opts.Brief,
		Grounding:   grounding,
		VariantHint: variantHint(index, opts.VariantCount),
		Constraints: constraints,
	})

	initial, genErr := gen.GenerateDraft(ctx, spec, system, user, generation.DraftTemperature, llm.TierStandard, 0)
	if genErr != nil {
		recorder.Record(index, types.EventFailed, genErr.Error())
		return types.Variant{
			Index: index,
			State: types.StateFailed,
			Score: selection.FailureScore,
			Error: genErr,
		}
	}
	recorder.Record(index, types.EventDraftResult, "draft received")

	report := validation.Evaluate(initial.Fields, constraints)
	recorder.Record(index, types.EventEvaluated, fmt.Sprintf("initial draft compliant=%t", report.OverallPass))

	repairResult := repair.RunRepairLoop(ctx, gen, initial, report, repair.Options{
		Spec:          spec,
		Settings:      merged,
		Constraints:   constraints,
		Brief:         opts.Brief,
		MaxIterations: opts.MaxIterations,
		OnEvent: func(kind, message string) {
			recorder.Record(index, kind, message)
		},
	})

	score := selection.Score(repairResult.FinalReport)
	recorder.Record(index, types.EventScored,
		fmt.Sprintf("score %.1f after %d repair(s), stop=%s", score, len(repairResult.History), repairResult.StopReason))

	return types.Variant{
		Index:       index,
		State:       types.StateScored,
		Initial:     initial,
		Repairs:     repairResult.History,
		Final:       repairResult.Final,
		FinalReport: repairResult.FinalReport,
		Score:       score,
	}
}

// variantHint nudges each lane toward a distinct angle so independent drafts
// do not collapse into the same copy.
func variantHint(index, total int) string {
	if total <= 1 {
		return ""
	}
	return fmt.Sprintf("This is variant %d of %d. Take a distinct angle or emphasis from the other variants.", index+1, total)
}

func applyDefaults(opts *RunOptions) {
	if opts.VariantCount <= 0 {
		opts.VariantCount = DefaultVariantCount
	}
	if opts.MaxIterations < 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 1
	}
	if opts.GroundingK <= 0 {
		opts.GroundingK = DefaultGroundingK
	}
}
