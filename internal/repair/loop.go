package repair

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/generation"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
	"github.com/jonathan/copydesk/internal/validation"
)

// Stop reasons for a finished loop
const (
	StopCompliant       = "compliant"
	StopBudgetExhausted = "budget_exhausted"
	StopProviderError   = "provider_error"
)

// Options configures one repair loop invocation.
type Options struct {
	Spec          fields.FieldSpec
	Settings      *settings.Settings
	Constraints   map[string]types.ConstraintSet
	Brief         string
	MaxIterations int
	// OnEvent, when set, receives a short message per loop step for the timeline
	OnEvent func(kind, message string)
}

// Result is the outcome of a repair loop: the best candidate reached, its
// report, the full iteration history, and why the loop stopped.
type Result struct {
	Final       *types.Candidate
	FinalReport *types.ComplianceReport
	History     []types.RepairStep
	StopReason  string
}

// RunRepairLoop revises a non-compliant candidate until it passes, the
// iteration budget is exhausted, or the provider fails. A provider failure
// keeps the last good candidate rather than crashing the run. With
// MaxIterations == 0 the initial evaluation stands untouched.
// The loop creates at most MaxIterations new candidates and never mutates
// the ones it was given.
func RunRepairLoop(ctx context.Context, gen *generation.Generator, initial *types.Candidate, report *types.ComplianceReport, opts Options) Result {
	result := Result{
		Final:       initial,
		FinalReport: report,
		StopReason:  StopBudgetExhausted,
	}
	if report.OverallPass {
		result.StopReason = StopCompliant
		return result
	}

	system := buildRepairSystemPrompt(opts.Spec, opts.Settings)

	for iteration := 1; iteration <= opts.MaxIterations; iteration++ {
		emit(opts, types.EventRepairStart, fmt.Sprintf("repair iteration %d: %d issue(s)",
			iteration, countIssues(result.FinalReport)))

		user := buildRepairUserPrompt(opts, result.Final, result.FinalReport)
		revised, genErr := gen.GenerateDraft(ctx, opts.Spec, system, user,
			generation.RepairTemperature, llm.TierAdvanced, iteration)
		if genErr != nil {
			// Keep the last good candidate; the run continues with it
			emit(opts, types.EventRepairResult, fmt.Sprintf("repair iteration %d failed: %s", iteration, genErr.Error()))
			result.StopReason = StopProviderError
			return result
		}

		revisedReport := validation.Evaluate(revised.Fields, opts.Constraints)
		result.History = append(result.History, types.RepairStep{
			Iteration: iteration,
			Report:    *revisedReport,
			Candidate: *revised,
		})
		result.Final = revised
		result.FinalReport = revisedReport

		emit(opts, types.EventRepairResult, fmt.Sprintf("repair iteration %d: compliant=%t", iteration, revisedReport.OverallPass))

		if revisedReport.OverallPass {
			result.StopReason = StopCompliant
			return result
		}
	}

	return result
}

func emit(opts Options, kind, message string) {
	if opts.OnEvent != nil {
		opts.OnEvent(kind, message)
	}
}

func countIssues(report *types.ComplianceReport) int {
	return len(BuildIssueList(report))
}

// buildRepairSystemPrompt layers the strict revision contract on top of the
// spec's drafting instructions.
func buildRepairSystemPrompt(spec fields.FieldSpec, s *settings.Settings) string {
	var sb strings.Builder
	sb.WriteString(spec.SystemPrompt(s))
	sb.WriteString("\nThis is a revision pass. Rewrite the previous copy so that it satisfies every constraint exactly. ")
	sb.WriteString("Change as little as possible while fixing the listed issues.\n")
	return sb.String()
}

// buildRepairUserPrompt assembles the current candidate, the issue list, and
// a full restatement of the constraints. The restatement is always included,
// independent of the current failures, so the model has complete context
// rather than just deltas.
func buildRepairUserPrompt(opts Options, current *types.Candidate, report *types.ComplianceReport) string {
	var sb strings.Builder

	sb.WriteString("## Brief\n\n")
	sb.WriteString(opts.Brief)
	sb.WriteString("\n\n")

	sb.WriteString("## Current Copy\n\n")
	currentJSON, err := json.MarshalIndent(current.Fields, "", "  ")
	if err == nil {
		sb.Write(currentJSON)
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Issues To Fix\n\n")
	for i, issue := range BuildIssueList(report) {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue))
	}
	sb.WriteString("\n")

	sb.WriteString("## All Constraints (every one must hold)\n\n")
	sb.WriteString(fields.DescribeConstraints(opts.Constraints))
	sb.WriteString("\n")

	sb.WriteString("Return the revised copy as the same JSON object shape as the current copy.\n")
	return sb.String()
}
