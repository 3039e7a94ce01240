// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/copydesk/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxEventsToShow is the default number of timeline events to display
	maxEventsToShow = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintComplianceReport outputs a per-field breakdown of a compliance check.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintComplianceReport(report *types.ComplianceReport) {
	if report == nil {
		return
	}

	if report.OverallPass {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ ALL CONSTRAINTS SATISFIED")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	for i, field := range report.Fields {
		mark := "✓"
		if !field.Pass {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, field.Field))

		if field.Length != nil {
			status := "ok"
			if !field.Length.Pass {
				status = fmt.Sprintf("out of range (%s)", formatBounds(field.Length.Min, field.Length.Max))
			}
			sb.WriteString(fmt.Sprintf("  length: %d %s, %s\n", field.Length.Measured, field.Length.Unit, status))
		}
		if field.Inclusion != nil && !field.Inclusion.Pass {
			sb.WriteString(fmt.Sprintf("  missing: %s\n", strings.Join(field.Inclusion.Missing, ", ")))
		}
		if field.Exclusion != nil && !field.Exclusion.Pass {
			sb.WriteString(fmt.Sprintf("  banned: %s\n", strings.Join(field.Exclusion.Violations, ", ")))
		}
		if i < len(report.Fields)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("COMPLIANCE REPORT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVariantSummary outputs a one-line-per-variant overview of a run.
func (p *Printer) PrintVariantSummary(variants []types.Variant) {
	if len(variants) == 0 {
		return
	}

	var sb strings.Builder
	for i, v := range variants {
		switch {
		case v.Failed():
			reason := ""
			if v.Error != nil {
				reason = v.Error.Reason
			}
			sb.WriteString(fmt.Sprintf("#%d  FAILED (%s)\n", v.Index, reason))
		default:
			compliant := "non-compliant"
			if v.FinalReport != nil && v.FinalReport.OverallPass {
				compliant = "compliant"
			}
			sb.WriteString(fmt.Sprintf("#%d  score %.1f, %d repair(s), %s\n", v.Index, v.Score, len(v.Repairs), compliant))
		}
		if i < len(variants)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("VARIANTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunResult outputs the winning copy and its score.
func (p *Printer) PrintRunResult(result *types.RunResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:     %s\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Field:   %s\n", result.Field))
	sb.WriteString(fmt.Sprintf("Winner:  variant %d (score %.1f)\n", result.Winner.VariantIndex, result.Winner.Score))

	if result.Winner.Final != nil {
		sb.WriteString("\n")
		for key, value := range result.Winner.Final.Fields {
			sb.WriteString(fmt.Sprintf("%s:\n  %s\n", key, value))
		}
	}

	p.printBox("RUN RESULT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTimeline outputs the recorded run timeline, oldest first.
func (p *Printer) PrintTimeline(events []types.TimelineEvent) {
	if len(events) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(events), maxEventsToShow)
	for i := 0; i < count; i++ {
		event := events[i]
		lane := "run"
		if event.Variant >= 0 {
			lane = fmt.Sprintf("v%d", event.Variant)
		}
		sb.WriteString(fmt.Sprintf("%6dms %-4s %s\n", event.OffsetMS, lane, event.Kind))
	}
	if len(events) > maxEventsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more events\n", len(events)-maxEventsToShow))
	}

	p.printBox("TIMELINE", strings.TrimSuffix(sb.String(), "\n"))
}

func formatBounds(minBound, maxBound *int) string {
	switch {
	case minBound != nil && maxBound != nil:
		return fmt.Sprintf("want %d-%d", *minBound, *maxBound)
	case minBound != nil:
		return fmt.Sprintf("want at least %d", *minBound)
	case maxBound != nil:
		return fmt.Sprintf("want at most %d", *maxBound)
	}
	return "no bounds"
}
