// Package repair iteratively revises non-compliant candidates until they
// satisfy the constraint set or the iteration budget runs out.
package repair

import (
	"fmt"
	"strings"

	"github.com/jonathan/copydesk/internal/types"
)

// BuildIssueList converts the failing rules of a compliance report into
// plain-language corrective instructions, one per failing rule.
func BuildIssueList(report *types.ComplianceReport) []string {
	if report == nil {
		return nil
	}

	var issues []string
	for _, field := range report.Fields {
		if field.Pass {
			continue
		}

		if lr := field.Length; lr != nil && !lr.Pass {
			issues = append(issues, fmt.Sprintf("%q length must be %s; current %d %s.",
				field.Field, describeBounds(lr), lr.Measured, lr.Unit))
		}
		if inc := field.Inclusion; inc != nil && !inc.Pass {
			issues = append(issues, fmt.Sprintf("%q is missing required phrase(s): %s.",
				field.Field, quoteList(inc.Missing)))
		}
		if exc := field.Exclusion; exc != nil && !exc.Pass {
			issues = append(issues, fmt.Sprintf("Remove banned phrase(s) from %q: %s.",
				field.Field, quoteList(exc.Violations)))
		}
	}
	return issues
}

func describeBounds(lr *types.LengthResult) string {
	switch {
	case lr.Min != nil && lr.Max != nil:
		return fmt.Sprintf("between %d and %d %s", *lr.Min, *lr.Max, lr.Unit)
	case lr.Min != nil:
		return fmt.Sprintf("at least %d %s", *lr.Min, lr.Unit)
	case lr.Max != nil:
		return fmt.Sprintf("at most %d %s", *lr.Max, lr.Unit)
	default:
		return string(lr.Unit)
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}
