// Package validation evaluates generated copy against declarative constraint sets.
package validation

import (
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/copydesk/internal/types"
)

// Evaluate checks candidate field values against the per-field constraint sets
// and returns a structured compliance report. It is a pure function of its
// inputs: no side effects, no randomness, total over any string input.
// Fields are reported in sorted key order so reports are deterministic.
func Evaluate(fields map[string]string, constraints map[string]types.ConstraintSet) *types.ComplianceReport {
	keys := make([]string, 0, len(constraints))
	for key := range constraints {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	report := &types.ComplianceReport{OverallPass: true}
	for _, key := range keys {
		fieldReport := evaluateField(key, fields[key], constraints[key])
		report.Fields = append(report.Fields, fieldReport)
		if !fieldReport.Pass {
			report.OverallPass = false
		}
	}
	return report
}

// evaluateField applies every configured rule to one value. Absent rules
// always pass; all configured rules are checked independently so a report
// can show a length failure, missing phrases, and banned phrases at once.
func evaluateField(field, value string, constraints types.ConstraintSet) types.FieldReport {
	report := types.FieldReport{Field: field, Pass: true}

	if constraints.Length != nil {
		result := evaluateLength(value, constraints.Length)
		report.Length = result
		if !result.Pass {
			report.Pass = false
		}
	}

	if len(constraints.MustInclude) > 0 {
		result := evaluateInclusion(value, constraints.MustInclude)
		report.Inclusion = result
		if !result.Pass {
			report.Pass = false
		}
	}

	if len(constraints.MustExclude) > 0 {
		result := evaluateExclusion(value, constraints.MustExclude)
		report.Exclusion = result
		if !result.Pass {
			report.Pass = false
		}
	}

	return report
}

// evaluateLength measures the value in the rule's unit and checks bounds.
// Both bounds are inclusive.
func evaluateLength(value string, rule *types.LengthRule) *types.LengthResult {
	var measured int
	switch rule.Unit {
	case types.UnitCharacters:
		measured = len([]rune(strings.TrimSpace(value)))
	default:
		measured = CountWords(value)
	}

	pass := true
	if rule.Min != nil && measured < *rule.Min {
		pass = false
	}
	if rule.Max != nil && measured > *rule.Max {
		pass = false
	}

	return &types.LengthResult{
		Pass:     pass,
		Unit:     rule.Unit,
		Measured: measured,
		Min:      rule.Min,
		Max:      rule.Max,
	}
}

// evaluateInclusion reports required phrases not present in the value
// (case-insensitive substring match).
func evaluateInclusion(value string, required []string) *types.InclusionResult {
	lowered := strings.ToLower(value)

	missing := []string{}
	for _, phrase := range required {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" {
			continue
		}
		if !strings.Contains(lowered, normalized) {
			missing = append(missing, phrase)
		}
	}

	return &types.InclusionResult{Pass: len(missing) == 0, Missing: missing}
}

// evaluateExclusion reports banned phrases present in the value
// (case-insensitive substring match).
func evaluateExclusion(value string, banned []string) *types.ExclusionResult {
	lowered := strings.ToLower(value)

	violations := []string{}
	for _, phrase := range banned {
		normalized := strings.ToLower(strings.TrimSpace(phrase))
		if normalized == "" {
			continue
		}
		if strings.Contains(lowered, normalized) {
			violations = append(violations, phrase)
		}
	}

	return &types.ExclusionResult{Pass: len(violations) == 0, Violations: violations}
}

// CountWords counts whitespace-delimited tokens that contain at least one
// letter or digit, so stray punctuation does not inflate the count.
func CountWords(value string) int {
	count := 0
	for _, token := range strings.Fields(value) {
		if strings.ContainsFunc(token, func(r rune) bool {
			return unicode.IsLetter(r) || unicode.IsDigit(r)
		}) {
			count++
		}
	}
	return count
}
