// Package fields defines the closed set of generatable field specs.
// Each spec carries its own constraint derivation, prompt templates, and
// output schema; adding a new field type is an explicit addition here rather
// than a string-keyed switch over ad-hoc JSON shapes.
package fields

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
)

// PromptInput carries the per-request pieces a user prompt is assembled from.
type PromptInput struct {
	Brief       string
	Grounding   string
	VariantHint string
	Constraints map[string]types.ConstraintSet
}

// FieldSpec describes one generatable field (or small field group).
type FieldSpec interface {
	// Key is the stable identifier used in requests and artifacts
	Key() string
	// FieldKeys lists the output field keys this spec produces
	FieldKeys() []string
	// Constraints derives the per-field constraint sets from resolved settings
	Constraints(s *settings.Settings) map[string]types.ConstraintSet
	// OutputSchema is the JSON Schema the structured output must satisfy
	OutputSchema() string
	// SystemPrompt builds the system instruction for drafting this field
	SystemPrompt(s *settings.Settings) string
	// UserPrompt builds the user message for one draft attempt
	UserPrompt(input PromptInput) string
}

// Spec keys
const (
	KeyHeroDescription = "hero_description"
	KeySEOMeta         = "seo_meta"
)

// ParseFieldSpec resolves a spec key to its implementation.
func ParseFieldSpec(key string) (FieldSpec, error) {
	switch key {
	case KeyHeroDescription:
		return HeroDescription{}, nil
	case KeySEOMeta:
		return SEOMeta{}, nil
	default:
		return nil, fmt.Errorf("unknown field spec: %s", key)
	}
}

// SpecKeys returns the supported spec keys, for request validation and help text.
func SpecKeys() []string {
	return []string{KeyHeroDescription, KeySEOMeta}
}

// DescribeConstraints renders the constraint sets as numbered plain-language
// rules. It is included verbatim in draft and repair prompts so the model
// always sees the full rule set, not just the current failures.
func DescribeConstraints(constraints map[string]types.ConstraintSet) string {
	keys := make([]string, 0, len(constraints))
	for key := range constraints {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var sb strings.Builder
	n := 0
	for _, key := range keys {
		cs := constraints[key]
		if rule := cs.Length; rule != nil {
			n++
			sb.WriteString(fmt.Sprintf("%d. %q must be %s.\n", n, key, describeLengthRule(rule)))
		}
		if len(cs.MustInclude) > 0 {
			n++
			sb.WriteString(fmt.Sprintf("%d. %q must contain the exact phrase(s): %s.\n", n, key, quoteList(cs.MustInclude)))
		}
		if len(cs.MustExclude) > 0 {
			n++
			sb.WriteString(fmt.Sprintf("%d. %q must NOT contain: %s.\n", n, key, quoteList(cs.MustExclude)))
		}
	}
	if n == 0 {
		sb.WriteString("(no constraints configured)\n")
	}
	return sb.String()
}

// describeLengthRule renders a length bound in prose, e.g. "between 50 and 60 characters".
func describeLengthRule(rule *types.LengthRule) string {
	unit := string(rule.Unit)
	if unit == "" {
		unit = string(types.UnitWords)
	}
	switch {
	case rule.Min != nil && rule.Max != nil:
		return fmt.Sprintf("between %d and %d %s", *rule.Min, *rule.Max, unit)
	case rule.Min != nil:
		return fmt.Sprintf("at least %d %s", *rule.Min, unit)
	case rule.Max != nil:
		return fmt.Sprintf("at most %d %s", *rule.Max, unit)
	default:
		return fmt.Sprintf("any number of %s", unit)
	}
}

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return strings.Join(quoted, ", ")
}

// lengthRuleFor reads the configured target for a field, falling back to the
// spec's built-in default band when settings leave it unset.
func lengthRuleFor(s *settings.Settings, field string, fallback settings.LengthTarget) *types.LengthRule {
	if s != nil {
		if target, ok := s.LengthTarget(field); ok {
			if rule := target.Rule(); rule != nil {
				return rule
			}
		}
	}
	return fallback.Rule()
}

// keywordPolicy returns the include/exclude lists from settings, nil-safe.
func keywordPolicy(s *settings.Settings) settings.KeywordPolicy {
	if s == nil {
		return settings.KeywordPolicy{}
	}
	return s.KeywordPolicy
}

// writeSystemPreamble emits the shared system-prompt sections: editorial
// instructions, brand voice, and the JSON-only contract.
func writeSystemPreamble(sb *strings.Builder, s *settings.Settings, role string) {
	sb.WriteString(role)
	sb.WriteString("\n\n")
	if s != nil && s.SystemInstructions != "" {
		sb.WriteString("## Editorial Instructions\n\n")
		sb.WriteString(s.SystemInstructions)
		sb.WriteString("\n\n")
	}
	if s != nil && s.BrandVoice != "" {
		sb.WriteString("## Brand Voice\n\n")
		sb.WriteString(s.BrandVoice)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n")
}

// writeUserSections emits the shared user-prompt sections in a fixed order.
func writeUserSections(sb *strings.Builder, input PromptInput, task string) {
	sb.WriteString(task)
	sb.WriteString("\n\n")

	sb.WriteString("## Brief\n\n")
	sb.WriteString(input.Brief)
	sb.WriteString("\n\n")

	if input.Grounding != "" {
		sb.WriteString("## Existing Site Content (ground your copy in this, do not invent facts)\n\n")
		sb.WriteString(input.Grounding)
		sb.WriteString("\n\n")
	}

	sb.WriteString("## Constraints\n\n")
	sb.WriteString(DescribeConstraints(input.Constraints))
	sb.WriteString("\n")

	if input.VariantHint != "" {
		sb.WriteString(input.VariantHint)
		sb.WriteString("\n")
	}
}
