package fields

import (
	"strings"

	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
)

// Output field keys for the SEO meta pair
const (
	KeySEOTitle       = "seo_title"
	KeySEODescription = "seo_description"
)

// SEOMeta generates an SEO title/description pair for a page.
type SEOMeta struct{}

// Default bands follow common SERP display limits.
var (
	defaultSEOTitleTarget       = settings.LengthTarget{Unit: types.UnitCharacters, Min: 50, Max: 60}
	defaultSEODescriptionTarget = settings.LengthTarget{Unit: types.UnitCharacters, Min: 120, Max: 160}
)

// Key returns the spec identifier.
func (SEOMeta) Key() string { return KeySEOMeta }

// FieldKeys returns the two output fields.
func (SEOMeta) FieldKeys() []string { return []string{KeySEOTitle, KeySEODescription} }

// Constraints derives per-field rules: each string gets its own length band;
// required phrases apply to the description (titles are too short to carry
// them reliably), banned phrases apply to both.
func (SEOMeta) Constraints(s *settings.Settings) map[string]types.ConstraintSet {
	policy := keywordPolicy(s)
	return map[string]types.ConstraintSet{
		KeySEOTitle: {
			Length:      lengthRuleFor(s, KeySEOTitle, defaultSEOTitleTarget),
			MustExclude: policy.Avoid,
		},
		KeySEODescription: {
			Length:      lengthRuleFor(s, KeySEODescription, defaultSEODescriptionTarget),
			MustInclude: policy.IncludeAlways,
			MustExclude: policy.Avoid,
		},
	}
}

// OutputSchema is the JSON Schema the draft output must satisfy.
func (SEOMeta) OutputSchema() string {
	return `{
  "type": "object",
  "required": ["seo_title", "seo_description"],
  "properties": {
    "seo_title": {"type": "string", "minLength": 1},
    "seo_description": {"type": "string", "minLength": 1}
  }
}`
}

// SystemPrompt builds the system instruction for SEO meta drafting.
func (SEOMeta) SystemPrompt(s *settings.Settings) string {
	var sb strings.Builder
	writeSystemPreamble(&sb, s,
		"You are an expert SEO copywriter. Write a page title and meta description pair for a website page.")
	return sb.String()
}

// UserPrompt builds the user message for one SEO meta draft attempt.
func (SEOMeta) UserPrompt(input PromptInput) string {
	var sb strings.Builder
	writeUserSections(&sb, input,
		`Write the SEO title and meta description and return them as JSON:
{"seo_title": "...", "seo_description": "..."}`)
	return sb.String()
}
