package fields

import (
	"strings"

	"github.com/jonathan/copydesk/internal/settings"
	"github.com/jonathan/copydesk/internal/types"
)

// HeroDescription generates the short marketing description shown in a page hero.
type HeroDescription struct{}

// defaultHeroTarget is used when settings carry no length target for the field.
var defaultHeroTarget = settings.LengthTarget{Unit: types.UnitWords, Min: 10, Max: 25}

// Key returns the spec identifier.
func (HeroDescription) Key() string { return KeyHeroDescription }

// FieldKeys returns the single output field.
func (HeroDescription) FieldKeys() []string { return []string{KeyHeroDescription} }

// Constraints derives the hero description's rules from the merged settings:
// length band from length targets, required phrases from the always-include
// keyword list, banned phrases from the avoid list.
func (HeroDescription) Constraints(s *settings.Settings) map[string]types.ConstraintSet {
	policy := keywordPolicy(s)
	return map[string]types.ConstraintSet{
		KeyHeroDescription: {
			Length:      lengthRuleFor(s, KeyHeroDescription, defaultHeroTarget),
			MustInclude: policy.IncludeAlways,
			MustExclude: policy.Avoid,
		},
	}
}

// OutputSchema is the JSON Schema the draft output must satisfy.
func (HeroDescription) OutputSchema() string {
	return `{
  "type": "object",
  "required": ["hero_description"],
  "properties": {
    "hero_description": {"type": "string", "minLength": 1}
  }
}`
}

// SystemPrompt builds the system instruction for hero drafting.
func (HeroDescription) SystemPrompt(s *settings.Settings) string {
	var sb strings.Builder
	writeSystemPreamble(&sb, s,
		"You are an expert marketing copywriter. Write a single short hero description for a website page.")
	return sb.String()
}

// UserPrompt builds the user message for one hero draft attempt.
func (HeroDescription) UserPrompt(input PromptInput) string {
	var sb strings.Builder
	writeUserSections(&sb, input,
		`Write the hero description and return it as JSON:
{"hero_description": "..."}`)
	return sb.String()
}
