// Package settings resolves the editorial configuration a generation run operates under.
package settings

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/copydesk/internal/types"
)

// KeywordPolicy declares the site-wide phrase policy applied to generated copy.
type KeywordPolicy struct {
	IncludeAlways    []string `json:"include_always,omitempty"`
	IncludePreferred []string `json:"include_preferred,omitempty"`
	Avoid            []string `json:"avoid,omitempty"`
}

// LengthTarget is the configured length band for one generated field.
// Zero Min or Max leaves that bound unenforced.
type LengthTarget struct {
	Unit types.LengthUnit `json:"unit"`
	Min  int              `json:"min,omitempty"`
	Max  int              `json:"max,omitempty"`
}

// Rule converts the target into an evaluator length rule, or nil when the
// target is entirely unset.
func (t LengthTarget) Rule() *types.LengthRule {
	if t.Unit == "" && t.Min == 0 && t.Max == 0 {
		return nil
	}
	unit := t.Unit
	if unit == "" {
		unit = types.UnitWords
	}
	rule := &types.LengthRule{Unit: unit}
	if t.Min > 0 {
		rule.Min = types.IntPtr(t.Min)
	}
	if t.Max > 0 {
		rule.Max = types.IntPtr(t.Max)
	}
	return rule
}

// Settings is the merged editorial configuration for a run.
type Settings struct {
	SystemInstructions string                  `json:"system_instructions"`
	BrandVoice         string                  `json:"brand_voice,omitempty"`
	Model              string                  `json:"model,omitempty"`
	KeywordPolicy      KeywordPolicy           `json:"keyword_policy"`
	LengthTargets      map[string]LengthTarget `json:"length_targets,omitempty"`
}

// Validate enforces the no-implicit-fallback policy: a run without system
// instructions must refuse to start rather than generate unguarded copy.
func (s *Settings) Validate() error {
	if s == nil || s.SystemInstructions == "" {
		return &types.ConfigurationError{Missing: "system_instructions"}
	}
	return nil
}

// LengthTarget returns the configured target for a field key, if any.
func (s *Settings) LengthTarget(field string) (LengthTarget, bool) {
	t, ok := s.LengthTargets[field]
	return t, ok
}

// Provider supplies resolved settings. The core never reads configuration
// storage directly; callers inject a provider.
type Provider interface {
	Resolve() (*Settings, error)
}

// Static wraps an in-memory Settings value as a Provider.
type Static struct {
	Settings *Settings
}

// Resolve returns the wrapped settings.
func (p Static) Resolve() (*Settings, error) {
	if p.Settings == nil {
		return nil, fmt.Errorf("static settings provider has no settings")
	}
	return p.Settings, nil
}

// FileProvider loads settings from a JSON file on each resolve, so edits to
// the file take effect without a restart.
type FileProvider struct {
	Path string
}

// Resolve reads and parses the settings file.
func (p FileProvider) Resolve() (*Settings, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", p.Path, err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings JSON: %w", err)
	}
	return &s, nil
}
