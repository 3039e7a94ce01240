package types

import "fmt"

// Generation failure reasons
const (
	// ReasonProviderError marks transport, auth, or rate-limit failures from the LLM provider
	ReasonProviderError = "provider_error"
	// ReasonParseError marks provider output that is not valid structured JSON even after recovery
	ReasonParseError = "parse_error"
)

// GenerationError is a typed, non-fatal failure from the draft generator.
// It is recorded on the variant and in the timeline; it never aborts a run.
type GenerationError struct {
	Status  int    `json:"status,omitempty"`
	Reason  string `json:"reason"`
	Details string `json:"details,omitempty"`
}

func (e *GenerationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("generation failed (%s, status %d): %s", e.Reason, e.Status, e.Details)
	}
	return fmt.Sprintf("generation failed (%s): %s", e.Reason, e.Details)
}

// ConfigurationError indicates required settings are absent.
// Unlike GenerationError it is fatal: the run refuses to start rather than
// proceeding without guardrails.
type ConfigurationError struct {
	Missing string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is required but not set", e.Missing)
}
