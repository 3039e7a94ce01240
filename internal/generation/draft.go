// Package generation issues structured draft calls to the LLM provider and
// converts every failure mode into a typed GenerationError.
package generation

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/copydesk/internal/fields"
	"github.com/jonathan/copydesk/internal/llm"
	"github.com/jonathan/copydesk/internal/types"
)

// Temperatures for the two call kinds: initial drafts favor diversity across
// variants, repair revisions favor determinism over creativity.
const (
	DraftTemperature  float32 = 0.8
	RepairTemperature float32 = 0.2
)

// Generator wraps an LLM client for structured field drafting.
type Generator struct {
	client llm.Client
}

// NewGenerator creates a generator over the given client.
func NewGenerator(client llm.Client) *Generator {
	return &Generator{client: client}
}

// GenerateDraft requests one structured candidate. Provider and parse
// failures are returned as a GenerationError; nothing is thrown past this
// boundary and no shared state is mutated.
func (g *Generator) GenerateDraft(ctx context.Context, spec fields.FieldSpec, system, user string, temperature float32, tier llm.ModelTier, iteration int) (*types.Candidate, *types.GenerationError) {
	raw, err := g.client.GenerateJSON(ctx, system, user, temperature, tier)
	if err != nil {
		return nil, &types.GenerationError{
			Status:  llm.StatusFromError(err),
			Reason:  types.ReasonProviderError,
			Details: err.Error(),
		}
	}

	values, parseErr := parseStructured(raw, spec)
	if parseErr != nil {
		return nil, &types.GenerationError{
			Reason:  types.ReasonParseError,
			Details: parseErr.Error(),
		}
	}

	return &types.Candidate{Fields: values, Iteration: iteration}, nil
}

// parseStructured decodes the provider output into the spec's field values.
// Two-stage parse: strict JSON first, then best-effort extraction of the
// first balanced object-like substring. The decoded object is validated
// against the spec's JSON Schema before field values are accepted.
func parseStructured(raw string, spec fields.FieldSpec) (map[string]string, error) {
	decoded, jsonText, err := decodeObject(raw)
	if err != nil {
		recovered := llm.ExtractJSONObject(raw)
		if recovered == "" {
			return nil, fmt.Errorf("output is not a JSON object: %w", err)
		}
		decoded, jsonText, err = decodeObject(recovered)
		if err != nil {
			return nil, fmt.Errorf("recovered output is not a JSON object: %w", err)
		}
	}

	if err := validateSchema(spec.OutputSchema(), jsonText); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(spec.FieldKeys()))
	for _, key := range spec.FieldKeys() {
		text, ok := decoded[key].(string)
		if !ok {
			return nil, fmt.Errorf("field %q missing or not a string", key)
		}
		values[key] = text
	}
	return values, nil
}

// decodeObject parses text as a JSON object, returning both the decoded map
// and the exact text that parsed (for schema validation).
func decodeObject(text string) (map[string]any, string, error) {
	var decoded map[string]any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return nil, "", err
	}
	return decoded, text, nil
}

// validateSchema checks the JSON document against the spec's output schema.
func validateSchema(schema, document string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed to run: %w", err)
	}
	if result.Valid() {
		return nil
	}

	desc := "output does not match schema"
	if errs := result.Errors(); len(errs) > 0 {
		desc = fmt.Sprintf("output does not match schema: %s: %s", errs[0].Field(), errs[0].Description())
	}
	return fmt.Errorf("%s", desc)
}
