// Package types defines the shared data model for constrained copy generation.
package types

// LengthUnit selects how a length rule measures a candidate value.
type LengthUnit string

// Supported length units
const (
	// UnitWords counts whitespace-delimited tokens containing at least one letter or digit
	UnitWords LengthUnit = "words"
	// UnitCharacters counts characters of the trimmed value
	UnitCharacters LengthUnit = "characters"
)

// LengthRule bounds the measured length of a generated value.
// Nil Min or Max means the corresponding bound is not enforced.
type LengthRule struct {
	Unit LengthUnit `json:"unit"`
	Min  *int       `json:"min,omitempty"`
	Max  *int       `json:"max,omitempty"`
}

// ConstraintSet holds the declarative rules one generated field value must satisfy.
// It is computed once per run, before any variant is generated, and never mutated afterwards.
type ConstraintSet struct {
	Length      *LengthRule `json:"length,omitempty"`
	MustInclude []string    `json:"must_include,omitempty"`
	MustExclude []string    `json:"must_exclude,omitempty"`
}

// IsZero reports whether no rule is configured at all.
func (c ConstraintSet) IsZero() bool {
	return c.Length == nil && len(c.MustInclude) == 0 && len(c.MustExclude) == 0
}

// Merge returns a copy of c with the non-empty parts of override applied.
// The length rule replaces as a unit, and phrase lists replace wholesale
// rather than concatenating.
func (c ConstraintSet) Merge(override ConstraintSet) ConstraintSet {
	merged := c
	if override.Length != nil {
		rule := *override.Length
		merged.Length = &rule
	}
	if override.MustInclude != nil {
		merged.MustInclude = append([]string(nil), override.MustInclude...)
	}
	if override.MustExclude != nil {
		merged.MustExclude = append([]string(nil), override.MustExclude...)
	}
	return merged
}

// ConstraintOverrides carries per-field constraint overrides supplied by the caller.
type ConstraintOverrides struct {
	Fields map[string]ConstraintSet `json:"fields,omitempty"`
}

// IntPtr returns a pointer to v, for building length bounds inline.
func IntPtr(v int) *int {
	return &v
}
