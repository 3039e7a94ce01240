package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/copydesk/internal/types"
)

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int
	}{
		{
			name:     "Simple sentence",
			value:    "We build fast reliable software",
			expected: 5,
		},
		{
			name:     "Empty string",
			value:    "",
			expected: 0,
		},
		{
			name:     "Whitespace only",
			value:    "   \t\n  ",
			expected: 0,
		},
		{
			name:     "Punctuation-only tokens do not count",
			value:    "hello - world --",
			expected: 2,
		},
		{
			name:     "Numbers count as words",
			value:    "Founded in 2012",
			expected: 3,
		},
		{
			name:     "Hyphenated word is one token",
			value:    "state-of-the-art tooling",
			expected: 2,
		},
		{
			name:     "Leading and trailing whitespace",
			value:    "  two words  ",
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CountWords(tt.value))
		})
	}
}

func TestEvaluateLengthWords(t *testing.T) {
	rule := &types.LengthRule{
		Unit: types.UnitWords,
		Min:  types.IntPtr(10),
		Max:  types.IntPtr(25),
	}

	tests := []struct {
		name     string
		words    int
		expected bool
	}{
		{"One below minimum fails", 9, false},
		{"Exactly minimum passes", 10, true},
		{"Middle of band passes", 17, true},
		{"Exactly maximum passes", 25, true},
		{"One above maximum fails", 26, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value := ""
			for i := 0; i < tt.words; i++ {
				value += "word "
			}

			result := evaluateLength(value, rule)
			assert.Equal(t, tt.words, result.Measured)
			assert.Equal(t, tt.expected, result.Pass)
		})
	}
}

func TestEvaluateLengthCharacters(t *testing.T) {
	rule := &types.LengthRule{
		Unit: types.UnitCharacters,
		Min:  types.IntPtr(5),
		Max:  types.IntPtr(10),
	}

	tests := []struct {
		name     string
		value    string
		measured int
		expected bool
	}{
		{"Within band", "seven77", 7, true},
		{"Surrounding whitespace is trimmed", "  seven77  ", 7, true},
		{"Too short", "four", 4, false},
		{"Too long", "elevenchars", 11, false},
		{"Multibyte runes count once", "héllo wörld", 11, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluateLength(tt.value, rule)
			assert.Equal(t, tt.measured, result.Measured)
			assert.Equal(t, tt.expected, result.Pass)
		})
	}
}

func TestEvaluateLengthOneSidedBounds(t *testing.T) {
	t.Run("Only minimum", func(t *testing.T) {
		rule := &types.LengthRule{Unit: types.UnitWords, Min: types.IntPtr(3)}
		assert.True(t, evaluateLength("one two three four", rule).Pass)
		assert.False(t, evaluateLength("one two", rule).Pass)
	})

	t.Run("Only maximum", func(t *testing.T) {
		rule := &types.LengthRule{Unit: types.UnitWords, Max: types.IntPtr(2)}
		assert.True(t, evaluateLength("one two", rule).Pass)
		assert.False(t, evaluateLength("one two three", rule).Pass)
	})

	t.Run("No bounds always passes", func(t *testing.T) {
		rule := &types.LengthRule{Unit: types.UnitWords}
		assert.True(t, evaluateLength("", rule).Pass)
	})
}

func TestEvaluateInclusion(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required []string
		pass     bool
		missing  []string
	}{
		{
			name:     "All phrases present",
			value:    "Acme Cloud keeps your data safe",
			required: []string{"Acme Cloud", "data"},
			pass:     true,
			missing:  []string{},
		},
		{
			name:     "Match is case-insensitive",
			value:    "try ACME CLOUD today",
			required: []string{"Acme Cloud"},
			pass:     true,
			missing:  []string{},
		},
		{
			name:     "Missing phrase reported verbatim",
			value:    "a generic tagline",
			required: []string{"Acme Cloud"},
			pass:     false,
			missing:  []string{"Acme Cloud"},
		},
		{
			name:     "Empty phrases are skipped",
			value:    "anything",
			required: []string{"", "  "},
			pass:     true,
			missing:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluateInclusion(tt.value, tt.required)
			assert.Equal(t, tt.pass, result.Pass)
			assert.Equal(t, tt.missing, result.Missing)
		})
	}
}

func TestEvaluateExclusion(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		banned     []string
		pass       bool
		violations []string
	}{
		{
			name:       "No banned phrases present",
			value:      "straightforward copy",
			banned:     []string{"world-class", "synergy"},
			pass:       true,
			violations: []string{},
		},
		{
			name:       "Banned phrase found case-insensitively",
			value:      "our World-Class platform",
			banned:     []string{"world-class"},
			pass:       false,
			violations: []string{"world-class"},
		},
		{
			name:       "Multiple violations reported",
			value:      "world-class synergy at scale",
			banned:     []string{"world-class", "synergy"},
			pass:       false,
			violations: []string{"world-class", "synergy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := evaluateExclusion(tt.value, tt.banned)
			assert.Equal(t, tt.pass, result.Pass)
			assert.Equal(t, tt.violations, result.Violations)
		})
	}
}

func TestEvaluateReportsAllFailuresAtOnce(t *testing.T) {
	constraints := map[string]types.ConstraintSet{
		"hero_description": {
			Length:      &types.LengthRule{Unit: types.UnitWords, Min: types.IntPtr(10), Max: types.IntPtr(25)},
			MustInclude: []string{"Acme Cloud"},
			MustExclude: []string{"synergy"},
		},
	}
	fields := map[string]string{
		"hero_description": "pure synergy",
	}

	report := Evaluate(fields, constraints)

	require.Len(t, report.Fields, 1)
	fr := report.Fields[0]
	assert.False(t, report.OverallPass)
	assert.False(t, fr.Pass)

	require.NotNil(t, fr.Length)
	assert.False(t, fr.Length.Pass)
	require.NotNil(t, fr.Inclusion)
	assert.Equal(t, []string{"Acme Cloud"}, fr.Inclusion.Missing)
	require.NotNil(t, fr.Exclusion)
	assert.Equal(t, []string{"synergy"}, fr.Exclusion.Violations)
}

func TestEvaluateMultiFieldSortedAndIndependent(t *testing.T) {
	constraints := map[string]types.ConstraintSet{
		"seo_title": {
			Length: &types.LengthRule{Unit: types.UnitCharacters, Min: types.IntPtr(50), Max: types.IntPtr(60)},
		},
		"seo_description": {
			Length: &types.LengthRule{Unit: types.UnitCharacters, Min: types.IntPtr(120), Max: types.IntPtr(160)},
		},
	}
	fields := map[string]string{
		"seo_title":       "short",
		"seo_description": "This description sits comfortably inside its configured character band and should pass the length check without any trouble at all.",
	}

	report := Evaluate(fields, constraints)

	require.Len(t, report.Fields, 2)
	// Sorted key order keeps reports deterministic
	assert.Equal(t, "seo_description", report.Fields[0].Field)
	assert.Equal(t, "seo_title", report.Fields[1].Field)

	assert.True(t, report.Fields[0].Pass)
	assert.False(t, report.Fields[1].Pass)
	assert.False(t, report.OverallPass)
}

func TestEvaluateAbsentRulesPass(t *testing.T) {
	report := Evaluate(map[string]string{"hero_description": "anything at all"},
		map[string]types.ConstraintSet{"hero_description": {}})

	require.Len(t, report.Fields, 1)
	assert.True(t, report.OverallPass)
	assert.True(t, report.Fields[0].Pass)
	assert.Nil(t, report.Fields[0].Length)
	assert.Nil(t, report.Fields[0].Inclusion)
	assert.Nil(t, report.Fields[0].Exclusion)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	constraints := map[string]types.ConstraintSet{
		"hero_description": {
			Length:      &types.LengthRule{Unit: types.UnitWords, Min: types.IntPtr(2), Max: types.IntPtr(4)},
			MustInclude: []string{"Acme"},
		},
	}
	fields := map[string]string{"hero_description": "Acme builds software"}

	first := Evaluate(fields, constraints)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(fields, constraints))
	}
}
