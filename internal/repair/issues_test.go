package repair

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/copydesk/internal/types"
)

func TestBuildIssueList(t *testing.T) {
	tests := []struct {
		name     string
		report   *types.ComplianceReport
		expected []string
	}{
		{
			name:     "Nil report yields no issues",
			report:   nil,
			expected: nil,
		},
		{
			name: "Passing fields are skipped",
			report: &types.ComplianceReport{
				OverallPass: true,
				Fields: []types.FieldReport{
					{Field: "hero_description", Pass: true},
				},
			},
			expected: nil,
		},
		{
			name: "Length failure with both bounds",
			report: &types.ComplianceReport{
				Fields: []types.FieldReport{
					{
						Field: "hero_description",
						Length: &types.LengthResult{
							Unit:     types.UnitWords,
							Measured: 31,
							Min:      types.IntPtr(10),
							Max:      types.IntPtr(25),
						},
					},
				},
			},
			expected: []string{
				`"hero_description" length must be between 10 and 25 words; current 31 words.`,
			},
		},
		{
			name: "Missing and banned phrases",
			report: &types.ComplianceReport{
				Fields: []types.FieldReport{
					{
						Field:     "seo_description",
						Inclusion: &types.InclusionResult{Missing: []string{"Acme Cloud"}},
						Exclusion: &types.ExclusionResult{Violations: []string{"synergy"}},
					},
				},
			},
			expected: []string{
				`"seo_description" is missing required phrase(s): "Acme Cloud".`,
				`Remove banned phrase(s) from "seo_description": "synergy".`,
			},
		},
		{
			name: "One-sided maximum bound",
			report: &types.ComplianceReport{
				Fields: []types.FieldReport{
					{
						Field: "seo_title",
						Length: &types.LengthResult{
							Unit:     types.UnitCharacters,
							Measured: 72,
							Max:      types.IntPtr(60),
						},
					},
				},
			},
			expected: []string{
				`"seo_title" length must be at most 60 characters; current 72 characters.`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BuildIssueList(tt.report))
		})
	}
}
