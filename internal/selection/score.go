// Package selection scores finished variants and picks the run winner.
package selection

import (
	"github.com/jonathan/copydesk/internal/types"
)

// Scoring weights. The exact values are tunable; the load-bearing property is
// ordering: a fully-compliant variant must always outscore any non-compliant
// one, so partial credit is capped strictly below PassBonus and the proximity
// bonus only applies to compliant variants.
const (
	// FailureScore marks a variant whose generation never produced output
	FailureScore = -1.0
	// PassBonus is granted when every configured rule passes
	PassBonus = 1000.0
	// CategoryBonus is granted per individually-passing rule category when
	// the overall evaluation fails, so partial progress stays orderable
	CategoryBonus = 100.0
	// partialCreditCap keeps summed category bonuses below PassBonus
	partialCreditCap = PassBonus - CategoryBonus
	// ProximityBonusMax caps the compliant-variant refinement for landing
	// near the center of the allowed length band
	ProximityBonusMax = 250.0
)

// Score converts a compliance report into a scalar. Nil reports (generation
// failures) score the failure sentinel.
func Score(report *types.ComplianceReport) float64 {
	if report == nil {
		return FailureScore
	}

	if report.OverallPass {
		return PassBonus + proximityBonus(report)
	}

	partial := CategoryBonus * float64(passingCategories(report))
	if partial > partialCreditCap {
		partial = partialCreditCap
	}
	return partial
}

// passingCategories counts configured rule categories that individually pass.
func passingCategories(report *types.ComplianceReport) int {
	count := 0
	for _, field := range report.Fields {
		if field.Length != nil && field.Length.Pass {
			count++
		}
		if field.Inclusion != nil && field.Inclusion.Pass {
			count++
		}
		if field.Exclusion != nil && field.Exclusion.Pass {
			count++
		}
	}
	return count
}

// proximityBonus rewards compliant variants whose measured lengths sit close
// to the midpoint of their allowed band. Fields without a two-sided band
// contribute nothing; the total never exceeds ProximityBonusMax.
func proximityBonus(report *types.ComplianceReport) float64 {
	banded := 0
	for _, field := range report.Fields {
		if hasBand(field.Length) {
			banded++
		}
	}
	if banded == 0 {
		return 0
	}

	share := ProximityBonusMax / float64(banded)
	bonus := 0.0
	for _, field := range report.Fields {
		lr := field.Length
		if !hasBand(lr) {
			continue
		}

		mid := float64(*lr.Min+*lr.Max) / 2
		halfWidth := float64(*lr.Max-*lr.Min) / 2
		if halfWidth == 0 {
			bonus += share
			continue
		}

		distance := float64(lr.Measured) - mid
		if distance < 0 {
			distance = -distance
		}
		if distance > halfWidth {
			distance = halfWidth
		}
		bonus += share * (1 - distance/halfWidth)
	}
	return bonus
}

func hasBand(lr *types.LengthResult) bool {
	return lr != nil && lr.Pass && lr.Min != nil && lr.Max != nil
}
