package selection

import (
	"github.com/jonathan/copydesk/internal/types"
)

// SelectWinner returns the index of the highest-scoring variant. Ties break
// to the lowest variant index so reruns over the same scores are reproducible
// regardless of completion order. When every variant failed to generate, the
// first variant is still nominated: a human-editable partial result beats no
// result. Returns -1 only for an empty slice.
func SelectWinner(variants []types.Variant) int {
	if len(variants) == 0 {
		return -1
	}

	winner := 0
	for i := 1; i < len(variants); i++ {
		if variants[i].Score > variants[winner].Score {
			winner = i
		}
	}
	return winner
}
