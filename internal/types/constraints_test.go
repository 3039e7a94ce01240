package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstraintSetIsZero(t *testing.T) {
	assert.True(t, ConstraintSet{}.IsZero())
	assert.False(t, ConstraintSet{Length: &LengthRule{Unit: UnitWords}}.IsZero())
	assert.False(t, ConstraintSet{MustInclude: []string{"Acme"}}.IsZero())
	assert.False(t, ConstraintSet{MustExclude: []string{"synergy"}}.IsZero())
}

func TestConstraintSetMerge(t *testing.T) {
	base := ConstraintSet{
		Length:      &LengthRule{Unit: UnitWords, Min: IntPtr(10), Max: IntPtr(25)},
		MustInclude: []string{"Acme Cloud"},
		MustExclude: []string{"synergy"},
	}

	t.Run("Empty override changes nothing", func(t *testing.T) {
		merged := base.Merge(ConstraintSet{})
		assert.Equal(t, base, merged)
	})

	t.Run("Length replaces as a unit", func(t *testing.T) {
		merged := base.Merge(ConstraintSet{
			Length: &LengthRule{Unit: UnitCharacters, Max: IntPtr(80)},
		})

		require.NotNil(t, merged.Length)
		assert.Equal(t, UnitCharacters, merged.Length.Unit)
		assert.Nil(t, merged.Length.Min)
		assert.Equal(t, 80, *merged.Length.Max)
		// Untouched rules survive
		assert.Equal(t, []string{"Acme Cloud"}, merged.MustInclude)
	})

	t.Run("Phrase lists replace wholesale", func(t *testing.T) {
		merged := base.Merge(ConstraintSet{MustInclude: []string{"Acme Cloud", "billing"}})

		assert.Equal(t, []string{"Acme Cloud", "billing"}, merged.MustInclude)
		assert.Equal(t, []string{"synergy"}, merged.MustExclude)
	})

	t.Run("Empty non-nil list clears the rule", func(t *testing.T) {
		merged := base.Merge(ConstraintSet{MustExclude: []string{}})
		assert.Empty(t, merged.MustExclude)
	})

	t.Run("Merge does not mutate the receiver", func(t *testing.T) {
		base.Merge(ConstraintSet{
			Length:      &LengthRule{Unit: UnitCharacters},
			MustInclude: []string{"other"},
		})

		assert.Equal(t, UnitWords, base.Length.Unit)
		assert.Equal(t, []string{"Acme Cloud"}, base.MustInclude)
	})
}

func TestIntPtr(t *testing.T) {
	p := IntPtr(7)
	require.NotNil(t, p)
	assert.Equal(t, 7, *p)
}
