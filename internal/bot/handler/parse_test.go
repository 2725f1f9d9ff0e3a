package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeyoh/moneyball/internal/model"
)

func TestApplyMetaOverrides(t *testing.T) {
	meta, err := applyMetaOverrides(model.DefaultBaseballMeta(),
		[]string{"dup=t", "MAX=5", "digit=3", "limit=10"})
	require.NoError(t, err)

	assert.True(t, meta.AllowDuplicates)
	assert.Equal(t, 5, meta.MaxNum)
	assert.Equal(t, 3, meta.Digits)
	assert.Equal(t, 10, meta.TrialLimit)
}

func TestApplyMetaOverridesKeepsUntouchedFields(t *testing.T) {
	meta, err := applyMetaOverrides(model.MastermindMeta(), []string{"limit=20"})
	require.NoError(t, err)

	assert.True(t, meta.AllowDuplicates)
	assert.Equal(t, 5, meta.MaxNum)
	assert.Equal(t, 20, meta.TrialLimit)
}

func TestApplyMetaOverridesErrors(t *testing.T) {
	cases := [][]string{
		{"dup"},
		{"dup=yes"},
		{"max=five"},
		{"digit=x"},
		{"limit=soon"},
		{"colour=red"},
	}
	for _, args := range cases {
		_, err := applyMetaOverrides(model.DefaultBaseballMeta(), args)
		require.Error(t, err, "%v", args)
		assert.True(t, model.IsValidation(err), "%v", args)
	}
}

func TestParseDice(t *testing.T) {
	count, sides, err := parseDice("2d6")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 6, sides)

	count, sides, err = parseDice("1D20")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 20, sides)

	for _, spec := range []string{"", "d6", "2d", "0d6", "2d1", "101d6", "-1d6"} {
		_, _, err := parseDice(spec)
		assert.Error(t, err, "spec %q", spec)
	}
}
