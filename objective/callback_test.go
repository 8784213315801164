package objective_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vishalbelsare/pydl8.5/itemset"
	"github.com/vishalbelsare/pydl8.5/objective"
)

func TestNewExternalRequiresExactlyOneShape(t *testing.T) {
	tids := objective.TidsObjective(func([]int) (float64, int) { return 0, 0 })
	scalar := objective.ScalarObjective(func([]int) float64 { return 0 })

	_, err := objective.NewExternal(nil, nil, nil)
	assert.Error(t, err)
	_, err = objective.NewExternal(tids, nil, scalar)
	assert.Error(t, err)
	_, err = objective.NewExternal(tids, nil, nil)
	assert.NoError(t, err)
}

func TestExternalTidsDispatch(t *testing.T) {
	var got []int
	eval, err := objective.NewExternal(func(tids []int) (float64, int) {
		got = tids
		return 2.5, 1
	}, nil, nil)
	require.NoError(t, err)

	c := testCover(t)
	c.Intersect(itemset.New(0, 1))
	li := eval.LeafInfo(c)
	assert.Equal(t, []int{0, 1}, got)
	assert.Equal(t, 2.5, li.Error)
	assert.Equal(t, 1, li.Class)
}

func TestExternalSupportsDispatch(t *testing.T) {
	eval, err := objective.NewExternal(nil, func(supports []float64) (float64, int) {
		smallest, class := supports[0], 0
		for c, s := range supports {
			if s < smallest {
				smallest, class = s, c
			}
		}
		return smallest, class
	}, nil)
	require.NoError(t, err)

	li := eval.LeafInfo(testCover(t))
	assert.Equal(t, 1.0, li.Error)
	assert.Equal(t, 1, li.Class)

	li = eval.LeafInfoFromSupports([]float64{4, 2, 6})
	assert.Equal(t, 2.0, li.Error)
	assert.Equal(t, 1, li.Class)
}

func TestExternalScalarDispatch(t *testing.T) {
	eval, err := objective.NewExternal(nil, nil, func(tids []int) float64 {
		return float64(len(tids))
	})
	require.NoError(t, err)

	li := eval.LeafInfo(testCover(t))
	assert.Equal(t, 4.0, li.Error)
	assert.Equal(t, objective.NoClass, li.Class)
}

func TestExternalRawCoverageCannotScoreSupports(t *testing.T) {
	eval, err := objective.NewExternal(func([]int) (float64, int) { return 0, 0 }, nil, nil)
	require.NoError(t, err)
	assert.Panics(t, func() { eval.LeafInfoFromSupports([]float64{1, 2}) })
}
