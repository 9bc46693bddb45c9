package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var crj = Constants{RefStation: 13.2, C: 280, K: 50}

func TestNewConstants(t *testing.T) {
	_, err := NewConstants(0, 0, 10)
	assert.ErrorIs(t, err, ErrDegenerateConstants)
	assert.Contains(t, err.Error(), "C constant should be greater than 0")

	_, err = NewConstants(0, -1, 10)
	assert.ErrorIs(t, err, ErrDegenerateConstants)

	_, err = NewConstants(0, 10, -1)
	assert.ErrorIs(t, err, ErrDegenerateConstants)
	assert.Contains(t, err.Error(), "K constant should not be negative")

	c, err := NewConstants(13.2, 280, 50)
	require.NoError(t, err)
	assert.Equal(t, crj, c)
}

func TestFromMoment(t *testing.T) {
	i, err := FromMoment(10, 10, Constants{RefStation: 0, C: 2, K: 10})
	require.NoError(t, err)
	assert.Equal(t, 15.0, i.Value)
	assert.Equal(t, 10.0, i.Weight)
	assert.Equal(t, 10.0, i.Moment())
}

func TestCalc(t *testing.T) {
	i, err := Calc(100, 10, Constants{RefStation: 0, C: 2, K: 50})
	require.NoError(t, err)
	assert.Equal(t, 550.0, i.Value)
	assert.Equal(t, 1000.0, i.Moment())

	_, err = Calc(100, 10, Constants{C: 0})
	assert.ErrorIs(t, err, ErrDegenerateConstants)

	_, err = Calc(-1, 10, crj)
	assert.ErrorIs(t, err, ErrNegativeWeight)
}

func TestAddSub(t *testing.T) {
	a := New(10, 100, crj)
	b := New(2.5, 50, crj)

	sum, err := Add(a, b)
	require.NoError(t, err)
	assert.Equal(t, New(12.5, 150, crj), sum)

	diff, err := Sub(a, b)
	require.NoError(t, err)
	assert.Equal(t, New(7.5, 50, crj), diff)

	other := New(1, 1, Constants{RefStation: 13.2, C: 280, K: 51})
	_, err = Add(a, other)
	assert.ErrorIs(t, err, ErrIncompatibleConstants)
	_, err = Sub(a, other)
	assert.ErrorIs(t, err, ErrIncompatibleConstants)
}

func TestScale(t *testing.T) {
	assert.Equal(t, New(-3, 30, crj), New(-1, 10, crj).Scale(3))
}

func TestCompare(t *testing.T) {
	a := New(60, 100, crj)
	b := New(55, 100, crj)

	c, err := Compare(a, b, CompareStation)
	require.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(b, a, CompareStrict)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(a, a, CompareStrict)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	lt, err := Less(b, a)
	require.NoError(t, err)
	assert.True(t, lt)
	gt, err := Greater(b, a)
	require.NoError(t, err)
	assert.False(t, gt)
	le, _ := LessOrEqual(a, a)
	ge, _ := GreaterOrEqual(a, a)
	eq, _ := Equal(a, a)
	assert.True(t, le)
	assert.True(t, ge)
	assert.True(t, eq)
}

func TestComparePolicies(t *testing.T) {
	a := New(60, 100, crj)
	sameStation := New(60, 100, Constants{RefStation: 13.2, C: 100, K: 10})
	otherStation := New(60, 100, Constants{RefStation: 10, C: 280, K: 50})

	_, err := Compare(a, sameStation, CompareStation)
	assert.NoError(t, err)
	_, err = Compare(a, sameStation, CompareStrict)
	assert.ErrorIs(t, err, ErrIncompatibleConstants)

	_, err = Compare(a, otherStation, CompareStation)
	assert.ErrorIs(t, err, ErrIncompatibleConstants)
	eq, err := Equal(a, otherStation)
	assert.Error(t, err)
	assert.False(t, eq)
}
