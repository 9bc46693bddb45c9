package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loadsheet/internal/calc/plf"
)

var (
	zfwFwd = []plf.Point{{X: 13608, Y: 34.45}, {X: 14515, Y: 33.22}, {X: 15190, Y: 30.14}, {X: 19958, Y: 22.82}}
	zfwAft = []plf.Point{{X: 13608, Y: 57.31}, {X: 15422, Y: 58.28}, {X: 16329, Y: 63.19}, {X: 19958, Y: 66.12}}
)

func zfw(t *testing.T) *Envelope {
	t.Helper()
	e, err := FromPoints(zfwFwd, zfwAft)
	require.NoError(t, err)
	return e
}

func TestNewValidates(t *testing.T) {
	_, err := FromPoints(zfwFwd, []plf.Point{{X: 13000, Y: 57}, {X: 19958, Y: 66}})
	assert.ErrorIs(t, err, ErrDomainMismatch)

	_, err = FromPoints(
		[]plf.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		[]plf.Point{{X: 0, Y: 10}, {X: 10, Y: 0}},
	)
	assert.ErrorIs(t, err, ErrOverlappingBounds)

	_, err = FromPoints(zfwAft, zfwFwd)
	assert.ErrorIs(t, err, ErrOrder)

	_, err = FromPoints(nil, zfwAft)
	assert.ErrorIs(t, err, plf.ErrInvalidCurve)
}

func TestContains(t *testing.T) {
	e := zfw(t)
	assert.True(t, e.Contains(29.84, 17841))
	assert.False(t, e.Contains(29.84, 20000))
	assert.False(t, e.Contains(33, 14500))
	assert.False(t, e.Contains(59, 15400))
}

func TestExceeds(t *testing.T) {
	e := zfw(t)

	assert.False(t, e.ExceedsForward(29.84, 17841))
	assert.False(t, e.ExceedsAft(29.84, 17841))

	assert.True(t, e.ExceedsForward(33, 14500))
	assert.False(t, e.ExceedsAft(33, 14500))

	assert.True(t, e.ExceedsAft(59, 15400))
	assert.False(t, e.ExceedsForward(59, 15400))
}

func TestOutOfWeightRangeIsAlwaysAViolation(t *testing.T) {
	e := zfw(t)
	for _, w := range []float64{13607, 20000} {
		assert.False(t, e.Contains(45, w))
		assert.True(t, e.ExceedsForward(45, w))
		assert.True(t, e.ExceedsAft(45, w))
		_, _, ok := e.LimitRange(w)
		assert.False(t, ok)
	}
}

func TestLimitRange(t *testing.T) {
	e := zfw(t)
	fwd, aft, ok := e.LimitRange(13608)
	require.True(t, ok)
	assert.Equal(t, 34.45, fwd)
	assert.Equal(t, 57.31, aft)

	fwd, aft, ok = e.LimitRange(19958)
	require.True(t, ok)
	assert.Equal(t, 22.82, fwd)
	assert.Equal(t, 66.12, aft)
}

func TestCut(t *testing.T) {
	e := zfw(t)
	c, err := e.Cut(14000, 18000)
	require.NoError(t, err)
	assert.Equal(t, 14000.0, c.MinWeight())
	assert.Equal(t, 18000.0, c.MaxWeight())
	assert.True(t, c.Contains(29.84, 17841))
	assert.False(t, c.Contains(29.84, 18500))

	fwd, _, ok := c.LimitRange(15190)
	require.True(t, ok)
	assert.Equal(t, 30.14, fwd)

	_, err = e.Cut(20000, 21000)
	assert.ErrorIs(t, err, plf.ErrInvalidRange)
}
