package plf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustNew(t *testing.T, points ...Point) *Function {
	t.Helper()
	f, err := New(points)
	require.NoError(t, err)
	return f
}

func sample(t *testing.T) *Function {
	return mustNew(t, Point{2, 20}, Point{3, 30}, Point{-1, 10})
}

func TestNewSortsPoints(t *testing.T) {
	f := sample(t)
	assert.Equal(t, []Point{{-1, 10}, {2, 20}, {3, 30}}, f.Points())
	assert.Equal(t, -1.0, f.MinX())
	assert.Equal(t, 3.0, f.MaxX())
	assert.Equal(t, 10.0, f.MinY())
	assert.Equal(t, 30.0, f.MaxY())
	assert.Equal(t, 3, f.Len())
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrInvalidCurve)

	_, err = New([]Point{{1, 10}, {1, 20}})
	assert.ErrorIs(t, err, ErrInvalidCurve)

	_, err = New([]Point{{math.NaN(), 1}})
	assert.ErrorIs(t, err, ErrInvalidCurve)
}

func TestNewCopiesInput(t *testing.T) {
	points := []Point{{0, 0}, {1, 1}}
	f := mustNew(t, points...)
	points[0].Y = 100
	v, err := f.Interpolate(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestContains(t *testing.T) {
	f := sample(t)
	assert.False(t, f.Contains(-2))
	assert.False(t, f.Contains(4))
	assert.True(t, f.Contains(-1))
	assert.True(t, f.Contains(3))
}

func TestInterpolate(t *testing.T) {
	f := sample(t)
	for i := 20; i <= 30; i++ {
		x := float64(i) / 10
		got, err := f.Interpolate(x)
		require.NoError(t, err)
		assert.InDelta(t, x*10, got, 1e-9, "x=%g", x)
	}
}

func TestInterpolateExactAtDefinedPoints(t *testing.T) {
	f := mustNew(t, Point{200, -0.83}, Point{400, -1.56}, Point{4255, -5.47})
	for _, p := range f.Points() {
		got, err := f.Interpolate(p.X)
		require.NoError(t, err)
		assert.Equal(t, p.Y, got)
	}
}

func TestInterpolateMonotonicBetweenPoints(t *testing.T) {
	f := mustNew(t, Point{0, 0}, Point{10, 5}, Point{20, -5})
	prev, _ := f.Interpolate(0)
	for x := 0.5; x <= 10; x += 0.5 {
		v, err := f.Interpolate(x)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
	for x := 10.5; x <= 20; x += 0.5 {
		v, err := f.Interpolate(x)
		require.NoError(t, err)
		assert.LessOrEqual(t, v, prev)
		prev = v
	}
}

func TestInterpolateOutOfDomain(t *testing.T) {
	f := sample(t)
	_, err := f.Interpolate(-1.5)
	assert.ErrorIs(t, err, ErrOutOfDomain)

	var derr *DomainError
	_, err = f.Interpolate(3.5)
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, 3.5, derr.X)
	assert.Equal(t, -1.0, derr.Min)
	assert.Equal(t, 3.0, derr.Max)
}

func TestInterpolateSinglePoint(t *testing.T) {
	f := mustNew(t, Point{5, 42})
	v, err := f.Interpolate(5)
	require.NoError(t, err)
	assert.Equal(t, 42.0, v)
	_, err = f.Interpolate(5.1)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}

func TestNearestDefined(t *testing.T) {
	f := sample(t)
	tests := []struct {
		x    float64
		want float64
	}{
		{2.0, 20},
		{2.2, 20},
		{2.4, 20},
		{2.5, 30},
		{2.6, 30},
		{3.0, 30},
		{0, 10},
		{1, 20},
	}
	for _, tt := range tests {
		got, err := f.NearestDefined(tt.x)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "x=%g", tt.x)
	}
}

func TestNearestDefinedTieLargerMagnitudeWins(t *testing.T) {
	f := mustNew(t, Point{6200, -15.98}, Point{6400, -17.28})
	got, err := f.NearestDefined(6300)
	require.NoError(t, err)
	assert.Equal(t, -17.28, got)

	g := mustNew(t, Point{0, -8}, Point{2, 3})
	got, err = g.NearestDefined(1)
	require.NoError(t, err)
	assert.Equal(t, -8.0, got)

	h := mustNew(t, Point{0, -3}, Point{2, 3})
	got, err = h.NearestDefined(1)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestNearestDefinedOutOfDomain(t *testing.T) {
	_, err := sample(t).NearestDefined(10)
	assert.ErrorIs(t, err, ErrOutOfDomain)
}

func TestCut(t *testing.T) {
	f := mustNew(t, Point{0, 0}, Point{10, 10}, Point{20, 0})

	g, err := f.Cut(5, 15)
	require.NoError(t, err)
	assert.Equal(t, []Point{{5, 5}, {10, 10}, {15, 5}}, g.Points())

	g, err = f.Cut(math.Inf(-1), 10)
	require.NoError(t, err)
	assert.Equal(t, []Point{{0, 0}, {10, 10}}, g.Points())

	g, err = f.Cut(-100, 100)
	require.NoError(t, err)
	assert.Equal(t, f.Points(), g.Points())

	g, err = f.Cut(5, 5)
	require.NoError(t, err)
	assert.Equal(t, []Point{{5, 5}}, g.Points())

	_, err = f.Cut(15, 5)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = f.Cut(30, 40)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b []Point
		want bool
	}{
		{"crossing", []Point{{0, 0}, {1, 1}}, []Point{{1, 0}, {0, 1}}, true},
		{"touching", []Point{{0, 0}, {1, 1}}, []Point{{0, 0}, {1, 10}}, true},
		{"disjoint below", []Point{{0, 0}, {1, 1}}, []Point{{-1, 0}, {-2, 1}}, false},
		{"disjoint above", []Point{{0, 0}, {1, 1}}, []Point{{2, 0}, {3, 1}}, false},
		{"inner crossing", []Point{{0, 0}, {1, 5}, {2, 5}, {10, 100}}, []Point{{1.1, 4}, {1.8, 6}}, true},
		{"parallel", []Point{{0, 0}, {10, 10}}, []Point{{0, 1}, {10, 11}}, false},
		{"shared endpoint same value", []Point{{0, 0}, {1, 1}}, []Point{{1, 1}, {2, 0}}, true},
		{"shared endpoint other value", []Point{{0, 0}, {1, 1}}, []Point{{1, 2}, {2, 0}}, false},
		{
			"cg envelope",
			[]Point{{13608, 34.45}, {14515, 33.22}, {15190, 30.14}, {19958, 22.82}},
			[]Point{{13608, 57.31}, {15422, 58.28}, {16329, 63.19}, {19958, 66.12}},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustNew(t, tt.a...)
			b := mustNew(t, tt.b...)
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestFromMap(t *testing.T) {
	f, err := FromMap(map[float64]float64{35: 4, 8.8: 8.15})
	require.NoError(t, err)
	assert.Equal(t, 8.8, f.MinX())
	assert.Equal(t, 35.0, f.MaxX())
}
