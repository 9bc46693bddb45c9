package fuel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Loadsheet/internal/calc/plf"
)

func crj200(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable([]plf.Point{
		{X: 200, Y: -0.83}, {X: 400, Y: -1.56}, {X: 600, Y: -2.22}, {X: 3000, Y: -6.32},
		{X: 3200, Y: -6.31}, {X: 6200, Y: -15.98}, {X: 6400, Y: -17.28}, {X: 6488, Y: -17.91},
	})
	require.NoError(t, err)
	return tbl
}

func TestInfluenceNearest(t *testing.T) {
	tbl := crj200(t)
	tests := []struct {
		fuel, want float64
	}{
		{3000, -6.32},
		{6299, -15.98},
		{6301, -17.28},
		{6300, -17.28},
		{6488, -17.91},
		{100, -0.83},
		{0, 0},
	}
	for _, tt := range tests {
		got, err := tbl.Influence(tt.fuel, Nearest)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "fuel %g", tt.fuel)
	}
}

func TestInfluenceInterpolated(t *testing.T) {
	tbl := crj200(t)

	got, err := tbl.Influence(3000, Interpolated)
	require.NoError(t, err)
	assert.Equal(t, -6.32, got)

	got, err = tbl.Influence(6300, Interpolated)
	require.NoError(t, err)
	assert.InDelta(t, -16.63, got, 1e-9)

	got, err = tbl.Influence(100, Interpolated)
	require.NoError(t, err)
	assert.InDelta(t, -0.415, got, 1e-9)
}

func TestInfluenceOutOfDomain(t *testing.T) {
	tbl := crj200(t)
	for _, mode := range []Mode{Nearest, Interpolated} {
		_, err := tbl.Influence(6500, mode)
		assert.ErrorIs(t, err, plf.ErrOutOfDomain)
		_, err = tbl.Influence(-1, mode)
		assert.ErrorIs(t, err, plf.ErrOutOfDomain)
	}
	assert.Equal(t, 6488.0, tbl.MaxFuel())
}

func TestNewTableRejectsNonPositiveQuantities(t *testing.T) {
	_, err := NewTable([]plf.Point{{X: 0, Y: 0}, {X: 200, Y: -1}})
	assert.ErrorIs(t, err, plf.ErrInvalidCurve)
	_, err = NewTable(nil)
	assert.ErrorIs(t, err, plf.ErrInvalidCurve)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("interpolate")
	require.NoError(t, err)
	assert.Equal(t, Interpolated, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Nearest, m)

	_, err = ParseMode("cubic")
	assert.Error(t, err)

	var back Mode
	text, _ := Interpolated.MarshalText()
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, Interpolated, back)
}
