// Package fuel implements the fuel index effect table.
package fuel

import (
	"fmt"
	"strings"

	"Loadsheet/internal/calc/plf"
)

// Mode selects how quantities between tabulated points are resolved.
type Mode int

const (
	// Nearest uses the value of the closest tabulated quantity.
	Nearest Mode = iota
	// Interpolated interpolates linearly between tabulated quantities.
	Interpolated
)

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nearest":
		return Nearest, nil
	case "interpolate", "interpolated":
		return Interpolated, nil
	}
	return 0, fmt.Errorf("unknown fuel lookup mode %q", s)
}

func (m Mode) String() string {
	if m == Interpolated {
		return "interpolate"
	}
	return "nearest"
}

func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Table maps fuel mass in kg to an index influence.
type Table struct {
	curve *plf.Function
}

func NewTable(points []plf.Point) (*Table, error) {
	curve, err := plf.New(points)
	if err != nil {
		return nil, fmt.Errorf("fuel table: %w", err)
	}
	if curve.MinX() <= 0 {
		return nil, fmt.Errorf("fuel table: %w: quantities should be positive", plf.ErrInvalidCurve)
	}
	return &Table{curve: curve}, nil
}

func (t *Table) MaxFuel() float64    { return t.curve.MaxX() }
func (t *Table) Points() []plf.Point { return t.curve.Points() }

// Influence returns the index effect of fuel kg. Quantities below the first
// tabulated entry resolve to it in Nearest mode and lie on a line from zero
// fuel in Interpolated mode.
func (t *Table) Influence(fuel float64, mode Mode) (float64, error) {
	if fuel < 0 || fuel > t.curve.MaxX() {
		return 0, &plf.DomainError{X: fuel, Min: 0, Max: t.curve.MaxX()}
	}
	if fuel == 0 {
		return 0, nil
	}
	first := t.curve.Points()[0]
	if fuel < first.X {
		if mode == Interpolated {
			return first.Y * fuel / first.X, nil
		}
		return first.Y, nil
	}
	if mode == Interpolated {
		return t.curve.Interpolate(fuel)
	}
	return t.curve.NearestDefined(fuel)
}
