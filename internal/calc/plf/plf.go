// Package plf implements piecewise linear functions used for every lookup
// curve of the weight and balance engine: fuel index effect, stab trim
// schedule and CG envelope boundaries.
package plf

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var (
	ErrInvalidCurve = errors.New("invalid curve")
	ErrOutOfDomain  = errors.New("x out of domain")
	ErrInvalidRange = errors.New("invalid cutting range")
)

// DomainError reports a lookup outside of [Min, Max].
type DomainError struct {
	X, Min, Max float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("x should be in range %g - %g, got %g", e.Min, e.Max, e.X)
}

func (e *DomainError) Is(target error) bool { return target == ErrOutOfDomain }

type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Function is an immutable piecewise linear function. The zero value is not
// usable, construct it with New.
type Function struct {
	xs []float64
	ys []float64
}

func New(points []Point) (*Function, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: at least one point is required", ErrInvalidCurve)
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].X < sorted[j].X })

	f := &Function{
		xs: make([]float64, len(sorted)),
		ys: make([]float64, len(sorted)),
	}
	for i, p := range sorted {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return nil, fmt.Errorf("%w: NaN in point %d", ErrInvalidCurve, i)
		}
		if i > 0 && p.X == sorted[i-1].X {
			return nil, fmt.Errorf("%w: duplicate x values are not allowed (%g)", ErrInvalidCurve, p.X)
		}
		f.xs[i] = p.X
		f.ys[i] = p.Y
	}
	return f, nil
}

// FromMap builds a function from x: f(x) pairs.
func FromMap(m map[float64]float64) (*Function, error) {
	points := make([]Point, 0, len(m))
	for x, y := range m {
		points = append(points, Point{X: x, Y: y})
	}
	return New(points)
}

func (f *Function) Len() int      { return len(f.xs) }
func (f *Function) MinX() float64 { return f.xs[0] }
func (f *Function) MaxX() float64 { return f.xs[len(f.xs)-1] }

func (f *Function) MinY() float64 {
	m := f.ys[0]
	for _, y := range f.ys[1:] {
		m = math.Min(m, y)
	}
	return m
}

func (f *Function) MaxY() float64 {
	m := f.ys[0]
	for _, y := range f.ys[1:] {
		m = math.Max(m, y)
	}
	return m
}

// Points returns a copy of the defined points in ascending x order.
func (f *Function) Points() []Point {
	out := make([]Point, len(f.xs))
	for i := range f.xs {
		out[i] = Point{X: f.xs[i], Y: f.ys[i]}
	}
	return out
}

// Contains reports whether x lies within [MinX, MaxX].
func (f *Function) Contains(x float64) bool {
	return x >= f.MinX() && x <= f.MaxX()
}

func (f *Function) domainErr(x float64) error {
	return &DomainError{X: x, Min: f.MinX(), Max: f.MaxX()}
}

// Interpolate returns the linearly interpolated f(x). Lookups outside of the
// defined domain fail with ErrOutOfDomain, they are never clamped.
func (f *Function) Interpolate(x float64) (float64, error) {
	if !f.Contains(x) {
		return 0, f.domainErr(x)
	}
	return f.interp(x), nil
}

// interp expects x to be in domain.
func (f *Function) interp(x float64) float64 {
	pos := sort.SearchFloat64s(f.xs, x)
	if pos < len(f.xs) && f.xs[pos] == x {
		return f.ys[pos]
	}
	if pos == 0 {
		return f.ys[0]
	}
	if pos == len(f.xs) {
		return f.ys[len(f.ys)-1]
	}
	x1, x2 := f.xs[pos-1], f.xs[pos]
	y1, y2 := f.ys[pos-1], f.ys[pos]
	return y1 + (x-x1)*((y2-y1)/(x2-x1))
}

// NearestDefined returns f(x') for the defined x' closest to x. When x is
// equidistant from two defined points the one with the larger |f| wins, and
// the higher x wins if the magnitudes are equal too.
func (f *Function) NearestDefined(x float64) (float64, error) {
	if !f.Contains(x) {
		return 0, f.domainErr(x)
	}
	pos := sort.SearchFloat64s(f.xs, x)
	if pos < len(f.xs) && f.xs[pos] == x {
		return f.ys[pos], nil
	}
	before, after := pos-1, pos
	dBefore := x - f.xs[before]
	dAfter := f.xs[after] - x
	switch {
	case dBefore < dAfter:
		return f.ys[before], nil
	case dAfter < dBefore:
		return f.ys[after], nil
	}
	if math.Abs(f.ys[before]) > math.Abs(f.ys[after]) {
		return f.ys[before], nil
	}
	return f.ys[after], nil
}

// Cut returns a new function restricted to [max(lower, MinX), min(upper, MaxX)].
// Bounds which are not defined points are inserted with interpolated values.
// Use math.Inf to leave a side unbounded.
func (f *Function) Cut(lower, upper float64) (*Function, error) {
	lo := math.Max(lower, f.MinX())
	hi := math.Min(upper, f.MaxX())
	if lo > hi {
		return nil, fmt.Errorf("%w: %g - %g", ErrInvalidRange, lo, hi)
	}

	points := make([]Point, 0, len(f.xs)+2)
	if !f.defined(lo) {
		points = append(points, Point{X: lo, Y: f.interp(lo)})
	}
	for i, x := range f.xs {
		if x >= lo && x <= hi {
			points = append(points, Point{X: x, Y: f.ys[i]})
		}
	}
	if hi != lo && !f.defined(hi) {
		points = append(points, Point{X: hi, Y: f.interp(hi)})
	}
	return New(points)
}

func (f *Function) defined(x float64) bool {
	pos := sort.SearchFloat64s(f.xs, x)
	return pos < len(f.xs) && f.xs[pos] == x
}

// Overlaps reports whether the graphs of f and other share any point within
// the intersection of their domains. Touching counts as overlapping.
func (f *Function) Overlaps(other *Function) bool {
	lo := math.Max(f.MinX(), other.MinX())
	hi := math.Min(f.MaxX(), other.MaxX())
	if lo > hi {
		return false
	}

	common := make([]float64, 0, len(f.xs)+len(other.xs))
	for _, xs := range [][]float64{f.xs, other.xs} {
		for _, x := range xs {
			if x >= lo && x <= hi {
				common = append(common, x)
			}
		}
	}
	sort.Float64s(common)
	common = dedup(common)

	diff := func(x float64) float64 { return f.interp(x) - other.interp(x) }
	if len(common) == 1 {
		return diff(common[0]) == 0
	}
	for i := 1; i < len(common); i++ {
		d1, d2 := diff(common[i-1]), diff(common[i])
		if d1 == 0 || d2 == 0 || d1*d2 < 0 {
			return true
		}
	}
	return false
}

func dedup(sorted []float64) []float64 {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, x := range sorted[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

func (f *Function) String() string {
	return fmt.Sprintf("plf.Function(%v)", f.Points())
}
