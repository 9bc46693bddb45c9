// Package index implements balance index arithmetic.
//
// An index is a scaled moment about a reference station:
//
//	Index = weight * (station - RefStation) / C + K
//
// so that Moment = (Index - K) * C.
package index

import (
	"errors"
	"fmt"
)

var (
	ErrDegenerateConstants   = errors.New("degenerate index constants")
	ErrIncompatibleConstants = errors.New("incompatible index constants")
	ErrNegativeWeight        = errors.New("weight should not be negative")
	ErrZeroWeight            = errors.New("weight should not be zero")
	ErrInvalidChord          = errors.New("invalid mean aerodynamic chord")
)

// Constants is comparable and may be used as a map key.
type Constants struct {
	RefStation float64 `json:"ref_station" yaml:"ref_station"`
	C          float64 `json:"c" yaml:"c"`
	K          float64 `json:"k" yaml:"k"`
}

func NewConstants(refStation, c, k float64) (Constants, error) {
	cs := Constants{RefStation: refStation, C: c, K: k}
	if err := cs.Validate(); err != nil {
		return Constants{}, err
	}
	return cs, nil
}

func (c Constants) Validate() error {
	if c.C <= 0 {
		return fmt.Errorf("%w: C constant should be greater than 0, got %g", ErrDegenerateConstants, c.C)
	}
	if c.K < 0 {
		return fmt.Errorf("%w: K constant should not be negative, got %g", ErrDegenerateConstants, c.K)
	}
	return nil
}

type Index struct {
	Value     float64   `json:"value"`
	Weight    float64   `json:"weight"`
	Constants Constants `json:"constants"`
}

func New(value, weight float64, c Constants) Index {
	return Index{Value: value, Weight: weight, Constants: c}
}

func (i Index) Moment() float64 {
	return (i.Value - i.Constants.K) * i.Constants.C
}

// FromMoment builds the index value matching moment for a mass of weight.
func FromMoment(moment, weight float64, c Constants) (Index, error) {
	if c.C == 0 {
		return Index{}, fmt.Errorf("%w: C constant should not be zero", ErrDegenerateConstants)
	}
	return Index{Value: moment/c.C + c.K, Weight: weight, Constants: c}, nil
}

// Calc computes the index of weight placed at station.
func Calc(weight, station float64, c Constants) (Index, error) {
	if c.C == 0 {
		return Index{}, fmt.Errorf("%w: C constant should not be zero", ErrDegenerateConstants)
	}
	if weight < 0 {
		return Index{}, fmt.Errorf("%w: %g", ErrNegativeWeight, weight)
	}
	return FromMoment(weight*(station-c.RefStation), weight, c)
}

func (i Index) compatible(o Index) error {
	if i.Constants != o.Constants {
		return fmt.Errorf("%w: %+v and %+v", ErrIncompatibleConstants, i.Constants, o.Constants)
	}
	return nil
}

func Add(a, b Index) (Index, error) {
	if err := a.compatible(b); err != nil {
		return Index{}, err
	}
	return Index{Value: a.Value + b.Value, Weight: a.Weight + b.Weight, Constants: a.Constants}, nil
}

func Sub(a, b Index) (Index, error) {
	if err := a.compatible(b); err != nil {
		return Index{}, err
	}
	return Index{Value: a.Value - b.Value, Weight: a.Weight - b.Weight, Constants: a.Constants}, nil
}

// Scale multiplies both value and weight.
func (i Index) Scale(by float64) Index {
	return Index{Value: i.Value * by, Weight: i.Weight * by, Constants: i.Constants}
}

type ComparePolicy int

const (
	// CompareStation requires only equal reference stations.
	CompareStation ComparePolicy = iota
	// CompareStrict requires identical constants.
	CompareStrict
)

// Compare orders a and b by moment and returns -1, 0 or +1.
func Compare(a, b Index, policy ComparePolicy) (int, error) {
	switch policy {
	case CompareStrict:
		if err := a.compatible(b); err != nil {
			return 0, err
		}
	default:
		if a.Constants.RefStation != b.Constants.RefStation {
			return 0, fmt.Errorf("%w: reference stations %g and %g differ",
				ErrIncompatibleConstants, a.Constants.RefStation, b.Constants.RefStation)
		}
	}
	ma, mb := a.Moment(), b.Moment()
	switch {
	case ma < mb:
		return -1, nil
	case ma > mb:
		return 1, nil
	}
	return 0, nil
}

func Less(a, b Index) (bool, error) {
	c, err := Compare(a, b, CompareStation)
	return c < 0, err
}

func LessOrEqual(a, b Index) (bool, error) {
	c, err := Compare(a, b, CompareStation)
	return c <= 0 && err == nil, err
}

func Greater(a, b Index) (bool, error) {
	c, err := Compare(a, b, CompareStation)
	return c > 0, err
}

func GreaterOrEqual(a, b Index) (bool, error) {
	c, err := Compare(a, b, CompareStation)
	return c >= 0 && err == nil, err
}

func Equal(a, b Index) (bool, error) {
	c, err := Compare(a, b, CompareStation)
	return c == 0 && err == nil, err
}

func (i Index) String() string {
	return fmt.Sprintf("Index(%.2f, %.0f kg)", i.Value, i.Weight)
}
