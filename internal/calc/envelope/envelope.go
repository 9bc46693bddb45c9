// Package envelope implements the CG envelope: forward and aft limit
// curves of index over weight.
package envelope

import (
	"errors"
	"fmt"

	"Loadsheet/internal/calc/plf"
)

var (
	ErrDomainMismatch    = errors.New("forward and aft limits should be defined over the same weight range")
	ErrOverlappingBounds = errors.New("forward and aft limits should not overlap")
	ErrOrder             = errors.New("forward limit should lie before aft limit")
)

type Envelope struct {
	fwd *plf.Function
	aft *plf.Function
}

func New(fwd, aft *plf.Function) (*Envelope, error) {
	if fwd.MinX() != aft.MinX() || fwd.MaxX() != aft.MaxX() {
		return nil, fmt.Errorf("%w: %g - %g vs %g - %g",
			ErrDomainMismatch, fwd.MinX(), fwd.MaxX(), aft.MinX(), aft.MaxX())
	}
	if fwd.Overlaps(aft) {
		return nil, ErrOverlappingBounds
	}
	first, _ := fwd.Interpolate(fwd.MinX())
	firstAft, _ := aft.Interpolate(aft.MinX())
	if first > firstAft {
		return nil, ErrOrder
	}
	return &Envelope{fwd: fwd, aft: aft}, nil
}

// FromPoints is a convenience wrapper around New.
func FromPoints(fwd, aft []plf.Point) (*Envelope, error) {
	f, err := plf.New(fwd)
	if err != nil {
		return nil, fmt.Errorf("forward limit: %w", err)
	}
	a, err := plf.New(aft)
	if err != nil {
		return nil, fmt.Errorf("aft limit: %w", err)
	}
	return New(f, a)
}

func (e *Envelope) Forward() *plf.Function { return e.fwd }
func (e *Envelope) Aft() *plf.Function     { return e.aft }
func (e *Envelope) MinWeight() float64     { return e.fwd.MinX() }
func (e *Envelope) MaxWeight() float64     { return e.fwd.MaxX() }

func (e *Envelope) InWeightRange(weight float64) bool {
	return e.fwd.Contains(weight)
}

// LimitRange returns the forward and aft limits at weight. ok is false when
// weight is outside of the envelope.
func (e *Envelope) LimitRange(weight float64) (fwd, aft float64, ok bool) {
	if !e.InWeightRange(weight) {
		return 0, 0, false
	}
	fwd, _ = e.fwd.Interpolate(weight)
	aft, _ = e.aft.Interpolate(weight)
	return fwd, aft, true
}

func (e *Envelope) Contains(value, weight float64) bool {
	fwd, aft, ok := e.LimitRange(weight)
	return ok && value >= fwd && value <= aft
}

// ExceedsForward reports whether value lies forward of the limit. A weight
// outside of the envelope always exceeds.
func (e *Envelope) ExceedsForward(value, weight float64) bool {
	fwd, _, ok := e.LimitRange(weight)
	return !ok || value < fwd
}

// ExceedsAft reports whether value lies aft of the limit. A weight outside
// of the envelope always exceeds.
func (e *Envelope) ExceedsAft(value, weight float64) bool {
	_, aft, ok := e.LimitRange(weight)
	return !ok || value > aft
}

// Cut restricts the envelope to the [minWeight, maxWeight] range.
func (e *Envelope) Cut(minWeight, maxWeight float64) (*Envelope, error) {
	fwd, err := e.fwd.Cut(minWeight, maxWeight)
	if err != nil {
		return nil, err
	}
	aft, err := e.aft.Cut(minWeight, maxWeight)
	if err != nil {
		return nil, err
	}
	return &Envelope{fwd: fwd, aft: aft}, nil
}

func (e *Envelope) String() string {
	return fmt.Sprintf("envelope.Envelope(%g - %g kg)", e.MinWeight(), e.MaxWeight())
}
