// Package stab maps the takeoff CG in %MAC to a stabilizer trim setting.
package stab

import (
	"fmt"
	"math"

	"Loadsheet/internal/calc/plf"
)

type Schedule struct {
	curve *plf.Function
}

func NewSchedule(points []plf.Point) (*Schedule, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("stab schedule: %w: at least two points are required", plf.ErrInvalidCurve)
	}
	curve, err := plf.New(points)
	if err != nil {
		return nil, fmt.Errorf("stab schedule: %w", err)
	}
	return &Schedule{curve: curve}, nil
}

func (s *Schedule) Points() []plf.Point { return s.curve.Points() }

// Trim interpolates the trim setting for mac. Values outside of the schedule
// fail with plf.ErrOutOfDomain.
func (s *Schedule) Trim(mac float64) (float64, error) {
	return s.curve.Interpolate(mac)
}

// EICASRound rounds a trim setting to the 0.2 unit resolution shown on EICAS.
func EICASRound(v float64) float64 {
	return math.Round(v/2*10) / 10 * 2
}
