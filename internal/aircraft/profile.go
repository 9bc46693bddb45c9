// Package aircraft holds aircraft profiles: the immutable runtime form used by
// the solver, the layered Spec it is built from and the built-in type specs.
package aircraft

import (
	"Loadsheet/internal/calc/envelope"
	"Loadsheet/internal/calc/fuel"
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/stab"
)

type Phase int

const (
	ZFW Phase = iota
	TOW
	LDW
)

var Phases = []Phase{ZFW, TOW, LDW}

func (p Phase) String() string {
	switch p {
	case ZFW:
		return "ZFW"
	case TOW:
		return "TOW"
	case LDW:
		return "LDW"
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

type Zone struct {
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
	// Influence is the index change per kg seated in the zone.
	Influence float64 `json:"influence" yaml:"influence"`
}

// MACLimit bounds the CG of one phase in %MAC.
type MACLimit struct {
	Forward float64 `json:"forward" yaml:"forward"`
	Aft     float64 `json:"aft" yaml:"aft"`
}

// Profile is read only once built, share it freely between goroutines.
type Profile struct {
	Name string
	Type string

	DOW  float64
	DOI  float64
	MZFW float64
	MTOW float64
	MLDW float64

	Constants index.Constants
	Chord     index.Chord

	Zones          []Zone
	CargoInfluence float64

	Fuel     *fuel.Table
	FuelMode fuel.Mode
	Stab     *stab.Schedule

	MACLimits map[Phase]MACLimit
	// Envelopes is optional, phases without an envelope are checked against
	// MACLimits only.
	Envelopes map[Phase]*envelope.Envelope

	BallastStep   float64
	MaxIterations int
}

func (p *Profile) TotalSeats() int {
	n := 0
	for _, z := range p.Zones {
		n += z.Capacity
	}
	return n
}
