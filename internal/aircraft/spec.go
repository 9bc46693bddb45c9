package aircraft

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brunoga/deep"

	"Loadsheet/internal/calc/envelope"
	"Loadsheet/internal/calc/fuel"
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/plf"
	"Loadsheet/internal/calc/stab"
)

const (
	DefaultBallastStep   = 25
	DefaultMaxIterations = 1000
)

var ErrInvalidSpec = errors.New("invalid aircraft spec")

type EnvelopeSpec struct {
	Forward []plf.Point `json:"forward" yaml:"forward"`
	Aft     []plf.Point `json:"aft" yaml:"aft"`
}

// LimitSpec is a MACLimit whose bounds may be left unset in a layer.
type LimitSpec struct {
	Forward *float64 `json:"forward,omitempty" yaml:"forward,omitempty"`
	Aft     *float64 `json:"aft,omitempty" yaml:"aft,omitempty"`
}

func NewLimit(forward, aft float64) LimitSpec {
	return LimitSpec{Forward: &forward, Aft: &aft}
}

type PhaseLimits struct {
	ZFW LimitSpec `json:"zfw" yaml:"zfw"`
	TOW LimitSpec `json:"tow" yaml:"tow"`
	LDW LimitSpec `json:"ldw" yaml:"ldw"`
}

type PhaseEnvelopes struct {
	ZFW *EnvelopeSpec `json:"zfw,omitempty" yaml:"zfw,omitempty"`
	TOW *EnvelopeSpec `json:"tow,omitempty" yaml:"tow,omitempty"`
	LDW *EnvelopeSpec `json:"ldw,omitempty" yaml:"ldw,omitempty"`
}

// Spec is the declarative, serializable form of a profile. A type spec
// describes an aircraft model, a tail spec names its Base type and overrides
// what differs for one airframe, typically DOW and DOI. Fields where zero is
// a meaningful value are pointers, nil means not set.
type Spec struct {
	Name string `json:"name" yaml:"name"`
	Base string `json:"base,omitempty" yaml:"base,omitempty"`

	DOW  float64 `json:"dow,omitempty" yaml:"dow,omitempty"`
	DOI  *float64 `json:"doi,omitempty" yaml:"doi,omitempty"`
	MZFW float64 `json:"mzfw,omitempty" yaml:"mzfw,omitempty"`
	MTOW float64 `json:"mtow,omitempty" yaml:"mtow,omitempty"`
	MLDW float64 `json:"mldw,omitempty" yaml:"mldw,omitempty"`

	Constants index.Constants `json:"constants" yaml:"constants"`
	Chord     index.Chord     `json:"chord" yaml:"chord"`

	Zones          []Zone  `json:"zones,omitempty" yaml:"zones,omitempty"`
	CargoInfluence *float64 `json:"cargo_influence,omitempty" yaml:"cargo_influence,omitempty"`

	Fuel     []plf.Point `json:"fuel,omitempty" yaml:"fuel,omitempty"`
	FuelMode string      `json:"fuel_mode,omitempty" yaml:"fuel_mode,omitempty"`
	Stab     []plf.Point `json:"stab,omitempty" yaml:"stab,omitempty"`

	Limits    PhaseLimits    `json:"limits" yaml:"limits"`
	Envelopes PhaseEnvelopes `json:"envelopes" yaml:"envelopes"`

	BallastStep   float64 `json:"ballast_step,omitempty" yaml:"ballast_step,omitempty"`
	MaxIterations int     `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty"`
}

// Merge layers specs left to right: every set field of a later layer replaces
// the one below it. Pointer fields are set when non-nil, the others when
// non-zero. Slices and envelopes are replaced as a whole.
func Merge(layers ...Spec) Spec {
	var out Spec
	for _, l := range layers {
		setString(&out.Name, l.Name)
		setString(&out.Base, l.Base)
		setFloat(&out.DOW, l.DOW)
		setPtr(&out.DOI, l.DOI)
		setFloat(&out.MZFW, l.MZFW)
		setFloat(&out.MTOW, l.MTOW)
		setFloat(&out.MLDW, l.MLDW)
		if l.Constants != (index.Constants{}) {
			out.Constants = l.Constants
		}
		if l.Chord != (index.Chord{}) {
			out.Chord = l.Chord
		}
		if len(l.Zones) > 0 {
			out.Zones = deep.MustCopy(l.Zones)
		}
		setPtr(&out.CargoInfluence, l.CargoInfluence)
		if len(l.Fuel) > 0 {
			out.Fuel = deep.MustCopy(l.Fuel)
		}
		setString(&out.FuelMode, l.FuelMode)
		if len(l.Stab) > 0 {
			out.Stab = deep.MustCopy(l.Stab)
		}
		mergeLimit(&out.Limits.ZFW, l.Limits.ZFW)
		mergeLimit(&out.Limits.TOW, l.Limits.TOW)
		mergeLimit(&out.Limits.LDW, l.Limits.LDW)
		setEnvelope(&out.Envelopes.ZFW, l.Envelopes.ZFW)
		setEnvelope(&out.Envelopes.TOW, l.Envelopes.TOW)
		setEnvelope(&out.Envelopes.LDW, l.Envelopes.LDW)
		setFloat(&out.BallastStep, l.BallastStep)
		if l.MaxIterations != 0 {
			out.MaxIterations = l.MaxIterations
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setPtr(dst **float64, v *float64) {
	if v != nil {
		x := *v
		*dst = &x
	}
}

func mergeLimit(dst *LimitSpec, l LimitSpec) {
	setPtr(&dst.Forward, l.Forward)
	setPtr(&dst.Aft, l.Aft)
}

func ptr(v float64) *float64 { return &v }

func setEnvelope(dst **EnvelopeSpec, e *EnvelopeSpec) {
	if e != nil {
		*dst = deep.MustCopy(e)
	}
}

func typeName(s Spec) string {
	if s.Base != "" {
		return s.Base
	}
	return s.Name
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSpec, fmt.Sprintf(format, args...))
}

// Build validates the spec and compiles it into a Profile.
func (s Spec) Build() (*Profile, error) {
	if strings.TrimSpace(s.Name) == "" {
		return nil, invalid("name is required")
	}
	for _, w := range []struct {
		name string
		v    float64
	}{{"dow", s.DOW}, {"mzfw", s.MZFW}, {"mtow", s.MTOW}, {"mldw", s.MLDW}} {
		if w.v <= 0 {
			return nil, invalid("%s should be greater than 0, got %g", w.name, w.v)
		}
	}
	if s.DOW > s.MZFW {
		return nil, invalid("dow %g exceeds mzfw %g", s.DOW, s.MZFW)
	}
	if s.DOI == nil {
		return nil, invalid("doi is required")
	}
	if s.CargoInfluence == nil {
		return nil, invalid("cargo_influence is required")
	}
	if err := s.Constants.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if err := s.Chord.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	if len(s.Zones) == 0 {
		return nil, invalid("at least one cabin zone is required")
	}
	seen := make(map[string]bool, len(s.Zones))
	for _, z := range s.Zones {
		if z.Name == "" || seen[z.Name] {
			return nil, invalid("zone names should be unique and not empty, got %q", z.Name)
		}
		if z.Capacity < 0 {
			return nil, invalid("zone %s capacity should not be negative", z.Name)
		}
		seen[z.Name] = true
	}

	fuelTable, err := fuel.NewTable(s.Fuel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	mode, err := fuel.ParseMode(s.FuelMode)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}
	schedule, err := stab.NewSchedule(s.Stab)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSpec, err)
	}

	limitSpecs := map[Phase]LimitSpec{ZFW: s.Limits.ZFW, TOW: s.Limits.TOW, LDW: s.Limits.LDW}
	limits := make(map[Phase]MACLimit, len(Phases))
	for _, ph := range Phases {
		ls := limitSpecs[ph]
		if ls.Forward == nil || ls.Aft == nil {
			return nil, invalid("%s forward and aft limits are required", ph)
		}
		l := MACLimit{Forward: *ls.Forward, Aft: *ls.Aft}
		limits[ph] = l
		if l.Aft <= l.Forward {
			return nil, invalid("%s aft limit %g should be greater than forward limit %g", ph, l.Aft, l.Forward)
		}
	}

	specs := map[Phase]*EnvelopeSpec{ZFW: s.Envelopes.ZFW, TOW: s.Envelopes.TOW, LDW: s.Envelopes.LDW}
	envelopes := make(map[Phase]*envelope.Envelope)
	for _, ph := range Phases {
		es := specs[ph]
		if es == nil {
			continue
		}
		e, err := envelope.FromPoints(es.Forward, es.Aft)
		if err != nil {
			return nil, fmt.Errorf("%w: %s envelope: %w", ErrInvalidSpec, ph, err)
		}
		envelopes[ph] = e
	}

	step := s.BallastStep
	if step == 0 {
		step = DefaultBallastStep
	}
	if step < 0 {
		return nil, invalid("ballast step should be greater than 0, got %g", step)
	}
	maxIter := s.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	if maxIter < 0 {
		return nil, invalid("max iterations should be greater than 0, got %d", maxIter)
	}

	return &Profile{
		Name:           s.Name,
		Type:           typeName(s),
		DOW:            s.DOW,
		DOI:            *s.DOI,
		MZFW:           s.MZFW,
		MTOW:           s.MTOW,
		MLDW:           s.MLDW,
		Constants:      s.Constants,
		Chord:          s.Chord,
		Zones:          append([]Zone(nil), s.Zones...),
		CargoInfluence: *s.CargoInfluence,
		Fuel:           fuelTable,
		FuelMode:       mode,
		Stab:           schedule,
		MACLimits:      limits,
		Envelopes:      envelopes,
		BallastStep:    step,
		MaxIterations:  maxIter,
	}, nil
}
