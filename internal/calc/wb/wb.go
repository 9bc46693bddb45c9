// Package wb implements the weight and balance solver.
package wb

import (
	"fmt"
	"log/slog"
	"math"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/stab"
)

// StandardWeights are the assumed passenger masses in kg.
type StandardWeights struct {
	Adult  float64 `json:"adult" yaml:"adult"`
	Child  float64 `json:"child" yaml:"child"`
	Infant float64 `json:"infant" yaml:"infant"`
}

func DefaultWeights() StandardWeights {
	return StandardWeights{Adult: 75, Child: 30, Infant: 15}
}

// Task is one loading request. Seating lists seated passengers per cabin
// zone, in the order of the profile zones. Infants are not seated.
type Task struct {
	TakeoffFuel  float64 `json:"takeoff_fuel"`
	TripFuel     float64 `json:"trip_fuel"`
	Adults       int     `json:"adults"`
	Children     int     `json:"children"`
	Infants      int     `json:"infants"`
	Seating      []int   `json:"seating"`
	CabinBaggage float64 `json:"cabin_baggage"`
	Cargo        float64 `json:"cargo"`
	Ballast      float64 `json:"ballast"`
	AllowBallast bool    `json:"allow_ballast"`
}

// WithBallast returns a copy of t carrying ballast kg.
func (t Task) WithBallast(ballast float64) Task {
	out := t
	out.Seating = append([]int(nil), t.Seating...)
	out.Ballast = ballast
	return out
}

// Iteration records one pass of the ballast loop.
type Iteration struct {
	Ballast   float64 `json:"ballast"`
	Underload float64 `json:"underload"`
	MACZFW    float64 `json:"mac_zfw"`
	MACTOW    float64 `json:"mac_tow"`
	MACLDW    float64 `json:"mac_ldw"`
}

type Result struct {
	Aircraft string          `json:"aircraft"`
	Task     Task            `json:"task"`
	Weights  StandardWeights `json:"weights"`

	OperatingWeight    float64 `json:"operating_weight"`
	AllowedTOW         float64 `json:"allowed_tow"`
	AllowedTrafficLoad float64 `json:"allowed_traffic_load"`
	TrafficLoad        float64 `json:"traffic_load"`
	Underload          float64 `json:"underload"`

	ZFW float64 `json:"zfw"`
	TOW float64 `json:"tow"`
	LDW float64 `json:"ldw"`

	LIZFW float64 `json:"lizfw"`
	LITOW float64 `json:"litow"`
	LILAW float64 `json:"lilaw"`

	MACZFW float64 `json:"mac_zfw"`
	MACTOW float64 `json:"mac_tow"`
	MACLDW float64 `json:"mac_ldw"`

	Stab      float64 `json:"stab"`
	StabEICAS float64 `json:"stab_eicas"`

	Ballast    float64     `json:"ballast"`
	Iterations int         `json:"iterations"`
	Trace      []Iteration `json:"trace"`
}

type Solver struct {
	profile *aircraft.Profile
	weights StandardWeights
	log     *slog.Logger
}

type Option func(*Solver)

// WithLogger makes the solver log ballast iterations at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSolver(p *aircraft.Profile, w StandardWeights, opts ...Option) *Solver {
	s := &Solver{profile: p, weights: w, log: slog.New(slog.DiscardHandler)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Calculate solves task for profile p with a default solver.
func Calculate(p *aircraft.Profile, w StandardWeights, task Task) (Result, error) {
	return NewSolver(p, w).Solve(task)
}

// state holds the figures of one loading, before limits are checked.
type state struct {
	trafficLoad float64
	underload   float64
	zfw         index.Index
	tow         index.Index
	ldw         index.Index
	mac         map[aircraft.Phase]float64
}

func (st state) idx(ph aircraft.Phase) index.Index {
	switch ph {
	case aircraft.TOW:
		return st.tow
	case aircraft.LDW:
		return st.ldw
	}
	return st.zfw
}

// Solve runs the calculation. task is never modified, the ballast loop works
// on copies and the final one is returned in Result.Task.
func (s *Solver) Solve(task Task) (Result, error) {
	p := s.profile
	if err := s.validate(task); err != nil {
		return Result{}, err
	}
	if p.BallastStep <= 0 || p.MaxIterations <= 0 {
		return Result{}, fmt.Errorf("%w: ballast step and iteration limit should be positive", aircraft.ErrInvalidSpec)
	}

	operating := p.DOW + task.TakeoffFuel
	allowedTOW := math.Min(p.MTOW, math.Min(p.MLDW+task.TripFuel, p.MZFW+task.TakeoffFuel))
	allowedTraffic := allowedTOW - operating

	cur := task.WithBallast(task.Ballast)
	var trace []Iteration
	for iter := 1; ; iter++ {
		st, err := s.evaluate(cur, allowedTraffic)
		if err != nil {
			return Result{}, err
		}
		trace = append(trace, Iteration{
			Ballast:   cur.Ballast,
			Underload: st.underload,
			MACZFW:    st.mac[aircraft.ZFW],
			MACTOW:    st.mac[aircraft.TOW],
			MACLDW:    st.mac[aircraft.LDW],
		})

		if err := s.checkEnvelopeWeights(st); err != nil {
			return Result{}, err
		}

		if fwd := s.forwardViolations(st); len(fwd) > 0 {
			reason := ""
			switch {
			case !cur.AllowBallast:
				reason = ReasonBallastNotAllowed
			case st.underload < p.BallastStep:
				reason = ReasonUnderloadExceeded
			case iter >= p.MaxIterations:
				reason = ReasonIterationLimit
			}
			if reason != "" {
				return Result{}, &ForwardMACLimitsViolatedError{
					Violations: fwd,
					Ballast:    cur.Ballast,
					Underload:  st.underload,
					Reason:     reason,
				}
			}
			next := cur.Ballast + p.BallastStep
			s.log.Debug("forward limit violated, adding ballast",
				"aircraft", p.Name, "iteration", iter, "ballast", next, "underload", st.underload)
			cur = cur.WithBallast(next)
			continue
		}

		if aft := s.aftViolations(st); len(aft) > 0 {
			return Result{}, &AftMACLimitsViolatedError{Violations: aft, Ballast: cur.Ballast}
		}

		trim, err := p.Stab.Trim(st.mac[aircraft.TOW])
		if err != nil {
			return Result{}, fmt.Errorf("stab trim: %w", err)
		}

		return Result{
			Aircraft:           p.Name,
			Task:               cur,
			Weights:            s.weights,
			OperatingWeight:    operating,
			AllowedTOW:         allowedTOW,
			AllowedTrafficLoad: allowedTraffic,
			TrafficLoad:        st.trafficLoad,
			Underload:          st.underload,
			ZFW:                st.zfw.Weight,
			TOW:                st.tow.Weight,
			LDW:                st.ldw.Weight,
			LIZFW:              st.zfw.Value,
			LITOW:              st.tow.Value,
			LILAW:              st.ldw.Value,
			MACZFW:             st.mac[aircraft.ZFW],
			MACTOW:             st.mac[aircraft.TOW],
			MACLDW:             st.mac[aircraft.LDW],
			Stab:               trim,
			StabEICAS:          stab.EICASRound(trim),
			Ballast:            cur.Ballast,
			Iterations:         iter,
			Trace:              trace,
		}, nil
	}
}

func (s *Solver) validate(task Task) error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"takeoff fuel", task.TakeoffFuel},
		{"trip fuel", task.TripFuel},
		{"adults", float64(task.Adults)},
		{"children", float64(task.Children)},
		{"infants", float64(task.Infants)},
		{"cabin baggage", task.CabinBaggage},
		{"cargo", task.Cargo},
		{"ballast", task.Ballast},
		{"adult weight", s.weights.Adult},
		{"child weight", s.weights.Child},
		{"infant weight", s.weights.Infant},
	} {
		if f.v < 0 || math.IsNaN(f.v) {
			return &InvalidTaskError{Field: f.name, Value: f.v}
		}
	}
	if task.TripFuel > task.TakeoffFuel {
		return &IncorrectTripFuelError{TakeoffFuel: task.TakeoffFuel, TripFuel: task.TripFuel}
	}

	zones := s.profile.Zones
	if len(task.Seating) != len(zones) {
		return &SeatingLayoutError{Zones: len(zones), Got: len(task.Seating)}
	}
	occupied := 0
	for i, n := range task.Seating {
		if n < 0 {
			return &InvalidTaskError{Field: "seating in zone " + zones[i].Name, Value: float64(n)}
		}
		if n > zones[i].Capacity {
			return &ZoneCapacityExceededError{Zone: zones[i].Name, Seated: n, Capacity: zones[i].Capacity}
		}
		occupied += n
	}
	pax := task.Adults + task.Children
	if occupied > pax {
		return &TooManySeatsOccupiedError{Occupied: occupied, Passengers: pax}
	}
	if occupied < pax {
		return &NotEnoughSeatsOccupiedError{Occupied: occupied, Passengers: pax}
	}
	return nil
}

func (s *Solver) evaluate(task Task, allowedTraffic float64) (state, error) {
	p, w := s.profile, s.weights
	c := p.Constants

	traffic := float64(task.Adults)*w.Adult + float64(task.Children)*w.Child +
		float64(task.Infants)*w.Infant + task.CabinBaggage + task.Cargo + task.Ballast
	underload := allowedTraffic - traffic
	if underload < 0 {
		return state{}, &PayloadTooHeavyError{Total: traffic, Allowed: allowedTraffic}
	}

	payload := (task.Cargo + task.Ballast) * p.CargoInfluence
	for i, n := range task.Seating {
		payload += float64(n) * w.Adult * p.Zones[i].Influence
	}
	zfw, err := index.Add(index.New(p.DOI, p.DOW, c), index.New(payload, traffic, c))
	if err != nil {
		return state{}, err
	}

	landingFuel := task.TakeoffFuel - task.TripFuel
	takeoffEffect, err := p.Fuel.Influence(task.TakeoffFuel, p.FuelMode)
	if err != nil {
		return state{}, fmt.Errorf("takeoff fuel effect: %w", err)
	}
	landingEffect, err := p.Fuel.Influence(landingFuel, p.FuelMode)
	if err != nil {
		return state{}, fmt.Errorf("landing fuel effect: %w", err)
	}
	tow, err := index.Add(zfw, index.New(takeoffEffect, task.TakeoffFuel, c))
	if err != nil {
		return state{}, err
	}
	ldw, err := index.Add(zfw, index.New(landingEffect, landingFuel, c))
	if err != nil {
		return state{}, err
	}

	st := state{
		trafficLoad: traffic,
		underload:   underload,
		zfw:         zfw,
		tow:         tow,
		ldw:         ldw,
		mac:         make(map[aircraft.Phase]float64, 3),
	}
	for _, ph := range aircraft.Phases {
		m, err := index.FromIndex(st.idx(ph), p.Chord)
		if err != nil {
			return state{}, fmt.Errorf("%s: %w", ph, err)
		}
		st.mac[ph] = m.Value
	}
	return st, nil
}

func (s *Solver) checkEnvelopeWeights(st state) error {
	for _, ph := range aircraft.Phases {
		e, ok := s.profile.Envelopes[ph]
		if !ok {
			continue
		}
		if w := st.idx(ph).Weight; !e.InWeightRange(w) {
			return &EnvelopeWeightError{Phase: ph, Weight: w, Min: e.MinWeight(), Max: e.MaxWeight()}
		}
	}
	return nil
}

func (s *Solver) forwardViolations(st state) []Violation {
	var out []Violation
	for _, ph := range aircraft.Phases {
		mac := st.mac[ph]
		if limit := s.profile.MACLimits[ph].Forward; mac < limit {
			out = append(out, Violation{Phase: ph, MAC: mac, Limit: limit})
			continue
		}
		if e, ok := s.profile.Envelopes[ph]; ok {
			i := st.idx(ph)
			if e.ExceedsForward(i.Value, i.Weight) {
				fwd, _, _ := e.LimitRange(i.Weight)
				out = append(out, Violation{Phase: ph, MAC: mac, Limit: fwd, Envelope: true})
			}
		}
	}
	return out
}

func (s *Solver) aftViolations(st state) []Violation {
	var out []Violation
	for _, ph := range aircraft.Phases {
		mac := st.mac[ph]
		if limit := s.profile.MACLimits[ph].Aft; mac > limit {
			out = append(out, Violation{Phase: ph, MAC: mac, Limit: limit})
			continue
		}
		if e, ok := s.profile.Envelopes[ph]; ok {
			i := st.idx(ph)
			if e.ExceedsAft(i.Value, i.Weight) {
				_, aft, _ := e.LimitRange(i.Weight)
				out = append(out, Violation{Phase: ph, MAC: mac, Limit: aft, Envelope: true})
			}
		}
	}
	return out
}
