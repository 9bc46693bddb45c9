package wb

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"Loadsheet/internal/aircraft"
	"Loadsheet/internal/calc/envelope"
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/plf"
)

// Kind is a coarse error class used for HTTP status mapping, logs and
// calculation records.
type Kind string

const (
	KindUnknown       Kind = "unknown"
	KindConfiguration Kind = "configuration"
	KindInput         Kind = "input"
	KindConstraint    Kind = "constraint"
	KindDomain        Kind = "domain"
	KindCompatibility Kind = "compatibility"
	KindCanceled      Kind = "canceled"
)

type kinded interface{ Kind() Kind }

// Classify maps err to its Kind using typed errors and sentinels only.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled
	}
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	switch {
	case errors.Is(err, plf.ErrOutOfDomain):
		return KindDomain
	case errors.Is(err, index.ErrIncompatibleConstants):
		return KindCompatibility
	case errors.Is(err, aircraft.ErrInvalidSpec),
		errors.Is(err, index.ErrDegenerateConstants),
		errors.Is(err, index.ErrInvalidChord),
		errors.Is(err, plf.ErrInvalidCurve),
		errors.Is(err, envelope.ErrDomainMismatch),
		errors.Is(err, envelope.ErrOverlappingBounds),
		errors.Is(err, envelope.ErrOrder):
		return KindConfiguration
	case errors.Is(err, aircraft.ErrUnknownAircraft),
		errors.Is(err, index.ErrNegativeWeight),
		errors.Is(err, index.ErrZeroWeight):
		return KindInput
	}
	return KindUnknown
}

// InvalidTaskError reports a negative or NaN task field or standard weight.
type InvalidTaskError struct {
	Field string
	Value float64
}

func (e *InvalidTaskError) Error() string {
	if math.IsNaN(e.Value) {
		return e.Field + " should be a number"
	}
	return fmt.Sprintf("%s should not be negative, got %g", e.Field, e.Value)
}

func (e *InvalidTaskError) Kind() Kind { return KindInput }

type IncorrectTripFuelError struct {
	TakeoffFuel, TripFuel float64
}

func (e *IncorrectTripFuelError) Error() string {
	return fmt.Sprintf("trip fuel (%g) must not exceed takeoff fuel (%g)", e.TripFuel, e.TakeoffFuel)
}

func (e *IncorrectTripFuelError) Kind() Kind { return KindInput }

// SeatingLayoutError reports a seating list that does not match the cabin zones.
type SeatingLayoutError struct {
	Zones, Got int
}

func (e *SeatingLayoutError) Error() string {
	return fmt.Sprintf("seating should list %d cabin zones, got %d", e.Zones, e.Got)
}

func (e *SeatingLayoutError) Kind() Kind { return KindInput }

type ZoneCapacityExceededError struct {
	Zone     string
	Seated   int
	Capacity int
}

func (e *ZoneCapacityExceededError) Error() string {
	return fmt.Sprintf("number of PAX in zone %s (%d) exceeds its capacity (%d)", e.Zone, e.Seated, e.Capacity)
}

func (e *ZoneCapacityExceededError) Kind() Kind { return KindInput }

type TooManySeatsOccupiedError struct {
	Occupied, Passengers int
}

func (e *TooManySeatsOccupiedError) Difference() int { return e.Occupied - e.Passengers }

func (e *TooManySeatsOccupiedError) Error() string {
	return fmt.Sprintf("too many seats occupied: occupied seats must not exceed total number of PAX, difference %d",
		e.Difference())
}

func (e *TooManySeatsOccupiedError) Kind() Kind { return KindInput }

type NotEnoughSeatsOccupiedError struct {
	Occupied, Passengers int
}

func (e *NotEnoughSeatsOccupiedError) Difference() int { return e.Passengers - e.Occupied }

func (e *NotEnoughSeatsOccupiedError) Error() string {
	return fmt.Sprintf("not enough seats occupied: occupied seats must equal total number of PAX, difference %d",
		e.Difference())
}

func (e *NotEnoughSeatsOccupiedError) Kind() Kind { return KindInput }

type PayloadTooHeavyError struct {
	Total, Allowed float64
}

func (e *PayloadTooHeavyError) Excess() float64 { return e.Total - e.Allowed }

func (e *PayloadTooHeavyError) Error() string {
	return fmt.Sprintf("total traffic load (%g kg) exceeds allowed traffic load (%g kg) by %g kg",
		e.Total, e.Allowed, e.Excess())
}

func (e *PayloadTooHeavyError) Kind() Kind { return KindConstraint }

// Violation is one phase outside of its CG limits.
type Violation struct {
	Phase aircraft.Phase `json:"phase"`
	MAC   float64        `json:"mac"`
	// Limit is the %MAC threshold or, for envelope violations, the index limit.
	Limit    float64 `json:"limit"`
	Envelope bool    `json:"envelope,omitempty"`
}

func (v Violation) String() string {
	if v.Envelope {
		return fmt.Sprintf("%s %.2f%%MAC outside envelope (index limit %.2f)", v.Phase, v.MAC, v.Limit)
	}
	return fmt.Sprintf("%s %.2f%%MAC (limit %.2f)", v.Phase, v.MAC, v.Limit)
}

func joinViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

// Why the ballast loop gave up on a forward violation.
const (
	ReasonBallastNotAllowed = "ballast not allowed"
	ReasonUnderloadExceeded = "underload below ballast step"
	ReasonIterationLimit    = "iteration limit reached"
)

type ForwardMACLimitsViolatedError struct {
	Violations []Violation
	Ballast    float64
	Underload  float64
	Reason     string
}

func (e *ForwardMACLimitsViolatedError) Error() string {
	return fmt.Sprintf("forward MAC limits violated: %s; ballast %g kg, underload %g kg (%s)",
		joinViolations(e.Violations), e.Ballast, e.Underload, e.Reason)
}

func (e *ForwardMACLimitsViolatedError) Kind() Kind { return KindConstraint }

type AftMACLimitsViolatedError struct {
	Violations []Violation
	Ballast    float64
}

func (e *AftMACLimitsViolatedError) Error() string {
	return fmt.Sprintf("aft MAC limits violated: %s", joinViolations(e.Violations))
}

func (e *AftMACLimitsViolatedError) Kind() Kind { return KindConstraint }

// EnvelopeWeightError reports a phase weight outside of its CG envelope.
type EnvelopeWeightError struct {
	Phase    aircraft.Phase
	Weight   float64
	Min, Max float64
}

func (e *EnvelopeWeightError) Error() string {
	return fmt.Sprintf("%s %g kg is outside of the CG envelope weight range %g - %g kg",
		e.Phase, e.Weight, e.Min, e.Max)
}

func (e *EnvelopeWeightError) Kind() Kind { return KindConstraint }
