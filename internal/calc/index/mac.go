package index

import "fmt"

// Chord describes the mean aerodynamic chord: station of its leading edge and
// its length, both in the same unit as the reference station.
type Chord struct {
	LEMACAt float64 `json:"lemac_at" yaml:"lemac_at"`
	Length  float64 `json:"length" yaml:"length"`
}

func (c Chord) Validate() error {
	if c.Length <= 0 {
		return fmt.Errorf("%w: length should be greater than 0, got %g", ErrInvalidChord, c.Length)
	}
	return nil
}

// PercentMAC is a CG position in percent of the mean aerodynamic chord.
type PercentMAC struct {
	Value float64 `json:"value"`
	Chord Chord   `json:"chord"`
}

// FromIndex converts a balance index into %MAC.
func FromIndex(i Index, chord Chord) (PercentMAC, error) {
	if err := chord.Validate(); err != nil {
		return PercentMAC{}, err
	}
	if i.Weight == 0 {
		return PercentMAC{}, fmt.Errorf("%w: cannot locate CG of a massless index", ErrZeroWeight)
	}
	arm := i.Moment()/i.Weight + i.Constants.RefStation
	return PercentMAC{
		Value: (arm - chord.LEMACAt) / (chord.Length / 100),
		Chord: chord,
	}, nil
}

// ToIndex converts the CG position back into an index for weight.
func (p PercentMAC) ToIndex(weight float64, c Constants) (Index, error) {
	if err := p.Chord.Validate(); err != nil {
		return Index{}, err
	}
	if weight == 0 {
		return Index{}, fmt.Errorf("%w: cannot place CG of zero weight", ErrZeroWeight)
	}
	arm := p.Value*(p.Chord.Length/100) + p.Chord.LEMACAt
	return FromMoment(weight*(arm-c.RefStation), weight, c)
}

func (p PercentMAC) String() string {
	return fmt.Sprintf("%.2f %%MAC", p.Value)
}
