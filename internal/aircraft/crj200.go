package aircraft

import (
	"Loadsheet/internal/calc/index"
	"Loadsheet/internal/calc/plf"
)

// CRJ200 returns the built-in CRJ100/200 type spec. DOW and DOI are those of
// the reference airframe and are normally overridden by a tail spec.
func CRJ200() Spec {
	return Spec{
		Name:      "CRJ200",
		DOW:       14434,
		DOI:       ptr(49.81),
		MZFW:      19958,
		MTOW:      24040,
		MLDW:      21319,
		Constants: index.Constants{RefStation: 13.2, C: 280, K: 50},
		Chord:     index.Chord{LEMACAt: 12.542, Length: 2.526},
		Zones: []Zone{
			{Name: "A", Capacity: 16, Influence: -0.01997},
			{Name: "B", Capacity: 12, Influence: -0.01013},
			{Name: "C", Capacity: 12, Influence: -0.00161},
			{Name: "D", Capacity: 10, Influence: 0.00627},
		},
		CargoInfluence: ptr(0.01547),
		Fuel:           crj200Fuel(),
		FuelMode:       "nearest",
		Stab:           []plf.Point{{X: 8.8, Y: 8.15}, {X: 35, Y: 4.0}},
		Limits: PhaseLimits{
			ZFW: NewLimit(11, 35),
			TOW: NewLimit(9, 35),
			LDW: NewLimit(9, 35),
		},
		BallastStep:   DefaultBallastStep,
		MaxIterations: DefaultMaxIterations,
	}
}

// Index effect of total fuel in kg, center tank filled above 4255 kg.
func crj200Fuel() []plf.Point {
	return []plf.Point{
		{X: 200, Y: -0.83}, {X: 400, Y: -1.56}, {X: 600, Y: -2.22}, {X: 800, Y: -2.83},
		{X: 1000, Y: -3.40}, {X: 1200, Y: -3.92}, {X: 1400, Y: -4.39}, {X: 1600, Y: -4.81},
		{X: 1800, Y: -5.17}, {X: 2000, Y: -5.47}, {X: 2200, Y: -5.73}, {X: 2400, Y: -5.93},
		{X: 2600, Y: -6.07}, {X: 2800, Y: -6.21}, {X: 3000, Y: -6.32}, {X: 3200, Y: -6.31},
		{X: 3400, Y: -6.27}, {X: 3600, Y: -6.27}, {X: 3800, Y: -6.11}, {X: 4000, Y: -6.02},
		{X: 4200, Y: -5.60}, {X: 4255, Y: -5.47}, {X: 4400, Y: -6.30}, {X: 4600, Y: -7.38},
		{X: 4800, Y: -8.40}, {X: 5000, Y: -9.44}, {X: 5200, Y: -10.56}, {X: 5400, Y: -11.56},
		{X: 5600, Y: -12.63}, {X: 5800, Y: -13.69}, {X: 6000, Y: -14.82}, {X: 6200, Y: -15.98},
		{X: 6400, Y: -17.28}, {X: 6488, Y: -17.91},
	}
}
