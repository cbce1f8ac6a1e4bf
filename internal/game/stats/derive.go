package stats

import "math"

// Base holds the three base attributes stat derivation reads.
type Base struct {
	Body  int
	Mind  int
	Heart int
}

// AgeBand is the set of family multipliers for an age range.
type AgeBand struct {
	MaxAge int // inclusive upper bound; math.MaxInt for the last band
	Body   float64
	Mind   float64
	Heart  float64
}

// AgeBands lists the derivation bands in ascending age order.
var AgeBands = []AgeBand{
	{MaxAge: 16, Body: 1.1, Mind: 0.8, Heart: 0.7},
	{MaxAge: 25, Body: 1.0, Mind: 1.0, Heart: 1.0},
	{MaxAge: 40, Body: 0.9, Mind: 1.2, Heart: 1.1},
	{MaxAge: 60, Body: 0.8, Mind: 1.3, Heart: 1.2},
	{MaxAge: math.MaxInt, Body: 0.6, Mind: 1.4, Heart: 1.3},
}

// BandFor returns the AgeBand covering age.
func BandFor(age int) AgeBand {
	for _, b := range AgeBands {
		if age <= b.MaxAge {
			return b
		}
	}
	return AgeBands[len(AgeBands)-1]
}

// Derive computes the full Block for base attributes at the given age.
// Each field is a linear combination scaled by its family multiplier; the
// secondary terms of Accuracy, Speed, Evasion and AilmentDefense are added
// unscaled. The result is floored.
//
// Postcondition: deterministic; every field is non-decreasing in each of
// base.Body, base.Mind and base.Heart with age fixed.
func Derive(base Base, age int) Block {
	band := BandFor(age)
	b := float64(base.Body)
	m := float64(base.Mind)
	h := float64(base.Heart)
	floor := func(v float64) int { return int(math.Floor(v + 1e-9)) }

	return Block{
		PhysicalAttack:  floor((2*b + 5) * band.Body),
		PhysicalDefense: floor((1.5*b + 5) * band.Body),
		Accuracy:        floor((b+10)*band.Body + m/2),
		Speed:           floor((b+10)*band.Body + h/2),
		Evasion:         floor((2*b+30)*band.Body + m),

		MentalAttack:  floor((2*m + 5) * band.Mind),
		MentalDefense: floor((1.5*m + 5) * band.Mind),
		AilmentAttack: floor((m + h + 5) * band.Mind),

		SocialAttack:   floor((2*h + 5) * band.Heart),
		SocialDefense:  floor((1.5*h + 5) * band.Heart),
		AilmentDefense: floor((h + b/2 + 5) * band.Heart),
	}
}
