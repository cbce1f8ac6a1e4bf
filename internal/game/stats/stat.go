// Package stats implements derived combat statistics: the closed set of stat
// names, typed sparse modifiers over them, and the age-banded derivation of a
// full stat block from body, mind, and heart.
package stats

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

// Stat names one field of a derived stat Block.
type Stat string

const (
	PhysicalAttack  Stat = "physical_attack"
	PhysicalDefense Stat = "physical_defense"
	MentalAttack    Stat = "mental_attack"
	MentalDefense   Stat = "mental_defense"
	SocialAttack    Stat = "social_attack"
	SocialDefense   Stat = "social_defense"
	Accuracy        Stat = "accuracy"
	Evasion         Stat = "evasion"
	Speed           Stat = "speed"
	AilmentAttack   Stat = "ailment_attack"
	AilmentDefense  Stat = "ailment_defense"
)

// All lists every Stat in Block field order.
var All = []Stat{
	PhysicalAttack, PhysicalDefense,
	MentalAttack, MentalDefense,
	SocialAttack, SocialDefense,
	Accuracy, Evasion, Speed,
	AilmentAttack, AilmentDefense,
}

// Valid reports whether s is one of the known stat names.
func (s Stat) Valid() bool {
	return slices.Contains(All, s)
}

// ParseStat converts a raw name into a Stat.
//
// Postcondition: Returns an error for any name not in All.
func ParseStat(name string) (Stat, error) {
	s := Stat(name)
	if !s.Valid() {
		return "", fmt.Errorf("stats: unknown stat %q", name)
	}
	return s, nil
}

// Modifiers is a sparse set of signed deltas keyed by Stat.
// A nil Modifiers is valid and empty.
type Modifiers map[Stat]int

// NewModifiers builds Modifiers from raw names, rejecting unknown keys.
//
// Postcondition: Returns an error naming the first unknown key.
func NewModifiers(raw map[string]int) (Modifiers, error) {
	out := make(Modifiers, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		s, err := ParseStat(name)
		if err != nil {
			return nil, err
		}
		out[s] = raw[name]
	}
	return out, nil
}

// MustModifiers is NewModifiers for static content; it panics on unknown keys.
func MustModifiers(raw map[string]int) Modifiers {
	m, err := NewModifiers(raw)
	if err != nil {
		panic(err.Error())
	}
	return m
}

// UnmarshalYAML decodes a mapping of stat names to deltas, rejecting unknown names.
func (m *Modifiers) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := NewModifiers(raw)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*m = parsed
	return nil
}

// Clone returns an independent copy of m.
func (m Modifiers) Clone() Modifiers {
	if m == nil {
		return Modifiers{}
	}
	return maps.Clone(m)
}

// Plus returns a new Modifiers holding m + o, dropping zero entries.
func (m Modifiers) Plus(o Modifiers) Modifiers {
	out := m.Clone()
	for s, v := range o {
		out[s] += v
		if out[s] == 0 {
			delete(out, s)
		}
	}
	return out
}

// Minus returns a new Modifiers holding m - o, dropping zero entries.
func (m Modifiers) Minus(o Modifiers) Modifiers {
	return m.Plus(o.Negate())
}

// Negate returns a new Modifiers with every delta sign-flipped.
func (m Modifiers) Negate() Modifiers {
	out := make(Modifiers, len(m))
	for s, v := range m {
		out[s] = -v
	}
	return out
}

// Sum folds any number of Modifiers into one.
func Sum(all ...Modifiers) Modifiers {
	out := Modifiers{}
	for _, m := range all {
		out = out.Plus(m)
	}
	return out
}
