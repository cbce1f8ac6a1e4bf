// Package character defines the character domain model, pure creation logic,
// and the progression rules (experience, leveling, stat allocation, aging).
//
// Every operation takes a Character value and returns a new one; inputs are
// never mutated.
package character

import "github.com/cory-johannsen/dialectic/internal/game/stats"

// Stats holds a character's base attributes and resource pools.
//
// Invariant: all values >= 0; Health <= MaxHealth; Mana <= MaxMana.
type Stats struct {
	Body      int
	Mind      int
	Heart     int
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
}

// Base returns the attributes stat derivation reads.
func (s Stats) Base() stats.Base {
	return stats.Base{Body: s.Body, Mind: s.Mind, Heart: s.Heart}
}

// Character is the progression-facing player entity.
type Character struct {
	Name     string
	Portrait string

	Level            int
	Experience       int
	ExperienceToNext int
	Age              int

	Stats         Stats
	DetailedStats stats.Block
	// EquipmentBonus is the sum of every equipped item's stat deltas. It is
	// folded into DetailedStats on every recomputation.
	EquipmentBonus stats.Modifiers

	AvailableStatPoints int
	SkillPoints         int
}

// clone returns a copy of c that shares no mutable state with it.
func (c Character) clone() Character {
	c.EquipmentBonus = c.EquipmentBonus.Clone()
	return c
}

// Recompute returns c with DetailedStats rebuilt from base attributes, age,
// and EquipmentBonus.
//
// Postcondition: DetailedStats == stats.Derive(c.Stats.Base(), c.Age).Apply(c.EquipmentBonus).
func Recompute(c Character) Character {
	c = c.clone()
	c.DetailedStats = stats.Derive(c.Stats.Base(), c.Age).Apply(c.EquipmentBonus)
	return c
}

// WithEquipmentBonus returns c with delta added to EquipmentBonus and
// DetailedStats recomputed. Passing a negated delta reverses a prior call.
func WithEquipmentBonus(c Character, delta stats.Modifiers) Character {
	c = c.clone()
	c.EquipmentBonus = c.EquipmentBonus.Plus(delta)
	return Recompute(c)
}
