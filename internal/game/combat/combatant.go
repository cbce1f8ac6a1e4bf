package combat

import (
	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// Side identifies one of the two participants.
type Side string

const (
	PlayerSide Side = "player"
	EnemySide  Side = "enemy"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == PlayerSide {
		return EnemySide
	}
	return PlayerSide
}

// CombatantStats is the per-side snapshot used during one combat.
type CombatantStats struct {
	stats.Block
	Health    int
	MaxHealth int
	Mana      int
	MaxMana   int
}

// FromCharacter builds a snapshot from c's current pools and DetailedStats
// (which already include equipment bonuses).
func FromCharacter(c character.Character) CombatantStats {
	return CombatantStats{
		Block:     c.DetailedStats,
		Health:    c.Stats.Health,
		MaxHealth: c.Stats.MaxHealth,
		Mana:      c.Stats.Mana,
		MaxMana:   c.Stats.MaxMana,
	}
}

// EffectiveStats returns base with every active effect's modifiers added and
// each derived stat floored at 1. Pools are untouched.
//
// Postcondition: every stats.Stat of the result is >= 1.
func EffectiveStats(base CombatantStats, effects []condition.Effect) CombatantStats {
	base.Block = base.Block.ApplyFloored(condition.Modifiers(effects), 1)
	return base
}

// AttackStat returns the attack value matching d.
func (s CombatantStats) AttackStat(d Domain) int {
	switch d {
	case Body:
		return s.PhysicalAttack
	case Mind:
		return s.MentalAttack
	case Heart:
		return s.SocialAttack
	}
	panic("combat: AttackStat precondition violated: invalid domain " + string(d))
}

// Combatant is one participant: a display name, a stats snapshot, active
// effects and, optionally, fallacy knowledge. Knowledge enables
// fallacy-empowered special attacks and, for the player, challenge mastery.
type Combatant struct {
	Name      string
	Stats     CombatantStats
	Effects   []condition.Effect
	Knowledge *fallacy.Knowledge
}

func (c Combatant) clone() Combatant {
	c.Effects = condition.CloneAll(c.Effects)
	if c.Knowledge != nil {
		k := c.Knowledge.Clone()
		c.Knowledge = &k
	}
	return c
}
