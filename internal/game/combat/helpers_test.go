package combat_test

import (
	"fmt"

	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// scriptedRoller returns rolls in order and records the die sizes asked for.
type scriptedRoller struct {
	rolls []int
	sides []int
}

func script(rolls ...int) *scriptedRoller {
	return &scriptedRoller{rolls: rolls}
}

func (s *scriptedRoller) RollDie(sides int) int {
	if len(s.rolls) == 0 {
		panic(fmt.Sprintf("scriptedRoller: no roll left for d%d", sides))
	}
	v := s.rolls[0]
	s.rolls = s.rolls[1:]
	s.sides = append(s.sides, sides)
	return v
}

// flatStats gives every stat 5 except evasion 20 and speed 10, so a d20 of 11
// or more hits.
func flatStats(health int) combat.CombatantStats {
	return combat.CombatantStats{
		Block: stats.Block{
			PhysicalAttack: 5, PhysicalDefense: 5,
			MentalAttack: 5, MentalDefense: 5,
			SocialAttack: 5, SocialDefense: 5,
			Accuracy: 5, Evasion: 20, Speed: 10,
			AilmentAttack: 5, AilmentDefense: 5,
		},
		Health:    health,
		MaxHealth: health,
		Mana:      10,
		MaxMana:   10,
	}
}

func fighter(name string, health int) combat.Combatant {
	return combat.Combatant{Name: name, Stats: flatStats(health)}
}

func act(d combat.Domain, v combat.Verb) combat.Action {
	return combat.Action{Domain: d, Verb: v}
}
