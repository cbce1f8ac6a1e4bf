package npc

import (
	"fmt"

	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
	"github.com/cory-johannsen/dialectic/internal/game/inventory"
)

// Instance is a template brought to life: a progressed character, its
// equipment and its fallacy knowledge.
type Instance struct {
	Template  *Template
	Character character.Character
	Equipment inventory.Equipment
	Knowledge fallacy.Knowledge
}

// Spawn builds an Instance from t: creates the character, levels it up to
// t.Level, spends the allocation, equips t.Equipment from items and learns
// t.Fallacies where the level allows it.
//
// Precondition: t must be valid; items may be nil only if t.Equipment is empty.
// Postcondition: returns an error naming the first unknown item or failed equip.
func Spawn(t *Template, items *inventory.Registry) (Instance, error) {
	c, err := character.Create(t.Name, t.Portrait, t.Age)
	if err != nil {
		return Instance{}, fmt.Errorf("spawning %q: %w", t.ID, err)
	}
	for c.Level < t.Level {
		c = character.LevelUp(c)
	}
	c, err = character.AllocateStatPoints(c, character.Allocation{
		Body:  t.Allocation.Body,
		Mind:  t.Allocation.Mind,
		Heart: t.Allocation.Heart,
	})
	if err != nil {
		return Instance{}, fmt.Errorf("spawning %q: %w", t.ID, err)
	}

	var eq inventory.Equipment
	for _, id := range t.Equipment {
		var it *inventory.Item
		ok := false
		if items != nil {
			it, ok = items.Item(id)
		}
		if !ok {
			return Instance{}, fmt.Errorf("spawning %q: unknown item %q", t.ID, id)
		}
		eq, c, err = inventory.EquipItem(c, it, eq)
		if err != nil {
			return Instance{}, fmt.Errorf("spawning %q: equipping %q: %w", t.ID, id, err)
		}
	}

	k := fallacy.NewKnowledge()
	for _, id := range t.Fallacies {
		if fallacy.CanLearn(id, c.Level, k) {
			k = fallacy.Learn(k, id)
		}
	}

	return Instance{Template: t, Character: c, Equipment: eq, Knowledge: k}, nil
}

// Combatant returns the combat snapshot of i at full health and mana.
func (i Instance) Combatant() combat.Combatant {
	s := combat.FromCharacter(i.Character)
	s.Health = s.MaxHealth
	s.Mana = s.MaxMana
	k := i.Knowledge.Clone()
	return combat.Combatant{Name: i.Character.Name, Stats: s, Knowledge: &k}
}
