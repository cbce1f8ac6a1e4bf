package inventory

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// ErrLevelRequirement is returned when equipping an item above the character's level.
var ErrLevelRequirement = errors.New("level requirement not met")

// ErrNotEquipped is returned when unequipping an item that is not equipped.
var ErrNotEquipped = errors.New("item not equipped")

// Equipment holds the items a character has equipped. It is used as a value;
// the equip operations return a new Equipment and never modify their input.
type Equipment struct {
	Weapon      *Item
	Armor       *Item
	Accessories []*Item
}

// clone returns a copy of e with its own accessory slice.
func (e Equipment) clone() Equipment {
	e.Accessories = slices.Clone(e.Accessories)
	return e
}

// Items returns every equipped item: weapon, armor, then accessories.
func (e Equipment) Items() []*Item {
	var out []*Item
	if e.Weapon != nil {
		out = append(out, e.Weapon)
	}
	if e.Armor != nil {
		out = append(out, e.Armor)
	}
	return append(out, e.Accessories...)
}

// Bonus returns the summed stat bonuses of every equipped item.
func (e Equipment) Bonus() stats.Modifiers {
	total := stats.Modifiers{}
	for _, it := range e.Items() {
		total = total.Plus(it.StatBonuses)
	}
	return total
}

// EquipItem places item in its slot and folds its stat bonuses into c.
// A weapon or armor already in the slot is displaced and its bonuses reversed;
// accessories append.
//
// Precondition: item must be non-nil with a valid Type.
// Postcondition: on error eq and c are returned unchanged; otherwise
// c.DetailedStats includes every delta of item.StatBonuses.
func EquipItem(c character.Character, item *Item, eq Equipment) (Equipment, character.Character, error) {
	if c.Level < item.LevelRequirement {
		return eq, c, fmt.Errorf("equipping %q requires level %d, character is level %d: %w",
			item.ID, item.LevelRequirement, c.Level, ErrLevelRequirement)
	}

	next := eq.clone()
	delta := item.StatBonuses.Clone()
	switch item.Type {
	case TypeWeapon:
		if next.Weapon != nil {
			delta = delta.Minus(next.Weapon.StatBonuses)
		}
		next.Weapon = item
	case TypeArmor:
		if next.Armor != nil {
			delta = delta.Minus(next.Armor.StatBonuses)
		}
		next.Armor = item
	case TypeAccessory:
		next.Accessories = append(next.Accessories, item)
	default:
		panic(fmt.Sprintf("inventory: EquipItem precondition violated: unknown item type %q", item.Type))
	}
	return next, character.WithEquipmentBonus(c, delta), nil
}

// UnequipItem removes the item with itemID from eq and reverses its bonuses on c.
// For accessories the first matching entry is removed.
//
// Postcondition: on error eq and c are returned unchanged.
func UnequipItem(c character.Character, itemID string, eq Equipment) (Equipment, character.Character, error) {
	next := eq.clone()
	var removed *Item
	switch {
	case next.Weapon != nil && next.Weapon.ID == itemID:
		removed, next.Weapon = next.Weapon, nil
	case next.Armor != nil && next.Armor.ID == itemID:
		removed, next.Armor = next.Armor, nil
	default:
		i := slices.IndexFunc(next.Accessories, func(it *Item) bool { return it.ID == itemID })
		if i < 0 {
			return eq, c, fmt.Errorf("unequipping %q: %w", itemID, ErrNotEquipped)
		}
		removed = next.Accessories[i]
		next.Accessories = slices.Delete(next.Accessories, i, i+1)
	}
	return next, character.WithEquipmentBonus(c, removed.StatBonuses.Negate()), nil
}

// SetBonuses returns one "<set>_set_bonus" token for every set tag that
// appears on at least two of items. Tokens are sorted.
func SetBonuses(items []*Item) []string {
	counts := make(map[string]int)
	for _, it := range items {
		seen := make(map[string]bool)
		for _, tag := range it.SpecialEffects {
			name, ok := strings.CutPrefix(tag, SetTagPrefix)
			if !ok || name == "" || seen[name] {
				continue
			}
			seen[name] = true
			counts[name]++
		}
	}
	var out []string
	for name, n := range counts {
		if n >= 2 {
			out = append(out, name+"_set_bonus")
		}
	}
	sort.Strings(out)
	return out
}
