// Package inventory holds item definitions, equipment slots, and the rules for
// equipping items and detecting set bonuses.
package inventory

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// ItemType is the equipment slot family an item occupies.
type ItemType string

const (
	TypeWeapon    ItemType = "weapon"
	TypeArmor     ItemType = "armor"
	TypeAccessory ItemType = "accessory"
)

// SetTagPrefix marks a special-effect tag as a set-piece tag, e.g. "set:sophist".
const SetTagPrefix = "set:"

// Item is the static definition of an equippable item.
type Item struct {
	ID               string          `yaml:"id"`
	Name             string          `yaml:"name"`
	Description      string          `yaml:"description"`
	Type             ItemType        `yaml:"type"`
	LevelRequirement int             `yaml:"level_requirement"`
	StatBonuses      stats.Modifiers `yaml:"stat_bonuses"`
	SpecialEffects   []string        `yaml:"special_effects"`
}

// Validate checks that the Item satisfies its invariants.
//
// Postcondition: returns nil iff all fields are valid.
func (it *Item) Validate() error {
	var errs []error
	if it.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if it.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	switch it.Type {
	case TypeWeapon, TypeArmor, TypeAccessory:
	default:
		errs = append(errs, fmt.Errorf("Type must be one of weapon, armor, accessory; got %q", it.Type))
	}
	if it.LevelRequirement < 0 {
		errs = append(errs, errors.New("LevelRequirement must be >= 0"))
	}
	for s := range it.StatBonuses {
		if !s.Valid() {
			errs = append(errs, fmt.Errorf("unknown stat bonus %q", s))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadItems reads all *.yaml and *.yml files from dir. Each file holds a YAML
// sequence of Items; every item is validated.
//
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Items or the first encountered error.
func LoadItems(dir string) ([]*Item, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: cannot read directory %q: %w", dir, err)
	}

	var items []*Item
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadItems: cannot read file %q: %w", path, err)
		}
		var batch []*Item
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&batch); err != nil {
			return nil, fmt.Errorf("LoadItems: cannot parse file %q: %w", path, err)
		}
		for _, it := range batch {
			if err := it.Validate(); err != nil {
				return nil, fmt.Errorf("LoadItems: invalid item in %q: %w", path, err)
			}
		}
		items = append(items, batch...)
	}
	return items, nil
}
