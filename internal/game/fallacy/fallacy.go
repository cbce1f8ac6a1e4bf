// Package fallacy is the fallacy and paradox knowledge base: an immutable
// catalog of challenges with combat payloads, and the per-character knowledge
// tracker that records which entries are known and mastered.
package fallacy

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// Type distinguishes fallacies from paradoxes.
type Type string

const (
	TypeFallacy Type = "fallacy"
	TypeParadox Type = "paradox"
)

// Category is the broad family of a catalog entry.
type Category string

const (
	CategoryLogical       Category = "logical"
	CategoryRhetorical    Category = "rhetorical"
	CategoryPhilosophical Category = "philosophical"
)

// OptionCount is the exact number of answer options every challenge carries.
const OptionCount = 4

// Challenge is the multiple-choice question presented when a combatant defends.
type Challenge struct {
	Question     string   `yaml:"question"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
}

// Check reports whether answer is the correct option index.
func (c Challenge) Check(answer int) bool {
	return answer == c.CorrectIndex
}

// CombatEffect is the payload a fallacy carries into combat when invoked.
type CombatEffect struct {
	Damage    int             `yaml:"damage"`
	Duration  int             `yaml:"duration"`
	Modifiers stats.Modifiers `yaml:"modifiers"`
}

// Fallacy is one immutable catalog entry.
type Fallacy struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Type         Type         `yaml:"type"`
	Category     Category     `yaml:"category"`
	Description  string       `yaml:"description"`
	Challenge    Challenge    `yaml:"challenge"`
	CombatEffect CombatEffect `yaml:"combat_effect"`
}

// Clone returns a copy of f sharing no slices or maps with it.
func (f *Fallacy) Clone() *Fallacy {
	out := *f
	out.Challenge.Options = slices.Clone(f.Challenge.Options)
	out.CombatEffect.Modifiers = f.CombatEffect.Modifiers.Clone()
	return &out
}

// Validate checks catalog-entry invariants.
//
// Postcondition: returns nil iff the entry has an ID, a known type and
// category, exactly four options and an in-range correct index.
func (f *Fallacy) Validate() error {
	var errs []error
	if f.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if f.Type != TypeFallacy && f.Type != TypeParadox {
		errs = append(errs, fmt.Errorf("type must be fallacy or paradox, got %q", f.Type))
	}
	switch f.Category {
	case CategoryLogical, CategoryRhetorical, CategoryPhilosophical:
	default:
		errs = append(errs, fmt.Errorf("category must be logical, rhetorical or philosophical, got %q", f.Category))
	}
	if len(f.Challenge.Options) != OptionCount {
		errs = append(errs, fmt.Errorf("challenge must have exactly %d options, got %d", OptionCount, len(f.Challenge.Options)))
	}
	if f.Challenge.CorrectIndex < 0 || f.Challenge.CorrectIndex >= OptionCount {
		errs = append(errs, fmt.Errorf("correct_index must be in [0, %d), got %d", OptionCount, f.Challenge.CorrectIndex))
	}
	if f.CombatEffect.Damage < 0 || f.CombatEffect.Duration < 0 {
		errs = append(errs, errors.New("combat_effect damage and duration must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("fallacy %q: %w", f.ID, errors.Join(errs...))
	}
	return nil
}
