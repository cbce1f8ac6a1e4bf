// Package condition models timed buffs and debuffs: their static definitions,
// the active effect values carried by combatants, and turn-end decay.
package condition

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// Kind is whether an effect helps or hinders its bearer.
type Kind string

const (
	Buff   Kind = "buff"
	Debuff Kind = "debuff"
)

// Target is who an effect lands on when its source hits.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// Built-in definition ids.
const (
	IntimidatedID     = "intimidated"
	PoisonedMindID    = "poisoned_mind"
	EmpathicInsightID = "empathic_insight"
)

// Definition is the static description of an effect.
type Definition struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Kind        Kind            `yaml:"kind"`
	Target      Target          `yaml:"target"`
	Duration    int             `yaml:"duration"` // turns
	Modifiers   stats.Modifiers `yaml:"modifiers"`
}

// Validate checks definition invariants.
func (d *Definition) Validate() error {
	var errs []error
	if d.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if d.Kind != Buff && d.Kind != Debuff {
		errs = append(errs, fmt.Errorf("kind must be buff or debuff, got %q", d.Kind))
	}
	if d.Target != TargetSelf && d.Target != TargetOpponent {
		errs = append(errs, fmt.Errorf("target must be self or opponent, got %q", d.Target))
	}
	if d.Duration <= 0 {
		errs = append(errs, fmt.Errorf("duration must be > 0, got %d", d.Duration))
	}
	if len(errs) > 0 {
		return fmt.Errorf("condition %q: %w", d.ID, errors.Join(errs...))
	}
	return nil
}

// Instance returns a fresh active Effect for d at full duration.
func (d *Definition) Instance() Effect {
	return Effect{
		ID:        d.ID,
		Name:      d.Name,
		Kind:      d.Kind,
		Duration:  d.Duration,
		Modifiers: d.Modifiers.Clone(),
	}
}

// Intimidated is the body special-attack debuff.
func Intimidated() *Definition {
	return &Definition{
		ID:          IntimidatedID,
		Name:        "Intimidated",
		Description: "Shaken by a show of force; attacks land less often.",
		Kind:        Debuff,
		Target:      TargetOpponent,
		Duration:    3,
		Modifiers:   stats.Modifiers{stats.Accuracy: -3},
	}
}

// PoisonedMind is the mind special-attack debuff.
func PoisonedMind() *Definition {
	return &Definition{
		ID:          PoisonedMindID,
		Name:        "Poisoned Mind",
		Description: "A doubt that will not go away.",
		Kind:        Debuff,
		Target:      TargetOpponent,
		Duration:    4,
		Modifiers:   stats.Modifiers{stats.MentalAttack: -2, stats.MentalDefense: -3},
	}
}

// EmpathicInsight is the heart special-attack buff. It lands on the attacker.
func EmpathicInsight() *Definition {
	return &Definition{
		ID:          EmpathicInsightID,
		Name:        "Empathic Insight",
		Description: "Reading the room pays off.",
		Kind:        Buff,
		Target:      TargetSelf,
		Duration:    2,
		Modifiers:   stats.Modifiers{stats.SocialAttack: 3, stats.SocialDefense: 2},
	}
}

// Registry holds Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// DefaultRegistry returns a Registry holding the three special-attack effects.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []*Definition{Intimidated(), PoisonedMind(), EmpathicInsight()} {
		r.Register(d)
	}
	return r
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// MustGet returns the Definition for id and panics if it is absent.
func (r *Registry) MustGet(id string) *Definition {
	d, ok := r.defs[id]
	if !ok {
		panic(fmt.Sprintf("condition: unknown definition %q", id))
	}
	return d
}

// All returns every Definition sorted by ID.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b *Definition) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Definition,
// and registers it on top of DefaultRegistry. A file may override a built-in
// by reusing its id.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading condition dir %q: %w", dir, err)
	}
	reg := DefaultRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
