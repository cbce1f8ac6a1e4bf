// Package npc provides combatant templates loaded from YAML and turns them
// into fully progressed characters ready for combat.
package npc

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/dialectic/internal/game/character"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
)

// Allocation is how a template spends the stat points earned by leveling.
type Allocation struct {
	Body  int `yaml:"body"`
	Mind  int `yaml:"mind"`
	Heart int `yaml:"heart"`
}

// Template defines a reusable combatant archetype loaded from YAML.
type Template struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Portrait    string     `yaml:"portrait"`
	Age         int        `yaml:"age"`
	Level       int        `yaml:"level"`
	Allocation  Allocation `yaml:"allocation"`
	// Tactic is the Lua tactic that drives this template as an enemy.
	Tactic string `yaml:"tactic"`
	// Fallacies are learned on top of the starting set.
	Fallacies []string `yaml:"fallacies"`
	// Equipment lists item ids equipped in order.
	Equipment []string `yaml:"equipment"`
	// ExperienceReward is granted to whoever defeats this template.
	ExperienceReward int `yaml:"experience_reward"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, Age >= character.MinStartingAge,
// Level >= 1, the allocation is non-negative and fits the points earned by Level,
// and ExperienceReward >= 0.
func (t *Template) Validate() error {
	var errs []error
	if t.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if t.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if t.Age < character.MinStartingAge {
		errs = append(errs, fmt.Errorf("age must be >= %d, got %d", character.MinStartingAge, t.Age))
	}
	if t.Level < 1 {
		errs = append(errs, fmt.Errorf("level must be >= 1, got %d", t.Level))
	}
	a := t.Allocation
	if a.Body < 0 || a.Mind < 0 || a.Heart < 0 {
		errs = append(errs, errors.New("allocation must not be negative"))
	}
	if budget := (t.Level - 1) * character.StatPointsPerLevel; a.Body+a.Mind+a.Heart > budget {
		errs = append(errs, fmt.Errorf("allocation spends %d points but level %d earns %d", a.Body+a.Mind+a.Heart, t.Level, budget))
	}
	if t.ExperienceReward < 0 {
		errs = append(errs, fmt.Errorf("experience_reward must be >= 0, got %d", t.ExperienceReward))
	}
	if len(errs) > 0 {
		return fmt.Errorf("npc template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// ValidateFallacies reports every template fallacy id missing from cat.
func (t *Template) ValidateFallacies(cat *fallacy.Catalog) error {
	var errs []error
	for _, id := range t.Fallacies {
		if _, ok := cat.Get(id); !ok {
			errs = append(errs, fmt.Errorf("unknown fallacy %q", id))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("npc template %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

// LoadTemplateFromBytes parses a single template from raw YAML bytes,
// rejecting unknown fields.
//
// Postcondition: Returns a validated *Template, or an error.
func LoadTemplateFromBytes(data []byte) (*Template, error) {
	var tmpl Template
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("parsing template YAML: %w", err)
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadTemplates reads all *.yaml files in dir and returns the parsed templates keyed by ID.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or validate
// failure or duplicate ID; on error, the partial result is discarded.
func LoadTemplates(dir string) (map[string]*Template, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading npc dir %q: %w", dir, err)
	}

	templates := make(map[string]*Template)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}

		tmpl, err := LoadTemplateFromBytes(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if _, dup := templates[tmpl.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate template id %q", path, tmpl.ID)
		}
		templates[tmpl.ID] = tmpl
	}
	return templates, nil
}
