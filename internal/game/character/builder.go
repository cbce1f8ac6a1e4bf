package character

import (
	"errors"
	"fmt"
)

// Baseline base attributes every new character starts from.
const (
	BaseBody  = 8
	BaseMind  = 6
	BaseHeart = 5
)

// MinStartingAge is the youngest age a character may be created at.
const MinStartingAge = 10

// PortraitBonus is the base attribute bonus granted by a creation portrait.
type PortraitBonus struct {
	Body  int
	Mind  int
	Heart int
}

// Portraits maps each creation portrait to its bonus. Unknown portraits grant nothing.
var Portraits = map[string]PortraitBonus{
	"scholar":  {Mind: 2},
	"warrior":  {Body: 2},
	"diplomat": {Heart: 2},
	"wanderer": {Body: 1, Mind: 1, Heart: 1},
}

// StartingHealth returns the level-1 max health for the given body score.
func StartingHealth(body int) int { return 50 + 5*body }

// StartingMana returns the level-1 max mana for the given mind score.
func StartingMana(mind int) int { return 20 + 3*mind }

// Create builds a new level-1 Character from the baseline attributes plus the
// portrait bonus. Health and mana start full.
//
// Precondition: name must be non-empty; startingAge >= MinStartingAge.
// Postcondition: Level == 1, zero stat and skill points,
// ExperienceToNext == ExperienceRequired(2), DetailedStats in sync.
func Create(name, portrait string, startingAge int) (Character, error) {
	if name == "" {
		return Character{}, errors.New("character name must not be empty")
	}
	if startingAge < MinStartingAge {
		return Character{}, fmt.Errorf("starting age must be >= %d, got %d", MinStartingAge, startingAge)
	}

	bonus := Portraits[portrait]
	body := BaseBody + bonus.Body
	mind := BaseMind + bonus.Mind
	heart := BaseHeart + bonus.Heart

	c := Character{
		Name:             name,
		Portrait:         portrait,
		Level:            1,
		ExperienceToNext: ExperienceRequired(2),
		Age:              startingAge,
		Stats: Stats{
			Body:      body,
			Mind:      mind,
			Heart:     heart,
			Health:    StartingHealth(body),
			MaxHealth: StartingHealth(body),
			Mana:      StartingMana(mind),
			MaxMana:   StartingMana(mind),
		},
	}
	return Recompute(c), nil
}
