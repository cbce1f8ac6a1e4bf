package character

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientPoints is returned when an allocation asks for more stat
// points than the character has available.
var ErrInsufficientPoints = errors.New("insufficient stat points")

// Per-level grants.
const (
	StatPointsPerLevel  = 3
	SkillPointsPerLevel = 1
	HealthPerBodyPoint  = 5
	ManaPerMindPoint    = 3
)

// ExperienceRequired returns the experience threshold for reaching level+1
// from level, floor(100 * 1.5^(level-1)).
//
// Precondition: level >= 1.
// Postcondition: strictly increasing in level; ExperienceRequired(2) == 150.
func ExperienceRequired(level int) int {
	return int(math.Floor(100 * math.Pow(1.5, float64(level-1))))
}

// AddExperience grants amount experience and applies every level-up it
// triggers, carrying the remainder forward.
//
// Precondition: amount >= 0.
// Postcondition: result.Experience < result.ExperienceToNext.
func AddExperience(c Character, amount int) Character {
	c = c.clone()
	c.Experience += amount
	for c.Experience >= c.ExperienceToNext {
		c.Experience -= c.ExperienceToNext
		c = LevelUp(c)
	}
	return c
}

// LevelUp performs a single level transition. Experience is left untouched;
// AddExperience deducts the threshold.
//
// Postcondition: Level +1; +3 stat points; +1 skill point;
// MaxHealth += 5 + Body/2; MaxMana += 3 + Mind/2; current pools rise by the
// same amounts; DetailedStats recomputed.
func LevelUp(c Character) Character {
	c = c.clone()
	c.Level++
	c.ExperienceToNext = ExperienceRequired(c.Level + 1)
	c.AvailableStatPoints += StatPointsPerLevel
	c.SkillPoints += SkillPointsPerLevel

	healthGain := 5 + c.Stats.Body/2
	manaGain := 3 + c.Stats.Mind/2
	c.Stats.MaxHealth += healthGain
	c.Stats.Health += healthGain
	c.Stats.MaxMana += manaGain
	c.Stats.Mana += manaGain
	return Recompute(c)
}

// Allocation is a stat-point spending request.
type Allocation struct {
	Body  int
	Mind  int
	Heart int
}

// Total returns the number of points the allocation spends.
func (a Allocation) Total() int { return a.Body + a.Mind + a.Heart }

// AllocateStatPoints spends available stat points on base attributes.
//
// Precondition: every component of a is >= 0.
// Postcondition: on error c is returned unchanged; otherwise base attributes
// rise by a, AvailableStatPoints falls by a.Total(), MaxHealth rises 5 per
// body point, MaxMana 3 per mind point, and DetailedStats is recomputed.
func AllocateStatPoints(c Character, a Allocation) (Character, error) {
	if a.Body < 0 || a.Mind < 0 || a.Heart < 0 {
		return c, fmt.Errorf("stat allocation must not be negative: %+v", a)
	}
	if a.Total() > c.AvailableStatPoints {
		return c, fmt.Errorf("allocating %d points with %d available: %w", a.Total(), c.AvailableStatPoints, ErrInsufficientPoints)
	}

	c = c.clone()
	c.Stats.Body += a.Body
	c.Stats.Mind += a.Mind
	c.Stats.Heart += a.Heart
	c.AvailableStatPoints -= a.Total()
	c.Stats.MaxHealth += HealthPerBodyPoint * a.Body
	c.Stats.MaxMana += ManaPerMindPoint * a.Mind
	return Recompute(c), nil
}

// Age advances the character's age by years and rederives its stats under
// the new age band.
//
// Precondition: years >= 0.
func Age(c Character, years int) Character {
	c = c.clone()
	c.Age += years
	return Recompute(c)
}
