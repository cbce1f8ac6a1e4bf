package fallacy

import (
	"fmt"

	"github.com/cory-johannsen/dialectic/internal/game/dice"
)

// Difficulty filters which entries a random challenge may draw from.
type Difficulty string

const (
	Easy   Difficulty = "easy"   // fallacies only
	Medium Difficulty = "medium" // everything
	Hard   Difficulty = "hard"   // paradoxes only
)

// Defense reduction tuning.
const (
	baseReduction      = 0.5
	experienceStep     = 0.04
	maxExperienceBonus = 0.2
	masteryBonus       = 0.15
	minMultiplier      = 0.1
	maxMultiplier      = 1.0
)

// ChallengePool returns the entries RandomChallenge draws from for difficulty.
// An empty difficulty means Medium.
//
// Postcondition: returns an error for an unknown difficulty or an empty pool.
func ChallengePool(cat *Catalog, difficulty Difficulty) ([]*Fallacy, error) {
	var keep func(*Fallacy) bool
	switch difficulty {
	case Easy:
		keep = func(f *Fallacy) bool { return f.Type == TypeFallacy }
	case Hard:
		keep = func(f *Fallacy) bool { return f.Type == TypeParadox }
	case Medium, "":
	default:
		return nil, fmt.Errorf("unknown difficulty %q", difficulty)
	}
	pool := cat.Filter(keep)
	if len(pool) == 0 {
		return nil, fmt.Errorf("no entries for difficulty %q", difficulty)
	}
	return pool, nil
}

// RandomChallenge draws one entry uniformly from cat, filtered by difficulty.
//
// Precondition: ChallengePool(cat, difficulty) succeeds.
// Postcondition: the returned entry has exactly OptionCount options and a
// valid CorrectIndex.
func RandomChallenge(cat *Catalog, src dice.Source, difficulty Difficulty) *Fallacy {
	pool, err := ChallengePool(cat, difficulty)
	if err != nil {
		panic("fallacy: RandomChallenge precondition violated: " + err.Error())
	}
	return pool[src.Intn(len(pool))]
}

// DefenseReduction returns the multiplier applied to incoming damage after a
// defender answers f's challenge.
//
// Postcondition: 1.0 when incorrect; in [0.1, 0.5] when correct.
func DefenseReduction(f *Fallacy, correct bool, k Knowledge) float64 {
	if !correct {
		return maxMultiplier
	}
	m := baseReduction - min(maxExperienceBonus, float64(k.Experience[f.ID])*experienceStep)
	if k.Mastered[f.ID] {
		m -= masteryBonus
	}
	return max(minMultiplier, min(maxMultiplier, m))
}

// ForSpecialAttack picks a known fallacy to empower a special attack in
// domain ("body", "mind" or "heart"). Mind prefers paradoxes and logical
// entries, heart prefers rhetorical entries; otherwise any known entry is
// eligible.
//
// Postcondition: returns (nil, false) iff no known id is in cat.
func ForSpecialAttack(cat *Catalog, src dice.Source, domain string, k Knowledge) (*Fallacy, bool) {
	var known []*Fallacy
	for _, id := range k.KnownIDs() {
		if f, ok := cat.Get(id); ok {
			known = append(known, f)
		}
	}
	if len(known) == 0 {
		return nil, false
	}
	var preferred []*Fallacy
	for _, f := range known {
		switch domain {
		case "mind":
			if f.Type == TypeParadox || f.Category == CategoryLogical {
				preferred = append(preferred, f)
			}
		case "heart":
			if f.Category == CategoryRhetorical {
				preferred = append(preferred, f)
			}
		}
	}
	pool := known
	if len(preferred) > 0 {
		pool = preferred
	}
	return pool[src.Intn(len(pool))], true
}
