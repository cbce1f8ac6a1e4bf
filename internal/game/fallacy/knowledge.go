package fallacy

import (
	"fmt"
	"maps"
	"slices"
)

// MasteryThreshold is the number of successful identifications after which a
// fallacy becomes mastered.
const MasteryThreshold = 5

// ComplexLevelRequirement is the minimum level at which complex entries may
// be learned.
const ComplexLevelRequirement = 5

var startingFallacies = []string{"ad_hominem", "straw_man", "false_dilemma"}

var complexFallacies = map[string]bool{
	"liar_paradox":      true,
	"sorites_paradox":   true,
	"bootstrap_paradox": true,
}

// StartingFallacies returns the ids every new character knows.
func StartingFallacies() []string {
	return slices.Clone(startingFallacies)
}

// IsComplex reports whether id is gated behind ComplexLevelRequirement.
func IsComplex(id string) bool {
	return complexFallacies[id]
}

// Knowledge tracks which fallacies a character knows and has mastered.
//
// Invariant: every key of Mastered is also a key of Known; Experience has an
// entry for every known id.
type Knowledge struct {
	Known      map[string]bool
	Mastered   map[string]bool
	Experience map[string]int
}

// NewKnowledge returns Knowledge seeded with StartingFallacies at zero
// experience and nothing mastered.
func NewKnowledge() Knowledge {
	k := Knowledge{
		Known:      make(map[string]bool),
		Mastered:   make(map[string]bool),
		Experience: make(map[string]int),
	}
	for _, id := range startingFallacies {
		k.Known[id] = true
		k.Experience[id] = 0
	}
	return k
}

// Clone returns a copy of k sharing no maps with it.
func (k Knowledge) Clone() Knowledge {
	out := Knowledge{
		Known:      maps.Clone(k.Known),
		Mastered:   maps.Clone(k.Mastered),
		Experience: maps.Clone(k.Experience),
	}
	if out.Known == nil {
		out.Known = make(map[string]bool)
	}
	if out.Mastered == nil {
		out.Mastered = make(map[string]bool)
	}
	if out.Experience == nil {
		out.Experience = make(map[string]int)
	}
	return out
}

// Knows reports whether id is known.
func (k Knowledge) Knows(id string) bool { return k.Known[id] }

// IsMastered reports whether id is mastered.
func (k Knowledge) IsMastered(id string) bool { return k.Mastered[id] }

// KnownIDs returns the known ids in sorted order.
func (k Knowledge) KnownIDs() []string {
	var ids []string
	for id, ok := range k.Known {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Learn returns k with id known at zero experience. Learning an id that is
// already known returns an unchanged copy.
func Learn(k Knowledge, id string) Knowledge {
	out := k.Clone()
	if out.Known[id] {
		return out
	}
	out.Known[id] = true
	out.Experience[id] = 0
	return out
}

// GainExperience returns k with id's identification counter incremented.
//
// Precondition: id must be known.
// Postcondition: id is in Mastered once its counter is >= MasteryThreshold.
func GainExperience(k Knowledge, id string) Knowledge {
	if !k.Known[id] {
		panic(fmt.Sprintf("fallacy: GainExperience precondition violated: %q is not known", id))
	}
	out := k.Clone()
	out.Experience[id]++
	if out.Experience[id] >= MasteryThreshold {
		out.Mastered[id] = true
	}
	return out
}

// CanLearn reports whether a character at level may learn id.
func CanLearn(id string, level int, k Knowledge) bool {
	if k.Known[id] {
		return false
	}
	if IsComplex(id) && level < ComplexLevelRequirement {
		return false
	}
	return true
}
