package condition

import (
	"slices"

	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

// Effect is one buff or debuff currently applied to a combatant.
//
// Invariant: Duration > 0 while the effect is active.
type Effect struct {
	ID        string
	Name      string
	Kind      Kind
	Duration  int // turns remaining
	Modifiers stats.Modifiers
}

// Clone returns a copy of e sharing no map with it.
func (e Effect) Clone() Effect {
	e.Modifiers = e.Modifiers.Clone()
	return e
}

// CloneAll returns a deep copy of effects. A nil or empty input yields nil.
func CloneAll(effects []Effect) []Effect {
	if len(effects) == 0 {
		return nil
	}
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = e.Clone()
	}
	return out
}

// Apply returns effects with e added. Re-applying an active effect refreshes
// its duration to the longer of the two instead of stacking.
//
// Postcondition: the input slice is not modified.
func Apply(effects []Effect, e Effect) []Effect {
	out := CloneAll(effects)
	if i := slices.IndexFunc(out, func(x Effect) bool { return x.ID == e.ID }); i >= 0 {
		out[i].Duration = max(out[i].Duration, e.Duration)
		return out
	}
	return append(out, e.Clone())
}

// Tick decrements every effect's duration by one and drops those reaching 0.
//
// Postcondition: every returned effect has Duration > 0; the input slice is not modified.
func Tick(effects []Effect) []Effect {
	var out []Effect
	for _, e := range effects {
		e.Duration--
		if e.Duration <= 0 {
			continue
		}
		out = append(out, e.Clone())
	}
	return out
}

// Expired returns the ids of effects that Tick would drop.
func Expired(effects []Effect) []string {
	var ids []string
	for _, e := range effects {
		if e.Duration <= 1 {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Has reports whether an effect with id is active.
func Has(effects []Effect, id string) bool {
	return slices.ContainsFunc(effects, func(e Effect) bool { return e.ID == id })
}

// Modifiers sums the stat deltas of every active effect.
func Modifiers(effects []Effect) stats.Modifiers {
	all := make([]stats.Modifiers, 0, len(effects))
	for _, e := range effects {
		all = append(all, e.Modifiers)
	}
	return stats.Sum(all...)
}
