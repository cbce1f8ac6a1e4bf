package combat

import "fmt"

// Domain is one axis of the advantage triangle.
type Domain string

const (
	Body  Domain = "body"
	Mind  Domain = "mind"
	Heart Domain = "heart"
)

// Valid reports whether d is Body, Mind or Heart.
func (d Domain) Valid() bool {
	return d == Body || d == Mind || d == Heart
}

// beats maps each domain to the domain it has advantage over.
var beats = map[Domain]Domain{
	Body:  Mind,
	Mind:  Heart,
	Heart: Body,
}

// Verb is what a combatant does with its chosen domain.
type Verb string

const (
	Attack        Verb = "attack"
	SpecialAttack Verb = "special_attack"
	Defend        Verb = "defend"
)

// Valid reports whether v is Attack, SpecialAttack or Defend.
func (v Verb) Valid() bool {
	return v == Attack || v == SpecialAttack || v == Defend
}

// Action is one side's committed choice for a turn.
type Action struct {
	Domain Domain
	Verb   Verb
}

// String returns e.g. "mind special_attack".
func (a Action) String() string {
	return fmt.Sprintf("%s %s", a.Domain, a.Verb)
}

// Validate returns an error if either field is out of range.
func (a Action) Validate() error {
	if !a.Domain.Valid() {
		return fmt.Errorf("invalid domain %q", a.Domain)
	}
	if !a.Verb.Valid() {
		return fmt.Errorf("invalid verb %q", a.Verb)
	}
	return nil
}

// mustValid panics when a is malformed; a bad action is a caller contract violation.
func mustValid(a Action) {
	if err := a.Validate(); err != nil {
		panic("combat: action precondition violated: " + err.Error())
	}
}

// Advantage is the outcome of comparing two domains.
type Advantage int

const (
	Neutral Advantage = iota
	Advantaged
	Disadvantaged
)

// String returns "advantage", "neutral" or "disadvantage".
func (a Advantage) String() string {
	switch a {
	case Advantaged:
		return "advantage"
	case Disadvantaged:
		return "disadvantage"
	default:
		return "neutral"
	}
}

// CalculateAdvantage reports how attacker fares against defender under the
// triangle: body beats mind, mind beats heart, heart beats body.
//
// Precondition: both domains are valid.
func CalculateAdvantage(attacker, defender Domain) Advantage {
	if !attacker.Valid() || !defender.Valid() {
		panic(fmt.Sprintf("combat: CalculateAdvantage precondition violated: %q vs %q", attacker, defender))
	}
	switch {
	case attacker == defender:
		return Neutral
	case beats[attacker] == defender:
		return Advantaged
	default:
		return Disadvantaged
	}
}
