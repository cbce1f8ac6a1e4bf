package combat

import (
	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/dice"
)

// DieRoller rolls a single die. *dice.Roller satisfies it.
type DieRoller interface {
	// RollDie returns a value in [1, sides].
	//
	// Precondition: sides >= 2.
	RollDie(sides int) int
}

// rollerSource adapts a DieRoller to the Intn shape used for uniform picks.
type rollerSource struct{ r DieRoller }

func (s rollerSource) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	return s.r.RollDie(n) - 1
}

const (
	hitDie        = 20
	specialBonus  = 1
	minimumDamage = 1
	guardedDie    = 4
	neutralDie    = 6
	advantagedDie = 8
)

// AttackResult holds the outcome of one side's attack this turn.
type AttackResult struct {
	Attacker  Side
	Action    Action
	Advantage Advantage
	// HitRoll is the raw d20.
	HitRoll int
	// HitTotal is HitRoll + accuracy + the domain attack stat.
	HitTotal int
	// Evasion is the defender's effective evasion.
	Evasion int
	Hit     bool
	// DamageDie is the die size rolled on a hit (4, 6 or 8).
	DamageDie int
	// DamageRoll is the audited damage roll; zero on a miss.
	DamageRoll dice.RollResult
	// Damage is the final damage before any fallacy defense reduction.
	Damage int
	// Effect is the special-attack effect attached on a hit, if any.
	Effect *condition.Effect
	// EffectTarget is the side Effect lands on.
	EffectTarget Side
	// FallacyID names the fallacy that empowered a special attack, if any.
	FallacyID string
	// FallacyEffect is the debuff the empowering fallacy attached to the defender.
	FallacyEffect *condition.Effect
}

// DamageDie returns the die size for an attacker whose opponent chose
// defenderVerb, given the attacker's advantage. A defending opponent and a
// disadvantaged attacker both fall to a d4.
func DamageDie(adv Advantage, defenderVerb Verb) int {
	switch {
	case defenderVerb == Defend || adv == Disadvantaged:
		return guardedDie
	case adv == Advantaged:
		return advantagedDie
	default:
		return neutralDie
	}
}

// ResolveAttack performs the hit and damage rolls for attacker acting with
// action against a defender that chose defenderAction. Both stat blocks must
// already be effective (effects applied).
//
// Precondition: action.Verb != Defend; both actions are valid; roller is non-nil.
// Postcondition: Hit iff HitTotal > Evasion; Damage >= 1 on a hit and 0 on a miss.
func ResolveAttack(attacker Side, action Action, atk CombatantStats, defenderAction Action, def CombatantStats, roller DieRoller) AttackResult {
	mustValid(action)
	mustValid(defenderAction)
	if action.Verb == Defend {
		panic("combat: ResolveAttack precondition violated: defend does not attack")
	}
	adv := CalculateAdvantage(action.Domain, defenderAction.Domain)
	r := AttackResult{
		Attacker:  attacker,
		Action:    action,
		Advantage: adv,
		Evasion:   def.Evasion,
	}
	r.HitRoll = roller.RollDie(hitDie)
	r.HitTotal = r.HitRoll + atk.Accuracy + atk.AttackStat(action.Domain)
	r.Hit = r.HitTotal > def.Evasion
	if !r.Hit {
		return r
	}
	r.DamageDie = DamageDie(adv, defenderAction.Verb)
	r.DamageRoll = dice.Roll(DamageExpression(r.DamageDie, action.Verb), rollerSource{roller})
	r.Damage = r.DamageRoll.Total()
	return r
}

// DamageExpression returns the damage roll for a hit on a die of the given
// size: 1d<die>, +1 for a special attack, floored at 1.
func DamageExpression(die int, verb Verb) dice.Expression {
	e := dice.Die(die)
	if verb == SpecialAttack {
		e = e.Plus(specialBonus)
	}
	return e.AtLeast(minimumDamage)
}

// specialEffectID maps a domain to the effect its special attack attaches.
var specialEffectID = map[Domain]string{
	Body:  condition.IntimidatedID,
	Mind:  condition.PoisonedMindID,
	Heart: condition.EmpathicInsightID,
}

// attachSpecialEffect sets r.Effect from the domain's definition in reg.
//
// Precondition: r.Hit and r.Action.Verb == SpecialAttack.
func attachSpecialEffect(r *AttackResult, reg *condition.Registry) {
	def := reg.MustGet(specialEffectID[r.Action.Domain])
	e := def.Instance()
	r.Effect = &e
	r.EffectTarget = r.Attacker.Opponent()
	if def.Target == condition.TargetSelf {
		r.EffectTarget = r.Attacker
	}
}
