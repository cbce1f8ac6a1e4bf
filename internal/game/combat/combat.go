// Package combat resolves turn-based duels between a player and an enemy:
// the advantage triangle, hit and damage rolls, special-attack effects,
// fallacy-challenge defense, agreement, and end-of-combat detection.
package combat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/fallacy"
)

var (
	// ErrCombatOver is returned for any turn submitted after the combat ended.
	ErrCombatOver = errors.New("combat is over")
	// ErrChallengePending is returned when a turn is submitted before the
	// outstanding fallacy challenge is answered.
	ErrChallengePending = errors.New("fallacy challenge awaiting an answer")
	// ErrNoChallenge is returned by AnswerChallenge when nothing is pending.
	ErrNoChallenge = errors.New("no fallacy challenge pending")
)

// RoundEvent records what happened when one side's action was resolved.
type RoundEvent struct {
	Turn      int
	Actor     Side
	Action    Action
	Attack    *AttackResult // nil for defend and agreement
	Narrative string
}

// CombatResult is the outcome of one turn.
type CombatResult struct {
	Turn int
	// PlayerDamage is the damage the player took this turn.
	PlayerDamage int
	// EnemyDamage is the damage the enemy took this turn.
	EnemyDamage   int
	PlayerEffects []condition.Effect
	EnemyEffects  []condition.Effect
	// AgreementPoints is the running total after this turn.
	AgreementPoints int
	// FallacyChallenge is set while the turn waits for Combat.AnswerChallenge.
	// No damage or effect has been applied yet when it is set.
	FallacyChallenge *fallacy.Fallacy
	// DefenseMultiplier is the factor applied to the player's incoming damage
	// after answering a challenge; 1 when no challenge was answered.
	DefenseMultiplier float64
	Ended             bool
	Victor            Victor
	Events            []RoundEvent
}

// Options configures a Combat. Zero fields take defaults.
type Options struct {
	// Catalog supplies challenges and empowered specials. Defaults to fallacy.DefaultCatalog().
	Catalog *fallacy.Catalog
	// Conditions supplies special-attack effects. Defaults to condition.DefaultRegistry().
	Conditions *condition.Registry
	// Difficulty filters defense challenges. Defaults to fallacy.Medium.
	Difficulty fallacy.Difficulty
	Logger     *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Catalog == nil {
		o.Catalog = fallacy.DefaultCatalog()
	}
	if o.Conditions == nil {
		o.Conditions = condition.DefaultRegistry()
	}
	if o.Difficulty == "" {
		o.Difficulty = fallacy.Medium
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// pendingTurn holds a resolved but unapplied turn.
type pendingTurn struct {
	result     CombatResult
	damage     map[Side]int
	newEffects map[Side][]condition.Effect
	challenge  *fallacy.Fallacy
}

// Combat is the state of one duel. Methods are safe for concurrent use but a
// Combat is meant to be driven by a single owner.
type Combat struct {
	ID uuid.UUID

	mu        sync.Mutex
	player    Combatant
	enemy     Combatant
	agreement int
	turn      int
	end       EndState
	pending   *pendingTurn

	roller DieRoller
	opts   Options
	logger *zap.Logger
}

// NewCombat starts a duel between player and enemy. Both combatants are
// copied; later changes to the arguments do not affect the Combat.
//
// Precondition: roller must be non-nil.
func NewCombat(player, enemy Combatant, roller DieRoller, opts Options) *Combat {
	if roller == nil {
		panic("combat: NewCombat precondition violated: roller must be non-nil")
	}
	opts = opts.withDefaults()
	id := uuid.New()
	return &Combat{
		ID:     id,
		player: player.clone(),
		enemy:  enemy.clone(),
		roller: roller,
		opts:   opts,
		logger: opts.Logger.With(zap.String("combat_id", id.String())),
	}
}

// Player returns a copy of the player combatant.
func (c *Combat) Player() Combatant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.clone()
}

// Enemy returns a copy of the enemy combatant.
func (c *Combat) Enemy() Combatant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enemy.clone()
}

// AgreementPoints returns the running agreement total.
func (c *Combat) AgreementPoints() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.agreement
}

// Turn returns the number of turns started so far.
func (c *Combat) Turn() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.turn
}

// End returns the current end state.
func (c *Combat) End() EndState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.end
}

// PendingChallenge returns the challenge awaiting an answer, if any.
func (c *Combat) PendingChallenge() (*fallacy.Fallacy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil, false
	}
	return c.pending.challenge, true
}

func (c *Combat) combatant(s Side) *Combatant {
	if s == PlayerSide {
		return &c.player
	}
	return &c.enemy
}

// ResolveTurn resolves one turn in which both sides committed their actions.
//
// When the player defends against an attacking enemy the turn is suspended:
// the result carries a FallacyChallenge and nothing is applied until
// AnswerChallenge is called.
//
// Precondition: both actions are valid; panics otherwise.
// Postcondition: returns ErrCombatOver after the combat ended and
// ErrChallengePending while a challenge is unanswered, without changing state.
func (c *Combat) ResolveTurn(player, enemy Action) (CombatResult, error) {
	mustValid(player)
	mustValid(enemy)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.end.Ended {
		return CombatResult{}, ErrCombatOver
	}
	if c.pending != nil {
		return CombatResult{}, ErrChallengePending
	}

	c.turn++
	pt := &pendingTurn{
		result:     CombatResult{Turn: c.turn, DefenseMultiplier: 1},
		damage:     make(map[Side]int),
		newEffects: make(map[Side][]condition.Effect),
	}

	if player.Verb == Defend && enemy.Verb == Defend {
		c.agreement++
		pt.result.Events = append(pt.result.Events, RoundEvent{
			Turn:      c.turn,
			Action:    player,
			Narrative: fmt.Sprintf("%s and %s both hold back and find common ground (agreement %d/%d).", c.player.Name, c.enemy.Name, c.agreement, AgreementToWin),
		})
		return c.finish(pt), nil
	}

	actions := map[Side]Action{PlayerSide: player, EnemySide: enemy}
	effective := map[Side]CombatantStats{
		PlayerSide: EffectiveStats(c.player.Stats, c.player.Effects),
		EnemySide:  EffectiveStats(c.enemy.Stats, c.enemy.Effects),
	}

	first := CalculateTurnOrder(effective[PlayerSide].Speed, effective[EnemySide].Speed)
	for _, side := range []Side{first, first.Opponent()} {
		act := actions[side]
		name := c.combatant(side).Name
		if act.Verb == Defend {
			pt.result.Events = append(pt.result.Events, RoundEvent{
				Turn:      c.turn,
				Actor:     side,
				Action:    act,
				Narrative: fmt.Sprintf("%s braces to defend with %s.", name, act.Domain),
			})
			continue
		}
		opp := side.Opponent()
		r := ResolveAttack(side, act, effective[side], actions[opp], effective[opp], c.roller)
		if r.Hit && act.Verb == SpecialAttack {
			attachSpecialEffect(&r, c.opts.Conditions)
			pt.newEffects[r.EffectTarget] = append(pt.newEffects[r.EffectTarget], *r.Effect)
			if fe := c.empower(&r, c.combatant(side).Knowledge); fe != nil {
				pt.newEffects[opp] = append(pt.newEffects[opp], *fe)
			}
		}
		pt.damage[opp] += r.Damage
		pt.result.Events = append(pt.result.Events, RoundEvent{
			Turn:      c.turn,
			Actor:     side,
			Action:    act,
			Attack:    &r,
			Narrative: narrateAttack(name, c.combatant(opp).Name, r),
		})
	}

	if player.Verb == Defend {
		pt.challenge = fallacy.RandomChallenge(c.opts.Catalog, rollerSource{c.roller}, c.opts.Difficulty)
		c.pending = pt
		res := pt.result
		res.FallacyChallenge = pt.challenge
		res.AgreementPoints = c.agreement
		res.PlayerEffects = condition.CloneAll(c.player.Effects)
		res.EnemyEffects = condition.CloneAll(c.enemy.Effects)
		res.Events = append([]RoundEvent(nil), pt.result.Events...)
		c.logger.Debug("fallacy challenge issued",
			zap.Int("turn", c.turn),
			zap.String("fallacy", pt.challenge.ID),
			zap.Int("incoming_damage", pt.damage[PlayerSide]),
		)
		return res, nil
	}
	return c.finish(pt), nil
}

// AnswerChallenge completes a suspended turn with the player's chosen option.
// A correct answer reduces the player's incoming damage by the knowledge-aware
// multiplier and counts as an identification of a known fallacy.
//
// Postcondition: returns ErrNoChallenge when no turn is suspended.
func (c *Combat) AnswerChallenge(answer int) (CombatResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil {
		if c.end.Ended {
			return CombatResult{}, ErrCombatOver
		}
		return CombatResult{}, ErrNoChallenge
	}
	pt := c.pending
	c.pending = nil

	f := pt.challenge
	correct := f.Challenge.Check(answer)
	var k fallacy.Knowledge
	if c.player.Knowledge != nil {
		k = *c.player.Knowledge
	}
	mult := fallacy.DefenseReduction(f, correct, k)
	incoming := pt.damage[PlayerSide]
	pt.damage[PlayerSide] = ReduceDamage(incoming, mult)
	pt.result.DefenseMultiplier = mult

	if correct && k.Knows(f.ID) {
		next := fallacy.GainExperience(k, f.ID)
		c.player.Knowledge = &next
	}

	verdict := "misreads"
	if correct {
		verdict = "identifies"
	}
	pt.result.Events = append(pt.result.Events, RoundEvent{
		Turn:      pt.result.Turn,
		Actor:     PlayerSide,
		Narrative: fmt.Sprintf("%s %s %s: %d damage becomes %d.", c.player.Name, verdict, f.Name, incoming, pt.damage[PlayerSide]),
	})
	return c.finish(pt), nil
}

// empower adds a known fallacy's combat effect to a special attack that hit.
// It returns the debuff to attach to the opponent, or nil.
func (c *Combat) empower(r *AttackResult, k *fallacy.Knowledge) *condition.Effect {
	if k == nil {
		return nil
	}
	f, ok := fallacy.ForSpecialAttack(c.opts.Catalog, rollerSource{c.roller}, string(r.Action.Domain), *k)
	if !ok {
		return nil
	}
	r.FallacyID = f.ID
	r.Damage += f.CombatEffect.Damage
	if f.CombatEffect.Duration <= 0 || len(f.CombatEffect.Modifiers) == 0 {
		return nil
	}
	e := condition.Effect{
		ID:        "fallacy:" + f.ID,
		Name:      f.Name,
		Kind:      condition.Debuff,
		Duration:  f.CombatEffect.Duration,
		Modifiers: f.CombatEffect.Modifiers.Clone(),
	}
	r.FallacyEffect = &e
	return &e
}

// finish applies a resolved turn: damage, effect decay, new effects, and the
// end check.
//
// Precondition: c.mu is held.
func (c *Combat) finish(pt *pendingTurn) CombatResult {
	res := pt.result
	res.PlayerDamage = pt.damage[PlayerSide]
	res.EnemyDamage = pt.damage[EnemySide]

	for _, side := range []Side{PlayerSide, EnemySide} {
		cbt := c.combatant(side)
		cbt.Stats.Health = max(0, cbt.Stats.Health-pt.damage[side])
		cbt.Effects = ProcessTurnBuffs(cbt.Effects)
		for _, e := range pt.newEffects[side] {
			cbt.Effects = condition.Apply(cbt.Effects, e)
		}
	}

	c.end = CheckCombatEnd(c.player.Stats.Health, c.enemy.Stats.Health, c.agreement)
	res.AgreementPoints = c.agreement
	res.PlayerEffects = condition.CloneAll(c.player.Effects)
	res.EnemyEffects = condition.CloneAll(c.enemy.Effects)
	res.Ended = c.end.Ended
	res.Victor = c.end.Victor

	c.logger.Debug("turn resolved",
		zap.Int("turn", res.Turn),
		zap.Int("player_damage", res.PlayerDamage),
		zap.Int("enemy_damage", res.EnemyDamage),
		zap.Int("player_health", c.player.Stats.Health),
		zap.Int("enemy_health", c.enemy.Stats.Health),
		zap.Int("agreement", c.agreement),
	)
	if c.end.Ended {
		c.logger.Info("combat ended",
			zap.String("victor", string(c.end.Victor)),
			zap.Int("turns", c.turn),
		)
	}
	return res
}

func narrateAttack(attacker, defender string, r AttackResult) string {
	verb := "attacks"
	if r.Action.Verb == SpecialAttack {
		verb = "unleashes a special attack on"
	}
	if !r.Hit {
		return fmt.Sprintf("%s %s %s with %s (%s): %d vs evasion %d, miss.",
			attacker, verb, defender, r.Action.Domain, r.Advantage, r.HitTotal, r.Evasion)
	}
	s := fmt.Sprintf("%s %s %s with %s (%s): %d vs evasion %d, hit for %d (%s).",
		attacker, verb, defender, r.Action.Domain, r.Advantage, r.HitTotal, r.Evasion, r.Damage, r.DamageRoll)
	if r.FallacyID != "" {
		s += fmt.Sprintf(" Invokes %s.", r.FallacyID)
	}
	if r.Effect != nil {
		target := defender
		if r.EffectTarget == r.Attacker {
			target = attacker
		}
		s += fmt.Sprintf(" %s gains %s.", target, r.Effect.Name)
	}
	return s
}
