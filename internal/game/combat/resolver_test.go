package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/dice"
	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

func TestDamageDie(t *testing.T) {
	assert.Equal(t, 8, combat.DamageDie(combat.Advantaged, combat.Attack))
	assert.Equal(t, 6, combat.DamageDie(combat.Neutral, combat.SpecialAttack))
	assert.Equal(t, 4, combat.DamageDie(combat.Disadvantaged, combat.Attack))
	assert.Equal(t, 4, combat.DamageDie(combat.Advantaged, combat.Defend))
	assert.Equal(t, 4, combat.DamageDie(combat.Neutral, combat.Defend))
}

func TestResolveAttack_HitAtAdvantage(t *testing.T) {
	r := script(15, 3)
	res := combat.ResolveAttack(combat.PlayerSide, act(combat.Body, combat.Attack), flatStats(50),
		act(combat.Mind, combat.Attack), flatStats(50), r)

	assert.True(t, res.Hit)
	assert.Equal(t, 25, res.HitTotal)
	assert.Equal(t, combat.Advantaged, res.Advantage)
	assert.Equal(t, 8, res.DamageDie)
	assert.Equal(t, 3, res.Damage)
	assert.Equal(t, []int{20, 8}, r.sides)
}

func TestResolveAttack_TieFavorsDefender(t *testing.T) {
	r := script(10)
	res := combat.ResolveAttack(combat.PlayerSide, act(combat.Body, combat.Attack), flatStats(50),
		act(combat.Body, combat.Attack), flatStats(50), r)

	assert.False(t, res.Hit)
	assert.Equal(t, 20, res.HitTotal)
	assert.Zero(t, res.Damage)
	assert.Equal(t, []int{20}, r.sides, "no damage roll on a miss")
}

func TestResolveAttack_SpecialAddsOneAtDisadvantage(t *testing.T) {
	r := script(20, 4)
	res := combat.ResolveAttack(combat.EnemySide, act(combat.Mind, combat.SpecialAttack), flatStats(50),
		act(combat.Body, combat.Attack), flatStats(50), r)

	assert.Equal(t, combat.Disadvantaged, res.Advantage)
	assert.Equal(t, 4, res.DamageDie)
	assert.Equal(t, 5, res.Damage)
	assert.Equal(t, "1d4+1 → [4] +1 = 5", res.DamageRoll.String())
	assert.Equal(t, []int{20, 4}, r.sides)
}

func TestDamageExpression(t *testing.T) {
	plain := combat.DamageExpression(6, combat.Attack)
	assert.Equal(t, "1d6", plain.Raw)
	assert.Equal(t, 1, plain.Count)
	assert.Equal(t, 6, plain.Sides)
	assert.Zero(t, plain.Modifier)
	assert.Equal(t, 1, plain.Floor)

	special := combat.DamageExpression(8, combat.SpecialAttack)
	assert.Equal(t, "1d8+1", special.Raw)
	assert.Equal(t, 1, special.Modifier)
	assert.Equal(t, 1, special.Floor)
}

func TestResolveAttack_MissHasNoDamageRoll(t *testing.T) {
	res := combat.ResolveAttack(combat.PlayerSide, act(combat.Body, combat.Attack), flatStats(50),
		act(combat.Body, combat.Attack), flatStats(50), script(1))
	assert.False(t, res.Hit)
	assert.Empty(t, res.DamageRoll.Dice)
	assert.Zero(t, res.DamageRoll.Total())
}

func TestResolveAttack_DefendPanics(t *testing.T) {
	assert.Panics(t, func() {
		combat.ResolveAttack(combat.PlayerSide, act(combat.Body, combat.Defend), flatStats(1),
			act(combat.Body, combat.Attack), flatStats(1), script())
	})
}

func TestResolveAttack_Property_DamageRange(t *testing.T) {
	domains := []combat.Domain{combat.Body, combat.Mind, combat.Heart}
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Uint64().Draw(rt, "seed")
		a := act(rapid.SampledFrom(domains).Draw(rt, "a"), rapid.SampledFrom([]combat.Verb{combat.Attack, combat.SpecialAttack}).Draw(rt, "av"))
		d := act(rapid.SampledFrom(domains).Draw(rt, "d"), rapid.SampledFrom([]combat.Verb{combat.Attack, combat.SpecialAttack, combat.Defend}).Draw(rt, "dv"))
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), nil)

		res := combat.ResolveAttack(combat.PlayerSide, a, flatStats(50), d, flatStats(50), roller)
		assert.Equal(rt, res.HitTotal > res.Evasion, res.Hit)
		if !res.Hit {
			assert.Zero(rt, res.Damage)
			return
		}
		bonus := 0
		if a.Verb == combat.SpecialAttack {
			bonus = 1
		}
		assert.GreaterOrEqual(rt, res.Damage, 1)
		assert.LessOrEqual(rt, res.Damage, res.DamageDie+bonus)
		assert.Equal(rt, res.DamageRoll.Total(), res.Damage)
		assert.Equal(rt, bonus, res.DamageRoll.Modifier)
		if d.Verb == combat.Defend {
			assert.Equal(rt, 4, res.DamageDie)
		}
	})
}

func TestEffectiveStats_FloorsAtOne(t *testing.T) {
	base := flatStats(30)
	effects := []condition.Effect{
		condition.Intimidated().Instance(),
		{ID: "crushed", Kind: condition.Debuff, Duration: 1, Modifiers: stats.Modifiers{stats.Accuracy: -10, stats.Speed: 3}},
	}
	eff := combat.EffectiveStats(base, effects)
	assert.Equal(t, 1, eff.Accuracy)
	assert.Equal(t, 13, eff.Speed)
	assert.Equal(t, 30, eff.Health)
	assert.Equal(t, 5, base.Accuracy, "base is not modified")
}

func TestEffectiveStats_Property_NeverBelowOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mods := stats.Modifiers{}
		for _, s := range stats.All {
			mods[s] = rapid.IntRange(-50, 50).Draw(rt, string(s))
		}
		eff := combat.EffectiveStats(flatStats(10), []condition.Effect{{ID: "x", Duration: 1, Modifiers: mods}})
		for _, s := range stats.All {
			require.GreaterOrEqual(rt, eff.Get(s), 1, s)
		}
	})
}

func TestAttackStat(t *testing.T) {
	s := flatStats(1)
	s.PhysicalAttack, s.MentalAttack, s.SocialAttack = 1, 2, 3
	assert.Equal(t, 1, s.AttackStat(combat.Body))
	assert.Equal(t, 2, s.AttackStat(combat.Mind))
	assert.Equal(t, 3, s.AttackStat(combat.Heart))
}
