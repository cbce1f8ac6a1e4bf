package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dialectic/internal/game/stats"
)

func TestNewModifiers_RejectsUnknownKeys(t *testing.T) {
	_, err := stats.NewModifiers(map[string]int{"accuracy": 1, "luck": 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "luck")
}

func TestNewModifiers_Valid(t *testing.T) {
	m, err := stats.NewModifiers(map[string]int{"accuracy": -3, "speed": 2})
	require.NoError(t, err)
	assert.Equal(t, stats.Modifiers{stats.Accuracy: -3, stats.Speed: 2}, m)
}

func TestMustModifiers_Panics(t *testing.T) {
	assert.Panics(t, func() { stats.MustModifiers(map[string]int{"charm": 1}) })
}

func TestModifiers_UnmarshalYAML(t *testing.T) {
	var holder struct {
		Bonus stats.Modifiers `yaml:"bonus"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("bonus:\n  physical_attack: 4\n  evasion: -1\n"), &holder))
	assert.Equal(t, stats.Modifiers{stats.PhysicalAttack: 4, stats.Evasion: -1}, holder.Bonus)

	err := yaml.Unmarshal([]byte("bonus:\n  strength: 4\n"), &holder)
	assert.Error(t, err)
}

func TestModifiers_PlusMinus(t *testing.T) {
	a := stats.Modifiers{stats.Accuracy: 2, stats.Speed: 1}
	b := stats.Modifiers{stats.Accuracy: -2, stats.Evasion: 5}
	sum := a.Plus(b)
	assert.Equal(t, stats.Modifiers{stats.Speed: 1, stats.Evasion: 5}, sum, "zero entries are dropped")
	assert.Equal(t, a, sum.Minus(b))
	assert.Equal(t, stats.Modifiers{stats.Accuracy: 2, stats.Speed: 1}, a, "operands are not mutated")
}

func TestSum_Empty(t *testing.T) {
	assert.Empty(t, stats.Sum())
	assert.Empty(t, stats.Sum(nil, stats.Modifiers{}))
}

func TestBlock_ApplyIsReversible_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := stats.Derive(stats.Base{
			Body:  rapid.IntRange(0, 40).Draw(rt, "body"),
			Mind:  rapid.IntRange(0, 40).Draw(rt, "mind"),
			Heart: rapid.IntRange(0, 40).Draw(rt, "heart"),
		}, rapid.IntRange(1, 90).Draw(rt, "age"))
		mods := stats.Modifiers{}
		for _, s := range stats.All {
			if v := rapid.IntRange(-10, 10).Draw(rt, string(s)); v != 0 {
				mods[s] = v
			}
		}
		assert.Equal(rt, base, base.Apply(mods).Apply(mods.Negate()))
	})
}

func TestBlock_ApplyFloored(t *testing.T) {
	b := stats.Block{Accuracy: 3, Speed: 10}
	got := b.ApplyFloored(stats.Modifiers{stats.Accuracy: -10}, 1)
	assert.Equal(t, 1, got.Accuracy)
	assert.Equal(t, 10, got.Speed)
	assert.Equal(t, 1, got.PhysicalAttack, "zero fields are also floored")
	assert.Equal(t, 3, b.Accuracy, "receiver is a copy")
}

func TestBlock_GetWith(t *testing.T) {
	b := stats.Block{}.With(stats.MentalDefense, 9)
	assert.Equal(t, 9, b.Get(stats.MentalDefense))
	assert.Panics(t, func() { b.Get(stats.Stat("bogus")) })
}

func TestParseStat(t *testing.T) {
	s, err := stats.ParseStat("ailment_defense")
	require.NoError(t, err)
	assert.Equal(t, stats.AilmentDefense, s)
	_, err = stats.ParseStat("")
	assert.Error(t, err)
}
