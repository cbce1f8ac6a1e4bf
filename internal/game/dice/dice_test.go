package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/dialectic/internal/game/dice"
)

type fixedSrc struct{ val int }

func (f fixedSrc) Intn(n int) int {
	if f.val >= n {
		return n - 1
	}
	return f.val
}

func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{Expression: "2d6+3", Dice: []int{4, 5}, Modifier: 3}
	assert.Equal(t, 12, r.Total())
}

func TestRollResult_Total_Floor(t *testing.T) {
	r := dice.RollResult{Expression: "1d4-3", Dice: []int{1}, Modifier: -3, Floor: 1}
	assert.Equal(t, 1, r.Total(), "floor must lift a negative total")
}

func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{Expression: "1d6+1", Dice: []int{4}, Modifier: 1}
	assert.Equal(t, "1d6+1 → [4] +1 = 5", r.String())
}

func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}}
	assert.Panics(t, func() { _ = r.String() })
}

func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ds := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.IntRange(-50, 50).Draw(rt, "modifier")
		floor := rapid.IntRange(0, 5).Draw(rt, "floor")

		r := dice.RollResult{Expression: "Nd20+M", Dice: ds, Modifier: modifier, Floor: floor}
		expected := modifier
		for _, d := range ds {
			expected += d
		}
		if floor > 0 && expected < floor {
			expected = floor
		}
		assert.Equal(rt, expected, r.Total())
		assert.True(rt, strings.Contains(r.String(), fmt.Sprintf("= %d", r.Total())))
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		expr                  string
		count, sides, modifer int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"1d4+1", 1, 4, 1},
		{"3D8-2", 3, 8, -2},
	}
	for _, tc := range tests {
		e, err := dice.Parse(tc.expr)
		require.NoError(t, err, tc.expr)
		assert.Equal(t, tc.count, e.Count, tc.expr)
		assert.Equal(t, tc.sides, e.Sides, tc.expr)
		assert.Equal(t, tc.modifer, e.Modifier, tc.expr)
		assert.Equal(t, tc.expr, e.Raw)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, expr := range []string{"", "20", "0d6", "xd6", "d1", "d", "1d6+x"} {
		_, err := dice.Parse(expr)
		assert.Error(t, err, "expression %q must fail", expr)
	}
}

func TestExpression_PlusAndAtLeast(t *testing.T) {
	e := dice.Die(4).Plus(1).AtLeast(1)
	assert.Equal(t, "1d4+1", e.Raw)
	assert.Equal(t, 1, e.Modifier)
	assert.Equal(t, 1, e.Floor)
	assert.Equal(t, "1d4-2", dice.Die(4).Plus(-2).Raw)
	assert.Equal(t, "1d4", dice.Die(4).Plus(1).Plus(-1).Raw)
}

func TestRoll_HonorsFloor(t *testing.T) {
	e := dice.Die(4).Plus(-3).AtLeast(1)
	r := dice.Roll(e, fixedSrc{val: 0})
	assert.Equal(t, []int{1}, r.Dice)
	assert.Equal(t, 1, r.Floor)
	assert.Equal(t, 1, r.Total())
	assert.Equal(t, "1d4-3 → [1] -3 = 1", r.String())
}

func TestDie_PanicsOnTooFewSides(t *testing.T) {
	assert.Panics(t, func() { dice.Die(1) })
	assert.Equal(t, "1d6", dice.Die(6).Raw)
}

func TestRoll_UsesSource(t *testing.T) {
	e, err := dice.Parse("2d6+1")
	require.NoError(t, err)
	r := dice.Roll(e, fixedSrc{val: 3})
	assert.Equal(t, []int{4, 4}, r.Dice)
	assert.Equal(t, 9, r.Total())
}

func TestRoll_Property_DiceInRange(t *testing.T) {
	src := dice.NewSeededSource(7)
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(2, 100).Draw(rt, "sides")
		r := dice.Roll(dice.Expression{Raw: "x", Count: count, Sides: sides}, src)
		require.Len(rt, r.Dice, count)
		for _, d := range r.Dice {
			assert.GreaterOrEqual(rt, d, 1)
			assert.LessOrEqual(rt, d, sides)
		}
	})
}

func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewCryptoSource().Intn(0) })
}

func TestSeededSource_Replayable(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 200; i++ {
		require.Equal(t, a.Intn(20), b.Intn(20), "draw %d", i)
	}
}

func TestSeededSource_Intn_PanicsOnZero(t *testing.T) {
	assert.Panics(t, func() { dice.NewSeededSource(1).Intn(0) })
}

func TestRoller_RollDie(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 2}, zap.NewNop())
	assert.Equal(t, 3, r.RollDie(20))
	assert.Equal(t, 3, r.RollDie(4))
}

func TestRoller_RollExpr(t *testing.T) {
	r := dice.NewLoggedRoller(fixedSrc{val: 0}, nil)
	res, err := r.RollExpr("1d8+2")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total())

	_, err = r.RollExpr("bogus")
	assert.Error(t, err)
}
