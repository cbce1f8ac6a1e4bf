package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dialectic/internal/game/combat"
)

// registerModules installs the engine table into L:
//
//	engine.roll(sides)        -> integer in [1, sides]
//	engine.roll_dice(expr)    -> total of a dice expression such as "2d6+1"
//	engine.advantage(a, b)    -> "advantage" | "neutral" | "disadvantage"
//	engine.log(msg)           -> debug log line
//	engine.domains / engine.verbs
func (m *Manager) registerModules(L *lua.LState, tactic string) {
	engine := L.NewTable()

	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		sides := L.CheckInt(1)
		if sides < 2 {
			L.ArgError(1, "sides must be >= 2")
			return 0
		}
		L.Push(lua.LNumber(m.roller.RollDie(sides)))
		return 1
	}))

	L.SetField(engine, "roll_dice", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		L.Push(lua.LNumber(res.Total()))
		return 1
	}))

	L.SetField(engine, "advantage", L.NewFunction(func(L *lua.LState) int {
		a := combat.Domain(L.CheckString(1))
		b := combat.Domain(L.CheckString(2))
		if !a.Valid() {
			L.ArgError(1, "unknown domain "+string(a))
			return 0
		}
		if !b.Valid() {
			L.ArgError(2, "unknown domain "+string(b))
			return 0
		}
		L.Push(lua.LString(combat.CalculateAdvantage(a, b).String()))
		return 1
	}))

	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		m.logger.Debug("tactic log", zap.String("tactic", tactic), zap.String("msg", L.CheckString(1)))
		return 0
	}))

	domains := L.NewTable()
	for _, d := range []combat.Domain{combat.Body, combat.Mind, combat.Heart} {
		domains.Append(lua.LString(d))
	}
	L.SetField(engine, "domains", domains)

	verbs := L.NewTable()
	for _, v := range []combat.Verb{combat.Attack, combat.SpecialAttack, combat.Defend} {
		verbs.Append(lua.LString(v))
	}
	L.SetField(engine, "verbs", verbs)

	L.SetGlobal("engine", engine)
}
