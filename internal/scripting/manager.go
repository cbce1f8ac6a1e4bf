package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/dialectic/internal/game/combat"
	"github.com/cory-johannsen/dialectic/internal/game/condition"
	"github.com/cory-johannsen/dialectic/internal/game/dice"
)

// ChooseHook is the global Lua function a tactic must define. It receives a
// view table and returns {domain = ..., verb = ...}.
const ChooseHook = "choose_action"

// ErrUnknownTactic is returned by Choose for a name that was never loaded.
var ErrUnknownTactic = errors.New("unknown tactic")

// Fallback is the action used when a tactic fails or returns garbage.
var Fallback = combat.Action{Domain: combat.Body, Verb: combat.Attack}

// SideView is one combatant as a tactic sees it.
type SideView struct {
	Name      string
	Health    int
	MaxHealth int
	Effects   []string
}

// View is the snapshot handed to a tactic each turn, from the side it drives.
type View struct {
	Turn      int
	Agreement int
	Self      SideView
	Opponent  SideView
	// LastOpponentAction is nil on the first turn.
	LastOpponentAction *combat.Action
}

// NewView builds a View from self's perspective.
func NewView(turn, agreement int, self, opponent combat.Combatant, last *combat.Action) View {
	return View{
		Turn:               turn,
		Agreement:          agreement,
		Self:               sideView(self),
		Opponent:           sideView(opponent),
		LastOpponentAction: last,
	}
}

func sideView(c combat.Combatant) SideView {
	return SideView{
		Name:      c.Name,
		Health:    c.Stats.Health,
		MaxHealth: c.Stats.MaxHealth,
		Effects:   effectIDs(c.Effects),
	}
}

func effectIDs(effects []condition.Effect) []string {
	ids := make([]string, 0, len(effects))
	for _, e := range effects {
		ids = append(ids, e.ID)
	}
	return ids
}

// tactic is one loaded script. Its LState is single-threaded.
type tactic struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed LState per tactic.
// All methods are safe for concurrent use; calls into the same tactic are serialized.
type Manager struct {
	mu        sync.RWMutex
	tactics   map[string]*tactic
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int
}

// NewManager creates an empty Manager. instLimit <= 0 uses DefaultInstructionLimit.
//
// Precondition: roller must be non-nil.
// Postcondition: Returns a non-nil Manager with no tactics loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if instLimit <= 0 {
		instLimit = DefaultInstructionLimit
	}
	return &Manager{
		tactics:   make(map[string]*tactic),
		roller:    roller,
		logger:    logger,
		instLimit: instLimit,
	}
}

// Load compiles source into a fresh VM registered under name, replacing and
// closing any previous VM with that name.
//
// Postcondition: returns an error and leaves the registry unchanged if the
// script fails to load or exceeds the instruction budget.
func (m *Manager) Load(name, source string) error {
	L := NewSandboxedState()
	m.registerModules(L, name)

	release := withBudget(L, m.instLimit)
	err := L.DoString(source)
	release()
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading tactic %q: %w", name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if old, ok := m.tactics[name]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.tactics[name] = &tactic{L: L}
	return nil
}

// LoadDirectory loads every *.lua file in dir as a tactic named after the
// file without its extension.
//
// Precondition: dir must be a readable directory.
func (m *Manager) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("scripting: reading tactics dir %q: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("scripting: reading %q: %w", path, err)
		}
		if err := m.Load(strings.TrimSuffix(e.Name(), ".lua"), string(src)); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the loaded tactic names in sorted order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.tactics))
	for n := range m.tactics {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Choose asks the named tactic for its side's action this turn. A missing
// hook, a Lua runtime error, an exhausted budget or an invalid return value
// are logged at warn level and yield Fallback.
//
// Postcondition: returns ErrUnknownTactic (wrapped) only when name is not loaded;
// otherwise the returned Action is always valid.
func (m *Manager) Choose(name string, v View) (combat.Action, error) {
	m.mu.RLock()
	t, ok := m.tactics[name]
	m.mu.RUnlock()
	if !ok {
		return combat.Action{}, fmt.Errorf("scripting: tactic %q: %w", name, ErrUnknownTactic)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	L := t.L

	fn := L.GetGlobal(ChooseHook)
	if fn.Type() != lua.LTFunction {
		m.logger.Warn("scripting: tactic has no hook",
			zap.String("tactic", name),
			zap.String("hook", ChooseHook),
		)
		return Fallback, nil
	}

	release := withBudget(L, m.instLimit)
	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, viewTable(L, v))
	release()
	if err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("tactic", name),
			zap.Error(err),
		)
		return Fallback, nil
	}
	ret := L.Get(-1)
	L.Pop(1)

	a, err := parseAction(ret)
	if err != nil {
		m.logger.Warn("scripting: invalid action from tactic",
			zap.String("tactic", name),
			zap.Error(err),
		)
		return Fallback, nil
	}
	return a, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, t := range m.tactics {
		t.mu.Lock()
		t.L.Close()
		t.mu.Unlock()
		delete(m.tactics, name)
	}
}

func viewTable(L *lua.LState, v View) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "turn", lua.LNumber(v.Turn))
	L.SetField(t, "agreement", lua.LNumber(v.Agreement))
	L.SetField(t, "self", sideTable(L, v.Self))
	L.SetField(t, "opponent", sideTable(L, v.Opponent))
	if v.LastOpponentAction != nil {
		a := L.NewTable()
		L.SetField(a, "domain", lua.LString(v.LastOpponentAction.Domain))
		L.SetField(a, "verb", lua.LString(v.LastOpponentAction.Verb))
		L.SetField(t, "last_opponent_action", a)
	}
	return t
}

func sideTable(L *lua.LState, s SideView) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(s.Name))
	L.SetField(t, "health", lua.LNumber(s.Health))
	L.SetField(t, "max_health", lua.LNumber(s.MaxHealth))
	effects := L.NewTable()
	for _, id := range s.Effects {
		effects.Append(lua.LString(id))
	}
	L.SetField(t, "effects", effects)
	return t
}

func parseAction(v lua.LValue) (combat.Action, error) {
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return combat.Action{}, fmt.Errorf("expected table, got %s", v.Type())
	}
	a := combat.Action{
		Domain: combat.Domain(lua.LVAsString(tbl.RawGetString("domain"))),
		Verb:   combat.Verb(lua.LVAsString(tbl.RawGetString("verb"))),
	}
	if err := a.Validate(); err != nil {
		return combat.Action{}, err
	}
	return a, nil
}
