package combat

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrCombatNotFound is returned when an Engine has no combat with the given id.
var ErrCombatNotFound = errors.New("combat not found")

// Engine manages concurrent Combat encounters keyed by id.
// All methods are safe for concurrent use.
type Engine struct {
	mu      sync.RWMutex
	combats map[uuid.UUID]*Combat
	roller  DieRoller
	opts    Options
}

// NewEngine creates an empty Engine whose combats roll with roller. A nil
// roller leaves the Engine without a default: every combat must then be
// started with StartWithRoller.
//
// Precondition: a non-nil roller must be safe for concurrent use.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(roller DieRoller, opts Options) *Engine {
	return &Engine{
		combats: make(map[uuid.UUID]*Combat),
		roller:  roller,
		opts:    opts.withDefaults(),
	}
}

// Start begins a new combat with the Engine's roller and registers it.
//
// Precondition: the Engine was created with a non-nil roller.
// Postcondition: Get(result.ID) returns the new Combat.
func (e *Engine) Start(player, enemy Combatant) *Combat {
	if e.roller == nil {
		panic("combat: Engine.Start precondition violated: engine has no default roller")
	}
	return e.StartWithRoller(player, enemy, e.roller)
}

// StartWithRoller is Start with a combat-specific roller, so a seeded
// combat replays identically regardless of what else the Engine runs.
//
// Precondition: roller must be non-nil.
func (e *Engine) StartWithRoller(player, enemy Combatant, roller DieRoller) *Combat {
	cbt := NewCombat(player, enemy, roller, e.opts)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.combats[cbt.ID] = cbt
	return cbt
}

// Get returns the combat registered under id.
//
// Postcondition: Returns (combat, true) if found, or (nil, false) otherwise.
func (e *Engine) Get(id uuid.UUID) (*Combat, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cbt, ok := e.combats[id]
	return cbt, ok
}

// ResolveTurn resolves a turn of the combat registered under id.
func (e *Engine) ResolveTurn(id uuid.UUID, player, enemy Action) (CombatResult, error) {
	cbt, ok := e.Get(id)
	if !ok {
		return CombatResult{}, fmt.Errorf("combat %s: %w", id, ErrCombatNotFound)
	}
	return cbt.ResolveTurn(player, enemy)
}

// AnswerChallenge answers the pending challenge of the combat registered under id.
func (e *Engine) AnswerChallenge(id uuid.UUID, answer int) (CombatResult, error) {
	cbt, ok := e.Get(id)
	if !ok {
		return CombatResult{}, fmt.Errorf("combat %s: %w", id, ErrCombatNotFound)
	}
	return cbt.AnswerChallenge(answer)
}

// End removes the combat registered under id. Removing an unknown id is a no-op.
func (e *Engine) End(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.combats, id)
}

// Len returns the number of registered combats.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.combats)
}
