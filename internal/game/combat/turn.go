package combat

import (
	"math"

	"github.com/cory-johannsen/dialectic/internal/game/condition"
)

// Victor names who won a finished combat.
type Victor string

const (
	VictorNone      Victor = ""
	VictorAgreement Victor = "agreement"
	VictorPlayer    Victor = "player"
	VictorEnemy     Victor = "enemy"
)

// AgreementToWin is the agreement total that ends combat peacefully.
const AgreementToWin = 3

// FixedDefenseFactor is the multiplier ApplyFallacyDefense uses for a correct answer.
const FixedDefenseFactor = 0.25

// EndState reports whether a combat is over and who won.
//
// Invariant: Ended == (Victor != VictorNone).
type EndState struct {
	Ended  bool
	Victor Victor
}

// CheckCombatEnd evaluates the termination rules in priority order: agreement,
// then player defeat, then enemy defeat.
func CheckCombatEnd(playerHealth, enemyHealth, agreement int) EndState {
	switch {
	case agreement >= AgreementToWin:
		return EndState{Ended: true, Victor: VictorAgreement}
	case playerHealth <= 0:
		return EndState{Ended: true, Victor: VictorEnemy}
	case enemyHealth <= 0:
		return EndState{Ended: true, Victor: VictorPlayer}
	}
	return EndState{}
}

// CalculateTurnOrder returns the side that acts first. The player wins ties.
func CalculateTurnOrder(playerSpeed, enemySpeed int) Side {
	if enemySpeed > playerSpeed {
		return EnemySide
	}
	return PlayerSide
}

// ProcessTurnBuffs decrements every effect and drops the expired ones.
func ProcessTurnBuffs(effects []condition.Effect) []condition.Effect {
	return condition.Tick(effects)
}

// ReduceDamage scales damage by multiplier, rounding down. Positive damage
// never reduces below 1.
//
// Precondition: multiplier in [0, 1].
// Postcondition: result <= damage.
func ReduceDamage(damage int, multiplier float64) int {
	if damage <= 0 {
		return 0
	}
	return max(1, int(math.Floor(float64(damage)*multiplier)))
}

// ApplyFallacyDefense applies the fixed 25% mitigation for a correct answer
// and none for an incorrect one.
func ApplyFallacyDefense(damage int, correct bool) int {
	if !correct {
		return damage
	}
	return ReduceDamage(damage, FixedDefenseFactor)
}
