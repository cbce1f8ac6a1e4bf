// Package dice provides the randomness abstraction and roll-result types
// used by the dialectic combat engine.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == max(sum(Dice) + Modifier, Floor).
type RollResult struct {
	Expression string // original expression string, e.g. "1d6+1"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
	Floor      int    // minimum total; 0 means no floor
}

// Total returns the sum of all die results plus the modifier, raised to Floor.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	if r.Floor > 0 && total < r.Floor {
		return r.Floor
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"1d6+1 → [4] +1 = 5"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
