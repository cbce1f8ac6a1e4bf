package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed dice expression ready to be rolled.
// Invariant: Count >= 1 and Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
	Floor    int    // minimum total; 0 means no floor
}

// Parse parses a dice expression of the forms "d20", "2d6", "1d4+1" or "3d8-2".
//
// Postcondition: Returns a populated Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}
	countStr, rest, ok := strings.Cut(strings.ToLower(strings.TrimSpace(expr)), "d")
	if !ok {
		return Expression{}, fmt.Errorf("dice: missing 'd' in expression %q", expr)
	}

	count := 1
	if countStr != "" {
		n, err := strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n < 1 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}

	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", expr, err)
	}
	if sides < 2 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 2", expr)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}

// Die returns the single-die Expression "1d<sides>".
//
// Precondition: sides >= 2.
func Die(sides int) Expression {
	if sides < 2 {
		panic(fmt.Sprintf("dice: Die precondition violated: sides must be >= 2, got %d", sides))
	}
	return Expression{Raw: fmt.Sprintf("1d%d", sides), Count: 1, Sides: sides}
}

// Plus returns e with m added to its modifier and Raw rewritten to match.
func (e Expression) Plus(m int) Expression {
	e.Modifier += m
	e.Raw = fmt.Sprintf("%dd%d", e.Count, e.Sides)
	if e.Modifier != 0 {
		e.Raw += fmt.Sprintf("%+d", e.Modifier)
	}
	return e
}

// AtLeast returns e with its total floored at floor.
func (e Expression) AtLeast(floor int) Expression {
	e.Floor = floor
	return e
}
