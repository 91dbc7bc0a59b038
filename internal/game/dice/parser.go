package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression is a parsed dice expression ready to be rolled.
//
// Invariant: Count >= 1, Sides >= 2 after a successful Parse.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Parse parses "NWS+M" expressions. The die letter may be the German "W" or
// "d": "W20", "3W20", "1W6+4", "2d6-1".
//
// Postcondition: Returns a valid Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	idx := strings.IndexAny(s, "wd")
	if idx < 0 {
		return Expression{}, fmt.Errorf("dice: missing die letter in expression %q", expr)
	}

	count := 1
	if idx > 0 {
		n, err := strconv.Atoi(s[:idx])
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", expr, err)
		}
		if n <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", expr)
		}
		count = n
	}

	rest := s[idx+1:]
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
		if modifier, err = strconv.Atoi(modStr); err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", expr, err)
		}
	}

	return Expression{Raw: strings.TrimSpace(expr), Count: count, Sides: sides, Modifier: modifier}, nil
}

// MustParse parses expr and panics on error.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic("dice: MustParse failed for expression " + expr + ": " + err.Error())
	}
	return e
}
