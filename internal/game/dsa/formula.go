package dsa

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
)

// CheckFormulas reports an error if the derived formulas reference each other
// in a cycle. Attributes without a formula are leaves.
func CheckFormulas(formulas []ruleset.Formula) error {
	deps := make(map[string][]string, len(formulas))
	order := make([]string, 0, len(formulas))
	for _, f := range formulas {
		deps[f.Code] = f.DependsOn()
		order = append(order, f.Code)
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(deps))
	var path []string
	var visit func(code string) error
	visit = func(code string) error {
		switch state[code] {
		case done:
			return nil
		case visiting:
			start := 0
			for i, c := range path {
				if c == code {
					start = i
					break
				}
			}
			cycle := append(append([]string{}, path[start:]...), code)
			return fmt.Errorf("formula cycle: %s", strings.Join(cycle, " -> "))
		}
		state[code] = visiting
		path = append(path, code)
		for _, d := range deps[code] {
			if err := visit(d); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		state[code] = done
		return nil
	}
	for _, code := range order {
		if state[code] == unvisited {
			if err := visit(code); err != nil {
				return err
			}
		}
	}
	return nil
}
