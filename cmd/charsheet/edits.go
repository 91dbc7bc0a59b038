package main

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/dsa"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// assignments collects repeated KEY=VALUE flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(s string) error {
	if _, _, ok := strings.Cut(s, "="); !ok {
		return fmt.Errorf("expected KEY=VALUE, got %q", s)
	}
	*a = append(*a, s)
	return nil
}

func split(s string) (string, string) {
	k, v, _ := strings.Cut(s, "=")
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

// applyModifiers selects each SOURCE=ID pair in order and re-resolves p so
// dependent sources follow.
func applyModifiers(sh *stat.Sheet, p stat.Player, mods assignments) error {
	for _, m := range mods {
		name, id := split(m)
		var src *stat.ModifierSource
		for _, s := range sh.ModifierSources() {
			if s.Name == name {
				src = s
			}
		}
		if src == nil {
			return fmt.Errorf("unknown modifier source %q", name)
		}
		v, ok := src.Find(p, id)
		if !ok {
			return fmt.Errorf("%q is not a candidate of %q", id, name)
		}
		p.SetModifier(name, v)
		sh.Resolve(p)
	}
	return nil
}

// applyEdits stores each CODE=VALUE pair through the sheet's validator.
func applyEdits(sh *stat.Sheet, p stat.Player, sets assignments, logger *zap.Logger) error {
	for _, s := range sets {
		name, raw := split(s)
		proposed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("value of %q: %w", name, err)
		}
		c, r, ok := sh.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown stat %q", name)
		}
		if r.Stat.Kind == stat.KindComposite {
			return fmt.Errorf("%q is calculated and cannot be set", name)
		}
		if !r.Contains(proposed) {
			logger.Warn("edit outside declared range",
				zap.String("stat", r.Stat.Name),
				zap.Int("proposed", proposed),
				zap.Int("min", r.Min),
				zap.Int("max", r.Max),
			)
		}
		accepted := sh.SetValue(p, c, r.Stat, proposed)
		if accepted != proposed {
			logger.Warn("edit reduced to remaining budget",
				zap.String("stat", r.Stat.Name),
				zap.Int("proposed", proposed),
				zap.Int("accepted", accepted),
			)
		}
	}
	return nil
}

// checker is implemented by rule systems that roll skill checks.
type checker interface {
	Check(p stat.Player, ability string, mod int) (dsa.CheckResult, error)
}

// runChecks rolls each ABILITY=MOD pair for p.
func runChecks(c checker, p stat.Player, checks assignments) ([]dsa.CheckResult, error) {
	out := make([]dsa.CheckResult, 0, len(checks))
	for _, s := range checks {
		name, raw := split(s)
		mod := 0
		if raw != "" {
			var err error
			if mod, err = strconv.Atoi(raw); err != nil {
				return nil, fmt.Errorf("modifier of %q: %w", name, err)
			}
		}
		res, err := c.Check(p, name, mod)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
