package dsa

import (
	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// Validator enforces the character creation point budgets. It never mutates
// the player; a proposal that would overspend is reduced by the deficit.
type Validator struct {
	pools  ruleset.Pools
	logger *zap.Logger
}

// NewValidator returns a validator for pools.
func NewValidator(pools ruleset.Pools, logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{pools: pools, logger: logger}
}

// Validate implements stat.Validator.
func (v *Validator) Validate(sh *stat.Sheet, p stat.Player, c *stat.Category, s stat.Stat, proposed int) int {
	switch s.Kind {
	case stat.KindComposite:
		return p.Value(s.Key())
	case stat.KindAttribute:
		if c == nil || c.Name != v.pools.Attributes.Category {
			return proposed
		}
		return v.clamp(p, s, proposed, v.pools.Attributes.Budget, v.spentAttributes(p, c, s))
	default:
		return v.clamp(p, s, proposed, v.pools.Abilities.Budget, v.spentAbilities(sh, p, s))
	}
}

// spentAttributes sums the raw values of every other attribute in c.
func (v *Validator) spentAttributes(p stat.Player, c *stat.Category, s stat.Stat) int {
	total := 0
	for _, r := range c.Stats() {
		if r.Stat.Kind == stat.KindAttribute && !r.Stat.Is(s) {
			total += p.Value(r.Stat.Key())
		}
	}
	return total
}

// spentAbilities sums the raw values of every other ability outside the
// attribute pool category. Each identity is counted once.
func (v *Validator) spentAbilities(sh *stat.Sheet, p stat.Player, s stat.Stat) int {
	seen := map[stat.Key]bool{s.Key(): true}
	total := 0
	for _, c := range sh.Categories() {
		if c.Name == v.pools.Attributes.Category {
			continue
		}
		for _, r := range c.Stats() {
			k := r.Stat.Key()
			if r.Stat.Kind != stat.KindAbility || seen[k] {
				continue
			}
			seen[k] = true
			total += p.Value(k)
		}
	}
	return total
}

func (v *Validator) clamp(p stat.Player, s stat.Stat, proposed, budget, spent int) int {
	remaining := budget - proposed - spent
	if remaining >= 0 {
		return proposed
	}
	accepted := proposed + remaining
	v.logger.Debug("value clamped to budget",
		zap.String("player", p.Name()),
		zap.String("stat", s.Key().String()),
		zap.Int("proposed", proposed),
		zap.Int("accepted", accepted),
		zap.Int("budget", budget),
	)
	return accepted
}
