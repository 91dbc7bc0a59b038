package ruleset

import "github.com/cory-johannsen/charsheet/internal/game/stat"

// Culture is a selectable upbringing. It grants talent bonuses and costs
// adventure points.
//
// Precondition: Slug and Title must be non-empty after loading.
type Culture struct {
	Slug      string         `yaml:"id"`
	Title     string         `yaml:"name"`
	Cost      int            `yaml:"cost"`
	Abilities map[string]int `yaml:"abilities"`

	// abilities is keyed by ability identity so lookups ignore Unicode
	// normalization differences in the YAML source.
	abilities map[stat.Key]int
}

// ID returns the culture identifier.
func (c *Culture) ID() string { return c.Slug }

// Name returns "<Title> (<Cost> AP)".
func (c *Culture) Name() string { return costLabel(c.Title, c.Cost) }

// Modifier returns the talent bonus for ability s and the negated cost for
// adventure points.
func (c *Culture) Modifier(s stat.Stat, _ int) int {
	switch s.Kind {
	case stat.KindAbility:
		return c.bonuses()[s.Key()]
	case stat.KindAttribute:
		if s.Code == AdventurePoints {
			return -c.Cost
		}
	}
	return 0
}

func (c *Culture) bonuses() map[stat.Key]int {
	if c.abilities != nil {
		return c.abilities
	}
	// Not loaded through this package; index without caching.
	out := make(map[stat.Key]int, len(c.Abilities))
	for name, v := range c.Abilities {
		out[stat.AbilityKey(name)] += v
	}
	return out
}

func (c *Culture) index() {
	c.abilities = make(map[stat.Key]int, len(c.Abilities))
	for name, v := range c.Abilities {
		c.abilities[stat.AbilityKey(name)] += v
	}
}
