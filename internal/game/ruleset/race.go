package ruleset

import (
	"fmt"

	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// AdventurePoints is the attribute code of the adventure point total. Race
// and culture costs are charged against it.
const AdventurePoints = "AP"

// Race is a selectable species with attribute modifiers, an adventure point
// cost, and the cultures and attribute bonuses it may choose from.
//
// Precondition: Slug and Title must be non-empty; Cultures and
// AttributeBonuses must each hold at least one entry after loading.
type Race struct {
	Slug             string           `yaml:"id"`
	Title            string           `yaml:"name"`
	Cost             int              `yaml:"cost"`
	Modifiers        map[string]int   `yaml:"modifiers"`
	Cultures         []string         `yaml:"cultures"`
	AttributeBonuses []AttributeBonus `yaml:"attribute_bonuses"`
}

// ID returns the race identifier.
func (r *Race) ID() string { return r.Slug }

// Name returns "<Title> (<Cost> AP)".
func (r *Race) Name() string { return costLabel(r.Title, r.Cost) }

// Modifier returns the race's delta for attribute s. The race cost is
// charged against adventure points.
func (r *Race) Modifier(s stat.Stat, _ int) int {
	if s.Kind != stat.KindAttribute {
		return 0
	}
	delta := r.Modifiers[s.Code]
	if s.Code == AdventurePoints {
		delta -= r.Cost
	}
	return delta
}

// Bonuses returns the attribute bonuses as modifier values.
func (r *Race) Bonuses() []stat.ModifierValue {
	out := make([]stat.ModifierValue, len(r.AttributeBonuses))
	for i, b := range r.AttributeBonuses {
		out[i] = b
	}
	return out
}

// AttributeBonus is a flat bonus or malus to a single attribute.
type AttributeBonus struct {
	Attribute string `yaml:"attribute"`
	Value     int    `yaml:"value"`
}

// ID returns a stable identifier such as "MU+1" or "KL-2".
func (b AttributeBonus) ID() string {
	return fmt.Sprintf("%s%+d", b.Attribute, b.Value)
}

// Name returns the display label, e.g. "MU 1".
func (b AttributeBonus) Name() string {
	return fmt.Sprintf("%s %d", b.Attribute, b.Value)
}

// Modifier returns Value for the bonus attribute and 0 otherwise.
func (b AttributeBonus) Modifier(s stat.Stat, _ int) int {
	if s.Kind == stat.KindAttribute && s.Code == b.Attribute {
		return b.Value
	}
	return 0
}

func costLabel(title string, cost int) string {
	return fmt.Sprintf("%s (%d %s)", title, cost, AdventurePoints)
}
