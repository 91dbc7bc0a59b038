package dsa

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// Calculator derives displayed values: raw value plus stacked modifiers,
// then the attribute formulas and composite combat values of the content.
//
// Recursive lookups go through Sheet.CalcValue, so a decorator installed on
// the sheet sees every intermediate value.
//
// A Calculator tracks the stats under evaluation and is not safe for
// concurrent use.
type Calculator struct {
	content  *ruleset.Content
	formulas map[string]ruleset.Formula
	// attributes maps an attribute code to its stat and declaring category.
	attributes map[string]attributeRef
	active     map[stat.Key]bool
}

type attributeRef struct {
	stat     stat.Stat
	category string
}

// NewCalculator returns a calculator for content.
//
// Postcondition: Returns an error if the formulas form a cycle.
func NewCalculator(content *ruleset.Content) (*Calculator, error) {
	if err := CheckFormulas(content.Sheet.Formulas); err != nil {
		return nil, err
	}
	c := &Calculator{
		content:    content,
		formulas:   make(map[string]ruleset.Formula, len(content.Sheet.Formulas)),
		attributes: make(map[string]attributeRef),
		active:     make(map[stat.Key]bool),
	}
	for _, f := range content.Sheet.Formulas {
		c.formulas[f.Code] = f
	}
	for _, cat := range content.Sheet.Categories {
		for _, a := range cat.Attributes {
			c.attributes[a.Code] = attributeRef{stat: stat.Attribute(a.Name, a.Code), category: cat.Name}
		}
	}
	return c, nil
}

// Calc implements stat.Calculator.
func (c *Calculator) Calc(sh *stat.Sheet, p stat.Player, cat *stat.Category, s stat.Stat) int {
	k := s.Key()
	if c.active[k] {
		panic(fmt.Sprintf("dsa: evaluation of %s re-entered itself", k))
	}
	c.active[k] = true
	defer delete(c.active, k)

	val := sh.BaseValue(p, s)
	switch s.Kind {
	case stat.KindAttribute:
		if f, ok := c.formulas[s.Code]; ok {
			val += c.apply(sh, p, f)
		}
	case stat.KindComposite:
		val += c.composite(sh, p, cat, s)
	}
	return val
}

func (c *Calculator) apply(sh *stat.Sheet, p stat.Player, f ruleset.Formula) int {
	if f.Cost {
		return -c.attributeCost(sh, p)
	}
	sum := 0
	for _, t := range f.Terms {
		sum += t.Weight() * c.attribute(sh, p, t.Code)
	}
	return sum/f.EffectiveDivisor() + f.Constant
}

// attributeCost sums the cost table over the raw values of the attribute
// pool category. Modifiers do not count towards the cost.
func (c *Calculator) attributeCost(sh *stat.Sheet, p stat.Player) int {
	total := 0
	for _, r := range sh.Category(c.content.Sheet.Pools.Attributes.Category).Stats() {
		if r.Stat.Kind == stat.KindAttribute {
			total += c.content.AttributeCost(p.Value(r.Stat.Key()))
		}
	}
	return total
}

// attribute returns the calculated value of the attribute with code.
func (c *Calculator) attribute(sh *stat.Sheet, p stat.Player, code string) int {
	ref, ok := c.attributes[code]
	if !ok {
		panic(fmt.Sprintf("dsa: unknown attribute %q", code))
	}
	return sh.CalcValue(p, sh.Category(ref.category), ref.stat)
}

// composite returns the bonus of "<Ability> - <Suffix>": the ability level
// plus the attribute contribution of the matching rule. Names without a
// rule contribute nothing.
func (c *Calculator) composite(sh *stat.Sheet, p stat.Player, cat *stat.Category, s stat.Stat) int {
	i := strings.LastIndex(s.Name, ruleset.CompositeSeparator)
	if i < 0 {
		return 0
	}
	abilityName, suffix := s.Name[:i], s.Name[i+len(ruleset.CompositeSeparator):]
	rule, ok := c.content.Sheet.Composites.Rule(suffix)
	if !ok {
		return 0
	}
	if cat == nil {
		panic(fmt.Sprintf("dsa: composite %q evaluated without a category", s.Name))
	}
	ability, ok := cat.FindStat(abilityName)
	if !ok {
		panic(fmt.Sprintf("dsa: composite %q names undeclared ability %q in category %q", s.Name, abilityName, cat.Name))
	}
	level := p.Value(ability.Stat.Key())

	if !rule.BestOfChecks {
		return level + c.contribution(sh, p, rule.Attribute)
	}
	best, found := 0, false
	for _, code := range ability.Stat.Checks {
		v := c.contribution(sh, p, code)
		if !found || v > best {
			best, found = v, true
		}
	}
	return level + best
}

func (c *Calculator) contribution(sh *stat.Sheet, p stat.Player, code string) int {
	rules := c.content.Sheet.Composites
	return (c.attribute(sh, p, code) - rules.Baseline) / rules.Divisor
}
