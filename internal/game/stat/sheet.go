package stat

import (
	"fmt"

	"go.uber.org/zap"
)

// Calculator turns a player's raw value into the displayed value.
type Calculator interface {
	Calc(sh *Sheet, p Player, c *Category, s Stat) int
}

// CalculatorFunc adapts a function to the Calculator interface.
type CalculatorFunc func(sh *Sheet, p Player, c *Category, s Stat) int

// Calc calls f.
func (f CalculatorFunc) Calc(sh *Sheet, p Player, c *Category, s Stat) int {
	return f(sh, p, c, s)
}

// Validator turns a proposed input into the accepted input under the
// rule system's budget constraints. It must never mutate p.
type Validator interface {
	Validate(sh *Sheet, p Player, c *Category, s Stat, proposed int) int
}

// ValidatorFunc adapts a function to the Validator interface.
type ValidatorFunc func(sh *Sheet, p Player, c *Category, s Stat, proposed int) int

// Validate calls f.
func (f ValidatorFunc) Validate(sh *Sheet, p Player, c *Category, s Stat, proposed int) int {
	return f(sh, p, c, s, proposed)
}

// StackedCalculator returns the raw value plus every stacked modifier and
// applies no formulas.
var StackedCalculator = CalculatorFunc(func(sh *Sheet, p Player, _ *Category, s Stat) int {
	return sh.BaseValue(p, s)
})

// AcceptAll accepts every proposed value unchanged.
var AcceptAll = ValidatorFunc(func(_ *Sheet, _ Player, _ *Category, _ Stat, proposed int) int {
	return proposed
})

// Sheet is an ordered list of categories plus the injected calculator and
// validator. It holds no player state and is rebuilt on every refresh.
type Sheet struct {
	categories []*Category
	calc       Calculator
	validator  Validator
	logger     *zap.Logger
}

// SheetOption configures a Sheet.
type SheetOption func(*Sheet)

// WithLogger sets the logger used to report modifier repairs.
func WithLogger(l *zap.Logger) SheetOption {
	return func(s *Sheet) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSheet returns an empty sheet bound to calc and validator.
//
// Precondition: calc and validator must be non-nil.
func NewSheet(calc Calculator, validator Validator, opts ...SheetOption) *Sheet {
	if calc == nil || validator == nil {
		panic("stat: NewSheet requires a calculator and a validator")
	}
	sh := &Sheet{calc: calc, validator: validator, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(sh)
	}
	return sh
}

// AddCategory appends c.
func (sh *Sheet) AddCategory(c *Category) {
	sh.categories = append(sh.categories, c)
}

// Categories returns the categories in declaration order.
func (sh *Sheet) Categories() []*Category {
	return sh.categories
}

// LookupCategory returns the category with the given name.
func (sh *Sheet) LookupCategory(name string) (*Category, bool) {
	for _, c := range sh.categories {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Category returns the category with the given name and panics if the schema
// does not declare it.
func (sh *Sheet) Category(name string) *Category {
	c, ok := sh.LookupCategory(name)
	if !ok {
		panic(fmt.Sprintf("stat: unknown category %q", name))
	}
	return c
}

// ModifierSources returns every modifier source of the sheet in declaration order.
func (sh *Sheet) ModifierSources() []*ModifierSource {
	var out []*ModifierSource
	for _, c := range sh.categories {
		out = append(out, c.Modifiers()...)
	}
	return out
}

// ModifierSource returns the source with the given name and panics if the
// schema does not declare it.
func (sh *Sheet) ModifierSource(name string) *ModifierSource {
	for _, m := range sh.ModifierSources() {
		if m.Name == name {
			return m
		}
	}
	panic(fmt.Sprintf("stat: unknown modifier source %q", name))
}

// Check verifies the structural invariants of the schema: category names are
// unique, modifier source names are unique, and every declared dependency
// names a source declared earlier.
func (sh *Sheet) Check() error {
	categories := make(map[string]bool)
	sources := make(map[string]bool)
	for _, c := range sh.categories {
		if categories[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		categories[c.Name] = true
		for _, m := range c.Modifiers() {
			if sources[m.Name] {
				return fmt.Errorf("duplicate modifier source %q", m.Name)
			}
			for _, dep := range m.DependsOn {
				if !sources[dep] {
					return fmt.Errorf("modifier source %q depends on %q which is not declared before it", m.Name, dep)
				}
			}
			sources[m.Name] = true
		}
	}
	return nil
}

// Selection returns p's current selection for the named source. The sources
// it depends on are resolved first. If the selection is unset or no longer
// among the freshly computed candidates, it is reset to the first candidate.
func (sh *Sheet) Selection(p Player, source string) ModifierValue {
	return sh.resolve(p, sh.ModifierSource(source))
}

func (sh *Sheet) resolve(p Player, src *ModifierSource) ModifierValue {
	for _, dep := range src.DependsOn {
		sh.resolve(p, sh.ModifierSource(dep))
	}
	candidates := src.Candidates(p)
	if len(candidates) == 0 {
		panic(fmt.Sprintf("stat: modifier source %q has no candidates", src.Name))
	}
	cur := p.Modifier(src.Name)
	if cur != nil {
		for _, c := range candidates {
			if c.ID() == cur.ID() {
				return cur
			}
		}
	}
	fields := []zap.Field{
		zap.String("player", p.Name()),
		zap.String("source", src.Name),
		zap.String("selected", candidates[0].ID()),
	}
	if cur != nil {
		fields = append(fields, zap.String("previous", cur.ID()))
	}
	sh.logger.Debug("modifier selection reset", fields...)
	p.SetModifier(src.Name, candidates[0])
	return candidates[0]
}

// Resolve repairs every modifier selection of p in declaration order and
// returns the resolved selections keyed by source name.
func (sh *Sheet) Resolve(p Player) map[string]ModifierValue {
	out := make(map[string]ModifierValue)
	for _, m := range sh.ModifierSources() {
		out[m.Name] = sh.resolve(p, m)
	}
	return out
}

// StackedModifier sums the deltas of every selected modifier for s. Each
// modifier receives the same base value.
func (sh *Sheet) StackedModifier(p Player, s Stat, base int) int {
	total := 0
	for _, m := range sh.ModifierSources() {
		total += sh.resolve(p, m).Modifier(s, base)
	}
	return total
}

// BaseValue returns p's raw value for s plus the stacked modifiers.
func (sh *Sheet) BaseValue(p Player, s Stat) int {
	base := p.Value(s.Key())
	return base + sh.StackedModifier(p, s, base)
}

// CalcValue returns the displayed value of s in category c.
func (sh *Sheet) CalcValue(p Player, c *Category, s Stat) int {
	return sh.calc.Calc(sh, p, c, s)
}

// ValidateValue returns the accepted input for a proposed value of s.
func (sh *Sheet) ValidateValue(p Player, c *Category, s Stat, proposed int) int {
	return sh.validator.Validate(sh, p, c, s, proposed)
}

// Lookup finds a stat by attribute code or display name across every
// category, in declaration order.
func (sh *Sheet) Lookup(name string) (*Category, *Range, bool) {
	for _, c := range sh.categories {
		for _, r := range c.Stats() {
			if r.Stat.Kind == KindAttribute && r.Stat.Code == name {
				return c, r, true
			}
		}
		if r, ok := c.FindStat(name); ok {
			return c, r, true
		}
	}
	return nil, nil, false
}

// SetValue validates proposed, stores the accepted value as p's raw value for
// s, and returns it.
func (sh *Sheet) SetValue(p Player, c *Category, s Stat, proposed int) int {
	accepted := sh.ValidateValue(p, c, s, proposed)
	p.SetValue(s.Key(), accepted)
	return accepted
}
