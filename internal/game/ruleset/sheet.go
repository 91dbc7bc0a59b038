package ruleset

// Modifier source kinds understood by the rule-system backend.
const (
	SourceRace           = "race"
	SourceCulture        = "culture"
	SourceAttributeBonus = "attribute_bonus"
)

// CompositeSeparator joins an ability name and a composite suffix, as in
// "Dolche - Attacke".
const CompositeSeparator = " - "

// SheetDef is the data-driven character sheet schema.
type SheetDef struct {
	// Baseline is the raw value every attribute of the attribute pool
	// category starts at.
	Baseline      int            `yaml:"baseline"`
	Pools         Pools          `yaml:"pools"`
	AttributeCost map[int]int    `yaml:"attribute_cost"`
	Composites    CompositeRules `yaml:"composites"`
	Formulas      []Formula      `yaml:"formulas"`
	Categories    []CategoryDef  `yaml:"categories"`
}

// Pools holds the point budgets spent during character creation.
type Pools struct {
	Attributes AttributePool `yaml:"attributes"`
	Abilities  AbilityPool   `yaml:"abilities"`
}

// AttributePool budgets the raw attribute values of one category.
type AttributePool struct {
	Category string `yaml:"category"`
	Budget   int    `yaml:"budget"`
}

// AbilityPool budgets the raw ability values across every other category.
type AbilityPool struct {
	Budget int `yaml:"budget"`
}

// CompositeRules configures the derived combat values shown beneath an ability.
//
// A composite adds the ability level to (calc(attribute) - Baseline) / Divisor.
type CompositeRules struct {
	Baseline int             `yaml:"baseline"`
	Divisor  int             `yaml:"divisor"`
	Rules    []CompositeRule `yaml:"rules"`
}

// Rule returns the rule for suffix.
func (c CompositeRules) Rule(suffix string) (CompositeRule, bool) {
	for _, r := range c.Rules {
		if r.Suffix == suffix {
			return r, true
		}
	}
	return CompositeRule{}, false
}

// CompositeRule derives "<Ability> - <Suffix>". Either Attribute names the
// governing attribute, or BestOfChecks selects the best of the ability's own
// check attributes (first maximum wins).
type CompositeRule struct {
	Suffix       string `yaml:"suffix"`
	Attribute    string `yaml:"attribute"`
	BestOfChecks bool   `yaml:"best_of_checks"`
}

// Formula derives an attribute from other attributes:
//
//	value += (sum of Factor * calc(Code)) / Divisor + Constant
//
// When Cost is set the formula instead subtracts the attribute cost table
// applied to every raw value of the attribute pool category.
type Formula struct {
	Code     string `yaml:"code"`
	Terms    []Term `yaml:"terms"`
	Divisor  int    `yaml:"divisor"`
	Constant int    `yaml:"constant"`
	Cost     bool   `yaml:"cost"`
}

// Term is one weighted input of a Formula. A zero Factor counts as 1.
type Term struct {
	Code   string `yaml:"code"`
	Factor int    `yaml:"factor"`
}

// Weight returns the effective factor.
func (t Term) Weight() int {
	if t.Factor == 0 {
		return 1
	}
	return t.Factor
}

// EffectiveDivisor returns Divisor, treating 0 as 1.
func (f Formula) EffectiveDivisor() int {
	if f.Divisor == 0 {
		return 1
	}
	return f.Divisor
}

// DependsOn returns the attribute codes the formula reads through the
// calculator. Cost formulas read raw values only.
func (f Formula) DependsOn() []string {
	if f.Cost {
		return nil
	}
	out := make([]string, 0, len(f.Terms))
	for _, t := range f.Terms {
		out = append(out, t.Code)
	}
	return out
}

// CategoryDef is one category of the sheet. Entries are laid out as
// modifier sources, then attributes, then abilities each followed by its
// composites.
type CategoryDef struct {
	Name       string        `yaml:"name"`
	Modifiers  []ModifierDef `yaml:"modifiers"`
	Attributes []StatDef     `yaml:"attributes"`
	Abilities  []StatDef     `yaml:"abilities"`
}

// ModifierDef declares a modifier source slot.
type ModifierDef struct {
	Name      string   `yaml:"name"`
	Source    string   `yaml:"source"`
	DependsOn []string `yaml:"depends_on"`
}

// StatDef declares an attribute (Code set) or an ability (Checks set).
type StatDef struct {
	Name       string   `yaml:"name"`
	Code       string   `yaml:"code"`
	Checks     []string `yaml:"checks"`
	Min        int      `yaml:"min"`
	Max        int      `yaml:"max"`
	Composites []string `yaml:"composites"`
}

// CompositeName returns "<ability> - <suffix>".
func CompositeName(ability, suffix string) string {
	return ability + CompositeSeparator + suffix
}
