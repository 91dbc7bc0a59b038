package stat

import "fmt"

// Range holds the legal input bounds for one stat inside one category.
type Range struct {
	Stat Stat
	Min  int
	Max  int
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// ModifierValue is one selectable, additively stacked contributor to stat values.
type ModifierValue interface {
	// ID returns the stable identifier used for selection and dependency matching.
	ID() string
	// Name returns the display label.
	Name() string
	// Modifier returns the delta this value applies to s given the raw base value.
	// It must be pure and return 0 for stats it does not affect.
	Modifier(s Stat, base int) int
}

// Player is the per-player state the schema reads and repairs.
type Player interface {
	Name() string
	Value(k Key) int
	SetValue(k Key, v int)
	// Modifier returns the current selection for source, or nil if none was made.
	Modifier(source string) ModifierValue
	SetModifier(source string, v ModifierValue)
}

// CandidateFunc computes the ordered candidate list of a modifier source for p.
type CandidateFunc func(p Player) []ModifierValue

// ModifierSource is a named slot holding exactly one selected ModifierValue per player.
//
// DependsOn names the sources whose selection the candidate list is computed from.
type ModifierSource struct {
	Name       string
	DependsOn  []string
	candidates CandidateFunc
}

// NewModifierSource returns a source named name whose candidates are computed by fn.
//
// Precondition: fn must be non-nil and must never return an empty list.
func NewModifierSource(name string, fn CandidateFunc, dependsOn ...string) *ModifierSource {
	if fn == nil {
		panic(fmt.Sprintf("stat: modifier source %q has nil candidate func", name))
	}
	return &ModifierSource{Name: name, DependsOn: dependsOn, candidates: fn}
}

// Candidates recomputes the candidate list from p's current selections.
func (m *ModifierSource) Candidates(p Player) []ModifierValue {
	return m.candidates(p)
}

// Find returns the candidate with the given ID.
func (m *ModifierSource) Find(p Player, id string) (ModifierValue, bool) {
	for _, c := range m.candidates(p) {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// Entry is one row of a Category: exactly one of Range or Modifier is non-nil.
type Entry struct {
	Range    *Range
	Modifier *ModifierSource
}

// Category is an ordered, named grouping of stat ranges and modifier sources.
type Category struct {
	Name    string
	Entries []Entry
}

// NewCategory returns an empty category.
func NewCategory(name string) *Category {
	return &Category{Name: name}
}

// AddStat appends a stat with its input bounds.
func (c *Category) AddStat(s Stat, min, max int) {
	c.Entries = append(c.Entries, Entry{Range: &Range{Stat: s, Min: min, Max: max}})
}

// AddModifier appends a modifier source.
func (c *Category) AddModifier(m *ModifierSource) {
	c.Entries = append(c.Entries, Entry{Modifier: m})
}

// Stats returns the stat ranges of c in declaration order.
func (c *Category) Stats() []*Range {
	var out []*Range
	for _, e := range c.Entries {
		if e.Range != nil {
			out = append(out, e.Range)
		}
	}
	return out
}

// Modifiers returns the modifier sources of c in declaration order.
func (c *Category) Modifiers() []*ModifierSource {
	var out []*ModifierSource
	for _, e := range c.Entries {
		if e.Modifier != nil {
			out = append(out, e.Modifier)
		}
	}
	return out
}

// FindStat returns the range whose stat has the given display name.
func (c *Category) FindStat(name string) (*Range, bool) {
	want := normalize(name)
	for _, e := range c.Entries {
		if e.Range != nil && normalize(e.Range.Stat.Name) == want {
			return e.Range, true
		}
	}
	return nil, false
}
