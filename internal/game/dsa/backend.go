// Package dsa implements the "Das Schwarze Auge" rule system: the character
// sheet schema built from rules content, the derived value calculator, and
// the point budget validator.
package dsa

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/charsheet/internal/game/calendar"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/dice"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
	"github.com/cory-johannsen/charsheet/internal/game/system"
)

const (
	// ID is the registry key of the rule system.
	ID = "dsa"
	// Name is the display name of the rule system.
	Name = "Das Schwarze Auge"
)

// Backend owns the players and calendar of a DSA group.
type Backend struct {
	content   *ruleset.Content
	logger    *zap.Logger
	cal       *calendar.Calendar
	roster    *character.Roster
	calc      stat.Calculator
	validator *Validator
	roller    *dice.Roller
}

var _ system.Backend = (*Backend)(nil)

// Option configures a Backend.
type Option func(*Backend)

// WithCalendar replaces the default start date.
func WithCalendar(c *calendar.Calendar) Option {
	return func(b *Backend) {
		if c != nil {
			b.cal = c
		}
	}
}

// WithCalculator wraps the built-in calculator, e.g. with house rules.
func WithCalculator(wrap func(stat.Calculator) stat.Calculator) Option {
	return func(b *Backend) {
		if wrap != nil {
			b.calc = wrap(b.calc)
		}
	}
}

// WithRoller replaces the crypto-backed roller used for skill checks.
func WithRoller(r *dice.Roller) Option {
	return func(b *Backend) {
		if r != nil {
			b.roller = r
		}
	}
}

// NewBackend builds a backend from content.
//
// Precondition: content must be validated rules content.
// Postcondition: Returns an error if the formulas are cyclic or the schema
// is structurally invalid.
func NewBackend(content *ruleset.Content, logger *zap.Logger, opts ...Option) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	calc, err := NewCalculator(content)
	if err != nil {
		return nil, fmt.Errorf("dsa: %w", err)
	}
	b := &Backend{
		content:   content,
		logger:    logger,
		cal:       calendar.Default(),
		roster:    character.NewRoster(),
		calc:      calc,
		validator: NewValidator(content.Sheet.Pools, logger),
		roller:    dice.NewRoller(dice.NewCryptoSource(), logger),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.CharacterSheet().Check(); err != nil {
		return nil, fmt.Errorf("dsa: %w", err)
	}
	return b, nil
}

// Register adds the rule system to r.
func Register(r *system.Registry) {
	r.Register(ID, func(deps system.Deps) (system.Backend, error) {
		content, err := loadContent(deps.ContentDir)
		if err != nil {
			return nil, err
		}
		return NewBackend(content, deps.Logger, WithCalendar(deps.Calendar), WithCalculator(deps.Decorate))
	})
}

func loadContent(dir string) (*ruleset.Content, error) {
	if dir == "" {
		return ruleset.Default()
	}
	return ruleset.LoadDir(dir)
}

// ID implements system.Backend.
func (b *Backend) ID() string { return ID }

// Name implements system.Backend.
func (b *Backend) Name() string { return Name }

// Calendar implements system.Backend.
func (b *Backend) Calendar() *calendar.Calendar { return b.cal }

// Content returns the rules content the backend was built from.
func (b *Backend) Content() *ruleset.Content { return b.content }

// AddPlayer creates a player whose pool attributes start at the baseline and
// whose modifier sources hold their first candidates.
func (b *Backend) AddPlayer(name string) *character.Player {
	p := character.NewPlayer(name)
	sh := b.CharacterSheet()
	for _, r := range sh.Category(b.content.Sheet.Pools.Attributes.Category).Stats() {
		if r.Stat.Kind == stat.KindAttribute {
			p.SetValue(r.Stat.Key(), b.content.Sheet.Baseline)
		}
	}
	sh.Resolve(p)
	idx := b.roster.Add(p)
	b.logger.Info("player added",
		zap.String("player", name),
		zap.String("id", p.ID.String()),
		zap.Int("index", idx),
	)
	return p
}

// Player implements system.Backend.
func (b *Backend) Player(i int) *character.Player { return b.roster.Get(i) }

// RemovePlayer implements system.Backend.
func (b *Backend) RemovePlayer(i int) {
	p := b.roster.Remove(i)
	b.logger.Info("player removed", zap.String("player", p.Name()), zap.Int("index", i))
}

// PlayerCount implements system.Backend.
func (b *Backend) PlayerCount() int { return b.roster.Len() }

// CharacterSheet builds the schema from the content. Entries of a category
// are laid out as modifier sources, attributes, then abilities each followed
// by its composites.
func (b *Backend) CharacterSheet() *stat.Sheet {
	sh := stat.NewSheet(b.calc, b.validator, stat.WithLogger(b.logger))
	for _, def := range b.content.Sheet.Categories {
		c := stat.NewCategory(def.Name)
		for _, m := range def.Modifiers {
			c.AddModifier(stat.NewModifierSource(m.Name, b.candidates(m), m.DependsOn...))
		}
		for _, a := range def.Attributes {
			c.AddStat(stat.Attribute(a.Name, a.Code), a.Min, a.Max)
		}
		for _, a := range def.Abilities {
			c.AddStat(stat.Ability(a.Name, a.Checks...), a.Min, a.Max)
			for _, suffix := range a.Composites {
				c.AddStat(stat.Composite(ruleset.CompositeName(a.Name, suffix)), 0, 0)
			}
		}
		sh.AddCategory(c)
	}
	return sh
}

func (b *Backend) candidates(m ruleset.ModifierDef) stat.CandidateFunc {
	switch m.Source {
	case ruleset.SourceRace:
		return func(stat.Player) []stat.ModifierValue {
			return b.content.RaceValues()
		}
	case ruleset.SourceCulture:
		return func(p stat.Player) []stat.ModifierValue {
			return b.content.CultureValues(b.raceOf(p, m.DependsOn))
		}
	case ruleset.SourceAttributeBonus:
		return func(p stat.Player) []stat.ModifierValue {
			return b.raceOf(p, m.DependsOn).Bonuses()
		}
	default:
		panic(fmt.Sprintf("dsa: modifier %q has unknown source %q", m.Name, m.Source))
	}
}

// raceOf returns the race selected in the first of sources holding one.
// The sheet resolves dependencies before computing candidates, so the
// fallback only applies to a player never resolved against this schema.
func (b *Backend) raceOf(p stat.Player, sources []string) *ruleset.Race {
	for _, src := range sources {
		if r, ok := p.Modifier(src).(*ruleset.Race); ok {
			return r
		}
	}
	return b.content.Races[0]
}
