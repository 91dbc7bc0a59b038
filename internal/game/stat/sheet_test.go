package stat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// flatMod adds a fixed delta per stat key.
type flatMod struct {
	id     string
	deltas map[stat.Key]int
}

func (f flatMod) ID() string   { return f.id }
func (f flatMod) Name() string { return f.id }
func (f flatMod) Modifier(s stat.Stat, _ int) int {
	return f.deltas[s.Key()]
}

// halfMod adds half of the base it is given.
type halfMod struct{ id string }

func (h halfMod) ID() string                         { return h.id }
func (h halfMod) Name() string                       { return h.id }
func (h halfMod) Modifier(_ stat.Stat, base int) int { return base / 2 }

var (
	mu = stat.Attribute("Mut", "MU")
	kl = stat.Attribute("Klugheit", "KL")

	human = flatMod{id: "human", deltas: map[stat.Key]int{mu.Key(): 1}}
	elf   = flatMod{id: "elf", deltas: map[stat.Key]int{kl.Key(): 2}}

	townsfolk = flatMod{id: "townsfolk", deltas: map[stat.Key]int{mu.Key(): 1}}
	nomads    = flatMod{id: "nomads"}
	woodElves = flatMod{id: "wood_elves", deltas: map[stat.Key]int{kl.Key(): 1}}
)

func buildSheet(t testing.TB, opts ...stat.SheetOption) *stat.Sheet {
	t.Helper()
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll, opts...)
	c := stat.NewCategory("Charakter")
	c.AddModifier(stat.NewModifierSource("Rasse", func(stat.Player) []stat.ModifierValue {
		return []stat.ModifierValue{human, elf}
	}))
	c.AddModifier(stat.NewModifierSource("Kultur", func(p stat.Player) []stat.ModifierValue {
		switch p.Modifier("Rasse").ID() {
		case "elf":
			return []stat.ModifierValue{woodElves}
		default:
			return []stat.ModifierValue{townsfolk, nomads}
		}
	}, "Rasse"))
	sh.AddCategory(c)
	attrs := stat.NewCategory("Attribute")
	attrs.AddStat(mu, 8, 19)
	attrs.AddStat(kl, 8, 19)
	sh.AddCategory(attrs)
	require.NoError(t, sh.Check())
	return sh
}

func TestSheet_Category_Unknown_Panics(t *testing.T) {
	sh := buildSheet(t)
	assert.Panics(t, func() { sh.Category("Zauber") })
	_, ok := sh.LookupCategory("Zauber")
	assert.False(t, ok)
	assert.Equal(t, "Attribute", sh.Category("Attribute").Name)
}

func TestSheet_ModifierSource_Unknown_Panics(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	assert.Panics(t, func() { sh.Selection(p, "Profession") })
}

func TestNewSheet_NilStrategiesPanic(t *testing.T) {
	assert.Panics(t, func() { stat.NewSheet(nil, stat.AcceptAll) })
	assert.Panics(t, func() { stat.NewSheet(stat.StackedCalculator, nil) })
}

func TestSheet_Selection_UnsetDefaultsToFirstCandidate(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	assert.Equal(t, "human", sh.Selection(p, "Rasse").ID())
	assert.Equal(t, "human", p.Modifier("Rasse").ID(), "repair must be stored on the player")
}

func TestSheet_Selection_RepairsAfterContextChange(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	sh.Resolve(p)
	p.SetModifier("Kultur", nomads)
	assert.Equal(t, "nomads", sh.Selection(p, "Kultur").ID())

	p.SetModifier("Rasse", elf)
	assert.Equal(t, "wood_elves", sh.Selection(p, "Kultur").ID())
	assert.Equal(t, "wood_elves", p.Modifier("Kultur").ID())
}

func TestSheet_Selection_KeepsValidSelection(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	p.SetModifier("Rasse", elf)
	assert.Equal(t, "elf", sh.Selection(p, "Rasse").ID())
}

func TestSheet_Selection_RepairIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sh := buildSheet(t, stat.WithLogger(zap.New(core)))
	p := character.NewPlayer("Alrik")
	sh.Resolve(p)
	p.SetModifier("Rasse", elf)
	sh.Selection(p, "Kultur")

	entries := logs.FilterMessage("modifier selection reset").FilterField(zap.String("previous", "townsfolk")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, "wood_elves", entries[0].ContextMap()["selected"])
}

func TestSheet_Selection_EmptyCandidatesPanics(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll)
	c := stat.NewCategory("Charakter")
	c.AddModifier(stat.NewModifierSource("Leer", func(stat.Player) []stat.ModifierValue { return nil }))
	sh.AddCategory(c)
	assert.Panics(t, func() { sh.Selection(character.NewPlayer("x"), "Leer") })
}

func TestSheet_Selection_ResolvesDependenciesFirst(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	assert.Equal(t, "townsfolk", sh.Selection(p, "Kultur").ID())
	assert.Equal(t, "human", p.Modifier("Rasse").ID())
}

func TestSheet_Resolve_RepairsEverySource(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	sel := sh.Resolve(p)
	assert.Equal(t, "human", sel["Rasse"].ID())
	assert.Equal(t, "townsfolk", sel["Kultur"].ID())
}

func TestSheet_CalcValue_StacksAdditively(t *testing.T) {
	sh := buildSheet(t)
	p := character.NewPlayer("Alrik")
	p.SetValue(mu.Key(), 10)
	attrs := sh.Category("Attribute")
	// human +1, townsfolk +1
	assert.Equal(t, 12, sh.CalcValue(p, attrs, mu))
	assert.Equal(t, 10, p.Value(mu.Key()), "raw value must not be overwritten")
}

func TestSheet_StackedModifier_EachSeesOriginalBase(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll)
	c := stat.NewCategory("Boni")
	c.AddModifier(stat.NewModifierSource("A", func(stat.Player) []stat.ModifierValue {
		return []stat.ModifierValue{halfMod{id: "a"}}
	}))
	c.AddModifier(stat.NewModifierSource("B", func(stat.Player) []stat.ModifierValue {
		return []stat.ModifierValue{halfMod{id: "b"}}
	}))
	sh.AddCategory(c)
	p := character.NewPlayer("x")
	p.SetValue(mu.Key(), 10)
	// 10 + 10/2 + 10/2, not 10 + 5 + 15/2
	assert.Equal(t, 20, sh.BaseValue(p, mu))
}

func TestSheet_ValidateValue_DelegatesToValidator(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.ValidatorFunc(func(_ *stat.Sheet, _ stat.Player, _ *stat.Category, _ stat.Stat, proposed int) int {
		return proposed - 1
	}))
	c := stat.NewCategory("Attribute")
	sh.AddCategory(c)
	assert.Equal(t, 9, sh.ValidateValue(character.NewPlayer("x"), c, mu, 10))
}

func TestSheet_Check_DependencyMustBeDeclaredFirst(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll)
	c := stat.NewCategory("Charakter")
	none := func(stat.Player) []stat.ModifierValue { return []stat.ModifierValue{nomads} }
	c.AddModifier(stat.NewModifierSource("Kultur", none, "Rasse"))
	c.AddModifier(stat.NewModifierSource("Rasse", none))
	sh.AddCategory(c)
	assert.Error(t, sh.Check())
}

func TestSheet_Check_DuplicateCategory(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll)
	sh.AddCategory(stat.NewCategory("Attribute"))
	sh.AddCategory(stat.NewCategory("Attribute"))
	assert.Error(t, sh.Check())
}

func TestSheet_Check_DuplicateSource(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.AcceptAll)
	none := func(stat.Player) []stat.ModifierValue { return []stat.ModifierValue{nomads} }
	a := stat.NewCategory("A")
	a.AddModifier(stat.NewModifierSource("Rasse", none))
	b := stat.NewCategory("B")
	b.AddModifier(stat.NewModifierSource("Rasse", none))
	sh.AddCategory(a)
	sh.AddCategory(b)
	assert.Error(t, sh.Check())
}

// Property: CalcValue is deterministic for unchanged state.
func TestProperty_CalcValueDeterministic(t *testing.T) {
	sh := buildSheet(t)
	attrs := sh.Category("Attribute")
	rapid.Check(t, func(rt *rapid.T) {
		p := character.NewPlayer("x")
		p.SetValue(mu.Key(), rapid.IntRange(8, 19).Draw(rt, "mu"))
		if rapid.Bool().Draw(rt, "elf") {
			p.SetModifier("Rasse", elf)
		}
		first := sh.CalcValue(p, attrs, mu)
		for i := 0; i < 3; i++ {
			if got := sh.CalcValue(p, attrs, mu); got != first {
				rt.Fatalf("CalcValue changed from %d to %d without state change", first, got)
			}
		}
	})
}

func TestSheet_Lookup_ByCodeOrName(t *testing.T) {
	sh := buildSheet(t)
	c, r, ok := sh.Lookup("KL")
	require.True(t, ok)
	assert.Equal(t, "Attribute", c.Name)
	assert.True(t, r.Stat.Is(kl))

	_, r, ok = sh.Lookup("Mut")
	require.True(t, ok)
	assert.True(t, r.Stat.Is(mu))

	_, _, ok = sh.Lookup("Zauberei")
	assert.False(t, ok)
}

func TestSheet_SetValue_StoresAcceptedValue(t *testing.T) {
	sh := stat.NewSheet(stat.StackedCalculator, stat.ValidatorFunc(func(_ *stat.Sheet, _ stat.Player, _ *stat.Category, _ stat.Stat, proposed int) int {
		return min(proposed, 12)
	}))
	c := stat.NewCategory("Attribute")
	c.AddStat(mu, 8, 19)
	sh.AddCategory(c)
	p := character.NewPlayer("x")
	assert.Equal(t, 12, sh.SetValue(p, c, mu, 15))
	assert.Equal(t, 12, p.Value(mu.Key()))
}
