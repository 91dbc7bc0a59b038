package dsa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/charsheet/internal/game/calendar"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/dsa"
	"github.com/cory-johannsen/charsheet/internal/game/ruleset"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
	"github.com/cory-johannsen/charsheet/internal/game/system"
)

func newBackend(t testing.TB, opts ...dsa.Option) *dsa.Backend {
	t.Helper()
	content, err := ruleset.Default()
	require.NoError(t, err)
	b, err := dsa.NewBackend(content, zap.NewNop(), opts...)
	require.NoError(t, err)
	return b
}

// calc returns the displayed value of the stat found by code or name.
func calc(t testing.TB, sh *stat.Sheet, p stat.Player, name string) int {
	t.Helper()
	c, r, ok := sh.Lookup(name)
	require.True(t, ok, "stat %q not declared", name)
	return sh.CalcValue(p, c, r.Stat)
}

// set stores the validated value of the stat found by code or name.
func set(t testing.TB, sh *stat.Sheet, p stat.Player, name string, proposed int) int {
	t.Helper()
	c, r, ok := sh.Lookup(name)
	require.True(t, ok, "stat %q not declared", name)
	return sh.SetValue(p, c, r.Stat, proposed)
}

func TestBackend_Identity(t *testing.T) {
	b := newBackend(t)
	assert.Equal(t, "dsa", b.ID())
	assert.Equal(t, "Das Schwarze Auge", b.Name())
	assert.Equal(t, "1. Praios 1000, 08:00", b.Calendar().String())
}

func TestBackend_WithCalendar(t *testing.T) {
	cal := calendar.New(12, 4, 1039, 18, 30)
	b := newBackend(t, dsa.WithCalendar(cal))
	assert.Same(t, cal, b.Calendar())
}

func TestBackend_AddPlayer_SeedsDefaults(t *testing.T) {
	b := newBackend(t)
	p := b.AddPlayer("Alrik")
	require.Equal(t, 1, b.PlayerCount())
	assert.Same(t, p, b.Player(0))

	for _, code := range []string{"MU", "KL", "IN", "CH", "FF", "GE", "KO", "KK"} {
		assert.Equal(t, 8, p.Value(stat.AttributeKey(code)), code)
	}
	assert.Equal(t, "mensch", p.Modifier("Rasse").ID())
	assert.Equal(t, "andergaster", p.Modifier("Kultur").ID())
	assert.Equal(t, "MU+1", p.Modifier("Eigenschaftsbonus").ID())
	assert.Equal(t, 0, p.Value(stat.AttributeKey("AP")))
}

func TestBackend_RemovePlayer_ShiftsLaterIndices(t *testing.T) {
	b := newBackend(t)
	b.AddPlayer("Alrik")
	b.AddPlayer("Bosper")
	b.AddPlayer("Canja")
	b.RemovePlayer(1)
	require.Equal(t, 2, b.PlayerCount())
	assert.Equal(t, "Alrik", b.Player(0).Name())
	assert.Equal(t, "Canja", b.Player(1).Name())
	assert.Panics(t, func() { b.Player(2) })
	assert.Panics(t, func() { b.RemovePlayer(-1) })
}

func TestBackend_PlayersAreIndependent(t *testing.T) {
	b := newBackend(t)
	sh := b.CharacterSheet()
	a := b.AddPlayer("Alrik")
	c := b.AddPlayer("Canja")
	set(t, sh, a, "MU", 12)
	assert.Equal(t, 12, a.Value(stat.AttributeKey("MU")))
	assert.Equal(t, 8, c.Value(stat.AttributeKey("MU")))
	assert.NotEqual(t, a.ID, c.ID)
}

func TestBackend_CharacterSheet_Layout(t *testing.T) {
	b := newBackend(t)
	sh := b.CharacterSheet()
	names := make([]string, 0, len(sh.Categories()))
	for _, c := range sh.Categories() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{
		"Charakter", "Attribute", "Kampftechnik", "Körpertalente",
		"Gesellschaftstalente", "Naturtalente", "Wissenstalente", "Handwerkstalente",
	}, names)

	charakter := sh.Category("Charakter")
	require.Len(t, charakter.Modifiers(), 3)
	assert.Equal(t, "Rasse", charakter.Modifiers()[0].Name)
	assert.Equal(t, "Kultur", charakter.Modifiers()[1].Name)
	assert.Equal(t, "Eigenschaftsbonus", charakter.Modifiers()[2].Name)

	kampf := sh.Category("Kampftechnik")
	stats := kampf.Stats()
	require.GreaterOrEqual(t, len(stats), 3)
	assert.Equal(t, "Armbrüste", stats[0].Stat.Name)
	assert.Equal(t, "Armbrüste - Fernkampf", stats[1].Stat.Name)
	assert.Equal(t, stat.KindComposite, stats[1].Stat.Kind)
	assert.Equal(t, "Armbrüste - Parade", stats[2].Stat.Name)
	assert.Equal(t, 0, stats[1].Min)
	assert.Equal(t, 0, stats[1].Max)

	_, r, ok := sh.Lookup("Klettern")
	require.True(t, ok)
	assert.Equal(t, 20, r.Max)
	assert.Equal(t, -1, r.Min)
	assert.Equal(t, "Klettern (GE/GE/KK)", r.Stat.Label())
}

func TestBackend_CultureFollowsRace(t *testing.T) {
	b := newBackend(t)
	sh := b.CharacterSheet()
	p := b.AddPlayer("Alrik")

	elf, ok := sh.ModifierSource("Rasse").Find(p, "elf")
	require.True(t, ok)
	p.SetModifier("Rasse", elf)

	assert.Equal(t, "auelfen", sh.Selection(p, "Kultur").ID())
	assert.Equal(t, "KL-2", sh.Selection(p, "Eigenschaftsbonus").ID())
	assert.Equal(t, "auelfen", p.Modifier("Kultur").ID())
}

func TestBackend_HalfElfKeepsHumanCulture(t *testing.T) {
	b := newBackend(t)
	sh := b.CharacterSheet()
	p := b.AddPlayer("Alrik")
	thorwal, ok := sh.ModifierSource("Kultur").Find(p, "thorwaller")
	require.True(t, ok)
	p.SetModifier("Kultur", thorwal)

	halbelf, _ := sh.ModifierSource("Rasse").Find(p, "halbelf")
	p.SetModifier("Rasse", halbelf)
	assert.Equal(t, "thorwaller", sh.Selection(p, "Kultur").ID())
}

func TestBackend_CultureRepairIsLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	content, err := ruleset.Default()
	require.NoError(t, err)
	b, err := dsa.NewBackend(content, zap.New(core))
	require.NoError(t, err)
	sh := b.CharacterSheet()
	p := b.AddPlayer("Alrik")
	zwerg, _ := sh.ModifierSource("Rasse").Find(p, "zwerg")
	p.SetModifier("Rasse", zwerg)
	sh.Resolve(p)

	entries := logs.FilterMessage("modifier selection reset").FilterField(zap.String("source", "Kultur")).All()
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1].ContextMap()
	assert.Equal(t, "ambosszwerge", last["selected"])
	assert.Equal(t, "andergaster", last["previous"])
	assert.Equal(t, 1, logs.FilterMessage("player added").Len())
}

func TestBackend_NewBackend_RejectsCyclicFormulas(t *testing.T) {
	base, err := ruleset.Default()
	require.NoError(t, err)
	sheet := *base.Sheet
	sheet.Formulas = append([]ruleset.Formula{
		{Code: "MU", Terms: []ruleset.Term{{Code: "INI"}}},
	}, base.Sheet.Formulas...)
	content, err := ruleset.New(&sheet, base.Races, base.Cultures)
	require.NoError(t, err)

	_, err = dsa.NewBackend(content, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formula cycle")
}

func TestRegister_BuildsFromRegistry(t *testing.T) {
	r := system.NewRegistry()
	dsa.Register(r)
	cal := calendar.New(1, 6, 1040, 9, 0)
	b, err := r.New(dsa.ID, system.Deps{Calendar: cal})
	require.NoError(t, err)
	assert.Equal(t, dsa.Name, b.Name())
	assert.Same(t, cal, b.Calendar())
	p := b.AddPlayer("Alrik")
	assert.IsType(t, &character.Player{}, p)
}

func TestRegister_MissingContentDir(t *testing.T) {
	r := system.NewRegistry()
	dsa.Register(r)
	_, err := r.New(dsa.ID, system.Deps{ContentDir: t.TempDir()})
	assert.Error(t, err)
}
