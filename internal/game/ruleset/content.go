// Package ruleset loads the data-driven rules content of a rule system: the
// sheet schema, races, and cultures.
package ruleset

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

const (
	sheetFile   = "sheet.yaml"
	racesFile   = "races.yaml"
	culturesDir = "cultures"
)

//go:embed content
var embedded embed.FS

// Content is a validated set of rules content.
type Content struct {
	Sheet    *SheetDef
	Races    []*Race
	Cultures []*Culture

	races    map[string]*Race
	cultures map[string]*Culture
}

// Default loads the content compiled into the binary.
//
// Postcondition: Returns validated content or a non-nil error.
func Default() (*Content, error) {
	sub, err := fs.Sub(embedded, "content")
	if err != nil {
		return nil, fmt.Errorf("opening embedded content: %w", err)
	}
	return LoadFS(sub)
}

// LoadDir loads content from a directory laid out like the embedded content:
// sheet.yaml, races.yaml and cultures/*.yaml.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns validated content or a non-nil error.
func LoadDir(dir string) (*Content, error) {
	return LoadFS(os.DirFS(dir))
}

// LoadFS loads content from fsys.
//
// Postcondition: Returns validated content or a non-nil error.
func LoadFS(fsys fs.FS) (*Content, error) {
	var sheet SheetDef
	if err := decodeFile(fsys, sheetFile, &sheet); err != nil {
		return nil, err
	}
	var races []*Race
	if err := decodeFile(fsys, racesFile, &races); err != nil {
		return nil, err
	}
	files, err := yamlFiles(fsys, culturesDir)
	if err != nil {
		return nil, err
	}
	var cultures []*Culture
	for _, name := range files {
		var batch []*Culture
		if err := decodeFile(fsys, name, &batch); err != nil {
			return nil, err
		}
		cultures = append(cultures, batch...)
	}
	return New(&sheet, races, cultures)
}

// New indexes and validates content assembled in memory.
//
// Postcondition: Returns validated content or an error listing every violation.
func New(sheet *SheetDef, races []*Race, cultures []*Culture) (*Content, error) {
	c := &Content{
		Sheet:    sheet,
		Races:    races,
		Cultures: cultures,
	}
	for _, cu := range cultures {
		if cu != nil {
			cu.index()
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Race returns the race with the given ID.
func (c *Content) Race(id string) (*Race, bool) {
	r, ok := c.races[id]
	return r, ok
}

// Culture returns the culture with the given ID.
func (c *Content) Culture(id string) (*Culture, bool) {
	cu, ok := c.cultures[id]
	return cu, ok
}

// RaceValues returns every race as a modifier value, in declaration order.
func (c *Content) RaceValues() []stat.ModifierValue {
	out := make([]stat.ModifierValue, len(c.Races))
	for i, r := range c.Races {
		out[i] = r
	}
	return out
}

// CultureValues returns the cultures open to r, in the order r lists them.
func (c *Content) CultureValues(r *Race) []stat.ModifierValue {
	out := make([]stat.ModifierValue, 0, len(r.Cultures))
	for _, id := range r.Cultures {
		out = append(out, c.cultures[id])
	}
	return out
}

// AttributeCost returns the adventure point cost of a raw attribute value.
// Values outside the table cost nothing.
func (c *Content) AttributeCost(v int) int {
	return c.Sheet.AttributeCost[v]
}

// Validate checks cross references and the invariants the backend relies on.
// It collects every violation instead of stopping at the first.
func (c *Content) Validate() error {
	var errs []error
	if c.Sheet == nil {
		return errors.New("sheet definition is missing")
	}
	c.races = make(map[string]*Race, len(c.Races))
	c.cultures = make(map[string]*Culture, len(c.Cultures))
	attrs := make(map[string]bool)
	abilities := make(map[stat.Key]bool)
	categories := make(map[string]bool)
	raceSources := make(map[string]bool)
	for _, cat := range c.Sheet.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			errs = append(errs, errors.New("category name must not be empty"))
		}
		if categories[cat.Name] {
			errs = append(errs, fmt.Errorf("duplicate category %q", cat.Name))
		}
		categories[cat.Name] = true
		for _, m := range cat.Modifiers {
			switch m.Source {
			case SourceRace:
				raceSources[m.Name] = true
			case SourceCulture, SourceAttributeBonus:
				if !slices.ContainsFunc(m.DependsOn, func(d string) bool { return raceSources[d] }) {
					errs = append(errs, fmt.Errorf("modifier %q must depend on a race modifier declared before it", m.Name))
				}
			default:
				errs = append(errs, fmt.Errorf("modifier %q: unknown source %q", m.Name, m.Source))
			}
		}
		for _, a := range cat.Attributes {
			if a.Code == "" {
				errs = append(errs, fmt.Errorf("category %q: attribute %q has no code", cat.Name, a.Name))
			}
			if attrs[a.Code] {
				errs = append(errs, fmt.Errorf("duplicate attribute code %q", a.Code))
			}
			attrs[a.Code] = true
		}
		local := make(map[stat.Key]bool, len(cat.Abilities))
		for _, a := range cat.Abilities {
			k := stat.AbilityKey(a.Name)
			if local[k] {
				errs = append(errs, fmt.Errorf("category %q: duplicate ability %q", cat.Name, a.Name))
			}
			local[k] = true
			abilities[k] = true
		}
	}
	if !categories[c.Sheet.Pools.Attributes.Category] {
		errs = append(errs, fmt.Errorf("attribute pool category %q is not declared", c.Sheet.Pools.Attributes.Category))
	}
	for _, cat := range c.Sheet.Categories {
		for _, a := range cat.Abilities {
			for _, code := range a.Checks {
				if !attrs[code] {
					errs = append(errs, fmt.Errorf("ability %q: unknown check attribute %q", a.Name, code))
				}
			}
			for _, suffix := range a.Composites {
				if _, ok := c.Sheet.Composites.Rule(suffix); !ok {
					errs = append(errs, fmt.Errorf("ability %q: no composite rule for %q", a.Name, suffix))
				}
			}
		}
	}
	if c.Sheet.Composites.Divisor <= 0 {
		errs = append(errs, errors.New("composite divisor must be positive"))
	}
	for _, r := range c.Sheet.Composites.Rules {
		if !r.BestOfChecks && !attrs[r.Attribute] {
			errs = append(errs, fmt.Errorf("composite %q: unknown attribute %q", r.Suffix, r.Attribute))
		}
	}
	formulas := make(map[string]bool)
	for _, f := range c.Sheet.Formulas {
		if !attrs[f.Code] {
			errs = append(errs, fmt.Errorf("formula for unknown attribute %q", f.Code))
		}
		if formulas[f.Code] {
			errs = append(errs, fmt.Errorf("duplicate formula for %q", f.Code))
		}
		formulas[f.Code] = true
		if f.Divisor < 0 {
			errs = append(errs, fmt.Errorf("formula %q: divisor must not be negative", f.Code))
		}
		for _, t := range f.Terms {
			if !attrs[t.Code] {
				errs = append(errs, fmt.Errorf("formula %q: unknown term %q", f.Code, t.Code))
			}
		}
	}

	for _, cu := range c.Cultures {
		if cu == nil || cu.Slug == "" || cu.Title == "" {
			errs = append(errs, errors.New("culture id and name must not be empty"))
			continue
		}
		if _, dup := c.cultures[cu.Slug]; dup {
			errs = append(errs, fmt.Errorf("duplicate culture %q", cu.Slug))
		}
		c.cultures[cu.Slug] = cu
		for name := range cu.Abilities {
			if !abilities[stat.AbilityKey(name)] {
				errs = append(errs, fmt.Errorf("culture %q: unknown ability %q", cu.Slug, name))
			}
		}
	}
	if len(c.Races) == 0 {
		errs = append(errs, errors.New("at least one race is required"))
	}
	for _, r := range c.Races {
		if r == nil || r.Slug == "" || r.Title == "" {
			errs = append(errs, errors.New("race id and name must not be empty"))
			continue
		}
		if _, dup := c.races[r.Slug]; dup {
			errs = append(errs, fmt.Errorf("duplicate race %q", r.Slug))
		}
		c.races[r.Slug] = r
		if len(r.Cultures) == 0 {
			errs = append(errs, fmt.Errorf("race %q offers no culture", r.Slug))
		}
		for _, id := range r.Cultures {
			if _, ok := c.cultures[id]; !ok {
				errs = append(errs, fmt.Errorf("race %q: unknown culture %q", r.Slug, id))
			}
		}
		if len(r.AttributeBonuses) == 0 {
			errs = append(errs, fmt.Errorf("race %q offers no attribute bonus", r.Slug))
		}
		for _, b := range r.AttributeBonuses {
			if !attrs[b.Attribute] {
				errs = append(errs, fmt.Errorf("race %q: bonus for unknown attribute %q", r.Slug, b.Attribute))
			}
		}
		for code := range r.Modifiers {
			if !attrs[code] {
				errs = append(errs, fmt.Errorf("race %q: modifier for unknown attribute %q", r.Slug, code))
			}
		}
	}
	return errors.Join(errs...)
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// yamlFiles returns the .yaml and .yml files directly inside dir, sorted by name.
func yamlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, path.Join(dir, name))
		}
	}
	return paths, nil
}
