// Package character holds per-player state and the index-addressed roster
// that owns it.
package character

import (
	"maps"

	"github.com/google/uuid"

	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// Player is one player's raw stat values and modifier selections.
//
// Values are always the pre-modifier input; derived results are never stored.
type Player struct {
	// ID identifies the player in logs; it is assigned at creation and never reused.
	ID uuid.UUID

	name       string
	values     map[stat.Key]int
	selections map[string]stat.ModifierValue
}

// NewPlayer returns a player with no values and no selections.
func NewPlayer(name string) *Player {
	return &Player{
		ID:         uuid.New(),
		name:       name,
		values:     make(map[stat.Key]int),
		selections: make(map[string]stat.ModifierValue),
	}
}

// Name returns the player's display name.
func (p *Player) Name() string { return p.name }

// Value returns the raw value stored for k, or 0 if none was set.
func (p *Player) Value(k stat.Key) int { return p.values[k] }

// SetValue stores the raw value for k.
func (p *Player) SetValue(k stat.Key, v int) { p.values[k] = v }

// Modifier returns the current selection for source, or nil if none was made.
func (p *Player) Modifier(source string) stat.ModifierValue { return p.selections[source] }

// SetModifier replaces the selection for source.
func (p *Player) SetModifier(source string, v stat.ModifierValue) { p.selections[source] = v }

// Values returns a copy of the stored raw values.
func (p *Player) Values() map[stat.Key]int { return maps.Clone(p.values) }

// Selections returns a copy of the current modifier selections.
func (p *Player) Selections() map[string]stat.ModifierValue { return maps.Clone(p.selections) }
