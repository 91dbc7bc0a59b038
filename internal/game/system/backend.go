// Package system defines the contract a rule-system backend exposes to the
// frontend, and a registry of the available rule systems.
package system

import (
	"github.com/cory-johannsen/charsheet/internal/game/calendar"
	"github.com/cory-johannsen/charsheet/internal/game/character"
	"github.com/cory-johannsen/charsheet/internal/game/stat"
)

// Backend owns the players and calendar of one rule system and builds the
// character sheet schema on demand.
//
// Players are addressed by insertion index. Removing a player shifts every
// later index down by one. Index arguments outside [0, PlayerCount()) panic.
type Backend interface {
	ID() string
	Name() string
	Calendar() *calendar.Calendar
	// AddPlayer creates a player with the rule system's defaults and
	// returns it.
	AddPlayer(name string) *character.Player
	Player(i int) *character.Player
	RemovePlayer(i int)
	PlayerCount() int
	// CharacterSheet returns a freshly built schema bound to the rule
	// system's calculator and validator.
	CharacterSheet() *stat.Sheet
}
