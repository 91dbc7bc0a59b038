package character

import "fmt"

// Roster is an append-only, index-addressed list of players.
//
// Indices come from an externally synchronized selection; an out-of-range
// index is a caller error and panics.
type Roster struct {
	players []*Player
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Add appends p and returns its index.
//
// Precondition: p must be non-nil.
func (r *Roster) Add(p *Player) int {
	if p == nil {
		panic("Roster.Add: precondition violated: player must be non-nil")
	}
	r.players = append(r.players, p)
	return len(r.players) - 1
}

// Get returns the player at index i.
func (r *Roster) Get(i int) *Player {
	r.mustIndex(i)
	return r.players[i]
}

// Remove deletes the player at index i; later players shift down by one.
func (r *Roster) Remove(i int) *Player {
	r.mustIndex(i)
	p := r.players[i]
	r.players = append(r.players[:i], r.players[i+1:]...)
	return p
}

// Len returns the number of players.
func (r *Roster) Len() int { return len(r.players) }

func (r *Roster) mustIndex(i int) {
	if i < 0 || i >= len(r.players) {
		panic(fmt.Sprintf("character: roster index %d out of range [0, %d)", i, len(r.players)))
	}
}
