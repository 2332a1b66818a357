package game

import (
	"github.com/lox/pokerrooms/internal/deck"
)

// Player represents a participant seated at a table
type Player struct {
	ID    string
	Name  string
	Stack int
	Hand  *deck.Hand // nil until hole cards are dealt
	Ready bool

	// Session is an opaque handle owned by the transport layer.
	Session any
}

// NewPlayer creates a player with the room's buy-in as stack
func NewPlayer(id, name string, buyIn int) *Player {
	return &Player{ID: id, Name: name, Stack: buyIn}
}

// HoleCards returns the wire codes of the player's hand, or nil
func (p *Player) HoleCards() []string {
	if p.Hand == nil {
		return nil
	}
	return p.Hand.Strings()
}
