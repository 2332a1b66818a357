package game

import "github.com/lox/pokerrooms/internal/deck"

// Contender is a player still holding cards when the hand ends
type Contender struct {
	PlayerID string
	Hand     deck.Hand
}

// Standing is one player's finishing place. Players sharing a Place tie.
type Standing struct {
	PlayerID    string
	Place       int // 1 is best
	Score       int // higher is better; only comparable within one resolver
	Description string
	Cards       []deck.Card // hole cards plus board handed to the evaluator
}

// ShowdownResolver ranks the contenders' hands against the board. It is the
// extension point for winner determination; the table never moves chips on
// its result.
type ShowdownResolver interface {
	Resolve(board []deck.Card, contenders []Contender) ([]Standing, error)
}
