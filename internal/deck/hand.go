package deck

import (
	"errors"
	"fmt"
)

// ErrInvalidHand is returned when a hand is built from something that is not a
// valid card.
var ErrInvalidHand = errors.New("invalid hand")

// Hand is the set of cards held by one player: two hole cards while a hand is
// played, hole cards plus board at showdown.
type Hand struct {
	cards []Card
}

// NewHand builds a hand from cards. Every element must be a valid card and no
// card may appear twice.
func NewHand(cards ...Card) (Hand, error) {
	seen := make(map[Card]struct{}, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return Hand{}, fmt.Errorf("%w: element %d is not a card", ErrInvalidHand, i)
		}
		if _, dup := seen[c]; dup {
			return Hand{}, fmt.Errorf("%w: %s held twice", ErrInvalidHand, c)
		}
		seen[c] = struct{}{}
	}
	h := Hand{cards: make([]Card, len(cards))}
	copy(h.cards, cards)
	return h, nil
}

// With returns a new hand holding h's cards followed by extra, for showdown
// evaluation against the board.
func (h Hand) With(extra ...Card) (Hand, error) {
	all := make([]Card, 0, len(h.cards)+len(extra))
	all = append(all, h.cards...)
	all = append(all, extra...)
	return NewHand(all...)
}

// Cards returns a copy of the cards in the hand
func (h Hand) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// Len returns the number of cards held
func (h Hand) Len() int {
	return len(h.cards)
}

// Strings returns the wire codes of the cards in the hand
func (h Hand) Strings() []string {
	return CardStrings(h.cards)
}
