// Package evaluator ranks showdown hands with github.com/paulhankin/poker.
package evaluator

import (
	"errors"
	"fmt"

	"github.com/lox/pokerrooms/internal/deck"
	"github.com/paulhankin/poker"
)

// ErrCardCount is returned for hands that are not five to seven cards
var ErrCardCount = errors.New("evaluator: hands need 5 to 7 cards")

// Score is the strength of a best five-card hand. Higher is better.
type Score int16

// Compare returns -1 if s is weaker, 0 if equal, 1 if s is stronger
func (s Score) Compare(other Score) int {
	switch {
	case s > other:
		return 1
	case s < other:
		return -1
	default:
		return 0
	}
}

// Evaluate scores the best five-card hand that can be made from cards
func Evaluate(cards []deck.Card) (Score, error) {
	pcs, err := toPokerCards(cards)
	if err != nil {
		return 0, err
	}
	switch len(pcs) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], pcs)
		return Score(poker.Eval7(&a7)), nil
	case 6:
		return bestOfSix(pcs), nil
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], pcs)
		return Score(poker.Eval5(&a5)), nil
	default:
		return 0, fmt.Errorf("%w: got %d", ErrCardCount, len(pcs))
	}
}

// Describe returns a readable name for the hand, or an empty string when the
// library cannot describe that many cards.
func Describe(cards []deck.Card) string {
	pcs, err := toPokerCards(cards)
	if err != nil {
		return ""
	}
	desc, err := poker.Describe(pcs)
	if err != nil {
		return ""
	}
	return desc
}

// bestOfSix tries every five-card hand left after dropping one card
func bestOfSix(pcs []poker.Card) Score {
	best := Score(-1 << 15)
	var five [5]poker.Card
	for skip := range pcs {
		k := 0
		for i, c := range pcs {
			if i != skip {
				five[k] = c
				k++
			}
		}
		if s := Score(poker.Eval5(&five)); s > best {
			best = s
		}
	}
	return best
}
