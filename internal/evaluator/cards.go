package evaluator

import (
	"fmt"

	"github.com/lox/pokerrooms/internal/deck"
	"github.com/paulhankin/poker"
)

// ParseCards parses concatenated card codes such as "AsKsQsJsTs"
func ParseCards(s string) ([]deck.Card, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d in %q", deck.ErrInvalidCard, len(s), s)
	}
	cards := make([]deck.Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := deck.ParseCard(s[i : i+2])
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards parses concatenated card codes and panics on error
func MustParseCards(s string) []deck.Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// toPoker converts a card to the evaluator library's representation, which
// numbers ranks 1..13 with the ace low.
func toPoker(c deck.Card) (poker.Card, error) {
	var (
		s    poker.Suit
		zero poker.Card
	)
	switch c.Suit {
	case deck.Clubs:
		s = poker.Club
	case deck.Diamonds:
		s = poker.Diamond
	case deck.Hearts:
		s = poker.Heart
	case deck.Spades:
		s = poker.Spade
	default:
		return zero, fmt.Errorf("%w: suit %d", deck.ErrInvalidCard, c.Suit)
	}
	r := poker.Rank(c.Rank)
	if c.Rank == deck.Ace {
		r = poker.Rank(1)
	}
	card, err := poker.MakeCard(s, r)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %v", deck.ErrInvalidCard, c, err)
	}
	return card, nil
}

func toPokerCards(cards []deck.Card) ([]poker.Card, error) {
	out := make([]poker.Card, len(cards))
	for i, c := range cards {
		pc, err := toPoker(c)
		if err != nil {
			return nil, err
		}
		out[i] = pc
	}
	return out, nil
}
