package deck

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDeck is returned when dealing from a deck with too few cards left.
var ErrEmptyDeck = errors.New("deck is empty")

// Size is the number of cards in a full deck
const Size = 52

// Rand is the randomness a Deck needs for shuffling. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Deck represents an ordered sequence of cards. Cards are dealt from the end.
type Deck struct {
	cards []Card
}

// New creates a standard 52-card deck in suit-major, rank-minor order
func New() *Deck {
	d := &Deck{cards: make([]Card, 0, Size)}
	for _, suit := range Suits {
		for rank := Two; rank <= Ace; rank++ {
			d.cards = append(d.cards, Card{Rank: rank, Suit: suit})
		}
	}
	return d
}

// NewShuffled creates a full deck and shuffles it with rng
func NewShuffled(rng Rand) *Deck {
	d := New()
	d.Shuffle(rng)
	return d
}

// FromCards builds a deck holding a copy of cards. Every card must be valid
// and appear at most once.
func FromCards(cards []Card) (*Deck, error) {
	seen := make(map[Card]struct{}, len(cards))
	for i, c := range cards {
		if !c.Valid() {
			return nil, fmt.Errorf("%w: position %d", ErrInvalidCard, i)
		}
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate %s", ErrInvalidCard, c)
		}
		seen[c] = struct{}{}
	}
	d := &Deck{cards: make([]Card, len(cards))}
	copy(d.cards, cards)
	return d, nil
}

// Shuffle permutes the deck in place with Fisher-Yates, visiting every index
// from the last down to the first.
func (d *Deck) Shuffle(rng Rand) {
	for i := len(d.cards) - 1; i >= 0; i-- {
		j := rng.IntN(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Pop removes and returns the last card
func (d *Deck) Pop() (Card, error) {
	n := len(d.cards)
	if n == 0 {
		return Card{}, ErrEmptyDeck
	}
	c := d.cards[n-1]
	d.cards = d.cards[:n-1]
	return c, nil
}

// PopN pops n cards in order. The deck is left untouched if it holds fewer
// than n cards.
func (d *Deck) PopN(n int) ([]Card, error) {
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: need %d cards, %d left", ErrEmptyDeck, n, len(d.cards))
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, _ := d.Pop()
		out = append(out, c)
	}
	return out, nil
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards, bottom first
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	copy(out, d.cards)
	return out
}

// Clone returns an independent copy of the deck
func (d *Deck) Clone() *Deck {
	return &Deck{cards: d.Cards()}
}

// Equal reports whether both decks hold the same cards in the same order
func (d *Deck) Equal(other *Deck) bool {
	if len(d.cards) != len(other.cards) {
		return false
	}
	for i := range d.cards {
		if d.cards[i] != other.cards[i] {
			return false
		}
	}
	return true
}

// String encodes the deck in its wire form: comma-joined card codes
func (d *Deck) String() string {
	return strings.Join(CardStrings(d.cards), ",")
}

// ParseDeck decodes the wire form produced by String. An empty string is an
// empty deck.
func ParseDeck(s string) (*Deck, error) {
	if s == "" {
		return &Deck{cards: []Card{}}, nil
	}
	codes := strings.Split(s, ",")
	cards := make([]Card, len(codes))
	for i, code := range codes {
		c, err := ParseCard(code)
		if err != nil {
			return nil, fmt.Errorf("deck position %d: %w", i, err)
		}
		cards[i] = c
	}
	return FromCards(cards)
}
