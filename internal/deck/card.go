package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCard is returned for a rank, suit or wire code outside the
	// standard French deck.
	ErrInvalidCard = errors.New("invalid card")
)

// Suit represents a card suit
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// Suits lists every suit in construction order.
var Suits = [...]Suit{Clubs, Diamonds, Hearts, Spades}

const suitChars = "cdhs"

// Valid reports whether s is one of the four suits
func (s Suit) Valid() bool {
	return s >= Clubs && s <= Spades
}

// Char returns the wire character for the suit (c, d, h or s)
func (s Suit) Char() byte {
	if !s.Valid() {
		return '?'
	}
	return suitChars[s]
}

// String returns the wire form of the suit
func (s Suit) String() string {
	return string(s.Char())
}

// ParseSuit converts a wire character into a Suit
func ParseSuit(c byte) (Suit, error) {
	for i := 0; i < len(suitChars); i++ {
		if suitChars[i] == c {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: suit %q", ErrInvalidCard, c)
}

// Rank represents a card rank. The numeric value is the rank itself, 2 through
// 14 with Ace high.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

const rankChars = "23456789TJQKA"

// Valid reports whether r lies in 2..14
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace
}

// Char returns the wire character for the rank. Ten and the face cards use
// T, J, Q, K and A; every other rank is its digit.
func (r Rank) Char() byte {
	if !r.Valid() {
		return '?'
	}
	return rankChars[r-Two]
}

// String returns the wire form of the rank
func (r Rank) String() string {
	return string(r.Char())
}

// ParseRank converts a wire character into a Rank. It is the inverse of Char.
func ParseRank(c byte) (Rank, error) {
	for i := 0; i < len(rankChars); i++ {
		if rankChars[i] == c {
			return Two + Rank(i), nil
		}
	}
	return 0, fmt.Errorf("%w: rank %q", ErrInvalidCard, c)
}

// Card represents a playing card. The zero value is not a valid card.
type Card struct {
	Rank Rank
	Suit Suit
}

// NewCard creates a card, rejecting ranks outside 2..14 and unknown suits
func NewCard(rank Rank, suit Suit) (Card, error) {
	c := Card{Rank: rank, Suit: suit}
	if !c.Valid() {
		return Card{}, fmt.Errorf("%w: rank %d suit %d", ErrInvalidCard, int(rank), int(suit))
	}
	return c, nil
}

// Valid reports whether both rank and suit are in range
func (c Card) Valid() bool {
	return c.Rank.Valid() && c.Suit.Valid()
}

// String returns the 2-character wire code, e.g. "Th" or "As"
func (c Card) String() string {
	return string([]byte{c.Rank.Char(), c.Suit.Char()})
}

// MarshalText encodes the card as its wire code
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d/%d", ErrInvalidCard, int(c.Rank), int(c.Suit))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a wire code
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard parses a wire code such as "As" or "2c"
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("%w: %q", ErrInvalidCard, s)
	}
	rank, err := ParseRank(s[0])
	if err != nil {
		return Card{}, err
	}
	suit, err := ParseSuit(s[1])
	if err != nil {
		return Card{}, err
	}
	return Card{Rank: rank, Suit: suit}, nil
}

// MustParseCard parses a card and panics on error (for tests)
func MustParseCard(s string) Card {
	c, err := ParseCard(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse card %q: %v", s, err))
	}
	return c
}

// MustParseCards parses each code and panics on error (for tests)
func MustParseCards(codes ...string) []Card {
	cards := make([]Card, len(codes))
	for i, code := range codes {
		cards[i] = MustParseCard(code)
	}
	return cards
}

// CardStrings converts cards to their wire codes
func CardStrings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}
