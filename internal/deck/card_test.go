package deck

import (
	"errors"
	"testing"
)

func TestParseCard(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Card
		wantErr  bool
	}{
		{name: "ace of spades", input: "As", expected: Card{Rank: Ace, Suit: Spades}},
		{name: "ten of hearts", input: "Th", expected: Card{Rank: Ten, Suit: Hearts}},
		{name: "deuce of clubs", input: "2c", expected: Card{Rank: Two, Suit: Clubs}},
		{name: "nine of diamonds", input: "9d", expected: Card{Rank: Nine, Suit: Diamonds}},
		{name: "numeric ten is not a code", input: "10h", wantErr: true},
		{name: "lowercase rank", input: "ah", wantErr: true},
		{name: "uppercase suit", input: "AH", wantErr: true},
		{name: "one is not a rank", input: "1s", wantErr: true},
		{name: "unknown suit", input: "Kx", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCard(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCard) {
					t.Errorf("ParseCard(%q) error = %v, want ErrInvalidCard", tt.input, err)
				}
				return
			}
			if got != tt.expected {
				t.Errorf("ParseCard(%q) = %+v, want %+v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRankCodecRoundTrip(t *testing.T) {
	for r := Two; r <= Ace; r++ {
		back, err := ParseRank(r.Char())
		if err != nil {
			t.Fatalf("ParseRank(%q): %v", r.Char(), err)
		}
		if back != r {
			t.Errorf("rank %d encoded as %q decoded as %d", int(r), r.Char(), int(back))
		}
	}

	if Ten.String() != "T" || Ace.String() != "A" || Nine.String() != "9" {
		t.Errorf("unexpected rank codes: %s %s %s", Ten, Ace, Nine)
	}
	if int(Ace) != 14 || int(Two) != 2 {
		t.Errorf("rank domain must be 2..14, got %d..%d", int(Two), int(Ace))
	}
}

func TestCardRoundTripAllCards(t *testing.T) {
	for _, c := range New().Cards() {
		parsed, err := ParseCard(c.String())
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", c, err)
		}
		if parsed != c {
			t.Errorf("round trip of %q gave %+v", c, parsed)
		}
	}
}

func TestNewCardValidation(t *testing.T) {
	if _, err := NewCard(Rank(1), Spades); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("rank 1 should be rejected, got %v", err)
	}
	if _, err := NewCard(Rank(15), Spades); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("rank 15 should be rejected, got %v", err)
	}
	if _, err := NewCard(Ace, Suit(7)); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("suit 7 should be rejected, got %v", err)
	}
	c, err := NewCard(Queen, Diamonds)
	if err != nil {
		t.Fatalf("NewCard: %v", err)
	}
	if c.String() != "Qd" {
		t.Errorf("got %q, want Qd", c)
	}
}

func TestCardTextMarshal(t *testing.T) {
	c := MustParseCard("Tc")
	text, err := c.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var back Card
	if err := back.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if back != c {
		t.Errorf("got %v, want %v", back, c)
	}

	if _, err := (Card{}).MarshalText(); !errors.Is(err, ErrInvalidCard) {
		t.Errorf("zero card should not marshal, got %v", err)
	}
}

func TestMustParseCardPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustParseCard() should panic on invalid input")
		}
	}()
	MustParseCard("invalid")
}
