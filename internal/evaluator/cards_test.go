package evaluator

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lox/pokerrooms/internal/deck"
)

func TestParseCards(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []deck.Card
		wantErr  bool
	}{
		{
			name:  "royal flush",
			input: "AsKsQsJsTs",
			expected: []deck.Card{
				{Suit: deck.Spades, Rank: deck.Ace},
				{Suit: deck.Spades, Rank: deck.King},
				{Suit: deck.Spades, Rank: deck.Queen},
				{Suit: deck.Spades, Rank: deck.Jack},
				{Suit: deck.Spades, Rank: deck.Ten},
			},
		},
		{
			name:  "mixed suits",
			input: "AhKdQcJs9s",
			expected: []deck.Card{
				{Suit: deck.Hearts, Rank: deck.Ace},
				{Suit: deck.Diamonds, Rank: deck.King},
				{Suit: deck.Clubs, Rank: deck.Queen},
				{Suit: deck.Spades, Rank: deck.Jack},
				{Suit: deck.Spades, Rank: deck.Nine},
			},
		},
		{name: "empty", input: "", expected: []deck.Card{}},
		{name: "odd length", input: "AsK", wantErr: true},
		{name: "bad rank", input: "1s", wantErr: true},
		{name: "bad suit", input: "Ax", wantErr: true},
		{name: "upper case suit", input: "AS", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCards(tt.input)
			if tt.wantErr {
				if !errors.Is(err, deck.ErrInvalidCard) {
					t.Fatalf("ParseCards(%q) error = %v, want ErrInvalidCard", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCards(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseCards(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestToPokerAcceptsEveryCard(t *testing.T) {
	for _, c := range deck.New().Cards() {
		if _, err := toPoker(c); err != nil {
			t.Errorf("toPoker(%s): %v", c, err)
		}
	}
	if _, err := toPoker(deck.Card{Rank: deck.Ace, Suit: deck.Suit(9)}); !errors.Is(err, deck.ErrInvalidCard) {
		t.Errorf("toPoker with bad suit: %v", err)
	}
}
