package deck

import (
	"errors"
	"testing"

	"github.com/lox/pokerrooms/internal/randutil"
)

// recordingRand returns 0 for every draw and remembers the bounds it was asked for
type recordingRand struct {
	bounds []int
}

func (r *recordingRand) IntN(n int) int {
	r.bounds = append(r.bounds, n)
	return 0
}

func assertFullDeck(t *testing.T, d *Deck) {
	t.Helper()
	if d.Len() != Size {
		t.Fatalf("deck has %d cards, want %d", d.Len(), Size)
	}
	seen := make(map[Card]bool, Size)
	for _, c := range d.Cards() {
		if !c.Valid() {
			t.Fatalf("invalid card %+v in deck", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %s", c)
		}
		seen[c] = true
	}
}

func TestNewDeck(t *testing.T) {
	d := New()
	assertFullDeck(t, d)

	cards := d.Cards()
	if cards[0].String() != "2c" || cards[12].String() != "Ac" || cards[13].String() != "2d" || cards[51].String() != "As" {
		t.Errorf("unexpected construction order: %s %s %s %s", cards[0], cards[12], cards[13], cards[51])
	}
}

func TestNewDecksDoNotShareCards(t *testing.T) {
	a := New()
	b := New()
	if _, err := a.Pop(); err != nil {
		t.Fatal(err)
	}
	if b.Len() != Size {
		t.Errorf("popping from one deck changed another: %d", b.Len())
	}
}

func TestShufflePreservesCards(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		d := New()
		d.Shuffle(randutil.New(seed))
		assertFullDeck(t, d)
	}
}

func TestShuffleIsDeterministicForSeed(t *testing.T) {
	a := NewShuffled(randutil.New(42))
	b := NewShuffled(randutil.New(42))
	if !a.Equal(b) {
		t.Error("same seed produced different orders")
	}
	if a.Equal(New()) {
		t.Error("shuffle left the deck in construction order")
	}
}

func TestShuffleVisitsEveryIndex(t *testing.T) {
	rng := &recordingRand{}
	New().Shuffle(rng)

	if len(rng.bounds) != Size {
		t.Fatalf("shuffle drew %d times, want %d", len(rng.bounds), Size)
	}
	for i, n := range rng.bounds {
		if want := Size - i; n != want {
			t.Errorf("draw %d used bound %d, want %d", i, n, want)
		}
	}
}

func TestPop(t *testing.T) {
	d := New()
	c, err := d.Pop()
	if err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if c.String() != "As" {
		t.Errorf("Pop returned %s, want the last card As", c)
	}
	if d.Len() != Size-1 {
		t.Errorf("deck has %d cards after pop", d.Len())
	}

	for d.Len() > 0 {
		if _, err := d.Pop(); err != nil {
			t.Fatalf("Pop: %v", err)
		}
	}
	if _, err := d.Pop(); !errors.Is(err, ErrEmptyDeck) {
		t.Errorf("Pop on empty deck: got %v, want ErrEmptyDeck", err)
	}
}

func TestPopNIsAllOrNothing(t *testing.T) {
	d, err := ParseDeck("2c,3c,4c")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.PopN(4); !errors.Is(err, ErrEmptyDeck) {
		t.Fatalf("PopN(4) on 3 cards: got %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("failed PopN mutated deck, %d cards left", d.Len())
	}

	cards, err := d.PopN(2)
	if err != nil {
		t.Fatalf("PopN(2): %v", err)
	}
	if cards[0].String() != "4c" || cards[1].String() != "3c" {
		t.Errorf("PopN order = %v", cards)
	}
}

func TestDeckWireRoundTrip(t *testing.T) {
	decks := []*Deck{New(), NewShuffled(randutil.New(7)), {cards: []Card{}}}

	partial := NewShuffled(randutil.New(99))
	for i := 0; i < 9; i++ {
		_, _ = partial.Pop()
	}
	decks = append(decks, partial)

	for _, d := range decks {
		back, err := ParseDeck(d.String())
		if err != nil {
			t.Fatalf("ParseDeck(%q): %v", d.String(), err)
		}
		if !back.Equal(d) {
			t.Errorf("round trip mismatch:\n got %s\nwant %s", back, d)
		}
	}
}

func TestDeckWireFormat(t *testing.T) {
	d, err := ParseDeck("Tc,Ah,2s")
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "Tc,Ah,2s" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestParseDeckRejectsBadInput(t *testing.T) {
	for _, input := range []string{"Tc,,Ah", "Tc,Xh", "Tc,Tc", "10c,Ah", "Tc Ah"} {
		if _, err := ParseDeck(input); !errors.Is(err, ErrInvalidCard) {
			t.Errorf("ParseDeck(%q) error = %v, want ErrInvalidCard", input, err)
		}
	}
}
