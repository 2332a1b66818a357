package game

import "fmt"

// PlayerBet is one seat's commitment for the current street
type PlayerBet struct {
	Player    *Player
	Committed int
}

// Requirement names the player who must act next and the minimum they have
// to add to match the highest commitment on the street.
type Requirement struct {
	Player *Player
	Amount int
}

// Ledger tracks turn order and commitments for one betting street. Entries
// are kept in seating order; folding is the only way to leave.
type Ledger struct {
	bets      []*PlayerBet
	lastActed int // index into bets, -1 before anyone has acted
	acted     map[string]bool
}

// NewLedger creates a ledger for a fresh street over players in seating order
func NewLedger(players []*Player) *Ledger {
	l := &Ledger{
		bets:      make([]*PlayerBet, 0, len(players)),
		lastActed: -1,
		acted:     make(map[string]bool, len(players)),
	}
	for _, p := range players {
		l.bets = append(l.bets, &PlayerBet{Player: p})
	}
	return l
}

// Players returns the players still in the street, in seating order
func (l *Ledger) Players() []*Player {
	out := make([]*Player, len(l.bets))
	for i, b := range l.bets {
		out[i] = b.Player
	}
	return out
}

// Bets returns a copy of the street's commitments in seating order
func (l *Ledger) Bets() []PlayerBet {
	out := make([]PlayerBet, len(l.bets))
	for i, b := range l.bets {
		out[i] = *b
	}
	return out
}

// Len returns the number of players still in the street
func (l *Ledger) Len() int {
	return len(l.bets)
}

// Max returns the highest commitment on the street
func (l *Ledger) Max() int {
	highest := 0
	for _, b := range l.bets {
		if b.Committed > highest {
			highest = b.Committed
		}
	}
	return highest
}

// Committed returns how much the player has put in this street
func (l *Ledger) Committed(id string) (int, error) {
	i := l.index(id)
	if i < 0 {
		return 0, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return l.bets[i].Committed, nil
}

// HasActed reports whether the player has acted at least once this street
func (l *Ledger) HasActed(id string) bool {
	return l.acted[id]
}

// NextRequiredBet returns who must act next and what they owe. The boolean is
// false once the street is closed: the last seat has acted and every
// remaining commitment equals the maximum.
func (l *Ledger) NextRequiredBet() (Requirement, bool) {
	if len(l.bets) == 0 {
		return Requirement{}, false
	}
	highest := l.Max()
	if l.lastActed < 0 {
		first := l.bets[0]
		return Requirement{Player: first.Player, Amount: highest - first.Committed}, true
	}
	if l.lastActed == len(l.bets)-1 && l.allMatched(highest) {
		return Requirement{}, false
	}
	next := l.bets[(l.lastActed+1)%len(l.bets)]
	return Requirement{Player: next.Player, Amount: highest - next.Committed}, true
}

// IsClosed reports whether no further bet is required this street
func (l *Ledger) IsClosed() bool {
	_, open := l.NextRequiredBet()
	return !open
}

// PlaceBet records a bet of amount for p. A bet larger than the stack fails
// with ErrInsufficientFunds and changes nothing. A non-positive amount while
// someone else has committed more is a fold: the player leaves the ledger and
// folded is true. Otherwise the amount moves from the stack into the
// player's commitment.
func (l *Ledger) PlaceBet(p *Player, amount int) (folded bool, err error) {
	i := l.index(p.ID)
	if i < 0 {
		return false, fmt.Errorf("%w: %s", ErrPlayerNotFound, p.ID)
	}
	if amount > p.Stack {
		return false, fmt.Errorf("%w: bet %d with stack %d", ErrInsufficientFunds, amount, p.Stack)
	}
	if amount <= 0 && l.someoneCommittedMoreThan(i) {
		l.acted[p.ID] = true
		l.removeAt(i)
		return true, nil
	}
	if amount < 0 {
		amount = 0
	}

	p.Stack -= amount
	l.bets[i].Committed += amount
	l.lastActed = i
	l.acted[p.ID] = true
	return false, nil
}

// Remove takes a player out of the street regardless of turn, as when a seat
// is abandoned. Turn order carries on from the same logical seat.
func (l *Ledger) Remove(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	l.removeAt(i)
	return nil
}

func (l *Ledger) removeAt(i int) {
	l.bets = append(l.bets[:i], l.bets[i+1:]...)
	// lastActed keeps pointing at the same player, or at the seat before the
	// removed one when that player was the one removed.
	if i <= l.lastActed {
		l.lastActed--
	}
}

func (l *Ledger) someoneCommittedMoreThan(i int) bool {
	mine := l.bets[i].Committed
	for j, b := range l.bets {
		if j != i && b.Committed > mine {
			return true
		}
	}
	return false
}

func (l *Ledger) allMatched(highest int) bool {
	for _, b := range l.bets {
		if b.Committed != highest {
			return false
		}
	}
	return true
}

func (l *Ledger) index(id string) int {
	for i, b := range l.bets {
		if b.Player.ID == id {
			return i
		}
	}
	return -1
}
