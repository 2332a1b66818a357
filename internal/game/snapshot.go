package game

import "github.com/lox/pokerrooms/internal/deck"

// PlayerSnapshot is the public view of one seat
type PlayerSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Stack     int    `json:"stack"`
	Ready     bool   `json:"ready"`
	InHand    bool   `json:"inHand"`
	Committed int    `json:"committed"`
}

// Snapshot is the public view of a table. It never contains hole cards.
type Snapshot struct {
	RoomID     string           `json:"roomId"`
	Stage      string           `json:"stage"`
	HandNumber int              `json:"handNumber"`
	Pot        int              `json:"pot"`
	Board      []string         `json:"board"`
	DeckSize   int              `json:"deckSize"`
	Players    []PlayerSnapshot `json:"players"`
	NextPlayer string           `json:"nextPlayer,omitempty"`
	NextAmount int              `json:"nextAmount,omitempty"`
}

// Snapshot captures the table's public state
func (t *Table) Snapshot() Snapshot {
	s := Snapshot{
		RoomID:     t.roomID,
		Stage:      t.stage.String(),
		HandNumber: t.handNumber,
		Pot:        t.pot,
		Board:      deck.CardStrings(t.community),
		DeckSize:   t.deck.Len(),
		Players:    make([]PlayerSnapshot, 0, len(t.players)),
	}
	committed := make(map[string]int, t.ledger.Len())
	if t.stage != StageHoleCardsPending {
		for _, b := range t.ledger.Bets() {
			committed[b.Player.ID] = b.Committed
		}
	}
	for _, p := range t.players {
		_, inHand := committed[p.ID]
		s.Players = append(s.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Stack:     p.Stack,
			Ready:     p.Ready,
			InHand:    inHand,
			Committed: committed[p.ID],
		})
	}
	if req, open := t.NextRequiredBet(); open {
		s.NextPlayer = req.Player.Name
		s.NextAmount = req.Amount
	}
	return s
}
