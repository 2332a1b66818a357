package game

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/randutil"
)

const holeCardsPerPlayer = 2

// Config holds the seating limits of a table
type Config struct {
	MinPlayers int
	MaxPlayers int
}

// DefaultConfig returns the standard heads-up to ten-handed limits
func DefaultConfig() Config {
	return Config{MinPlayers: 2, MaxPlayers: 10}
}

// DeckSaver receives the wire form of the deck after every deck mutation.
// Implementations must not block; the table holds its room lock while
// calling it.
type DeckSaver interface {
	SaveDeck(roomID, deck string)
}

// Option configures a Table
type Option func(*Table)

// WithEventBus publishes table events on bus
func WithEventBus(bus EventBus) Option {
	return func(t *Table) { t.bus = bus }
}

// WithDeckSaver persists every deck mutation through saver
func WithDeckSaver(saver DeckSaver) Option {
	return func(t *Table) { t.saver = saver }
}

// WithShowdownResolver ranks hands at showdown
func WithShowdownResolver(r ShowdownResolver) Option {
	return func(t *Table) { t.resolver = r }
}

// WithRand sets the random source used to shuffle new decks
func WithRand(rng deck.Rand) Option {
	return func(t *Table) { t.rng = rng }
}

// WithClock sets the clock used to timestamp events
func WithClock(clock quartz.Clock) Option {
	return func(t *Table) { t.clock = clock }
}

// WithLogger sets the table's logger
func WithLogger(logger *log.Logger) Option {
	return func(t *Table) { t.logger = logger }
}

// Table is the per-room state machine. It is not safe for concurrent use;
// callers serialise access per room.
type Table struct {
	roomID     string
	cfg        Config
	deck       *deck.Deck
	community  []deck.Card
	players    []*Player // seating order
	stage      Stage
	ledger     *Ledger
	pot        int
	handNumber int

	bus      EventBus
	saver    DeckSaver
	resolver ShowdownResolver
	rng      deck.Rand
	clock    quartz.Clock
	logger   *log.Logger
}

// NewTable creates a table in the ready-up stage dealing from d. A nil or
// partial deck is replaced with a freshly shuffled one, which is persisted.
func NewTable(roomID string, d *deck.Deck, cfg Config, opts ...Option) *Table {
	t := &Table{
		roomID: roomID,
		cfg:    cfg,
		stage:  StageHoleCardsPending,
		bus:    NewEventBus(),
		clock:  quartz.NewReal(),
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.rng == nil {
		t.rng = randutil.NewLocked(randutil.New(t.clock.Now().UnixNano()))
	}
	t.logger = t.logger.WithPrefix("table").With("room", roomID)

	if d == nil || d.Len() != deck.Size {
		t.deck = deck.NewShuffled(t.rng)
		t.saveDeck()
	} else {
		t.deck = d.Clone()
	}
	t.ledger = NewLedger(t.players)
	return t
}

// RoomID returns the room the table belongs to
func (t *Table) RoomID() string { return t.roomID }

// Stage returns the current stage
func (t *Table) Stage() Stage { return t.stage }

// HandNumber returns the number of hands dealt so far
func (t *Table) HandNumber() int { return t.handNumber }

// Pot returns the chips committed during the current hand
func (t *Table) Pot() int { return t.pot }

// DeckSize returns the number of undealt cards
func (t *Table) DeckSize() int { return t.deck.Len() }

// DeckWire returns the deck in its wire form
func (t *Table) DeckWire() string { return t.deck.String() }

// Ledger returns the active street's ledger
func (t *Table) Ledger() *Ledger { return t.ledger }

// EventBus returns the bus the table publishes on
func (t *Table) EventBus() EventBus { return t.bus }

// CommunityCards returns a copy of the board
func (t *Table) CommunityCards() []deck.Card {
	out := make([]deck.Card, len(t.community))
	copy(out, t.community)
	return out
}

// Players returns the seated players in seating order
func (t *Table) Players() []*Player {
	out := make([]*Player, len(t.players))
	copy(out, t.players)
	return out
}

// Player returns the seated player with id, or nil
func (t *Table) Player(id string) *Player {
	for _, p := range t.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// InHand reports whether the player holds cards in the hand being played
func (t *Table) InHand(id string) bool {
	if t.stage == StageHoleCardsPending {
		return false
	}
	return t.ledger.index(id) >= 0
}

// Seat adds p to the end of the seating order. Players seated while a hand is
// running sit out until the next deal.
func (t *Table) Seat(p *Player) error {
	if t.Player(p.ID) != nil {
		return fmt.Errorf("%w: %s", ErrAlreadySeated, p.ID)
	}
	if len(t.players) >= t.cfg.MaxPlayers {
		return fmt.Errorf("%w: %d seats", ErrTableFull, t.cfg.MaxPlayers)
	}
	t.players = append(t.players, p)
	if t.stage == StageHoleCardsPending {
		t.ledger = NewLedger(t.players)
	}
	t.logger.Debug("Player seated", "player", p.Name, "stack", p.Stack, "seats", len(t.players))
	return nil
}

// Remove takes a player off the table. A player in the running hand is
// folded out of the street first.
func (t *Table) Remove(id string) error {
	i := -1
	for j, p := range t.players {
		if p.ID == id {
			i = j
			break
		}
	}
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	p := t.players[i]
	t.players = append(t.players[:i:i], t.players[i+1:]...)

	if t.stage == StageHoleCardsPending {
		t.ledger = NewLedger(t.players)
	} else if t.ledger.index(id) >= 0 {
		if err := t.ledger.Remove(id); err != nil {
			return err
		}
		p.Hand = nil
		t.publishActionRequired()
	}
	t.logger.Debug("Player removed", "player", p.Name, "seats", len(t.players))
	return nil
}

// SetReady sets the player's ready flag. Readiness only changes between
// hands, and a player with no chips cannot ready up.
func (t *Table) SetReady(id string, ready bool) error {
	p := t.Player(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if t.stage != StageHoleCardsPending {
		return ErrHandInProgress
	}
	if ready && p.Stack <= 0 {
		return fmt.Errorf("%w: empty stack", ErrInsufficientFunds)
	}
	p.Ready = ready
	return nil
}

// NextRequiredBet returns who must act and what they owe on the active
// street. It reports false between hands and once the street is closed.
func (t *Table) NextRequiredBet() (Requirement, bool) {
	if t.stage == StageHoleCardsPending || t.ledger.Len() <= 1 {
		return Requirement{}, false
	}
	return t.ledger.NextRequiredBet()
}

// CanPlayerBet reports whether p is the player the active street is
// waiting on.
func (t *Table) CanPlayerBet(p *Player) bool {
	req, open := t.NextRequiredBet()
	return open && p != nil && req.Player.ID == p.ID
}

// PlaceBet applies a bet for the player whose turn it is. Callers advance
// the table afterwards to see whether the street closed.
func (t *Table) PlaceBet(id string, amount int) error {
	p := t.Player(id)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if !t.CanPlayerBet(p) {
		return fmt.Errorf("%w: %s", ErrNotYourTurn, p.Name)
	}

	folded, err := t.ledger.PlaceBet(p, amount)
	if err != nil {
		return err
	}
	if folded {
		p.Hand = nil
		amount = 0
	} else if amount < 0 {
		amount = 0
	}
	t.pot += amount

	next, open := t.NextRequiredBet()
	event := BetAcceptedEvent{
		Player:    p,
		Amount:    amount,
		Folded:    folded,
		Pot:       t.pot,
		timestamp: t.clock.Now(),
	}
	if open {
		event.Next = next.Player
		event.NextAmount = next.Amount
	}
	t.logger.Debug("Bet accepted", "player", p.Name, "amount", amount, "folded", folded, "pot", t.pot)
	t.bus.Publish(event)
	t.publishActionRequired()
	return nil
}

// CanAdvance returns nil when the table may move to its next stage, or the
// reason it may not.
func (t *Table) CanAdvance() error {
	if t.stage == StageHoleCardsPending {
		if len(t.players) < t.cfg.MinPlayers {
			return fmt.Errorf("%w: %d of %d seated", ErrNotEnoughPlayers, len(t.players), t.cfg.MinPlayers)
		}
		for _, p := range t.players {
			if !p.Ready {
				return fmt.Errorf("%w: waiting on %s", ErrPlayersNotReady, p.Name)
			}
		}
		return nil
	}
	if req, open := t.NextRequiredBet(); open {
		return fmt.Errorf("%w: waiting on %s", ErrStreetNotClosed, req.Player.Name)
	}
	return nil
}

// Advance moves the table to its next stage. It returns the CanAdvance error
// without touching any state when the move is not allowed. A dealing failure
// leaves the table as it was.
func (t *Table) Advance() error {
	if err := t.CanAdvance(); err != nil {
		return err
	}

	switch t.stage {
	case StageHoleCardsPending:
		return t.dealHoleCards()
	case StageHoleCards, StageFlop, StageTurn:
		if t.ledger.Len() <= 1 {
			return t.finishHand(true)
		}
		return t.dealCommunity(t.stage + 1)
	case StageRiver:
		return t.finishHand(t.ledger.Len() <= 1)
	default:
		return fmt.Errorf("advance from unknown stage %d", t.stage)
	}
}

func (t *Table) dealHoleCards() error {
	working := t.deck.Clone()
	dealt := make([][]deck.Card, len(t.players))

	// One card to each player per round, never two in a row to one seat.
	for round := 0; round < holeCardsPerPlayer; round++ {
		for i := range t.players {
			c, err := working.Pop()
			if err != nil {
				return fmt.Errorf("deal hole cards for hand %d: %w", t.handNumber+1, err)
			}
			dealt[i] = append(dealt[i], c)
		}
	}
	hands := make([]deck.Hand, len(t.players))
	for i, cards := range dealt {
		h, err := deck.NewHand(cards...)
		if err != nil {
			return fmt.Errorf("deal hole cards for hand %d: %w", t.handNumber+1, err)
		}
		hands[i] = h
	}

	t.deck = working
	for i, p := range t.players {
		p.Hand = &hands[i]
	}
	t.handNumber++
	t.community = nil
	t.pot = 0
	t.stage = StageHoleCards
	t.ledger = NewLedger(t.players)
	t.saveDeck()

	t.logger.Info("Hand started", "hand", t.handNumber, "players", len(t.players), "deck", t.deck.Len())
	now := t.clock.Now()
	t.bus.Publish(HandStartedEvent{HandNumber: t.handNumber, Players: t.Players(), timestamp: now})
	for i, p := range t.players {
		t.bus.Publish(HoleCardsDealtEvent{Player: p, Cards: hands[i].Cards(), timestamp: now})
	}
	t.publishActionRequired()
	return nil
}

func (t *Table) dealCommunity(next Stage) error {
	cards, err := t.deck.PopN(communityCardsFor(next))
	if err != nil {
		return fmt.Errorf("deal %s: %w", next, err)
	}

	t.community = append(t.community, cards...)
	t.stage = next
	t.ledger = NewLedger(t.ledger.Players())
	t.saveDeck()

	t.logger.Debug("Community dealt", "stage", next, "cards", deck.CardStrings(cards), "deck", t.deck.Len())
	t.bus.Publish(CommunityDealtEvent{
		Stage:     next,
		Cards:     cards,
		Board:     t.CommunityCards(),
		timestamp: t.clock.Now(),
	})
	t.publishActionRequired()
	return nil
}

func (t *Table) finishHand(uncontested bool) error {
	board := t.CommunityCards()
	var contenders []Contender
	for _, p := range t.ledger.Players() {
		if p.Hand != nil {
			contenders = append(contenders, Contender{PlayerID: p.ID, Hand: *p.Hand})
		}
	}

	var standings []Standing
	switch {
	case uncontested && len(contenders) == 1:
		standings = []Standing{{PlayerID: contenders[0].PlayerID, Place: 1}}
	case t.resolver != nil && len(contenders) > 0:
		var err error
		standings, err = t.resolver.Resolve(board, contenders)
		if err != nil {
			t.logger.Error("Showdown resolution failed", "hand", t.handNumber, "error", err)
			standings = nil
		}
	}

	t.logger.Info("Hand finished", "hand", t.handNumber, "pot", t.pot, "uncontested", uncontested)
	t.bus.Publish(ShowdownEvent{
		HandNumber:  t.handNumber,
		Board:       board,
		Standings:   standings,
		Pot:         t.pot,
		Uncontested: uncontested,
		timestamp:   t.clock.Now(),
	})
	t.reset()
	return nil
}

// reset returns the table to the ready-up stage with the seating rotated by
// one, so a different player acts first next hand.
func (t *Table) reset() {
	rotated := make([]*Player, 0, len(t.players))
	if len(t.players) > 0 {
		rotated = append(rotated, t.players[1:]...)
		rotated = append(rotated, t.players[0])
	}
	t.players = rotated
	for _, p := range t.players {
		p.Hand = nil
		p.Ready = false
	}

	t.community = nil
	t.pot = 0
	t.deck = deck.NewShuffled(t.rng)
	t.saveDeck()
	t.ledger = NewLedger(t.players)
	t.stage = StageHoleCardsPending

	t.bus.Publish(HandResetEvent{HandNumber: t.handNumber, Players: t.Players(), timestamp: t.clock.Now()})
}

func (t *Table) publishActionRequired() {
	req, open := t.NextRequiredBet()
	if !open {
		return
	}
	t.bus.Publish(ActionRequiredEvent{
		Stage:     t.stage,
		Player:    req.Player,
		Amount:    req.Amount,
		timestamp: t.clock.Now(),
	})
}

func (t *Table) saveDeck() {
	if t.saver == nil {
		return
	}
	t.saver.SaveDeck(t.roomID, t.deck.String())
}
