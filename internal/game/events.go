package game

import (
	"sync"
	"time"

	"github.com/lox/pokerrooms/internal/deck"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for events a table publishes while it advances
const (
	EventTypeHandStarted    EventType = "hand_started"
	EventTypeHoleCardsDealt EventType = "hole_cards_dealt"
	EventTypeCommunityDealt EventType = "community_dealt"
	EventTypeBetAccepted    EventType = "bet_accepted"
	EventTypeActionRequired EventType = "action_required"
	EventTypeShowdown       EventType = "showdown"
	EventTypeHandReset      EventType = "hand_reset"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents anything a table publishes to its subscribers
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// HandStartedEvent is published once hole cards are dealt
type HandStartedEvent struct {
	HandNumber int
	Players    []*Player
	timestamp  time.Time
}

func (e HandStartedEvent) EventType() EventType { return EventTypeHandStarted }
func (e HandStartedEvent) Timestamp() time.Time { return e.timestamp }

// HoleCardsDealtEvent is published for each player after the deal. It is
// private to that player.
type HoleCardsDealtEvent struct {
	Player    *Player
	Cards     []deck.Card
	timestamp time.Time
}

func (e HoleCardsDealtEvent) EventType() EventType { return EventTypeHoleCardsDealt }
func (e HoleCardsDealtEvent) Timestamp() time.Time { return e.timestamp }

// CommunityDealtEvent is published when the flop, turn or river is dealt
type CommunityDealtEvent struct {
	Stage     Stage
	Cards     []deck.Card // dealt on this street
	Board     []deck.Card // every community card so far
	timestamp time.Time
}

func (e CommunityDealtEvent) EventType() EventType { return EventTypeCommunityDealt }
func (e CommunityDealtEvent) Timestamp() time.Time { return e.timestamp }

// BetAcceptedEvent is published after a bet or fold is applied. Next is nil
// when the bet closed the street.
type BetAcceptedEvent struct {
	Player     *Player
	Amount     int
	Folded     bool
	Pot        int
	Next       *Player
	NextAmount int
	timestamp  time.Time
}

func (e BetAcceptedEvent) EventType() EventType { return EventTypeBetAccepted }
func (e BetAcceptedEvent) Timestamp() time.Time { return e.timestamp }

// ActionRequiredEvent is published whenever a player becomes the one to act
type ActionRequiredEvent struct {
	Stage     Stage
	Player    *Player
	Amount    int
	timestamp time.Time
}

func (e ActionRequiredEvent) EventType() EventType { return EventTypeActionRequired }
func (e ActionRequiredEvent) Timestamp() time.Time { return e.timestamp }

// ShowdownEvent is published when a hand is over, before the table resets.
// Standings are empty when no resolver is configured.
type ShowdownEvent struct {
	HandNumber  int
	Board       []deck.Card
	Standings   []Standing
	Pot         int
	Uncontested bool
	timestamp   time.Time
}

func (e ShowdownEvent) EventType() EventType { return EventTypeShowdown }
func (e ShowdownEvent) Timestamp() time.Time { return e.timestamp }

// HandResetEvent is published once the table is back in the ready-up stage
type HandResetEvent struct {
	HandNumber int
	Players    []*Player // new seating order
	timestamp  time.Time
}

func (e HandResetEvent) EventType() EventType { return EventTypeHandReset }
func (e HandResetEvent) Timestamp() time.Time { return e.timestamp }

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// SubscriberFunc adapts a function to EventSubscriber. Function subscribers
// are not comparable and cannot be passed to Unsubscribe.
type SubscriberFunc func(event GameEvent)

// OnEvent calls f(event)
func (f SubscriberFunc) OnEvent(event GameEvent) { f(event) }

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus delivers events synchronously, in publish order, to every
// subscriber. Subscribers run on the publishing goroutine and must not block.
type SimpleEventBus struct {
	mu          sync.RWMutex
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	bus.mu.RLock()
	subs := make([]EventSubscriber, len(bus.subscribers))
	copy(subs, bus.subscribers)
	bus.mu.RUnlock()

	for _, subscriber := range subs {
		subscriber.OnEvent(event)
	}
}
