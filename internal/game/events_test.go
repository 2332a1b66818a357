package game

import (
	"testing"
)

func TestEventBusDeliversInOrder(t *testing.T) {
	bus := NewEventBus()
	var first, second eventRecorder
	bus.Subscribe(&first)
	bus.Subscribe(&second)

	bus.Publish(HandStartedEvent{HandNumber: 1})
	bus.Publish(HandResetEvent{HandNumber: 1})

	for _, r := range []*eventRecorder{&first, &second} {
		if len(r.events) != 2 {
			t.Fatalf("got %d events, want 2", len(r.events))
		}
		if r.events[0].EventType() != EventTypeHandStarted || r.events[1].EventType() != EventTypeHandReset {
			t.Errorf("events out of order: %v, %v", r.events[0].EventType(), r.events[1].EventType())
		}
	}
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	var kept, dropped eventRecorder
	bus.Subscribe(&kept)
	bus.Subscribe(&dropped)
	bus.Unsubscribe(&dropped)

	bus.Publish(ShowdownEvent{HandNumber: 3})

	if len(kept.events) != 1 {
		t.Errorf("kept subscriber got %d events, want 1", len(kept.events))
	}
	if len(dropped.events) != 0 {
		t.Errorf("unsubscribed subscriber got %d events", len(dropped.events))
	}
}

func TestSubscriberFunc(t *testing.T) {
	bus := NewEventBus()
	var got []EventType
	bus.Subscribe(SubscriberFunc(func(e GameEvent) { got = append(got, e.EventType()) }))

	bus.Publish(BetAcceptedEvent{Amount: 5})

	if len(got) != 1 || got[0] != EventTypeBetAccepted {
		t.Errorf("got %v", got)
	}
}

func TestSubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()
	var later eventRecorder
	once := &onceSubscriber{bus: bus}
	once.self = once
	bus.Subscribe(once)
	bus.Subscribe(&later)

	bus.Publish(HandStartedEvent{})
	bus.Publish(HandStartedEvent{})

	if once.calls != 1 {
		t.Errorf("self-unsubscribing subscriber called %d times, want 1", once.calls)
	}
	if len(later.events) != 2 {
		t.Errorf("later subscriber got %d events, want 2", len(later.events))
	}
}

type onceSubscriber struct {
	bus   EventBus
	self  EventSubscriber
	calls int
}

func (s *onceSubscriber) OnEvent(GameEvent) {
	s.calls++
	s.bus.Unsubscribe(s.self)
}
