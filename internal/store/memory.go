package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory keeps rooms in process memory
type Memory struct {
	mu    sync.RWMutex
	rooms map[string]Room
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{rooms: make(map[string]Room)}
}

func (m *Memory) LoadRoom(_ context.Context, id string) (Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return room, nil
}

func (m *Memory) SaveRoomDeck(_ context.Context, id, deck string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	room.Deck = deck
	m.rooms[id] = room
	return nil
}

func (m *Memory) CreateRoom(_ context.Context, room Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[room.ID]; ok {
		return fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
	}
	m.rooms[room.ID] = room
	return nil
}

func (m *Memory) ListRooms(_ context.Context) ([]Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rooms := make([]Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (m *Memory) Close() error { return nil }
