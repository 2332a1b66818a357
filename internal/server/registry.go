package server

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerrooms/internal/deck"
	"github.com/lox/pokerrooms/internal/game"
	"github.com/lox/pokerrooms/internal/store"
	"golang.org/x/sync/singleflight"
)

// DeckWriter persists decks asynchronously and can wait for a room's
// queued writes to land
type DeckWriter interface {
	game.DeckSaver
	Flush(ctx context.Context, roomID string) error
}

// Registry holds the active rooms. Rooms are loaded from the store on first
// use and dropped once their last player leaves.
type Registry struct {
	store    store.Store
	writer   DeckWriter
	cfg      game.Config
	resolver game.ShowdownResolver
	rng      deck.Rand
	logger   *log.Logger

	mu    sync.Mutex
	rooms map[string]*room
	loads singleflight.Group
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithTableConfig sets the seating limits for new tables
func WithTableConfig(cfg game.Config) RegistryOption {
	return func(r *Registry) { r.cfg = cfg }
}

// WithResolver sets the showdown resolver for new tables
func WithResolver(resolver game.ShowdownResolver) RegistryOption {
	return func(r *Registry) { r.resolver = resolver }
}

// WithRand sets the shuffle source for new tables
func WithRand(rng deck.Rand) RegistryOption {
	return func(r *Registry) { r.rng = rng }
}

// NewRegistry creates an empty registry backed by st and writer
func NewRegistry(st store.Store, writer DeckWriter, logger *log.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		store:  st,
		writer: writer,
		cfg:    game.DefaultConfig(),
		logger: logger.WithPrefix("registry"),
		rooms:  make(map[string]*room),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// acquire returns the room locked. The caller must unlock it.
func (r *Registry) acquire(ctx context.Context, id string) (*room, error) {
	for {
		rm, err := r.get(ctx, id)
		if err != nil {
			return nil, err
		}
		rm.mu.Lock()
		if !rm.closed {
			return rm, nil
		}
		rm.mu.Unlock()
	}
}

// lookup returns the room if it is active, locked, or nil
func (r *Registry) lookup(id string) *room {
	r.mu.Lock()
	rm := r.rooms[id]
	r.mu.Unlock()
	if rm == nil {
		return nil
	}
	rm.mu.Lock()
	if rm.closed {
		rm.mu.Unlock()
		return nil
	}
	return rm
}

func (r *Registry) get(ctx context.Context, id string) (*room, error) {
	r.mu.Lock()
	rm, ok := r.rooms[id]
	r.mu.Unlock()
	if ok {
		return rm, nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		r.mu.Lock()
		rm, ok := r.rooms[id]
		r.mu.Unlock()
		if ok {
			return rm, nil
		}
		rm, err := r.load(ctx, id)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.rooms[id] = rm
		r.mu.Unlock()
		return rm, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*room), nil
}

func (r *Registry) load(ctx context.Context, id string) (*room, error) {
	// A table that was dropped may still have deck writes in flight.
	if err := r.writer.Flush(ctx, id); err != nil {
		return nil, fmt.Errorf("flush room %s: %w", id, err)
	}
	rec, err := r.store.LoadRoom(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := deck.ParseDeck(rec.Deck)
	if err != nil {
		r.logger.Warn("Stored deck is unreadable, reshuffling", "room", id, "error", err)
		d = nil
	}

	rm := newRoom(rec, r.logger)
	bus := game.NewEventBus()
	bus.Subscribe(rm)
	opts := []game.Option{
		game.WithEventBus(bus),
		game.WithDeckSaver(r.writer),
		game.WithLogger(r.logger),
	}
	if r.resolver != nil {
		opts = append(opts, game.WithShowdownResolver(r.resolver))
	}
	if r.rng != nil {
		opts = append(opts, game.WithRand(r.rng))
	}
	rm.table = game.NewTable(id, d, r.cfg, opts...)

	r.logger.Info("Room loaded", "room", id, "name", rec.Name, "buyIn", rec.BuyIn)
	return rm, nil
}

// release drops an empty room. The caller holds rm.mu.
func (r *Registry) release(rm *room) {
	rm.closed = true
	for id := range rm.timers {
		rm.stopTimer(id)
	}
	r.mu.Lock()
	if r.rooms[rm.id] == rm {
		delete(r.rooms, rm.id)
	}
	r.mu.Unlock()
	r.logger.Info("Room released", "room", rm.id)
}

// Snapshots returns the public state of every active room, ordered by id
func (r *Registry) Snapshots() []game.Snapshot {
	r.mu.Lock()
	rooms := make([]*room, 0, len(r.rooms))
	for _, rm := range r.rooms {
		rooms = append(rooms, rm)
	}
	r.mu.Unlock()

	snaps := make([]game.Snapshot, 0, len(rooms))
	for _, rm := range rooms {
		rm.mu.Lock()
		if !rm.closed {
			snaps = append(snaps, rm.table.Snapshot())
		}
		rm.mu.Unlock()
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].RoomID < snaps[j].RoomID })
	return snaps
}

// Len returns the number of active rooms
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms)
}
