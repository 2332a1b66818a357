package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

const (
	defaultMinBackoff = 100 * time.Millisecond
	defaultMaxBackoff = 10 * time.Second
)

// Writer saves decks in the background. SaveDeck never blocks: the latest
// deck per room is kept and written by Run, and failed writes are retried
// with exponential back-off until they succeed.
type Writer struct {
	store  Store
	clock  quartz.Clock
	logger *log.Logger

	minBackoff time.Duration
	maxBackoff time.Duration

	wake chan struct{}

	mu      sync.Mutex
	pending map[string]pendingDeck
	waiters map[string][]chan struct{}
	seq     uint64
	stats   WriterStats
}

type pendingDeck struct {
	deck string
	seq  uint64
}

// WriterStats counts the writer's work since it was created
type WriterStats struct {
	Pending  int `json:"pending"`
	Saved    int `json:"saved"`
	Failures int `json:"failures"`
	Retries  int `json:"retries"`
}

// WriterOption configures a Writer
type WriterOption func(*Writer)

// WithClock sets the clock used for retry back-off
func WithClock(clock quartz.Clock) WriterOption {
	return func(w *Writer) { w.clock = clock }
}

// WithBackoff bounds the delay between retries
func WithBackoff(first, limit time.Duration) WriterOption {
	return func(w *Writer) {
		w.minBackoff = first
		w.maxBackoff = limit
	}
}

// WithWriterLogger sets the writer's logger
func WithWriterLogger(logger *log.Logger) WriterOption {
	return func(w *Writer) { w.logger = logger }
}

// NewWriter creates a writer for store. Call Run to start writing.
func NewWriter(store Store, opts ...WriterOption) *Writer {
	w := &Writer{
		store:      store,
		clock:      quartz.NewReal(),
		logger:     log.Default(),
		minBackoff: defaultMinBackoff,
		maxBackoff: defaultMaxBackoff,
		wake:       make(chan struct{}, 1),
		pending:    make(map[string]pendingDeck),
		waiters:    make(map[string][]chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.WithPrefix("writer")
	return w
}

// SaveDeck queues deck as the latest state of roomID
func (w *Writer) SaveDeck(roomID, deck string) {
	w.mu.Lock()
	w.seq++
	w.pending[roomID] = pendingDeck{deck: deck, seq: w.seq}
	w.mu.Unlock()
	w.signal()
}

// Flush waits until no deck is queued for roomID
func (w *Writer) Flush(ctx context.Context, roomID string) error {
	w.mu.Lock()
	if _, ok := w.pending[roomID]; !ok {
		w.mu.Unlock()
		return nil
	}
	done := make(chan struct{})
	w.waiters[roomID] = append(w.waiters[roomID], done)
	w.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns a copy of the writer's counters
func (w *Writer) Stats() WriterStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.stats
	s.Pending = len(w.pending)
	return s
}

// Run writes queued decks until ctx is cancelled, then tries once more to
// write anything still queued
func (w *Writer) Run(ctx context.Context) error {
	var (
		retry    <-chan time.Time
		failures int
	)
	for {
		select {
		case <-ctx.Done():
			// One last attempt for whatever is still queued.
			if w.Stats().Pending > 0 {
				_ = w.drain(context.WithoutCancel(ctx))
			}
			if n := w.Stats().Pending; n > 0 {
				w.logger.Warn("Stopping with unsaved decks", "rooms", n)
			}
			return nil
		case <-w.wake:
			if retry != nil {
				// Backing off; the retry picks up the new deck.
				continue
			}
		case <-retry:
			retry = nil
		}

		if err := w.drain(ctx); err != nil {
			failures++
			delay := w.backoff(failures)
			w.logger.Warn("Deck save failed, retrying", "error", err, "in", delay, "attempt", failures)
			retry = w.clock.NewTimer(delay, "writer", "retry").C
			w.mu.Lock()
			w.stats.Retries++
			w.mu.Unlock()
			continue
		}
		failures = 0
	}
}

// drain writes every queued deck once. Rooms that fail stay queued.
func (w *Writer) drain(ctx context.Context) error {
	w.mu.Lock()
	batch := make(map[string]pendingDeck, len(w.pending))
	for id, p := range w.pending {
		batch[id] = p
	}
	w.mu.Unlock()

	var errs []error
	for id, p := range batch {
		err := w.store.SaveRoomDeck(ctx, id, p.deck)
		if errors.Is(err, ErrRoomNotFound) {
			// Unknown rooms are dropped, not retried.
			w.logger.Error("Dropping deck for unknown room", "room", id)
		} else if err != nil {
			w.mu.Lock()
			w.stats.Failures++
			w.mu.Unlock()
			errs = append(errs, err)
			continue
		}
		w.mu.Lock()
		if err == nil {
			w.stats.Saved++
		}
		if cur, ok := w.pending[id]; ok && cur.seq == p.seq {
			delete(w.pending, id)
			for _, done := range w.waiters[id] {
				close(done)
			}
			delete(w.waiters, id)
		}
		w.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (w *Writer) backoff(failures int) time.Duration {
	d := w.minBackoff
	for i := 1; i < failures && d < w.maxBackoff; i++ {
		d *= 2
	}
	return min(d, w.maxBackoff)
}

func (w *Writer) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
