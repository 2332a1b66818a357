package store

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyStore fails the first n deck saves
type flakyStore struct {
	*Memory
	mu       sync.Mutex
	failures int
	attempts int
}

func (f *flakyStore) SaveRoomDeck(ctx context.Context, id, deck string) error {
	f.mu.Lock()
	f.attempts++
	fail := f.failures > 0
	if fail {
		f.failures--
	}
	f.mu.Unlock()
	if fail {
		return errors.New("database unavailable")
	}
	return f.Memory.SaveRoomDeck(ctx, id, deck)
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

func startWriter(t *testing.T, w *Writer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func loadDeck(t *testing.T, s Store, id string) string {
	t.Helper()
	room, err := s.LoadRoom(context.Background(), id)
	require.NoError(t, err)
	return room.Deck
}

func TestWriterSavesAndFlushes(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateRoom(context.Background(), testRoom("42")))
	w := NewWriter(mem, WithWriterLogger(quietLogger()))
	startWriter(t, w)

	w.SaveDeck("42", "2c,3c")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Flush(ctx, "42"))

	assert.Equal(t, "2c,3c", loadDeck(t, mem, "42"))
	assert.Zero(t, w.Stats().Pending)
	assert.NoError(t, w.Flush(ctx, "7"), "nothing queued for the room")
}

func TestWriterKeepsLatestDeck(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateRoom(context.Background(), testRoom("42")))
	w := NewWriter(mem, WithWriterLogger(quietLogger()))

	// Queued before Run starts, so only the last one is written.
	w.SaveDeck("42", "2c")
	w.SaveDeck("42", "3c")
	w.SaveDeck("42", "4c")
	assert.Equal(t, 1, w.Stats().Pending)

	startWriter(t, w)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Flush(ctx, "42"))

	assert.Equal(t, "4c", loadDeck(t, mem, "42"))
	assert.Equal(t, 1, w.Stats().Saved)
}

func TestWriterRetriesWithBackoff(t *testing.T) {
	mem := NewMemory()
	require.NoError(t, mem.CreateRoom(context.Background(), testRoom("42")))
	flaky := &flakyStore{Memory: mem, failures: 2}
	clock := quartz.NewMock(t)
	w := NewWriter(flaky,
		WithClock(clock),
		WithBackoff(time.Second, 4*time.Second),
		WithWriterLogger(quietLogger()))
	startWriter(t, w)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	w.SaveDeck("42", "Ah,Kh")
	require.Eventually(t, func() bool { return w.Stats().Retries == 1 }, 5*time.Second, time.Millisecond)
	assert.Equal(t, fullDeck, loadDeck(t, mem, "42"))

	// First retry after 1s fails again, second waits 2s.
	clock.Advance(time.Second).MustWait(ctx)
	require.Eventually(t, func() bool { return w.Stats().Retries == 2 }, 5*time.Second, time.Millisecond)
	clock.Advance(2 * time.Second).MustWait(ctx)

	require.NoError(t, w.Flush(ctx, "42"))
	assert.Equal(t, "Ah,Kh", loadDeck(t, mem, "42"))
	stats := w.Stats()
	assert.Equal(t, 2, stats.Failures)
	assert.Equal(t, 1, stats.Saved)
}

func TestWriterDropsUnknownRoom(t *testing.T) {
	w := NewWriter(NewMemory(), WithWriterLogger(quietLogger()))
	startWriter(t, w)

	w.SaveDeck("ghost", "2c")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Flush(ctx, "ghost"))
	assert.Zero(t, w.Stats().Retries)
}

func TestFlushHonoursContext(t *testing.T) {
	w := NewWriter(NewMemory(), WithWriterLogger(quietLogger()))
	w.SaveDeck("42", "2c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, w.Flush(ctx, "42"), context.Canceled)
}

func TestBackoffIsCapped(t *testing.T) {
	w := NewWriter(NewMemory(), WithBackoff(100*time.Millisecond, time.Second))
	assert.Equal(t, 100*time.Millisecond, w.backoff(1))
	assert.Equal(t, 200*time.Millisecond, w.backoff(2))
	assert.Equal(t, 800*time.Millisecond, w.backoff(4))
	assert.Equal(t, time.Second, w.backoff(5))
	assert.Equal(t, time.Second, w.backoff(50))
}
