// Package store persists room metadata and deck state.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrRoomNotFound is returned when no room has the requested id
	ErrRoomNotFound = errors.New("room not found")
	// ErrRoomExists is returned by CreateRoom for a duplicate id
	ErrRoomExists = errors.New("room already exists")
	// ErrInvalidRoom is returned for rooms that cannot be stored
	ErrInvalidRoom = errors.New("invalid room")
)

// Room is the durable state of a room. Deck is the deck's wire form.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BuyIn     int       `json:"buyIn"`
	Deck      string    `json:"deck"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate checks the fields every backend relies on
func (r Room) Validate() error {
	if err := validateID(r.ID); err != nil {
		return err
	}
	if r.BuyIn <= 0 {
		return fmt.Errorf("%w: buy-in must be positive, got %d", ErrInvalidRoom, r.BuyIn)
	}
	return nil
}

// Store loads and saves rooms
type Store interface {
	LoadRoom(ctx context.Context, id string) (Room, error)
	SaveRoomDeck(ctx context.Context, id, deck string) error
	CreateRoom(ctx context.Context, room Room) error
	ListRooms(ctx context.Context) ([]Room, error)
	Close() error
}

// Drivers accepted by Open
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the store named by driver. dsn is a directory for the
// file driver, a database path for sqlite and a connection string for
// postgres; memory ignores it.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		return OpenFiles(dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// validateID rejects ids that cannot double as file names
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidRoom)
	}
	if id != filepath.Base(id) || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return fmt.Errorf("%w: id %q", ErrInvalidRoom, id)
	}
	return nil
}
