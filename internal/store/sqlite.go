package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	buy_in     INTEGER NOT NULL,
	deck       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`

// SQLite stores rooms in a SQLite database file
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite store needs a database path")
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; sqlite serialises them anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) LoadRoom(ctx context.Context, id string) (Room, error) {
	var room Room
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, buy_in, deck, created_at FROM rooms WHERE id = ?`, id,
	).Scan(&room.ID, &room.Name, &room.BuyIn, &room.Deck, &room.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	if err != nil {
		return Room{}, fmt.Errorf("load room %s: %w", id, err)
	}
	return room, nil
}

func (s *SQLite) SaveRoomDeck(ctx context.Context, id, deck string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE rooms SET deck = ? WHERE id = ?`, deck, id)
	if err != nil {
		return fmt.Errorf("save deck for room %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save deck for room %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return nil
}

func (s *SQLite) CreateRoom(ctx context.Context, room Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rooms (id, name, buy_in, deck, created_at) VALUES (?, ?, ?, ?, ?)`,
		room.ID, room.Name, room.BuyIn, room.Deck, room.CreatedAt.UTC(),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
		}
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	return nil
}

func (s *SQLite) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, buy_in, deck, created_at FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.BuyIn, &r.Deck, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list rooms: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
