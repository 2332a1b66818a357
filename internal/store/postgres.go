package store

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema embed.FS

const pgUniqueViolation = "23505"

// Postgres stores rooms in PostgreSQL through a pgx pool
type Postgres struct{ *pgxpool.Pool }

// OpenPostgres connects to dsn and applies the schema
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db := &Postgres{pool}
	if err := db.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		pool.Close()
		return nil, err
	}
	return db, nil
}

// Migrate applies the embedded schema
func Migrate(ctx context.Context, db *Postgres) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (db *Postgres) LoadRoom(ctx context.Context, id string) (Room, error) {
	var room Room
	err := db.QueryRow(ctx, `
		SELECT id, name, buy_in, deck, created_at
		  FROM rooms WHERE id = $1
	`, id).Scan(&room.ID, &room.Name, &room.BuyIn, &room.Deck, &room.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	if err != nil {
		return Room{}, fmt.Errorf("load room %s: %w", id, err)
	}
	return room, nil
}

func (db *Postgres) SaveRoomDeck(ctx context.Context, id, deck string) error {
	tag, err := db.Exec(ctx, `
		UPDATE rooms
		   SET deck = $2,
		       updated_at = now()
		 WHERE id = $1
	`, id, deck)
	if err != nil {
		return fmt.Errorf("save deck for room %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return nil
}

func (db *Postgres) CreateRoom(ctx context.Context, room Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	_, err := db.Exec(ctx, `
		INSERT INTO rooms(id, name, buy_in, deck, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, room.ID, room.Name, room.BuyIn, room.Deck, room.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
	}
	if err != nil {
		return fmt.Errorf("create room %s: %w", room.ID, err)
	}
	return nil
}

func (db *Postgres) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := db.Query(ctx, `SELECT id, name, buy_in, deck, created_at FROM rooms ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	rooms, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Room, error) {
		var r Room
		err := row.Scan(&r.ID, &r.Name, &r.BuyIn, &r.Deck, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

func (db *Postgres) Close() error {
	db.Pool.Close()
	return nil
}
