package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/lox/pokerrooms/internal/fileutil"
)

const roomFileSuffix = ".json"

// Files keeps one JSON document per room in a directory. Writes are atomic
// renames, so a crash never leaves a half-written room behind.
type Files struct {
	dir string
	mu  sync.Mutex // serialises read-modify-write of room files
}

// OpenFiles uses dir for room files, creating it if needed
func OpenFiles(dir string) (*Files, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Files{dir: dir}, nil
}

func (f *Files) path(id string) string {
	return filepath.Join(f.dir, id+roomFileSuffix)
}

func (f *Files) LoadRoom(_ context.Context, id string) (Room, error) {
	if err := validateID(id); err != nil {
		return Room{}, err
	}
	return f.read(id)
}

func (f *Files) read(id string) (Room, error) {
	var room Room
	if err := fileutil.ReadJSON(f.path(id), &room); err != nil {
		if fileutil.IsNotExist(err) {
			return Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
		return Room{}, fmt.Errorf("load room %s: %w", id, err)
	}
	return room, nil
}

func (f *Files) SaveRoomDeck(_ context.Context, id, deck string) error {
	if err := validateID(id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	room, err := f.read(id)
	if err != nil {
		return err
	}
	room.Deck = deck
	return fileutil.WriteJSONAtomic(f.path(id), room, 0o644)
}

func (f *Files) CreateRoom(_ context.Context, room Room) error {
	if err := room.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := os.Stat(f.path(room.ID)); err == nil {
		return fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
	}
	return fileutil.WriteJSONAtomic(f.path(room.ID), room, 0o644)
}

func (f *Files) ListRooms(_ context.Context) ([]Room, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	var rooms []Room
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, roomFileSuffix) {
			continue
		}
		room, err := f.read(strings.TrimSuffix(name, roomFileSuffix))
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (f *Files) Close() error { return nil }
