package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "room.json")

	if err := WriteFileAtomic(path, []byte("hello world"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != "hello world" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o644 {
		t.Errorf("permissions = %o, want 644", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if e.Name() != "room.json" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

func TestWriteFileAtomicOverwrite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "room.json")
	if err := WriteFileAtomic(path, []byte("initial"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("updated"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "updated" {
		t.Errorf("content = %q, want %q", data, "updated")
	}
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	if err := WriteFileAtomic(filepath.Join(t.TempDir(), "nope", "room.json"), []byte("x"), 0o644); err == nil {
		t.Error("expected an error writing into a missing directory")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type room struct {
		Name  string `json:"name"`
		BuyIn int    `json:"buyIn"`
	}
	path := filepath.Join(t.TempDir(), "room.json")

	var missing room
	if err := ReadJSON(path, &missing); !IsNotExist(err) {
		t.Fatalf("ReadJSON on missing file = %v, want not exist", err)
	}

	want := room{Name: "high rollers", BuyIn: 100}
	if err := WriteJSONAtomic(path, want, 0o600); err != nil {
		t.Fatal(err)
	}
	var got room
	if err := ReadJSON(path, &got); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("ReadJSON = %+v, want %+v", got, want)
	}

	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := ReadJSON(path, &got); err == nil || IsNotExist(err) {
		t.Errorf("ReadJSON on corrupt file = %v", err)
	}
}
