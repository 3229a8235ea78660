package snapshot

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "odds_snapshot.json")

	if err := Write(path, []byte(`{"events":[]}`)); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"events":[]}` {
		t.Errorf("content: %s", got)
	}
}

func TestWrite_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "odds_snapshot.json")

	if err := Write(path, []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := Write(path, []byte("new")); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("content after replace: %s", got)
	}
}

func TestWrite_NoTempLeftovers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odds_snapshot.json")

	if err := Write(path, []byte("body")); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "odds_snapshot.json" {
		t.Errorf("unexpected dir entries: %v", entries)
	}
}
