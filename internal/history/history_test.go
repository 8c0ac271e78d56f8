package history

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if err := Write("gh pr create"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got != "gh pr create" {
		t.Errorf("Read = %q, want %q", got, "gh pr create")
	}
}

func TestWriteKeepsOnlyMostRecent(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	for _, cmd := range []string{"first", "second", "third"} {
		if err := Write(cmd); err != nil {
			t.Fatalf("Write(%q): %v", cmd, err)
		}
	}
	got, err := Read()
	if err != nil {
		t.Fatal(err)
	}
	if got != "third" {
		t.Errorf("Read = %q, want only the most recent result", got)
	}
}

func TestReadWithoutHistory(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	if _, err := Read(); err == nil {
		t.Fatal("expected error when no command was stored")
	}
}

func TestPathHonorsXDGDataHome(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(path, dir) {
		t.Errorf("Path = %q, want under %q", path, dir)
	}
	if filepath.Base(path) != fileName {
		t.Errorf("Path base = %q, want %q", filepath.Base(path), fileName)
	}
}
