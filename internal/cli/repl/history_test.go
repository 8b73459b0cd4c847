package repl

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := NewHistory("")
	if h == nil {
		t.Fatal("NewHistory returned nil")
	}
	if h.maxSize != DefaultHistorySize {
		t.Errorf("maxSize = %d, want %d", h.maxSize, DefaultHistorySize)
	}
	if h.file != DefaultHistoryPath() {
		t.Errorf("file = %q, want %q", h.file, DefaultHistoryPath())
	}
	if filepath.Base(h.file) != "history" || filepath.Base(filepath.Dir(h.file)) != ".respkv" {
		t.Errorf("default history path = %q, want .../.respkv/history", h.file)
	}
}

func TestHistory_Add(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history"))

	h.Add("command1")
	h.Add("command2")
	h.Add("command2") // Repeat is collapsed
	h.Add("command1")

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want %d", h.Len(), 3)
	}
}

func TestHistory_Add_MaxSize(t *testing.T) {
	h := &History{
		entries: make([]string, 0),
		maxSize: 3,
	}

	h.Add("cmd1")
	h.Add("cmd2")
	h.Add("cmd3")
	h.Add("cmd4") // Should evict cmd1

	if h.Len() != 3 {
		t.Errorf("Len() = %d, want %d", h.Len(), 3)
	}
	if h.entries[0] != "cmd2" {
		t.Errorf("entries[0] = %q, want %q", h.entries[0], "cmd2")
	}
}

func TestHistory_Get(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "history"))
	h.Add("first")
	h.Add("second")
	h.Add("third")

	tests := []struct {
		index int
		want  string
	}{
		{0, "third"}, // Most recent
		{1, "second"},
		{2, "first"},
		{3, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := h.Get(tt.index); got != tt.want {
			t.Errorf("Get(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestHistory_SaveLoad(t *testing.T) {
	historyFile := filepath.Join(t.TempDir(), ".respkv", "history")

	h := NewHistory(historyFile)
	h.Add("SET foo bar")
	h.Add("GET foo")
	h.Add(`ECHO "hello world"`)

	if err := h.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(historyFile)
	if err != nil {
		t.Fatalf("history file was not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("history file mode = %o, want 600", perm)
	}

	h2 := NewHistory(historyFile)
	if err := h2.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if h2.Len() != 3 {
		t.Fatalf("loaded %d entries, want %d", h2.Len(), 3)
	}
	if h2.Get(0) != `ECHO "hello world"` || h2.Get(2) != "SET foo bar" {
		t.Errorf("loaded entries in wrong order: %v", h2.entries)
	}
}

func TestHistory_Load_NonexistentFile(t *testing.T) {
	h := NewHistory(filepath.Join(t.TempDir(), "missing"))

	if err := h.Load(); err != nil {
		t.Errorf("Load of nonexistent file should not error: %v", err)
	}
	if h.Len() != 0 {
		t.Error("entries should be empty after loading nonexistent file")
	}
}

func TestHistory_Load_RespectsMaxSize(t *testing.T) {
	historyFile := filepath.Join(t.TempDir(), "history")
	if err := os.WriteFile(historyFile, []byte("a\nb\n\nc\nd\n"), 0600); err != nil {
		t.Fatal(err)
	}

	h := NewHistory(historyFile)
	h.maxSize = 2
	if err := h.Load(); err != nil {
		t.Fatal(err)
	}
	if h.Len() != 2 || h.Get(0) != "d" || h.Get(1) != "c" {
		t.Errorf("entries = %v, want [c d]", h.entries)
	}
}
