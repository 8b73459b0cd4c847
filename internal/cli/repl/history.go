package repl

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultHistorySize is the number of entries kept in memory and on disk.
const DefaultHistorySize = 1000

// DefaultHistoryPath returns ~/.respkv/history.
func DefaultHistoryPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".respkv", "history")
}

// History manages command history for the REPL.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a History persisted at file. An empty file uses
// DefaultHistoryPath.
func NewHistory(file string) *History {
	if file == "" {
		file = DefaultHistoryPath()
	}
	return &History{
		entries: make([]string, 0),
		maxSize: DefaultHistorySize,
		file:    file,
	}
}

// Add appends a command. Repeating the previous command is a no-op.
func (h *History) Add(cmd string) {
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
}

// Get returns the history entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load appends entries from the history file. A missing file is not an error.
func (h *History) Load() error {
	file, err := os.Open(h.file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			h.Add(line)
		}
	}
	return scanner.Err()
}

// Save writes the history file with owner-only permissions.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	file, err := os.OpenFile(h.file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, entry := range h.entries {
		if _, err := w.WriteString(entry + "\n"); err != nil {
			file.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
