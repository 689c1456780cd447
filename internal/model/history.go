package model

import (
	"path/filepath"
	"sort"
	"time"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/store"
)

type historyEntry struct {
	selection string
	changedAt time.Time
	pending   bool
}

// History maps a directory to the child selected in it most recently.
type History struct {
	Now func() time.Time

	entries map[string]historyEntry
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{Now: time.Now, entries: map[string]historyEntry{}}
}

// Load merges persisted entries; newer in-memory selections win.
func (h *History) Load(entries []store.HistoryEntry) {
	for _, e := range entries {
		if cur, ok := h.entries[e.Path]; ok && cur.changedAt.After(e.ChangedAt) {
			continue
		}
		h.entries[e.Path] = historyEntry{selection: e.Selection, changedAt: e.ChangedAt}
	}
}

// Add records path as the selection of its parent and every ancestor as
// the selection of its own parent.
func (h *History) Add(path string) {
	now := h.Now()
	path = filepath.Clean(path)
	for {
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		name := filepath.Base(path)
		if cur, ok := h.entries[parent]; !ok || cur.selection != name {
			h.entries[parent] = historyEntry{selection: name, changedAt: now, pending: true}
		}
		path = parent
	}
}

// Selection returns the remembered child of dir.
func (h *History) Selection(dir string) (string, bool) {
	e, ok := h.entries[filepath.Clean(dir)]
	if !ok {
		return "", false
	}
	return e.selection, true
}

// Pending returns the entries changed since the last MarkSaved, by path.
func (h *History) Pending() []store.HistoryEntry {
	var out []store.HistoryEntry
	for path, e := range h.entries {
		if e.pending {
			out = append(out, store.HistoryEntry{Path: path, Selection: e.selection, ChangedAt: e.changedAt})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// MarkSaved clears the pending flags.
func (h *History) MarkSaved() {
	for path, e := range h.entries {
		e.pending = false
		h.entries[path] = e
	}
}
