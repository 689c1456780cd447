package model

import (
	"path/filepath"
	"sort"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/store"
)

// Sign identifiers. Higher priority wins the sign column.
const (
	SignQuickFix buffer.SignID = iota + 1
	SignMark
)

var (
	QuickFixSign = buffer.Sign{ID: SignQuickFix, Content: '*', Priority: 0}
	MarkSign     = buffer.Sign{ID: SignMark, Content: '\'', Priority: 1}
)

// Marks maps a character to an absolute path.
type Marks struct {
	entries map[rune]string
}

// NewMarks returns an empty mark set.
func NewMarks() *Marks {
	return &Marks{entries: map[rune]string{}}
}

// Set stores path under r, replacing any previous path.
func (m *Marks) Set(r rune, path string) {
	m.entries[r] = path
}

// Get returns the path stored under r.
func (m *Marks) Get(r rune) (string, bool) {
	p, ok := m.entries[r]
	return p, ok
}

// Delete removes the marks named by chars.
func (m *Marks) Delete(chars string) {
	for _, r := range chars {
		delete(m.entries, r)
	}
}

// Has reports whether any mark points to path.
func (m *Marks) Has(path string) bool {
	for _, p := range m.entries {
		if p == path {
			return true
		}
	}
	return false
}

// Names returns the mark characters in order.
func (m *Marks) Names() []rune {
	out := make([]rune, 0, len(m.entries))
	for r := range m.entries {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Load replaces the marks with the persisted ones. Keys that are not a
// single character are ignored.
func (m *Marks) Load(s store.Marks) {
	m.entries = map[rune]string{}
	for k, v := range s {
		r := []rune(k)
		if len(r) == 1 {
			m.entries[r[0]] = v
		}
	}
}

// Snapshot returns the persisted form.
func (m *Marks) Snapshot() store.Marks {
	out := store.Marks{}
	for r, p := range m.entries {
		out[string(r)] = p
	}
	return out
}

// QFix is the quickfix list: selected paths, a position and an optional
// command applied to every entry by :cdo.
type QFix struct {
	Entries []string
	Index   int
	// Cdo is the command still to be applied; empty when no :cdo runs.
	Cdo string
}

// Contains reports whether path is in the list.
func (q *QFix) Contains(path string) bool {
	return q.indexOf(path) >= 0
}

func (q *QFix) indexOf(path string) int {
	for i, p := range q.Entries {
		if p == path {
			return i
		}
	}
	return -1
}

// Toggle adds or removes path and reports whether it is now present.
func (q *QFix) Toggle(path string) bool {
	if i := q.indexOf(path); i >= 0 {
		q.Entries = append(q.Entries[:i], q.Entries[i+1:]...)
		q.clamp()
		return false
	}
	q.Entries = append(q.Entries, path)
	return true
}

// Clear empties the list.
func (q *QFix) Clear() {
	q.Entries = nil
	q.Index = 0
	q.Cdo = ""
}

// ClearIn removes every entry directly inside dir.
func (q *QFix) ClearIn(dir string) {
	out := q.Entries[:0]
	for _, p := range q.Entries {
		if filepath.Dir(p) != dir {
			out = append(out, p)
		}
	}
	q.Entries = out
	q.clamp()
}

// Invert toggles every path in children.
func (q *QFix) Invert(children []string) {
	for _, c := range children {
		q.Toggle(c)
	}
}

// Current returns the entry at Index.
func (q *QFix) Current() (string, bool) {
	if q.Index < 0 || q.Index >= len(q.Entries) {
		return "", false
	}
	return q.Entries[q.Index], true
}

// First moves to the first entry.
func (q *QFix) First() (string, bool) {
	q.Index = 0
	return q.Current()
}

// Next moves forward and reports false at the end of the list.
func (q *QFix) Next() (string, bool) {
	if q.Index+1 >= len(q.Entries) {
		return "", false
	}
	q.Index++
	return q.Current()
}

// Previous moves backward, wrapping to the last entry.
func (q *QFix) Previous() (string, bool) {
	if len(q.Entries) == 0 {
		return "", false
	}
	q.Index--
	if q.Index < 0 {
		q.Index = len(q.Entries) - 1
	}
	return q.Current()
}

func (q *QFix) clamp() {
	if q.Index >= len(q.Entries) {
		q.Index = len(q.Entries) - 1
	}
	if q.Index < 0 {
		q.Index = 0
	}
}

// Load replaces the list with the persisted one.
func (q *QFix) Load(s store.QuickFix) {
	q.Entries = append([]string(nil), s.Entries...)
	q.Index = s.Index
	q.clamp()
}

// Snapshot returns the persisted form.
func (q *QFix) Snapshot() store.QuickFix {
	return store.QuickFix{Entries: append([]string(nil), q.Entries...), Index: q.Index}
}
