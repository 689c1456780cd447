// Package register is the trash cache: deleted, renamed-away and yanked paths
// are archived into a bounded directory of compressed archives whose names
// encode where the content came from and when.
package register

import (
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// Capacity is the number of entries kept; older ones are evicted.
const Capacity = 10

// Status tracks whether the archive of an entry exists yet.
type Status int

const (
	// Processing means the archive is still being written.
	Processing Status = iota
	// Ready means the archive file was observed in the register directory.
	Ready
)

func (s Status) String() string {
	if s == Ready {
		return "ready"
	}
	return "processing"
}

// Entry is one archived path.
type Entry struct {
	ID     string
	Cache  string
	Status Status
	Target string

	millis int64
}

// AddedAt is the creation time encoded in the id.
func (e Entry) AddedAt() time.Time { return time.UnixMilli(e.millis) }

// Register keeps the entries newest first.
type Register struct {
	Dir string
	// Now is the clock used for new ids.
	Now func() time.Time

	entries []Entry
}

// New returns an empty register rooted at dir.
func New(dir string) *Register {
	return &Register{Dir: dir, Now: time.Now}
}

// Entries returns a copy of the entries, newest first.
func (r *Register) Entries() []Entry {
	return append([]Entry(nil), r.entries...)
}

// Len returns the number of entries.
func (r *Register) Len() int { return len(r.entries) }

// Add creates a Processing entry for target. When the register overflows the
// oldest entry is dropped and returned so its archive can be deleted.
func (r *Register) Add(target string) (Entry, *Entry) {
	ms := r.now().UnixMilli()
	if len(r.entries) > 0 && ms <= r.entries[0].millis {
		// keep ids strictly increasing within the same millisecond
		ms = r.entries[0].millis + 1
	}
	id := composeMillis(ms, target)
	entry := Entry{
		ID:     id,
		Cache:  filepath.Join(r.Dir, id),
		Status: Processing,
		Target: target,
		millis: ms,
	}
	r.entries = append([]Entry{entry}, r.entries...)
	return entry, r.trim()
}

// AddOrUpdate handles an archive file appearing at path: a known entry is
// marked Ready, an unknown one is inserted in order. The second result is
// false when path is not a register archive.
func (r *Register) AddOrUpdate(path string) (*Entry, bool) {
	if filepath.Dir(path) != filepath.Clean(r.Dir) {
		return nil, false
	}
	id := filepath.Base(path)
	ms, target, err := decomposeMillis(id)
	if err != nil {
		return nil, false
	}
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries[i].Status = Ready
			return nil, true
		}
	}

	r.entries = append(r.entries, Entry{
		ID:     id,
		Cache:  filepath.Join(r.Dir, id),
		Status: Ready,
		Target: target,
		millis: ms,
	})
	sort.SliceStable(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if a.millis != b.millis {
			return a.millis > b.millis
		}
		return a.ID > b.ID
	})
	return r.trim(), true
}

// Get resolves a register name. The empty name and '"' address the newest
// entry; a digit n addresses the n-th newest, 0 being the newest.
func (r *Register) Get(name string) (Entry, bool) {
	index := 0
	switch name {
	case "", `"`:
	default:
		n, err := strconv.Atoi(name)
		if err != nil || len(name) != 1 {
			return Entry{}, false
		}
		index = n
	}
	if index >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[index], true
}

// Remove drops the entry with id.
func (r *Register) Remove(id string) bool {
	for i := range r.entries {
		if r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Register) trim() *Entry {
	if len(r.entries) <= Capacity {
		return nil
	}
	evicted := r.entries[len(r.entries)-1]
	r.entries = r.entries[:len(r.entries)-1]
	return &evicted
}

func (r *Register) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}
