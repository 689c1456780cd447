// Package task runs the background work of the browser: directory scans,
// preview loads, filesystem mutations and register archival. Tasks report
// back only by sending messages; they never touch the model.
package task

import (
	"fmt"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/store"
)

// Task is one unit of background work. The set of tasks is closed; the
// manager switches over every variant.
type Task interface {
	// ID identifies the task for supersession. An empty ID is never
	// superseded.
	ID() string
	task()
}

// AddPath creates a file, or a directory when Path ends with a separator.
type AddPath struct{ Path string }

// DeletePath removes Path recursively.
type DeletePath struct{ Path string }

// RenamePath moves Old to New. When New already exists it is archived
// into Replaced first.
type RenamePath struct {
	Old, New string
	Replaced *register.Entry
}

// EnumerateDirectory streams the entries of Path.
type EnumerateDirectory struct{ Path, Selection string }

// LoadPreview reads a text preview of Path.
type LoadPreview struct{ Path string }

// TrashPath moves Entry.Target into the register.
type TrashPath struct{ Entry register.Entry }

// Compress copies Entry.Target into the register.
type Compress struct{ Entry register.Entry }

// Restore unpacks Entry into Dir.
type Restore struct {
	Entry register.Entry
	Dir   string
}

// DeleteRegisterEntry removes the archive of an evicted entry.
type DeleteRegisterEntry struct{ Entry register.Entry }

// OptimizeHistory compacts the history store.
type OptimizeHistory struct{}

// SaveHistory appends Entries to the history store.
type SaveHistory struct{ Entries []store.HistoryEntry }

// EmitMessages sends Messages back through the task listener.
type EmitMessages struct{ Messages []event.Message }

func id(kind, arg string) string { return fmt.Sprintf("%s(%s)", kind, arg) }

func (t AddPath) ID() string             { return id("AddPath", t.Path) }
func (t DeletePath) ID() string          { return id("DeletePath", t.Path) }
func (t RenamePath) ID() string          { return id("RenamePath", t.Old) }
func (t EnumerateDirectory) ID() string  { return EnumerationID(t.Path) }
func (t LoadPreview) ID() string         { return id("LoadPreview", t.Path) }
func (t TrashPath) ID() string           { return id("TrashPath", t.Entry.ID) }
func (t Compress) ID() string            { return id("Compress", t.Entry.ID) }
func (t Restore) ID() string             { return id("Restore", t.Entry.ID) }
func (t DeleteRegisterEntry) ID() string { return id("DeleteRegisterEntry", t.Entry.ID) }
func (OptimizeHistory) ID() string       { return id("OptimizeHistory", "") }
func (SaveHistory) ID() string           { return "" }
func (EmitMessages) ID() string          { return "" }

func (AddPath) task()             {}
func (DeletePath) task()          {}
func (RenamePath) task()          {}
func (EnumerateDirectory) task()  {}
func (LoadPreview) task()         {}
func (TrashPath) task()           {}
func (Compress) task()            {}
func (Restore) task()             {}
func (DeleteRegisterEntry) task() {}
func (OptimizeHistory) task()     {}
func (SaveHistory) task()         {}
func (EmitMessages) task()        {}

// EnumerationID is the id of an enumeration of path regardless of the
// selection it carries.
func EnumerationID(path string) string { return id("EnumerateDirectory", path) }
