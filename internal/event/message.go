// Package event defines the message vocabulary exchanged between the input
// sources (keyboard, filesystem watcher, background tasks) and the control
// loop that owns the model.
package event

import (
	"context"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
)

// Source identifies the producer of an envelope.
type Source int

const (
	User Source = iota
	Filesystem
	Task
)

func (s Source) String() string {
	switch s {
	case Filesystem:
		return "filesystem"
	case Task:
		return "task"
	default:
		return "user"
	}
}

// Envelope is one delivered unit from the router. Messages are applied in
// order; Sequence is the key chord typed so far (only set for User).
type Envelope struct {
	Messages []Message
	Sequence string
	Source   Source
}

// Message is a domain message. The set is closed to this package.
type Message interface {
	message()
}

// QuitMode controls how shutdown treats running tasks.
type QuitMode int

const (
	// FailOnRunningTasks persists state and waits for outstanding tasks.
	FailOnRunningTasks QuitMode = iota
	// Force cancels everything and exits immediately.
	Force
)

// ── Lifecycle ───────────────────────────────────────────────────────────────

// Quit requests shutdown.
type Quit struct {
	Mode QuitMode
}

// Resize reports a new terminal size.
type Resize struct {
	Width  int
	Height int
}

// Rerender forces a frame without state change.
type Rerender struct{}

// TaskStarted registers a running task with its cancel handle. Instance
// tells apart runs of the same ID.
type TaskStarted struct {
	ID       string
	Instance uint64
	Cancel   context.CancelFunc
}

// TaskEnded unregisters a task instance.
type TaskEnded struct {
	ID       string
	Instance uint64
}

// ── Modes and command line ──────────────────────────────────────────────────

// ChangeMode switches the editing mode of the focused buffer.
type ChangeMode struct {
	To buffer.Mode
}

// CommandKind selects what the command line is used for.
type CommandKind int

const (
	CommandColon CommandKind = iota
	CommandSearchForward
	CommandSearchBackward
)

// Prompt is the character shown in front of the command line.
func (k CommandKind) Prompt() string {
	switch k {
	case CommandSearchForward:
		return "/"
	case CommandSearchBackward:
		return "?"
	default:
		return ":"
	}
}

// OpenCommandLine focuses the command line.
type OpenCommandLine struct {
	Kind CommandKind
}

// ExecuteCommand runs the content of the command line.
type ExecuteCommand struct{}

// ExecuteCommandString runs cmd as if typed after ':'.
type ExecuteCommandString struct {
	Command string
}

// ── Cursor and editing ──────────────────────────────────────────────────────

// MoveCursor moves the cursor of the focused buffer.
type MoveCursor struct {
	Count     int
	Direction buffer.CursorDirection
}

// MoveViewPort scrolls the focused buffer.
type MoveViewPort struct {
	Direction buffer.ViewPortDirection
}

// SearchNext jumps to the next search match.
type SearchNext struct {
	Backwards bool
}

// Modification edits the focused buffer.
type Modification struct {
	Count        int
	Modification buffer.TextModification
}

// Undo reverts the last change of the current buffer.
type Undo struct{}

// Redo re-applies the last undone change of the current buffer.
type Redo struct{}

// ── Navigation ──────────────────────────────────────────────────────────────

// NavigateToParent moves up one directory.
type NavigateToParent struct{}

// NavigateToSelected enters the selected directory.
type NavigateToSelected struct{}

// NavigateToPath jumps to Path. A file path opens its directory with the
// file selected.
type NavigateToPath struct {
	Path string
}

// NavigateToPathAsPreview makes Path the current directory's preview.
type NavigateToPathAsPreview struct {
	Path string
}

// NavigateToMark jumps to the path stored under Mark.
type NavigateToMark struct {
	Mark rune
}

// OpenSelected opens the selected file, or enters it when it is a directory.
type OpenSelected struct{}

// ── Marks, quickfix, register ───────────────────────────────────────────────

// SetMark stores the selected path under Mark.
type SetMark struct {
	Mark rune
}

// ToggleQuickFix adds or removes the selected path from the quickfix list.
type ToggleQuickFix struct{}

// YankSelected archives a copy of the selected path into the register.
type YankSelected struct{}

// YankPath copies the selected path to the system clipboard.
type YankPath struct{}

// PasteRegister restores a register entry into the current directory. An
// empty Register addresses the newest entry.
type PasteRegister struct {
	Register string
}

// ── Data arrival ────────────────────────────────────────────────────────────

// PathsAdded reports new entries. Paths are absolute.
type PathsAdded struct {
	Paths []string
}

// PathRemoved reports a vanished entry.
type PathRemoved struct {
	Path string
}

// EnumerationFinished terminates a directory enumeration.
type EnumerationFinished struct {
	Path      string
	Selection string
}

// PreviewLoaded carries the text content of a file preview.
type PreviewLoaded struct {
	Path  string
	Lines []string
}

// LoadFailed reports that Path could not be enumerated or previewed.
type LoadFailed struct {
	Path string
}

// Rescan requests reloading every resident directory.
type Rescan struct{}

// ── Output ──────────────────────────────────────────────────────────────────

// PrintLine is one line shown in the command line area.
type PrintLine struct {
	Content string
	Error   bool
}

// Print shows Lines until the next key press.
type Print struct {
	Lines []PrintLine
}

func (Quit) message()                    {}
func (Resize) message()                  {}
func (Rerender) message()                {}
func (TaskStarted) message()             {}
func (TaskEnded) message()               {}
func (ChangeMode) message()              {}
func (OpenCommandLine) message()         {}
func (ExecuteCommand) message()          {}
func (ExecuteCommandString) message()    {}
func (MoveCursor) message()              {}
func (MoveViewPort) message()            {}
func (SearchNext) message()              {}
func (Modification) message()            {}
func (Undo) message()                    {}
func (Redo) message()                    {}
func (NavigateToParent) message()        {}
func (NavigateToSelected) message()      {}
func (NavigateToPath) message()          {}
func (NavigateToPathAsPreview) message() {}
func (NavigateToMark) message()          {}
func (OpenSelected) message()            {}
func (SetMark) message()                 {}
func (ToggleQuickFix) message()          {}
func (YankSelected) message()            {}
func (YankPath) message()                {}
func (PasteRegister) message()           {}
func (PathsAdded) message()              {}
func (PathRemoved) message()             {}
func (EnumerationFinished) message()     {}
func (PreviewLoaded) message()           {}
func (LoadFailed) message()              {}
func (Rescan) message()                  {}
func (Print) message()                   {}

// Info is a one-line informational Print.
func Info(text string) Print {
	return Print{Lines: []PrintLine{{Content: text}}}
}

// Error is a one-line error Print.
func Error(text string) Print {
	return Print{Lines: []PrintLine{{Content: text, Error: true}}}
}
