package app

import (
	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// Action is a side effect requested by the update step. Actions never touch
// the model; the loop executes them around the render of a frame.
type Action interface {
	action()
}

// Load schedules an enumeration or a preview read of Path.
type Load struct {
	Path      string
	Kind      model.Kind
	Selection string
}

// Open hands the terminal to the configured opener for Path.
type Open struct {
	Path string
}

// Resize re-reads the terminal size.
type Resize struct{}

// Clipboard copies Text to the system clipboard.
type Clipboard struct {
	Text string
}

// RunTask starts a background task.
type RunTask struct {
	Task task.Task
}

// EmitMessages feeds Messages back into the loop as a task envelope.
type EmitMessages struct {
	Messages []event.Message
}

// ModeChanged tells the key resolver about the new mode.
type ModeChanged struct {
	Mode buffer.Mode
}

// Quit ends the loop. Payload is the selection handed to the caller.
type Quit struct {
	Mode    event.QuitMode
	Payload string
}

// WatchPath starts watching a directory.
type WatchPath struct {
	Path string
}

// UnwatchPath stops watching a directory.
type UnwatchPath struct {
	Path string
}

func (Load) action()         {}
func (Open) action()         {}
func (Resize) action()       {}
func (Clipboard) action()    {}
func (RunTask) action()      {}
func (EmitMessages) action() {}
func (ModeChanged) action()  {}
func (Quit) action()         {}
func (WatchPath) action()    {}
func (UnwatchPath) action()  {}

// preview reports whether a runs before the frame is drawn.
func preview(a Action) bool {
	switch a.(type) {
	case Load, Open, Resize, Clipboard, RunTask:
		return true
	default:
		return false
	}
}

func emits(actions []Action) bool {
	for _, a := range actions {
		if _, ok := a.(EmitMessages); ok {
			return true
		}
	}
	return false
}
