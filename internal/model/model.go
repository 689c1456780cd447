// Package model is the single state root of the browser. It is only ever
// mutated by the update step running on the control loop goroutine.
package model

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
)

// State is the load state of a directory buffer.
type State int

const (
	Loading State = iota
	Ready
	Error
)

// Kind tells what a directory buffer shows.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

// Slot names one of the three buffers.
type Slot int

const (
	Parent Slot = iota
	Current
	Preview
)

func (s Slot) String() string {
	switch s {
	case Parent:
		return "parent"
	case Preview:
		return "preview"
	default:
		return "current"
	}
}

// DirectoryBuffer is a buffer bound to an optional path. An empty Path means
// nothing is shown (the parent of the root, or no selection to preview).
type DirectoryBuffer struct {
	Path   string
	Kind   Kind
	State  State
	Buffer buffer.TextBuffer
	// Selection is the entry the pending load restores once it finishes.
	Selection string
}

// PendingSelection is the entry a reload should put the cursor on: the one
// the running load was asked for, or the entry under the cursor.
func (d *DirectoryBuffer) PendingSelection() string {
	if d.State == Loading {
		return d.Selection
	}
	l, ok := d.Buffer.Selected()
	if !ok {
		return ""
	}
	return EntryName(l.Content)
}

// Clear unbinds the buffer and drops its content.
func (d *DirectoryBuffer) Clear(mode buffer.Mode) {
	d.Path = ""
	d.Kind = KindDirectory
	d.State = Ready
	d.Selection = ""
	d.Buffer.SetContent(mode, nil)
}

// Take drains the lines out of the buffer.
func (d *DirectoryBuffer) Take() []buffer.Line {
	lines := d.Buffer.Lines
	d.Buffer.Lines = nil
	d.Buffer.Cursor = nil
	return lines
}

// SelectedPath is the absolute path of the entry under the cursor.
func (d *DirectoryBuffer) SelectedPath() (string, bool) {
	if d.Path == "" || d.Kind != KindDirectory {
		return "", false
	}
	line, ok := d.Buffer.Selected()
	if !ok || line.Content == "" {
		return "", false
	}
	return filepath.Join(d.Path, EntryName(line.Content)), true
}

// EntryName strips the directory marker from a line content.
func EntryName(content string) string {
	return strings.TrimSuffix(content, "/")
}

// EntryLine builds the listing line for path.
func EntryLine(path string, dir bool) buffer.Line {
	name := filepath.Base(path)
	if dir {
		name += "/"
	}
	return buffer.Line{Content: name, Directory: dir}
}

// IsDir reports whether path is a directory, following symlinks.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// SortEntries orders a listing directories first, then by name ignoring case.
func SortEntries(lines []buffer.Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := lines[i], lines[j]
		if a.Directory != b.Directory {
			return a.Directory
		}
		la, lb := strings.ToLower(a.Content), strings.ToLower(b.Content)
		if la != lb {
			return la < lb
		}
		return a.Content < b.Content
	})
}

// Settings are the user options that affect the update step.
type Settings struct {
	OpenCommand       string
	SelectionToFile   string
	SelectionToStdout bool
	ShowMarkSigns     bool
	ShowQuickFixSigns bool
	SignColumnWidth   int
	LineNumber        buffer.LineNumber
	LineNumberWidth   int
}

// QuitOnOpen reports whether opening a file ends the session with the
// selection as payload.
func (s Settings) QuitOnOpen() bool {
	return s.SelectionToFile != "" || s.SelectionToStdout
}

// CommandLine is the bottom input line.
type CommandLine struct {
	Kind event.CommandKind
	// Previous is the mode to return to when the line is closed.
	Previous buffer.Mode
	Buffer   buffer.TextBuffer
}

// Text returns the typed command.
func (c *CommandLine) Text() string {
	if len(c.Buffer.Lines) == 0 {
		return ""
	}
	return c.Buffer.Lines[0].Content
}

// Search is the last search.
type Search struct {
	Term      string
	Backwards bool
}

// Model is the root state.
type Model struct {
	Mode        buffer.Mode
	KeySequence string

	Parent  DirectoryBuffer
	Current DirectoryBuffer
	Preview DirectoryBuffer

	CommandLine CommandLine
	Search      Search
	Print       []event.PrintLine

	History  *History
	Marks    *Marks
	QFix     *QFix
	Register *register.Register
	Tasks    Tasks

	Layout   Layout
	Settings Settings
}

// New returns a model with empty state.
func New(settings Settings, reg *register.Register) *Model {
	m := &Model{
		Mode:     buffer.Navigation,
		History:  NewHistory(),
		Marks:    NewMarks(),
		QFix:     &QFix{},
		Register: reg,
		Tasks:    Tasks{},
		Settings: settings,
	}
	for _, d := range m.Slots() {
		d.State = Ready
		d.Buffer.ViewPort = m.viewPort()
	}
	return m
}

func (m *Model) viewPort() buffer.ViewPort {
	return buffer.ViewPort{
		Height:          1,
		Width:           1,
		SignColumnWidth: m.Settings.SignColumnWidth,
		LineNumber:      m.Settings.LineNumber,
		LineNumberWidth: m.Settings.LineNumberWidth,
		HiddenSigns:     m.hiddenSigns(),
	}
}

func (m *Model) hiddenSigns() map[buffer.SignID]bool {
	hidden := map[buffer.SignID]bool{}
	if !m.Settings.ShowMarkSigns {
		hidden[SignMark] = true
	}
	if !m.Settings.ShowQuickFixSigns {
		hidden[SignQuickFix] = true
	}
	return hidden
}

// Slots returns the three directory buffers in parent, current, preview order.
func (m *Model) Slots() []*DirectoryBuffer {
	return []*DirectoryBuffer{&m.Parent, &m.Current, &m.Preview}
}

// Slot returns the buffer for s.
func (m *Model) Slot(s Slot) *DirectoryBuffer {
	switch s {
	case Parent:
		return &m.Parent
	case Preview:
		return &m.Preview
	default:
		return &m.Current
	}
}

// Resident returns the directory buffers currently bound to path.
func (m *Model) Resident(path string) []*DirectoryBuffer {
	var out []*DirectoryBuffer
	for _, d := range m.Slots() {
		if d.Path != "" && d.Path == path {
			out = append(out, d)
		}
	}
	return out
}

// Focused is the buffer keyboard edits apply to.
func (m *Model) Focused() *buffer.TextBuffer {
	if m.Mode == buffer.Command {
		return &m.CommandLine.Buffer
	}
	return &m.Current.Buffer
}

// Decorate sets mark and quickfix signs on line for path.
func (m *Model) Decorate(line *buffer.Line, path string) {
	if m.Marks.Has(path) {
		line.SetSign(MarkSign)
	} else {
		line.UnsetSign(SignMark)
	}
	if m.QFix.Contains(path) {
		line.SetSign(QuickFixSign)
	} else {
		line.UnsetSign(SignQuickFix)
	}
}

// Redecorate refreshes the signs and the directory flag of every listing
// line. A line is a directory when it ends with a separator, which is also
// how edited and undone lines are told apart.
func (m *Model) Redecorate() {
	for _, d := range m.Slots() {
		if d.Path == "" || d.Kind != KindDirectory {
			continue
		}
		for i := range d.Buffer.Lines {
			l := &d.Buffer.Lines[i]
			l.Directory = strings.HasSuffix(l.Content, "/")
			m.Decorate(l, filepath.Join(d.Path, EntryName(l.Content)))
		}
	}
}

// Resize applies a new terminal size to the layout and every viewport.
func (m *Model) Resize(width, height int) {
	m.Layout = NewLayout(width, height, len(m.Print))
	m.applyLayout()
}

// Relayout recomputes the layout after the command line height changed.
func (m *Model) Relayout() {
	m.Layout = NewLayout(m.Layout.Width, m.Layout.Height, len(m.Print))
	m.applyLayout()
}

func (m *Model) applyLayout() {
	set := func(d *DirectoryBuffer, r Rect, gutter bool) {
		vp := &d.Buffer.ViewPort
		vp.Width = r.Width
		vp.Height = r.Height
		if gutter {
			vp.SignColumnWidth = m.Settings.SignColumnWidth
			vp.LineNumber = m.Settings.LineNumber
			vp.LineNumberWidth = m.Settings.LineNumberWidth
		} else {
			vp.SignColumnWidth = 0
			vp.LineNumber = buffer.LineNumberNone
		}
		vp.HiddenSigns = m.hiddenSigns()
		// file previews never carry a cursor
		if d.Kind == KindFile {
			return
		}
		d.Buffer.Validate(m.Mode)
	}
	set(&m.Parent, m.Layout.Parent, false)
	set(&m.Current, m.Layout.Current, true)
	set(&m.Preview, m.Layout.Preview, false)

	cl := &m.CommandLine.Buffer.ViewPort
	cl.Width = m.Layout.CommandLine.Width - 1
	cl.Height = 1
	m.CommandLine.Buffer.Validate(buffer.Command)
}
