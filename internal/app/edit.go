package app

import (
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// changeMode switches modes. The current buffer follows the transition
// from the mode it was last edited in; returning to navigation persists
// pending edits.
func changeMode(m *model.Model, to buffer.Mode) []Action {
	from := m.Mode
	if from == to {
		return nil
	}

	actions := []Action{ModeChanged{Mode: to}}
	if from == buffer.Command {
		m.CommandLine.Buffer.SetContent(buffer.Command, nil)
		from = m.CommandLine.Previous
	}
	m.Mode = to
	if to == buffer.Command {
		m.CommandLine.Previous = from
		return actions
	}
	if from == to {
		return actions
	}

	m.Current.Buffer.ChangeMode(from, to)
	switch {
	case to == buffer.Navigation:
		actions = append(actions, persistChanges(m)...)
		m.Redecorate()
		model.SortEntries(m.Current.Buffer.Lines)
		m.Current.Buffer.Validate(to)
		actions = append(actions, updatePreview(m, nil)...)
	case from == buffer.Navigation:
		m.Preview.Clear(buffer.Navigation)
	}
	m.Current.Buffer.Validate(to)
	return actions
}

// leaveEditing returns to navigation from normal or insert mode.
func leaveEditing(m *model.Model) []Action {
	if m.Mode == buffer.Normal || m.Mode == buffer.Insert {
		return changeMode(m, buffer.Navigation)
	}
	return nil
}

func openCommandLine(m *model.Model, kind event.CommandKind) []Action {
	if m.Mode == buffer.Command {
		return nil
	}
	m.CommandLine.Kind = kind
	actions := changeMode(m, buffer.Command)
	m.CommandLine.Buffer.SetContent(buffer.Command, []buffer.Line{{}})
	m.CommandLine.Buffer.ResetCursor(buffer.Command)
	return actions
}

// executeCommandLine closes the command line and runs what was typed.
func executeCommandLine(m *model.Model) []Action {
	if m.Mode != buffer.Command {
		return nil
	}
	text := m.CommandLine.Text()
	kind := m.CommandLine.Kind
	actions := changeMode(m, m.CommandLine.Previous)

	switch kind {
	case event.CommandSearchForward:
		return append(actions, search(m, text, false)...)
	case event.CommandSearchBackward:
		return append(actions, search(m, text, true)...)
	default:
		return append(actions, command(m, text)...)
	}
}

func modify(m *model.Model, count int, mod buffer.TextModification) []Action {
	switch m.Mode {
	case buffer.Command:
		m.CommandLine.Buffer.Modify(buffer.Command, count, mod)
	case buffer.Normal, buffer.Insert:
		if m.Current.Buffer.Modify(m.Mode, count, mod) {
			m.Preview.Clear(buffer.Navigation)
		}
	}
	return nil
}

func undo(m *model.Model, redo bool) []Action {
	if m.Mode != buffer.Normal {
		return nil
	}
	if redo {
		m.Current.Buffer.RedoChange(m.Mode)
	} else {
		m.Current.Buffer.UndoChange(m.Mode)
	}
	m.Redecorate()
	return nil
}

// persistChanges turns the edits of the current buffer since the last save
// into filesystem tasks: new lines are created, removed lines go to the
// register, changed lines are renamed.
func persistChanges(m *model.Model) []Action {
	d := &m.Current
	if d.Path == "" || d.Kind != model.KindDirectory {
		return nil
	}
	buf := &d.Buffer
	mode := slotMode(m, d)
	selected, _ := buf.Selected()

	kept := buf.Lines[:0]
	for _, l := range buf.Lines {
		if strings.TrimSpace(l.Content) != "" {
			kept = append(kept, l)
		}
	}
	buf.Lines = kept
	buf.Validate(mode)
	if selected.Content != "" {
		buf.SetCursorToLineContent(mode, selected.Content)
	}

	var actions []Action
	for _, c := range buf.Save() {
		switch c.Kind {
		case buffer.LineAdded:
			if strings.TrimSpace(c.New) != "" {
				actions = append(actions, RunTask{Task: task.AddPath{Path: joinEntry(d.Path, c.New)}})
			}
		case buffer.LineRemoved:
			if c.Old != "" {
				actions = append(actions, trash(m, filepath.Join(d.Path, model.EntryName(c.Old)))...)
			}
		case buffer.ContentChanged:
			old := filepath.Join(d.Path, model.EntryName(c.Old))
			if strings.TrimSpace(c.New) == "" {
				actions = append(actions, RunTask{Task: task.DeletePath{Path: old}})
				continue
			}
			actions = append(actions, rename(m, old, filepath.Join(d.Path, model.EntryName(c.New)))...)
		}
	}
	return actions
}

// joinEntry joins a typed name to dir keeping a trailing separator, which
// marks a directory.
func joinEntry(dir, name string) string {
	p := filepath.Join(dir, name)
	if strings.HasSuffix(name, "/") || strings.HasSuffix(name, string(filepath.Separator)) {
		p += string(filepath.Separator)
	}
	return p
}

// ── Search ──────────────────────────────────────────────────────────────────

func search(m *model.Model, term string, backwards bool) []Action {
	if term == "" {
		clearSearch(m)
		return nil
	}
	m.Search = model.Search{Term: term, Backwards: backwards}
	found := 0
	for _, d := range m.Slots() {
		if d.Path == "" || d.Kind != model.KindDirectory {
			continue
		}
		n := d.Buffer.SetSearch(term)
		if d == &m.Current {
			found = n
		}
	}
	if found == 0 {
		return printError(m, "pattern not found: "+term)
	}
	return searchNext(m, false)
}

func searchNext(m *model.Model, reverse bool) []Action {
	if m.Search.Term == "" {
		return nil
	}
	backwards := m.Search.Backwards != reverse
	m.Current.Buffer.SearchNext(slotMode(m, &m.Current), backwards)
	return updatePreview(m, nil)
}

func clearSearch(m *model.Model) {
	m.Search = model.Search{}
	for _, d := range m.Slots() {
		d.Buffer.ClearSearch()
	}
}
