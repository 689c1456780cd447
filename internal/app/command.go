package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// command runs one ':' command line.
func command(m *model.Model, line string) []Action {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)
	log.Debugf("command %q arg %q", name, arg)

	switch name {
	case "":
		return nil
	case "q":
		return []Action{Quit{Mode: event.FailOnRunningTasks}}
	case "q!":
		return []Action{Quit{Mode: event.Force}}
	case "w":
		return persistChanges(m)
	case "wq":
		return append(persistChanges(m), Quit{Mode: event.FailOnRunningTasks})
	case "e!":
		return reloadCurrent(m)
	case "d!":
		path, ok := m.Current.SelectedPath()
		if !ok {
			return nil
		}
		return trash(m, path)
	case "histopt":
		return []Action{RunTask{Task: task.OptimizeHistory{}}}

	case "cd":
		if arg == "" {
			arg = "~"
		}
		return navigateToPath(m, arg)
	case "mkdir", "touch":
		if arg == "" || m.Current.Path == "" {
			return printError(m, name+" needs a name")
		}
		path := filepath.Join(m.Current.Path, arg)
		if name == "mkdir" {
			path += string(filepath.Separator)
		}
		return []Action{RunTask{Task: task.AddPath{Path: path}}}

	case "noh":
		clearSearch(m)
		return nil

	case "delm":
		if arg == "" {
			return printError(m, "delm needs mark names")
		}
		m.Marks.Delete(strings.ReplaceAll(arg, " ", ""))
		m.Redecorate()
		return nil
	case "marks":
		return printInfo(m, markLines(m)...)

	case "cl":
		m.QFix.Clear()
		m.Redecorate()
		return nil
	case "clearcl":
		m.QFix.ClearIn(m.Current.Path)
		m.Redecorate()
		return nil
	case "invertcl":
		m.QFix.Invert(children(m))
		m.Redecorate()
		return nil
	case "cdo":
		if arg == "" {
			return printError(m, "cdo needs a command")
		}
		m.QFix.Cdo = arg
		return []Action{EmitMessages{Messages: []event.Message{event.ExecuteCommandString{Command: "cfirst"}}}}
	case "cfirst":
		path, ok := m.QFix.First()
		if !ok {
			m.QFix.Cdo = ""
			return nil
		}
		return navigateToPathAsPreview(m, path)
	case "cn":
		path, ok := m.QFix.Next()
		if !ok {
			m.QFix.Cdo = ""
			return printError(m, "no more items")
		}
		return navigateToPathAsPreview(m, path)
	case "cN":
		path, ok := m.QFix.Previous()
		if !ok {
			return nil
		}
		return navigateToPathAsPreview(m, path)
	case "copen":
		return printInfo(m, qfixLines(m)...)

	case "reg":
		return printInfo(m, registerLines(m)...)
	}
	return printError(m, "not a command: "+name)
}

// cdoStep runs the pending :cdo command once the current quickfix entry is
// selected, then advances to the next entry.
func cdoStep(m *model.Model) []Action {
	if m.QFix.Cdo == "" {
		return nil
	}
	entry, ok := m.QFix.Current()
	if !ok {
		m.QFix.Cdo = ""
		return nil
	}
	if selected, ok := m.Current.SelectedPath(); !ok || selected != entry {
		return nil
	}
	return []Action{EmitMessages{Messages: []event.Message{
		event.ExecuteCommandString{Command: m.QFix.Cdo},
		event.ExecuteCommandString{Command: "cn"},
	}}}
}

func reloadCurrent(m *model.Model) []Action {
	d := &m.Current
	if d.Path == "" {
		return nil
	}
	d.Selection = d.PendingSelection()
	d.State = model.Loading
	d.Buffer.SetContent(slotMode(m, d), nil)
	return []Action{Load{Path: d.Path, Kind: model.KindDirectory, Selection: d.Selection}}
}

func children(m *model.Model) []string {
	var out []string
	for _, l := range m.Current.Buffer.Lines {
		if l.Content == "" {
			continue
		}
		out = append(out, filepath.Join(m.Current.Path, model.EntryName(l.Content)))
	}
	return out
}

func markLines(m *model.Model) []string {
	names := m.Marks.Names()
	if len(names) == 0 {
		return []string{"no marks set"}
	}
	lines := []string{":marks"}
	for _, r := range names {
		p, _ := m.Marks.Get(r)
		lines = append(lines, fmt.Sprintf("%c  %s", r, p))
	}
	return lines
}

func qfixLines(m *model.Model) []string {
	if len(m.QFix.Entries) == 0 {
		return []string{"quickfix list is empty"}
	}
	lines := []string{":copen"}
	for i, p := range m.QFix.Entries {
		cursor := " "
		if i == m.QFix.Index {
			cursor = ">"
		}
		lines = append(lines, fmt.Sprintf("%s%3d  %s", cursor, i+1, p))
	}
	return lines
}
