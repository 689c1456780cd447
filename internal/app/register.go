package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// trash moves path into the register. The oldest entry is deleted when the
// register overflows.
func trash(m *model.Model, path string) []Action {
	if m.Register == nil {
		return []Action{RunTask{Task: task.DeletePath{Path: path}}}
	}
	entry, evicted := m.Register.Add(path)
	return withEviction(RunTask{Task: task.TrashPath{Entry: entry}}, evicted)
}

// rename moves old to newPath. An existing newPath goes to the register
// before it is replaced.
func rename(m *model.Model, old, newPath string) []Action {
	t := task.RenamePath{Old: old, New: newPath}
	if m.Register == nil || old == newPath {
		return []Action{RunTask{Task: t}}
	}
	if _, err := os.Lstat(newPath); err != nil {
		return []Action{RunTask{Task: t}}
	}
	entry, evicted := m.Register.Add(newPath)
	t.Replaced = &entry
	return withEviction(RunTask{Task: t}, evicted)
}

func yankSelected(m *model.Model) []Action {
	path, ok := m.Current.SelectedPath()
	if !ok || m.Register == nil {
		return nil
	}
	entry, evicted := m.Register.Add(path)
	return withEviction(RunTask{Task: task.Compress{Entry: entry}}, evicted)
}

func withEviction(a Action, evicted *register.Entry) []Action {
	actions := []Action{a}
	if evicted != nil {
		actions = append(actions, RunTask{Task: task.DeleteRegisterEntry{Entry: *evicted}})
	}
	return actions
}

// paste restores a register entry into the current directory.
func paste(m *model.Model, name string) []Action {
	if m.Register == nil || m.Current.Path == "" {
		return nil
	}
	entry, ok := m.Register.Get(name)
	if !ok {
		return printError(m, "register is empty: "+registerName(name))
	}
	if entry.Status != register.Ready {
		return printError(m, "register entry is still processing: "+filepath.Base(entry.Target))
	}
	return []Action{RunTask{Task: task.Restore{Entry: entry, Dir: m.Current.Path}}}
}

func registerName(name string) string {
	if name == "" {
		return `"`
	}
	return name
}

// registerLines lists the register for :reg, newest first.
func registerLines(m *model.Model) []string {
	if m.Register == nil || m.Register.Len() == 0 {
		return []string{"register is empty"}
	}
	lines := []string{":reg"}
	for i, e := range m.Register.Entries() {
		lines = append(lines, fmt.Sprintf("\"%d  %-10s %-14s %s", i, e.Status, humanize.Time(e.AddedAt()), e.Target))
	}
	return lines
}
