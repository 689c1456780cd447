package app

import (
	"os"
	"path/filepath"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// resident is content drained out of the slots, keyed by path, so that a
// navigation can move it into its new slot instead of reading it again.
type resident map[string]residentContent

type residentContent struct {
	state model.State
	lines []buffer.Line
}

func drain(m *model.Model) resident {
	r := resident{}
	for _, d := range m.Slots() {
		if d.Path == "" || d.Kind != model.KindDirectory || d.State == model.Error {
			continue
		}
		if _, ok := r[d.Path]; ok {
			continue
		}
		r[d.Path] = residentContent{state: d.State, lines: d.Take()}
	}
	return r
}

// assign binds d to path, reusing resident content when possible and
// otherwise requesting a load.
func assign(m *model.Model, d *model.DirectoryBuffer, path string, kind model.Kind, selection string, r resident) []Action {
	mode := slotMode(m, d)
	d.Path = path
	d.Kind = kind
	d.Selection = selection

	if c, ok := r[path]; ok && kind == model.KindDirectory {
		delete(r, path)
		d.State = c.state
		d.Buffer.SetContent(mode, c.lines)
		d.Buffer.ResetCursor(mode)
		if selection != "" {
			selectName(&d.Buffer, mode, selection)
		}
		if m.Search.Term != "" {
			d.Buffer.SetSearch(m.Search.Term)
		}
		return nil
	}

	d.State = model.Loading
	d.Buffer.SetContent(mode, nil)
	d.Buffer.ResetCursor(mode)
	return []Action{Load{Path: path, Kind: kind, Selection: selection}}
}

// navigateTo makes dir the current directory with selection under the
// cursor; an empty selection falls back to the history.
func navigateTo(m *model.Model, dir, selection string) []Action {
	dir = filepath.Clean(dir)
	from := m.Current.Path
	actions := leaveEditing(m)

	if sel, ok := m.Current.SelectedPath(); ok {
		m.History.Add(sel)
	}
	if selection == "" {
		selection, _ = m.History.Selection(dir)
	}

	r := drain(m)
	actions = append(actions, assign(m, &m.Current, dir, model.KindDirectory, selection, r)...)

	if parent := filepath.Dir(dir); parent != dir {
		actions = append(actions, assign(m, &m.Parent, parent, model.KindDirectory, filepath.Base(dir), r)...)
		m.Parent.Buffer.MoveViewPort(buffer.Navigation, buffer.CenterOnCursor)
	} else {
		m.Parent.Clear(buffer.Navigation)
	}

	m.Preview.Clear(buffer.Navigation)
	actions = append(actions, updatePreview(m, r)...)

	if sel, ok := m.Current.SelectedPath(); ok {
		m.History.Add(sel)
	} else {
		m.History.Add(dir)
	}
	if m.Current.State == model.Ready {
		actions = append(actions, cdoStep(m)...)
	}
	if from != "" && from != dir {
		actions = append(actions, flushHistory(m)...)
	}
	return actions
}

// flushHistory writes the selections recorded since the last flush in the
// background. Whatever is still pending at exit is saved by Persistence.
func flushHistory(m *model.Model) []Action {
	pending := m.History.Pending()
	if len(pending) == 0 {
		return nil
	}
	m.History.MarkSaved()
	return []Action{RunTask{Task: task.SaveHistory{Entries: pending}}}
}

// updatePreview points the preview at the selection of the current
// directory. Nothing changes while the current directory is still loading.
func updatePreview(m *model.Model, r resident) []Action {
	if m.Current.State == model.Loading && r == nil {
		return nil
	}
	if m.Mode != buffer.Navigation && m.Mode != buffer.Command {
		return nil
	}

	target, ok := m.Current.SelectedPath()
	if !ok {
		m.Preview.Clear(buffer.Navigation)
		return nil
	}
	if target == m.Preview.Path {
		return nil
	}

	kind := model.KindFile
	if model.IsDir(target) {
		kind = model.KindDirectory
	}
	selection, _ := m.History.Selection(target)
	return assign(m, &m.Preview, target, kind, selection, r)
}

func navigateToParent(m *model.Model) []Action {
	dir := m.Current.Path
	parent := filepath.Dir(dir)
	if dir == "" || parent == dir {
		return nil
	}
	return navigateTo(m, parent, filepath.Base(dir))
}

func navigateToSelected(m *model.Model) []Action {
	if m.Mode != buffer.Navigation {
		return nil
	}
	target, ok := m.Current.SelectedPath()
	if !ok || !model.IsDir(target) {
		return nil
	}
	return navigateTo(m, target, "")
}

// navigateToPath opens a directory, or the directory of a file with the
// file selected.
func navigateToPath(m *model.Model, path string) []Action {
	path = absolute(m, path)
	info, err := os.Stat(path)
	if err != nil {
		return printError(m, "no such path: "+path)
	}
	if info.IsDir() {
		return navigateTo(m, path, "")
	}
	return navigateTo(m, filepath.Dir(path), filepath.Base(path))
}

// navigateToPathAsPreview opens the parent of path with path selected, so
// path itself ends up in the preview.
func navigateToPathAsPreview(m *model.Model, path string) []Action {
	path = absolute(m, path)
	if _, err := os.Lstat(path); err != nil {
		return printError(m, "no such path: "+path)
	}
	dir := filepath.Dir(path)
	if dir == path {
		return navigateTo(m, path, "")
	}
	return navigateTo(m, dir, filepath.Base(path))
}

func openSelected(m *model.Model) []Action {
	if m.Mode != buffer.Navigation {
		return nil
	}
	target, ok := m.Current.SelectedPath()
	if !ok {
		return nil
	}
	if model.IsDir(target) {
		return navigateTo(m, target, "")
	}
	m.History.Add(target)
	if m.Settings.QuitOnOpen() {
		return []Action{Quit{Mode: event.FailOnRunningTasks, Payload: target}}
	}
	return []Action{Open{Path: target}}
}

func moveCursor(m *model.Model, count int, dir buffer.CursorDirection) []Action {
	m.Focused().MoveCursor(m.Mode, count, dir)
	if m.Mode != buffer.Navigation {
		return nil
	}
	return updatePreview(m, nil)
}

func absolute(m *model.Model, path string) string {
	path = expandHome(path)
	if !filepath.IsAbs(path) && m.Current.Path != "" {
		path = filepath.Join(m.Current.Path, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

func expandHome(path string) string {
	if path != "~" && !(len(path) > 1 && path[0] == '~' && path[1] == filepath.Separator) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
