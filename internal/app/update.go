package app

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// UpdateEnvelope applies the messages of env in order and returns the
// actions they requested. Watch changes are computed over the whole
// envelope so a directory left and re-entered keeps its watch.
func UpdateEnvelope(m *model.Model, env event.Envelope) []Action {
	if env.Source == event.User && !isResize(env.Messages) {
		m.KeySequence = env.Sequence
		if len(m.Print) > 0 {
			m.Print = nil
			m.Relayout()
		}
	}

	before := watchedDirs(m)
	var actions []Action
	for _, msg := range env.Messages {
		actions = append(actions, dispatch(m, msg)...)
	}
	return append(actions, rewatch(before, watchedDirs(m))...)
}

func isResize(msgs []event.Message) bool {
	if len(msgs) != 1 {
		return false
	}
	_, ok := msgs[0].(event.Resize)
	return ok
}

// Update applies one message. Watch actions for directories entering or
// leaving the three slots are appended automatically.
func Update(m *model.Model, msg event.Message) []Action {
	before := watchedDirs(m)
	actions := dispatch(m, msg)
	return append(actions, rewatch(before, watchedDirs(m))...)
}

func dispatch(m *model.Model, msg event.Message) []Action {
	switch msg := msg.(type) {
	case event.Quit:
		return []Action{Quit{Mode: msg.Mode}}
	case event.Resize:
		return []Action{Resize{}}
	case event.Rerender:
		return nil
	case event.TaskStarted:
		m.Tasks.Start(msg.ID, msg.Instance, msg.Cancel)
		return nil
	case event.TaskEnded:
		m.Tasks.End(msg.ID, msg.Instance)
		return nil

	case event.ChangeMode:
		return changeMode(m, msg.To)
	case event.OpenCommandLine:
		return openCommandLine(m, msg.Kind)
	case event.ExecuteCommand:
		return executeCommandLine(m)
	case event.ExecuteCommandString:
		return command(m, msg.Command)

	case event.MoveCursor:
		return moveCursor(m, msg.Count, msg.Direction)
	case event.MoveViewPort:
		m.Focused().MoveViewPort(m.Mode, msg.Direction)
		return nil
	case event.SearchNext:
		return searchNext(m, msg.Backwards)
	case event.Modification:
		return modify(m, msg.Count, msg.Modification)
	case event.Undo:
		return undo(m, false)
	case event.Redo:
		return undo(m, true)

	case event.NavigateToParent:
		return navigateToParent(m)
	case event.NavigateToSelected:
		return navigateToSelected(m)
	case event.NavigateToPath:
		return navigateToPath(m, msg.Path)
	case event.NavigateToPathAsPreview:
		return navigateToPathAsPreview(m, msg.Path)
	case event.NavigateToMark:
		path, ok := m.Marks.Get(msg.Mark)
		if !ok {
			return printError(m, "mark not set: "+string(msg.Mark))
		}
		return navigateToPathAsPreview(m, path)
	case event.OpenSelected:
		return openSelected(m)

	case event.SetMark:
		if path, ok := m.Current.SelectedPath(); ok {
			m.Marks.Set(msg.Mark, path)
			m.Redecorate()
		}
		return nil
	case event.ToggleQuickFix:
		if path, ok := m.Current.SelectedPath(); ok {
			m.QFix.Toggle(path)
			m.Redecorate()
		}
		return nil
	case event.YankSelected:
		return yankSelected(m)
	case event.YankPath:
		if path, ok := m.Current.SelectedPath(); ok {
			return []Action{Clipboard{Text: path}}
		}
		return nil
	case event.PasteRegister:
		return paste(m, msg.Register)

	case event.PathsAdded:
		return pathsAdded(m, msg.Paths)
	case event.PathRemoved:
		return pathRemoved(m, msg.Path)
	case event.EnumerationFinished:
		return enumerationFinished(m, msg.Path, msg.Selection)
	case event.PreviewLoaded:
		return previewLoaded(m, msg.Path, msg.Lines)
	case event.LoadFailed:
		return loadFailed(m, msg.Path)
	case event.Rescan:
		return rescan(m)
	case event.Print:
		m.Print = msg.Lines
		m.Relayout()
		return nil
	}
	return nil
}

func printError(m *model.Model, text string) []Action {
	m.Print = event.Error(text).Lines
	m.Relayout()
	return nil
}

func printInfo(m *model.Model, lines ...string) []Action {
	m.Print = nil
	for _, l := range lines {
		m.Print = append(m.Print, event.PrintLine{Content: l})
	}
	m.Relayout()
	return nil
}

// ── Watches ─────────────────────────────────────────────────────────────────

func watchedDirs(m *model.Model) []string {
	var dirs []string
	for _, d := range m.Slots() {
		if d.Path != "" && d.Kind == model.KindDirectory && !slices.Contains(dirs, d.Path) {
			dirs = append(dirs, d.Path)
		}
	}
	return dirs
}

func rewatch(before, after []string) []Action {
	var actions []Action
	for _, p := range before {
		if !slices.Contains(after, p) {
			actions = append(actions, UnwatchPath{Path: p})
		}
	}
	for _, p := range after {
		if !slices.Contains(before, p) {
			actions = append(actions, WatchPath{Path: p})
		}
	}
	return actions
}

// ── Data arrival ────────────────────────────────────────────────────────────

func pathsAdded(m *model.Model, paths []string) []Action {
	var actions []Action
	if m.Register != nil {
		for _, p := range paths {
			evicted, ok := m.Register.AddOrUpdate(p)
			if ok && evicted != nil {
				actions = append(actions, RunTask{Task: task.DeleteRegisterEntry{Entry: *evicted}})
			}
		}
	}

	for _, d := range m.Slots() {
		if d.Path == "" || d.Kind != model.KindDirectory {
			continue
		}
		var mine []string
		for _, p := range paths {
			if filepath.Dir(p) == d.Path {
				mine = append(mine, p)
			}
		}
		if len(mine) == 0 {
			continue
		}
		patchEntries(m, d, mine)
	}
	return append(actions, updatePreview(m, nil)...)
}

func patchEntries(m *model.Model, d *model.DirectoryBuffer, paths []string) {
	mode := slotMode(m, d)
	buf := &d.Buffer
	selected := selectedName(buf)

	index := make(map[string]int, len(buf.Lines))
	for i, l := range buf.Lines {
		index[model.EntryName(l.Content)] = i
	}
	for _, p := range paths {
		line := model.EntryLine(p, model.IsDir(p))
		m.Decorate(&line, p)
		if i, ok := index[filepath.Base(p)]; ok {
			buf.Lines[i] = line
			continue
		}
		index[filepath.Base(p)] = len(buf.Lines)
		buf.Lines = append(buf.Lines, line)
	}

	if d != &m.Current || m.Mode == buffer.Navigation {
		model.SortEntries(buf.Lines)
	}
	if m.Search.Term != "" {
		buf.SetSearch(m.Search.Term)
	}
	// appended lines are not edits; keep the undo baseline in step
	if !buf.Undo.Dirty() {
		buf.Undo.Reset(buf.Contents())
	}
	buf.Validate(mode)
	if selected != "" {
		selectName(buf, mode, selected)
	}
}

func pathRemoved(m *model.Model, path string) []Action {
	if m.Register != nil && filepath.Dir(path) == filepath.Clean(m.Register.Dir) {
		m.Register.Remove(filepath.Base(path))
	}

	dir, name := filepath.Dir(path), filepath.Base(path)
	for _, d := range m.Slots() {
		if d.Path != dir || d.Kind != model.KindDirectory {
			continue
		}
		buf := &d.Buffer
		i := slices.IndexFunc(buf.Lines, func(l buffer.Line) bool {
			return model.EntryName(l.Content) == name
		})
		if i < 0 {
			continue
		}
		buf.Lines = slices.Delete(buf.Lines, i, i+1)
		if !buf.Undo.Dirty() {
			buf.Undo.Reset(buf.Contents())
		}
		buf.Validate(slotMode(m, d))
	}
	return updatePreview(m, nil)
}

func enumerationFinished(m *model.Model, path, selection string) []Action {
	var actions []Action
	for _, d := range m.Slots() {
		if d.Path != path || d.Kind != model.KindDirectory {
			continue
		}
		mode := slotMode(m, d)
		name := selection
		if d.Selection != "" {
			name = d.Selection
		}
		d.State = model.Ready
		d.Selection = ""
		if d != &m.Current || m.Mode == buffer.Navigation {
			model.SortEntries(d.Buffer.Lines)
		}
		d.Buffer.SetContent(mode, d.Buffer.Lines)

		if d == &m.Parent {
			name = filepath.Base(m.Current.Path)
		} else if name == "" {
			name, _ = m.History.Selection(path)
		}
		d.Buffer.ResetCursor(mode)
		if name != "" {
			selectName(&d.Buffer, mode, name)
		}
		if d == &m.Parent {
			d.Buffer.MoveViewPort(mode, buffer.CenterOnCursor)
		}
	}

	if path == m.Current.Path {
		actions = append(actions, updatePreview(m, nil)...)
		actions = append(actions, cdoStep(m)...)
	}
	return actions
}

func previewLoaded(m *model.Model, path string, lines []string) []Action {
	d := &m.Preview
	if d.Path != path || d.Kind != model.KindFile {
		return nil
	}
	content := make([]buffer.Line, len(lines))
	for i, l := range lines {
		content[i] = buffer.Line{Content: strings.ReplaceAll(l, "\t", "    ")}
	}
	d.State = model.Ready
	d.Buffer.SetContent(buffer.Navigation, content)
	d.Buffer.Cursor = nil
	return nil
}

func loadFailed(m *model.Model, path string) []Action {
	for _, d := range m.Slots() {
		if d.Path != path {
			continue
		}
		d.State = model.Error
		d.Buffer.SetContent(slotMode(m, d), nil)
	}
	if path == m.Current.Path {
		return printError(m, "failed to load "+path)
	}
	return nil
}

// rescan reloads every resident directory after the watcher lost events.
func rescan(m *model.Model) []Action {
	var actions []Action
	for _, d := range m.Slots() {
		if d.Path == "" || d.Kind != model.KindDirectory {
			continue
		}
		d.Selection = d.PendingSelection()
		d.State = model.Loading
		d.Buffer.SetContent(slotMode(m, d), nil)
		actions = append(actions, Load{Path: d.Path, Kind: model.KindDirectory, Selection: d.Selection})
	}
	return actions
}

// ── Helpers ─────────────────────────────────────────────────────────────────

func slotMode(m *model.Model, d *model.DirectoryBuffer) buffer.Mode {
	if d == &m.Current && m.Mode != buffer.Command {
		return m.Mode
	}
	if d == &m.Current {
		return m.CommandLine.Previous
	}
	return buffer.Navigation
}

func selectedName(buf *buffer.TextBuffer) string {
	l, ok := buf.Selected()
	if !ok {
		return ""
	}
	return model.EntryName(l.Content)
}

// selectName puts the cursor on the entry called name, with or without the
// directory marker.
func selectName(buf *buffer.TextBuffer, mode buffer.Mode, name string) bool {
	for i, l := range buf.Lines {
		if model.EntryName(l.Content) != name {
			continue
		}
		if buf.Cursor == nil {
			buf.Validate(mode)
		}
		buf.Cursor.Vertical = i
		buf.ScrollToCursor(mode)
		return true
	}
	return false
}
