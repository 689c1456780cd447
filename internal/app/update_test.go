package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// testTree creates root/{logs/app.log, b.txt} and returns root.
func testTree(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "logs"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("hello\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "logs", "app.log"), []byte("started\n"), 0o644))
	return root
}

func newTestModel(t *testing.T) *model.Model {
	t.Helper()
	m := model.New(model.Settings{
		OpenCommand:       "true",
		SignColumnWidth:   2,
		ShowMarkSigns:     true,
		ShowQuickFixSigns: true,
	}, register.New(t.TempDir()))
	m.Resize(100, 30)
	return m
}

func apply(m *model.Model, msgs ...event.Message) []Action {
	return UpdateEnvelope(m, event.Envelope{Messages: msgs, Source: event.Task})
}

// enumerate plays the messages an enumeration of dir would send.
func enumerate(t *testing.T, m *model.Model, dir string) []Action {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var paths []string
	for _, e := range entries {
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	actions := apply(m, event.PathsAdded{Paths: paths})
	return append(actions, apply(m, event.EnumerationFinished{Path: dir})...)
}

// browse navigates to root and completes the scan of root.
func browse(t *testing.T, m *model.Model, root string) {
	t.Helper()
	apply(m, event.NavigateToPath{Path: root})
	enumerate(t, m, root)
}

func loads(actions []Action) []Load {
	var out []Load
	for _, a := range actions {
		if l, ok := a.(Load); ok {
			out = append(out, l)
		}
	}
	return out
}

func tasksOf(actions []Action) []task.Task {
	var out []task.Task
	for _, a := range actions {
		if r, ok := a.(RunTask); ok {
			out = append(out, r.Task)
		}
	}
	return out
}

func printed(m *model.Model) string {
	if len(m.Print) == 0 {
		return ""
	}
	return m.Print[0].Content
}

func TestNavigateToPathLoadsSlots(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)

	actions := apply(m, event.NavigateToPath{Path: root})

	assert.Equal(t, root, m.Current.Path)
	assert.Equal(t, model.Loading, m.Current.State)
	assert.Equal(t, filepath.Dir(root), m.Parent.Path)
	assert.Empty(t, m.Preview.Path)
	assert.Contains(t, actions, Load{Path: root, Kind: model.KindDirectory})
	assert.Contains(t, actions, Load{Path: filepath.Dir(root), Kind: model.KindDirectory, Selection: filepath.Base(root)})
	assert.Contains(t, actions, WatchPath{Path: root})
	assert.Contains(t, actions, WatchPath{Path: filepath.Dir(root)})
}

func TestNavigateToFileSelectsIt(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)

	actions := apply(m, event.NavigateToPath{Path: filepath.Join(root, "b.txt")})

	assert.Equal(t, root, m.Current.Path)
	assert.Contains(t, actions, Load{Path: root, Kind: model.KindDirectory, Selection: "b.txt"})
}

func TestNavigateToMissingPathPrintsError(t *testing.T) {
	m := newTestModel(t)
	actions := apply(m, event.NavigateToPath{Path: "/does/not/exist"})
	assert.Empty(t, actions)
	assert.Equal(t, "no such path: /does/not/exist", printed(m))
	assert.Empty(t, m.Current.Path)
}

func TestEnumerationFinishedSelectsFirstAndPreviews(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	apply(m, event.NavigateToPath{Path: root})

	actions := enumerate(t, m, root)

	assert.Equal(t, model.Ready, m.Current.State)
	assert.Equal(t, []string{"logs/", "b.txt"}, m.Current.Buffer.Contents())
	assert.Equal(t, "logs", selectedName(&m.Current.Buffer))
	logs := filepath.Join(root, "logs")
	assert.Equal(t, logs, m.Preview.Path)
	assert.Contains(t, actions, Load{Path: logs, Kind: model.KindDirectory})
	assert.Contains(t, actions, WatchPath{Path: logs})
}

func TestEnumerationFinishedRestoresHistorySelection(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	m.History.Add(filepath.Join(root, "b.txt"))

	browse(t, m, root)

	assert.Equal(t, "b.txt", selectedName(&m.Current.Buffer))
	assert.Equal(t, filepath.Join(root, "b.txt"), m.Preview.Path)
	assert.Equal(t, model.KindFile, m.Preview.Kind)
}

func TestEnumerationOfEmptyDirectoryHasNoCursor(t *testing.T) {
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	m := newTestModel(t)

	apply(m, event.NavigateToPath{Path: dir})
	enumerate(t, m, dir)

	assert.Empty(t, m.Current.Buffer.Lines)
	assert.Nil(t, m.Current.Buffer.Cursor)
	assert.Empty(t, m.Preview.Path)
}

func TestNavigationReusesResidentContent(t *testing.T) {
	root := testTree(t)
	logs := filepath.Join(root, "logs")
	m := newTestModel(t)
	browse(t, m, root)
	enumerate(t, m, logs)

	actions := apply(m, event.NavigateToSelected{})

	assert.Equal(t, logs, m.Current.Path)
	assert.Equal(t, model.Ready, m.Current.State)
	assert.Equal(t, []string{"app.log"}, m.Current.Buffer.Contents())
	assert.Equal(t, root, m.Parent.Path)
	assert.Equal(t, "logs", selectedName(&m.Parent.Buffer))
	for _, l := range loads(actions) {
		assert.NotEqual(t, root, l.Path)
		assert.NotEqual(t, logs, l.Path)
	}
	appLog := filepath.Join(logs, "app.log")
	assert.Contains(t, actions, Load{Path: appLog, Kind: model.KindFile})
	assert.Contains(t, actions, UnwatchPath{Path: filepath.Dir(root)})

	apply(m, event.PreviewLoaded{Path: appLog, Lines: []string{"a\tb"}})
	assert.Equal(t, []string{"a    b"}, m.Preview.Buffer.Contents())

	actions = apply(m, event.NavigateToParent{})

	assert.Equal(t, root, m.Current.Path)
	assert.Equal(t, "logs", selectedName(&m.Current.Buffer))
	assert.Equal(t, logs, m.Preview.Path)
	assert.Equal(t, []string{"app.log"}, m.Preview.Buffer.Contents())
	assert.Equal(t, []Load{{Path: filepath.Dir(root), Kind: model.KindDirectory, Selection: filepath.Base(root)}}, loads(actions))
}

func TestNavigateToSelectedIgnoresFiles(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	assert.Empty(t, apply(m, event.NavigateToSelected{}))
	assert.Equal(t, root, m.Current.Path)
}

func TestPreviewLoadedForStalePathIsDropped(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m, event.PreviewLoaded{Path: filepath.Join(root, "b.txt"), Lines: []string{"hello"}})
	assert.Empty(t, m.Preview.Buffer.Lines)
}

func TestPathsAddedKeepsSelection(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m, event.PathsAdded{Paths: []string{filepath.Join(root, "a.txt")}})

	assert.Equal(t, []string{"logs/", "a.txt", "b.txt"}, m.Current.Buffer.Contents())
	assert.Equal(t, "logs", selectedName(&m.Current.Buffer))
	assert.False(t, m.Current.Buffer.Undo.Dirty())
}

func TestPathRemovedClampsCursor(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	actions := apply(m, event.PathRemoved{Path: filepath.Join(root, "b.txt")})

	assert.Equal(t, []string{"logs/"}, m.Current.Buffer.Contents())
	assert.Equal(t, "logs", selectedName(&m.Current.Buffer))
	assert.Contains(t, actions, Load{Path: filepath.Join(root, "logs"), Kind: model.KindDirectory})
}

func TestLoadFailedMarksCurrent(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	apply(m, event.NavigateToPath{Path: root})

	apply(m, event.LoadFailed{Path: root})

	assert.Equal(t, model.Error, m.Current.State)
	assert.Equal(t, "failed to load "+root, printed(m))
}

func TestRescanReloadsResidentDirectories(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	actions := apply(m, event.Rescan{})

	assert.ElementsMatch(t, []Load{
		{Path: filepath.Dir(root), Kind: model.KindDirectory, Selection: filepath.Base(root)},
		{Path: root, Kind: model.KindDirectory, Selection: "logs"},
		{Path: filepath.Join(root, "logs"), Kind: model.KindDirectory},
	}, loads(actions))
	assert.Equal(t, model.Loading, m.Current.State)
}

func TestRescanKeepsSelectionOfRunningLoad(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	apply(m, event.NavigateToPath{Path: filepath.Join(root, "b.txt")})

	actions := apply(m, event.Rescan{})

	assert.Contains(t, loads(actions), Load{Path: root, Kind: model.KindDirectory, Selection: "b.txt"})
	enumerate(t, m, root)
	assert.Equal(t, "b.txt", selectedName(&m.Current.Buffer))
	assert.Empty(t, m.Current.Selection)
}

func TestUserKeyClearsPrint(t *testing.T) {
	m := newTestModel(t)
	apply(m, event.Error("boom"))
	require.Equal(t, "boom", printed(m))

	UpdateEnvelope(m, event.Envelope{
		Messages: []event.Message{event.MoveCursor{Count: 1, Direction: buffer.Down}},
		Sequence: "3j",
		Source:   event.User,
	})

	assert.Empty(t, m.Print)
	assert.Equal(t, "3j", m.KeySequence)
}

func TestResizeKeepsPrint(t *testing.T) {
	m := newTestModel(t)
	apply(m, event.Error("boom"))

	actions := UpdateEnvelope(m, event.Envelope{
		Messages: []event.Message{event.Resize{Width: 90, Height: 20}},
		Source:   event.User,
	})

	assert.Equal(t, []Action{Resize{}}, actions)
	assert.Equal(t, "boom", printed(m))
}

func TestOpenSelected(t *testing.T) {
	root := testTree(t)
	b := filepath.Join(root, "b.txt")

	t.Run("opens file", func(t *testing.T) {
		m := newTestModel(t)
		browse(t, m, root)
		apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})
		assert.Equal(t, []Action{Open{Path: b}}, apply(m, event.OpenSelected{}))
	})

	t.Run("quits with selection", func(t *testing.T) {
		m := newTestModel(t)
		m.Settings.SelectionToStdout = true
		browse(t, m, root)
		apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})
		assert.Equal(t, []Action{Quit{Mode: event.FailOnRunningTasks, Payload: b}}, apply(m, event.OpenSelected{}))
	})

	t.Run("enters directory", func(t *testing.T) {
		m := newTestModel(t)
		browse(t, m, root)
		apply(m, event.OpenSelected{})
		assert.Equal(t, filepath.Join(root, "logs"), m.Current.Path)
	})
}

func TestYankPathCopiesToClipboard(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	assert.Equal(t, []Action{Clipboard{Text: filepath.Join(root, "logs")}}, apply(m, event.YankPath{}))
}

// ── Editing ─────────────────────────────────────────────────────────────────

func mod(kind buffer.ModificationKind, text string) event.Modification {
	return event.Modification{Count: 1, Modification: buffer.TextModification{Kind: kind, Text: text}}
}

func TestRenameByEditingLine(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	apply(m,
		event.ChangeMode{To: buffer.Normal},
		event.ChangeMode{To: buffer.Insert},
		mod(buffer.InsertText, "x"),
		event.ChangeMode{To: buffer.Normal},
	)
	assert.Empty(t, m.Preview.Path)
	actions := apply(m, event.ChangeMode{To: buffer.Navigation})

	assert.Equal(t, []task.Task{task.RenamePath{Old: filepath.Join(root, "b.txt"), New: filepath.Join(root, "xb.txt")}}, tasksOf(actions))
	assert.Contains(t, actions, ModeChanged{Mode: buffer.Navigation})
	assert.Equal(t, "xb.txt", selectedName(&m.Current.Buffer))
	assert.False(t, m.Current.Buffer.Undo.Dirty())
}

func TestRenameOntoExistingEntryArchivesIt(t *testing.T) {
	root := testTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "xb.txt"), nil, 0o644))
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	apply(m,
		event.ChangeMode{To: buffer.Normal},
		event.ChangeMode{To: buffer.Insert},
		mod(buffer.InsertText, "x"),
		event.ChangeMode{To: buffer.Normal},
	)
	tasks := tasksOf(apply(m, event.ChangeMode{To: buffer.Navigation}))

	require.Len(t, tasks, 1)
	rename, ok := tasks[0].(task.RenamePath)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "b.txt"), rename.Old)
	assert.Equal(t, filepath.Join(root, "xb.txt"), rename.New)
	require.NotNil(t, rename.Replaced)
	assert.Equal(t, filepath.Join(root, "xb.txt"), rename.Replaced.Target)
	assert.Equal(t, 1, m.Register.Len())
}

func TestAddByNewLine(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m,
		event.ChangeMode{To: buffer.Normal},
		event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertNewLine, Direction: buffer.Under}},
		event.ChangeMode{To: buffer.Insert},
		mod(buffer.InsertText, "docs/"),
		event.ChangeMode{To: buffer.Normal},
		event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertNewLine, Direction: buffer.Under}},
	)
	actions := apply(m, event.ChangeMode{To: buffer.Navigation})

	assert.Equal(t, []task.Task{task.AddPath{Path: filepath.Join(root, "docs") + string(filepath.Separator)}}, tasksOf(actions))
	assert.NotContains(t, m.Current.Buffer.Contents(), "")
	assert.Equal(t, []string{"docs/", "logs/", "b.txt"}, m.Current.Buffer.Contents())
	assert.True(t, m.Current.Buffer.Lines[0].Directory)
}

func TestDeleteLineTrashesIntoRegister(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	apply(m, event.ChangeMode{To: buffer.Normal}, mod(buffer.DeleteLineOnCursor, ""))
	actions := apply(m, event.ChangeMode{To: buffer.Navigation})

	tasks := tasksOf(actions)
	require.Len(t, tasks, 1)
	trashed, ok := tasks[0].(task.TrashPath)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "b.txt"), trashed.Entry.Target)
	assert.Equal(t, register.Processing, trashed.Entry.Status)
	assert.Equal(t, 1, m.Register.Len())

	apply(m, event.PasteRegister{})
	assert.Equal(t, "register entry is still processing: b.txt", printed(m))

	apply(m, event.PathsAdded{Paths: []string{trashed.Entry.Cache}})
	actions = apply(m, event.PasteRegister{})

	tasks = tasksOf(actions)
	require.Len(t, tasks, 1)
	restore, ok := tasks[0].(task.Restore)
	require.True(t, ok)
	assert.Equal(t, trashed.Entry.ID, restore.Entry.ID)
	assert.Equal(t, root, restore.Dir)
}

func TestPasteEmptyRegister(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m, event.PasteRegister{Register: "3"})
	assert.Equal(t, "register is empty: 3", printed(m))
}

func TestYankSelectedCompresses(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	tasks := tasksOf(apply(m, event.YankSelected{}))

	require.Len(t, tasks, 1)
	c, ok := tasks[0].(task.Compress)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "logs"), c.Entry.Target)
}

func TestUndoRestoresLine(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m, event.ChangeMode{To: buffer.Normal}, mod(buffer.DeleteLineOnCursor, ""), event.Undo{})
	actions := apply(m, event.ChangeMode{To: buffer.Navigation})

	assert.Empty(t, tasksOf(actions))
	assert.Equal(t, []string{"logs/", "b.txt"}, m.Current.Buffer.Contents())
}

func TestUndoKeepsDirectoryAndSigns(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.SetMark{Mark: 'a'})

	apply(m, event.ChangeMode{To: buffer.Normal}, mod(buffer.DeleteLineOnCursor, ""))
	require.Equal(t, []string{"b.txt"}, m.Current.Buffer.Contents())

	apply(m, event.Undo{})
	logs := m.Current.Buffer.Lines[0]
	assert.Equal(t, "logs/", logs.Content)
	assert.True(t, logs.Directory)
	assert.True(t, logs.HasSign(model.SignMark))

	apply(m, event.Redo{}, event.Undo{})
	assert.True(t, m.Current.Buffer.Lines[0].Directory)
}

func TestNavigationPersistsPendingEdits(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})
	apply(m, event.ChangeMode{To: buffer.Normal}, mod(buffer.DeleteLineOnCursor, ""))

	actions := apply(m, event.NavigateToParent{})

	assert.Equal(t, buffer.Navigation, m.Mode)
	tasks := tasksOf(actions)
	require.Len(t, tasks, 2)
	assert.IsType(t, task.TrashPath{}, tasks[0])
	assert.IsType(t, task.SaveHistory{}, tasks[1])
	assert.Equal(t, filepath.Dir(root), m.Current.Path)
}

func TestLeavingDirectoryFlushesHistory(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down})

	tasks := tasksOf(apply(m, event.NavigateToParent{}))

	require.Len(t, tasks, 1)
	saved, ok := tasks[0].(task.SaveHistory)
	require.True(t, ok)
	selections := map[string]string{}
	for _, e := range saved.Entries {
		selections[e.Path] = e.Selection
	}
	assert.Equal(t, "b.txt", selections[root])
	assert.Empty(t, m.History.Pending())

	assert.Empty(t, tasksOf(apply(m, event.NavigateToPath{Path: filepath.Dir(root)})))
}

// ── Command line ────────────────────────────────────────────────────────────

func typeCommand(m *model.Model, kind event.CommandKind, text string) []Action {
	return apply(m,
		event.OpenCommandLine{Kind: kind},
		mod(buffer.InsertText, text),
		event.ExecuteCommand{},
	)
}

func TestCommandLineRunsCommand(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	actions := typeCommand(m, event.CommandColon, "touch c.txt")

	assert.Equal(t, buffer.Navigation, m.Mode)
	assert.Empty(t, m.CommandLine.Text())
	assert.Contains(t, actions, ModeChanged{Mode: buffer.Navigation})
	assert.Equal(t, []task.Task{task.AddPath{Path: filepath.Join(root, "c.txt")}}, tasksOf(actions))
}

func TestCommands(t *testing.T) {
	root := testTree(t)

	tests := []struct {
		name    string
		command string
		want    []Action
		print   string
	}{
		{name: "quit", command: "q", want: []Action{Quit{Mode: event.FailOnRunningTasks}}},
		{name: "force quit", command: "q!", want: []Action{Quit{Mode: event.Force}}},
		{name: "mkdir", command: "mkdir docs", want: []Action{RunTask{Task: task.AddPath{Path: filepath.Join(root, "docs") + string(filepath.Separator)}}}},
		{name: "mkdir without name", command: "mkdir", print: "mkdir needs a name"},
		{name: "optimize history", command: "histopt", want: []Action{RunTask{Task: task.OptimizeHistory{}}}},
		{name: "unknown", command: "frob", print: "not a command: frob"},
		{name: "empty register", command: "reg", print: "register is empty"},
		{name: "no marks", command: "marks", print: "no marks set"},
		{name: "empty quickfix", command: "copen", print: "quickfix list is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			browse(t, m, root)

			actions := apply(m, event.ExecuteCommandString{Command: tt.command})

			assert.Equal(t, tt.want, actions)
			assert.Equal(t, tt.print, printed(m))
		})
	}
}

func TestReloadCommand(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	actions := apply(m, event.ExecuteCommandString{Command: "e!"})

	assert.Equal(t, []Action{Load{Path: root, Kind: model.KindDirectory, Selection: "logs"}}, actions)
	assert.Equal(t, model.Loading, m.Current.State)
}

func TestSearch(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	actions := typeCommand(m, event.CommandSearchForward, "b.")

	assert.Equal(t, "b.", m.Search.Term)
	assert.Equal(t, "b.txt", selectedName(&m.Current.Buffer))
	assert.Contains(t, actions, Load{Path: filepath.Join(root, "b.txt"), Kind: model.KindFile})
	require.NotNil(t, m.Current.Buffer.Lines[1].Search)

	typeCommand(m, event.CommandSearchForward, "zzz")
	assert.Equal(t, "pattern not found: zzz", printed(m))

	apply(m, event.ExecuteCommandString{Command: "noh"})
	assert.Empty(t, m.Search.Term)
	assert.Nil(t, m.Current.Buffer.Lines[1].Search)
}

func TestMarks(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.MoveCursor{Count: 1, Direction: buffer.Down}, event.SetMark{Mark: 'a'})
	assert.True(t, m.Current.Buffer.Lines[1].HasSign(model.SignMark))

	apply(m, event.NavigateToPath{Path: filepath.Join(root, "logs")})
	apply(m, event.NavigateToMark{Mark: 'a'})

	assert.Equal(t, root, m.Current.Path)
	assert.Equal(t, "b.txt", selectedName(&m.Current.Buffer))

	apply(m, event.NavigateToMark{Mark: 'z'})
	assert.Equal(t, "mark not set: z", printed(m))

	apply(m, event.ExecuteCommandString{Command: "delm a"})
	_, ok := m.Marks.Get('a')
	assert.False(t, ok)
}

func TestQuickFixCdo(t *testing.T) {
	root := testTree(t)
	logs, b := filepath.Join(root, "logs"), filepath.Join(root, "b.txt")
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.ToggleQuickFix{}, event.MoveCursor{Count: 1, Direction: buffer.Down}, event.ToggleQuickFix{})
	require.Equal(t, []string{logs, b}, m.QFix.Entries)

	actions := apply(m, event.ExecuteCommandString{Command: "cdo d!"})
	assert.Equal(t, []Action{EmitMessages{Messages: []event.Message{event.ExecuteCommandString{Command: "cfirst"}}}}, actions)

	step := []Action{EmitMessages{Messages: []event.Message{
		event.ExecuteCommandString{Command: "d!"},
		event.ExecuteCommandString{Command: "cn"},
	}}}
	actions = apply(m, event.ExecuteCommandString{Command: "cfirst"})
	assert.Equal(t, "logs", selectedName(&m.Current.Buffer))
	assert.Subset(t, actions, step)

	actions = apply(m, event.ExecuteCommandString{Command: "d!"}, event.ExecuteCommandString{Command: "cn"})
	assert.Equal(t, "b.txt", selectedName(&m.Current.Buffer))
	assert.Subset(t, actions, step)
	trashed := tasksOf(actions)
	require.Len(t, trashed, 1)
	assert.Equal(t, logs, trashed[0].(task.TrashPath).Entry.Target)

	apply(m, event.ExecuteCommandString{Command: "d!"}, event.ExecuteCommandString{Command: "cn"})
	assert.Empty(t, m.QFix.Cdo)
	assert.Equal(t, "no more items", printed(m))
	assert.Equal(t, 2, m.Register.Len())
}

func TestQuickFixListCommands(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)
	apply(m, event.ToggleQuickFix{})

	apply(m, event.ExecuteCommandString{Command: "invertcl"})
	assert.Equal(t, []string{filepath.Join(root, "b.txt")}, m.QFix.Entries)

	apply(m, event.ExecuteCommandString{Command: "copen"})
	require.Len(t, m.Print, 2)
	assert.Contains(t, m.Print[1].Content, filepath.Join(root, "b.txt"))

	apply(m, event.ExecuteCommandString{Command: "clearcl"})
	assert.Empty(t, m.QFix.Entries)
}

func TestModeChangeToCommandKeepsPreview(t *testing.T) {
	root := testTree(t)
	m := newTestModel(t)
	browse(t, m, root)

	apply(m, event.OpenCommandLine{Kind: event.CommandColon})

	assert.Equal(t, buffer.Command, m.Mode)
	assert.Equal(t, buffer.Navigation, m.CommandLine.Previous)
	assert.Equal(t, filepath.Join(root, "logs"), m.Preview.Path)
}

func TestRegisterArchiveAppearingFromOutside(t *testing.T) {
	m := newTestModel(t)
	entry, _ := register.New(m.Register.Dir).Add("/home/user/notes.txt")

	apply(m, event.PathsAdded{Paths: []string{entry.Cache}})

	got, ok := m.Register.Get("")
	require.True(t, ok)
	assert.Equal(t, register.Ready, got.Status)
	assert.Equal(t, "/home/user/notes.txt", got.Target)

	apply(m, event.PathRemoved{Path: entry.Cache})
	assert.Equal(t, 0, m.Register.Len())
}
