package task

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
)

func makeEntries(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(dir, fmt.Sprintf("f%05d", i))
		require.NoError(t, os.WriteFile(paths[i], nil, 0o600))
	}
	return paths
}

type collector struct {
	mu   sync.Mutex
	msgs []event.Message
	done chan struct{}
}

// drain reads the manager output until stop is called.
func drain(m *Manager) (*collector, func()) {
	c := &collector{done: make(chan struct{})}
	stop := make(chan struct{})
	go func() {
		defer close(c.done)
		for {
			select {
			case msgs := <-m.Messages():
				c.mu.Lock()
				c.msgs = append(c.msgs, msgs...)
				c.mu.Unlock()
			case <-stop:
				return
			}
		}
	}()
	return c, func() { close(stop); <-c.done }
}

func (c *collector) snapshot() []event.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]event.Message(nil), c.msgs...)
}

func countOf[T event.Message](msgs []event.Message) int {
	n := 0
	for _, m := range msgs {
		if _, ok := m.(T); ok {
			n++
		}
	}
	return n
}

func TestEnumerateBatchSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entries int
		batches []int
	}{
		{entries: 0, batches: nil},
		{entries: 99, batches: []int{99}},
		{entries: 700, batches: []int{100, 200, 400}},
		{entries: 1000, batches: []int{100, 200, 400, 300}},
		{entries: 14000, batches: []int{100, 200, 400, 800, 1600, 3200, 6400, 1300}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.entries), func(t *testing.T) {
			t.Parallel()
			dir := t.TempDir()
			want := makeEntries(t, dir, tt.entries)

			var sizes []int
			var got []string
			var finished []event.EnumerationFinished
			err := enumerate(context.Background(), dir, "sel", func(msgs ...event.Message) bool {
				for _, m := range msgs {
					switch m := m.(type) {
					case event.PathsAdded:
						sizes = append(sizes, len(m.Paths))
						got = append(got, m.Paths...)
					case event.EnumerationFinished:
						finished = append(finished, m)
					}
				}
				return true
			})
			require.NoError(t, err)

			assert.Equal(t, tt.batches, sizes)
			sort.Strings(got)
			if tt.entries == 0 {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, want, got)
			}
			assert.Equal(t, []event.EnumerationFinished{{Path: dir, Selection: "sel"}}, finished)
		})
	}
}

func TestEnumerateMissingDirectory(t *testing.T) {
	t.Parallel()

	err := enumerate(context.Background(), filepath.Join(t.TempDir(), "nope"), "", func(...event.Message) bool { return true })
	assert.ErrorIs(t, err, ErrInvalidTargetPath)
}

func TestEnumerateStopsWhenSendFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeEntries(t, dir, 250)
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := enumerate(ctx, dir, "", func(...event.Message) bool {
		calls++
		cancel()
		return false
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestManagerSupersedesEnumeration(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeEntries(t, dir, 150)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{Buffer: 1})

	// nobody reads yet, so the first run blocks on its first batch
	m.Run(EnumerateDirectory{Path: dir})
	require.Eventually(t, func() bool { return len(m.out) == 1 }, time.Second, time.Millisecond)
	m.Run(EnumerateDirectory{Path: dir, Selection: "f00003"})

	c, stop := drain(m)
	require.Eventually(t, func() bool {
		return countOf[event.TaskEnded](c.snapshot()) == 2
	}, 5*time.Second, 5*time.Millisecond)
	require.NoError(t, m.Finishing())
	stop()

	msgs := c.snapshot()
	var finished []event.EnumerationFinished
	for _, msg := range msgs {
		if f, ok := msg.(event.EnumerationFinished); ok {
			finished = append(finished, f)
		}
	}
	assert.Equal(t, []event.EnumerationFinished{{Path: dir, Selection: "f00003"}}, finished)
	assert.Equal(t, 0, m.Running())
}

func TestManagerEmptyDirectory(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{})
	c, stop := drain(m)

	dir := t.TempDir()
	m.Run(EnumerateDirectory{Path: dir})
	require.NoError(t, m.Finishing())
	require.Eventually(t, func() bool {
		return countOf[event.TaskEnded](c.snapshot()) == 1
	}, time.Second, time.Millisecond)
	stop()

	msgs := c.snapshot()
	assert.Equal(t, 0, countOf[event.PathsAdded](msgs))
	assert.Equal(t, 1, countOf[event.EnumerationFinished](msgs))
	started, ok := msgs[0].(event.TaskStarted)
	require.True(t, ok)
	assert.Equal(t, EnumerationID(dir), started.ID)
}

func TestManagerFinishingAggregatesErrors(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{})
	_, stop := drain(m)
	defer stop()

	dir := t.TempDir()
	existing := filepath.Join(dir, "exists")
	require.NoError(t, os.WriteFile(existing, nil, 0o600))

	m.Run(DeletePath{Path: filepath.Join(dir, "missing")})
	m.Run(AddPath{Path: existing})
	m.Run(AddPath{Path: filepath.Join(dir, "new", "file.txt")})

	err := m.Finishing()
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 2)
	assert.ErrorIs(t, err, ErrInvalidTargetPath)
	assert.FileExists(t, filepath.Join(dir, "new", "file.txt"))
}

func TestManagerEmitMessagesAreNeverSuperseded(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{})
	c, stop := drain(m)

	for i := 0; i < 5; i++ {
		m.Run(EmitMessages{Messages: []event.Message{event.Rerender{}}})
	}
	require.NoError(t, m.Finishing())
	require.Eventually(t, func() bool {
		return countOf[event.TaskEnded](c.snapshot()) == 5
	}, time.Second, time.Millisecond)
	stop()
	assert.Equal(t, 5, countOf[event.Rerender](c.snapshot()))
}

func TestCancelledRootDropsMessages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(ctx, Options{Buffer: 1})
	dir := t.TempDir()
	makeEntries(t, dir, 500)

	m.Run(EnumerateDirectory{Path: dir})
	cancel()
	assert.NoError(t, m.Finishing())
}

func TestFileOperations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sep := string(filepath.Separator)

	require.NoError(t, addPath(filepath.Join(dir, "a", "b")+sep))
	assert.DirExists(t, filepath.Join(dir, "a", "b"))
	assert.ErrorIs(t, addPath(filepath.Join(dir, "a")+sep), ErrInvalidTargetPath)

	require.NoError(t, addPath(filepath.Join(dir, "x", "y.txt")))
	assert.FileExists(t, filepath.Join(dir, "x", "y.txt"))

	require.NoError(t, renamePath(filepath.Join(dir, "x", "y.txt"), filepath.Join(dir, "z", "y.txt")))
	assert.FileExists(t, filepath.Join(dir, "z", "y.txt"))
	assert.ErrorIs(t, renamePath(filepath.Join(dir, "x", "y.txt"), filepath.Join(dir, "q")), ErrInvalidTargetPath)

	require.NoError(t, deletePath(filepath.Join(dir, "a")))
	assert.NoDirExists(t, filepath.Join(dir, "a"))
	assert.ErrorIs(t, deletePath(filepath.Join(dir, "a")), ErrInvalidTargetPath)
}

func TestLoadPreviewClassification(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name string, data []byte) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, data, 0o600))
		return p
	}

	text := write("a.txt", []byte("one\r\ntwo\tx\n"))
	lines, ok, err := loadPreview(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"one", "two    x"}, lines)

	bin := write("a.bin", []byte{0x7f, 'E', 'L', 'F', 0, 0, 1})
	_, ok, err = loadPreview(context.Background(), bin)
	require.NoError(t, err)
	assert.False(t, ok)

	utf16 := write("a16.txt", []byte{0xFF, 0xFE, 'h', 0, 'i', 0})
	lines, ok, err = loadPreview(context.Background(), utf16)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"hi"}, lines)

	empty := write("empty", nil)
	lines, ok, err = loadPreview(context.Background(), empty)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, lines)

	_, _, err = loadPreview(context.Background(), filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, ErrInvalidTargetPath)
}

func TestRegisterTasks(t *testing.T) {
	t.Parallel()

	dirs, err := register.Prepare(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{Register: dirs})
	_, stop := drain(m)
	defer stop()

	work := t.TempDir()
	target := filepath.Join(work, "doc.txt")
	require.NoError(t, os.WriteFile(target, []byte("content"), 0o600))

	reg := register.New(dirs.Register)
	entry, _ := reg.Add(target)
	m.Run(TrashPath{Entry: entry})
	require.NoError(t, m.Finishing())
	assert.NoFileExists(t, target)
	assert.FileExists(t, entry.Cache)
}

func TestRenameArchivesReplacedTarget(t *testing.T) {
	t.Parallel()

	dirs, err := register.Prepare(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := NewManager(ctx, Options{Register: dirs})
	_, stop := drain(m)
	defer stop()

	work := t.TempDir()
	from := filepath.Join(work, "a.txt")
	to := filepath.Join(work, "b.txt")
	require.NoError(t, os.WriteFile(from, []byte("new"), 0o600))
	require.NoError(t, os.WriteFile(to, []byte("old"), 0o600))

	reg := register.New(dirs.Register)
	entry, _ := reg.Add(to)
	m.Run(RenamePath{Old: from, New: to, Replaced: &entry})
	require.NoError(t, m.Finishing())

	assert.NoFileExists(t, from)
	data, err := os.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.FileExists(t, entry.Cache)
}

func TestAggregateErrorMessage(t *testing.T) {
	t.Parallel()

	err := &AggregateError{Errors: []error{errors.New("a"), errors.New("b")}}
	assert.Equal(t, "2 tasks failed: a; b", err.Error())

	fe := &FileOperationError{Op: "rename", Path: "/x", Err: os.ErrPermission}
	assert.ErrorIs(t, fe, os.ErrPermission)
	assert.Equal(t, "rename /x: permission denied", fe.Error())
}
