package register

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	}
}

func TestComposeDecomposeRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.UnixMilli(1708576379595)
	paths := []string{
		"/home/user/src/yeet/.direnv",
		"/home/U0025/sr%/y%et/%direnv",
		"/home/user/sr%/y%et/%direnv",
		"/tmp/%002F%",
		"/tmp/%0025%/x",
		"/a%/%b/%%",
		"/",
	}
	for _, p := range paths {
		t.Run(p, func(t *testing.T) {
			t.Parallel()
			id := Compose(ts, p)
			assert.NotContains(t, id[len("1708576379595%"):], "/")

			gotTS, gotPath, err := Decompose(id)
			require.NoError(t, err)
			assert.Equal(t, p, gotPath)
			assert.Equal(t, ts.UnixMilli(), gotTS.UnixMilli())
		})
	}
}

func TestComposeFormat(t *testing.T) {
	t.Parallel()

	id := Compose(time.UnixMilli(1708576379595), "/home/user/.direnv")
	assert.Equal(t, "1708576379595%%002F%home%002F%user%002F%.direnv", id)
}

func TestDecomposeRejectsMalformed(t *testing.T) {
	t.Parallel()

	for _, id := range []string{"", ".cache", "abc%path", "123", "123%%00", "123%%0025"} {
		_, _, err := Decompose(id)
		assert.Error(t, err, id)
	}
}

func TestEvictionBound(t *testing.T) {
	t.Parallel()

	r := New("/cache/register")
	r.Now = fixedClock(time.UnixMilli(1_000_000))

	var added []Entry
	var evicted []Entry
	for i := 0; i < 15; i++ {
		e, old := r.Add(fmt.Sprintf("/data/file-%02d", i))
		added = append(added, e)
		if old != nil {
			evicted = append(evicted, *old)
		}
	}

	entries := r.Entries()
	require.Len(t, entries, Capacity)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i-1].ID, entries[i].ID)
	}
	assert.Equal(t, added[:5], evicted)
	assert.Equal(t, added[14].ID, entries[0].ID)
	assert.Equal(t, added[5].ID, entries[Capacity-1].ID)
}

func TestAddKeepsIdsIncreasingWithinMillisecond(t *testing.T) {
	t.Parallel()

	r := New("/cache/register")
	stamp := time.UnixMilli(5000)
	r.Now = func() time.Time { return stamp }

	first, _ := r.Add("/x")
	second, _ := r.Add("/x")
	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, second.AddedAt().After(first.AddedAt()))
}

func TestAddOrUpdate(t *testing.T) {
	t.Parallel()

	r := New("/some/path")
	entry, _ := r.Add("/other/path/.direnv")
	assert.Equal(t, Processing, entry.Status)

	evicted, ok := r.AddOrUpdate(filepath.Join("/some/path", entry.ID))
	assert.True(t, ok)
	assert.Nil(t, evicted)
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, Ready, r.Entries()[0].Status)

	older := "1708576379595%%002F%home%002F%user%002F%.direnv"
	_, ok = r.AddOrUpdate(filepath.Join("/some/path", older))
	assert.True(t, ok)
	require.Equal(t, 2, r.Len())
	assert.Equal(t, older, r.Entries()[1].ID)
	assert.Equal(t, "/home/user/.direnv", r.Entries()[1].Target)

	_, ok = r.AddOrUpdate("/some/path/.cache")
	assert.False(t, ok)
	_, ok = r.AddOrUpdate("/elsewhere/" + older)
	assert.False(t, ok)
}

func TestGetAddressing(t *testing.T) {
	t.Parallel()

	r := New("/r")
	r.Now = fixedClock(time.UnixMilli(0))
	for i := 0; i < 3; i++ {
		r.Add(fmt.Sprintf("/f%d", i))
	}

	tests := []struct {
		name   string
		target string
		ok     bool
	}{
		{name: "", target: "/f2", ok: true},
		{name: `"`, target: "/f2", ok: true},
		{name: "0", target: "/f2", ok: true},
		{name: "2", target: "/f0", ok: true},
		{name: "3", ok: false},
		{name: "a", ok: false},
		{name: "12", ok: false},
	}
	for _, tt := range tests {
		e, ok := r.Get(tt.name)
		assert.Equal(t, tt.ok, ok, "register %q", tt.name)
		if tt.ok {
			assert.Equal(t, tt.target, e.Target, "register %q", tt.name)
		}
	}
}

func TestTrashAndRestore(t *testing.T) {
	t.Parallel()

	dirs, err := Prepare(t.TempDir())
	require.NoError(t, err)
	work := t.TempDir()

	target := filepath.Join(work, "project")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "sub", "a.txt"), []byte("hello"), 0o644))

	r := New(dirs.Register)
	entry, _ := r.Add(target)
	require.NoError(t, Trash(context.Background(), dirs, entry))

	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(entry.Cache)
	require.NoError(t, err)

	staged, err := os.ReadDir(dirs.Staging)
	require.NoError(t, err)
	assert.Empty(t, staged)
	held, err := os.ReadDir(dirs.Quarantine)
	require.NoError(t, err)
	assert.Empty(t, held)

	require.NoError(t, Restore(context.Background(), entry, work))
	data, err := os.ReadFile(filepath.Join(target, "sub", "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	_, err = os.Stat(entry.Cache)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, dirs.Cleanup())
}

func TestCompressKeepsTargetAndRestoreRefusesOverwrite(t *testing.T) {
	t.Parallel()

	dirs, err := Prepare(t.TempDir())
	require.NoError(t, err)
	work := t.TempDir()
	target := filepath.Join(work, "note.txt")
	require.NoError(t, os.WriteFile(target, []byte("x"), 0o644))

	r := New(dirs.Register)
	entry, _ := r.Add(target)
	require.NoError(t, Compress(context.Background(), dirs, entry))

	_, err = os.Stat(target)
	require.NoError(t, err)
	assert.Error(t, Restore(context.Background(), entry, work))
}

func TestScanEvictsBeyondCapacity(t *testing.T) {
	t.Parallel()

	dirs, err := Prepare(t.TempDir())
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		name := Compose(time.UnixMilli(int64(1000+i)), fmt.Sprintf("/f%d", i))
		require.NoError(t, os.WriteFile(filepath.Join(dirs.Register, name), nil, 0o600))
	}

	r := New(dirs.Register)
	evicted, err := Scan(r)
	require.NoError(t, err)
	assert.Equal(t, Capacity, r.Len())
	require.Len(t, evicted, 2)
	targets := []string{evicted[0].Target, evicted[1].Target}
	assert.ElementsMatch(t, []string{"/f0", "/f1"}, targets)
	assert.Equal(t, "/f11", r.Entries()[0].Target)

	for _, e := range evicted {
		require.NoError(t, Delete(e))
	}
	require.NoError(t, Delete(evicted[0]))
}
