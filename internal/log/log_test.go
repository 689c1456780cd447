package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetSink(t *testing.T) {
	t.Helper()

	global.mu.Lock()
	global.file = nil
	global.buffer = nil
	global.discard = false
	global.mu.Unlock()

	t.Cleanup(func() {
		_ = Close()
		global.mu.Lock()
		global.buffer = nil
		global.discard = false
		global.mu.Unlock()
	})
}

func TestBufferedOutputFlushedToFile(t *testing.T) {
	resetSink(t)

	Infof("before %s", "file")
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, SetFile(path))
	Errorf("after %d", 1)
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO  before file")
	assert.Contains(t, string(data), "ERROR after 1")
}

func TestEmptyPathDiscards(t *testing.T) {
	resetSink(t)

	Warnf("dropped")
	require.NoError(t, SetFile(""))
	Debugf("also dropped")

	global.mu.Lock()
	defer global.mu.Unlock()
	assert.True(t, global.discard)
	assert.Empty(t, global.buffer)
}

func TestSetFileFailureDiscards(t *testing.T) {
	resetSink(t)

	missing := filepath.Join(t.TempDir(), "missing", "debug.log")
	assert.Error(t, SetFile(missing))

	global.mu.Lock()
	defer global.mu.Unlock()
	assert.True(t, global.discard)
}
