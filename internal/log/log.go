// Package log is the process-wide debug log. The terminal belongs to the UI,
// so nothing here ever writes to stdout or stderr: output is buffered until a
// file is configured with SetFile, or discarded when none is.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"sync"
)

type sink struct {
	mu      sync.Mutex
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	global = &sink{}
	logger = stdlog.New(global, "", stdlog.LstdFlags|stdlog.Lmicroseconds)
)

// maxBuffered bounds what is kept before SetFile is called.
const maxBuffered = 1 << 20

func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}
	if s.file != nil {
		return s.file.Write(p)
	}
	if len(s.buffer)+len(p) <= maxBuffered {
		s.buffer = append(s.buffer, p...)
	}
	return len(p), nil
}

// SetFile directs output to path, flushing anything logged so far. An empty
// path discards buffered and future output.
func SetFile(path string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file != nil {
		_ = global.file.Close()
		global.file = nil
	}
	if path == "" {
		global.discard = true
		global.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		global.discard = true
		global.buffer = nil
		return fmt.Errorf("open debug log: %w", err)
	}
	global.file = f
	global.discard = false
	if len(global.buffer) > 0 {
		_, _ = f.Write(global.buffer)
		global.buffer = nil
	}
	return nil
}

// Close closes the log file if one is open.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	if global.file == nil {
		return nil
	}
	err := global.file.Close()
	global.file = nil
	global.discard = true
	return err
}

func Debugf(format string, args ...any) { logger.Printf("DEBUG "+format, args...) }
func Infof(format string, args ...any)  { logger.Printf("INFO  "+format, args...) }
func Warnf(format string, args ...any)  { logger.Printf("WARN  "+format, args...) }
func Errorf(format string, args ...any) { logger.Printf("ERROR "+format, args...) }
