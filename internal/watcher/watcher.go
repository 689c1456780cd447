// Package watcher reports changes to the directories the browser shows.
//
// Only directories that are resident in a buffer are watched, non-recursively,
// so the number of inotify/kqueue watches stays at a handful no matter how
// large the tree is. Raw events are translated to domain messages on the
// watcher goroutine and delivered in order on Messages.
package watcher

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
)

const (
	eventBuffer = 1024
	// DefaultRescanDelay coalesces bursts of overflow errors into one rescan.
	DefaultRescanDelay = 100 * time.Millisecond
)

// Watcher wraps an fsnotify watcher and owns its output channel.
type Watcher struct {
	fs          *fsnotify.Watcher
	out         chan []event.Message
	exists      func(string) bool
	rescanDelay time.Duration

	mu      sync.Mutex
	ignored map[string]bool
}

// New creates a watcher. Call Run to start delivering messages.
func New() (*Watcher, error) {
	fs, err := fsnotify.NewBufferedWatcher(eventBuffer)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:          fs,
		out:         make(chan []event.Message, 64),
		exists:      pathExists,
		rescanDelay: DefaultRescanDelay,
		ignored:     make(map[string]bool),
	}, nil
}

// Messages returns the channel translated events are delivered on. It is
// closed when Run returns.
func (w *Watcher) Messages() <-chan []event.Message { return w.out }

// Watch starts watching the entries of dir.
func (w *Watcher) Watch(dir string) error {
	if err := w.fs.Add(dir); err != nil {
		return err
	}
	log.Debugf("watching %s", dir)
	return nil
}

// Unwatch stops watching dir. Unwatching a path that is not watched is not
// an error.
func (w *Watcher) Unwatch(dir string) error {
	err := w.fs.Remove(dir)
	if errors.Is(err, fsnotify.ErrNonExistentWatch) {
		return nil
	}
	if err == nil {
		log.Debugf("unwatched %s", dir)
	}
	return err
}

// Ignore drops every event on path.
func (w *Watcher) Ignore(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.ignored[filepath.Clean(path)] = true
}

func (w *Watcher) shouldIgnore(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ignored[filepath.Clean(path)]
}

// Run translates events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.out)

	// jitter spreads rescans of several browser instances that share a
	// directory and overflow at the same time
	jitterRange := int64(w.rescanDelay / 2)
	var timer *time.Timer

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(ev.Name) {
				continue
			}
			msgs := Translate(fromFsnotify(ev), w.exists)
			if len(msgs) == 0 {
				continue
			}
			if !w.send(ctx, msgs) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if !errors.Is(err, fsnotify.ErrEventOverflow) {
				log.Warnf("watcher: %v", err)
				continue
			}
			d := w.rescanDelay
			if jitterRange > 0 {
				d += time.Duration(rand.Int64N(jitterRange))
			}
			if timer == nil {
				timer = time.NewTimer(d)
			} else {
				timer.Reset(d)
			}
		case <-timerChan(timer):
			timer = nil
			if !w.send(ctx, Translate(RawEvent{NeedRescan: true}, w.exists)) {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) send(ctx context.Context, msgs []event.Message) bool {
	select {
	case w.out <- msgs:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close releases the OS watches. Run returns once the event channel closes.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// timerChan returns the timer's channel, or a nil channel if timer is nil.
func timerChan(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
