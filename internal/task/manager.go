package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc/pool"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/store"
)

// Options configure a Manager.
type Options struct {
	// Register is where archives are written.
	Register register.Dirs
	// History is the store compacted and appended to by history tasks.
	History store.History
	// Buffer is the capacity of the message channel.
	Buffer int
}

type handle struct {
	instance uint64
	cancel   context.CancelFunc
}

// Manager runs tasks on a goroutine pool. A task whose ID equals that of a
// running task cancels the running one before it starts.
type Manager struct {
	root context.Context
	opts Options
	out  chan []event.Message
	pool *pool.ErrorPool

	mu      sync.Mutex
	running map[string]handle
	seq     atomic.Uint64
}

// NewManager returns a manager whose tasks are all children of ctx.
func NewManager(ctx context.Context, opts Options) *Manager {
	if opts.Buffer <= 0 {
		opts.Buffer = 64
	}
	return &Manager{
		root:    ctx,
		opts:    opts,
		out:     make(chan []event.Message, opts.Buffer),
		pool:    pool.New().WithErrors(),
		running: map[string]handle{},
	}
}

// Messages is read by the task listener of the router.
func (m *Manager) Messages() <-chan []event.Message { return m.out }

// Run starts t and returns immediately.
func (m *Manager) Run(t Task) {
	instance := m.seq.Add(1)
	id := t.ID()
	if id == "" {
		id = fmt.Sprintf("anonymous(%d)", instance)
	}

	ctx, cancel := context.WithCancel(m.root)
	m.mu.Lock()
	if prev, ok := m.running[id]; ok {
		log.Debugf("task %s superseded", id)
		prev.cancel()
	}
	m.running[id] = handle{instance: instance, cancel: cancel}
	m.mu.Unlock()

	m.pool.Go(func() error {
		defer m.release(id, instance, cancel)

		m.send(ctx, event.TaskStarted{ID: id, Instance: instance, Cancel: cancel})
		err := m.execute(ctx, t)
		m.send(m.root, event.TaskEnded{ID: id, Instance: instance})

		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		log.Errorf("task %s failed: %v", id, err)
		return err
	})
}

// Cancel stops the task with id if it is running.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.running[id]
	if ok {
		h.cancel()
	}
	return ok
}

// Running returns the number of registered tasks.
func (m *Manager) Running() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.running)
}

// Finishing waits for every task and returns their failures as one
// AggregateError. Cancelled tasks are not failures. The manager cannot run
// tasks afterwards.
func (m *Manager) Finishing() error {
	err := m.pool.Wait()
	if err == nil {
		return nil
	}
	var errs []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	} else {
		errs = []error{err}
	}
	return &AggregateError{Errors: errs}
}

func (m *Manager) release(id string, instance uint64, cancel context.CancelFunc) {
	m.mu.Lock()
	if h, ok := m.running[id]; ok && h.instance == instance {
		delete(m.running, id)
	}
	m.mu.Unlock()
	cancel()
}

// send delivers msgs unless ctx is done first.
func (m *Manager) send(ctx context.Context, msgs ...event.Message) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case m.out <- msgs:
		return true
	case <-ctx.Done():
		return false
	}
}

func (m *Manager) execute(ctx context.Context, t Task) error {
	switch t := t.(type) {
	case AddPath:
		return addPath(t.Path)
	case DeletePath:
		return deletePath(t.Path)
	case RenamePath:
		if t.Replaced != nil {
			if err := register.Trash(ctx, m.opts.Register, *t.Replaced); err != nil {
				return fileOp("trash", t.Replaced.Target, err)
			}
		}
		return renamePath(t.Old, t.New)
	case EnumerateDirectory:
		err := enumerate(ctx, t.Path, t.Selection, func(msgs ...event.Message) bool {
			return m.send(ctx, msgs...)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			m.send(ctx, event.LoadFailed{Path: t.Path})
		}
		return err
	case LoadPreview:
		lines, ok, err := loadPreview(ctx, t.Path)
		if err != nil {
			m.send(ctx, event.LoadFailed{Path: t.Path})
			return err
		}
		if ok {
			m.send(ctx, event.PreviewLoaded{Path: t.Path, Lines: lines})
		}
		return nil
	case TrashPath:
		return fileOp("trash", t.Entry.Target, register.Trash(ctx, m.opts.Register, t.Entry))
	case Compress:
		return fileOp("compress", t.Entry.Target, register.Compress(ctx, m.opts.Register, t.Entry))
	case Restore:
		return fileOp("restore", t.Entry.Target, register.Restore(ctx, t.Entry, t.Dir))
	case DeleteRegisterEntry:
		return fileOp("delete", t.Entry.Cache, register.Delete(t.Entry))
	case OptimizeHistory:
		if err := m.opts.History.Optimize(ctx); err != nil {
			log.Warnf("optimize history: %v", err)
		}
		return nil
	case SaveHistory:
		if err := m.opts.History.Save(ctx, t.Entries); err != nil {
			log.Warnf("save history: %v", err)
		}
		return nil
	case EmitMessages:
		m.send(ctx, t.Messages...)
		return nil
	default:
		return fmt.Errorf("unknown task %T", t)
	}
}
