package app

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sourcegraph/conc"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
)

// KeyResolver turns key presses into domain messages plus the chord echo.
type KeyResolver interface {
	Resolve(msg tea.KeyMsg) ([]event.Message, string)
}

// Emitter merges the keyboard, the filesystem watcher and the task manager
// into one ordered stream of envelopes. The keyboard listener can be
// suspended while a child process owns the terminal.
type Emitter struct {
	input    <-chan tea.Msg
	resolver KeyResolver
	watch    <-chan []event.Message
	tasks    <-chan []event.Message

	out chan event.Envelope

	root    context.Context
	wg      conc.WaitGroup
	mu      sync.Mutex
	keys    context.CancelFunc
	keysRun *conc.WaitGroup
}

// NewEmitter wires the three sources. Nil watch or task channels are
// simply never ready.
func NewEmitter(input <-chan tea.Msg, resolver KeyResolver, watch, tasks <-chan []event.Message) *Emitter {
	return &Emitter{
		input:    input,
		resolver: resolver,
		watch:    watch,
		tasks:    tasks,
		out:      make(chan event.Envelope, 256),
	}
}

// Envelopes is read by the control loop.
func (e *Emitter) Envelopes() <-chan event.Envelope { return e.out }

// Start runs the listeners until ctx is done.
func (e *Emitter) Start(ctx context.Context) {
	e.root = ctx
	e.wg.Go(func() { e.forward(ctx, e.watch, event.Filesystem) })
	e.wg.Go(func() { e.forward(ctx, e.tasks, event.Task) })
	e.Resume()
}

// Suspend stops reading the keyboard and waits for the listener to exit.
func (e *Emitter) Suspend() {
	e.mu.Lock()
	cancel, run := e.keys, e.keysRun
	e.keys, e.keysRun = nil, nil
	e.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	run.Wait()
	log.Debugf("keyboard listener suspended")
}

// Resume restarts the keyboard listener under a fresh child scope.
func (e *Emitter) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.keys != nil || e.root == nil {
		return
	}
	ctx, cancel := context.WithCancel(e.root)
	run := &conc.WaitGroup{}
	run.Go(func() { e.keyboard(ctx) })
	e.keys, e.keysRun = cancel, run
}

// Wait blocks until the listeners exited after the root context ended.
func (e *Emitter) Wait() {
	e.Suspend()
	e.wg.Wait()
}

func (e *Emitter) keyboard(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-e.input:
			if !ok {
				return
			}
			var env event.Envelope
			switch msg := msg.(type) {
			case tea.KeyMsg:
				msgs, seq := e.resolver.Resolve(msg)
				env = event.Envelope{Messages: msgs, Sequence: seq, Source: event.User}
			case tea.WindowSizeMsg:
				env = event.Envelope{
					Messages: []event.Message{event.Resize{Width: msg.Width, Height: msg.Height}},
					Source:   event.User,
				}
			default:
				continue
			}
			if !e.send(ctx, env) {
				return
			}
		}
	}
}

func (e *Emitter) forward(ctx context.Context, in <-chan []event.Message, source event.Source) {
	if in == nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case msgs, ok := <-in:
			if !ok {
				return
			}
			if !e.send(ctx, event.Envelope{Messages: msgs, Source: source}) {
				return
			}
		}
	}
}

func (e *Emitter) send(ctx context.Context, env event.Envelope) bool {
	select {
	case e.out <- env:
		return true
	case <-ctx.Done():
		return false
	}
}
