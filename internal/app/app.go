// Package app runs the browser. A single control loop owns the model: it
// takes envelopes from the emitter, applies them with the update step and
// executes the requested actions before and after drawing the frame.
package app

import (
	"context"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui/views"
)

// Tasks runs background work and reports back through Messages.
type Tasks interface {
	Run(t task.Task)
	Messages() <-chan []event.Message
	Finishing() error
}

// Watcher reports filesystem changes of watched directories.
type Watcher interface {
	Watch(dir string) error
	Unwatch(dir string) error
	Messages() <-chan []event.Message
}

// Resolver is the key resolver; the loop tells it about mode changes.
type Resolver interface {
	KeyResolver
	SetMode(mode buffer.Mode)
}

// Options wire an App.
type Options struct {
	Model       *model.Model
	Styles      ui.Styles
	Terminal    Terminal
	Resolver    Resolver
	Tasks       Tasks
	Watcher     Watcher
	Persistence Persistence
	// StartPath is the directory, or file, shown first.
	StartPath string
	// Clipboard replaces the system clipboard, mostly for tests.
	Clipboard func(text string) error
}

// Result is handed back to the caller once the loop ended.
type Result struct {
	// Payload is the selection to write out, empty when there is none.
	Payload string
}

// App is the control loop.
type App struct {
	model     *model.Model
	styles    ui.Styles
	term      Terminal
	resolver  Resolver
	tasks     Tasks
	watcher   Watcher
	persist   Persistence
	start     string
	clipboard func(string) error

	emitter *Emitter
}

// New creates an App from opts.
func New(opts Options) *App {
	clip := opts.Clipboard
	if clip == nil {
		clip = clipboard.WriteAll
	}
	return &App{
		model:     opts.Model,
		styles:    opts.Styles,
		term:      opts.Terminal,
		resolver:  opts.Resolver,
		tasks:     opts.Tasks,
		watcher:   opts.Watcher,
		persist:   opts.Persistence,
		start:     opts.StartPath,
		clipboard: clip,
	}
}

// Model exposes the state, for inspection after Run returned.
func (a *App) Model() *model.Model { return a.model }

// Run shows StartPath and processes envelopes until a quit action. The
// returned error aggregates the failures of tasks still running at quit.
func (a *App) Run(ctx context.Context) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.emitter = NewEmitter(a.term.Input(), a.resolver, a.watcher.Messages(), a.tasks.Messages())
	a.emitter.Start(ctx)

	initial := []Action{Resize{}}
	if dir := a.registerDir(); dir != "" {
		initial = append(initial, WatchPath{Path: dir})
	}
	initial = append(initial, UpdateEnvelope(a.model, event.Envelope{
		Messages: []event.Message{event.NavigateToPath{Path: a.start}},
		Source:   event.Task,
	})...)
	if q, ok := a.execute(initial); ok {
		return a.shutdown(ctx, cancel, q)
	}

	for {
		select {
		case <-ctx.Done():
			a.emitter.Wait()
			return Result{}, ctx.Err()
		case env := <-a.emitter.Envelopes():
			log.Debugf("envelope from %s: %d messages", env.Source, len(env.Messages))
			if q, ok := a.execute(UpdateEnvelope(a.model, env)); ok {
				return a.shutdown(ctx, cancel, q)
			}
		}
	}
}

// execute runs the preview pass, renders unless messages were emitted for
// a follow-up frame, then runs the postview pass. A quit stops the pass.
func (a *App) execute(actions []Action) (Quit, bool) {
	for _, act := range actions {
		if preview(act) {
			a.run(act)
		}
	}
	if !emits(actions) {
		a.render()
	}
	for _, act := range actions {
		if preview(act) {
			continue
		}
		if q, ok := act.(Quit); ok {
			return q, true
		}
		a.run(act)
	}
	return Quit{}, false
}

func (a *App) run(act Action) {
	switch act := act.(type) {
	case Load:
		if act.Kind == model.KindDirectory {
			a.tasks.Run(task.EnumerateDirectory{Path: act.Path, Selection: act.Selection})
		} else {
			a.tasks.Run(task.LoadPreview{Path: act.Path})
		}
	case Open:
		a.open(act.Path)
	case Resize:
		if w, h := a.term.Size(); w > 0 && h > 0 {
			a.model.Resize(w, h)
		}
	case Clipboard:
		if err := a.clipboard(act.Text); err != nil {
			log.Warnf("clipboard: %v", err)
			a.emit(event.Error("clipboard unavailable: " + err.Error()))
		}
	case RunTask:
		a.tasks.Run(act.Task)
	case EmitMessages:
		a.tasks.Run(task.EmitMessages{Messages: act.Messages})
	case ModeChanged:
		a.resolver.SetMode(act.Mode)
	case WatchPath:
		if err := a.watcher.Watch(act.Path); err != nil {
			log.Warnf("watch %s: %v", act.Path, err)
		}
	case UnwatchPath:
		if act.Path == a.registerDir() {
			return
		}
		if err := a.watcher.Unwatch(act.Path); err != nil {
			log.Warnf("unwatch %s: %v", act.Path, err)
		}
		a.model.Tasks.Cancel(task.EnumerationID(act.Path))
	}
}

func (a *App) emit(msgs ...event.Message) {
	a.tasks.Run(task.EmitMessages{Messages: msgs})
}

func (a *App) render() {
	a.term.Draw(views.Frame(a.model, a.styles))
}

// open lends the terminal to the opener. Keys typed meanwhile belong to the
// child process, so the keyboard listener is suspended.
func (a *App) open(path string) {
	args := strings.Fields(a.model.Settings.OpenCommand)
	if len(args) == 0 {
		a.emit(event.Error("no open command configured"))
		return
	}
	cmd := exec.Command(args[0], append(args[1:], path)...)
	cmd.Dir = a.model.Current.Path

	a.emitter.Suspend()
	err := a.term.Exec(cmd)
	a.emitter.Resume()

	if err != nil {
		log.Errorf("open %s: %v", path, err)
		a.emit(event.Error("open failed: " + err.Error()))
	}
	a.render()
}

func (a *App) registerDir() string {
	if a.model.Register == nil {
		return ""
	}
	return a.model.Register.Dir
}

// shutdown ends the session. Force returns at once; otherwise state is
// saved and every outstanding task is awaited.
func (a *App) shutdown(ctx context.Context, cancel context.CancelFunc, q Quit) (Result, error) {
	result := Result{Payload: q.Payload}
	if q.Mode == event.Force {
		cancel()
		a.emitter.Wait()
		return result, nil
	}

	if sel, ok := a.model.Current.SelectedPath(); ok {
		a.model.History.Add(sel)
	}
	a.persist.Save(ctx, a.model)

	cancel()
	a.emitter.Wait()

	// running tasks still send; keep their channel drained until they end
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case _, ok := <-a.tasks.Messages():
				if !ok {
					return
				}
			}
		}
	}()
	err := a.tasks.Finishing()
	close(done)
	return result, err
}
