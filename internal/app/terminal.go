package app

import (
	"context"
	"errors"
	"os/exec"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
)

// Terminal is what the loop needs from the screen: an input feed, frame
// output and a way to lend the terminal to a child process.
type Terminal interface {
	// Input delivers tea.KeyMsg and tea.WindowSizeMsg values.
	Input() <-chan tea.Msg
	// Size returns the last known terminal size.
	Size() (width, height int)
	// Draw replaces the displayed frame.
	Draw(frame string)
	// Exec runs cmd in the foreground and returns when it exits.
	Exec(cmd *exec.Cmd) error
}

// TeaTerminal hosts a bubbletea program that only forwards input and shows
// whatever frame it was last given. State lives in the control loop.
type TeaTerminal struct {
	program *tea.Program
	input   chan tea.Msg
	done    chan struct{}
	err     error

	mu     sync.Mutex
	width  int
	height int
}

type frameMsg string

type execMsg struct {
	cmd    *exec.Cmd
	result chan<- error
}

type execDoneMsg struct {
	err    error
	result chan<- error
}

type host struct {
	t     *TeaTerminal
	ctx   context.Context
	frame string
}

func (h *host) Init() tea.Cmd { return nil }

func (h *host) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.t.mu.Lock()
		h.t.width, h.t.height = msg.Width, msg.Height
		h.t.mu.Unlock()
		h.forward(msg)
	case tea.KeyMsg:
		h.forward(msg)
	case frameMsg:
		h.frame = string(msg)
	case execMsg:
		result := msg.result
		return h, tea.ExecProcess(msg.cmd, func(err error) tea.Msg {
			return execDoneMsg{err: err, result: result}
		})
	case execDoneMsg:
		msg.result <- msg.err
	}
	return h, nil
}

// forward never blocks the bubbletea event loop, which Draw and Exec send
// through. Input arriving while the queue is full is dropped; Size still
// reports the latest dimensions.
func (h *host) forward(msg tea.Msg) {
	if h.ctx.Err() != nil {
		return
	}
	select {
	case h.t.input <- msg:
	default:
		log.Warnf("input queue full, dropped %T", msg)
	}
}

func (h *host) View() string { return h.frame }

// StartTerminal takes over the terminal in the alternate screen. The
// program stops when ctx is cancelled or Close is called.
func StartTerminal(ctx context.Context, opts ...tea.ProgramOption) *TeaTerminal {
	t := &TeaTerminal{
		input: make(chan tea.Msg, 64),
		done:  make(chan struct{}),
	}
	h := &host{t: t, ctx: ctx}
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	t.program = tea.NewProgram(h, opts...)

	go func() {
		defer close(t.done)
		_, err := t.program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			err = nil
		}
		t.err = err
	}()
	return t
}

func (t *TeaTerminal) Input() <-chan tea.Msg { return t.input }

func (t *TeaTerminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

func (t *TeaTerminal) Draw(frame string) {
	t.program.Send(frameMsg(frame))
}

func (t *TeaTerminal) Exec(cmd *exec.Cmd) error {
	result := make(chan error, 1)
	t.program.Send(execMsg{cmd: cmd, result: result})
	select {
	case err := <-result:
		return err
	case <-t.done:
		return t.err
	}
}

// Close restores the terminal and waits for the program to exit.
func (t *TeaTerminal) Close() error {
	t.program.Quit()
	<-t.done
	return t.err
}
