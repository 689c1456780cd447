// Package keymap turns terminal key events into domain messages. It tracks
// the editing mode, repeat counts and multi-key chords, and reports the
// pending chord so it can be echoed in the status line.
package keymap

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/config"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
)

// TextKeys are the fixed keys of the text input modes.
type TextKeys struct {
	Quit      key.Binding
	Leave     key.Binding
	Submit    key.Binding
	Backspace key.Binding
	Delete    key.Binding
	Left      key.Binding
	Right     key.Binding
	Up        key.Binding
	Down      key.Binding
	Home      key.Binding
	End       key.Binding
}

// DefaultTextKeys returns the text input keys.
func DefaultTextKeys() TextKeys {
	return TextKeys{
		Quit:      key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Leave:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Submit:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Backspace: key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "delete before")),
		Delete:    key.NewBinding(key.WithKeys("delete"), key.WithHelp("del", "delete")),
		Left:      key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:     key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:        key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:      key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Home:      key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "line start")),
		End:       key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "line end")),
	}
}

// Binding is a named action bound to key chords.
type Binding struct {
	key.Binding
	Name   string
	chords [][]string
	action action
}

// Resolver is safe for concurrent use: the keyboard listener resolves keys
// while the control loop reports mode changes.
type Resolver struct {
	text       TextKeys
	navigation []*Binding
	normal     []*Binding

	mu       sync.Mutex
	mode     buffer.Mode
	previous buffer.Mode
	count    string
	seq      []string
}

// New builds a resolver from bindings. Unknown action names are an error.
func New(bindings config.KeyBindings) (*Resolver, error) {
	r := &Resolver{text: DefaultTextKeys(), mode: buffer.Navigation}

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a, ok := actions[name]
		if !ok {
			return nil, fmt.Errorf("unknown key binding action %q", name)
		}
		keys := bindings[name]
		if len(keys) == 0 {
			continue
		}
		b := &Binding{
			Binding: key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], a.help)),
			Name:    name,
			action:  a,
		}
		for _, k := range keys {
			b.chords = append(b.chords, ParseChord(k))
		}
		if a.navigation {
			r.navigation = append(r.navigation, b)
		}
		if a.normal {
			r.normal = append(r.normal, b)
		}
	}
	return r, nil
}

var namedKeys = map[string]bool{
	"enter": true, "esc": true, "tab": true, "backspace": true, "delete": true,
	"up": true, "down": true, "left": true, "right": true,
	"home": true, "end": true, "pgup": true, "pgdown": true, "insert": true,
}

// ParseChord splits a chord into its key steps.
func ParseChord(s string) []string {
	if s == "space" {
		return []string{" "}
	}
	if namedKeys[s] || (utf8.RuneCountInString(s) > 1 && strings.Contains(s, "+")) {
		return []string{s}
	}
	steps := make([]string, 0, len(s))
	for _, r := range s {
		steps = append(steps, string(r))
	}
	return steps
}

// Mode returns the mode keys are resolved in.
func (r *Resolver) Mode() buffer.Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mode
}

// SetMode switches the mode and drops any pending chord.
func (r *Resolver) SetMode(m buffer.Mode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setMode(m)
	r.reset()
}

func (r *Resolver) setMode(m buffer.Mode) {
	if m == buffer.Command && r.mode != buffer.Command {
		r.previous = r.mode
	}
	r.mode = m
}

func (r *Resolver) reset() {
	r.count = ""
	r.seq = nil
}

func (r *Resolver) echo() string {
	return r.count + strings.Join(r.seq, "")
}

// Resolve maps msg to messages and returns the pending chord echo.
func (r *Resolver) Resolve(msg tea.KeyMsg) ([]event.Message, string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if key.Matches(msg, r.text.Quit) {
		r.reset()
		return []event.Message{event.Quit{Mode: event.FailOnRunningTasks}}, ""
	}

	var msgs []event.Message
	switch r.mode {
	case buffer.Insert:
		msgs = r.insert(msg)
	case buffer.Command:
		msgs = r.command(msg)
	default:
		msgs = r.chord(msg)
	}
	r.follow(msgs)
	return msgs, r.echo()
}

// follow tracks the mode the emitted messages switch to so that keys typed
// before the control loop confirms the change resolve correctly.
func (r *Resolver) follow(msgs []event.Message) {
	for _, m := range msgs {
		switch m := m.(type) {
		case event.ChangeMode:
			r.setMode(m.To)
		case event.OpenCommandLine:
			r.setMode(buffer.Command)
		case event.ExecuteCommand:
			r.mode = r.previous
		}
	}
}

func text(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	}
	return "", false
}

func (r *Resolver) editing(msg tea.KeyMsg) []event.Message {
	mod := func(kind buffer.ModificationKind) []event.Message {
		return []event.Message{event.Modification{Count: 1, Modification: buffer.TextModification{Kind: kind}}}
	}
	mv := func(dir buffer.CursorDirection) []event.Message {
		return []event.Message{event.MoveCursor{Count: 1, Direction: dir}}
	}
	switch {
	case key.Matches(msg, r.text.Backspace):
		return mod(buffer.DeleteCharBeforeCursor)
	case key.Matches(msg, r.text.Delete):
		return mod(buffer.DeleteCharOnCursor)
	case key.Matches(msg, r.text.Left):
		return mv(buffer.Left)
	case key.Matches(msg, r.text.Right):
		return mv(buffer.Right)
	case key.Matches(msg, r.text.Home):
		return mv(buffer.LineStart)
	case key.Matches(msg, r.text.End):
		return mv(buffer.LineEnd)
	}
	if s, ok := text(msg); ok {
		return []event.Message{event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertText, Text: s}}}
	}
	return nil
}

func (r *Resolver) insert(msg tea.KeyMsg) []event.Message {
	switch {
	case key.Matches(msg, r.text.Leave):
		return []event.Message{event.ChangeMode{To: buffer.Normal}}
	case key.Matches(msg, r.text.Submit):
		return []event.Message{event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertNewLine, Direction: buffer.Under}}}
	case key.Matches(msg, r.text.Up):
		return []event.Message{event.MoveCursor{Count: 1, Direction: buffer.Up}}
	case key.Matches(msg, r.text.Down):
		return []event.Message{event.MoveCursor{Count: 1, Direction: buffer.Down}}
	}
	return r.editing(msg)
}

func (r *Resolver) command(msg tea.KeyMsg) []event.Message {
	switch {
	case key.Matches(msg, r.text.Leave):
		return []event.Message{event.ChangeMode{To: r.previous}}
	case key.Matches(msg, r.text.Submit):
		return []event.Message{event.ExecuteCommand{}}
	}
	return r.editing(msg)
}

func (r *Resolver) chord(msg tea.KeyMsg) []event.Message {
	k := msg.String()
	if len(r.seq) == 0 && isCount(k, r.count != "") {
		r.count += k
		return nil
	}
	r.seq = append(r.seq, k)

	if isArgumentKey(r.seq[0]) {
		msgs, done := r.argument()
		if done {
			r.reset()
		}
		return msgs
	}

	bindings := r.navigation
	if r.mode == buffer.Normal {
		bindings = r.normal
	}
	prefix := false
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		for _, c := range b.chords {
			switch {
			case equal(c, r.seq):
				msgs := r.run(b.action)
				r.reset()
				return msgs
			case hasPrefix(c, r.seq):
				prefix = true
			}
		}
	}
	if !prefix {
		r.reset()
	}
	return nil
}

// argument resolves the chords that take a character: m<c> sets a mark,
// '<c> jumps to it and "<r>p pastes a register. It reports false while the
// chord is incomplete.
func (r *Resolver) argument() ([]event.Message, bool) {
	if len(r.seq) < 2 {
		return nil, false
	}
	if utf8.RuneCountInString(r.seq[1]) != 1 {
		return nil, true
	}
	arg, _ := utf8.DecodeRuneInString(r.seq[1])
	switch r.seq[0] {
	case "m":
		return []event.Message{event.SetMark{Mark: arg}}, true
	case "'":
		return []event.Message{event.NavigateToMark{Mark: arg}}, true
	}
	if len(r.seq) < 3 {
		return nil, false
	}
	if r.seq[2] != "p" || r.mode != buffer.Navigation {
		return nil, true
	}
	return []event.Message{event.PasteRegister{Register: r.seq[1]}}, true
}

func isArgumentKey(k string) bool {
	return k == "m" || k == "'" || k == "\""
}

func (r *Resolver) run(a action) []event.Message {
	n := 1
	if r.count != "" {
		if v, err := strconv.Atoi(r.count); err == nil && v > 0 {
			n = v
		}
	}
	msgs := a.run(n)
	if a.edit && r.mode == buffer.Navigation {
		msgs = append([]event.Message{event.ChangeMode{To: buffer.Normal}}, msgs...)
	}
	return msgs
}

func isCount(k string, started bool) bool {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return false
	}
	return k != "0" || started
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hasPrefix(chord, seq []string) bool {
	return len(chord) > len(seq) && equal(chord[:len(seq)], seq)
}
