package views

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui/components"
)

// Frame renders the whole screen. It returns an empty string until the
// first resize gave the layout a size.
//
//	parent │ current ░ preview
//	NAVIGATION  ~/src  │ 3/12          2d
//	:command line / printed output
func Frame(m *model.Model, styles ui.Styles) string {
	l := m.Layout
	if l.Width <= 0 || l.Height <= 0 {
		return ""
	}

	height := l.Current.Height
	cur := &m.Current.Buffer
	rows := ui.JoinColumns(
		Pane(&m.Parent, buffer.Navigation, styles, false),
		components.Separator(styles, height),
		Pane(&m.Current, m.Mode, styles, true),
		components.Scrollbar(styles, height, len(cur.Lines), height, cur.ViewPort.Vertical),
		Pane(&m.Preview, buffer.Navigation, styles, false),
	)

	rows = append(rows, components.RenderStatusBar(styles, StatusData(m), l.Width))
	rows = append(rows, CommandLine(m, styles)...)
	return strings.Join(rows, "\n")
}

// StatusData collects the status bar fields from the model.
func StatusData(m *model.Model) components.StatusBarData {
	d := components.StatusBarData{
		Mode:        m.Mode.String(),
		Path:        abbreviateHome(m.Current.Path),
		Entries:     len(m.Current.Buffer.Lines),
		Loading:     m.Current.State == model.Loading,
		KeySequence: m.KeySequence,
		Tasks:       len(m.Tasks),
		QuickFix:    len(m.QFix.Entries),
	}
	if c := m.Current.Buffer.Cursor; c != nil {
		d.Position = c.Vertical + 1
	}
	if m.Register != nil {
		d.Register = m.Register.Len()
	}
	return d
}

// CommandLine renders the bottom area: the input line while in command
// mode, otherwise the printed lines.
func CommandLine(m *model.Model, styles ui.Styles) []string {
	width := m.Layout.CommandLine.Width
	if m.Mode == buffer.Command {
		prompt := styles.Prompt.Render(m.CommandLine.Kind.Prompt())
		rows := m.CommandLine.Buffer.Window(buffer.Command)
		if len(rows) == 0 {
			return []string{prompt}
		}
		r := rows[0]
		return []string{prompt + renderBody(r.Body, nil, r.CursorColumn, styles.Entry, styles)}
	}

	if len(m.Print) == 0 {
		return []string{strings.Repeat(" ", max(width, 0))}
	}
	out := make([]string, 0, len(m.Print))
	for _, p := range m.Print {
		style := styles.Entry
		if p.Error {
			style = styles.Error
		}
		out = append(out, style.Render(buffer.FitWidth(p.Content, width)))
	}
	return out
}

func abbreviateHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == home {
		return "~"
	}
	if rel, ok := strings.CutPrefix(path, home+string(filepath.Separator)); ok {
		return filepath.Join("~", rel)
	}
	return path
}
