// Package views turns the model into terminal text.
package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
)

// Pane renders a directory buffer into exactly ViewPort.Height rows of
// ViewPort.Width columns.
func Pane(d *model.DirectoryBuffer, mode buffer.Mode, styles ui.Styles, focused bool) []string {
	rows := d.Buffer.Window(mode)
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = renderRow(r, styles, focused, mode)
	}
	return out
}

func renderRow(r buffer.Row, styles ui.Styles, focused bool, mode buffer.Mode) string {
	if r.Index < 0 {
		return r.Body
	}

	gutter := r.Signs + r.Number + r.Border + r.Prefix
	var b strings.Builder
	if gutter != "" {
		b.WriteString(gutterStyle(r, styles).Render(gutter))
	}

	base := styles.Entry
	if r.Directory {
		base = styles.Directory
	}
	if r.Cursor {
		line := styles.CursorLineDim
		if focused {
			line = styles.CursorLine
		}
		base = line.Inherit(base)
	}

	column := -1
	if focused && mode != buffer.Navigation {
		column = r.CursorColumn
	}
	b.WriteString(renderBody(r.Body, r.Highlight, column, base, styles))
	return b.String()
}

func gutterStyle(r buffer.Row, styles ui.Styles) lipgloss.Style {
	if len(r.SignIDs) > 0 {
		switch r.SignIDs[0] {
		case model.SignMark:
			return styles.MarkSign
		case model.SignQuickFix:
			return styles.QuickFixSign
		}
	}
	return styles.LineNumber
}

type span int

const (
	spanBase span = iota
	spanMatch
	spanCursor
)

// renderBody styles body in runs: the search match and the cursor cell get
// their own style, everything else uses base.
func renderBody(body string, h *buffer.Highlight, column int, base lipgloss.Style, styles ui.Styles) string {
	runes := []rune(body)
	kind := func(i int) span {
		if i == column {
			return spanCursor
		}
		if h != nil && i >= h.Start && i < h.Start+h.Length {
			return spanMatch
		}
		return spanBase
	}
	style := func(k span) lipgloss.Style {
		switch k {
		case spanCursor:
			return styles.Cursor.Inherit(base)
		case spanMatch:
			return styles.Match
		default:
			return base
		}
	}

	var b strings.Builder
	start := 0
	for i := 1; i <= len(runes); i++ {
		if i < len(runes) && kind(i) == kind(start) {
			continue
		}
		b.WriteString(style(kind(start)).Render(string(runes[start:i])))
		start = i
	}
	return b.String()
}
