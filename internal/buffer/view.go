package buffer

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// FitWidth returns s truncated or right-padded with spaces to exactly width
// display columns.
func FitWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "")
	}
	return runewidth.FillRight(s, width)
}

// Row is one rendered buffer row split into gutter and body so the renderer
// can style each part. The concatenation of the parts is exactly
// ViewPort.Width columns wide.
type Row struct {
	// Index is the buffer line index, or -1 for filler rows past the end.
	Index  int
	Signs  string
	Number string
	Border string
	Prefix string
	Body   string
	// Cursor marks the row the cursor is on; CursorColumn is the cursor
	// column inside Body, or -1 when no horizontal cursor is rendered.
	Cursor       bool
	CursorColumn int
	Directory    bool
	SignIDs      []SignID
	// Highlight is the search span relative to Body.
	Highlight *Highlight
}

// Text joins the row parts.
func (r Row) Text() string {
	return r.Signs + r.Number + r.Border + r.Prefix + r.Body
}

// Window renders exactly ViewPort.Height rows sourced from
// Lines[Vertical:Vertical+Height].
func (b *TextBuffer) Window(mode Mode) []Row {
	vp := b.ViewPort
	rows := make([]Row, 0, vp.Height)
	for i := 0; i < vp.Height; i++ {
		index := vp.Vertical + i
		if index >= len(b.Lines) {
			rows = append(rows, Row{Index: -1, CursorColumn: -1, Body: FitWidth("", vp.Width)})
			continue
		}
		rows = append(rows, b.row(mode, index))
	}
	return rows
}

func (b *TextBuffer) row(mode Mode, index int) Row {
	vp := b.ViewPort
	line := b.Lines[index]
	r := Row{Index: index, CursorColumn: -1, Directory: line.Directory}

	r.Signs, r.SignIDs = signColumn(vp, line)
	r.Number = lineNumber(vp, b.Cursor, index)
	if vp.BorderWidth() > 0 {
		r.Border = " "
	}
	r.Prefix = line.Prefix

	// The gutter may already exceed a very narrow viewport; trim it so the
	// row never grows past the width.
	gutter := FitWidth(r.Signs+r.Number+r.Border+r.Prefix, min(vp.Width, vp.OffsetWidth(line)))
	r.Signs, r.Number, r.Border, r.Prefix = gutter, "", "", ""

	content := []rune(line.Content)
	start := vp.Horizontal
	if start > len(content) {
		start = len(content)
	}
	width := vp.ContentWidth(line)
	r.Body = FitWidth(string(content[start:]), width)

	if b.Cursor != nil && b.Cursor.Vertical == index {
		r.Cursor = true
		if b.Cursor.Horizontal.Kind != HorizontalNone {
			r.CursorColumn = b.Cursor.Column(mode, line) - start
		}
	}
	if h := line.Search; h != nil {
		s := h.Start - start
		l := h.Length
		if s < 0 {
			l += s
			s = 0
		}
		if s+l > width {
			l = width - s
		}
		if l > 0 && s < width {
			r.Highlight = &Highlight{Start: s, Length: l}
		}
	}
	return r
}

func signColumn(vp ViewPort, line Line) (string, []SignID) {
	if vp.SignColumnWidth <= 0 {
		return "", nil
	}
	var best *Sign
	var ids []SignID
	for i := range line.Signs {
		s := line.Signs[i]
		if vp.HiddenSigns[s.ID] {
			continue
		}
		ids = append(ids, s.ID)
		if best == nil || s.Priority > best.Priority {
			best = &line.Signs[i]
		}
	}
	content := ""
	if best != nil {
		content = string(best.Content)
		ids = []SignID{best.ID}
	}
	return FitWidth(content, vp.SignColumnWidth), ids
}

func lineNumber(vp ViewPort, cursor *Cursor, index int) string {
	w := vp.lineNumberWidth()
	if w <= 0 {
		return ""
	}
	n := index + 1
	if vp.LineNumber == LineNumberRelative && cursor != nil && cursor.Vertical != index {
		n = cursor.Vertical - index
		if n < 0 {
			n = -n
		}
	}
	s := fmt.Sprintf("%*d", w, n)
	if len(s) > w {
		s = strings.Repeat(" ", w)
	}
	return s
}
