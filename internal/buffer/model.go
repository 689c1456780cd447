// Package buffer holds the text model shared by every pane: lines with their
// gutter metadata, the cursor, the scroll window and the undo log. All
// mutation goes through methods on TextBuffer so the cursor and viewport
// invariants are re-established after each operation.
package buffer

import "unicode/utf8"

// Mode is the editing mode the buffer operations are evaluated in.
type Mode int

const (
	Navigation Mode = iota
	Normal
	Insert
	Command
)

func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	case Command:
		return "command"
	default:
		return "navigation"
	}
}

// SignID identifies a gutter marker kind. The set is small and fixed; the
// concrete identifiers live with the features that own them.
type SignID uint8

// Sign is a marker rendered in the sign column of a line.
type Sign struct {
	ID       SignID
	Content  rune
	Priority int
}

// Highlight is a search match span measured in characters.
type Highlight struct {
	Start  int
	Length int
}

// Line is one row of buffer content.
type Line struct {
	Content   string
	Prefix    string
	Directory bool
	Signs     []Sign
	Search    *Highlight
}

// Len returns the content length in characters.
func (l Line) Len() int { return utf8.RuneCountInString(l.Content) }

// HasSign reports whether a sign with id is set.
func (l Line) HasSign(id SignID) bool {
	for _, s := range l.Signs {
		if s.ID == id {
			return true
		}
	}
	return false
}

// SetSign adds or replaces the sign with the same id.
func (l *Line) SetSign(sign Sign) {
	for i := range l.Signs {
		if l.Signs[i].ID == sign.ID {
			l.Signs[i] = sign
			return
		}
	}
	l.Signs = append(l.Signs, sign)
}

// UnsetSign removes the sign with id, if present.
func (l *Line) UnsetSign(id SignID) {
	out := l.Signs[:0]
	for _, s := range l.Signs {
		if s.ID != id {
			out = append(out, s)
		}
	}
	l.Signs = out
}

// HorizontalKind selects how the horizontal cursor position is interpreted.
type HorizontalKind int

const (
	// HorizontalNone disables horizontal rendering (directory listings).
	HorizontalNone HorizontalKind = iota
	// HorizontalAbsolute is a character index, clamped to the line length.
	HorizontalAbsolute
	// HorizontalEnd follows the last character of the line.
	HorizontalEnd
)

// Horizontal is the horizontal part of a cursor.
type Horizontal struct {
	Kind  HorizontalKind
	Index int
}

// Absolute returns an absolute horizontal position.
func Absolute(i int) Horizontal { return Horizontal{Kind: HorizontalAbsolute, Index: i} }

// End tracks the end of the line.
var End = Horizontal{Kind: HorizontalEnd}

// Cursor is the buffer cursor. A buffer without lines has no cursor.
type Cursor struct {
	Vertical   int
	Horizontal Horizontal
}

// Column resolves the horizontal position against line for mode. Insert mode
// may sit one past the last character.
func (c Cursor) Column(mode Mode, line Line) int {
	n := line.Len()
	last := n - 1
	if mode == Insert || mode == Command {
		last = n
	}
	if last < 0 {
		last = 0
	}
	switch c.Horizontal.Kind {
	case HorizontalEnd:
		return last
	case HorizontalAbsolute:
		if c.Horizontal.Index > last {
			return last
		}
		if c.Horizontal.Index < 0 {
			return 0
		}
		return c.Horizontal.Index
	default:
		return 0
	}
}

// TextBuffer is the unit of displayed, editable content.
type TextBuffer struct {
	Lines    []Line
	Cursor   *Cursor
	ViewPort ViewPort
	Undo     Undo
}

// Contents returns the raw line contents.
func (b *TextBuffer) Contents() []string {
	out := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		out[i] = l.Content
	}
	return out
}

// Selected returns the line under the cursor.
func (b *TextBuffer) Selected() (Line, bool) {
	if b.Cursor == nil || b.Cursor.Vertical >= len(b.Lines) {
		return Line{}, false
	}
	return b.Lines[b.Cursor.Vertical], true
}
