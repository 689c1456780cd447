package buffer

// CursorDirection is a cursor motion.
type CursorDirection int

const (
	Up CursorDirection = iota
	Down
	Left
	Right
	Top
	Bottom
	LineStart
	LineEnd
)

func newCursor(mode Mode) *Cursor {
	if mode == Navigation {
		return &Cursor{Horizontal: Horizontal{Kind: HorizontalNone}}
	}
	return &Cursor{Horizontal: Absolute(0)}
}

// SetContent replaces all lines, resets the undo log to the new content and
// re-validates the cursor.
func (b *TextBuffer) SetContent(mode Mode, lines []Line) {
	b.Lines = lines
	b.Undo.Reset(b.Contents())
	b.Validate(mode)
}

// ResetCursor moves the cursor to the first line and column.
func (b *TextBuffer) ResetCursor(mode Mode) {
	if b.Cursor != nil {
		b.Cursor.Vertical = 0
		if b.Cursor.Horizontal.Kind == HorizontalAbsolute {
			b.Cursor.Horizontal.Index = 0
		}
	}
	b.ViewPort.Vertical = 0
	b.ViewPort.Horizontal = 0
	b.Validate(mode)
}

// Validate re-establishes the cursor invariant: no cursor on an empty buffer,
// otherwise a vertical index inside the lines, and the viewport scrolled to it.
func (b *TextBuffer) Validate(mode Mode) {
	if len(b.Lines) == 0 {
		b.Cursor = nil
		b.ScrollToCursor(mode)
		return
	}
	if b.Cursor == nil {
		b.Cursor = newCursor(mode)
	}
	if b.Cursor.Vertical >= len(b.Lines) {
		b.Cursor.Vertical = len(b.Lines) - 1
	}
	if b.Cursor.Vertical < 0 {
		b.Cursor.Vertical = 0
	}
	b.ScrollToCursor(mode)
}

// MoveCursor applies dir count times and reports whether the position changed.
func (b *TextBuffer) MoveCursor(mode Mode, count int, dir CursorDirection) bool {
	if b.Cursor == nil || len(b.Lines) == 0 {
		return false
	}
	if count < 1 {
		count = 1
	}
	before := *b.Cursor
	c := b.Cursor
	last := len(b.Lines) - 1

	switch dir {
	case Up:
		c.Vertical -= count
		if c.Vertical < 0 {
			c.Vertical = 0
		}
	case Down:
		c.Vertical += count
		if c.Vertical > last {
			c.Vertical = last
		}
	case Top:
		c.Vertical = 0
	case Bottom:
		c.Vertical = last
	case Left, Right, LineStart, LineEnd:
		if c.Horizontal.Kind == HorizontalNone {
			break
		}
		line := b.Lines[c.Vertical]
		col := c.Column(mode, line)
		switch dir {
		case Left:
			col -= count
			if col < 0 {
				col = 0
			}
			c.Horizontal = Absolute(col)
		case Right:
			c.Horizontal = Absolute(col + count)
			c.Horizontal.Index = c.Column(mode, line)
		case LineStart:
			c.Horizontal = Absolute(0)
		case LineEnd:
			c.Horizontal = End
		}
	}

	b.ScrollToCursor(mode)
	return before != *c
}

// SetCursorToLineContent moves the cursor to the first line whose content
// equals content.
func (b *TextBuffer) SetCursorToLineContent(mode Mode, content string) bool {
	for i, l := range b.Lines {
		if l.Content != content {
			continue
		}
		if b.Cursor == nil {
			b.Cursor = newCursor(mode)
		}
		changed := b.Cursor.Vertical != i
		b.Cursor.Vertical = i
		b.ScrollToCursor(mode)
		return changed
	}
	return false
}

// ChangeMode adapts the cursor to the target mode.
func (b *TextBuffer) ChangeMode(from, to Mode) {
	if from == Insert && to != Insert {
		b.Undo.Close()
	}
	if b.Cursor == nil {
		return
	}
	switch to {
	case Navigation:
		b.Cursor.Horizontal = Horizontal{Kind: HorizontalNone}
	case Normal:
		if b.Cursor.Horizontal.Kind == HorizontalNone {
			b.Cursor.Horizontal = Absolute(0)
		} else if line, ok := b.Selected(); ok {
			col := b.Cursor.Column(Insert, line)
			if from == Insert && col > 0 {
				col--
			}
			b.Cursor.Horizontal = Absolute(col)
			b.Cursor.Horizontal.Index = b.Cursor.Column(Normal, line)
		}
	case Insert:
		if b.Cursor.Horizontal.Kind == HorizontalNone {
			b.Cursor.Horizontal = Absolute(0)
		}
	}
	b.ScrollToCursor(to)
}
