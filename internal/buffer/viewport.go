package buffer

import "unicode/utf8"

// LineNumber selects the line number gutter mode.
type LineNumber int

const (
	LineNumberNone LineNumber = iota
	LineNumberAbsolute
	LineNumberRelative
)

// ParseLineNumber maps a config value to a LineNumber, defaulting to none.
func ParseLineNumber(s string) LineNumber {
	switch s {
	case "absolute":
		return LineNumberAbsolute
	case "relative":
		return LineNumberRelative
	default:
		return LineNumberNone
	}
}

// ViewPort is the scroll window over a buffer.
type ViewPort struct {
	Height          int
	Width           int
	Vertical        int
	Horizontal      int
	SignColumnWidth int
	LineNumber      LineNumber
	LineNumberWidth int
	HiddenSigns     map[SignID]bool
}

// ViewPortDirection is a viewport-only motion that keeps the cursor in place.
type ViewPortDirection int

const (
	CenterOnCursor ViewPortDirection = iota
	TopOnCursor
	BottomOnCursor
	HalfPageDown
	HalfPageUp
)

func (vp ViewPort) lineNumberWidth() int {
	if vp.LineNumber == LineNumberNone {
		return 0
	}
	return vp.LineNumberWidth
}

func (vp ViewPort) prefixWidth() int {
	return vp.SignColumnWidth + vp.lineNumberWidth()
}

// BorderWidth is the separator between the gutter and the content.
func (vp ViewPort) BorderWidth() int {
	if vp.prefixWidth() > 0 {
		return 1
	}
	return 0
}

// OffsetWidth is the number of columns before the content of line starts.
func (vp ViewPort) OffsetWidth(line Line) int {
	return vp.prefixWidth() + vp.BorderWidth() + utf8.RuneCountInString(line.Prefix)
}

// ContentWidth is the number of columns left for the content of line.
func (vp ViewPort) ContentWidth(line Line) int {
	offset := vp.OffsetWidth(line)
	if vp.Width < offset {
		return 0
	}
	return vp.Width - offset
}

func (vp ViewPort) height() int {
	if vp.Height < 1 {
		return 1
	}
	return vp.Height
}

// ScrollToCursor keeps vertical ≤ cursor < vertical+height and the cursor
// column inside the content width.
func (b *TextBuffer) ScrollToCursor(mode Mode) {
	vp := &b.ViewPort
	if b.Cursor == nil {
		vp.Vertical = 0
		vp.Horizontal = 0
		return
	}

	v := b.Cursor.Vertical
	h := vp.height()
	if v < vp.Vertical {
		vp.Vertical = v
	} else if v >= vp.Vertical+h {
		vp.Vertical = v - h + 1
	}
	if vp.Vertical < 0 {
		vp.Vertical = 0
	}

	if b.Cursor.Horizontal.Kind == HorizontalNone || v >= len(b.Lines) {
		vp.Horizontal = 0
		return
	}
	line := b.Lines[v]
	col := b.Cursor.Column(mode, line)
	w := vp.ContentWidth(line)
	if w < 1 {
		w = 1
	}
	if col < vp.Horizontal {
		vp.Horizontal = col
	} else if col >= vp.Horizontal+w {
		vp.Horizontal = col - w + 1
	}
}

// MoveViewPort scrolls without moving the cursor off screen.
func (b *TextBuffer) MoveViewPort(mode Mode, dir ViewPortDirection) {
	vp := &b.ViewPort
	if b.Cursor == nil {
		vp.Vertical = 0
		return
	}
	h := vp.height()
	v := b.Cursor.Vertical

	switch dir {
	case CenterOnCursor:
		vp.Vertical = v - h/2
	case TopOnCursor:
		vp.Vertical = v
	case BottomOnCursor:
		vp.Vertical = v - h + 1
	case HalfPageDown:
		step := h / 2
		maxTop := len(b.Lines) - h
		if maxTop < 0 {
			maxTop = 0
		}
		vp.Vertical += step
		if vp.Vertical > maxTop {
			vp.Vertical = maxTop
		}
		b.Cursor.Vertical += step
		if b.Cursor.Vertical >= len(b.Lines) {
			b.Cursor.Vertical = len(b.Lines) - 1
		}
	case HalfPageUp:
		step := h / 2
		vp.Vertical -= step
		b.Cursor.Vertical -= step
		if b.Cursor.Vertical < 0 {
			b.Cursor.Vertical = 0
		}
	}
	if vp.Vertical < 0 {
		vp.Vertical = 0
	}
	b.ScrollToCursor(mode)
}
