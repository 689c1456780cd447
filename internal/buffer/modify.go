package buffer

// ModificationKind selects a text modification.
type ModificationKind int

const (
	DeleteCharBeforeCursor ModificationKind = iota
	DeleteCharOnCursor
	DeleteLineOnCursor
	InsertText
	InsertNewLine
)

// NewLineDirection places a new line relative to the cursor.
type NewLineDirection int

const (
	Under NewLineDirection = iota
	Above
)

// TextModification describes an edit at the cursor.
type TextModification struct {
	Kind      ModificationKind
	Text      string
	Direction NewLineDirection
}

// Modify applies mod count times at the cursor and records the changes in
// the open undo transaction. Outside insert mode every call is its own
// transaction.
func (b *TextBuffer) Modify(mode Mode, count int, mod TextModification) bool {
	if count < 1 {
		count = 1
	}
	changed := false
	for i := 0; i < count; i++ {
		if b.modifyOnce(mode, mod) {
			changed = true
		}
	}
	if mode != Insert {
		b.Undo.Close()
	}
	b.Validate(mode)
	return changed
}

func (b *TextBuffer) modifyOnce(mode Mode, mod TextModification) bool {
	if mod.Kind == InsertNewLine {
		return b.insertNewLine(mode, mod.Direction)
	}
	if b.Cursor == nil || b.Cursor.Vertical >= len(b.Lines) {
		return false
	}

	v := b.Cursor.Vertical
	line := &b.Lines[v]
	old := line.Content
	runes := []rune(old)
	col := b.Cursor.Column(Insert, *line)

	switch mod.Kind {
	case DeleteLineOnCursor:
		b.Undo.Record(Change{Kind: LineRemoved, Index: v, Old: old})
		b.Lines = append(b.Lines[:v], b.Lines[v+1:]...)
		return true
	case DeleteCharBeforeCursor:
		if col == 0 {
			return false
		}
		runes = append(runes[:col-1], runes[col:]...)
		col--
	case DeleteCharOnCursor:
		if col >= len(runes) {
			return false
		}
		runes = append(runes[:col], runes[col+1:]...)
	case InsertText:
		ins := []rune(mod.Text)
		out := make([]rune, 0, len(runes)+len(ins))
		out = append(out, runes[:col]...)
		out = append(out, ins...)
		runes = append(out, runes[col:]...)
		col += len(ins)
	default:
		return false
	}

	line.Content = string(runes)
	line.Search = nil
	b.Cursor.Horizontal = Absolute(col)
	b.Undo.Record(Change{Kind: ContentChanged, Index: v, Old: old, New: line.Content})
	return true
}

func (b *TextBuffer) insertNewLine(mode Mode, dir NewLineDirection) bool {
	index := 0
	if b.Cursor != nil && len(b.Lines) > 0 {
		index = b.Cursor.Vertical
		if dir == Under {
			index++
		}
	}
	insertLine(&b.Lines, index, Line{})
	if b.Cursor == nil {
		b.Cursor = newCursor(mode)
	}
	b.Cursor.Vertical = index
	b.Cursor.Horizontal = Absolute(0)
	b.Undo.Record(Change{Kind: LineAdded, Index: index})
	return true
}
