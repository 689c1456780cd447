package buffer

// ChangeKind classifies a recorded buffer change.
type ChangeKind int

const (
	LineAdded ChangeKind = iota
	LineRemoved
	ContentChanged
)

// Change is one recorded edit. LineAdded carries New, LineRemoved carries Old.
type Change struct {
	Kind  ChangeKind
	Index int
	Old   string
	New   string
}

// Undo is the per-buffer change log. Changes are grouped into transactions;
// the log is committed (and cleared) by Save.
type Undo struct {
	saved        []string
	transactions [][]Change
	position     int
	open         []Change
}

// Reset makes lines the saved state and drops all history.
func (u *Undo) Reset(lines []string) {
	u.saved = append([]string(nil), lines...)
	u.transactions = nil
	u.position = 0
	u.open = nil
}

// Record appends c to the open transaction.
func (u *Undo) Record(c Change) {
	u.open = append(u.open, c)
}

// Close finishes the open transaction.
func (u *Undo) Close() {
	if len(u.open) == 0 {
		return
	}
	u.transactions = append(u.transactions[:u.position], u.open)
	u.position++
	u.open = nil
}

// Dirty reports whether there are unsaved changes.
func (u *Undo) Dirty() bool {
	return len(u.open) > 0 || u.position > 0
}

// UndoChange reverts the most recent transaction.
func (b *TextBuffer) UndoChange(mode Mode) bool {
	b.Undo.Close()
	if b.Undo.position == 0 {
		return false
	}
	b.Undo.position--
	tx := b.Undo.transactions[b.Undo.position]
	for i := len(tx) - 1; i >= 0; i-- {
		revert(&b.Lines, tx[i])
	}
	b.Validate(mode)
	return true
}

// RedoChange re-applies the most recently undone transaction.
func (b *TextBuffer) RedoChange(mode Mode) bool {
	b.Undo.Close()
	if b.Undo.position >= len(b.Undo.transactions) {
		return false
	}
	for _, c := range b.Undo.transactions[b.Undo.position] {
		apply(&b.Lines, c)
	}
	b.Undo.position++
	b.Validate(mode)
	return true
}

// Save consolidates the applied changes since the last save into net
// changes relative to the saved content and commits the current content.
func (b *TextBuffer) Save() []Change {
	b.Undo.Close()
	var log []Change
	for _, tx := range b.Undo.transactions[:b.Undo.position] {
		log = append(log, tx...)
	}
	changes := Consolidate(b.Undo.saved, log)
	b.Undo.Reset(b.Contents())
	return changes
}

type slot struct {
	origin  *string
	current string
}

// Consolidate replays log over saved and reports, per surviving line, what
// happened to it: new lines, removed originals, and originals whose content
// differs at the end.
func Consolidate(saved []string, log []Change) []Change {
	slots := make([]slot, len(saved))
	for i := range saved {
		s := saved[i]
		slots[i] = slot{origin: &s, current: s}
	}

	var removed []Change
	for _, c := range log {
		switch c.Kind {
		case LineAdded:
			if c.Index < 0 || c.Index > len(slots) {
				continue
			}
			slots = append(slots, slot{})
			copy(slots[c.Index+1:], slots[c.Index:])
			slots[c.Index] = slot{current: c.New}
		case LineRemoved:
			if c.Index < 0 || c.Index >= len(slots) {
				continue
			}
			if o := slots[c.Index].origin; o != nil {
				removed = append(removed, Change{Kind: LineRemoved, Index: c.Index, Old: *o})
			}
			slots = append(slots[:c.Index], slots[c.Index+1:]...)
		case ContentChanged:
			if c.Index < 0 || c.Index >= len(slots) {
				continue
			}
			slots[c.Index].current = c.New
		}
	}

	var out []Change
	for i, s := range slots {
		switch {
		case s.origin == nil:
			out = append(out, Change{Kind: LineAdded, Index: i, New: s.current})
		case *s.origin != s.current:
			out = append(out, Change{Kind: ContentChanged, Index: i, Old: *s.origin, New: s.current})
		}
	}
	return append(out, removed...)
}

func apply(lines *[]Line, c Change) {
	switch c.Kind {
	case LineAdded:
		insertLine(lines, c.Index, Line{Content: c.New})
	case LineRemoved:
		removeLine(lines, c.Index)
	case ContentChanged:
		if c.Index < len(*lines) {
			(*lines)[c.Index].Content = c.New
		}
	}
}

func revert(lines *[]Line, c Change) {
	switch c.Kind {
	case LineAdded:
		removeLine(lines, c.Index)
	case LineRemoved:
		insertLine(lines, c.Index, Line{Content: c.Old})
	case ContentChanged:
		if c.Index < len(*lines) {
			(*lines)[c.Index].Content = c.Old
		}
	}
}

func insertLine(lines *[]Line, i int, l Line) {
	if i < 0 || i > len(*lines) {
		return
	}
	*lines = append(*lines, Line{})
	copy((*lines)[i+1:], (*lines)[i:])
	(*lines)[i] = l
}

func removeLine(lines *[]Line, i int) {
	if i < 0 || i >= len(*lines) {
		return
	}
	*lines = append((*lines)[:i], (*lines)[i+1:]...)
}
