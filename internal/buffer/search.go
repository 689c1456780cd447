package buffer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SetSearch highlights the first match of term in every line and returns the
// number of matching lines. A term without upper case letters matches
// case-insensitively.
func (b *TextBuffer) SetSearch(term string) int {
	if term == "" {
		b.ClearSearch()
		return 0
	}
	fold := !hasUpper(term)
	needle := term
	if fold {
		needle = strings.ToLower(term)
	}

	found := 0
	for i := range b.Lines {
		b.Lines[i].Search = nil
		hay := b.Lines[i].Content
		if fold {
			hay = strings.ToLower(hay)
		}
		idx := strings.Index(hay, needle)
		if idx < 0 {
			continue
		}
		b.Lines[i].Search = &Highlight{
			Start:  utf8.RuneCountInString(hay[:idx]),
			Length: utf8.RuneCountInString(needle),
		}
		found++
	}
	return found
}

// ClearSearch drops every highlight.
func (b *TextBuffer) ClearSearch() {
	for i := range b.Lines {
		b.Lines[i].Search = nil
	}
}

// SearchNext moves the cursor to the next (or previous when backwards)
// highlighted line, wrapping around. It reports whether a match was found.
func (b *TextBuffer) SearchNext(mode Mode, backwards bool) bool {
	n := len(b.Lines)
	if b.Cursor == nil || n == 0 {
		return false
	}
	step := 1
	if backwards {
		step = -1
	}
	for i := 1; i <= n; i++ {
		idx := ((b.Cursor.Vertical+step*i)%n + n) % n
		h := b.Lines[idx].Search
		if h == nil {
			continue
		}
		b.Cursor.Vertical = idx
		if b.Cursor.Horizontal.Kind != HorizontalNone {
			b.Cursor.Horizontal = Absolute(h.Start)
		}
		b.ScrollToCursor(mode)
		return true
	}
	return false
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
