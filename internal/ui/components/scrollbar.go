package components

import (
	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
)

// Scrollbar returns a vertical track of height cells for a pane showing
// visibleH of totalLines lines starting at offset. When everything fits the
// track degrades to a plain separator.
func Scrollbar(styles ui.Styles, height, totalLines, visibleH, offset int) []string {
	cells := make([]string, max(height, 0))
	if totalLines <= visibleH || height < 1 {
		sep := styles.Separator.Render("│")
		for i := range cells {
			cells[i] = sep
		}
		return cells
	}

	// Thumb size: proportional to visible/total, min 1 row.
	thumbSize := height * visibleH / totalLines
	thumbSize = min(max(thumbSize, 1), height)

	maxOffset := height - thumbSize
	scrollable := totalLines - visibleH
	thumbStart := 0
	if scrollable > 0 {
		thumbStart = offset * maxOffset / scrollable
	}
	thumbStart = min(max(thumbStart, 0), maxOffset)

	thumb := styles.ScrollThumb.Render("█")
	track := styles.ScrollTrack.Render("░")
	for i := range cells {
		if i >= thumbStart && i < thumbStart+thumbSize {
			cells[i] = thumb
		} else {
			cells[i] = track
		}
	}
	return cells
}

// Separator returns a plain column of height cells.
func Separator(styles ui.Styles, height int) []string {
	return Scrollbar(styles, height, 0, 0, 0)
}
