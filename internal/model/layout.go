package model

// Rect is a screen region in cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Layout splits the screen into the three columns, the status line and the
// command line area.
type Layout struct {
	Width, Height int

	Parent      Rect
	Current     Rect
	Preview     Rect
	Status      Rect
	CommandLine Rect
}

// NewLayout computes the layout for a terminal of width x height. The
// command line grows to show printed lines.
func NewLayout(width, height, printed int) Layout {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	cmdHeight := max(printed, 1)
	mainHeight := max(height-cmdHeight-1, 1)

	// two single-column separators between the panes
	columns := max(width-2, 3)
	parentWidth := columns / 5
	currentWidth := columns * 3 / 10
	previewWidth := columns - parentWidth - currentWidth

	return Layout{
		Width:       width,
		Height:      height,
		Parent:      Rect{X: 0, Y: 0, Width: parentWidth, Height: mainHeight},
		Current:     Rect{X: parentWidth + 1, Y: 0, Width: currentWidth, Height: mainHeight},
		Preview:     Rect{X: parentWidth + currentWidth + 2, Y: 0, Width: previewWidth, Height: mainHeight},
		Status:      Rect{X: 0, Y: mainHeight, Width: width, Height: 1},
		CommandLine: Rect{X: 0, Y: mainHeight + 1, Width: width, Height: cmdHeight},
	}
}
