// Package ui renders the model into a terminal frame: three panes, the
// status bar and the command line.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PadRight pads s with spaces to the given width.
func PadRight(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// JoinColumns joins columns of equal height row by row.
func JoinColumns(columns ...[]string) []string {
	if len(columns) == 0 {
		return nil
	}
	height := len(columns[0])
	rows := make([]string, height)
	var b strings.Builder
	for i := 0; i < height; i++ {
		b.Reset()
		for _, c := range columns {
			if i < len(c) {
				b.WriteString(c[i])
			}
		}
		rows[i] = b.String()
	}
	return rows
}
