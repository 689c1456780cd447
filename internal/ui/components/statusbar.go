package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/ui"
)

// StatusBarData carries the info displayed in the bottom status bar.
type StatusBarData struct {
	Mode        string
	Path        string
	Entries     int
	Position    int // 1-based cursor line, 0 when the buffer is empty
	Loading     bool
	KeySequence string
	Tasks       int
	QuickFix    int
	Register    int
}

// RenderStatusBar renders the bottom status bar with clear visual sections
// separated by dim vertical bars.
//
// Wide (>= 60):   NAVIGATION  /home/user  │  3/1,024       2d  │  1 task  │  qf 2
// Narrow (< 60):  NAVIGATION  /home/user                      2d
func RenderStatusBar(styles ui.Styles, data StatusBarData, width int) string {
	if width <= 0 {
		return ""
	}
	sep := styles.Separator.Faint(true).Render(" │ ")

	// ── Left sections ────────────────────────────────────────────

	left := styles.ModeBadge.Render(strings.ToUpper(data.Mode)) + " " + styles.StatusBar.Render(data.Path)
	if width >= 60 {
		count := humanize.Comma(int64(data.Entries))
		if data.Position > 0 {
			count = humanize.Comma(int64(data.Position)) + "/" + count
		}
		if data.Loading {
			count += "…"
		}
		left += sep + styles.Muted.Render(count)
	}

	// ── Right section ────────────────────────────────────────────

	var parts []string
	if data.KeySequence != "" {
		parts = append(parts, styles.KeySequence.Render(data.KeySequence))
	}
	if width >= 60 {
		if data.Tasks > 0 {
			parts = append(parts, styles.Muted.Render(plural(data.Tasks, "task")))
		}
		if data.QuickFix > 0 {
			parts = append(parts, styles.QuickFixSign.Render(fmt.Sprintf("qf %d", data.QuickFix)))
		}
		if data.Register > 0 {
			parts = append(parts, styles.Muted.Render(fmt.Sprintf("reg %d", data.Register)))
		}
	}
	right := strings.Join(parts, sep)

	// ── Assemble ─────────────────────────────────────────────────

	leftW := lipgloss.Width(left)
	rightW := lipgloss.Width(right)
	gap := width - leftW - rightW - 1
	if gap < 1 {
		gap = 1
		right = "" // drop right side if no room
	}
	content := left + strings.Repeat(" ", gap) + right

	return styles.StatusBar.Width(width).MaxWidth(width).Render(content)
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
