package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds all colours for the application.
// Inspired by Zed's default dark palette (Catppuccin Mocha).
type Theme struct {
	Bg           lipgloss.Color
	Surface      lipgloss.Color
	SurfaceHover lipgloss.Color
	Border       lipgloss.Color

	Text        lipgloss.Color
	TextMuted   lipgloss.Color
	TextSubtle  lipgloss.Color
	TextInverse lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Directory lipgloss.Color
	Mark      lipgloss.Color
	QuickFix  lipgloss.Color
	Match     lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color
}

// DarkTheme returns the default Zed-inspired dark theme.
func DarkTheme() Theme {
	return Theme{
		Bg:           lipgloss.Color("#1e1e2e"),
		Surface:      lipgloss.Color("#282840"),
		SurfaceHover: lipgloss.Color("#313152"),
		Border:       lipgloss.Color("#3b3b5c"),

		Text:        lipgloss.Color("#cdd6f4"),
		TextMuted:   lipgloss.Color("#9399b2"),
		TextSubtle:  lipgloss.Color("#6c7086"),
		TextInverse: lipgloss.Color("#1e1e2e"),

		Primary:   lipgloss.Color("#89b4fa"),
		Secondary: lipgloss.Color("#b4befe"),
		Accent:    lipgloss.Color("#f5c2e7"),

		Directory: lipgloss.Color("#89b4fa"),
		Mark:      lipgloss.Color("#f5c2e7"),
		QuickFix:  lipgloss.Color("#fab387"),
		Match:     lipgloss.Color("#f9e2af"),

		Success: lipgloss.Color("#a6e3a1"),
		Warning: lipgloss.Color("#f9e2af"),
		Error:   lipgloss.Color("#f38ba8"),
		Info:    lipgloss.Color("#89b4fa"),
	}
}

// LightTheme is the Catppuccin Latte counterpart of DarkTheme.
func LightTheme() Theme {
	return Theme{
		Bg:           lipgloss.Color("#eff1f5"),
		Surface:      lipgloss.Color("#e6e9ef"),
		SurfaceHover: lipgloss.Color("#ccd0da"),
		Border:       lipgloss.Color("#bcc0cc"),

		Text:        lipgloss.Color("#4c4f69"),
		TextMuted:   lipgloss.Color("#6c6f85"),
		TextSubtle:  lipgloss.Color("#9ca0b0"),
		TextInverse: lipgloss.Color("#eff1f5"),

		Primary:   lipgloss.Color("#1e66f5"),
		Secondary: lipgloss.Color("#7287fd"),
		Accent:    lipgloss.Color("#ea76cb"),

		Directory: lipgloss.Color("#1e66f5"),
		Mark:      lipgloss.Color("#ea76cb"),
		QuickFix:  lipgloss.Color("#fe640b"),
		Match:     lipgloss.Color("#df8e1d"),

		Success: lipgloss.Color("#40a02b"),
		Warning: lipgloss.Color("#df8e1d"),
		Error:   lipgloss.Color("#d20f39"),
		Info:    lipgloss.Color("#1e66f5"),
	}
}

// ThemeByName resolves a configured theme name; unknown names fall back to
// the dark theme.
func ThemeByName(name string) Theme {
	if name == "light" {
		return LightTheme()
	}
	return DarkTheme()
}

// Styles holds pre-computed lipgloss styles derived from a Theme.
type Styles struct {
	Theme Theme

	// Panes
	Entry      lipgloss.Style
	Directory  lipgloss.Style
	CursorLine lipgloss.Style
	// CursorLineDim marks the selection of the panes without focus.
	CursorLineDim lipgloss.Style
	Cursor        lipgloss.Style
	Match         lipgloss.Style
	Separator     lipgloss.Style
	LineNumber    lipgloss.Style
	MarkSign      lipgloss.Style
	QuickFixSign  lipgloss.Style
	ScrollThumb   lipgloss.Style
	ScrollTrack   lipgloss.Style

	// Bars
	StatusBar   lipgloss.Style
	ModeBadge   lipgloss.Style
	KeySequence lipgloss.Style
	Muted       lipgloss.Style
	Prompt      lipgloss.Style
	Info        lipgloss.Style
	Error       lipgloss.Style
}

// NewStyles builds all styles from the given theme.
func NewStyles(t Theme) Styles {
	s := Styles{Theme: t}

	s.Entry = lipgloss.NewStyle().Foreground(t.Text)
	s.Directory = lipgloss.NewStyle().Foreground(t.Directory).Bold(true)
	s.CursorLine = lipgloss.NewStyle().Background(t.SurfaceHover).Bold(true)
	s.CursorLineDim = lipgloss.NewStyle().Background(t.Surface)
	s.Cursor = lipgloss.NewStyle().Reverse(true)
	s.Match = lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Match)
	s.Separator = lipgloss.NewStyle().Foreground(t.Border)
	s.LineNumber = lipgloss.NewStyle().Foreground(t.TextSubtle)
	s.MarkSign = lipgloss.NewStyle().Foreground(t.Mark).Bold(true)
	s.QuickFixSign = lipgloss.NewStyle().Foreground(t.QuickFix).Bold(true)
	s.ScrollThumb = lipgloss.NewStyle().Foreground(t.Primary)
	s.ScrollTrack = lipgloss.NewStyle().Foreground(t.Border)

	s.StatusBar = lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	s.ModeBadge = lipgloss.NewStyle().Foreground(t.TextInverse).Background(t.Primary).Bold(true).Padding(0, 1)
	s.KeySequence = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	s.Muted = lipgloss.NewStyle().Foreground(t.TextMuted)
	s.Prompt = lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	s.Info = lipgloss.NewStyle().Foreground(t.Info)
	s.Error = lipgloss.NewStyle().Foreground(t.Error).Bold(true)

	return s
}

// DefaultStyles returns styles using the dark theme.
func DefaultStyles() Styles {
	return NewStyles(DarkTheme())
}
