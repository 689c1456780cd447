package config

// KeyBindings maps an action name to the key chords that trigger it. A chord
// is either a named key ("enter", "ctrl+d", "space") or a run of characters
// typed in sequence ("gg", "dd").
type KeyBindings map[string][]string

// DefaultKeyBindings returns the default key bindings.
func DefaultKeyBindings() KeyBindings {
	return KeyBindings{
		"up":               {"k", "up"},
		"down":             {"j", "down"},
		"top":              {"gg", "home"},
		"bottom":           {"G", "end"},
		"half_page_down":   {"ctrl+d"},
		"half_page_up":     {"ctrl+u"},
		"center":           {"zz"},
		"top_on_cursor":    {"zt"},
		"bottom_on_cursor": {"zb"},
		"command":          {":"},
		"search_forward":   {"/"},
		"search_backward":  {"?"},
		"search_next":      {"n"},
		"search_previous":  {"N"},
		"delete_line":      {"dd"},
		"insert":           {"i"},
		"append":           {"a"},
		"insert_start":     {"I"},
		"append_end":       {"A"},
		"open_below":       {"o"},
		"open_above":       {"O"},

		"parent":          {"h", "left", "backspace"},
		"selected":        {"l", "right"},
		"open":            {"enter"},
		"toggle_quickfix": {"space"},
		"yank":            {"yy"},
		"yank_path":       {"yp"},
		"paste":           {"p"},

		"left":        {"h", "left"},
		"right":       {"l", "right"},
		"line_start":  {"0"},
		"line_end":    {"$"},
		"delete_char": {"x"},
		"undo":        {"u"},
		"redo":        {"ctrl+r"},
		"navigation":  {"esc"},
	}
}
