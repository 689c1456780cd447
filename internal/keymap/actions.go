package keymap

import (
	"github.com/Akashdeep-Patra/zed-file-browser/internal/buffer"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
)

type actionFunc func(count int) []event.Message

type action struct {
	help string
	// edit actions switch Navigation to Normal first.
	edit       bool
	navigation bool
	normal     bool
	run        actionFunc
}

func emit(msgs ...event.Message) actionFunc {
	return func(int) []event.Message {
		return append([]event.Message(nil), msgs...)
	}
}

func move(dir buffer.CursorDirection) actionFunc {
	return func(n int) []event.Message {
		return []event.Message{event.MoveCursor{Count: n, Direction: dir}}
	}
}

func scroll(dir buffer.ViewPortDirection) actionFunc {
	return emit(event.MoveViewPort{Direction: dir})
}

func modify(mod buffer.TextModification) actionFunc {
	return func(n int) []event.Message {
		return []event.Message{event.Modification{Count: n, Modification: mod}}
	}
}

func insertThen(msgs ...event.Message) actionFunc {
	return emit(append([]event.Message{event.ChangeMode{To: buffer.Insert}}, msgs...)...)
}

var actions = map[string]action{
	"up":               {help: "up", navigation: true, normal: true, run: move(buffer.Up)},
	"down":             {help: "down", navigation: true, normal: true, run: move(buffer.Down)},
	"top":              {help: "first entry", navigation: true, normal: true, run: move(buffer.Top)},
	"bottom":           {help: "last entry", navigation: true, normal: true, run: move(buffer.Bottom)},
	"half_page_down":   {help: "half page down", navigation: true, normal: true, run: scroll(buffer.HalfPageDown)},
	"half_page_up":     {help: "half page up", navigation: true, normal: true, run: scroll(buffer.HalfPageUp)},
	"center":           {help: "center cursor", navigation: true, normal: true, run: scroll(buffer.CenterOnCursor)},
	"top_on_cursor":    {help: "cursor to top", navigation: true, normal: true, run: scroll(buffer.TopOnCursor)},
	"bottom_on_cursor": {help: "cursor to bottom", navigation: true, normal: true, run: scroll(buffer.BottomOnCursor)},
	"command":          {help: "command", navigation: true, normal: true, run: emit(event.OpenCommandLine{Kind: event.CommandColon})},
	"search_forward":   {help: "search", navigation: true, normal: true, run: emit(event.OpenCommandLine{Kind: event.CommandSearchForward})},
	"search_backward":  {help: "search backwards", navigation: true, normal: true, run: emit(event.OpenCommandLine{Kind: event.CommandSearchBackward})},
	"search_next":      {help: "next match", navigation: true, normal: true, run: emit(event.SearchNext{})},
	"search_previous":  {help: "previous match", navigation: true, normal: true, run: emit(event.SearchNext{Backwards: true})},

	"delete_line":  {help: "delete line", edit: true, navigation: true, normal: true, run: modify(buffer.TextModification{Kind: buffer.DeleteLineOnCursor})},
	"insert":       {help: "insert", navigation: true, normal: true, run: insertThen()},
	"append":       {help: "append", navigation: true, normal: true, run: insertThen(event.MoveCursor{Count: 1, Direction: buffer.Right})},
	"insert_start": {help: "insert at start", navigation: true, normal: true, run: insertThen(event.MoveCursor{Count: 1, Direction: buffer.LineStart})},
	"append_end":   {help: "append at end", navigation: true, normal: true, run: insertThen(event.MoveCursor{Count: 1, Direction: buffer.LineEnd})},
	"open_below": {help: "new entry below", navigation: true, normal: true, run: insertThen(
		event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertNewLine, Direction: buffer.Under}})},
	"open_above": {help: "new entry above", navigation: true, normal: true, run: insertThen(
		event.Modification{Count: 1, Modification: buffer.TextModification{Kind: buffer.InsertNewLine, Direction: buffer.Above}})},

	"parent":          {help: "parent directory", navigation: true, run: emit(event.NavigateToParent{})},
	"selected":        {help: "enter directory", navigation: true, run: emit(event.NavigateToSelected{})},
	"open":            {help: "open", navigation: true, run: emit(event.OpenSelected{})},
	"toggle_quickfix": {help: "toggle quickfix", navigation: true, run: emit(event.ToggleQuickFix{})},
	"yank":            {help: "yank to register", navigation: true, run: emit(event.YankSelected{})},
	"yank_path":       {help: "copy path", navigation: true, run: emit(event.YankPath{})},
	"paste":           {help: "paste register", navigation: true, run: emit(event.PasteRegister{})},

	"left":        {help: "left", normal: true, run: move(buffer.Left)},
	"right":       {help: "right", normal: true, run: move(buffer.Right)},
	"line_start":  {help: "line start", normal: true, run: move(buffer.LineStart)},
	"line_end":    {help: "line end", normal: true, run: move(buffer.LineEnd)},
	"delete_char": {help: "delete character", normal: true, run: modify(buffer.TextModification{Kind: buffer.DeleteCharOnCursor})},
	"undo":        {help: "undo", normal: true, run: emit(event.Undo{})},
	"redo":        {help: "redo", normal: true, run: emit(event.Redo{})},
	"navigation":  {help: "leave normal mode", normal: true, run: emit(event.ChangeMode{To: buffer.Navigation})},
}
