package watcher

import (
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
)

// Kind is the raw kind of a filesystem event.
type Kind int

const (
	KindOther Kind = iota
	KindCreate
	KindRemove
	KindRename
)

// RenameMode refines KindRename.
type RenameMode int

const (
	// RenameAny is a rename whose direction the OS did not report.
	RenameAny RenameMode = iota
	RenameFrom
	RenameTo
	// RenameBoth carries the old and the new path.
	RenameBoth
)

// RawEvent is an OS event before translation.
type RawEvent struct {
	Kind       Kind
	Rename     RenameMode
	Paths      []string
	NeedRescan bool
}

// Translate maps a raw event to domain messages. exists resolves ambiguous
// renames against the live filesystem. Malformed events yield nothing.
func Translate(ev RawEvent, exists func(string) bool) []event.Message {
	var out []event.Message
	if ev.NeedRescan {
		out = append(out, event.Rescan{})
	}

	switch ev.Kind {
	case KindCreate:
		for _, p := range ev.Paths {
			out = append(out, event.PathsAdded{Paths: []string{p}})
		}
	case KindRemove:
		for _, p := range ev.Paths {
			out = append(out, event.PathRemoved{Path: p})
		}
	case KindRename:
		msgs, ok := translateRename(ev, exists)
		if !ok {
			log.Warnf("dropping malformed rename event %+v", ev)
			return out
		}
		out = append(out, msgs...)
	}
	return out
}

func translateRename(ev RawEvent, exists func(string) bool) ([]event.Message, bool) {
	switch ev.Rename {
	case RenameBoth:
		if len(ev.Paths) != 2 {
			return nil, false
		}
		return []event.Message{
			event.PathRemoved{Path: ev.Paths[0]},
			event.PathsAdded{Paths: []string{ev.Paths[1]}},
		}, true
	case RenameFrom:
		if len(ev.Paths) != 1 {
			return nil, false
		}
		return []event.Message{event.PathRemoved{Path: ev.Paths[0]}}, true
	case RenameTo:
		if len(ev.Paths) != 1 {
			return nil, false
		}
		return []event.Message{event.PathsAdded{Paths: []string{ev.Paths[0]}}}, true
	default:
		if len(ev.Paths) != 1 {
			return nil, false
		}
		if exists(ev.Paths[0]) {
			return []event.Message{event.PathsAdded{Paths: []string{ev.Paths[0]}}}, true
		}
		return []event.Message{event.PathRemoved{Path: ev.Paths[0]}}, true
	}
}

// fromFsnotify converts an fsnotify event. fsnotify reports a rename on the
// old name only and the new name as a create, so renames are ambiguous.
// Writes and attribute changes do not alter a listing and map to KindOther.
func fromFsnotify(ev fsnotify.Event) RawEvent {
	raw := RawEvent{Paths: []string{ev.Name}}
	switch {
	case ev.Has(fsnotify.Create):
		raw.Kind = KindCreate
	case ev.Has(fsnotify.Remove):
		raw.Kind = KindRemove
	case ev.Has(fsnotify.Rename):
		raw.Kind = KindRename
		raw.Rename = RenameAny
	default:
		raw.Kind = KindOther
	}
	return raw
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
