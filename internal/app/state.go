package app

import (
	"context"
	"path/filepath"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/log"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/model"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/register"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/store"
	"github.com/Akashdeep-Patra/zed-file-browser/internal/task"
)

// Persistence locates the session state below the cache directory.
type Persistence struct {
	History   store.History
	MarksPath string
	QFixPath  string
}

// NewPersistence returns the default layout below cacheDir.
func NewPersistence(cacheDir string) Persistence {
	return Persistence{
		History:   store.History{Path: filepath.Join(cacheDir, "history.db")},
		MarksPath: filepath.Join(cacheDir, "marks.yaml"),
		QFixPath:  filepath.Join(cacheDir, "qfix.yaml"),
	}
}

// Load fills m from disk. Every part may fail on its own; failures are
// logged and the session starts without that part.
func (p Persistence) Load(ctx context.Context, m *model.Model) {
	if entries, err := p.History.Load(ctx); err != nil {
		log.Warnf("%v", err)
	} else {
		m.History.Load(entries)
	}

	if marks, err := store.LoadMarks(p.MarksPath); err != nil {
		log.Warnf("marks: %v", err)
	} else {
		m.Marks.Load(marks)
	}

	if qfix, err := store.LoadQuickFix(p.QFixPath); err != nil {
		log.Warnf("quickfix: %v", err)
	} else {
		m.QFix.Load(qfix)
	}
}

// Save writes pending history, marks and the quickfix list. Failures are
// logged; none of them stops the shutdown.
func (p Persistence) Save(ctx context.Context, m *model.Model) {
	if pending := m.History.Pending(); len(pending) > 0 {
		if err := p.History.Save(ctx, pending); err != nil {
			log.Warnf("%v", err)
		} else {
			m.History.MarkSaved()
		}
	}
	if err := p.History.Optimize(ctx); err != nil {
		log.Warnf("%v", err)
	}
	if err := store.SaveMarks(p.MarksPath, m.Marks.Snapshot()); err != nil {
		log.Warnf("save marks: %v", err)
	}
	if err := store.SaveQuickFix(p.QFixPath, m.QFix.Snapshot()); err != nil {
		log.Warnf("save quickfix: %v", err)
	}
}

// LoadRegister reads the archives left by earlier sessions. Archives beyond
// the capacity are deleted in the background.
func LoadRegister(reg *register.Register, tasks Tasks) {
	evicted, err := register.Scan(reg)
	if err != nil {
		log.Warnf("register: %v", err)
		return
	}
	for _, e := range evicted {
		tasks.Run(task.DeleteRegisterEntry{Entry: e})
	}
}
