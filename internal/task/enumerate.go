package task

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/Akashdeep-Patra/zed-file-browser/internal/event"
)

const (
	initialBatch = 100
	maxBatch     = 6400
	readChunk    = 256
)

type sendFunc func(msgs ...event.Message) bool

// enumerate streams the entries of path as PathsAdded batches that double
// in size up to maxBatch, then sends EnumerationFinished. Batches already
// sent stay sent when reading fails halfway.
func enumerate(ctx context.Context, path, selection string, send sendFunc) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return invalidTarget(path)
	}

	dir, err := os.Open(path) //nolint:gosec
	if err != nil {
		return fileOp("enumerate", path, err)
	}
	defer dir.Close()

	threshold := initialBatch
	batch := make([]string, 0, threshold)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := dir.ReadDir(readChunk)
		for _, e := range entries {
			batch = append(batch, filepath.Join(path, e.Name()))
			if len(batch) < threshold {
				continue
			}
			if !send(event.PathsAdded{Paths: batch}) {
				return ctx.Err()
			}
			threshold = min(threshold*2, maxBatch)
			batch = make([]string, 0, threshold)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fileOp("enumerate", path, err)
		}
	}

	if len(batch) > 0 {
		if !send(event.PathsAdded{Paths: batch}) {
			return ctx.Err()
		}
	}
	if !send(event.EnumerationFinished{Path: path, Selection: selection}) {
		return ctx.Err()
	}
	return nil
}
