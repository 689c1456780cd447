package register

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
)

const stagingDirName = ".cache"

// Dirs are the on-disk locations used by the register.
type Dirs struct {
	// Register holds the finished archives and is watched.
	Register string
	// Staging receives archives while they are written; finished archives
	// are renamed into Register so their appearance is atomic.
	Staging string
	// Quarantine is private to this process and removed at shutdown.
	Quarantine string
}

// Prepare creates the register layout below cacheDir.
func Prepare(cacheDir string) (Dirs, error) {
	reg := filepath.Join(cacheDir, "register")
	d := Dirs{
		Register:   reg,
		Staging:    filepath.Join(reg, stagingDirName),
		Quarantine: filepath.Join(cacheDir, "quarantine", uuid.NewString()),
	}
	for _, dir := range []string{d.Register, d.Staging, d.Quarantine} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return Dirs{}, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return d, nil
}

// Cleanup removes the quarantine directory.
func (d Dirs) Cleanup() error {
	return os.RemoveAll(d.Quarantine)
}

// Scan loads the archives already present in the register directory. Entries
// beyond the capacity are returned for deletion.
func Scan(r *Register) ([]Entry, error) {
	items, err := os.ReadDir(r.Dir)
	if err != nil {
		return nil, fmt.Errorf("read register: %w", err)
	}
	var evicted []Entry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		if old, ok := r.AddOrUpdate(filepath.Join(r.Dir, item.Name())); ok && old != nil {
			evicted = append(evicted, *old)
		}
	}
	return evicted, nil
}

// Compress archives entry.Target into entry.Cache, leaving the target alone.
func Compress(ctx context.Context, dirs Dirs, entry Entry) error {
	return archive(ctx, dirs, entry.Target, entry.ID)
}

// Trash moves entry.Target into quarantine, archives it and removes the
// quarantined copy. Targets on another filesystem are archived in place and
// then removed.
func Trash(ctx context.Context, dirs Dirs, entry Entry) error {
	hold := filepath.Join(dirs.Quarantine, uuid.NewString())
	if err := os.MkdirAll(hold, 0o700); err != nil {
		return err
	}
	defer os.RemoveAll(hold)

	source := filepath.Join(hold, filepath.Base(entry.Target))
	if err := os.Rename(entry.Target, source); err != nil {
		if _, statErr := os.Lstat(entry.Target); statErr != nil {
			return err
		}
		source = entry.Target
	}

	if err := archive(ctx, dirs, source, entry.ID); err != nil {
		if source != entry.Target {
			// put it back so nothing is lost
			_ = os.Rename(source, entry.Target)
		}
		return err
	}
	return os.RemoveAll(source)
}

// Restore unpacks the archive of entry into dir and removes the archive.
// Existing files are never overwritten.
func Restore(ctx context.Context, entry Entry, dir string) error {
	if err := unpack(ctx, entry.Cache, dir); err != nil {
		return err
	}
	return os.Remove(entry.Cache)
}

// Delete removes the archive of entry.
func Delete(entry Entry) error {
	err := os.Remove(entry.Cache)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func archive(ctx context.Context, dirs Dirs, source, id string) error {
	tmp, err := os.CreateTemp(dirs.Staging, "archive-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := writeArchive(ctx, tmp, source); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dirs.Register, id))
}

func writeArchive(ctx context.Context, w io.Writer, source string) error {
	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)
	base := filepath.Dir(source)

	err := filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		link := ""
		if info.Mode()&fs.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}
		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if d.IsDir() {
			hdr.Name += "/"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		f, err := os.Open(path) //nolint:gosec
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

func unpack(ctx context.Context, archivePath, dir string) error {
	f, err := os.Open(archivePath) //nolint:gosec
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	root := filepath.Clean(dir)
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		target := filepath.Join(root, filepath.FromSlash(hdr.Name))
		if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
			return fmt.Errorf("archive entry %q escapes %s", hdr.Name, root)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, hdr.FileInfo().Mode().Perm()|0o700); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			out, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, hdr.FileInfo().Mode().Perm())
			if err != nil {
				return err
			}
			_, err = io.Copy(out, tr) //nolint:gosec
			if cerr := out.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
}
