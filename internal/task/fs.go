package task

import (
	"os"
	"path/filepath"
	"strings"
)

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// addPath creates path. A trailing separator creates a directory tree,
// otherwise the parents and an empty file.
func addPath(path string) error {
	dir := strings.HasSuffix(path, string(filepath.Separator))
	clean := filepath.Clean(path)
	if exists(clean) {
		return invalidTarget(clean)
	}
	if dir {
		return fileOp("mkdir", clean, os.MkdirAll(clean, 0o755))
	}
	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return fileOp("mkdir", filepath.Dir(clean), err)
	}
	f, err := os.OpenFile(clean, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return fileOp("create", clean, err)
	}
	return fileOp("create", clean, f.Close())
}

func deletePath(path string) error {
	if !exists(path) {
		return invalidTarget(path)
	}
	return fileOp("delete", path, os.RemoveAll(path))
}

// renamePath moves oldPath to newPath, creating missing parents of newPath.
func renamePath(oldPath, newPath string) error {
	if !exists(oldPath) {
		return invalidTarget(oldPath)
	}
	newPath = filepath.Clean(newPath)
	if exists(newPath) {
		return invalidTarget(newPath)
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fileOp("mkdir", filepath.Dir(newPath), err)
	}
	return fileOp("rename", oldPath, os.Rename(oldPath, newPath))
}
