package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marks maps a single-character mark name to an absolute path.
type Marks map[string]string

// QuickFix is the persisted quickfix list.
type QuickFix struct {
	Entries []string `yaml:"entries"`
	Index   int      `yaml:"index"`
}

// LoadMarks reads the marks file. A missing file yields no marks.
func LoadMarks(path string) (Marks, error) {
	m := Marks{}
	if err := readYAML(path, &m); err != nil {
		return Marks{}, fmt.Errorf("load marks: %w", err)
	}
	return m, nil
}

// SaveMarks writes the marks file.
func SaveMarks(path string, m Marks) error {
	if err := writeYAML(path, m); err != nil {
		return fmt.Errorf("save marks: %w", err)
	}
	return nil
}

// LoadQuickFix reads the quickfix file. A missing file yields an empty list.
func LoadQuickFix(path string) (QuickFix, error) {
	var q QuickFix
	if err := readYAML(path, &q); err != nil {
		return QuickFix{}, fmt.Errorf("load quickfix: %w", err)
	}
	if q.Index < 0 || q.Index >= len(q.Entries) {
		q.Index = 0
	}
	return q, nil
}

// SaveQuickFix writes the quickfix file.
func SaveQuickFix(path string, q QuickFix) error {
	if err := writeYAML(path, q); err != nil {
		return fmt.Errorf("save quickfix: %w", err)
	}
	return nil
}

func readYAML(path string, v any) error {
	data, err := os.ReadFile(path) //nolint:gosec
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, v)
}

// writeYAML replaces path through a temp file in the same directory.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
