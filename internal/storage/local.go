package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDir persists stamped documents into a directory on the local
// filesystem. Names are flattened with filepath.Base so uploaded filenames
// cannot escape the directory.
type LocalDir struct {
	dir string
}

// NewLocalDir creates the destination directory if needed.
func NewLocalDir(dir string) (*LocalDir, error) {
	if dir == "" {
		return nil, fmt.Errorf("destination directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}
	return &LocalDir{dir: dir}, nil
}

// Dir returns the destination directory path.
func (l *LocalDir) Dir() string { return l.dir }

func (l *LocalDir) path(name string) string {
	return filepath.Join(l.dir, filepath.Base(name))
}

// Exists reports whether name is already present in the directory.
func (l *LocalDir) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(l.path(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Write stores data under name, refusing to replace an existing file.
// O_EXCL keeps the no-overwrite guarantee even when two writers race.
func (l *LocalDir) Write(_ context.Context, name string, data []byte) (string, error) {
	p := l.path(name)
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("%w: %s", ErrWouldOverwrite, p)
		}
		return "", fmt.Errorf("create %s: %w", p, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(p)
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", p, err)
	}
	return p, nil
}

var _ Destination = (*LocalDir)(nil)
