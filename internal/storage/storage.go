package storage

import (
	"context"
	"errors"
)

// Package storage contains destination abstractions for persisting stamped
// documents: a local directory and an S3-compatible object store.

// ErrWouldOverwrite is returned when a write targets a name that already
// exists. Destinations never replace existing files; callers pick a fresh
// name and retry.
var ErrWouldOverwrite = errors.New("destination file already exists")

// Destination is a write-once sink for processed documents.
type Destination interface {
	// Exists reports whether a file of the given name is already present.
	Exists(ctx context.Context, name string) (bool, error)
	// Write stores data under name and returns the final path or URI.
	// It fails with ErrWouldOverwrite rather than replacing an existing file.
	Write(ctx context.Context, name string, data []byte) (string, error)
}
