package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalDirCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")

	ld, err := NewLocalDir(dir)
	require.NoError(t, err)

	fi, err := os.Stat(ld.Dir())
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestNewLocalDirRequiresPath(t *testing.T) {
	_, err := NewLocalDir("")
	assert.Error(t, err)
}

func TestLocalDirWriteAndExists(t *testing.T) {
	ctx := context.Background()
	ld, err := NewLocalDir(t.TempDir())
	require.NoError(t, err)

	taken, err := ld.Exists(ctx, "report.pdf")
	require.NoError(t, err)
	assert.False(t, taken)

	path, err := ld.Write(ctx, "report.pdf", []byte("stamped"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ld.Dir(), "report.pdf"), path)

	taken, err = ld.Exists(ctx, "report.pdf")
	require.NoError(t, err)
	assert.True(t, taken)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("stamped"), content)
}

func TestLocalDirNeverOverwrites(t *testing.T) {
	ctx := context.Background()
	ld, err := NewLocalDir(t.TempDir())
	require.NoError(t, err)

	_, err = ld.Write(ctx, "report.pdf", []byte("first"))
	require.NoError(t, err)

	_, err = ld.Write(ctx, "report.pdf", []byte("second"))
	assert.ErrorIs(t, err, ErrWouldOverwrite)

	// The original file is untouched.
	content, err := os.ReadFile(filepath.Join(ld.Dir(), "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), content)
}

func TestLocalDirFlattensNames(t *testing.T) {
	ctx := context.Background()
	ld, err := NewLocalDir(t.TempDir())
	require.NoError(t, err)

	// Path components in uploaded names must not escape the directory.
	path, err := ld.Write(ctx, "../../escape.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(ld.Dir(), "escape.pdf"), path)
}
