package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfstamp/internal/model"
	"pdfstamp/internal/stamp"
	"pdfstamp/internal/storage"
	storeMocks "pdfstamp/internal/storage/mocks"
)

func makeTestPDF(t *testing.T, pages int) []byte {
	t.Helper()
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("page %d", i+1))
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

func newTestBatch() *stamp.Batch {
	return stamp.NewBatch(stamp.NewStamper(stamp.NewRenderer(""), "作業完了"))
}

func TestStampService_ProcessBatch(t *testing.T) {
	ctx := context.Background()
	svc := NewStampService(newTestBatch(), nil, nil)

	files := []model.InputFile{
		{Name: "a.pdf", Data: makeTestPDF(t, 2)},
		{Name: "b.pdf", Data: []byte("corrupt")},
		{Name: "c.pdf", Data: makeTestPDF(t, 1)},
	}

	res, err := svc.ProcessBatch(ctx, files, model.StampOptions{Date: "2024/12/25", KeepOriginal: true})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Succeeded())
	assert.Equal(t, 1, res.Failed())
	assert.Equal(t, "b.pdf", res.Failures[0].Filename)
}

func TestStampService_PersistBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("no destination configured", func(t *testing.T) {
		svc := NewStampService(newTestBatch(), nil, nil)
		_, err := svc.PersistBatch(ctx, nil, model.StampOptions{})
		assert.ErrorIs(t, err, ErrNoDestination)
	})

	t.Run("happy path", func(t *testing.T) {
		mDest := new(storeMocks.MockDestination)
		mDest.On("Exists", ctx, "a_完了.pdf").Return(false, nil)
		mDest.On("Write", ctx, "a_完了.pdf", mock.Anything).Return("/out/a_完了.pdf", nil)

		svc := NewStampService(newTestBatch(), mDest, nil)
		res, err := svc.PersistBatch(ctx, []model.InputFile{
			{Name: "a.pdf", Data: makeTestPDF(t, 1)},
		}, model.StampOptions{Date: "2024/12/25", KeepOriginal: true})
		require.NoError(t, err)

		require.Len(t, res.Results, 1)
		assert.Equal(t, "/out/a_完了.pdf", res.Results[0].PersistedPath)
		mDest.AssertExpectations(t)
	})

	t.Run("collision gets counter suffix", func(t *testing.T) {
		mDest := new(storeMocks.MockDestination)
		mDest.On("Exists", ctx, "report.pdf").Return(true, nil)
		mDest.On("Exists", ctx, "report_1.pdf").Return(false, nil)
		mDest.On("Write", ctx, "report_1.pdf", mock.Anything).Return("/out/report_1.pdf", nil)

		svc := NewStampService(newTestBatch(), mDest, nil)
		res, err := svc.PersistBatch(ctx, []model.InputFile{
			{Name: "report.pdf", Data: makeTestPDF(t, 1)},
		}, model.StampOptions{Date: "2024/12/25", KeepOriginal: false})
		require.NoError(t, err)

		assert.Equal(t, "/out/report_1.pdf", res.Results[0].PersistedPath)
		mDest.AssertExpectations(t)
	})

	t.Run("write failure recorded, result kept without path", func(t *testing.T) {
		mDest := new(storeMocks.MockDestination)
		mDest.On("Exists", ctx, "a_完了.pdf").Return(false, nil)
		mDest.On("Write", ctx, "a_完了.pdf", mock.Anything).Return("", errors.New("disk full"))

		svc := NewStampService(newTestBatch(), mDest, nil)
		res, err := svc.PersistBatch(ctx, []model.InputFile{
			{Name: "a.pdf", Data: makeTestPDF(t, 1)},
		}, model.StampOptions{Date: "2024/12/25", KeepOriginal: true})
		require.NoError(t, err)

		require.Len(t, res.Results, 1)
		assert.Empty(t, res.Results[0].PersistedPath)
		require.Len(t, res.Failures, 1)
		assert.Contains(t, res.Failures[0].Message, "disk full")
		mDest.AssertExpectations(t)
	})

	t.Run("existing destination file is never touched", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "report.pdf"), []byte("original"), 0o644))

		dest, err := storage.NewLocalDir(dir)
		require.NoError(t, err)

		svc := NewStampService(newTestBatch(), dest, nil)
		res, err := svc.PersistBatch(ctx, []model.InputFile{
			{Name: "report.pdf", Data: makeTestPDF(t, 1)},
		}, model.StampOptions{Date: "2024/12/25", KeepOriginal: false})
		require.NoError(t, err)

		assert.Equal(t, filepath.Join(dir, "report_1.pdf"), res.Results[0].PersistedPath)

		content, err := os.ReadFile(filepath.Join(dir, "report.pdf"))
		require.NoError(t, err)
		assert.Equal(t, []byte("original"), content)
	})
}

func TestStampService_ProcessDir(t *testing.T) {
	ctx := context.Background()

	t.Run("missing input directory", func(t *testing.T) {
		svc := NewStampService(newTestBatch(), nil, nil)
		_, err := svc.ProcessDir(ctx, filepath.Join(t.TempDir(), "nope"), "", model.StampOptions{Date: "2024/12/25"})
		assert.ErrorIs(t, err, ErrInputDirMissing)
	})

	t.Run("stamps in place", func(t *testing.T) {
		dir := t.TempDir()
		original := makeTestPDF(t, 2)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pdf"), original, 0o644))

		svc := NewStampService(newTestBatch(), nil, nil)
		res, err := svc.ProcessDir(ctx, dir, "", model.StampOptions{Date: "2024/12/25"})
		require.NoError(t, err)

		require.Len(t, res.Results, 1)
		assert.Equal(t, filepath.Join(dir, "a.pdf"), res.Results[0].PersistedPath)

		// Replace mode: the file was overwritten with the stamped version.
		stamped, err := os.ReadFile(filepath.Join(dir, "a.pdf"))
		require.NoError(t, err)
		assert.NotEqual(t, original, stamped)
	})

	t.Run("moves results to destination with collision-safe names", func(t *testing.T) {
		inDir := t.TempDir()
		destDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(inDir, "a.pdf"), makeTestPDF(t, 1), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(destDir, "a.pdf"), []byte("already there"), 0o644))

		svc := NewStampService(newTestBatch(), nil, nil)
		res, err := svc.ProcessDir(ctx, inDir, destDir, model.StampOptions{Date: "2024/12/25"})
		require.NoError(t, err)

		require.Len(t, res.Results, 1)
		assert.Equal(t, filepath.Join(destDir, "a_1.pdf"), res.Results[0].PersistedPath)

		// Moved out of the input directory, pre-existing file untouched.
		_, err = os.Stat(filepath.Join(inDir, "a.pdf"))
		assert.True(t, os.IsNotExist(err))
		content, err := os.ReadFile(filepath.Join(destDir, "a.pdf"))
		require.NoError(t, err)
		assert.Equal(t, []byte("already there"), content)
	})

	t.Run("empty directory yields empty result", func(t *testing.T) {
		svc := NewStampService(newTestBatch(), nil, nil)
		res, err := svc.ProcessDir(ctx, t.TempDir(), "", model.StampOptions{Date: "2024/12/25"})
		require.NoError(t, err)
		assert.Equal(t, 0, res.Total)
	})
}
