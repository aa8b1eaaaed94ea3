package stamp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfstamp/internal/model"
)

func TestBatchProcess(t *testing.T) {
	b := NewBatch(newTestStamper())
	ctx := context.Background()

	// Document 2 is corrupted; the batch must still finish.
	files := []model.InputFile{
		{Name: "a.pdf", Data: makeTestPDF(t, 1)},
		{Name: "b.pdf", Data: []byte("broken")},
		{Name: "c.pdf", Data: makeTestPDF(t, 2)},
	}

	var progress [][2]int
	res := b.Process(ctx, files, model.StampOptions{Date: "2024/12/25", KeepOriginal: true}, func(completed, total int) {
		progress = append(progress, [2]int{completed, total})
	})

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Succeeded())
	assert.Equal(t, 1, res.Failed())

	require.Len(t, res.Results, 2)
	assert.Equal(t, "a_完了.pdf", res.Results[0].OutputName)
	assert.Equal(t, "c_完了.pdf", res.Results[1].OutputName)
	assert.Equal(t, int64(len(files[0].Data)), res.Results[0].OriginalSize)
	assert.Equal(t, int64(len(res.Results[0].Data)), res.Results[0].ProcessedSize)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "b.pdf", res.Failures[0].Filename)
	assert.NotEmpty(t, res.Failures[0].Message)

	// Progress counts every attempt, failures included.
	assert.Equal(t, [][2]int{{1, 3}, {2, 3}, {3, 3}}, progress)
}

func TestBatchReplaceModeKeepsNames(t *testing.T) {
	b := NewBatch(newTestStamper())

	res := b.Process(context.Background(), []model.InputFile{
		{Name: "report.pdf", Data: makeTestPDF(t, 1)},
	}, model.StampOptions{Date: "2024/12/25", KeepOriginal: false}, nil)

	require.Len(t, res.Results, 1)
	assert.Equal(t, "report.pdf", res.Results[0].OutputName)
}

func TestBatchEmptyInput(t *testing.T) {
	b := NewBatch(newTestStamper())

	res := b.Process(context.Background(), nil, model.StampOptions{Date: "2024/12/25"}, nil)
	assert.Equal(t, 0, res.Total)
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Failures)
}

func TestBatchCancelledContext(t *testing.T) {
	b := NewBatch(newTestStamper())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := b.Process(ctx, []model.InputFile{
		{Name: "a.pdf", Data: makeTestPDF(t, 1)},
	}, model.StampOptions{Date: "2024/12/25"}, nil)

	// Unstarted inputs are simply never attempted.
	assert.Empty(t, res.Results)
	assert.Empty(t, res.Failures)
}
