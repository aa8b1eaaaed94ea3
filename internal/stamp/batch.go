package stamp

import (
	"context"

	"pdfstamp/internal/model"
)

// ProgressFunc receives cumulative progress after every attempt; success and
// failure both count toward completed.
type ProgressFunc func(completed, total int)

// Batch processes ordered input documents strictly one after another.
type Batch struct {
	stamper *Stamper
}

// NewBatch creates a batch runner around the given stamper.
func NewBatch(stamper *Stamper) *Batch {
	return &Batch{stamper: stamper}
}

// Stamper exposes the underlying per-document transform.
func (b *Batch) Stamper() *Stamper { return b.stamper }

// Process stamps every input in order and partitions the run into successes
// and failures. A failed document is recorded and skipped; it never aborts
// the batch. The context is only checked between documents: a cancellation
// leaves already-produced results intact and the remaining inputs unattempted.
func (b *Batch) Process(ctx context.Context, files []model.InputFile, opts model.StampOptions, progress ProgressFunc) *model.BatchResult {
	res := &model.BatchResult{Total: len(files)}

	for i, f := range files {
		if ctx.Err() != nil {
			break
		}

		out, pages, err := b.stamper.Stamp(f.Data, opts.Date)
		if err != nil {
			res.Failures = append(res.Failures, model.Failure{
				Filename: f.Name,
				Message:  err.Error(),
			})
		} else {
			res.Results = append(res.Results, model.ProcessedFile{
				OutputName:    OutputName(f.Name, opts.KeepOriginal),
				Data:          out,
				OriginalSize:  int64(len(f.Data)),
				ProcessedSize: int64(len(out)),
				Pages:         pages,
			})
		}

		if progress != nil {
			progress(i+1, len(files))
		}
	}
	return res
}
