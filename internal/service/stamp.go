package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pdfstamp/internal/metrics"
	"pdfstamp/internal/model"
	"pdfstamp/internal/stamp"
	"pdfstamp/internal/storage"
)

var (
	ErrNoDestination   = errors.New("no destination configured")
	ErrInputDirMissing = errors.New("input directory not found")
)

// StampService defines the use cases for stamping documents.
type StampService interface {
	// ProcessBatch stamps every input in order and returns the partitioned
	// result; the stamped bytes stay in memory for the caller to deliver.
	ProcessBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error)

	// PersistBatch stamps every input and writes each result to the
	// configured destination under a collision-safe name. A failed write is
	// recorded as a failure; the result keeps an empty persisted path.
	PersistBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error)

	// ProcessDir stamps every *.pdf file in a local directory in place and,
	// when destDir is non-empty, moves the stamped files there using
	// collision-safe naming.
	ProcessDir(ctx context.Context, inputDir, destDir string, opts model.StampOptions) (*model.BatchResult, error)
}

// stampService is a concrete implementation of StampService.
type stampService struct {
	batch *stamp.Batch
	dest  storage.Destination
	m     *metrics.Metrics
}

// NewStampService constructs a new StampService. dest may be nil when the
// deployment only serves downloads; m may be nil in tests.
func NewStampService(batch *stamp.Batch, dest storage.Destination, m *metrics.Metrics) StampService {
	return &stampService{batch: batch, dest: dest, m: m}
}

func (s *stampService) ProcessBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error) {
	start := time.Now()
	res := s.batch.Process(ctx, files, opts, func(completed, total int) {
		logJSON(map[string]any{
			"msg":       "stamp_progress",
			"completed": completed,
			"total":     total,
		})
	})

	if s.m != nil {
		s.m.BatchDuration.Observe(time.Since(start).Seconds())
		for _, r := range res.Results {
			s.m.DocumentsProcessed.WithLabelValues("success").Inc()
			s.m.PagesStamped.Add(float64(r.Pages))
		}
		for range res.Failures {
			s.m.DocumentsProcessed.WithLabelValues("failure").Inc()
		}
	}
	return res, nil
}

func (s *stampService) PersistBatch(ctx context.Context, files []model.InputFile, opts model.StampOptions) (*model.BatchResult, error) {
	if s.dest == nil {
		return nil, ErrNoDestination
	}
	res, err := s.ProcessBatch(ctx, files, opts)
	if err != nil {
		return nil, err
	}

	for i := range res.Results {
		r := &res.Results[i]
		path, err := s.persist(ctx, s.dest, r.OutputName, r.Data)
		if err != nil {
			res.Failures = append(res.Failures, model.Failure{
				Filename: r.OutputName,
				Message:  fmt.Sprintf("persist: %v", err),
			})
			continue
		}
		r.PersistedPath = path
		if s.m != nil {
			s.m.DocumentsPersisted.Inc()
		}
	}
	return res, nil
}

func (s *stampService) ProcessDir(ctx context.Context, inputDir, destDir string, opts model.StampOptions) (*model.BatchResult, error) {
	if fi, err := os.Stat(inputDir); err != nil || !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrInputDirMissing, inputDir)
	}

	paths, err := filepath.Glob(filepath.Join(inputDir, "*.pdf"))
	if err != nil {
		return nil, fmt.Errorf("scan input directory: %w", err)
	}

	res := &model.BatchResult{Total: len(paths)}
	files := make([]model.InputFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			res.Failures = append(res.Failures, model.Failure{Filename: filepath.Base(p), Message: err.Error()})
			continue
		}
		files = append(files, model.InputFile{Name: filepath.Base(p), Data: data})
	}

	stamped, err := s.ProcessBatch(ctx, files, opts)
	if err != nil {
		return nil, err
	}
	res.Failures = append(res.Failures, stamped.Failures...)
	res.Results = stamped.Results

	// First pass writes stamped files back into the input directory,
	// replacing the originals in replace mode.
	for i := range res.Results {
		r := &res.Results[i]
		p := filepath.Join(inputDir, r.OutputName)
		if err := os.WriteFile(p, r.Data, 0o644); err != nil {
			res.Failures = append(res.Failures, model.Failure{Filename: r.OutputName, Message: err.Error()})
			continue
		}
		r.PersistedPath = p
	}

	if destDir == "" {
		return res, nil
	}

	dest, err := storage.NewLocalDir(destDir)
	if err != nil {
		return nil, err
	}
	for i := range res.Results {
		r := &res.Results[i]
		if r.PersistedPath == "" {
			continue
		}
		src := r.PersistedPath
		path, err := s.persist(ctx, dest, r.OutputName, r.Data)
		if err != nil {
			res.Failures = append(res.Failures, model.Failure{
				Filename: r.OutputName,
				Message:  fmt.Sprintf("move: %v", err),
			})
			continue
		}
		if err := os.Remove(src); err != nil {
			res.Failures = append(res.Failures, model.Failure{
				Filename: r.OutputName,
				Message:  fmt.Sprintf("remove source: %v", err),
			})
		}
		r.PersistedPath = path
		if s.m != nil {
			s.m.DocumentsPersisted.Inc()
		}
	}
	return res, nil
}

// persist writes data to dest under the first collision-free variant of name.
func (s *stampService) persist(ctx context.Context, dest storage.Destination, name string, data []byte) (string, error) {
	unique, err := stamp.UniqueName(name, func(n string) (bool, error) {
		return dest.Exists(ctx, n)
	})
	if err != nil {
		return "", err
	}
	return dest.Write(ctx, unique, data)
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		data["level"] = "info"
	}
	b, err := json.Marshal(data)
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
