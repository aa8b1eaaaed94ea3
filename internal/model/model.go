package model

// Package model contains domain models/data structures.
// These are pure data types with no PDF- or HTTP-specific dependencies,
// shared across the stamping, storage, and HTTP layers.

// InputFile is a named binary blob supplied by the hosting shell
// (multipart upload or directory scan).
type InputFile struct {
	Name string
	Data []byte
}

// StampOptions is the per-run configuration supplied by the caller before a
// batch starts. Date is free text echoed verbatim into the overlay; it is not
// parsed or validated as a calendar date.
type StampOptions struct {
	Date         string `json:"date"`
	KeepOriginal bool   `json:"keep_original"`
}

// ProcessedFile is the immutable record of one successfully stamped input.
type ProcessedFile struct {
	OutputName    string `json:"output_name"`
	Data          []byte `json:"-"`
	OriginalSize  int64  `json:"original_size"`
	ProcessedSize int64  `json:"processed_size"`
	Pages         int    `json:"pages"`
	PersistedPath string `json:"persisted_path,omitempty"`
}

// Failure records one skipped input: the file that failed and a
// human-readable message. A failure never aborts the batch.
type Failure struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// BatchResult partitions one run into successes and failures.
// Completed always equals Total: every input is attempted exactly once.
type BatchResult struct {
	Results  []ProcessedFile `json:"results"`
	Failures []Failure       `json:"failures"`
	Total    int             `json:"total"`
}

// Succeeded returns the number of successfully processed inputs.
func (r *BatchResult) Succeeded() int { return len(r.Results) }

// Failed returns the number of recorded failures.
func (r *BatchResult) Failed() int { return len(r.Failures) }
