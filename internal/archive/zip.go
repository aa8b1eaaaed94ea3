package archive

// Package archive bundles processed documents into a single deflate zip for
// bulk download, one entry per output file.

import (
	"archive/zip"
	"bytes"
	"fmt"

	"pdfstamp/internal/model"
)

// Build writes one zip entry per processed file, named after its output name.
func Build(files []model.ProcessedFile) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range files {
		w, err := zw.Create(f.OutputName)
		if err != nil {
			return nil, fmt.Errorf("create zip entry %s: %w", f.OutputName, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write zip entry %s: %w", f.OutputName, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finalize zip: %w", err)
	}
	return buf.Bytes(), nil
}
