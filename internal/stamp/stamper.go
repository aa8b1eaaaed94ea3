package stamp

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var (
	// ErrMalformedDocument marks input that cannot be parsed or has no pages.
	ErrMalformedDocument = errors.New("malformed document")
	// ErrRenderFailure marks a failed overlay synthesis.
	ErrRenderFailure = errors.New("overlay render failure")
)

// The overlay is page-sized, so it is applied unscaled and centered on top of
// each page. Pages whose size differs from page 1 get a mis-placed stamp;
// that limitation is intentional.
const overlayDetails = "scale:1 abs, pos:c, rot:0, op:1"

// Stamper applies the completed stamp to whole documents.
type Stamper struct {
	renderer *Renderer
	label    string
	conf     *pdfmodel.Configuration
}

// NewStamper creates a Stamper drawing overlays with the given renderer and
// fixed label text.
func NewStamper(renderer *Renderer, label string) *Stamper {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed
	return &Stamper{renderer: renderer, label: label, conf: conf}
}

// Label returns the fixed stamp text.
func (s *Stamper) Label() string { return s.label }

// Stamp composites the overlay above every page of input and returns the new
// document plus its page count. The output always has the same page count and
// page order as the input. The overlay is rendered once, sized to the first
// page's geometry.
func (s *Stamper) Stamp(input []byte, date string) ([]byte, int, error) {
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(input), s.conf)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if ctx.PageCount == 0 {
		return nil, 0, fmt.Errorf("%w: document has no pages", ErrMalformedDocument)
	}

	dims, err := ctx.PageDims()
	if err != nil || len(dims) == 0 {
		return nil, 0, fmt.Errorf("%w: cannot determine page geometry", ErrMalformedDocument)
	}

	overlay, err := s.renderer.Render(dims[0].Width, dims[0].Height, s.label, date)
	if err != nil {
		return nil, 0, err
	}

	// pdfcpu resolves PDF watermarks by file name, so the overlay takes a
	// detour through a temp file.
	tmp, err := os.CreateTemp("", "pdfstamp-overlay-*.pdf")
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(overlay); err != nil {
		tmp.Close()
		return nil, 0, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	wm, err := pdfcpu.ParsePDFWatermarkDetails(tmp.Name(), overlayDetails, true, types.POINTS)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}

	var out bytes.Buffer
	if err := api.AddWatermarks(bytes.NewReader(input), &out, nil, wm, s.conf); err != nil {
		return nil, 0, fmt.Errorf("apply stamp: %w", err)
	}
	return out.Bytes(), ctx.PageCount, nil
}
