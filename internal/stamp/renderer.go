package stamp

// Package stamp implements the completed-stamp transform: overlay rendering,
// per-document merging, output naming, and batch orchestration.

import (
	"bytes"
	"fmt"
	"os"

	"github.com/go-pdf/fpdf"
)

const inch = 72.0 // typographic inch in PDF points

// Overlay geometry, anchored to the page's top-right corner.
const (
	anchorRight = 2.0 * inch // anchor offset left of the right edge
	anchorTop   = 1.0 * inch // anchor offset below the top edge
	boxLeft     = 0.2 * inch // box inset left of the anchor
	boxTop      = 0.4 * inch // box inset above the anchor
	boxWidth    = 1.8 * inch
	boxHeight   = 0.8 * inch
	dateOffset  = 0.2 * inch // date baseline below the label baseline

	labelSize = 12.0
	dateSize  = 10.0
)

const utf8FontFamily = "stampfont"

// Renderer synthesizes single-page overlay documents containing the stamp.
// Font selection is decided once at construction and reused for every render;
// the fallback tier always succeeds, even if the label's script cannot be
// displayed correctly by the built-in font.
type Renderer struct {
	fontFile string
	family   string
	utf8     bool
}

// NewRenderer resolves the font strategy for the overlay. When fontFile names
// a readable TTF it is embedded per document so non-Latin labels render
// correctly; otherwise the core Helvetica font is used.
func NewRenderer(fontFile string) *Renderer {
	if fontFile != "" {
		if fi, err := os.Stat(fontFile); err == nil && !fi.IsDir() {
			return &Renderer{fontFile: fontFile, family: utf8FontFamily, utf8: true}
		}
	}
	return &Renderer{family: "Helvetica"}
}

// FontFamily reports the selected font tier, for health reporting.
func (r *Renderer) FontFamily() string {
	if r.utf8 {
		return r.family + " (" + r.fontFile + ")"
	}
	return r.family
}

// Render produces a one-page PDF of exactly width x height points carrying
// the stamp near the top-right corner: a white box at 80% opacity, a 2pt deep
// red border, the label, and the date on a smaller second line.
func (r *Renderer) Render(width, height float64, label, date string) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	if r.utf8 {
		pdf.AddUTF8Font(r.family, "", r.fontFile)
	}
	pdf.AddPage()

	// fpdf draws top-down, so the anchor sits anchorTop below the top edge.
	x := width - anchorRight
	y := anchorTop

	pdf.SetAlpha(0.8, "Normal")
	pdf.SetFillColor(255, 255, 255)
	pdf.Rect(x-boxLeft, y-boxTop, boxWidth, boxHeight, "F")
	pdf.SetAlpha(1.0, "Normal")

	pdf.SetDrawColor(204, 0, 0)
	pdf.SetLineWidth(2)
	pdf.Rect(x-boxLeft, y-boxTop, boxWidth, boxHeight, "D")

	pdf.SetTextColor(204, 0, 0)
	pdf.SetFont(r.family, "", labelSize)
	pdf.Text(x, y, label)
	pdf.SetFont(r.family, "", dateSize)
	pdf.Text(x, y+dateOffset, date)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailure, err)
	}
	return buf.Bytes(), nil
}
