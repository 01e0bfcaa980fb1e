// Package export renders interpreted drawables to a PDF document.
package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/nithin01010/AI-Teacher/internal/interp"
)

// Canvas dimensions assumed by the command contract, in pixels.
const (
	CanvasWidth  = 1200
	CanvasHeight = 800
)

const pageMargin = 10 // mm

// PDF writes the drawables onto a single landscape A4 page, scaled so the
// whole 1200x800 canvas fits inside the margins. Equations are drawn as
// italic text of their raw markup; PDF output has no typesetting engine.
func PDF(w io.Writer, drawables []interp.Drawable) error {
	p := gofpdf.New("L", "mm", "A4", "")
	p.AddPage()
	p.SetDrawColor(0, 0, 0)
	p.SetTextColor(26, 26, 26)

	pageW, pageH := p.GetPageSize()
	scaleX := (pageW - 2*pageMargin) / CanvasWidth
	scaleY := (pageH - 2*pageMargin) / CanvasHeight
	scale := scaleX
	if scaleY < scale {
		scale = scaleY
	}
	tx := func(v float64) float64 { return pageMargin + v*scale }
	ty := func(v float64) float64 { return pageMargin + v*scale }

	for _, d := range drawables {
		switch d.Op {
		case interp.OpText:
			p.SetFont("Helvetica", "", fontPt(d.FontSize, scale))
			p.Text(tx(d.X), ty(d.Y), d.Text)
		case interp.OpEquation:
			p.SetFont("Helvetica", "I", fontPt(d.FontSize, scale))
			p.Text(tx(d.X), ty(d.Y), d.Latex)
		case interp.OpPolyline:
			p.SetLineWidth(lineWidth(d.StrokeWidth, scale))
			for i := 3; i < len(d.Points); i += 2 {
				p.Line(
					tx(d.Points[i-3]), ty(d.Points[i-2]),
					tx(d.Points[i-1]), ty(d.Points[i]),
				)
			}
		case interp.OpRect:
			p.SetLineWidth(lineWidth(1, scale))
			p.Rect(tx(d.X), ty(d.Y), d.Width*scale, d.Height*scale, "D")
		}
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}
	return nil
}

// fontPt converts a canvas-pixel font size to PDF points at the page scale.
func fontPt(px, scale float64) float64 {
	if px <= 0 {
		px = interp.DefaultFontSize
	}
	pt := px * scale * 2.83 // mm to pt
	if pt < 4 {
		pt = 4
	}
	return pt
}

func lineWidth(stroke, scale float64) float64 {
	if stroke <= 0 {
		stroke = 1
	}
	w := stroke * scale
	if w < 0.2 {
		w = 0.2
	}
	return w
}
