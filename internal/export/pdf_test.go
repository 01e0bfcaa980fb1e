package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nithin01010/AI-Teacher/internal/interp"
)

func TestPDFProducesDocument(t *testing.T) {
	t.Parallel()

	drawables := []interp.Drawable{
		{Op: interp.OpText, Text: "Pythagoras", X: 100, Y: 40, FontSize: 24},
		{Op: interp.OpEquation, Latex: "a^2+b^2=c^2", X: 100, Y: 120, FontSize: 20},
		{Op: interp.OpPolyline, Points: []float64{100, 600, 400, 600, 400, 300, 100, 600}, StrokeWidth: 2},
		{Op: interp.OpRect, X: 600, Y: 200, Width: 300, Height: 150},
	}

	var buf bytes.Buffer
	if err := PDF(&buf, drawables); err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF") {
		t.Error("Output missing PDF header")
	}
	if !strings.Contains(out, "%%EOF") {
		t.Error("Output missing PDF trailer")
	}
}

func TestPDFEmptyCanvas(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := PDF(&buf, nil); err != nil {
		t.Fatalf("PDF failed on empty canvas: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("Empty canvas should still yield a document")
	}
}
