package sink

import (
	"bytes"
	"context"
	"errors"
	"image/color"
	"testing"
	"time"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/imagefile"
	"github.com/matzehuels/imagesheet/pkg/layout"
)

func pageCount(pdf []byte) int {
	return bytes.Count(pdf, []byte("/Type /Page\n"))
}

func TestPDFBlankDocument(t *testing.T) {
	var buf bytes.Buffer
	g := layout.A4(layout.DefaultMarginMM, layout.DefaultColumns)

	r, err := NewPDF(&buf, g)
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("NewPDF wrote output before Close")
	}
	if err := RenderAll(context.Background(), layout.Layout{Geometry: g}, r); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
	if got := pageCount(buf.Bytes()); got != 1 {
		t.Errorf("pages = %d, want 1", got)
	}
}

func TestPDFPages(t *testing.T) {
	dir := t.TempDir()
	g := layout.A4(layout.DefaultMarginMM, layout.DefaultColumns)

	// Six 1:6 strips overflow the five columns of the first page.
	var paths []string
	for _, name := range []string{"a.png", "b.jpg", "c.png", "d.jpg", "e.png", "f.jpg"} {
		paths = append(paths, saveImage(t, dir, name, solid(10, 60, color.NRGBA{R: 200, A: 255})))
	}
	l := packFiles(t, g, paths...)
	if l.Pages() != 2 {
		t.Fatalf("layout spans %d pages, want 2", l.Pages())
	}

	var buf bytes.Buffer
	r, err := NewPDF(&buf, g, WithTitle("contact sheet"))
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}
	if err := RenderAll(context.Background(), l, r); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if got := pageCount(buf.Bytes()); got != 2 {
		t.Errorf("pages = %d, want 2", got)
	}
	if r.Pages() != 2 {
		t.Errorf("Pages() = %d, want 2", r.Pages())
	}
}

func TestPDFTranscodedFormats(t *testing.T) {
	dir := t.TempDir()
	g := layout.A4(layout.DefaultMarginMM, layout.DefaultColumns)
	paths := []string{
		saveImage(t, dir, "a.bmp", solid(40, 30, color.NRGBA{G: 200, A: 255})),
		saveImage(t, dir, "b.tiff", solid(30, 40, color.NRGBA{B: 200, A: 255})),
	}

	var buf bytes.Buffer
	r, err := NewPDF(&buf, g)
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}
	if err := RenderAll(context.Background(), packFiles(t, g, paths...), r); err != nil {
		t.Fatalf("RenderAll: %v", err)
	}
	if got := pageCount(buf.Bytes()); got != 1 {
		t.Errorf("pages = %d, want 1", got)
	}
}

func TestPDFPayloadError(t *testing.T) {
	g := layout.A4(layout.DefaultMarginMM, layout.DefaultColumns)
	missing := errs.New(errs.ErrCodeDecode, "gone")

	var buf bytes.Buffer
	r, err := NewPDF(&buf, g, WithPayloads(func(context.Context, layout.Placement) (imagefile.Payload, error) {
		return imagefile.Payload{}, missing
	}))
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}

	err = RenderAll(context.Background(), testLayout(1), r)
	if !errors.Is(err, missing) {
		t.Fatalf("RenderAll error = %v, want %v", err, missing)
	}
}

func TestPDFCloseTwice(t *testing.T) {
	var buf bytes.Buffer
	r, err := NewPDF(&buf, layout.A4(0, 1), WithCreationDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("NewPDF: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	n := buf.Len()
	if err := r.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if buf.Len() != n {
		t.Error("second Close wrote more output")
	}
	if err := r.Draw(context.Background(), layout.Placement{}); err == nil {
		t.Error("Draw after Close succeeded")
	}
}

func TestNewPDFInvalidGeometry(t *testing.T) {
	_, err := NewPDF(&bytes.Buffer{}, layout.A4(0.5, 0))
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Fatalf("NewPDF error = %v, want %s", err, errs.ErrCodeInvalidConfig)
	}
}
