package sink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/matzehuels/imagesheet/pkg/buildinfo"
	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/imagefile"
	"github.com/matzehuels/imagesheet/pkg/layout"
)

// PayloadFunc returns the embeddable bytes for a placement's image.
type PayloadFunc func(ctx context.Context, p layout.Placement) (imagefile.Payload, error)

// PDFOption configures a [PDF] sink.
type PDFOption func(*PDF)

// WithPayloads sets how image bytes are obtained. The default probes and
// loads each path with an uncached [imagefile.Loader].
func WithPayloads(fn PayloadFunc) PDFOption {
	return func(r *PDF) { r.payloads = fn }
}

// WithCreationDate pins the document creation date. Two runs with the
// same date and inputs produce the same file.
func WithCreationDate(t time.Time) PDFOption {
	return func(r *PDF) { r.created = t }
}

// WithTitle sets the document title metadata.
func WithTitle(title string) PDFOption {
	return func(r *PDF) { r.title = title }
}

// PDF renders placements into a single PDF document. The document always
// has at least one page, even when nothing is drawn.
type PDF struct {
	w        io.Writer
	doc      *gofpdf.Fpdf
	geom     layout.Geometry
	payloads PayloadFunc
	created  time.Time
	title    string
	page     int
	closed   bool
}

// DefaultCreationDate is used unless [WithCreationDate] overrides it.
var DefaultCreationDate = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// NewPDF starts a document with g's page size and opens its first page.
// Nothing is written to w until Close.
func NewPDF(w io.Writer, g layout.Geometry, opts ...PDFOption) (*PDF, error) {
	if err := g.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "pdf page geometry")
	}

	r := &PDF{w: w, geom: g, created: DefaultCreationDate}
	for _, opt := range opts {
		opt(r)
	}
	if r.payloads == nil {
		r.payloads = defaultPayloads()
	}

	doc := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.SetCatalogSort(true)
	doc.SetCreationDate(r.created)
	doc.SetCreator(buildinfo.Creator(), true)
	if r.title != "" {
		doc.SetTitle(r.title, true)
	}
	doc.AddPage()

	r.doc = doc
	return r, nil
}

// Draw embeds the placement's image, adding pages up to p.Page first.
func (r *PDF) Draw(ctx context.Context, p layout.Placement) error {
	if r.closed {
		return errs.New(errs.ErrCodeInternal, "pdf: draw after close")
	}
	for r.page < p.Page {
		r.doc.AddPage()
		r.page++
	}

	payload, err := r.payloads(ctx, p)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("img%d", p.Index)
	opt := gofpdf.ImageOptions{ImageType: payload.Type}
	r.doc.RegisterImageOptionsReader(name, opt, bytes.NewReader(payload.Data))
	r.doc.ImageOptions(name, p.X, p.TopDownY(r.geom.PageHeight), p.Width, p.Height, false, opt, 0, "")

	if err := r.doc.Error(); err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "pdf: draw %s", p.Path)
	}
	return nil
}

// Pages returns the number of pages opened so far.
func (r *PDF) Pages() int { return r.page + 1 }

// Close writes the finished document to w. Calling Close again is a no-op.
func (r *PDF) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.doc.Output(r.w); err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "pdf: write document")
	}
	return nil
}

func defaultPayloads() PayloadFunc {
	prober := imagefile.NewProber()
	loader := imagefile.NewLoader(nil)
	return func(ctx context.Context, p layout.Placement) (imagefile.Payload, error) {
		im, err := prober.Probe(p.Path)
		if err != nil {
			return imagefile.Payload{}, err
		}
		return loader.Load(ctx, im)
	}
}

var _ PageRenderer = (*PDF)(nil)
