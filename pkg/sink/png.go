package sink

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/imagefile"
	"github.com/matzehuels/imagesheet/pkg/layout"
)

// DefaultPreviewScale is one pixel per point.
const DefaultPreviewScale = 1.0

// ImageFunc returns the decoded image for a placement.
type ImageFunc func(ctx context.Context, p layout.Placement) (image.Image, error)

// EmitFunc receives one finished preview page as encoded PNG bytes.
type EmitFunc func(page int, data []byte) error

// PNGOption configures a [PNG] sink.
type PNGOption func(*PNG)

// WithScale sets pixels per point. Non-positive values keep the default.
func WithScale(scale float64) PNGOption {
	return func(r *PNG) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

// WithImages sets how images are decoded. The default decodes each path
// from disk.
func WithImages(fn ImageFunc) PNGOption {
	return func(r *PNG) { r.images = fn }
}

// WithBackground sets the page fill color. The default is white.
func WithBackground(c color.Color) PNGOption {
	return func(r *PNG) { r.background = c }
}

// PNG renders one raster preview per page. Pages are emitted as soon as
// drawing moves past them; Close emits the last one. Pages without
// placements are still emitted blank, so page numbers match the PDF.
type PNG struct {
	geom       layout.Geometry
	emit       EmitFunc
	images     ImageFunc
	scale      float64
	background color.Color

	dc     *gg.Context
	page   int
	closed bool
}

// NewPNG starts a preview renderer for g and opens its first page.
func NewPNG(g layout.Geometry, emit EmitFunc, opts ...PNGOption) (*PNG, error) {
	if err := g.Validate(); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "png page geometry")
	}
	if emit == nil {
		return nil, errs.New(errs.ErrCodeInternal, "png: nil emit func")
	}

	r := &PNG{
		geom:       g,
		emit:       emit,
		scale:      DefaultPreviewScale,
		background: color.White,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.images == nil {
		r.images = func(_ context.Context, p layout.Placement) (image.Image, error) {
			return imagefile.Decode(p.Path)
		}
	}

	r.newPage()
	return r, nil
}

// Draw scales the placement's image into its cell, flushing finished
// pages first.
func (r *PNG) Draw(ctx context.Context, p layout.Placement) error {
	if r.closed {
		return errs.New(errs.ErrCodeInternal, "png: draw after close")
	}
	for r.page < p.Page {
		if err := r.flush(); err != nil {
			return err
		}
		r.page++
		r.newPage()
	}

	img, err := r.images(ctx, p)
	if err != nil {
		return err
	}

	w, h := r.px(p.Width), r.px(p.Height)
	thumb := imaging.Resize(img, w, h, imaging.Lanczos)
	r.dc.DrawImage(thumb, int(math.Round(p.X*r.scale)), int(math.Round(p.TopDownY(r.geom.PageHeight)*r.scale)))
	return nil
}

// Close emits the current page. Calling Close again is a no-op.
func (r *PNG) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.flush()
}

func (r *PNG) newPage() {
	dc := gg.NewContext(r.px(r.geom.PageWidth), r.px(r.geom.PageHeight))
	dc.SetColor(r.background)
	dc.Clear()
	r.dc = dc
}

func (r *PNG) flush() error {
	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "png: encode page %d", r.page)
	}
	return r.emit(r.page, buf.Bytes())
}

func (r *PNG) px(pt float64) int {
	return max(1, int(math.Round(pt*r.scale)))
}

var _ PageRenderer = (*PNG)(nil)
