package sink

import (
	"context"
	"encoding/json"
	"io"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/layout"
)

// JSON collects placements and writes them, with the page geometry, as
// one indented document on Close.
type JSON struct {
	w          io.Writer
	geom       layout.Geometry
	placements []layout.Placement
	closed     bool
}

type jsonDocument struct {
	Geometry   layout.Geometry    `json:"geometry"`
	CellWidth  float64            `json:"cell_width"`
	Pages      int                `json:"pages"`
	Placements []layout.Placement `json:"placements"`
}

// NewJSON returns a geometry dump writing to w.
func NewJSON(w io.Writer, g layout.Geometry) *JSON {
	return &JSON{w: w, geom: g, placements: []layout.Placement{}}
}

// Draw records p.
func (r *JSON) Draw(_ context.Context, p layout.Placement) error {
	if r.closed {
		return errs.New(errs.ErrCodeInternal, "json: draw after close")
	}
	r.placements = append(r.placements, p)
	return nil
}

// Close writes the document. Calling Close again is a no-op.
func (r *JSON) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	doc := jsonDocument{
		Geometry:   r.geom,
		CellWidth:  r.geom.CellWidth(),
		Pages:      max(1, layout.Layout{Placements: r.placements}.Pages()),
		Placements: r.placements,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "json: encode layout")
	}
	if _, err := r.w.Write(append(data, '\n')); err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "json: write layout")
	}
	return nil
}

var _ PageRenderer = (*JSON)(nil)
