package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSize is returned when an image has a non-positive or
// non-finite dimension. The cursor is left untouched.
var ErrInvalidSize = errors.New("image dimensions must be positive")

// Size holds the intrinsic pixel dimensions of an image.
type Size struct {
	Width  float64
	Height float64
}

// AspectRatio returns width / height.
func (s Size) AspectRatio() float64 { return s.Width / s.Height }

func (s Size) valid() bool {
	return s.Width > 0 && s.Height > 0 &&
		!math.IsInf(s.Width, 0) && !math.IsInf(s.Height, 0)
}

// Item is one image to pack.
type Item struct {
	Path string
	Size Size
}

// DimensionsProvider reports the pixel size of the image at path.
type DimensionsProvider interface {
	Dimensions(path string) (Size, error)
}

// Cursor is the packer state between two placements: the current page and
// column, and the y coordinate below which the next image goes.
type Cursor struct {
	Page   int
	Column int
	Y      float64
}

// NewCursor returns the cursor for the first column of the first page.
func NewCursor(g Geometry) Cursor {
	return Cursor{Y: g.Top()}
}

// Place computes the placement of an image of size s and returns the
// advanced cursor. The receiver is not modified.
//
// A column that cannot fit the image is abandoned even when it is empty,
// and the bottom of the last column may be left unused. Running past the
// last column starts a new page.
func (c Cursor) Place(g Geometry, s Size) (Cursor, Placement, error) {
	if !s.valid() {
		return c, Placement{}, fmt.Errorf("%w: %vx%v", ErrInvalidSize, s.Width, s.Height)
	}

	w := g.CellWidth()
	h := w / s.AspectRatio()

	if c.Y-h < g.Margin {
		c.Column++
		c.Y = g.Top()
	}
	if c.Column >= g.Columns {
		c.Page++
		c.Column = 0
		c.Y = g.Top()
	}

	p := Placement{
		Page:   c.Page,
		Column: c.Column,
		X:      g.Margin + float64(c.Column)*w,
		Y:      c.Y - h,
		Width:  w,
		Height: h,
	}
	c.Y -= h
	return c, p, nil
}

// Pack folds items through [Cursor.Place] in order. It stops at the first
// item with invalid dimensions.
func Pack(g Geometry, items []Item) (Layout, error) {
	p, err := NewPacker(g)
	if err != nil {
		return Layout{}, err
	}
	for i, it := range items {
		if _, err := p.Add(it); err != nil {
			return Layout{}, fmt.Errorf("item %d (%s): %w", i, it.Path, err)
		}
	}
	return p.Layout(), nil
}

// Packer accumulates placements for images added one at a time.
// It is not safe for concurrent use.
type Packer struct {
	geom       Geometry
	cursor     Cursor
	placements []Placement
}

// NewPacker validates g and returns a packer positioned at the top of the
// first column.
func NewPacker(g Geometry) (*Packer, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Packer{geom: g, cursor: NewCursor(g)}, nil
}

// Add places the next image. On error nothing is recorded.
func (p *Packer) Add(it Item) (Placement, error) {
	next, pl, err := p.cursor.Place(p.geom, it.Size)
	if err != nil {
		return Placement{}, err
	}
	pl.Index = len(p.placements)
	pl.Path = it.Path
	p.cursor = next
	p.placements = append(p.placements, pl)
	return pl, nil
}

// Cursor returns the current packer state.
func (p *Packer) Cursor() Cursor { return p.cursor }

// Geometry returns the geometry the packer was built with.
func (p *Packer) Geometry() Geometry { return p.geom }

// Layout returns a snapshot of everything placed so far.
func (p *Packer) Layout() Layout {
	out := make([]Placement, len(p.placements))
	copy(out, p.placements)
	return Layout{Geometry: p.geom, Placements: out}
}
