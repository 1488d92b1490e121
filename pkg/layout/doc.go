// Package layout computes where each image lands on the page.
//
// # Overview
//
// Every image gets the same width: the usable page width divided by the
// column count. Its height follows from its aspect ratio. Images fill a
// column top to bottom; when the next image would cross the bottom margin
// the packer moves to the next column, and when it runs out of columns it
// starts a new page.
//
// The packer never reorders, splits or shrinks images. An image taller
// than a whole column is still placed and simply overflows the margin.
//
// # Coordinates
//
// All values are in PDF points (1/72 inch) with the origin at the
// bottom-left corner of the page, so Y grows upwards. Renderers with a
// top-left origin convert with [Placement.TopDownY].
//
// # Usage
//
// The pure fold step is [Cursor.Place]:
//
//	g := layout.A4(layout.DefaultMarginMM, layout.DefaultColumns)
//	cur := layout.NewCursor(g)
//	cur, p, err := cur.Place(g, layout.Size{Width: 640, Height: 480})
//
// [Pack] folds a whole slice, and [Packer] wraps the same state for
// callers that discover images one at a time.
package layout
