// Package sink renders packed layouts to output formats.
//
// # Overview
//
// A sink is a [PageRenderer]: it receives placements in input order and is
// closed exactly once when the run is done. This package provides:
//
//   - [PDF]: the contact sheet itself, written with gofpdf
//   - [PNG]: one raster preview per page, drawn with gg
//   - [JSON]: the placement geometry, for tooling and regression checks
//
// [RenderAll] drives any sink over a [layout.Layout]:
//
//	var buf bytes.Buffer
//	pdf, err := sink.NewPDF(&buf, l.Geometry, sink.WithPayloads(load))
//	if err != nil {
//	    return err
//	}
//	err = sink.RenderAll(ctx, l, pdf)
//
// Sinks write into an io.Writer (or an emit callback for multi-page
// formats) and never touch the file system themselves, so a failed run
// leaves no partial output behind.
//
// # Coordinates
//
// Placements use a bottom-left origin. PDF and PNG drawing libraries use a
// top-left origin, so both sinks convert with [layout.Placement.TopDownY].
//
// [layout.Layout]: github.com/matzehuels/imagesheet/pkg/layout.Layout
// [layout.Placement.TopDownY]: github.com/matzehuels/imagesheet/pkg/layout.Placement.TopDownY
package sink
