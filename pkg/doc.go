// Package pkg provides the core libraries for imagesheet contact sheets.
//
// # Overview
//
// imagesheet lays a folder of images out on A4 pages in fixed-width
// columns and writes the result as a PDF. The pkg directory is organized
// into these areas:
//
//  1. [layout] - The packing fold: geometry, cursor, placements
//  2. [imagefile] - Folder scanning, probing, and embedding payloads
//  3. [sink] - Output renderers (PDF, PNG previews, JSON geometry)
//  4. [pipeline] - Orchestration (scan → probe → pack → render)
//  5. [cache] - Transcode cache shared across runs
//
// # Architecture
//
// The typical data flow through imagesheet:
//
//	Input folder
//	     ↓
//	[imagefile] package (list and decode images)
//	     ↓
//	[layout] package (assign page, column and rectangle)
//	     ↓
//	[sink] package (draw placements)
//	     ↓
//	PDF/PNG/JSON output
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil)
//	opts := pipeline.DefaultOptions()
//	opts.Input = "photos"
//	result, err := runner.Execute(ctx, opts)
//
// Supporting packages: [errors] for coded errors, [observability] for
// progress and cache hooks, [buildinfo] for version stamping.
//
// [layout]: github.com/matzehuels/imagesheet/pkg/layout
// [imagefile]: github.com/matzehuels/imagesheet/pkg/imagefile
// [sink]: github.com/matzehuels/imagesheet/pkg/sink
// [pipeline]: github.com/matzehuels/imagesheet/pkg/pipeline
// [cache]: github.com/matzehuels/imagesheet/pkg/cache
// [errors]: github.com/matzehuels/imagesheet/pkg/errors
// [observability]: github.com/matzehuels/imagesheet/pkg/observability
// [buildinfo]: github.com/matzehuels/imagesheet/pkg/buildinfo
package pkg
