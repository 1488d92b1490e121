// Package pipeline provides the contact-sheet pipeline for imagesheet.
//
// This package implements the complete scan → probe → pack → render flow
// used by the CLI. Keeping it here, rather than in the command, lets tests
// and other entry points run exactly the same steps.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Scan: List image files in the input folder, sorted by path
//  2. Probe: Decode each file and read its pixel dimensions
//  3. Pack: Fold the dimensions through a [layout.Packer]
//  4. Render: Draw the layout with each requested sink (PDF, PNG, JSON)
//
// Files that fail to decode are logged, counted, and left out of the
// layout; they never move the packing cursor. A missing folder or a folder
// without image files aborts the run before any output is created.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.DefaultOptions()
//	opts.Input = "photos"
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Outputs[0].Path)
package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/layout"
	"github.com/matzehuels/imagesheet/pkg/sink"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultInput is the folder scanned when none is given.
	DefaultInput = "temp"

	// DefaultOutput is the PDF written when no output path is given.
	DefaultOutput = "output_fixed_width.pdf"

	// DefaultColumns is the number of columns per page.
	DefaultColumns = layout.DefaultColumns

	// DefaultMarginMM is the page margin in millimetres.
	DefaultMarginMM = layout.DefaultMarginMM

	// DefaultPreviewScale is pixels per point for PNG previews.
	DefaultPreviewScale = sink.DefaultPreviewScale
)

// Format constants for output formats.
const (
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPDF:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a run. It decodes from the TOML
// config file; unset fields take defaults in ValidateAndSetDefaults.
//
// MarginMM is used as given, so start from [DefaultOptions] to get the
// default margin; a zero margin is a valid choice.
type Options struct {
	Input        string   `toml:"input" json:"input"`
	Output       string   `toml:"output" json:"output"`
	Columns      int      `toml:"columns" json:"columns"`
	MarginMM     float64  `toml:"margin_mm" json:"margin_mm"`
	Formats      []string `toml:"formats" json:"formats"`
	PreviewScale float64  `toml:"preview_scale" json:"preview_scale,omitempty"`
	Title        string   `toml:"title,omitempty" json:"title,omitempty"`
	NoCache      bool     `toml:"no_cache" json:"no_cache,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// DefaultOptions returns the options of a run with no flags and no config.
func DefaultOptions() Options {
	return Options{
		Input:        DefaultInput,
		Output:       DefaultOutput,
		Columns:      DefaultColumns,
		MarginMM:     DefaultMarginMM,
		Formats:      []string{FormatPDF},
		PreviewScale: DefaultPreviewScale,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout holds one placement per image that decoded.
	Layout layout.Layout

	// Skipped lists files that were found but could not be decoded.
	Skipped []Skipped

	// Outputs lists every file written, in the order of opts.Formats.
	Outputs []Output

	// Stats contains timing and count information.
	Stats Stats
}

// Skipped records a file left out of the layout.
type Skipped struct {
	Path string
	Err  error
}

// Output records one written file.
type Output struct {
	Format string
	Path   string
	Bytes  int
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Found      int
	Placed     int
	Skipped    int
	Pages      int
	ScanTime   time.Duration
	PackTime   time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: pdf, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and fills unset fields.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Input == "" {
		o.Input = DefaultInput
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
	if o.Columns == 0 {
		o.Columns = DefaultColumns
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPDF}
	}
	if o.PreviewScale == 0 {
		o.PreviewScale = DefaultPreviewScale
	}

	if err := errs.ValidateInputPath(o.Input); err != nil {
		return err
	}
	if err := errs.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if o.Columns < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "columns must be positive, got %d", o.Columns)
	}
	if o.MarginMM < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "margin must not be negative, got %gmm", o.MarginMM)
	}
	if o.PreviewScale < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "preview scale must be positive, got %g", o.PreviewScale)
	}
	o.Formats = normalizeFormats(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Geometry().Validate(); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "margin %gmm with %d columns", o.MarginMM, o.Columns)
	}

	o.validated = true
	return nil
}

// Geometry returns the A4 page geometry for these options.
func (o *Options) Geometry() layout.Geometry {
	return layout.A4(o.MarginMM, o.Columns)
}

// OutputPath returns the file written for format. The PDF goes to Output;
// other formats share its base name.
func (o *Options) OutputPath(format string) string {
	if format == FormatPDF {
		return o.Output
	}
	return o.base() + "." + format
}

// PreviewPath returns the PNG preview file for a zero-based page index.
func (o *Options) PreviewPath(page int) string {
	return fmt.Sprintf("%s-p%02d.png", o.base(), page+1)
}

func (o *Options) base() string {
	return strings.TrimSuffix(o.Output, filepath.Ext(o.Output))
}

// normalizeFormats lowercases, trims, and de-duplicates formats while
// keeping their order.
func normalizeFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}
