package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matzehuels/imagesheet/pkg/cache"
	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/imagefile"
	"github.com/matzehuels/imagesheet/pkg/layout"
	"github.com/matzehuels/imagesheet/pkg/observability"
	"github.com/matzehuels/imagesheet/pkg/sink"
)

// artifact is a rendered file held in memory until every page succeeded.
type artifact struct {
	path string
	data []byte
}

// Render draws l once per format in opts.Formats and writes the files.
// images supplies the probed format of each placed path; paths missing
// from it are probed again.
func (r *Runner) Render(ctx context.Context, l layout.Layout, images map[string]imagefile.Image, opts Options) ([]Output, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	var outputs []Output
	for _, format := range opts.Formats {
		start := time.Now()
		files, err := r.renderFormat(ctx, l, images, opts, format)
		observability.Sheet().OnRender(ctx, format, max(1, l.Pages()), time.Since(start), err)
		if err != nil {
			return outputs, err
		}

		for _, f := range files {
			if err := writeFile(f.path, f.data); err != nil {
				return outputs, err
			}
			outputs = append(outputs, Output{Format: format, Path: f.path, Bytes: len(f.data)})
			r.Logger.Debug("wrote output", "format", format, "path", f.path, "bytes", len(f.data))
		}
	}
	return outputs, nil
}

func (r *Runner) renderFormat(ctx context.Context, l layout.Layout, images map[string]imagefile.Image, opts Options, format string) ([]artifact, error) {
	switch format {
	case FormatPDF:
		return r.renderPDF(ctx, l, images, opts)
	case FormatPNG:
		return renderPNG(ctx, l, opts)
	case FormatJSON:
		return renderJSON(ctx, l, opts)
	default:
		return nil, ValidateFormat(format)
	}
}

func (r *Runner) renderPDF(ctx context.Context, l layout.Layout, images map[string]imagefile.Image, opts Options) ([]artifact, error) {
	var c cache.Cache = r.Cache
	if opts.NoCache {
		c = nil
	}
	loader := imagefile.NewLoader(c)

	payloads := func(ctx context.Context, p layout.Placement) (imagefile.Payload, error) {
		im, ok := images[p.Path]
		if !ok {
			var err error
			if im, err = r.Prober.Probe(p.Path); err != nil {
				return imagefile.Payload{}, err
			}
		}
		return loader.Load(ctx, im)
	}

	var buf bytes.Buffer
	pdf, err := sink.NewPDF(&buf, l.Geometry, sink.WithPayloads(payloads), sink.WithTitle(opts.Title))
	if err != nil {
		return nil, err
	}
	if err := sink.RenderAll(ctx, l, pdf); err != nil {
		return nil, err
	}
	return []artifact{{path: opts.OutputPath(FormatPDF), data: buf.Bytes()}}, nil
}

func renderPNG(ctx context.Context, l layout.Layout, opts Options) ([]artifact, error) {
	var pages []artifact
	emit := func(page int, data []byte) error {
		pages = append(pages, artifact{path: opts.PreviewPath(page), data: data})
		return nil
	}

	preview, err := sink.NewPNG(l.Geometry, emit, sink.WithScale(opts.PreviewScale))
	if err != nil {
		return nil, err
	}
	if err := sink.RenderAll(ctx, l, preview); err != nil {
		return nil, err
	}
	return pages, nil
}

func renderJSON(ctx context.Context, l layout.Layout, opts Options) ([]artifact, error) {
	var buf bytes.Buffer
	if err := sink.RenderAll(ctx, l, sink.NewJSON(&buf, l.Geometry)); err != nil {
		return nil, err
	}
	return []artifact{{path: opts.OutputPath(FormatJSON), data: buf.Bytes()}}, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errs.Wrap(errs.ErrCodeRender, err, "cannot create %s", dir)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeRender, err, "cannot write %s", path)
	}
	return nil
}
