package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/imagesheet/pkg/cache"
	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/imagefile"
	"github.com/matzehuels/imagesheet/pkg/layout"
	"github.com/matzehuels/imagesheet/pkg/observability"
)

// Runner executes the pipeline with a transcode cache.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store pipeline results.
type Runner struct {
	Cache  cache.Cache
	Prober *imagefile.Prober
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Prober: imagefile.NewProber(),
		Logger: logger,
	}
}

// Execute runs scan → probe → pack → render and writes every requested
// output. On error no output file is created, except that formats
// already written before a later format fails are kept.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Scan
	scanStart := time.Now()
	files, err := r.Scan(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	result.Stats.Found = len(files)
	result.Stats.ScanTime = time.Since(scanStart)

	r.Logger.Info("found images",
		"folder", opts.Input,
		"count", len(files),
		"duration", result.Stats.ScanTime)

	// Stages 2 and 3: Probe and pack
	packStart := time.Now()
	l, images, skipped, err := r.Pack(ctx, opts.Geometry(), files)
	if err != nil {
		return nil, err
	}
	result.Layout = l
	result.Skipped = skipped
	result.Stats.Placed = len(l.Placements)
	result.Stats.Skipped = len(skipped)
	result.Stats.Pages = max(1, l.Pages())
	result.Stats.PackTime = time.Since(packStart)

	if len(l.Placements) == 0 {
		r.Logger.Warn("no image could be read; the sheet will be blank",
			"folder", opts.Input,
			"skipped", len(skipped))
	}
	r.Logger.Info("packed layout",
		"placed", result.Stats.Placed,
		"skipped", result.Stats.Skipped,
		"pages", result.Stats.Pages,
		"duration", result.Stats.PackTime)

	// Stage 4: Render
	renderStart := time.Now()
	outputs, err := r.Render(ctx, l, images, opts)
	result.Outputs = outputs
	if err != nil {
		return result, err
	}
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Scan lists the image files in dir. A missing folder and a folder with
// no image files are both errors.
func (r *Runner) Scan(ctx context.Context, dir string) ([]string, error) {
	files, err := imagefile.Scan(dir)
	if err == nil && len(files) == 0 {
		err = errs.New(errs.ErrCodeNoImages, "no image files in %s", dir)
	}
	observability.Sheet().OnScan(ctx, dir, len(files), err)
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Pack probes files in order and packs every one that decodes. Decode
// failures are logged and returned as skipped; they leave the packer
// untouched, so later placements are the same as if the file were absent.
// The returned map holds the probed image for each placed path.
func (r *Runner) Pack(ctx context.Context, g layout.Geometry, files []string) (layout.Layout, map[string]imagefile.Image, []Skipped, error) {
	packer, err := layout.NewPacker(g)
	if err != nil {
		return layout.Layout{}, nil, nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "page geometry")
	}

	images := make(map[string]imagefile.Image, len(files))
	var skipped []Skipped

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return layout.Layout{}, nil, nil, err
		}

		im, err := r.Prober.Probe(path)
		observability.Sheet().OnProbe(ctx, path, err)
		if err != nil {
			if errs.IsFatal(err) {
				return layout.Layout{}, nil, nil, err
			}
			r.Logger.Warn("skipping image", "path", path, "err", errs.UserMessage(err))
			skipped = append(skipped, Skipped{Path: path, Err: err})
			continue
		}

		p, err := packer.Add(layout.Item{Path: path, Size: im.Size()})
		if err != nil {
			return layout.Layout{}, nil, nil, errs.Wrap(errs.ErrCodeInternal, err, "place %s", path)
		}
		images[path] = im
		observability.Sheet().OnPlace(ctx, path, p.Page, p.Column)
		r.Logger.Debug("placed image",
			"path", path,
			"page", p.Page,
			"column", p.Column,
			"width", im.Width,
			"height", im.Height)
	}

	return packer.Layout(), images, skipped, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
