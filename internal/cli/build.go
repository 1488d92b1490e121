package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/imagesheet/pkg/errors"
	"github.com/matzehuels/imagesheet/pkg/observability"
	"github.com/matzehuels/imagesheet/pkg/pipeline"
)

// buildFlags holds the command-line flags for the build command. Only
// flags the user actually set override the config file.
type buildFlags struct {
	config       string
	output       string
	columns      int
	marginMM     float64
	formats      string
	previewScale float64
	title        string
	noCache      bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var flags buildFlags
	defaults := pipeline.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "build [folder]",
		Short: "Pack a folder of images into a PDF contact sheet",
		Long: `Pack every image in a folder into a PDF contact sheet.

Images (.jpg .jpeg .png .bmp .tiff .webp) are taken in path order and
scaled to the column width, keeping their aspect ratio. Columns fill top
to bottom; a full page starts the next one. Files that cannot be decoded
are reported and skipped.

Without a folder argument the "temp" folder is used.`,
		Example: `  imagesheet build
  imagesheet build photos -o photos.pdf --cols 4
  imagesheet build photos --format pdf,png --preview-scale 0.5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := resolveOptions(flags, cmd.Flags().Changed, args)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), newConsole(cmd.OutOrStdout()), opts)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", defaults.Output, "output PDF path; other formats share its base name")
	cmd.Flags().IntVar(&flags.columns, "cols", defaults.Columns, "columns per page")
	cmd.Flags().Float64Var(&flags.marginMM, "margin", defaults.MarginMM, "page margin in millimetres")
	cmd.Flags().StringVarP(&flags.formats, "format", "f", pipeline.FormatPDF, "output format(s): pdf (default), png, json (comma-separated)")
	cmd.Flags().Float64Var(&flags.previewScale, "preview-scale", defaults.PreviewScale, "PNG preview pixels per point")
	cmd.Flags().StringVar(&flags.title, "title", "", "PDF document title")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the transcode cache")

	cmd.ValidArgsFunction = func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveFilterDirs
	}
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{pipeline.FormatPDF, pipeline.FormatPNG, pipeline.FormatJSON}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = cmd.RegisterFlagCompletionFunc("config", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
	})

	return cmd
}

// resolveOptions layers defaults, the config file, changed flags, and the
// folder argument, in that order, and validates the result.
func resolveOptions(flags buildFlags, changed func(name string) bool, args []string) (pipeline.Options, error) {
	opts := pipeline.DefaultOptions()
	if flags.config != "" {
		var err error
		if opts, err = loadConfig(flags.config); err != nil {
			return opts, err
		}
	}

	if changed("output") {
		opts.Output = flags.output
	}
	if changed("cols") {
		if flags.columns <= 0 {
			return opts, errs.New(errs.ErrCodeInvalidConfig, "--cols must be positive, got %d", flags.columns)
		}
		opts.Columns = flags.columns
	}
	if changed("margin") {
		opts.MarginMM = flags.marginMM
	}
	if changed("format") {
		opts.Formats = parseFormats(flags.formats)
	}
	if changed("preview-scale") {
		opts.PreviewScale = flags.previewScale
	}
	if changed("title") {
		opts.Title = flags.title
	}
	if changed("no-cache") {
		opts.NoCache = flags.noCache
	}
	if len(args) == 1 {
		opts.Input = args[0]
	}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	return opts, nil
}

// runBuild executes the pipeline and prints the summary.
func (c *CLI) runBuild(ctx context.Context, out *console, opts pipeline.Options) error {
	logger := loggerFromContext(ctx)

	runner := c.newRunner(opts.NoCache)
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Scanning %s...", opts.Input))
	hooks := &buildHooks{spinner: spinner}
	tally := &observability.CacheTally{}
	defer observability.Set(observability.Hooks{Sheet: hooks, Cache: tally})()

	prog := newProgress(logger)
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	switch {
	case spinner.Cancelled():
		spinner.Stop()
		return ctx.Err()
	case err != nil:
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	prog.done("Built contact sheet", "pages", result.Stats.Pages, "cache_hits", tally.Hits())
	printBuildResult(out, result, tally.Hits())
	return nil
}

func printBuildResult(out *console, result *pipeline.Result, cached int) {
	for _, s := range result.Skipped {
		out.warn("Skipped %s", s.Path)
		out.detail("%s", errs.UserMessage(s.Err))
	}
	if result.Stats.Placed == 0 {
		out.warn("No image could be read; the sheet is blank")
	}

	var pdf string
	var others []string
	for _, o := range result.Outputs {
		if o.Format == pipeline.FormatPDF {
			pdf = o.Path
		} else {
			others = append(others, o.Path)
		}
	}

	if pdf != "" {
		out.success("PDF saved: %s", pdf)
	} else {
		out.success("Contact sheet built")
	}
	for _, path := range others {
		out.file(path)
	}
	out.stats(sheetStats{
		placed:  result.Stats.Placed,
		pages:   result.Stats.Pages,
		skipped: result.Stats.Skipped,
		cached:  cached,
	})
}

// =============================================================================
// Progress Hooks
// =============================================================================

// buildHooks drives the spinner from pipeline events.
type buildHooks struct {
	observability.NoopSheetHooks

	spinner *Spinner

	mu     sync.Mutex
	total  int
	probed int
}

func (h *buildHooks) OnScan(_ context.Context, _ string, files int, _ error) {
	h.mu.Lock()
	h.total = files
	h.mu.Unlock()
}

func (h *buildHooks) OnProbe(context.Context, string, error) {
	h.mu.Lock()
	h.probed++
	msg := fmt.Sprintf("Reading images %d/%d...", h.probed, h.total)
	h.mu.Unlock()
	h.spinner.SetMessage(msg)
}

func (h *buildHooks) OnRender(_ context.Context, format string, pages int, _ time.Duration, _ error) {
	h.spinner.SetMessage(fmt.Sprintf("Rendered %s (%s)...", format, plural(pages, "page", "pages")))
}
