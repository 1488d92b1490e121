// Package cli implements the imagesheet command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/imagesheet/pkg/buildinfo"
	"github.com/matzehuels/imagesheet/pkg/cache"
	"github.com/matzehuels/imagesheet/pkg/pipeline"
)

const appName = "imagesheet"

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogWarn  = log.WarnLevel
)

// CLI holds what every command shares. Status output goes to each
// command's OutOrStdout; Logger writes diagnostics.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "imagesheet packs a folder of images into a printable A4 contact sheet",
		Long: `imagesheet lays every image in a folder out on A4 pages in fixed-width
columns, keeping each image's aspect ratio, and writes the result as a PDF.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose, quiet bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every placed image")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log warnings and errors only")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		switch {
		case verbose:
			c.SetLogLevel(LogDebug)
		case quiet:
			c.SetLogLevel(LogWarn)
		}
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.AddCommand(
		c.buildCommand(),
		c.configCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner returns a pipeline runner backed by the user's transcode
// cache. When the cache cannot be located or opened the build still runs,
// uncached, with a warning.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.openTranscodeCache(noCache), c.Logger)
}

func (c *CLI) openTranscodeCache(disabled bool) cache.Cache {
	if disabled {
		return cache.NewNullCache()
	}
	dir, err := cacheDir()
	if err == nil {
		var fc *cache.FileCache
		if fc, err = cache.NewFileCache(dir); err == nil {
			return fc
		}
	}
	c.Logger.Warn("transcode cache unavailable", "err", err)
	return cache.NewNullCache()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns $XDG_CACHE_HOME/imagesheet, falling back to
// ~/.cache/imagesheet.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// Blank entries are dropped.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{pipeline.FormatPDF}
	}
	return out
}
