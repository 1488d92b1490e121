package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Styles
// =============================================================================

var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)
	// StyleValue renders paths and numbers.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)
	// StyleWarning renders warning text.
	StyleWarning = lipgloss.NewStyle().Foreground(colorAmber)

	styleSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFail    = lipgloss.NewStyle().Foreground(colorRed)
	styleNote    = lipgloss.NewStyle().Foreground(colorGray)
)

const (
	markOK    = "✓"
	markFail  = "✗"
	markWarn  = "!"
	markNote  = "›"
	markArrow = "→"
)

// =============================================================================
// Console
// =============================================================================

// console writes the human-facing status lines of a command. Diagnostics
// go through the logger instead.
type console struct {
	w io.Writer
}

func newConsole(w io.Writer) *console {
	return &console{w: w}
}

func (c *console) line(mark, text string) {
	fmt.Fprintln(c.w, mark+" "+text)
}

func (c *console) success(format string, args ...any) {
	c.line(styleOK.Render(markOK), fmt.Sprintf(format, args...))
}

func (c *console) fail(format string, args ...any) {
	c.line(styleFail.Render(markFail), fmt.Sprintf(format, args...))
}

func (c *console) warn(format string, args ...any) {
	c.line(StyleWarning.Render(markWarn), StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func (c *console) note(format string, args ...any) {
	c.line(styleNote.Render(markNote), fmt.Sprintf(format, args...))
}

// detail prints an indented secondary line under the previous one.
func (c *console) detail(format string, args ...any) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints an indented "→ path" line for a written artifact.
func (c *console) file(path string) {
	fmt.Fprintln(c.w, "  "+StyleDim.Render(markArrow)+" "+StyleValue.Render(path))
}

// =============================================================================
// Build Summary
// =============================================================================

// sheetStats is the one-line summary printed after a build.
type sheetStats struct {
	placed  int
	pages   int
	skipped int
	cached  int
}

func (c *console) stats(s sheetStats) {
	fmt.Fprintln(c.w, "  "+formatStats(s))
}

// formatStats renders e.g. "12 images · 2 pages · 1 skipped".
func formatStats(s sheetStats) string {
	parts := []string{
		StyleDim.Render(plural(s.placed, "image", "images")),
		StyleDim.Render(plural(s.pages, "page", "pages")),
	}
	if s.skipped > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d skipped", s.skipped)))
	}
	if s.cached > 0 {
		parts = append(parts, styleOK.Render(fmt.Sprintf("%d cached", s.cached)))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// formatBytes renders n with a binary unit, e.g. "1.5 MiB".
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
