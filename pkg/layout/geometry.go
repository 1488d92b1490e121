package layout

import (
	"errors"
	"fmt"
	"math"
)

const (
	// A4WidthMM and A4HeightMM are the ISO 216 A4 paper dimensions.
	A4WidthMM  = 210.0
	A4HeightMM = 297.0

	// DefaultColumns is the number of image columns per page.
	DefaultColumns = 5

	// DefaultMarginMM is the page margin on every side, in millimeters.
	DefaultMarginMM = 0.5

	pointsPerInch = 72.0
	mmPerInch     = 25.4
)

// ErrInvalidGeometry is returned by [Geometry.Validate].
var ErrInvalidGeometry = errors.New("invalid page geometry")

// MMToPt converts millimeters to PDF points.
func MMToPt(mm float64) float64 {
	return mm * pointsPerInch / mmPerInch
}

// Geometry describes the fixed page the packer fills. It is computed once
// per run and never changes afterwards.
type Geometry struct {
	PageWidth  float64 `json:"page_width"`
	PageHeight float64 `json:"page_height"`
	Margin     float64 `json:"margin"`
	Columns    int     `json:"columns"`
}

// A4 returns portrait A4 geometry with the given margin (millimeters) and
// column count.
func A4(marginMM float64, columns int) Geometry {
	return Geometry{
		PageWidth:  MMToPt(A4WidthMM),
		PageHeight: MMToPt(A4HeightMM),
		Margin:     MMToPt(marginMM),
		Columns:    columns,
	}
}

// UsableWidth is the page width minus both side margins.
func (g Geometry) UsableWidth() float64 { return g.PageWidth - 2*g.Margin }

// UsableHeight is the page height minus the top and bottom margins.
func (g Geometry) UsableHeight() float64 { return g.PageHeight - 2*g.Margin }

// CellWidth is the width every image is drawn at.
func (g Geometry) CellWidth() float64 { return g.UsableWidth() / float64(g.Columns) }

// Top is the y coordinate of the top margin, where each column starts.
func (g Geometry) Top() float64 { return g.PageHeight - g.Margin }

// Validate reports whether the geometry can hold at least one column.
func (g Geometry) Validate() error {
	switch {
	case g.Columns < 1:
		return fmt.Errorf("%w: columns must be at least 1, got %d", ErrInvalidGeometry, g.Columns)
	case g.Margin < 0 || math.IsNaN(g.Margin):
		return fmt.Errorf("%w: margin must not be negative, got %v", ErrInvalidGeometry, g.Margin)
	case g.PageWidth <= 0 || g.PageHeight <= 0:
		return fmt.Errorf("%w: page size must be positive, got %vx%v", ErrInvalidGeometry, g.PageWidth, g.PageHeight)
	case g.UsableWidth() <= 0 || g.UsableHeight() <= 0:
		return fmt.Errorf("%w: margin %v leaves no usable area", ErrInvalidGeometry, g.Margin)
	}
	return nil
}
