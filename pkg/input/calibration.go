package input

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrDegenerateCalibration is returned when the reference points cannot span the grid
var ErrDegenerateCalibration = errors.New("degenerate calibration")

// Calibration maps pointer positions to grid cells. TopLeft is the pointer position of
// cell (0,0) and BottomRight that of the last cell; CellWidth and CellHeight are the
// pointer distance between neighbouring cells.
type Calibration struct {
	TopLeft     image.Point
	BottomRight image.Point
	CellWidth   float64
	CellHeight  float64
	grid        image.Point
}

// NewCalibration derives the cell size from two clicks on the first and last cells of grid
func NewCalibration(topLeft, bottomRight, grid image.Point) (Calibration, error) {
	span := bottomRight.Sub(topLeft)
	if grid.X < 2 || grid.Y < 2 {
		return Calibration{}, fmt.Errorf("%w: grid %v is too small", ErrDegenerateCalibration, grid)
	}
	if span.X <= 0 || span.Y <= 0 {
		return Calibration{}, fmt.Errorf("%w: %v is not below and right of %v", ErrDegenerateCalibration, bottomRight, topLeft)
	}

	return Calibration{
		TopLeft:     topLeft,
		BottomRight: bottomRight,
		CellWidth:   float64(span.X) / float64(grid.X-1),
		CellHeight:  float64(span.Y) / float64(grid.Y-1),
		grid:        grid,
	}, nil
}

// GridCalibration assumes the grid is drawn from the terminal origin with cells of
// glyphs characters wide and one row tall
func GridCalibration(grid image.Point, glyphs int) Calibration {
	return Calibration{
		TopLeft:     image.Pt(0, 0),
		BottomRight: image.Pt(max(0, grid.X-1)*glyphs, max(0, grid.Y-1)),
		CellWidth:   float64(glyphs),
		CellHeight:  1,
		grid:        grid,
	}
}

// Grid returns the grid size the calibration was made for
func (c Calibration) Grid() image.Point {
	return c.grid
}

// PixelToCell converts a pointer position into a grid cell, clamped to the grid
func (c Calibration) PixelToCell(p image.Point) image.Point {
	offset := p.Sub(c.TopLeft)
	x := int(math.Floor(float64(offset.X) / c.CellWidth))
	y := int(math.Floor(float64(offset.Y) / c.CellHeight))
	return image.Pt(
		max(0, min(c.grid.X-1, x)),
		max(0, min(c.grid.Y-1, y)),
	)
}

// MouseCell clamps the pointer to the calibrated area and returns the hovered cell
func (c Calibration) MouseCell(pointer image.Point) image.Point {
	clamped := image.Pt(
		max(c.TopLeft.X, min(c.BottomRight.X, pointer.X)),
		max(c.TopLeft.Y, min(c.BottomRight.Y, pointer.Y)),
	)
	return c.PixelToCell(clamped)
}
