package canvas

import (
	"errors"
	"image"
	"image/color"
	"io"
)

var (
	// ErrOutOfRange is returned when a cell lies outside the canvas
	ErrOutOfRange = errors.New("cell out of range")
	// ErrTooFewBuffers is returned when a buffered canvas cannot keep display and edit apart
	ErrTooFewBuffers = errors.New("buffered canvas needs at least 2 buffers")
)

// Canvas is a character grid where every cell is two glyphs wide
type Canvas interface {
	// PutPixel paints a cell with two blank glyphs
	PutPixel(c color.RGBA, cell image.Point) error
	// PutCell paints a cell with the given glyph pair
	PutCell(glyph [2]byte, c color.RGBA, cell image.Point) error
	// Write splits text into two-glyph cells starting at start, padding odd lengths with a space
	Write(text string, c color.RGBA, start image.Point) error
	// Fill paints every cell blank with the given colour
	Fill(c color.RGBA)
	// Clear fills the canvas with black
	Clear()
	// Size returns the grid size in cells
	Size() image.Point
	// Display writes the displayed frame to w
	Display(w io.Writer) error
}

// btod converts a byte into its three zero-padded ASCII decimal digits
func btod(n uint8) [3]byte {
	hundreds := n / 100
	tens := (n - hundreds*100) / 10
	units := n - hundreds*100 - tens*10
	return [3]byte{'0' + hundreds, '0' + tens, '0' + units}
}
