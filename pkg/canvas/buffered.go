package canvas

import (
	"fmt"
	"image"
	"image/color"
	"io"
)

const (
	// cellSize is ESC[48;2;RRR;GGG;BBBm followed by two glyph bytes
	cellSize = 21
	// eol resets the style so colour never bleeds past the row, then breaks the line.
	// The terminal runs in raw mode, so the carriage return is explicit.
	eol = "\x1b[0m\r\n"
)

// BufferedCanvas keeps N pre-encoded frames. One is displayed while another is edited.
type BufferedCanvas struct {
	width, height int
	rowSize       int
	buffers       [][]byte
	display       int
	edit          int
}

// NewBufferedCanvas allocates every frame once and prepares them for rendering
func NewBufferedCanvas(width, height, buffers int) (*BufferedCanvas, error) {
	if buffers < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewBuffers, buffers)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}

	rowSize := width*cellSize + len(eol)
	bc := &BufferedCanvas{
		width:   width,
		height:  height,
		rowSize: rowSize,
		buffers: make([][]byte, buffers),
		display: 0,
		edit:    buffers - 1,
	}

	for i := range bc.buffers {
		buf := make([]byte, rowSize*height)
		for row := 1; row <= height; row++ {
			copy(buf[row*rowSize-len(eol):], eol)
		}
		bc.buffers[i] = buf
	}

	// Every frame starts black, so whichever one is shown first is valid
	for i := range bc.buffers {
		bc.edit = i
		bc.Clear()
	}
	bc.edit = buffers - 1
	bc.FullSwap()
	return bc, nil
}

// offset returns the index of the cell's first byte
func (bc *BufferedCanvas) offset(cell image.Point) int {
	return cell.Y*bc.rowSize + cell.X*cellSize
}

func (bc *BufferedCanvas) inBounds(cell image.Point) bool {
	return cell.X >= 0 && cell.X < bc.width && cell.Y >= 0 && cell.Y < bc.height
}

// encode writes the style prefix and glyphs for one cell. Bounds must be checked by the caller.
func (bc *BufferedCanvas) encode(glyph [2]byte, c color.RGBA, cell image.Point) {
	r, g, b := btod(c.R), btod(c.G), btod(c.B)
	dst := bc.buffers[bc.edit][bc.offset(cell) : bc.offset(cell)+cellSize]
	dst[0], dst[1], dst[2], dst[3], dst[4], dst[5], dst[6] = '\x1b', '[', '4', '8', ';', '2', ';'
	dst[7], dst[8], dst[9], dst[10] = r[0], r[1], r[2], ';'
	dst[11], dst[12], dst[13], dst[14] = g[0], g[1], g[2], ';'
	dst[15], dst[16], dst[17], dst[18] = b[0], b[1], b[2], 'm'
	dst[19], dst[20] = glyph[0], glyph[1]
}

// PutPixel paints a cell with two blank glyphs
func (bc *BufferedCanvas) PutPixel(c color.RGBA, cell image.Point) error {
	return bc.PutCell([2]byte{' ', ' '}, c, cell)
}

// PutCell paints a cell with the given glyph pair in the edit frame
func (bc *BufferedCanvas) PutCell(glyph [2]byte, c color.RGBA, cell image.Point) error {
	if !bc.inBounds(cell) {
		return fmt.Errorf("%w: (%d,%d) on %dx%d canvas", ErrOutOfRange, cell.X, cell.Y, bc.width, bc.height)
	}
	bc.encode(glyph, c, cell)
	return nil
}

// Write splits text into two-byte cells starting at start. Nothing is written unless the
// whole span fits on the row.
func (bc *BufferedCanvas) Write(text string, c color.RGBA, start image.Point) error {
	if len(text)%2 == 1 {
		text += " "
	}
	cells := len(text) / 2
	if cells == 0 {
		return nil
	}

	last := start.Add(image.Pt(cells-1, 0))
	if !bc.inBounds(start) || !bc.inBounds(last) {
		return fmt.Errorf("%w: %d cells from (%d,%d) on %dx%d canvas",
			ErrOutOfRange, cells, start.X, start.Y, bc.width, bc.height)
	}

	for i := 0; i < cells; i++ {
		bc.encode([2]byte{text[2*i], text[2*i+1]}, c, start.Add(image.Pt(i, 0)))
	}
	return nil
}

// Fill paints every cell of the edit frame blank with the given colour
func (bc *BufferedCanvas) Fill(c color.RGBA) {
	for y := 0; y < bc.height; y++ {
		for x := 0; x < bc.width; x++ {
			bc.encode([2]byte{' ', ' '}, c, image.Pt(x, y))
		}
	}
}

// Clear fills the edit frame with black
func (bc *BufferedCanvas) Clear() {
	bc.Fill(color.RGBA{A: 255})
}

// Swap displays the frame just edited and moves editing on to the next frame, wrapping round.
// Starting from edit == display+1 this advances both indices by one.
func (bc *BufferedCanvas) Swap() {
	bc.display = bc.edit
	bc.edit = (bc.edit + 1) % len(bc.buffers)
}

// FullSwap exchanges the display and edit frames, showing what was just edited
func (bc *BufferedCanvas) FullSwap() {
	bc.display, bc.edit = bc.edit, bc.display
}

// Display writes the displayed frame to w in a single call
func (bc *BufferedCanvas) Display(w io.Writer) error {
	_, err := w.Write(bc.buffers[bc.display])
	return err
}

// Size returns the grid size in cells
func (bc *BufferedCanvas) Size() image.Point {
	return image.Pt(bc.width, bc.height)
}

// Buffers returns the number of frames
func (bc *BufferedCanvas) Buffers() int {
	return len(bc.buffers)
}

// DisplayIndex returns the index of the displayed frame
func (bc *BufferedCanvas) DisplayIndex() int {
	return bc.display
}

// EditIndex returns the index of the frame being edited
func (bc *BufferedCanvas) EditIndex() int {
	return bc.edit
}

// Bytes returns the displayed frame. Callers must not modify it.
func (bc *BufferedCanvas) Bytes() []byte {
	return bc.buffers[bc.display]
}
