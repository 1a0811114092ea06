package tui

import (
	"iter"
	"strings"

	"github.com/fdimager/vectorscope/pkg/dsp/analysis"
)

// Braille cells hold a 2x4 dot matrix, so each terminal cell is two dots
// wide and four dots high.
const (
	dotsX = 2
	dotsY = 4

	brailleBase = 0x2800
)

// dot bit for column x, row y inside a braille cell
var brailleBits = [dotsY][dotsX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot canvas. Coordinates are in dots with the origin
// at the top left.
type Canvas struct {
	cols, rows int
	cells      []uint8
}

// NewCanvas creates a canvas cols x rows terminal cells large.
func NewCanvas(cols, rows int) *Canvas {
	cols = max(cols, 1)
	rows = max(rows, 1)
	return &Canvas{cols: cols, rows: rows, cells: make([]uint8, cols*rows)}
}

// Size returns the canvas size in dots.
func (c *Canvas) Size() (width, height float64) {
	return float64(c.cols * dotsX), float64(c.rows * dotsY)
}

// Clear removes every dot.
func (c *Canvas) Clear() {
	clear(c.cells)
}

// Set lights the dot at (x, y). Points outside the canvas are dropped.
func (c *Canvas) Set(x, y float64) bool {
	if x < 0 || y < 0 {
		return false
	}
	px, py := int(x), int(y)
	col, row := px/dotsX, py/dotsY
	if col >= c.cols || row >= c.rows {
		return false
	}
	c.cells[row*c.cols+col] |= brailleBits[py%dotsY][px%dotsX]
	return true
}

// Plot lights every point in the sequence and returns how many landed on
// the canvas.
func (c *Canvas) Plot(points iter.Seq[analysis.Point]) int {
	n := 0
	for pt := range points {
		if c.Set(pt.X, pt.Y) {
			n++
		}
	}
	return n
}

// String renders the canvas as lines of braille runes.
func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.rows * (c.cols*3 + 1))
	for row := 0; row < c.rows; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for _, cell := range c.cells[row*c.cols : (row+1)*c.cols] {
			b.WriteRune(rune(brailleBase + int(cell)))
		}
	}
	return b.String()
}
