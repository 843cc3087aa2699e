package viz

import "strings"

// Braille patterns give a 2x4 sub-pixel grid per terminal cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
//
// Unicode offset 0x2800.
var dotMask = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas rasterizes a particle cloud into braille cells. X/Y span the
// projection plane; sub-pixel resolution is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	cells         []rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([]rune, w*h)}
	c.Clear()
	return c
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = 0x2800
	}
}

// Set lights the sub-pixel at (x, y). Out-of-range points are dropped, which
// is what we want for particles that wander outside the viewport.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row*c.Width+col] |= dotMask[y%4][x%2]
}

// Project maps a world coordinate in [-extent, extent] on both axes onto the
// sub-pixel grid and lights it.
func (c *Canvas) Project(wx, wy, extent float64) {
	if extent <= 0 {
		return
	}
	sx := (wx + extent) / (2 * extent) * float64(c.Width*2-1)
	sy := (extent - wy) / (2 * extent) * float64(c.Height*4-1)
	c.Set(int(sx+0.5), int(sy+0.5))
}

func (c *Canvas) String() string {
	var b strings.Builder
	b.Grow(c.Height * (c.Width + 1))
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			b.WriteRune(c.cells[row*c.Width+col])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
