package viz

import (
	"fmt"
	"strings"

	"github.com/san-kum/gravsim/internal/body"
)

// SVG renders the canvas as a dot-matrix SVG, one circle per lit sub-pixel.
// scale is the sub-pixel size in SVG units.
func (c *Canvas) SVG(scale float64) string {
	width := float64(c.Width*2) * scale
	height := float64(c.Height*4) * scale

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
<g fill="#9ad1ff">
`, width, height, width, height))

	radius := scale * 0.4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := c.cells[row*c.Width+col] - 0x2800
			if pattern == 0 {
				continue
			}
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&dotMask[dy][dx] == 0 {
						continue
					}
					cx := (float64(col*2+dx) + 0.5) * scale
					cy := (float64(row*4+dy) + 0.5) * scale
					b.WriteString(fmt.Sprintf("<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, radius))
				}
			}
		}
	}

	b.WriteString("</g>\n</svg>\n")
	return b.String()
}

// Scatter projects a particle cloud onto a fresh canvas. The extent is taken
// from the cloud itself with a small margin, so the snapshot always frames
// every body.
func Scatter(ps []body.Particle, w, h int) *Canvas {
	extent := 1.0
	for i := range ps {
		p := ps[i].Pos
		for _, c := range []float32{p.X, p.Y} {
			if v := float64(c); v > extent {
				extent = v
			} else if -v > extent {
				extent = -v
			}
		}
	}
	extent *= 1.05

	c := NewCanvas(w, h)
	for i := range ps {
		c.Project(float64(ps[i].Pos.X), float64(ps[i].Pos.Y), extent)
	}
	return c
}

// SeriesSVG renders a scalar history as a polyline, autoscaled to its own
// bounds. Used for exporting stored energy traces.
func SeriesSVG(series []float64, w, h int) string {
	if len(series) < 2 {
		return ""
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	var pts strings.Builder
	for i, v := range series {
		x := float64(i) / float64(len(series)-1) * float64(w)
		y := (1 - (v-lo)/span) * float64(h)
		if i > 0 {
			pts.WriteByte(' ')
		}
		fmt.Fprintf(&pts, "%.1f,%.1f", x, y)
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a14"/>
<polyline points="%s" fill="none" stroke="#5ff0b0" stroke-width="1.5"/>
</svg>
`, w, h, w, h, pts.String())
}
