package viz

import (
	"math"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
	return c
}

// Dots is the canvas size in sub-pixels.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel at (x, y). Out-of-range dots are dropped.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return false
	}
	return c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawPolygon joins consecutive dots and closes the loop back to the first.
func (c *Canvas) DrawPolygon(xs, ys []int) {
	n := len(xs)
	if n == 0 || len(ys) != n {
		return
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		c.DrawLine(xs[i], ys[i], xs[j], ys[j])
	}
}

// DrawBorder outlines the full canvas.
func (c *Canvas) DrawBorder() {
	w, h := c.Dots()
	c.DrawPolygon([]int{0, w - 1, w - 1, 0}, []int{0, 0, h - 1, h - 1})
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Projection maps world units onto canvas dots at a fixed scale. World y
// grows downward, like terminal rows.
type Projection struct {
	// UnitsPerDot is how many world units one braille dot covers.
	UnitsPerDot float64
}

// Bounds is the world box a canvas of the given size covers.
func (p Projection) Bounds(c *Canvas) dynamo.Bounds {
	w, h := c.Dots()
	return dynamo.Bounds{Width: float64(w) * p.UnitsPerDot, Height: float64(h) * p.UnitsPerDot}
}

func (p Projection) ToDot(pt r2.Point) (int, int) {
	return int(math.Floor(pt.X / p.UnitsPerDot)), int(math.Floor(pt.Y / p.UnitsPerDot))
}

// FromCell returns the world position at the center of a terminal cell.
func (p Projection) FromCell(col, row int) r2.Point {
	return r2.Point{
		X: (float64(col) + 0.5) * 2 * p.UnitsPerDot,
		Y: (float64(row) + 0.5) * 4 * p.UnitsPerDot,
	}
}

// DrawOutline projects and draws a closed ring.
func (p Projection) DrawOutline(c *Canvas, pts []r2.Point) {
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, pt := range pts {
		xs[i], ys[i] = p.ToDot(pt)
	}
	c.DrawPolygon(xs, ys)
}

func (p Projection) DrawSegment(c *Canvas, a, b r2.Point) {
	x0, y0 := p.ToDot(a)
	x1, y1 := p.ToDot(b)
	c.DrawLine(x0, y0, x1, y1)
}
