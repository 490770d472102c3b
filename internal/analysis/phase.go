package analysis

import (
	"math"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// PhasePoint is one (height, vertical speed) pair of the centroid.
type PhasePoint struct {
	X, Y float64
}

// PhasePortrait traces the centroid's height against its vertical speed,
// estimated by finite differences between consecutive samples.
type PhasePortrait struct {
	Points []PhasePoint
}

func NewPhasePortrait(samples []dynamo.Sample) *PhasePortrait {
	if len(samples) < 2 {
		return nil
	}

	p := &PhasePortrait{Points: make([]PhasePoint, 0, len(samples)-1)}
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		h := cur.Time - prev.Time
		if !(h > 0) {
			continue
		}
		p.Points = append(p.Points, PhasePoint{
			X: cur.Centroid.Y,
			Y: (cur.Centroid.Y - prev.Centroid.Y) / h,
		})
	}
	return p
}

// CentroidHeights pulls the centroid Y series out of a run's samples.
func CentroidHeights(samples []dynamo.Sample) []float64 {
	ys := make([]float64, len(samples))
	for i, s := range samples {
		ys[i] = s.Centroid.Y
	}
	return ys
}

// ToASCII draws the portrait with 10% padding and a zero-speed axis.
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = math.Min(minX, pt.X)
		maxX = math.Max(maxX, pt.X)
		minY = math.Min(minY, pt.Y)
		maxY = math.Max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	g := newGrid(width, height)
	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			g[row][col] = '•'
		}
	}

	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && g[row][col] == ' ' {
				g[row][col] = '─'
			}
		}
	}

	return g.String()
}
