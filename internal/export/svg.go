package export

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r2"
	"github.com/san-kum/blobsim/internal/dynamo"
)

// Scene is what a single SVG frame shows. Coordinates are world units;
// world y already grows downward like SVG, so no flip is applied.
type Scene struct {
	Bounds     dynamo.Bounds
	Outline    []r2.Point
	Trajectory []r2.Point
	Fill       string
	Stroke     string
}

// BodyToSVG renders the box, the trail of the centroid and the closed ring
// outline. It returns "" when the bounds are empty.
func BodyToSVG(sc Scene) string {
	if !(sc.Bounds.Width > 0) || !(sc.Bounds.Height > 0) {
		return ""
	}
	if sc.Fill == "" {
		sc.Fill = "#5f9ea0"
	}
	if sc.Stroke == "" {
		sc.Stroke = "#e0e0e0"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, sc.Bounds.Width, sc.Bounds.Height, sc.Bounds.Width, sc.Bounds.Height)

	if len(sc.Trajectory) >= 2 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="#555555" stroke-width="1" stroke-dasharray="4 2" d="%s"/>
`, pathData(sc.Trajectory, false))
	}

	if len(sc.Outline) >= 3 {
		fmt.Fprintf(&sb, `<path fill="%s" fill-opacity="0.6" stroke="%s" stroke-width="1.5" d="%s"/>
`, sc.Fill, sc.Stroke, pathData(sc.Outline, true))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG plots a bare path, scaled to fit width x height with 10%
// padding. The y axis is kept pointing down.
func TrajectoryToSVG(points []r2.Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	rect := r2.RectFromPoints(points...)
	rangeX := rect.X.Length()
	rangeY := rect.Y.Length()
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX := rect.X.Lo - rangeX*0.1
	minY := rect.Y.Lo - rangeY*0.1
	rangeX *= 1.2
	rangeY *= 1.2

	scaled := make([]r2.Point, len(points))
	for i, p := range points {
		scaled[i] = r2.Point{
			X: (p.X - minX) / rangeX * float64(width),
			Y: (p.Y - minY) / rangeY * float64(height),
		}
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
</svg>`, width, height, width, height, strokeColor, pathData(scaled, false))
}

func pathData(points []r2.Point, closed bool) string {
	var sb strings.Builder
	for i, p := range points {
		if i == 0 {
			fmt.Fprintf(&sb, "M%.1f,%.1f", p.X, p.Y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
		}
	}
	if closed {
		sb.WriteString(" Z")
	}
	return sb.String()
}
