package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/blobsim/internal/dynamo"
)

// SweepPoint holds the distinct centroid heights a body visited once it had
// settled under one parameter value.
type SweepPoint struct {
	Param  float64
	Values []float64
}

// Builder constructs a fresh body for one parameter value.
type Builder func(param float64) (dynamo.Body, error)

// Sweep runs one body per parameter value in [min, max]. Each body is
// advanced for transient ticks, then the centroid Y is recorded for record
// more ticks. Values are deduplicated at a resolution of 1e-3.
func Sweep(
	build Builder,
	paramMin, paramMax float64,
	steps int,
	bounds dynamo.Bounds,
	dt float64,
	transient, record int,
) ([]SweepPoint, error) {
	if steps <= 1 {
		steps = 2
	}
	step := (paramMax - paramMin) / float64(steps-1)

	results := make([]SweepPoint, 0, steps)
	for i := 0; i < steps; i++ {
		param := paramMin + float64(i)*step
		body, err := build(param)
		if err != nil {
			return nil, fmt.Errorf("param %g: %w", param, err)
		}

		for t := 0; t < transient; t++ {
			body.Advance(dt, dynamo.Drag{}, bounds)
		}

		values := make([]float64, 0, 16)
		seen := make(map[int]bool)
		for t := 0; t < record; t++ {
			body.Advance(dt, dynamo.Drag{}, bounds)
			y := body.Centroid().Y
			key := int(y * 1000)
			if !seen[key] {
				seen[key] = true
				values = append(values, y)
			}
		}

		if !body.State().IsValid() {
			return nil, fmt.Errorf("param %g: %w", param, dynamo.ErrInvalidState)
		}

		results = append(results, SweepPoint{Param: param, Values: values})
	}

	return results, nil
}

// SweepToASCII draws a sweep as a scatter, parameter on x and height on y.
func SweepToASCII(data []SweepPoint, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	var minVal, maxVal float64
	found := false
	for _, p := range data {
		for _, v := range p.Values {
			if !found {
				minVal, maxVal = v, v
				found = true
				continue
			}
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
	}
	if !found {
		return ""
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	grid := newGrid(width, height)
	for i, p := range data {
		col := i * width / len(data)
		if col >= width {
			col = width - 1
		}
		for _, v := range p.Values {
			// screen y grows downward, so larger heights sit lower
			row := int((v - minVal) / (maxVal - minVal) * float64(height-1))
			if row >= 0 && row < height {
				grid[row][col] = '•'
			}
		}
	}
	return grid.String()
}

type grid [][]rune

func newGrid(width, height int) grid {
	g := make(grid, height)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", width))
	}
	return g
}

func (g grid) String() string {
	var sb strings.Builder
	for _, row := range g {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
