package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/blobsim/internal/experiment"
)

var ErrNoCandidate = errors.New("optim: no parameter combination produced the metric")

// GridSearch tries every combination of parameter values and keeps the one
// that minimizes a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Builder returns a ready-to-run experiment for one combination.
type Builder func(params map[string]float64) (*experiment.Experiment, error)

// Search returns the best combination and its metric value. Combinations
// whose experiment fails to build, fails to run or stops early are skipped.
func (g *GridSearch) Search(ctx context.Context, build Builder, metricName string) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("optim: %d names for %d ranges", len(g.paramNames), len(g.ranges))
	}

	s := &search{best: math.Inf(1), build: build, metric: metricName}
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), s); err != nil {
		return nil, 0, err
	}
	if s.bestParams == nil {
		return nil, 0, ErrNoCandidate
	}
	return s.bestParams, s.best, nil
}

type search struct {
	build      Builder
	metric     string
	best       float64
	bestParams map[string]float64
	tried      int
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, s *search) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		s.tried++
		exp, err := s.build(current)
		if err != nil {
			return nil
		}

		result, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return nil
		}
		if len(result.Errors) > 0 {
			return nil
		}

		val, ok := result.Metrics[s.metric]
		if ok && val < s.best {
			s.best = val
			s.bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				s.bestParams[k] = v
			}
		}
		return nil
	}

	name := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[name] = val

		if err := g.searchRecursive(ctx, depth+1, next, s); err != nil {
			return err
		}
	}
	return nil
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
