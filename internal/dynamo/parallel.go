package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent simulators side by side. Bodies never interact,
// so each member owns its body outright and runs on its own goroutine.
type Ensemble struct {
	members []*Simulator
	limit   int
}

// NewEnsemble bounds concurrency to limit goroutines; limit <= 0 uses GOMAXPROCS.
func NewEnsemble(limit int, members ...*Simulator) *Ensemble {
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{members: members, limit: limit}
}

func (e *Ensemble) Add(s *Simulator) { e.members = append(e.members, s) }
func (e *Ensemble) Len() int         { return len(e.members) }

// Run returns one result per member, in member order. The first failing
// member cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(e.members))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, s := range e.members {
		g.Go(func() error {
			res, err := s.Run(gctx, cfg)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
