package service

import (
	"context"

	perr "moodmeter/internal/platform/errors"
	dom "moodmeter/internal/services/arbiter/domain"

	"golang.org/x/sync/errgroup"
)

// AnalyzeBatch analyzes every text with bounded fan-out
// readiness is checked once up front; afterwards each input succeeds or fails on its own
// items come back in input order
func (s *Service) AnalyzeBatch(ctx context.Context, texts []string) ([]dom.BatchItem, error) {
	if err := s.cls.Ready(); err != nil {
		s.met.ObserveAnalysis("unavailable", 0)
		return nil, err
	}

	items := make([]dom.BatchItem, len(texts))
	var g errgroup.Group
	g.SetLimit(s.cfg.BatchWorkers)
	for i, text := range texts {
		g.Go(func() error {
			items[i].Index = i
			res, err := s.analyze(ctx, text)
			if err != nil {
				w := perr.WireFrom(err)
				items[i].Error = &w
				return nil
			}
			items[i].Result = &res
			return nil
		})
	}
	_ = g.Wait()
	return items, nil
}
