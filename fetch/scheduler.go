package fetch

import (
	"context"
	"sync/atomic"

	"github.com/fwojciec/manfetch"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// DefaultWorkers is the default degree of parallelism. The count is a
// resource-acquisition tradeoff, not a correctness parameter.
const DefaultWorkers = 5

// Scheduler drains the queue of unflushed archives through a fixed-size
// worker pool. The cache is persisted exactly once, after the whole batch
// drains; a crash mid-batch loses only bookkeeping, not extracted files,
// and the next run re-fetches whatever was still marked unflushed.
type Scheduler struct {
	Cache     *manfetch.Cache
	Processor manfetch.ArchiveProcessor
	Store     manfetch.CacheStore

	// Workers is the pool size. Defaults to DefaultWorkers.
	Workers int

	// Limiter optionally throttles requests against the mirror. Nil means
	// no throttling.
	Limiter *rate.Limiter
}

// Result summarizes one RunAll batch.
type Result struct {
	Enqueued int
	Failed   int
}

// RunAll enqueues every unflushed archive, processes the queue with the
// worker pool, and persists the cache once after the drain. Per-archive
// failures are counted but never abort the pool; a failed archive stays
// unflushed and is re-enqueued on the next run.
func (s *Scheduler) RunAll(ctx context.Context) (*Result, error) {
	names := s.Cache.Unflushed()

	workers := s.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, name := range names {
		g.Go(func() error {
			if s.Limiter != nil {
				if err := s.Limiter.Wait(gctx); err != nil {
					failed.Add(1)
					return nil
				}
			}
			if err := s.Processor.Process(gctx, name); err != nil {
				failed.Add(1)
			}
			return nil
		})
	}

	_ = g.Wait()

	if err := s.Store.Save(s.Cache); err != nil {
		return nil, err
	}

	return &Result{
		Enqueued: len(names),
		Failed:   int(failed.Load()),
	}, nil
}

// RunOne processes a single archive synchronously without touching the
// rest of the queue, then persists the cache. Partial member state is
// persisted even when processing fails.
func (s *Scheduler) RunOne(ctx context.Context, name string) error {
	perr := s.Processor.Process(ctx, name)
	if err := s.Store.Save(s.Cache); err != nil {
		return err
	}
	return perr
}
