package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/fetch"
	manslog "github.com/fwojciec/manfetch/slog"
	"golang.org/x/time/rate"
)

// Run executes the fetchall command.
func (c *FetchallCmd) Run(deps *Dependencies) error {
	cache, err := deps.Store.Load()
	if err != nil {
		if manfetch.ErrorCode(err) == manfetch.ENOTFOUND {
			fmt.Fprintln(deps.Stderr, "No package cache found. Run 'manfetch update-cache' first.")
		}
		return err
	}

	extractor := &fetch.Extractor{
		Cache:   cache,
		Fetcher: deps.Fetcher,
		Writer:  deps.Writer,
	}

	scheduler := &fetch.Scheduler{
		Cache:     cache,
		Processor: manslog.NewProcessor(extractor, deps.Logger),
		Store:     deps.Store,
		Workers:   c.Workers,
	}
	if c.RPS > 0 {
		scheduler.Limiter = rate.NewLimiter(rate.Limit(c.RPS), 1)
	}

	res, err := scheduler.RunAll(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Processed %d archives, %d failed\n", res.Enqueued, res.Failed)
	if res.Failed > 0 {
		fmt.Fprintln(deps.Stdout, "Failed archives stay pending and are retried on the next run.")
	}
	return nil
}
