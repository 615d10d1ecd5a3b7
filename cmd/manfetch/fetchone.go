package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/fetch"
	manslog "github.com/fwojciec/manfetch/slog"
)

// Run executes the fetchone command.
func (c *FetchoneCmd) Run(deps *Dependencies) error {
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
	}

	if err := scheduler.RunOne(deps.Ctx, c.Package); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Fetched %s\n", c.Package)
	return nil
}
