package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
)

// Run executes the rebuild-cache command.
func (c *RebuildCacheCmd) Run(deps *Dependencies) error {
	cache, err := deps.Builder.Build()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	if err := deps.Store.Save(cache); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Rebuilt cache with %d archives\n", len(cache.Archives))
	return nil
}
