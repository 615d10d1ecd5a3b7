package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
)

// Run executes the update-cache command.
func (c *UpdateCacheCmd) Run(deps *Dependencies) error {
	cache, err := deps.Store.Load()
	if err != nil {
		if manfetch.ErrorCode(err) != manfetch.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
			return err
		}
		// No cache yet, build one from scratch instead.
		if cache, err = deps.Builder.Build(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
			return err
		}
	} else if err := deps.Builder.Update(cache); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	if err := deps.Store.Save(cache); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Cache holds %d archives, %d pending fetch\n",
		len(cache.Archives), len(cache.Unflushed()))
	return nil
}
