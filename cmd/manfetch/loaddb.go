package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/sqlite"
)

// Run executes the loaddb command.
func (c *LoaddbCmd) Run(deps *Dependencies) error {
	res, err := sqlite.NewLoader(deps.DB).Load(deps.Ctx, deps.ContentsPath, deps.PackagesPath)
	if err != nil {
		if manfetch.ErrorCode(err) == manfetch.EPRECONDITION {
			fmt.Fprintln(deps.Stderr, "Index files missing. Run 'manfetch update' first.")
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Loaded %d manpages across %d packages\n", res.Manpages, res.Packages)
	return nil
}
