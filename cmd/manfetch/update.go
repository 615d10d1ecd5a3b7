package main

import (
	"fmt"

	"github.com/fwojciec/manfetch"
)

// Run executes the update command.
func (c *UpdateCmd) Run(deps *Dependencies) error {
	if err := deps.Downloader.Download(deps.Ctx, deps.ContentsLocation, deps.ContentsPath); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Updated %s\n", deps.ContentsPath)

	if err := deps.Downloader.Download(deps.Ctx, deps.PackagesLocation, deps.PackagesPath); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", manfetch.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Updated %s\n", deps.PackagesPath)

	return nil
}
