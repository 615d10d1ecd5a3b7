package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/manfetch"
	"github.com/fwojciec/manfetch/repo"
	"github.com/fwojciec/manfetch/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Builder    *repo.Builder
	Store      manfetch.CacheStore
	Writer     manfetch.MemberWriter
	Fetcher    manfetch.ArchiveFetcher
	Downloader manfetch.IndexDownloader
	DB         *sqlite.DB

	// Local index file paths and their mirror-relative locations.
	ContentsPath     string
	PackagesPath     string
	ContentsLocation string
	PackagesLocation string
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel string `help:"Log level (debug, info, warn, error)" default:"info"`
	BaseURL  string `help:"Mirror base URL" default:"http://httpredir.debian.org/debian/"`
	Dist     string `help:"Distribution to track" default:"stable"`
	Arch     string `help:"Binary architecture" default:"amd64"`

	Update       UpdateCmd       `cmd:"" help:"Download fresh Contents and Packages indexes"`
	RebuildCache RebuildCacheCmd `cmd:"" name:"rebuild-cache" help:"Rebuild the package cache from scratch"`
	UpdateCache  UpdateCacheCmd  `cmd:"" name:"update-cache" help:"Incrementally update the package cache"`
	Fetchall     FetchallCmd     `cmd:"" help:"Fetch manpages from every package still owing work"`
	Fetchone     FetchoneCmd     `cmd:"" help:"Fetch manpages from one package"`
	Loaddb       LoaddbCmd       `cmd:"" help:"Load index information into the database"`
}

// UpdateCmd is the "update" subcommand.
type UpdateCmd struct{}

// RebuildCacheCmd is the "rebuild-cache" subcommand.
type RebuildCacheCmd struct{}

// UpdateCacheCmd is the "update-cache" subcommand.
type UpdateCacheCmd struct{}

// FetchallCmd is the "fetchall" subcommand.
type FetchallCmd struct {
	Workers int     `short:"w" default:"5" help:"Concurrent archive workers"`
	RPS     float64 `help:"Max requests per second against the mirror (0 = unlimited)"`
}

// FetchoneCmd is the "fetchone" subcommand.
type FetchoneCmd struct {
	Package string `arg:"" help:"The package to fetch"`
}

// LoaddbCmd is the "loaddb" subcommand.
type LoaddbCmd struct{}
