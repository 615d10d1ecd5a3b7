package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/manfetch/fs"
	manhttp "github.com/fwojciec/manfetch/http"
	"github.com/fwojciec/manfetch/repo"
	"github.com/fwojciec/manfetch/sqlite"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Working directory holding indexes, the package cache and extracted
	// manpages. Set before calling Run().
	CacheDir string

	// Database path used by the loaddb command.
	DBPath string

	// SQLite database, opened lazily for loaddb only.
	DB *sqlite.DB
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	dir := defaultCacheDir()
	return &Main{
		CacheDir: dir,
		DBPath:   defaultDBPath(dir),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("manfetch"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'manfetch --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)

	if err := os.MkdirAll(m.CacheDir, 0755); err != nil {
		fmt.Fprintln(stderr, "Hint: Set MANFETCH_DIR to use a different working directory")
		return fmt.Errorf("failed to create working directory %q: %w", m.CacheDir, err)
	}

	// Wire core services into dependencies
	deps.ContentsPath = filepath.Join(m.CacheDir, "Contents.gz")
	deps.PackagesPath = filepath.Join(m.CacheDir, "Packages.gz")
	deps.ContentsLocation = fmt.Sprintf("dists/%s/main/Contents-%s.gz", cli.Dist, cli.Arch)
	deps.PackagesLocation = fmt.Sprintf("dists/%s/main/binary-%s/Packages.gz", cli.Dist, cli.Arch)

	deps.Builder = &repo.Builder{
		ContentsPath: deps.ContentsPath,
		PackagesPath: deps.PackagesPath,
	}
	deps.Store = fs.NewCacheStore(filepath.Join(m.CacheDir, "package-cache.json"))
	deps.Writer = fs.NewMemberWriter(filepath.Join(m.CacheDir, "man"))

	fetcher := manhttp.NewFetcher(manhttp.WithBaseURL(cli.BaseURL))
	deps.Fetcher = fetcher
	deps.Downloader = fetcher

	// The database is only needed for loaddb; the fetch pipeline never
	// touches it.
	if cmd == "loaddb" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintln(stderr, "Hint: Set MANFETCH_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		deps.DB = m.DB
	}

	begin := time.Now()
	err = kongCtx.Run(deps)
	deps.Logger.Info("command finished",
		"command", cmd,
		"elapsed", time.Since(begin),
	)
	return err
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func defaultCacheDir() string {
	if dir := os.Getenv("MANFETCH_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".manfetch"
	}
	return filepath.Join(home, ".manfetch")
}

func defaultDBPath(dir string) string {
	if path := os.Getenv("MANFETCH_DB"); path != "" {
		return path
	}
	return filepath.Join(dir, "manfetch.db")
}
