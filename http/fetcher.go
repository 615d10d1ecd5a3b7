// Package http downloads archives and repository indexes from a mirror
// over HTTP. It implements manfetch.ArchiveFetcher for the fetch pipeline
// and the bulk index download used by the update step.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fwojciec/manfetch"
)

// DefaultBaseURL is the mirror archives and indexes are fetched from.
const DefaultBaseURL = "http://httpredir.debian.org/debian/"

// Ensure Fetcher implements the fetching interfaces at compile time.
var (
	_ manfetch.ArchiveFetcher  = (*Fetcher)(nil)
	_ manfetch.IndexDownloader = (*Fetcher)(nil)
)

// Fetcher retrieves files from a repository mirror. Archive downloads land
// in temporary files that the returned cleanup removes.
type Fetcher struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithBaseURL sets the mirror base URL. Defaults to DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) {
		f.baseURL = u
	}
}

// WithTimeout sets a whole-request timeout. There is no timeout by
// default: a package download may legitimately take a long time on a slow
// link, and a stalled worker only delays its own queue slot.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// NewFetcher creates a new mirror Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		baseURL: DefaultBaseURL,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch downloads the mirror-relative location to a temporary file and
// returns its path. The cleanup removes the temporary file and must be
// called on every exit path.
func (f *Fetcher) Fetch(ctx context.Context, location string) (string, func() error, error) {
	tmp, err := os.CreateTemp("", "manfetch-*.deb")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() error {
		err := os.Remove(tmp.Name())
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := f.download(ctx, location, tmp); err != nil {
		tmp.Close()
		_ = cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		_ = cleanup()
		return "", nil, err
	}
	return tmp.Name(), cleanup, nil
}

// Download fetches the mirror-relative location to dest, replacing any
// prior copy. Used by the update step to refresh the Contents and
// Packages indexes.
func (f *Fetcher) Download(ctx context.Context, location, dest string) error {
	tmp := dest + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if err := f.download(ctx, location, out); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dest)
}

func (f *Fetcher) download(ctx context.Context, location string, w io.Writer) error {
	u, err := url.JoinPath(f.baseURL, location)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d for %s", resp.StatusCode, u)
	}

	_, err = io.Copy(w, resp.Body)
	return err
}
