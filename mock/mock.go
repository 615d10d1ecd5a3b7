// Package mock provides function-field mock implementations of the
// manfetch interfaces for use in tests.
package mock

import (
	"context"
	"io"

	"github.com/fwojciec/manfetch"
)

// Compile-time interface verification.
var (
	_ manfetch.ArchiveFetcher   = (*ArchiveFetcher)(nil)
	_ manfetch.ArchiveProcessor = (*ArchiveProcessor)(nil)
	_ manfetch.CacheStore       = (*CacheStore)(nil)
	_ manfetch.IndexDownloader  = (*IndexDownloader)(nil)
	_ manfetch.MemberWriter     = (*MemberWriter)(nil)
)

// ArchiveFetcher is a mock implementation of manfetch.ArchiveFetcher.
type ArchiveFetcher struct {
	FetchFn func(ctx context.Context, location string) (string, func() error, error)
}

func (f *ArchiveFetcher) Fetch(ctx context.Context, location string) (string, func() error, error) {
	return f.FetchFn(ctx, location)
}

// ArchiveProcessor is a mock implementation of manfetch.ArchiveProcessor.
type ArchiveProcessor struct {
	ProcessFn func(ctx context.Context, name string) error
}

func (p *ArchiveProcessor) Process(ctx context.Context, name string) error {
	return p.ProcessFn(ctx, name)
}

// CacheStore is a mock implementation of manfetch.CacheStore.
type CacheStore struct {
	LoadFn func() (*manfetch.Cache, error)
	SaveFn func(cache *manfetch.Cache) error
}

func (s *CacheStore) Load() (*manfetch.Cache, error) {
	return s.LoadFn()
}

func (s *CacheStore) Save(cache *manfetch.Cache) error {
	return s.SaveFn(cache)
}

// IndexDownloader is a mock implementation of manfetch.IndexDownloader.
type IndexDownloader struct {
	DownloadFn func(ctx context.Context, location, dest string) error
}

func (d *IndexDownloader) Download(ctx context.Context, location, dest string) error {
	return d.DownloadFn(ctx, location, dest)
}

// MemberWriter is a mock implementation of manfetch.MemberWriter.
type MemberWriter struct {
	WriteMemberFn func(archive, name string, r io.Reader) error
}

func (w *MemberWriter) WriteMember(archive, name string, r io.Reader) error {
	return w.WriteMemberFn(archive, name, r)
}
