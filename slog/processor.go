// Package slog provides logging decorators for manfetch interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/manfetch"
)

// Ensure Processor implements manfetch.ArchiveProcessor.
var _ manfetch.ArchiveProcessor = (*Processor)(nil)

// Processor wraps an ArchiveProcessor with per-archive logging. Failures
// are reported with the archive name; the run continues with the other
// queued archives either way.
type Processor struct {
	next   manfetch.ArchiveProcessor
	logger *slog.Logger
}

// NewProcessor creates a new logging Processor.
func NewProcessor(next manfetch.ArchiveProcessor, logger *slog.Logger) *Processor {
	return &Processor{next: next, logger: logger}
}

// Process delegates to the wrapped processor, logging outcome and timing.
func (p *Processor) Process(ctx context.Context, name string) error {
	begin := time.Now()
	err := p.next.Process(ctx, name)
	if err != nil {
		p.logger.Error("archive processing failed",
			"archive", name,
			"duration", time.Since(begin),
			"error", manfetch.ErrorMessage(err),
		)
		return err
	}
	p.logger.Debug("archive processed",
		"archive", name,
		"duration", time.Since(begin),
	)
	return nil
}
