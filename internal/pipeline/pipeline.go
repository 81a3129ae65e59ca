// Package pipeline feeds source lines through the filters into the async
// sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Geun-Oh/lxsink/internal/filter"
	"github.com/Geun-Oh/lxsink/internal/logger"
	"github.com/Geun-Oh/lxsink/internal/source"
)

// LineFormat is the layout of each forwarded line: timestamp, stream, message.
const LineFormat = "[%][%]: %\n"

// Config holds pipeline configuration.
type Config struct {
	Source  source.Source
	Filters *filter.Chain // optional
	Logger  *logger.Logger
}

// Run reads from the source until it is exhausted or ctx is cancelled and
// logs every matching line, returning ctx.Err() on cancellation. Run must be
// the logger's only producer while it runs. It does not close the logger.
func Run(ctx context.Context, cfg *Config) error {
	if cfg.Source == nil {
		return errors.New("pipeline: source is required")
	}
	if cfg.Logger == nil {
		return errors.New("pipeline: logger is required")
	}

	ch, err := cfg.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("pipeline: start source %s: %w", cfg.Source.Name(), err)
	}

	stats := cfg.Logger.Stats()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			stats.RecordLine()
			if cfg.Filters != nil && !cfg.Filters.Match(&e) {
				continue
			}
			stats.RecordMatch()
			cfg.Logger.Log(LineFormat, e.Timestamp.Format(time.RFC3339), e.Stream, e.Message)
		}
	}
}
