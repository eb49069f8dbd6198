package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/placescout/placescout/internal/config"
	"github.com/placescout/placescout/internal/model"
)

// RecordFinder collects records for one query.
// Satisfied by *finder.Finder; tests substitute a scripted fake.
type RecordFinder interface {
	Find(ctx context.Context, query model.Query) ([]model.PlaceRecord, error)
}

// Pipeline runs one search across an ordered list of places.
type Pipeline struct {
	// finder performs the per-query collection.
	finder RecordFinder

	// locationDelay is the pause between locations. Never applied after
	// the last location.
	locationDelay time.Duration

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLocationDelay sets the pause between locations.
func WithLocationDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d >= 0 {
			p.locationDelay = d
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline over the given finder.
func New(finder RecordFinder, opts ...Option) *Pipeline {
	p := &Pipeline{
		finder:        finder,
		locationDelay: config.DefaultLocationDelay,
		logger:        slog.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run searches "<specialty> in <place>" for each place, in order.
//
// Every place is attempted even when an earlier one fails; a failed place
// contributes zero records and stays visible in the summary. The returned
// error is non-nil only when every place failed, in which case it is the
// first failure so the caller can classify it.
//
// Context cancellation between locations stops the run early and returns
// the partial ResultSet with a nil error.
func (p *Pipeline) Run(ctx context.Context, specialty string, places []string) (*model.ResultSet, error) {
	results := model.NewResultSet()

	var firstErr error
	failures := 0

	for i, place := range places {
		if ctx.Err() != nil {
			p.logger.Info("run cancelled, keeping partial results",
				"completed", i,
				"total", len(places),
			)
			return results, nil
		}

		query := model.NewQuery(specialty, place)
		results.MarkAttempted(place)

		p.logger.Info("searching location",
			"query", query.Text(),
			"index", i+1,
			"total", len(places),
		)

		records, err := p.finder.Find(ctx, query)
		if err != nil {
			p.logger.Error("location failed, continuing with the rest",
				"place", place,
				"error", err,
			)
			failures++
			if firstErr == nil {
				firstErr = err
			}
		} else {
			results.Add(place, records)
			p.logger.Info("location complete",
				"place", place,
				"records", len(records),
			)
		}

		if i < len(places)-1 {
			if err := sleepCtx(ctx, p.locationDelay); err != nil {
				return results, nil
			}
		}
	}

	if len(places) > 0 && failures == len(places) {
		return results, firstErr
	}
	return results, nil
}

// RunQuery searches a single free-text query.
// The records are not partitioned by location.
func (p *Pipeline) RunQuery(ctx context.Context, query model.Query) (*model.ResultSet, error) {
	results := model.NewResultSet()

	p.logger.Info("searching", "query", query.Text())

	records, err := p.finder.Find(ctx, query)
	if err != nil {
		return results, err
	}

	results.Add("", records)
	return results, nil
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
