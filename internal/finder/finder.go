package finder

import (
	"context"
	"log/slog"
	"time"

	"github.com/placescout/placescout/internal/config"
	"github.com/placescout/placescout/internal/model"
	"github.com/placescout/placescout/internal/places"
)

// SearchAPI is the remote surface the finder depends on.
//
// Design decision: We depend on an interface rather than *places.Client so
// tests can script page sequences and failures without a network server.
type SearchAPI interface {
	// TextSearch fetches one search page. An empty pageToken means the
	// first page.
	TextSearch(ctx context.Context, query, pageToken string) (*places.SearchPage, error)

	// PlaceDetails expands a place identifier into detail fields.
	PlaceDetails(ctx context.Context, placeID string) (*places.PlaceDetails, error)
}

// Finder collects validated records for one query.
type Finder struct {
	// api is the remote search surface.
	api SearchAPI

	// maxResults caps the records collected per query. 0 means unlimited.
	// Once the cap is reached the finder returns immediately, leaving the
	// rest of the current page unfetched.
	maxResults int

	// pageDelay is the wait before using a continuation token. The remote
	// issues tokens before they become valid, so skipping this delay makes
	// the next fetch fail.
	pageDelay time.Duration

	// logger receives progress and skip diagnostics.
	logger *slog.Logger

	// now stamps records at capture time. Overridable for tests.
	now func() time.Time
}

// Option configures a Finder.
type Option func(*Finder)

// WithMaxResults caps the number of records collected per query.
// 0 disables the cap.
func WithMaxResults(n int) Option {
	return func(f *Finder) {
		if n >= 0 {
			f.maxResults = n
		}
	}
}

// WithPageDelay sets the wait before fetching a continuation page.
func WithPageDelay(d time.Duration) Option {
	return func(f *Finder) {
		if d >= 0 {
			f.pageDelay = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logger
	}
}

// WithClock overrides the capture timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(f *Finder) {
		f.now = now
	}
}

// New creates a Finder over the given API.
func New(api SearchAPI, opts ...Option) *Finder {
	f := &Finder{
		api:       api,
		pageDelay: config.DefaultPageDelay,
		logger:    slog.Default(),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Find collects records for the query until the pages are exhausted, the
// result cap is reached, or the context is cancelled.
//
// Failure semantics: an API failure before anything was collected
// propagates to the caller; a failure after some records were collected is
// swallowed and the partial list returned, because a partial listing is
// worth more than a clean abort. Cancellation always returns what was
// collected, with a nil error.
func (f *Finder) Find(ctx context.Context, query model.Query) ([]model.PlaceRecord, error) {
	records := make([]model.PlaceRecord, 0)
	pageToken := ""

	for page := 1; ; page++ {
		searchPage, err := f.api.TextSearch(ctx, query.Text(), pageToken)
		if err != nil {
			if len(records) > 0 {
				f.logger.Warn("search failed mid-run, keeping partial results",
					"query", query.Text(),
					"page", page,
					"collected", len(records),
					"error", err,
				)
				return records, nil
			}
			return nil, err
		}

		if len(searchPage.Stubs) == 0 {
			return records, nil
		}

		for _, stub := range searchPage.Stubs {
			if ctx.Err() != nil {
				f.logger.Info("cancelled, returning collected records",
					"query", query.Text(),
					"collected", len(records),
				)
				return records, nil
			}
			if f.maxResults > 0 && len(records) >= f.maxResults {
				return records, nil
			}

			record, ok := f.lookup(ctx, stub, query.Place())
			if !ok {
				continue
			}
			records = append(records, record)
		}

		if f.maxResults > 0 && len(records) >= f.maxResults {
			return records, nil
		}
		if searchPage.NextPageToken == "" {
			return records, nil
		}
		pageToken = searchPage.NextPageToken

		f.logger.Debug("waiting before continuation page",
			"query", query.Text(),
			"delay", f.pageDelay,
		)
		if err := sleepCtx(ctx, f.pageDelay); err != nil {
			return records, nil
		}
	}
}

// lookup expands one stub into a validated record.
// Failures and invalid records are logged and skipped; a single bad lookup
// must not abort the batch.
func (f *Finder) lookup(ctx context.Context, stub places.PlaceStub, location string) (model.PlaceRecord, bool) {
	details, err := f.api.PlaceDetails(ctx, stub.PlaceID)
	if err != nil {
		f.logger.Warn("details lookup failed, skipping",
			"placeID", stub.PlaceID,
			"name", stub.Name,
			"error", err,
		)
		return model.PlaceRecord{}, false
	}

	record := model.NewPlaceRecord(recordFields(details), location, f.now())
	if !record.Valid() {
		f.logger.Debug("dropping record without a name", "placeID", stub.PlaceID)
		return model.PlaceRecord{}, false
	}

	return record, true
}

// recordFields maps wire details onto normalization input.
func recordFields(d *places.PlaceDetails) model.RecordFields {
	fields := model.RecordFields{
		Name:             d.Name,
		Address:          d.FormattedAddress,
		Phone:            d.FormattedPhoneNumber,
		Website:          d.Website,
		Tags:             d.Types,
		Rating:           d.Rating,
		UserRatingsTotal: d.UserRatingsTotal,
		PriceLevel:       d.PriceLevel,
	}
	if d.OpeningHours != nil {
		fields.OpenNow = d.OpeningHours.OpenNow
	}
	return fields
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
