package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/placescout/placescout/internal/model"
)

// fakeFinder returns scripted records or errors keyed by query text.
type fakeFinder struct {
	records map[string][]model.PlaceRecord
	errs    map[string]error
	queries []string
}

func (f *fakeFinder) Find(_ context.Context, query model.Query) ([]model.PlaceRecord, error) {
	f.queries = append(f.queries, query.Text())
	if err, ok := f.errs[query.Text()]; ok {
		return nil, err
	}
	return f.records[query.Text()], nil
}

func record(name string) model.PlaceRecord {
	return model.NewPlaceRecord(model.RecordFields{Name: name}, "", time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func newTestPipeline(f RecordFinder) *Pipeline {
	return New(f,
		WithLocationDelay(0),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

// TestRun tests the multi-location iteration order and accumulation.
func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("visits every place in order and partitions results", func(t *testing.T) {
		t.Parallel()

		finder := &fakeFinder{
			records: map[string][]model.PlaceRecord{
				"dentists in Mumbai": {record("A"), record("B")},
				"dentists in Delhi":  {record("C")},
			},
		}

		results, err := newTestPipeline(finder).Run(context.Background(), "dentists", []string{"Mumbai", "Delhi"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantQueries := []string{"dentists in Mumbai", "dentists in Delhi"}
		if len(finder.queries) != len(wantQueries) {
			t.Fatalf("expected %d queries, got %d", len(wantQueries), len(finder.queries))
		}
		for i, q := range wantQueries {
			if finder.queries[i] != q {
				t.Errorf("query %d: expected %q, got %q", i, q, finder.queries[i])
			}
		}

		if results.Len() != 3 {
			t.Errorf("expected 3 combined records, got %d", results.Len())
		}
		if len(results.ByLocation["Mumbai"]) != 2 || len(results.ByLocation["Delhi"]) != 1 {
			t.Errorf("unexpected partition: %+v", results.ByLocation)
		}
	})

	t.Run("a failed place is skipped but stays attempted", func(t *testing.T) {
		t.Parallel()

		finder := &fakeFinder{
			records: map[string][]model.PlaceRecord{
				"dentists in Pune": {record("A")},
			},
			errs: map[string]error{
				"dentists in Mumbai": errors.New("quota exceeded"),
			},
		}

		results, err := newTestPipeline(finder).Run(context.Background(), "dentists", []string{"Mumbai", "Pune"})
		if err != nil {
			t.Fatalf("one surviving place must not surface an error, got %v", err)
		}

		if results.Len() != 1 {
			t.Errorf("expected 1 record, got %d", results.Len())
		}

		attempted := results.AttemptedLocations()
		if len(attempted) != 2 || attempted[0] != "Mumbai" || attempted[1] != "Pune" {
			t.Errorf("unexpected attempted list: %v", attempted)
		}
		if len(results.ByLocation["Mumbai"]) != 0 {
			t.Errorf("failed place must contribute no records, got %d", len(results.ByLocation["Mumbai"]))
		}
	})

	t.Run("every place failing surfaces the first error", func(t *testing.T) {
		t.Parallel()

		first := errors.New("request denied")
		finder := &fakeFinder{
			errs: map[string]error{
				"dentists in Mumbai": first,
				"dentists in Delhi":  errors.New("also denied"),
			},
		}

		results, err := newTestPipeline(finder).Run(context.Background(), "dentists", []string{"Mumbai", "Delhi"})
		if !errors.Is(err, first) {
			t.Fatalf("expected the first failure, got %v", err)
		}
		if results.Len() != 0 {
			t.Errorf("expected no records, got %d", results.Len())
		}
	})

	t.Run("cancellation stops before the next location", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		finder := &fakeFinder{
			records: map[string][]model.PlaceRecord{
				"dentists in Mumbai": {record("A")},
			},
		}

		pipeline := New(finder,
			WithLocationDelay(5*time.Second),
			WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		)
		go func() {
			time.Sleep(50 * time.Millisecond)
			cancel()
		}()

		results, err := pipeline.Run(ctx, "dentists", []string{"Mumbai", "Delhi"})
		if err != nil {
			t.Fatalf("cancellation must not surface an error, got %v", err)
		}
		if results.Len() != 1 {
			t.Errorf("expected the 1 record from the first place, got %d", results.Len())
		}
		if len(finder.queries) != 1 {
			t.Errorf("expected the second place to be skipped, got %v", finder.queries)
		}
	})
}

// TestRunQuery tests the free-text path.
func TestRunQuery(t *testing.T) {
	t.Parallel()

	t.Run("records land in the flat list only", func(t *testing.T) {
		t.Parallel()

		finder := &fakeFinder{
			records: map[string][]model.PlaceRecord{
				"pediatricians in Mumbai": {record("A"), record("B")},
			},
		}

		results, err := newTestPipeline(finder).RunQuery(context.Background(), model.NewFreeTextQuery("pediatricians in Mumbai"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if results.Len() != 2 {
			t.Errorf("expected 2 records, got %d", results.Len())
		}
		if len(results.ByLocation) != 0 {
			t.Errorf("free-text results must not be partitioned, got %+v", results.ByLocation)
		}
	})

	t.Run("failure propagates", func(t *testing.T) {
		t.Parallel()

		wantErr := errors.New("quota exceeded")
		finder := &fakeFinder{errs: map[string]error{"x": wantErr}}

		_, err := newTestPipeline(finder).RunQuery(context.Background(), model.NewFreeTextQuery("x"))
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected the finder error, got %v", err)
		}
	})
}
