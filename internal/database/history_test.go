package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/placescout/placescout/internal/model"
)

func openTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := hdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return hdb
}

func testRun(query, specialty string, places []string) SearchRun {
	return SearchRun{
		Query:     query,
		Specialty: specialty,
		Places:    places,
		StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func testResults(names ...string) *model.ResultSet {
	results := model.NewResultSet()
	records := make([]model.PlaceRecord, 0, len(names))
	for _, n := range names {
		records = append(records, model.NewPlaceRecord(
			model.RecordFields{Name: n, Phone: "099999 88888"},
			"Pune",
			time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		))
	}
	results.Add("Pune", records)
	return results
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates the file when allowed", func(t *testing.T) {
		t.Parallel()

		openTestDB(t)
	})

	t.Run("refuses a missing file when creation is disabled", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Fatal("expected an error for a missing database")
		}
	})
}

// TestSaveSearch tests the save/list/read round trip.
func TestSaveSearch(t *testing.T) {
	t.Parallel()

	t.Run("round trip preserves run metadata and records", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		id, err := hdb.SaveSearch(ctx, testRun("dentists", "dentists", []string{"Mumbai", "Pune"}), testResults("A", "B"))
		if err != nil {
			t.Fatalf("failed to save search: %v", err)
		}

		runs, err := hdb.ListSearches(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(runs) != 1 {
			t.Fatalf("expected 1 run, got %d", len(runs))
		}

		run := runs[0]
		if run.ID != id {
			t.Errorf("expected id %d, got %d", id, run.ID)
		}
		if run.TotalRecords != 2 {
			t.Errorf("expected 2 records, got %d", run.TotalRecords)
		}
		if len(run.Places) != 2 || run.Places[0] != "Mumbai" || run.Places[1] != "Pune" {
			t.Errorf("unexpected place list: %v", run.Places)
		}
		if run.StartedAt.IsZero() {
			t.Error("expected a parsed start time")
		}

		records, err := hdb.RecordsBySearch(ctx, id)
		if err != nil {
			t.Fatalf("failed to read records: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0].Name != "A" || records[1].Name != "B" {
			t.Errorf("records out of order: %v, %v", records[0].Name, records[1].Name)
		}
		if records[0].Location != "Pune" {
			t.Errorf("unexpected location: %q", records[0].Location)
		}
		if records[0].Website != model.Unknown {
			t.Errorf("expected unknown website marker, got %q", records[0].Website)
		}
	})

	t.Run("empty run saves zero records", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		id, err := hdb.SaveSearch(ctx, testRun("dentists", "dentists", []string{"Delhi"}), model.NewResultSet())
		if err != nil {
			t.Fatalf("failed to save search: %v", err)
		}

		records, err := hdb.RecordsBySearch(ctx, id)
		if err != nil {
			t.Fatalf("failed to read records: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("expected no records, got %d", len(records))
		}
	})
}

// TestListSearches tests ordering and limits.
func TestListSearches(t *testing.T) {
	t.Parallel()

	t.Run("newest first with a limit", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)
		ctx := context.Background()

		for i, q := range []string{"dentists", "plumbers", "cafes"} {
			run := testRun(q, q, nil)
			run.StartedAt = run.StartedAt.Add(time.Duration(i) * time.Hour)
			if _, err := hdb.SaveSearch(ctx, run, model.NewResultSet()); err != nil {
				t.Fatalf("failed to save search %q: %v", q, err)
			}
		}

		runs, err := hdb.ListSearches(ctx, 2)
		if err != nil {
			t.Fatalf("failed to list searches: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].Query != "cafes" || runs[1].Query != "plumbers" {
			t.Errorf("unexpected order: %q, %q", runs[0].Query, runs[1].Query)
		}
	})

	t.Run("empty history has no latest run", func(t *testing.T) {
		t.Parallel()

		hdb := openTestDB(t)

		_, err := hdb.LatestSearch(context.Background())
		if !errors.Is(err, ErrEmptyHistory) {
			t.Fatalf("expected ErrEmptyHistory, got %v", err)
		}
	})
}
