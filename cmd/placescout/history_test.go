package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/placescout/placescout/internal/database"
	"github.com/placescout/placescout/internal/model"
)

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})

	t.Run("has show flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("show") == nil {
			t.Fatal("expected show flag")
		}
	})
}

func historyTestDB(t *testing.T) *database.HistoryDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

// TestListRuns tests the run table output.
func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("prints saved runs", func(t *testing.T) {
		t.Parallel()

		db := historyTestDB(t)

		results := model.NewResultSet()
		results.Add("Pune", []model.PlaceRecord{
			model.NewPlaceRecord(model.RecordFields{Name: "Smile Dental"}, "Pune", time.Now()),
		})
		run := database.SearchRun{
			Query:     "dentists",
			Specialty: "dentists",
			Places:    []string{"Pune"},
			StartedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		}
		if _, err := db.SaveSearch(context.Background(), run, results); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		if err := listRuns(context.Background(), cmd, db, 20); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		for _, want := range []string{"ID", "dentists", "Pune", "1"} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("empty history prints a notice", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		if err := listRuns(context.Background(), cmd, historyTestDB(t), 20); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No search runs") {
			t.Errorf("expected the empty notice, got %q", buf.String())
		}
	})
}

// TestShowRun tests the per-run CSV output.
func TestShowRun(t *testing.T) {
	t.Parallel()

	t.Run("prints the run's records as CSV", func(t *testing.T) {
		t.Parallel()

		db := historyTestDB(t)

		results := model.NewResultSet()
		results.Add("Pune", []model.PlaceRecord{
			model.NewPlaceRecord(model.RecordFields{Name: "Smile Dental"}, "Pune", time.Now()),
		})
		id, err := db.SaveSearch(context.Background(), database.SearchRun{Query: "dentists"}, results)
		if err != nil {
			t.Fatalf("failed to save run: %v", err)
		}

		cmd := NewHistoryCmd()
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		if err := showRun(context.Background(), cmd, db, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "name,address,phone") {
			t.Errorf("expected the CSV header, got:\n%s", out)
		}
		if !strings.Contains(out, "Smile Dental") {
			t.Errorf("expected the record row, got:\n%s", out)
		}
	})

	t.Run("unknown run id is an error", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		if err := showRun(context.Background(), cmd, historyTestDB(t), 999); err == nil {
			t.Error("expected an error for an unknown run id")
		}
	})
}

// TestTruncate tests the table cell shortening.
func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"short stays", "abc", 10, "abc"},
		{"long gets ellipsis", "abcdefghij", 8, "abcde..."},
		{"tiny max hard-cuts", "abcdef", 2, "ab"},
		{"multibyte short stays", "नवी मुंबई", 10, "नवी मुंबई"},
		{"multibyte cut on rune boundary", "नवी मुंबई, महाराष्ट्र", 8, "नवी म..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := truncate(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
