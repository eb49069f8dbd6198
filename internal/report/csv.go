package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/placescout/placescout/internal/model"
)

// CSVWriter serializes records as CSV rows under the shared header.
// Every field is text; absent values carry the "unknown" marker, so every
// row has the same shape regardless of what the remote returned.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// WriteRecords writes the header and one row per record.
// An empty record list returns ErrNothingToWrite and produces no output,
// including no header: an empty file with a header reads like a successful
// run that found nothing, which is not what happened.
func (w *CSVWriter) WriteRecords(records []model.PlaceRecord) error {
	if len(records) == 0 {
		return ErrNothingToWrite
	}

	cw := csv.NewWriter(w.output)
	if err := cw.Write(model.RecordFieldNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes all records to a single file at path.
// Parent directories are created as needed.
func SaveCSV(path string, records []model.PlaceRecord) error {
	if len(records) == 0 {
		return ErrNothingToWrite
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path is user-chosen output
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	werr := NewCSVWriter(f).WriteRecords(records)
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// SaveSeparateCSV writes one file per location into dir and returns the
// paths written, in location processing order. Locations that produced no
// records are skipped; a run where every location came up empty returns
// ErrNothingToWrite.
func SaveSeparateCSV(dir, specialty string, results *model.ResultSet) ([]string, error) {
	if results.Len() == 0 {
		return nil, ErrNothingToWrite
	}

	paths := make([]string, 0, len(results.ByLocation))
	for _, location := range results.AttemptedLocations() {
		records := results.ByLocation[location]
		if len(records) == 0 {
			continue
		}

		path := filepath.Join(dir, FileName(specialty, location))
		if err := SaveCSV(path, records); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, ErrNothingToWrite
	}
	return paths, nil
}

// FileName derives a per-location CSV filename from the specialty and the
// location: "<specialty>_<location>.csv", lowercased and slug-safe.
func FileName(specialty, location string) string {
	return slug(specialty) + "_" + slug(location) + ".csv"
}

// DefaultFileName derives a combined CSV filename from the query text.
func DefaultFileName(query string) string {
	return slug(query) + ".csv"
}

// slug folds a name into a filesystem-safe token: diacritics stripped,
// lowercased, separators collapsed to single underscores.
// "São Paulo" becomes "sao_paulo".
func slug(s string) string {
	folded, _, err := transform.String(transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
