package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/placescout/placescout/internal/model"
)

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether locations with no records are shown.
	showEmpty bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show zero-count locations.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		// Zero counts are the interesting part of a run summary: they tell
		// the user which locations need a different query.
		showEmpty: true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the result set's summary in human-readable format.
func (w *SimpleWriter) Write(results *model.ResultSet) (int, error) {
	return w.WriteSummary(model.NewSummary(results))
}

// WriteSummary outputs the summary in human-readable format.
func (w *SimpleWriter) WriteSummary(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeLocations(&sb, summary)
	w.writeCoverage(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the total line.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n")
	sb.WriteString("                 SEARCH SUMMARY\n")
	sb.WriteString(strings.Repeat("=", 50))
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("Total records: %d\n\n", summary.Total))
}

// writeLocations writes the per-location counts.
func (w *SimpleWriter) writeLocations(sb *strings.Builder, summary *model.Summary) {
	if len(summary.Locations) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 50))
	sb.WriteString("\n")
	sb.WriteString("RECORDS PER LOCATION\n")
	sb.WriteString(strings.Repeat("-", 50))
	sb.WriteString("\n\n")

	for _, lc := range summary.Locations {
		if lc.Count == 0 && !w.showEmpty {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-30s %d\n", lc.Location, lc.Count))
	}
	sb.WriteString("\n")
}

// writeCoverage writes the known-field counts.
func (w *SimpleWriter) writeCoverage(sb *strings.Builder, summary *model.Summary) {
	sb.WriteString(strings.Repeat("-", 50))
	sb.WriteString("\n")
	sb.WriteString("FIELD COVERAGE\n")
	sb.WriteString(strings.Repeat("-", 50))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Phone:   %s\n", coverage(summary.WithPhone, summary.Total)))
	sb.WriteString(fmt.Sprintf("  Website: %s\n", coverage(summary.WithWebsite, summary.Total)))
	sb.WriteString(fmt.Sprintf("  Rating:  %s\n", coverage(summary.WithRating, summary.Total)))
	sb.WriteString("\n")
}

// coverage formats "n/total" with a percentage, or a dash for empty runs.
func coverage(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%d/%d (%d%%)", n, total, n*100/total)
}
