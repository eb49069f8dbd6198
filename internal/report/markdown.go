package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/placescout/placescout/internal/model"
)

// MarkdownWriter outputs results in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the result set's summary in Markdown format.
func (w *MarkdownWriter) Write(results *model.ResultSet) (int, error) {
	return w.WriteSummary(model.NewSummary(results))
}

// WriteSummary outputs the summary in Markdown format.
func (w *MarkdownWriter) WriteSummary(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeLocations(md, summary)
	w.writeCoverage(md, summary)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and total count.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.Summary) {
	md.H1("Search Summary")
	md.PlainText("")
	md.PlainTextf("Total records: **%d**", summary.Total)
	md.PlainText("")

	if summary.Total == 0 {
		md.Warning("No records were collected. Check the query and the per-location log output.")
		md.PlainText("")
	}
}

// writeLocations writes the per-location count table.
func (w *MarkdownWriter) writeLocations(md *markdown.Markdown, summary *model.Summary) {
	if len(summary.Locations) == 0 {
		return
	}

	md.H2("Records per Location")
	md.PlainText("")

	rows := make([][]string, 0, len(summary.Locations))
	for _, lc := range summary.Locations {
		rows = append(rows, []string{lc.Location, strconv.Itoa(lc.Count)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Location", "Records"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeCoverage writes the known-field counts with a pie chart.
func (w *MarkdownWriter) writeCoverage(md *markdown.Markdown, summary *model.Summary) {
	md.H2("Field Coverage")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Field", "Known", "Unknown"},
		Rows: [][]string{
			{"Phone", strconv.Itoa(summary.WithPhone), strconv.Itoa(summary.Total - summary.WithPhone)},
			{"Website", strconv.Itoa(summary.WithWebsite), strconv.Itoa(summary.Total - summary.WithWebsite)},
			{"Rating", strconv.Itoa(summary.WithRating), strconv.Itoa(summary.Total - summary.WithRating)},
		},
	})
	md.PlainText("")

	if summary.Total > 0 {
		w.writePieChart(md, summary)
	}
}

// writePieChart writes a mermaid pie chart of contactability: how many
// records carry a phone number, only a website, or neither.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Contact Field Coverage"),
		piechart.WithShowData(true),
	)

	if summary.WithPhone > 0 {
		chart.LabelAndIntValue("With phone", uint64(summary.WithPhone))
	}
	if summary.WithWebsite > 0 {
		chart.LabelAndIntValue("With website", uint64(summary.WithWebsite))
	}
	missing := summary.Total - summary.WithPhone
	if missing > 0 {
		chart.LabelAndIntValue("No phone", uint64(missing))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}
