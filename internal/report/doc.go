// Package report serializes run results.
//
// Two kinds of output live here. The CSV writers produce the data artifact:
// one combined file, or one file per location with a slug-derived name. The
// summary writers present the aggregate counts in a format chosen at the
// command line: plain text for terminals, Markdown for sharing, JSON for
// tool integration. Summary writers share the Writer interface so the
// command layer can pick one (or fan out to several) without branching.
package report
