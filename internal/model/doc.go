// Package model defines the core data structures used throughout placescout.
//
// This package contains the following main types:
//   - Query: A single text-search query, optionally composed from a specialty and a place
//   - PlaceRecord: One normalized business-listing row
//   - ResultSet: Accumulated records, flat and partitioned by location
//   - Summary: Aggregate counts computed over a ResultSet
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (finder, pipeline, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
