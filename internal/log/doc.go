// Package log provides slog helpers that keep the API key out of log output.
//
// Every request in this tool carries the secret API key as a query parameter,
// so any logged URL or error string is a potential leak. The handler in this
// package sanitizes attribute values before they reach the underlying slog
// handler, masking key-like attribute names and key=... query parameters.
package log
