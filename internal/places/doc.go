// Package places implements the client for the Google Places web service.
//
// The client issues two request kinds: text search (paginated via
// next_page_token) and place details. Transport-level failures are retried
// with a linear backoff; remote status errors are translated into typed
// *APIError values so callers can distinguish quota exhaustion and denied
// requests from generic failures.
package places
