package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoQuery is returned when neither a free-text query nor a
	// specialty is specified.
	ErrNoQuery = errors.New("no query specified: provide --query or --specialty")

	// ErrNoPlaces is returned when a specialty search has no places, not
	// even from the config file's default list.
	ErrNoPlaces = errors.New("no places specified: provide --places or set a default list in .placescout")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxRetries is returned when the retry attempt count is not
	// positive. Zero attempts would mean no requests at all.
	ErrInvalidMaxRetries = errors.New("invalid max retries: must be positive")

	// ErrInvalidMaxResults is returned when the per-location cap is
	// negative. Use 0 for no cap.
	ErrInvalidMaxResults = errors.New("invalid max results: must be non-negative")

	// ErrInvalidDelay is returned when a page or location delay is
	// negative. Use 0 to disable a delay.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one summary format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrSeparateFilesFreeQuery is returned when per-location output is
	// requested for a free-text query, which has no location partition.
	ErrSeparateFilesFreeQuery = errors.New("separate files require --specialty and --places, not a free-text query")
)
