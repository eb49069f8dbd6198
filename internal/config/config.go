package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The delay values mirror the remote API's documented requirements rather
// than local preferences.
const (
	// DefaultTimeout is the per-request transport timeout. Text-search and
	// details calls are small JSON responses; 10 seconds is generous.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the number of attempts for a remote call that
	// fails at the transport level (timeout, connection error).
	DefaultMaxRetries = 3

	// DefaultRetryBaseDelay is the base for the linear retry backoff.
	// Attempt n sleeps base × n before retrying.
	DefaultRetryBaseDelay = 2 * time.Second

	// DefaultPageDelay is the wait before using a continuation token.
	// The remote issues tokens before they become valid; using one too early
	// returns INVALID_REQUEST. Two seconds is the documented safe window.
	DefaultPageDelay = 2 * time.Second

	// DefaultLocationDelay is the pause between locations in a multi-place
	// run. This is a politeness setting toward the remote quota.
	DefaultLocationDelay = 1 * time.Second

	// DefaultMaxResults of 0 means no per-location cap.
	DefaultMaxResults = 0

	// AppName is the application name used for XDG directory paths.
	AppName = "placescout"

	// EnvAPIKey is the environment variable holding the API key.
	EnvAPIKey = "GOOGLE_MAPS_API_KEY"
)

// Config holds all configuration options for a placescout run.
// This struct is populated from CLI flags plus the optional config file and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., SearchConfig, OutputConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// FreeQuery is a raw search text ("pediatricians in Mumbai").
	// When set, Specialty and Places are ignored.
	FreeQuery string

	// Specialty is the category term combined with each place to form a
	// query, e.g. "dentists".
	Specialty string

	// Places is the ordered list of locations to search.
	// When empty, the config file's default list is used.
	Places []string

	// MaxResults caps the number of records collected per location.
	// 0 means unlimited.
	MaxResults int

	// OutputFile is the CSV destination for combined output.
	// When empty, a name is derived from the query.
	OutputFile string

	// SeparateFiles writes one CSV file per location instead of one
	// combined file.
	SeparateFiles bool

	// JSONReport prints the run summary as JSON instead of the
	// human-readable form. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Timeout is the transport timeout for each remote call.
	Timeout time.Duration

	// MaxRetries is the attempt count for transport-level failures.
	MaxRetries int

	// RetryBaseDelay is the base for the linear retry backoff.
	RetryBaseDelay time.Duration

	// PageDelay is the mandatory wait before fetching a continuation page.
	PageDelay time.Duration

	// LocationDelay is the pause between locations; never applied after
	// the last one.
	LocationDelay time.Duration

	// Verbose enables debug-level log output.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .placescout in the current directory and then in
	// the user's home directory.
	ConfigFilePath string

	// APIKey is the remote API key, read from the environment at startup.
	// An empty key is a warning, not an error: requests fail at call time
	// with a REQUEST_DENIED status the user can act on.
	APIKey string

	// DBDir is the directory for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to record the run in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (delays, timeout). This
// also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		MaxResults:     DefaultMaxResults,
		Timeout:        DefaultTimeout,
		MaxRetries:     DefaultMaxRetries,
		RetryBaseDelay: DefaultRetryBaseDelay,
		PageDelay:      DefaultPageDelay,
		LocationDelay:  DefaultLocationDelay,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for placescout.
// On Linux: ~/.local/share/placescout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found; fixing one error often makes
// others irrelevant.
func (c *Config) Validate() error {
	if c.FreeQuery == "" && c.Specialty == "" {
		return ErrNoQuery
	}

	if c.FreeQuery == "" && len(c.Places) == 0 {
		return ErrNoPlaces
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxRetries <= 0 {
		return ErrInvalidMaxRetries
	}

	if c.MaxResults < 0 {
		return ErrInvalidMaxResults
	}

	if c.PageDelay < 0 || c.LocationDelay < 0 {
		return ErrInvalidDelay
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.SeparateFiles && c.FreeQuery != "" {
		return ErrSeparateFilesFreeQuery
	}

	return nil
}

// ParsePlaces splits a comma- or semicolon-separated place list.
// Empty entries are dropped and surrounding whitespace is trimmed.
func ParsePlaces(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';'
	})

	places := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			places = append(places, f)
		}
	}
	return places
}
