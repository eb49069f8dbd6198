package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/placescout/placescout/internal/config"
	"github.com/placescout/placescout/internal/log"
)

// defaultBaseURL is the production endpoint root. Tests override it.
const defaultBaseURL = "https://maps.googleapis.com/maps/api/place"

// detailsFields is the field list requested from the details endpoint.
// Requesting only what we serialize keeps the per-call billing tier low.
const detailsFields = "name,formatted_address,formatted_phone_number,website,types," +
	"rating,user_ratings_total,price_level,opening_hours"

// maxResponseBody limits how much of a response we read. Search and details
// responses are small JSON documents; 2MB is far above any legitimate page.
const maxResponseBody = 2 * 1024 * 1024

// Client issues text-search and details requests against the remote API.
//
// Design decision: We use a struct with the http.Client rather than passing
// the client on each call because:
//  1. Timeout and pooling configuration should be consistent
//  2. The rate limiter state must span calls
//  3. Easier to test with an injected http.Client
type Client struct {
	// httpClient performs the requests. Its Timeout is the per-request
	// transport timeout.
	httpClient *http.Client

	// baseURL is the endpoint root without a trailing slash.
	baseURL string

	// apiKey is sent as the key query parameter. Never logged.
	apiKey string

	// maxRetries is the attempt count for transport failures.
	maxRetries int

	// retryBaseDelay is the base of the linear backoff: attempt n sleeps
	// retryBaseDelay × n.
	retryBaseDelay time.Duration

	// limiter spaces successive remote calls.
	limiter *rate.Limiter

	// logger receives debug/warn output.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint root. Used by tests to point the
// client at a local server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithMaxRetries sets the attempt count for transport failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryBaseDelay sets the base of the linear retry backoff.
func WithRetryBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.retryBaseDelay = d
		}
	}
}

// WithRateLimit sets the sustained request rate toward the remote API.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(limit, 1)
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client with the given API key and HTTP client.
// If httpClient is nil, a client with the default transport timeout is used.
//
// Design decision: We accept an external http.Client, following the same
// shape as the rest of the codebase, so tests can count round trips and
// production code can share a pooled transport.
func NewClient(apiKey string, httpClient *http.Client, opts ...Option) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.DefaultTimeout}
	}

	c := &Client{
		httpClient:     httpClient,
		baseURL:        defaultBaseURL,
		apiKey:         apiKey,
		maxRetries:     config.DefaultMaxRetries,
		retryBaseDelay: config.DefaultRetryBaseDelay,
		// 10 requests/second stays well inside the remote QPS ceiling
		// while never being the bottleneck for a paginated crawl.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// TextSearch performs one text-search call.
// An empty pageToken fetches the first page; a non-empty one continues a
// previous search. A ZERO_RESULTS status yields an empty page, not an error.
func (c *Client) TextSearch(ctx context.Context, query, pageToken string) (*SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var resp textSearchResponse
	if err := c.getJSON(ctx, c.baseURL+"/textsearch/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}

	c.logger.Debug("text search page fetched",
		"query", query,
		"results", len(resp.Results),
		"status", resp.Status,
		"hasNextPage", resp.NextPageToken != "",
	)

	return &SearchPage{
		Stubs:         resp.Results,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// PlaceDetails fetches the detail fields for one place identifier.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, c.baseURL+"/details/json?"+params.Encode(), &resp); err != nil {
		return nil, err
	}

	if resp.Status != "OK" && resp.Status != "ZERO_RESULTS" {
		return nil, statusError(resp.Status, resp.ErrorMessage)
	}

	if resp.Result == nil {
		// ZERO_RESULTS, or an OK response without a result body. The caller
		// treats an empty detail set like any other skippable record.
		return &PlaceDetails{}, nil
	}

	return resp.Result, nil
}

// getJSON performs a GET with retry on transport failures and decodes the
// response body into out.
//
// The backoff is linear (base × attempt) per the remote API's guidance for
// transient errors; retry state never persists across calls.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("transport failure, will retry",
				"attempt", attempt,
				"maxRetries", c.maxRetries,
				"error", log.RedactString(err.Error()),
			)
			if attempt == c.maxRetries {
				break
			}
			if err := sleepCtx(ctx, c.retryBaseDelay*time.Duration(attempt)); err != nil {
				return err
			}
			continue
		}

		err = decodeBody(resp, out)
		resp.Body.Close()
		return err
	}

	return &APIError{Kind: KindTransport, Err: lastErr}
}

// decodeBody checks the HTTP status and decodes the JSON body.
func decodeBody(resp *http.Response, out any) error {
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{
			Kind:    KindRemoteError,
			Status:  resp.Status,
			Message: log.RedactString(string(body)),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// sleepCtx sleeps for d or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
