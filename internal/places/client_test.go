package places

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

// newTestClient points a Client at a local server with fast retries.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient("test-key", server.Client(),
		WithBaseURL(server.URL),
		WithRetryBaseDelay(0),
		WithRateLimit(rate.Inf),
	)
}

// failingTransport fails every round trip and counts attempts.
type failingTransport struct {
	attempts int
}

func (f *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.attempts++
	return nil, errors.New("connection refused")
}

// flakyTransport fails a fixed number of round trips, then succeeds with a
// canned body.
type flakyTransport struct {
	failures int
	attempts int
	body     string
}

func (f *flakyTransport) RoundTrip(*http.Request) (*http.Response, error) {
	f.attempts++
	if f.attempts <= f.failures {
		return nil, errors.New("i/o timeout")
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(bytes.NewReader([]byte(f.body))),
		Header:     make(http.Header),
	}, nil
}

// TestTextSearch tests request construction and response translation.
func TestTextSearch(t *testing.T) {
	t.Parallel()

	t.Run("first page carries query and key but no token", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("query") != "dentists in Pune" {
				t.Errorf("unexpected query param: %q", q.Get("query"))
			}
			if q.Get("key") != "test-key" {
				t.Errorf("unexpected key param: %q", q.Get("key"))
			}
			if q.Has("pagetoken") {
				t.Error("first page must not send a pagetoken")
			}
			io.WriteString(w, `{"status":"OK","results":[{"place_id":"p1","name":"A"},{"place_id":"p2"}],"next_page_token":"tok-2"}`)
		}))

		page, err := client.TextSearch(context.Background(), "dentists in Pune", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Stubs) != 2 {
			t.Errorf("expected 2 stubs, got %d", len(page.Stubs))
		}
		if page.Stubs[0].PlaceID != "p1" {
			t.Errorf("unexpected first stub: %+v", page.Stubs[0])
		}
		if page.NextPageToken != "tok-2" {
			t.Errorf("unexpected token: %q", page.NextPageToken)
		}
	})

	t.Run("continuation page sends the token", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("pagetoken"); got != "tok-2" {
				t.Errorf("expected pagetoken tok-2, got %q", got)
			}
			io.WriteString(w, `{"status":"OK","results":[]}`)
		}))

		if _, err := client.TextSearch(context.Background(), "dentists in Pune", "tok-2"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero results is an empty page, not an error", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"status":"ZERO_RESULTS","results":[]}`)
		}))

		page, err := client.TextSearch(context.Background(), "nothing here", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Stubs) != 0 {
			t.Errorf("expected empty page, got %d stubs", len(page.Stubs))
		}
		if page.NextPageToken != "" {
			t.Errorf("expected no token, got %q", page.NextPageToken)
		}
	})

	t.Run("remote statuses map to error kinds", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			status string
			kind   ErrorKind
		}{
			{"OVER_QUERY_LIMIT", KindQuotaExceeded},
			{"REQUEST_DENIED", KindRequestDenied},
			{"INVALID_REQUEST", KindRemoteError},
		}

		for _, tt := range tests {
			t.Run(tt.status, func(t *testing.T) {
				t.Parallel()

				client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					io.WriteString(w, `{"status":"`+tt.status+`","results":[],"error_message":"boom"}`)
				}))

				_, err := client.TextSearch(context.Background(), "x", "")
				var apiErr *APIError
				if !errors.As(err, &apiErr) {
					t.Fatalf("expected *APIError, got %v", err)
				}
				if apiErr.Kind != tt.kind {
					t.Errorf("expected kind %v, got %v", tt.kind, apiErr.Kind)
				}
				if apiErr.Message != "boom" {
					t.Errorf("expected remote message, got %q", apiErr.Message)
				}
			})
		}
	})
}

// TestRetry tests the transport retry bound.
func TestRetry(t *testing.T) {
	t.Parallel()

	t.Run("exactly max retries attempts then typed failure", func(t *testing.T) {
		t.Parallel()

		transport := &failingTransport{}
		client := NewClient("k", &http.Client{Transport: transport},
			WithBaseURL("http://places.invalid"),
			WithMaxRetries(3),
			WithRetryBaseDelay(0),
			WithRateLimit(rate.Inf),
		)

		_, err := client.TextSearch(context.Background(), "x", "")
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.Kind != KindTransport {
			t.Errorf("expected transport kind, got %v", apiErr.Kind)
		}
		if transport.attempts != 3 {
			t.Errorf("expected exactly 3 attempts, got %d", transport.attempts)
		}
	})

	t.Run("success on the last attempt is not an error", func(t *testing.T) {
		t.Parallel()

		transport := &flakyTransport{
			failures: 2,
			body:     `{"status":"OK","results":[{"place_id":"p1"}]}`,
		}
		client := NewClient("k", &http.Client{Transport: transport},
			WithBaseURL("http://places.invalid"),
			WithMaxRetries(3),
			WithRetryBaseDelay(0),
			WithRateLimit(rate.Inf),
		)

		page, err := client.TextSearch(context.Background(), "x", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(page.Stubs) != 1 {
			t.Errorf("expected 1 stub, got %d", len(page.Stubs))
		}
		if transport.attempts != 3 {
			t.Errorf("expected 3 attempts, got %d", transport.attempts)
		}
	})
}

// TestPlaceDetails tests the details lookup.
func TestPlaceDetails(t *testing.T) {
	t.Parallel()

	t.Run("requests the serialized field list", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("place_id") != "p1" {
				t.Errorf("unexpected place_id: %q", q.Get("place_id"))
			}
			if q.Get("fields") != detailsFields {
				t.Errorf("unexpected fields: %q", q.Get("fields"))
			}
			io.WriteString(w, `{"status":"OK","result":{"name":"Smile Dental","formatted_address":"12 MG Road","rating":4.5,"user_ratings_total":120,"price_level":0,"opening_hours":{"open_now":true},"types":["dentist"]}}`)
		}))

		details, err := client.PlaceDetails(context.Background(), "p1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if details.Name != "Smile Dental" {
			t.Errorf("unexpected name: %q", details.Name)
		}
		if details.Rating == nil || *details.Rating != 4.5 {
			t.Errorf("unexpected rating: %v", details.Rating)
		}
		if details.PriceLevel == nil || *details.PriceLevel != 0 {
			t.Errorf("expected price level 0, got %v", details.PriceLevel)
		}
		if details.OpeningHours == nil || details.OpeningHours.OpenNow == nil || !*details.OpeningHours.OpenNow {
			t.Errorf("unexpected opening hours: %+v", details.OpeningHours)
		}
	})

	t.Run("missing result decodes to empty details", func(t *testing.T) {
		t.Parallel()

		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, `{"status":"ZERO_RESULTS"}`)
		}))

		details, err := client.PlaceDetails(context.Background(), "gone")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if details.Name != "" {
			t.Errorf("expected empty details, got %+v", details)
		}
	})
}
