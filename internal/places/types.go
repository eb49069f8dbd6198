package places

// PlaceStub is a minimal search-result entry. It carries the opaque place
// identifier that a details lookup expands into full fields.
type PlaceStub struct {
	// PlaceID is the opaque identifier used for the details lookup.
	PlaceID string `json:"place_id"`

	// Name is the business name as reported by the search endpoint.
	// Useful for logging; the authoritative name comes from details.
	Name string `json:"name,omitempty"`
}

// SearchPage is the result of one text-search call: an ordered sequence of
// place stubs plus an optional continuation token. A page is produced per
// API call and discarded after processing.
type SearchPage struct {
	// Stubs are the results on this page, in remote order.
	Stubs []PlaceStub `json:"results"`

	// NextPageToken continues pagination when non-empty. The token must not
	// be used before the mandated inter-page delay elapses.
	NextPageToken string `json:"next_page_token,omitempty"`
}

// PlaceDetails holds the fields requested from the details endpoint.
// Pointer fields distinguish absent values from legitimate zeros.
type PlaceDetails struct {
	Name                 string        `json:"name"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	Types                []string      `json:"types,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     *int          `json:"user_ratings_total,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
}

// OpeningHours carries the open-now flag from the details endpoint.
type OpeningHours struct {
	OpenNow *bool `json:"open_now,omitempty"`
}

// textSearchResponse is the wire form of a text-search response.
type textSearchResponse struct {
	Results       []PlaceStub `json:"results"`
	Status        string      `json:"status"`
	ErrorMessage  string      `json:"error_message,omitempty"`
	NextPageToken string      `json:"next_page_token,omitempty"`
}

// detailsResponse is the wire form of a details response.
type detailsResponse struct {
	Result       *PlaceDetails `json:"result"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}
