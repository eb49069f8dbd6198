package model

// LocationCount pairs a location name with the number of records it produced.
type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Summary holds aggregate counts over a ResultSet.
// It is computed once after collection and never mutates its input.
type Summary struct {
	// Total is the number of records in the flat list.
	Total int `json:"total"`

	// Locations lists per-location counts in processing order.
	// Attempted locations with no records appear with a count of zero.
	Locations []LocationCount `json:"locations,omitempty"`

	// WithPhone counts records whose phone number is known.
	WithPhone int `json:"with_phone"`

	// WithWebsite counts records whose website is known.
	WithWebsite int `json:"with_website"`

	// WithRating counts records whose rating is known.
	WithRating int `json:"with_rating"`
}

// NewSummary computes a Summary over the given ResultSet.
func NewSummary(rs *ResultSet) *Summary {
	s := &Summary{Total: rs.Len()}

	for _, location := range rs.AttemptedLocations() {
		s.Locations = append(s.Locations, LocationCount{
			Location: location,
			Count:    len(rs.ByLocation[location]),
		})
	}

	for _, r := range rs.Records {
		if r.HasPhone() {
			s.WithPhone++
		}
		if r.HasWebsite() {
			s.WithWebsite++
		}
		if r.HasRating() {
			s.WithRating++
		}
	}

	return s
}
