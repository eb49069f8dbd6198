package model

// ResultSet accumulates the records collected during one run.
// It maintains both the flat combined list and the per-location partition,
// plus the ordered list of locations that were attempted (including those
// that produced nothing), so the summary can report zero counts.
//
// Design decision: ResultSet is owned exclusively by the active pipeline and
// is never shared across goroutines, so it carries no locking.
type ResultSet struct {
	// Records is the flat combined list in collection order.
	Records []PlaceRecord `json:"records"`

	// ByLocation maps a location name to the records collected for it.
	// Free-text runs leave this empty.
	ByLocation map[string][]PlaceRecord `json:"by_location,omitempty"`

	// attempted preserves the order in which locations were processed.
	attempted []string
}

// NewResultSet creates an empty ResultSet.
func NewResultSet() *ResultSet {
	return &ResultSet{
		Records:    make([]PlaceRecord, 0),
		ByLocation: make(map[string][]PlaceRecord),
	}
}

// MarkAttempted records that a location was processed, regardless of outcome.
// Locations are reported in the order they were first marked.
func (rs *ResultSet) MarkAttempted(location string) {
	for _, l := range rs.attempted {
		if l == location {
			return
		}
	}
	rs.attempted = append(rs.attempted, location)
}

// Add appends records for a location to both the flat list and the
// per-location partition. An empty location adds to the flat list only.
func (rs *ResultSet) Add(location string, records []PlaceRecord) {
	rs.Records = append(rs.Records, records...)
	if location == "" {
		return
	}
	rs.MarkAttempted(location)
	rs.ByLocation[location] = append(rs.ByLocation[location], records...)
}

// Len returns the number of records in the flat list.
func (rs *ResultSet) Len() int { return len(rs.Records) }

// AttemptedLocations returns the locations processed during the run,
// in processing order.
func (rs *ResultSet) AttemptedLocations() []string {
	out := make([]string, len(rs.attempted))
	copy(out, rs.attempted)
	return out
}
