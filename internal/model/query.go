package model

import "strings"

// Query represents a single text-search query.
// A query is either free text ("dentists in Pune") or composed from a
// specialty and a place, in which case both parts are retained so that
// downstream components can partition output per location.
//
// Design decision: Query is an immutable value type. Once issued it is never
// modified, so components can copy it freely without defensive cloning.
type Query struct {
	// specialty is the category term, e.g. "dentists". Empty for free-text queries.
	specialty string

	// place is the location name, e.g. "Pune". Empty for free-text queries.
	place string

	// text is the full search text sent to the remote API.
	text string
}

// NewQuery composes a query from a specialty and a place.
// The search text follows the "<specialty> in <place>" convention used by
// text-search engines for localized category searches.
func NewQuery(specialty, place string) Query {
	specialty = strings.TrimSpace(specialty)
	place = strings.TrimSpace(place)
	return Query{
		specialty: specialty,
		place:     place,
		text:      specialty + " in " + place,
	}
}

// NewFreeTextQuery creates a query from raw search text.
// The query has no associated place, so its results are not partitioned
// by location.
func NewFreeTextQuery(text string) Query {
	return Query{text: strings.TrimSpace(text)}
}

// Text returns the full search text.
func (q Query) Text() string { return q.text }

// Specialty returns the category term, or "" for free-text queries.
func (q Query) Specialty() string { return q.specialty }

// Place returns the location name, or "" for free-text queries.
func (q Query) Place() string { return q.place }

// String implements fmt.Stringer.
func (q Query) String() string { return q.text }
