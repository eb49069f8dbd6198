package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"
)

// Unknown is the marker stored for absent optional fields.
// Every row shares one schema: a field that the remote API did not return is
// written as this marker rather than being omitted.
const Unknown = "unknown"

// defaultPhoneRegion is the region used to parse national phone numbers
// returned by the details endpoint. The details endpoint returns numbers in
// national format without a country prefix.
const defaultPhoneRegion = "IN"

// RecordFields carries the raw field values returned by a details lookup
// before normalization. Pointer fields distinguish "absent" from legitimate
// zero values (a price level of 0 means free, not unknown).
type RecordFields struct {
	Name             string
	Address          string
	Phone            string
	Website          string
	Tags             []string
	Rating           *float64
	UserRatingsTotal *int
	PriceLevel       *int
	OpenNow          *bool
}

// PlaceRecord is one normalized business-listing row.
// All fields are text so that the CSV schema is uniform; absent values carry
// the Unknown marker.
//
// Design decision: We store formatted strings rather than typed values
// (float64 rating, int price level) because the record's only consumers are
// tabular output, the summary counters, and the history database, all of
// which operate on text. Keeping one representation avoids a second
// normalization pass at write time.
type PlaceRecord struct {
	// Name is the business name. A record with an unknown name is never retained.
	Name string `json:"name"`

	// Address is the formatted street address.
	Address string `json:"address"`

	// Phone is the contact number, normalized to E.164 where parseable.
	Phone string `json:"phone"`

	// Website is the business website URL with a punycode-normalized host.
	Website string `json:"website"`

	// Tags is the comma-joined category list reported by the remote API.
	Tags string `json:"tags"`

	// Rating is the average user rating formatted to one decimal place.
	Rating string `json:"rating"`

	// UserRatingsTotal is the number of ratings behind Rating.
	UserRatingsTotal string `json:"user_ratings_total"`

	// PriceLevel is the price tier (0 = free .. 4 = very expensive).
	PriceLevel string `json:"price_level"`

	// OpenNow reports whether the business was open at capture time.
	OpenNow string `json:"open_now"`

	// CapturedAt is the RFC 3339 timestamp of the details lookup.
	CapturedAt string `json:"captured_at"`

	// Location is the search place this record originated from, or Unknown
	// for free-text queries.
	Location string `json:"location"`
}

// RecordFieldNames returns the CSV header, in column order.
// The order must match PlaceRecord.Row.
func RecordFieldNames() []string {
	return []string{
		"name",
		"address",
		"phone",
		"website",
		"tags",
		"rating",
		"user_ratings_total",
		"price_level",
		"open_now",
		"captured_at",
		"location",
	}
}

// Row returns the record's values in header order.
func (r PlaceRecord) Row() []string {
	return []string{
		r.Name,
		r.Address,
		r.Phone,
		r.Website,
		r.Tags,
		r.Rating,
		r.UserRatingsTotal,
		r.PriceLevel,
		r.OpenNow,
		r.CapturedAt,
		r.Location,
	}
}

// NewPlaceRecord normalizes raw details fields into a PlaceRecord.
// Absent fields are mapped to Unknown; phone and website are normalized.
// The caller decides whether to retain the record via Valid.
func NewPlaceRecord(f RecordFields, location string, capturedAt time.Time) PlaceRecord {
	r := PlaceRecord{
		Name:             textOrUnknown(f.Name),
		Address:          textOrUnknown(f.Address),
		Phone:            normalizePhone(f.Phone),
		Website:          normalizeWebsite(f.Website),
		Tags:             Unknown,
		Rating:           Unknown,
		UserRatingsTotal: Unknown,
		PriceLevel:       Unknown,
		OpenNow:          Unknown,
		CapturedAt:       capturedAt.UTC().Format(time.RFC3339),
		Location:         textOrUnknown(location),
	}

	if len(f.Tags) > 0 {
		r.Tags = strings.Join(f.Tags, ", ")
	}
	if f.Rating != nil {
		r.Rating = strconv.FormatFloat(*f.Rating, 'f', 1, 64)
	}
	if f.UserRatingsTotal != nil {
		r.UserRatingsTotal = strconv.Itoa(*f.UserRatingsTotal)
	}
	if f.PriceLevel != nil {
		r.PriceLevel = strconv.Itoa(*f.PriceLevel)
	}
	if f.OpenNow != nil {
		r.OpenNow = strconv.FormatBool(*f.OpenNow)
	}

	return r
}

// Valid reports whether the record should be retained.
// A record without a name is dropped: the remote either returned a stub we
// could not expand or a listing with no usable identity.
func (r PlaceRecord) Valid() bool {
	return r.Name != Unknown && r.Name != ""
}

// HasPhone reports whether the record carries a known phone number.
func (r PlaceRecord) HasPhone() bool { return r.Phone != Unknown }

// HasWebsite reports whether the record carries a known website.
func (r PlaceRecord) HasWebsite() bool { return r.Website != Unknown }

// HasRating reports whether the record carries a known rating.
func (r PlaceRecord) HasRating() bool { return r.Rating != Unknown }

// textOrUnknown trims the value and substitutes Unknown for empty strings.
func textOrUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unknown
	}
	return s
}

// normalizePhone converts a national-format phone number to E.164.
// Numbers that cannot be parsed or are not valid keep their raw form; an
// unparseable number is still worth emitting for a human to interpret.
func normalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}

	number, err := phonenumbers.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return raw
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// normalizeWebsite normalizes the host portion of a website URL to its
// punycode (IDNA) form so that internationalized domains serialize safely
// to CSV. Values that do not parse as URLs keep their raw form.
func normalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Unknown
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	host, err := idna.Lookup.ToASCII(u.Hostname())
	if err != nil {
		return raw
	}
	if port := u.Port(); port != "" {
		host = host + ":" + port
	}
	u.Host = host
	return u.String()
}
