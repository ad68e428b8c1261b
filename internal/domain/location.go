package domain

import (
	"fmt"
	"strings"
	"time"
)

// Location identifies a point on earth.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Address holds the structured fields a reverse-geocode returns.
type Address struct {
	Name    string `json:"name,omitempty"`
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// Label joins the populated address fields into one display line.
func (a Address) Label() string {
	head := strings.TrimSpace(strings.TrimSpace(a.Name) + " " + strings.TrimSpace(a.Street))
	parts := make([]string, 0, 4)
	if head != "" {
		parts = append(parts, head)
	}
	for _, part := range []string{a.City, a.Region, a.Country} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ", ")
}

// CoordinateLabel formats raw coordinates with 4 decimal places, used when
// no readable address is available.
func (l Location) CoordinateLabel() string {
	return fmt.Sprintf("%.4f, %.4f", l.Lat, l.Lon)
}

// SuggestionKind tags where a location suggestion came from.
type SuggestionKind string

const (
	SuggestionCurrent SuggestionKind = "current-location"
	SuggestionSaved   SuggestionKind = "saved"
	SuggestionSearch  SuggestionKind = "search-result"
)

// Suggestion is one entry of the autocomplete suggestion list. Search
// results carry coordinates; curated entries may not.
type Suggestion struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Address  string         `json:"address,omitempty"`
	Location *Location      `json:"location,omitempty"`
	Kind     SuggestionKind `json:"kind"`
	Icon     string         `json:"icon,omitempty"`
}

// ResolvedLocation is the user's confirmed delivery address with a
// freshness timestamp.
type ResolvedLocation struct {
	Address string    `json:"address"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	SavedAt time.Time `json:"saved_at"`
}

// FreshWithin reports whether the location was saved less than ttl ago.
func (r ResolvedLocation) FreshWithin(ttl time.Duration, now time.Time) bool {
	if r.SavedAt.IsZero() {
		return false
	}
	return now.Sub(r.SavedAt) < ttl
}
