// Package location resolves delivery addresses from text search, the
// device position, or the saved address cache.
package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/khanape/khana-cli/internal/domain"
)

const (
	minQueryLength = 3
	cacheTTL       = 24 * time.Hour
)

// ErrPermissionDenied is returned when the user has not granted
// location access. Callers fall back to manual address entry.
var ErrPermissionDenied = errors.New("location permission denied")

// Geocoder resolves free-text addresses and coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) ([]domain.Location, error)
	ReverseGeocode(ctx context.Context, location domain.Location) (domain.Address, error)
}

// PositionSource yields the device's current coordinates.
type PositionSource interface {
	CurrentPosition(ctx context.Context) (domain.Location, error)
}

// ConsentSource reports whether the user granted location access.
type ConsentSource interface {
	LocationConsentGranted() bool
}

// Cache persists the confirmed delivery location between runs.
type Cache interface {
	Load() (domain.ResolvedLocation, bool, error)
	Save(resolved domain.ResolvedLocation) error
}

// Resolver combines the geocode gateway, device position and saved
// address cache behind the address selection operations.
type Resolver struct {
	geocoder Geocoder
	position PositionSource
	consent  ConsentSource
	cache    Cache
	now      func() time.Time
}

// NewResolver creates a Resolver. The cache may be nil when persistence
// is not wanted.
func NewResolver(geocoder Geocoder, position PositionSource, consent ConsentSource, cache Cache) *Resolver {
	return &Resolver{
		geocoder: geocoder,
		position: position,
		consent:  consent,
		cache:    cache,
		now:      time.Now,
	}
}

// PopularSuggestions returns the fixed entries shown before the user
// has typed a meaningful query.
func PopularSuggestions() []domain.Suggestion {
	return []domain.Suggestion{
		{ID: "current", Title: "Use Current Location", Address: "Enable location access", Kind: domain.SuggestionCurrent, Icon: "navigate"},
		{ID: "home", Title: "Home", Address: "Add your home address", Kind: domain.SuggestionSaved, Icon: "home"},
		{ID: "work", Title: "Work", Address: "Add your work address", Kind: domain.SuggestionSaved, Icon: "briefcase"},
	}
}

// Suggest returns address suggestions for the query. Queries shorter
// than three characters yield only the popular entries. Reverse
// geocoding failures degrade to a coordinate label and never fail the
// whole lookup.
func (r *Resolver) Suggest(ctx context.Context, query string) ([]domain.Suggestion, error) {
	suggestions := PopularSuggestions()

	trimmed := strings.TrimSpace(query)
	if len(trimmed) < minQueryLength {
		return suggestions, nil
	}

	hits, err := r.geocoder.Geocode(ctx, trimmed)
	if err != nil {
		return nil, fmt.Errorf("search address: %w", err)
	}
	for i, hit := range hits {
		loc := hit
		suggestions = append(suggestions, domain.Suggestion{
			ID:       fmt.Sprintf("search-%d", i),
			Title:    r.labelFor(ctx, hit),
			Address:  hit.CoordinateLabel(),
			Location: &loc,
			Kind:     domain.SuggestionSearch,
			Icon:     "location",
		})
	}
	return suggestions, nil
}

// Current resolves the device position into a delivery address. It
// requires prior consent and saves the result as the active location.
func (r *Resolver) Current(ctx context.Context) (domain.ResolvedLocation, error) {
	if r.consent == nil || !r.consent.LocationConsentGranted() {
		return domain.ResolvedLocation{}, ErrPermissionDenied
	}

	loc, err := r.position.CurrentPosition(ctx)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("current position: %w", err)
	}
	return r.confirm(ctx, loc)
}

// Confirm resolves and saves the given coordinates as the active
// delivery location.
func (r *Resolver) Confirm(ctx context.Context, loc domain.Location) (domain.ResolvedLocation, error) {
	return r.confirm(ctx, loc)
}

// Active returns the saved delivery location if one exists and was
// confirmed within the last 24 hours.
func (r *Resolver) Active() (domain.ResolvedLocation, bool, error) {
	if r.cache == nil {
		return domain.ResolvedLocation{}, false, nil
	}
	resolved, ok, err := r.cache.Load()
	if err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("load saved location: %w", err)
	}
	if !ok || !resolved.FreshWithin(cacheTTL, r.now()) {
		return domain.ResolvedLocation{}, false, nil
	}
	return resolved, true, nil
}

func (r *Resolver) confirm(ctx context.Context, loc domain.Location) (domain.ResolvedLocation, error) {
	resolved := domain.ResolvedLocation{
		Address: r.labelFor(ctx, loc),
		Lat:     loc.Lat,
		Lon:     loc.Lon,
		SavedAt: r.now(),
	}
	if r.cache != nil {
		if err := r.cache.Save(resolved); err != nil {
			return domain.ResolvedLocation{}, fmt.Errorf("save location: %w", err)
		}
	}
	return resolved, nil
}

// labelFor reverse geocodes the coordinates, falling back to the plain
// coordinate label when the lookup fails.
func (r *Resolver) labelFor(ctx context.Context, loc domain.Location) string {
	address, err := r.geocoder.ReverseGeocode(ctx, loc)
	if err != nil {
		return loc.CoordinateLabel()
	}
	label := address.Label()
	if label == "" {
		return loc.CoordinateLabel()
	}
	return label
}
