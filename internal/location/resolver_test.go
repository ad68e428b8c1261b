package location

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/khanape/khana-cli/internal/domain"
)

type fakeGeocoder struct {
	hits        []domain.Location
	geocodeErr  error
	reverseErr  error
	address     domain.Address
	geocoded    []string
	reverseHits int
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) ([]domain.Location, error) {
	f.geocoded = append(f.geocoded, query)
	if f.geocodeErr != nil {
		return nil, f.geocodeErr
	}
	return f.hits, nil
}

func (f *fakeGeocoder) ReverseGeocode(_ context.Context, _ domain.Location) (domain.Address, error) {
	f.reverseHits++
	if f.reverseErr != nil {
		return domain.Address{}, f.reverseErr
	}
	return f.address, nil
}

type fakePosition struct {
	loc   domain.Location
	err   error
	calls int
}

func (f *fakePosition) CurrentPosition(_ context.Context) (domain.Location, error) {
	f.calls++
	return f.loc, f.err
}

type fakeConsent bool

func (f fakeConsent) LocationConsentGranted() bool { return bool(f) }

type memoryCache struct {
	resolved domain.ResolvedLocation
	ok       bool
	saveErr  error
}

func (m *memoryCache) Load() (domain.ResolvedLocation, bool, error) {
	return m.resolved, m.ok, nil
}

func (m *memoryCache) Save(resolved domain.ResolvedLocation) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.resolved = resolved
	m.ok = true
	return nil
}

func TestSuggestShortQueryReturnsPopularOnly(t *testing.T) {
	geocoder := &fakeGeocoder{}
	resolver := NewResolver(geocoder, nil, nil, nil)

	for _, query := range []string{"", "a", "ab", "  ab  "} {
		suggestions, err := resolver.Suggest(context.Background(), query)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", query, err)
		}
		if len(suggestions) != 3 {
			t.Fatalf("expected 3 popular entries for %q, got %d", query, len(suggestions))
		}
		if suggestions[0].Kind != domain.SuggestionCurrent {
			t.Fatalf("expected current-location entry first, got %s", suggestions[0].Kind)
		}
	}
	if len(geocoder.geocoded) != 0 {
		t.Fatalf("expected no geocode calls for short queries, got %v", geocoder.geocoded)
	}
}

func TestSuggestMergesSearchHits(t *testing.T) {
	geocoder := &fakeGeocoder{
		hits:    []domain.Location{{Lat: 12.9716, Lon: 77.5946}, {Lat: 13.0827, Lon: 80.2707}},
		address: domain.Address{Street: "MG Road", City: "Bengaluru", Country: "India"},
	}
	resolver := NewResolver(geocoder, nil, nil, nil)

	suggestions, err := resolver.Suggest(context.Background(), "mg road")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(suggestions) != 5 {
		t.Fatalf("expected popular + 2 hits, got %d", len(suggestions))
	}
	hit := suggestions[3]
	if hit.Kind != domain.SuggestionSearch {
		t.Fatalf("expected search-result kind, got %s", hit.Kind)
	}
	if hit.Title != "MG Road, Bengaluru, India" {
		t.Fatalf("unexpected title %q", hit.Title)
	}
	if hit.Location == nil || hit.Location.Lat != 12.9716 {
		t.Fatalf("expected coordinates on search hit, got %+v", hit.Location)
	}
}

func TestSuggestReverseFailureFallsBackToCoordinates(t *testing.T) {
	geocoder := &fakeGeocoder{
		hits:       []domain.Location{{Lat: 12.9716, Lon: 77.5946}},
		reverseErr: errors.New("reverse unavailable"),
	}
	resolver := NewResolver(geocoder, nil, nil, nil)

	suggestions, err := resolver.Suggest(context.Background(), "mg road")
	if err != nil {
		t.Fatalf("expected reverse failure to be swallowed, got %v", err)
	}
	if suggestions[3].Title != "12.9716, 77.5946" {
		t.Fatalf("expected coordinate fallback, got %q", suggestions[3].Title)
	}
}

func TestSuggestGeocodeFailurePropagates(t *testing.T) {
	wantErr := errors.New("lookup down")
	resolver := NewResolver(&fakeGeocoder{geocodeErr: wantErr}, nil, nil, nil)

	_, err := resolver.Suggest(context.Background(), "mg road")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected geocode error, got %v", err)
	}
}

func TestCurrentWithoutConsent(t *testing.T) {
	position := &fakePosition{}
	resolver := NewResolver(&fakeGeocoder{}, position, fakeConsent(false), nil)

	_, err := resolver.Current(context.Background())
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
	if position.calls != 0 {
		t.Fatalf("expected no position fix without consent, got %d calls", position.calls)
	}
}

func TestCurrentResolvesAndSaves(t *testing.T) {
	geocoder := &fakeGeocoder{address: domain.Address{City: "Bengaluru", Country: "India"}}
	position := &fakePosition{loc: domain.Location{Lat: 12.9716, Lon: 77.5946}}
	cache := &memoryCache{}
	resolver := NewResolver(geocoder, position, fakeConsent(true), cache)

	resolved, err := resolver.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resolved.Address != "Bengaluru, India" {
		t.Fatalf("unexpected address %q", resolved.Address)
	}
	if !cache.ok || cache.resolved.Lat != 12.9716 {
		t.Fatalf("expected location saved to cache, got %+v", cache.resolved)
	}
}

func TestActiveFreshnessBoundary(t *testing.T) {
	savedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"just inside window", savedAt.Add(24*time.Hour - time.Millisecond), true},
		{"exactly at window", savedAt.Add(24 * time.Hour), false},
		{"just outside window", savedAt.Add(24*time.Hour + time.Millisecond), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cache := &memoryCache{resolved: domain.ResolvedLocation{Address: "Home", SavedAt: savedAt}, ok: true}
			resolver := NewResolver(&fakeGeocoder{}, nil, nil, cache)
			resolver.now = func() time.Time { return tc.now }

			_, ok, err := resolver.Active()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tc.want {
				t.Fatalf("expected fresh=%v at %s", tc.want, tc.now)
			}
		})
	}
}

func TestActiveEmptyCache(t *testing.T) {
	resolver := NewResolver(&fakeGeocoder{}, nil, nil, &memoryCache{})

	_, ok, err := resolver.Active()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected no active location from empty cache")
	}
}
