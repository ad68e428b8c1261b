// Package profile keeps the user's account profile synchronized
// between the hosted document store and the local state cache.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/gateway/docstore"
	"github.com/khanape/khana-cli/internal/storage"
)

const profileCollection = "users"

var (
	// ErrNameRequired rejects profiles without a name.
	ErrNameRequired = errors.New("name is required")
	// ErrInvalidEmail rejects malformed email addresses.
	ErrInvalidEmail = errors.New("please enter a valid email address")
	// ErrProfileNotFound indicates no profile exists locally or remotely.
	ErrProfileNotFound = errors.New("profile not found")

	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// Documents is the remote profile document access the service needs.
type Documents interface {
	GetDocument(ctx context.Context, collection, id string) (map[string]any, error)
	SetDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error
}

// Service loads and saves user profiles, preferring the local cache
// and mirroring remote reads into it.
type Service struct {
	documents Documents
	cache     *storage.Store
}

// NewService creates a profile service. The cache may be nil, in which
// case every read goes to the document store.
func NewService(documents Documents, cache *storage.Store) *Service {
	return &Service{documents: documents, cache: cache}
}

// Load returns the profile for userID. Cached copies win; on a cache
// miss the document store is consulted and the result mirrored back.
// When the document store is unreachable a cached copy, if any, is
// still returned.
func (s *Service) Load(ctx context.Context, userID string) (domain.UserProfile, error) {
	cached, cacheHit := s.fromCache(userID)
	if cacheHit {
		return cached, nil
	}

	fields, err := s.documents.GetDocument(ctx, profileCollection, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrDocumentNotFound) {
			return domain.UserProfile{}, ErrProfileNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("load profile: %w", err)
	}

	loaded := fromFields(fields)
	s.toCache(userID, loaded)
	return loaded, nil
}

// Save validates and writes the profile through to the document store
// and the local cache.
func (s *Service) Save(ctx context.Context, userID string, profile domain.UserProfile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return ErrNameRequired
	}
	if email := strings.TrimSpace(profile.Email); email != "" && !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}

	if err := s.documents.SetDocument(ctx, profileCollection, userID, toFields(profile), true); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.toCache(userID, profile)
	return nil
}

func (s *Service) fromCache(userID string) (domain.UserProfile, bool) {
	if s.cache == nil {
		return domain.UserProfile{}, false
	}
	raw, err := s.cache.Get(storage.BucketProfiles, userID)
	if err != nil || raw == nil {
		return domain.UserProfile{}, false
	}
	var profile domain.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.UserProfile{}, false
	}
	return profile, true
}

// toCache mirrors the profile locally. Cache write failures are not
// surfaced since the authoritative copy is remote.
func (s *Service) toCache(userID string, profile domain.UserProfile) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(profile)
	if err != nil {
		return
	}
	_ = s.cache.Put(storage.BucketProfiles, userID, raw)
}

func toFields(profile domain.UserProfile) map[string]any {
	return map[string]any{
		"name":  profile.Name,
		"email": profile.Email,
		"phone": profile.Phone,
		"image": profile.Image,
	}
}

func fromFields(fields map[string]any) domain.UserProfile {
	return domain.UserProfile{
		Name:  asString(fields["name"]),
		Email: asString(fields["email"]),
		Phone: asString(fields["phone"]),
		Image: asString(fields["image"]),
	}
}

func asString(value any) string {
	s, _ := value.(string)
	return s
}
