package location

import (
	"encoding/json"
	"fmt"

	"github.com/khanape/khana-cli/internal/domain"
	"github.com/khanape/khana-cli/internal/storage"
)

const cacheKey = "active"

// StateCache persists the confirmed delivery location in the state
// store's location bucket.
type StateCache struct {
	store *storage.Store
}

// NewStateCache creates a StateCache on top of the state store.
func NewStateCache(store *storage.Store) *StateCache {
	return &StateCache{store: store}
}

// Load returns the saved location. The second return is false when
// nothing was saved or the stored payload is unreadable.
func (c *StateCache) Load() (domain.ResolvedLocation, bool, error) {
	raw, err := c.store.Get(storage.BucketLocation, cacheKey)
	if err != nil {
		return domain.ResolvedLocation{}, false, fmt.Errorf("read location cache: %w", err)
	}
	if raw == nil {
		return domain.ResolvedLocation{}, false, nil
	}
	var resolved domain.ResolvedLocation
	if err := json.Unmarshal(raw, &resolved); err != nil {
		return domain.ResolvedLocation{}, false, nil
	}
	return resolved, true, nil
}

// Save stores the location, replacing any previous entry.
func (c *StateCache) Save(resolved domain.ResolvedLocation) error {
	raw, err := json.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	if err := c.store.Put(storage.BucketLocation, cacheKey, raw); err != nil {
		return fmt.Errorf("write location cache: %w", err)
	}
	return nil
}
