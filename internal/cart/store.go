package cart

import (
	"fmt"

	"github.com/khanape/khana-cli/internal/storage"
)

const linesKey = "lines"

// Store persists cart lines in the state store between invocations.
type Store struct {
	state *storage.Store
}

// NewStore creates a cart store on top of the state store.
func NewStore(state *storage.Store) *Store {
	return &Store{state: state}
}

// Load returns the persisted lines. A missing or unreadable payload
// yields an empty cart.
func (s *Store) Load() ([]Line, error) {
	raw, err := s.state.Get(storage.BucketCart, linesKey)
	if err != nil {
		return nil, fmt.Errorf("read cart: %w", err)
	}
	return DecodeLines(raw), nil
}

// Save replaces the persisted lines.
func (s *Store) Save(lines []Line) error {
	raw, err := EncodeLines(lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.state.Put(storage.BucketCart, linesKey, raw); err != nil {
		return fmt.Errorf("write cart: %w", err)
	}
	return nil
}
