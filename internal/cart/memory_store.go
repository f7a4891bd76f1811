package cart

import (
	"context"
	"encoding/json"
	"sync"

	"storefront/internal/model"
)

// MemoryStore keeps carts in process memory. Carts are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryStore creates an empty in-memory cart store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

// Load returns a copy of the stored cart.
func (s *MemoryStore) Load(_ context.Context, userID string) (*Cart, error) {
	s.mu.RLock()
	data, ok := s.carts[userID]
	s.mu.RUnlock()

	if !ok {
		return New(), nil
	}
	return decode(data)
}

// Save stores a snapshot of c.
func (s *MemoryStore) Save(_ context.Context, userID string, c *Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[userID] = data
	s.mu.Unlock()
	return nil
}

// Delete forgets the user's cart.
func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	delete(s.carts, userID)
	s.mu.Unlock()
	return nil
}

func decode(data []byte) (*Cart, error) {
	c := New()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, err
	}
	if c.Products == nil {
		c.Products = []model.LineItem{}
	}
	c.recalculate()
	return c, nil
}
