package submission

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// InMemoryStore provides an in-memory ledger for development and tests
type InMemoryStore struct {
	receipts map[string]*Receipt
	order    []string
	mutex    sync.RWMutex
}

// NewInMemoryStore creates an empty ledger
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		receipts: make(map[string]*Receipt),
	}
}

// Record stores a copy of the receipt
func (s *InMemoryStore) Record(ctx context.Context, receipt *Receipt) error {
	if err := validate(receipt); err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.receipts[receipt.SessionID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, receipt.SessionID)
	}

	copied := *receipt
	s.receipts[receipt.SessionID] = &copied
	s.order = append(s.order, receipt.SessionID)
	return nil
}

// Get returns a copy of the receipt of a session
func (s *InMemoryStore) Get(ctx context.Context, sessionID string) (*Receipt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	receipt, exists := s.receipts[sessionID]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
	}

	copied := *receipt
	return &copied, nil
}

// List returns the most recent receipts first
func (s *InMemoryStore) List(ctx context.Context, limit int) ([]*Receipt, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	receipts := make([]*Receipt, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		copied := *s.receipts[s.order[i]]
		receipts = append(receipts, &copied)
	}

	sort.SliceStable(receipts, func(i, j int) bool {
		return receipts[i].CompletedAt.After(receipts[j].CompletedAt)
	})

	if limit > 0 && len(receipts) > limit {
		receipts = receipts[:limit]
	}
	return receipts, nil
}

// Count returns the number of stored receipts
func (s *InMemoryStore) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return int64(len(s.receipts)), nil
}
