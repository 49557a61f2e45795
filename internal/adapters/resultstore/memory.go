// Package resultstore keeps recently computed fit results in memory so the
// chart and export endpoints can find them after the form is rendered.
package resultstore

import (
	"container/list"
	"context"
	"errors"
	"sync"

	"github.com/0xcro3dile/liufit-go/internal/domain/entities"
)

// DefaultCapacity is used when a non-positive capacity is requested.
const DefaultCapacity = 64

// InMemoryStore is a bounded LRU of fit results.
// Safe for concurrent use.
type InMemoryStore struct {
	mu       sync.Mutex
	capacity int
	order    *list.List               // front = most recently used
	items    map[string]*list.Element // id -> element holding *entities.FitResult
}

// NewInMemoryStore creates a store holding at most capacity results.
func NewInMemoryStore(capacity int) *InMemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &InMemoryStore{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Put stores a result, evicting the least recently used one when full.
func (s *InMemoryStore) Put(ctx context.Context, result *entities.FitResult) error {
	if result == nil || result.ID == "" {
		return errors.New("result has no ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[result.ID]; ok {
		el.Value = result
		s.order.MoveToFront(el)
		return nil
	}

	s.items[result.ID] = s.order.PushFront(result)
	for s.order.Len() > s.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*entities.FitResult).ID)
	}
	return nil
}

// Get returns the result for id and marks it recently used.
func (s *InMemoryStore) Get(ctx context.Context, id string) (*entities.FitResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[id]
	if !ok {
		return nil, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*entities.FitResult), true
}

// Len returns the number of held results.
func (s *InMemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

