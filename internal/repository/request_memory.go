package repository

import (
	"context"
	"sync"

	"github.com/campus-kit/helpdesk/internal/domain"
)

type memoryRequestRepository struct {
	mu    sync.RWMutex
	items map[string]*domain.Request
	order []string
}

// NewMemoryRequestRepository returns a process-local request store.
func NewMemoryRequestRepository() RequestRepository {
	return &memoryRequestRepository{items: make(map[string]*domain.Request)}
}

func (r *memoryRequestRepository) List(_ context.Context, filter RequestFilter) ([]domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Request, 0, len(r.order))
	for _, id := range r.order {
		req := r.items[id]
		if !filter.Matches(req) {
			continue
		}
		result = append(result, *req.Clone())
	}
	return result, nil
}

func (r *memoryRequestRepository) GetByID(_ context.Context, id string) (*domain.Request, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return req.Clone(), nil
}

func (r *memoryRequestRepository) Create(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; exists {
		return ErrDuplicate
	}
	stored := req.Clone()
	stored.CanBeReopened = false
	r.items[req.ID] = stored
	r.order = append(r.order, req.ID)
	return nil
}

func (r *memoryRequestRepository) Update(_ context.Context, req *domain.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[req.ID]; !exists {
		return ErrNotFound
	}
	stored := req.Clone()
	stored.CanBeReopened = false
	r.items[req.ID] = stored
	return nil
}
