package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/campus-kit/helpdesk/internal/domain"
)

// AccountRepository looks up demo accounts for the session collaborator.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// Update replaces the stored account with the same ID. Changing the
	// email to one held by another account fails with ErrDuplicate.
	Update(ctx context.Context, account *domain.Account) error
}

type memoryAccountRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

// NewMemoryAccountRepository returns an in-process account directory.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(account.Email)
	if _, exists := r.byEmail[email]; exists {
		return ErrDuplicate
	}
	if _, exists := r.byID[account.ID]; exists {
		return ErrDuplicate
	}
	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[email] = account.ID
	return nil
}

func (r *memoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	account := *r.byID[id]
	return &account, nil
}

func (r *memoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	account := *stored
	return &account, nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.byID[account.ID]
	if !ok {
		return ErrNotFound
	}
	oldEmail := normalizeEmail(current.Email)
	newEmail := normalizeEmail(account.Email)
	if newEmail != oldEmail {
		if _, taken := r.byEmail[newEmail]; taken {
			return ErrDuplicate
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[newEmail] = account.ID
	}
	stored := *account
	r.byID[account.ID] = &stored
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
