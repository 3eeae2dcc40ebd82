package accounts

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory account store for tests and local dev.
type MemoryRepo struct {
	mu       sync.RWMutex
	accounts map[string]Account
	byEmail  map[string]string
}

// NewMemoryRepo returns an empty memory-backed repo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		accounts: make(map[string]Account),
		byEmail:  make(map[string]string),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *MemoryRepo) Create(ctx context.Context, account Account) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(account.Email)
	if _, exists := r.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	r.accounts[account.ID] = account
	r.byEmail[key] = account.ID
	return nil
}

func (r *MemoryRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return Account{}, ErrNotFound
	}
	return r.accounts[id], nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return account, nil
}

func (r *MemoryRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.LastLogin = &at
	r.accounts[id] = account
	return nil
}

func (r *MemoryRepo) UpsertGoogle(ctx context.Context, account Account) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalizeEmail(account.Email)
	if ownerID, taken := r.byEmail[key]; taken && ownerID != account.ID {
		return Account{}, ErrDuplicateEmail
	}

	now := time.Now().UTC()
	existing, ok := r.accounts[account.ID]
	if !ok {
		account.AuthProvider = ProviderGoogle
		account.CreatedAt = now
		account.LastLogin = &now
		r.accounts[account.ID] = account
		r.byEmail[key] = account.ID
		return account, nil
	}

	// Email may change between logins; drop the stale index entry.
	if oldKey := normalizeEmail(existing.Email); oldKey != key {
		delete(r.byEmail, oldKey)
	}
	existing.Email = account.Email
	existing.Name = account.Name
	existing.LastLogin = &now
	r.accounts[existing.ID] = existing
	r.byEmail[key] = existing.ID
	return existing, nil
}

func (r *MemoryRepo) AppendSavedResume(ctx context.Context, userID, resumeID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[userID]
	if !ok {
		return ErrNotFound
	}
	account.SavedResumeIDs = append(account.SavedResumeIDs, resumeID)
	r.accounts[userID] = account
	return nil
}
