package saved

import (
	"context"
	"sort"
	"sync"

	"resume-parser-backend/internal/accounts"
)

// MemoryRepo keeps saved resumes in memory. One mutex spans both the resume
// insert and the account-list append so the pair stays atomic.
type MemoryRepo struct {
	mu       sync.Mutex
	resumes  map[string]SavedResume
	accounts accounts.Repo
}

// NewMemoryRepo builds a memory repo appending to the given account store.
func NewMemoryRepo(accountRepo accounts.Repo) *MemoryRepo {
	return &MemoryRepo{
		resumes:  make(map[string]SavedResume),
		accounts: accountRepo,
	}
}

func (r *MemoryRepo) Save(ctx context.Context, resume SavedResume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.accounts.AppendSavedResume(ctx, resume.UserID, resume.ID); err != nil {
		return err
	}
	r.resumes[resume.ID] = resume
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]SavedResume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []SavedResume
	for _, resume := range r.resumes {
		if resume.UserID == userID {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SavedAt.After(out[j].SavedAt)
	})
	return out, nil
}
