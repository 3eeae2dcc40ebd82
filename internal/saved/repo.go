package saved

import (
	"context"
	"errors"
)

// ErrNoResumes is returned when the user has nothing saved.
var ErrNoResumes = errors.New("no saved resumes")

// Repo stores saved resumes. Save must also append the resume ID to the
// owning account's saved list; the two writes succeed or fail together.
type Repo interface {
	Save(ctx context.Context, resume SavedResume) error
	ListByUser(ctx context.Context, userID string) ([]SavedResume, error)
}
