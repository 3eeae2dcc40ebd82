package accounts

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repo stores accounts. Postgres and in-memory implementations exist; the
// memory repo backs tests and DATABASE_URL-less dev setups.
type Repo interface {
	Create(ctx context.Context, account Account) error
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	// UpsertGoogle creates the account on first exchange and refreshes the
	// profile and last_login on later ones.
	UpsertGoogle(ctx context.Context, account Account) (Account, error)
	AppendSavedResume(ctx context.Context, userID, resumeID string) error
}
