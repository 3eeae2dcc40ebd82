package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// PGRepo stores accounts in Postgres. saved_resume_ids lives in a JSONB
// column so appends stay a single UPDATE.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, account Account) error {
	const query = `
INSERT INTO accounts (id, email, name, password_hash, auth_provider, saved_resume_ids, created_at)
VALUES ($1, $2, $3, $4, $5, '[]'::jsonb, now())`
	_, err := r.DB.ExecContext(ctx, query,
		account.ID,
		normalizeEmail(account.Email),
		account.Name,
		nullableString(account.PasswordHash),
		account.AuthProvider,
	)
	if err != nil && isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (Account, error) {
	return r.get(ctx, `WHERE email = $1`, normalizeEmail(email))
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Account, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

func (r *PGRepo) get(ctx context.Context, where string, arg any) (Account, error) {
	query := `
SELECT id, email, name, password_hash, auth_provider, saved_resume_ids, created_at, last_login
FROM accounts ` + where + ` LIMIT 1`

	var account Account
	var passwordHash sql.NullString
	var savedIDs []byte
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Email,
		&account.Name,
		&passwordHash,
		&account.AuthProvider,
		&savedIDs,
		&account.CreatedAt,
		&lastLogin,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, err
	}
	if passwordHash.Valid {
		account.PasswordHash = passwordHash.String
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		account.LastLogin = &t
	}
	if len(savedIDs) > 0 {
		if err := json.Unmarshal(savedIDs, &account.SavedResumeIDs); err != nil {
			return Account{}, fmt.Errorf("decode saved_resume_ids: %w", err)
		}
	}
	return account, nil
}

func (r *PGRepo) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	const query = `UPDATE accounts SET last_login = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) UpsertGoogle(ctx context.Context, account Account) (Account, error) {
	const query = `
INSERT INTO accounts (id, email, name, auth_provider, saved_resume_ids, created_at, last_login)
VALUES ($1, $2, $3, $4, '[]'::jsonb, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  last_login = now()`
	_, err := r.DB.ExecContext(ctx, query,
		account.ID,
		normalizeEmail(account.Email),
		account.Name,
		ProviderGoogle,
	)
	if err != nil {
		return Account{}, err
	}
	return r.GetByID(ctx, account.ID)
}

func (r *PGRepo) AppendSavedResume(ctx context.Context, userID, resumeID string) error {
	const query = `
UPDATE accounts
SET saved_resume_ids = saved_resume_ids || to_jsonb($2::text)
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, resumeID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func isUniqueViolation(err error) bool {
	// pgx surfaces SQLSTATE 23505 in the error text through database/sql.
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
