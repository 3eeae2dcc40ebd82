package saved

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo stores saved resumes in Postgres. The resume insert and the
// account-list append run in one transaction.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Save(ctx context.Context, resume SavedResume) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	const insert = `
INSERT INTO saved_resumes (id, user_id, resume, saved_at, last_updated)
VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.ExecContext(ctx, insert,
		resume.ID,
		resume.UserID,
		[]byte(resume.Resume),
		resume.SavedAt,
		resume.LastUpdated,
	); err != nil {
		return fmt.Errorf("insert saved resume: %w", err)
	}

	const appendID = `
UPDATE accounts
SET saved_resume_ids = saved_resume_ids || to_jsonb($2::text)
WHERE id = $1`
	res, err := tx.ExecContext(ctx, appendID, resume.UserID, resume.ID)
	if err != nil {
		return fmt.Errorf("append saved resume id: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("append saved resume id: account %s not found", resume.UserID)
	}

	return tx.Commit()
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]SavedResume, error) {
	const query = `
SELECT id, user_id, resume, saved_at, last_updated
FROM saved_resumes
WHERE user_id = $1
ORDER BY saved_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SavedResume
	for rows.Next() {
		var resume SavedResume
		var body []byte
		if err := rows.Scan(&resume.ID, &resume.UserID, &body, &resume.SavedAt, &resume.LastUpdated); err != nil {
			return nil, err
		}
		resume.Resume = body
		out = append(out, resume)
	}
	return out, rows.Err()
}
