package saved

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoSaveCommitsBothWrites(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resume := SavedResume{
		ID:          "res-1",
		UserID:      "acc-1",
		Resume:      json.RawMessage(`{"name":"Jane"}`),
		SavedAt:     now,
		LastUpdated: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO saved_resumes").
		WithArgs(resume.ID, resume.UserID, []byte(resume.Resume), resume.SavedAt, resume.LastUpdated).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE accounts").
		WithArgs(resume.UserID, resume.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Save(context.Background(), resume); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoSaveRollsBackOnAppendFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	now := time.Now().UTC()
	resume := SavedResume{
		ID:          "res-1",
		UserID:      "ghost",
		Resume:      json.RawMessage(`{}`),
		SavedAt:     now,
		LastUpdated: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO saved_resumes").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE accounts").
		WillReturnError(errors.New("connection lost"))
	mock.ExpectRollback()

	if err := repo.Save(context.Background(), resume); err == nil {
		t.Fatal("want error when account append fails")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
