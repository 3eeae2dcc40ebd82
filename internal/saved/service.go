package saved

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidResume is returned when the submitted resume body is not a JSON
// object.
var ErrInvalidResume = errors.New("resume_data must be a JSON object")

// Service implements saving and listing resumes for a user.
type Service struct {
	Repo Repo
	now  func() time.Time
}

// NewService builds a saved-resume service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: time.Now}
}

// Save validates the body, stamps ownership and timestamps, and persists.
func (s *Service) Save(ctx context.Context, userID string, resumeData json.RawMessage) (SavedResume, error) {
	var probe map[string]any
	if err := json.Unmarshal(resumeData, &probe); err != nil {
		return SavedResume{}, ErrInvalidResume
	}

	now := s.now().UTC()
	resume := SavedResume{
		ID:          uuid.NewString(),
		UserID:      userID,
		Resume:      resumeData,
		SavedAt:     now,
		LastUpdated: now,
	}
	if err := s.Repo.Save(ctx, resume); err != nil {
		return SavedResume{}, err
	}
	return resume, nil
}

// List returns the user's saved resumes, newest first. ErrNoResumes when
// empty.
func (s *Service) List(ctx context.Context, userID string) ([]SavedResume, error) {
	resumes, err := s.Repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(resumes) == 0 {
		return nil, ErrNoResumes
	}
	return resumes, nil
}
