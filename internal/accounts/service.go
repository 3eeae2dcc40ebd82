package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"resume-parser-backend/internal/shared/auth"
	"resume-parser-backend/internal/shared/telemetry"
)

var (
	// ErrMissingFields is returned when a signup field is blank.
	ErrMissingFields = errors.New("name, email and password are required")
	// ErrInvalidCredentials is returned for a failed login. It never reveals
	// whether the email exists.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const loginTokenTTL = time.Hour

// Service implements signup and password login.
type Service struct {
	Repo   Repo
	Tokens *auth.Manager
	now    func() time.Time
}

// NewService builds an account service.
func NewService(repo Repo, tokens *auth.Manager) *Service {
	return &Service{Repo: repo, Tokens: tokens, now: time.Now}
}

// Signup registers a password account with a bcrypt hash.
func (s *Service) Signup(ctx context.Context, name, email, password string) (Account, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return Account{}, ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		AuthProvider: ProviderPassword,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, account); err != nil {
		return Account{}, err
	}

	telemetry.Info("account.created", map[string]any{"user_id": account.ID})
	return account, nil
}

// Login checks the password and issues a one-hour token. last_login is
// refreshed best-effort; a failure there does not block the login.
func (s *Service) Login(ctx context.Context, email, password string) (string, Account, error) {
	account, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", Account{}, ErrInvalidCredentials
		}
		return "", Account{}, err
	}
	if account.PasswordHash == "" {
		return "", Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", Account{}, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(auth.Claims{
		UserID: account.ID,
		Email:  account.Email,
		Name:   account.Name,
	}, loginTokenTTL)
	if err != nil {
		return "", Account{}, err
	}

	if err := s.Repo.UpdateLastLogin(ctx, account.ID, s.now().UTC()); err != nil {
		telemetry.Warn("account.last_login_update_failed", map[string]any{
			"user_id": account.ID,
			"error":   err.Error(),
		})
	}
	return token, account, nil
}

// GetByID fetches an account for the protected endpoint.
func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return s.Repo.GetByID(ctx, id)
}
