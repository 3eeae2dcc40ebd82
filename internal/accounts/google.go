package accounts

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/idtoken"

	"resume-parser-backend/internal/shared/auth"
)

// ErrGoogleTokenInvalid is returned when the Google ID token fails
// verification or targets a different client.
var ErrGoogleTokenInvalid = errors.New("invalid google token")

const googleTokenTTL = 24 * time.Hour

// GoogleVerifier exchanges a Google ID token for an application token,
// creating or refreshing the account in the process.
type GoogleVerifier struct {
	ClientID string
	Repo     Repo
	Tokens   *auth.Manager

	// validate is swappable in tests; defaults to idtoken.Validate.
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

// NewGoogleVerifier builds a verifier bound to the configured client ID.
func NewGoogleVerifier(clientID string, repo Repo, tokens *auth.Manager) *GoogleVerifier {
	return &GoogleVerifier{
		ClientID: clientID,
		Repo:     repo,
		Tokens:   tokens,
		validate: idtoken.Validate,
	}
}

// VerifyToken validates the ID token against the configured client ID,
// upserts the account, and issues a one-day application token.
func (v *GoogleVerifier) VerifyToken(ctx context.Context, token string) (string, Account, error) {
	if v.ClientID == "" {
		return "", Account{}, errors.New("google client id not configured")
	}

	payload, err := v.validate(ctx, token, v.ClientID)
	if err != nil {
		return "", Account{}, ErrGoogleTokenInvalid
	}
	if payload.Subject == "" {
		return "", Account{}, ErrGoogleTokenInvalid
	}

	account, err := v.Repo.UpsertGoogle(ctx, Account{
		ID:    "google:" + payload.Subject,
		Email: claimString(payload, "email"),
		Name:  claimString(payload, "name"),
	})
	if err != nil {
		return "", Account{}, err
	}

	appToken, err := v.Tokens.Issue(auth.Claims{
		UserID: account.ID,
		Email:  account.Email,
		Name:   account.Name,
	}, googleTokenTTL)
	if err != nil {
		return "", Account{}, err
	}
	return appToken, account, nil
}

func claimString(payload *idtoken.Payload, key string) string {
	if v, ok := payload.Claims[key].(string); ok {
		return v
	}
	return ""
}
