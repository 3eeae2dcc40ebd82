package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity carried by an application token.
type Claims struct {
	UserID string
	Email  string
	Name   string
}

var (
	// ErrTokenExpired is returned when a token's expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenInvalid is returned for malformed or badly signed tokens.
	ErrTokenInvalid = errors.New("invalid token")
)

// Manager issues and verifies HS256 tokens. The signing secret comes from
// configuration only; there is no built-in fallback.
type Manager struct {
	secret []byte
	now    func() time.Time
}

// NewManager constructs a Manager from the configured secret.
func NewManager(secret string) (*Manager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &Manager{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the clock, for tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

type appClaims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for the given claims with the given lifetime.
func (m *Manager) Issue(claims Claims, ttl time.Duration) (string, error) {
	if strings.TrimSpace(claims.UserID) == "" {
		return "", errors.New("user id is required")
	}
	now := m.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, appClaims{
		Email: claims.Email,
		Name:  claims.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(m.secret)
}

// Verify parses a token and returns its claims. Expired tokens yield
// ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (m *Manager) Verify(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &appClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now().UTC() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*appClaims)
	if !ok || claims.Subject == "" {
		return Claims{}, ErrTokenInvalid
	}
	return Claims{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
