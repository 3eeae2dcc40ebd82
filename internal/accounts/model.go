package accounts

import "time"

// Provider markers stored on an account.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Account is a registered user.
type Account struct {
	ID             string
	Email          string
	Name           string
	PasswordHash   string
	AuthProvider   string
	CreatedAt      time.Time
	LastLogin      *time.Time
	SavedResumeIDs []string
}

// Public is the account shape returned to clients. It never carries the
// password hash.
type Public struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Public returns the client-facing view of the account.
func (a Account) Public() Public {
	return Public{ID: a.ID, Email: a.Email, Name: a.Name}
}
