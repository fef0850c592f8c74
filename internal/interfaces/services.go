package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// SessionState tracks the ledger session lifecycle.
type SessionState string

const (
	SessionLoggedOut SessionState = "logged_out"
	SessionLoading   SessionState = "loading"
	SessionReady     SessionState = "ready"
)

// LedgerService owns the in-memory ledger, selection set, and period for the
// active user session, and coordinates local cache and remote store.
type LedgerService interface {
	// Session lifecycle
	LoadForUser(ctx context.Context, userID string) error
	ClearData()
	State() SessionState
	ActiveUser() string

	// Record mutations (the only write paths for record data)
	UpsertRecords(ctx context.Context, date models.Date, deltas map[string]models.RecordDelta) error
	RemoveRecordsByDate(ctx context.Context, date models.Date) error
	AddInstitution(ctx context.Context, name string) error

	// Selection and period
	ToggleInstitution(name string)
	SelectAll()
	SelectNone()
	SelectedInstitutions() []string
	SetPeriod(p models.Period)
	Period() models.Period

	// Derived views
	Ledger() models.Ledger
	InstitutionNames() []string
	FilteredInstitutions() models.Ledger

	// Explicit sync
	PushToRemote(ctx context.Context) error
	PullFromRemote(ctx context.Context) error
}

// AuthService issues and validates session tokens for the auth collaborator.
type AuthService interface {
	SignIn(ctx context.Context, userID string) (*SessionToken, error)
	Validate(token string) (string, error) // returns userID
}

// SessionToken is an issued bearer token and its expiry.
type SessionToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Notifier is the notification channel consumed by the presentation layer.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
	Active() []models.Notification
	Dismiss(id int64)
}
