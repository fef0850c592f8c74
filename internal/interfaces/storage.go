// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// LedgerCache is the local persistence adapter. It stores the full ledger
// snapshot per user, with no partial or incremental writes.
type LedgerCache interface {
	// Save serializes the entire ledger under a key derived from userID.
	Save(ctx context.Context, userID string, ledger models.Ledger) error

	// Load returns the cached ledger for userID. A user with no cache entry
	// gets an empty ledger, not an error. A malformed payload returns
	// *models.DeserializationError.
	Load(ctx context.Context, userID string) (models.Ledger, error)

	Close() error
}

// RemoteStore is the remote document store, addressed per-user. Each user has
// a single document holding the full institution list.
type RemoteStore interface {
	// Push overwrites the user's remote document unconditionally
	// (last-writer-wins, no concurrency token).
	Push(ctx context.Context, userID string, ledger models.Ledger) error

	// Pull fetches the user's remote document. Returns models.ErrNoRemoteData
	// when the document has never been written.
	Pull(ctx context.Context, userID string) (models.Ledger, error)

	Close() error
}
