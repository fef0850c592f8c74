package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// ledgerKeyPrefix namespaces cache keys per user so ledgers never collide
// across users on a shared machine.
const ledgerKeyPrefix = "folio:ledger:"

// LedgerEntry is the cached snapshot row: the full ledger as a JSON payload.
type LedgerEntry struct {
	Key       string `badgerhold:"key"`
	Payload   string
	UpdatedAt time.Time
}

type ledgerCache struct {
	store  *Store
	logger *common.Logger
}

// NewLedgerCache creates a LedgerCache backed by BadgerHold.
func NewLedgerCache(store *Store, logger *common.Logger) interfaces.LedgerCache {
	return &ledgerCache{store: store, logger: logger}
}

func cacheKey(userID string) string {
	return ledgerKeyPrefix + userID
}

func (c *ledgerCache) Save(_ context.Context, userID string, ledger models.Ledger) error {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to serialize ledger for user '%s': %w", userID, err)
	}

	entry := LedgerEntry{
		Key:       cacheKey(userID),
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	if err := c.store.db.Upsert(entry.Key, &entry); err != nil {
		return fmt.Errorf("failed to cache ledger for user '%s': %w", userID, err)
	}

	c.logger.Debug().
		Str("user", userID).
		Int("institutions", len(ledger)).
		Msg("Ledger cached")
	return nil
}

func (c *ledgerCache) Load(_ context.Context, userID string) (models.Ledger, error) {
	key := cacheKey(userID)

	var entry LedgerEntry
	err := c.store.db.Get(key, &entry)
	if err == badgerhold.ErrNotFound {
		// First login or first sync on this device: empty ledger, not an error.
		return models.Ledger{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached ledger for user '%s': %w", userID, err)
	}

	var ledger models.Ledger
	if err := json.Unmarshal([]byte(entry.Payload), &ledger); err != nil {
		return nil, &models.DeserializationError{Source: "cache", Key: key, Err: err}
	}
	return ledger, nil
}

func (c *ledgerCache) Close() error {
	return nil
}
