// Package surrealdb provides the SurrealDB-backed remote ledger store.
package surrealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const ledgerTable = "investment_data"

// investmentDocument is the single per-user remote document. The institutions
// sequence is carried as its JSON serialization: sync is wholesale
// last-writer-wins, so the remote side never needs field-level access.
type investmentDocument struct {
	UserID       string    `json:"user_id"`
	Institutions string    `json:"institutions"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RemoteStore implements interfaces.RemoteStore against SurrealDB.
type RemoteStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewRemoteStore connects to SurrealDB and prepares the ledger table.
func NewRemoteStore(logger *common.Logger, config *common.Config) (*RemoteStore, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Remote.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Remote.Username,
		"pass": config.Storage.Remote.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Remote.Namespace, config.Storage.Remote.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying non-existent tables
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", ledgerTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", ledgerTable, err)
	}

	logger.Info().
		Str("address", config.Storage.Remote.Address).
		Str("namespace", config.Storage.Remote.Namespace).
		Str("database", config.Storage.Remote.Database).
		Msg("SurrealDB remote store initialized")

	return &RemoteStore{db: db, logger: logger}, nil
}

func (s *RemoteStore) Push(ctx context.Context, userID string, ledger models.Ledger) error {
	payload, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("failed to serialize ledger for user '%s': %w", userID, err)
	}

	doc := investmentDocument{
		UserID:       userID,
		Institutions: string(payload),
		UpdatedAt:    time.Now().UTC(),
	}

	sql := "UPSERT $rid CONTENT $doc"
	vars := map[string]any{
		"rid": surrealmodels.NewRecordID(ledgerTable, userID),
		"doc": doc,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]investmentDocument](ctx, s.db, sql, vars)
		if err == nil {
			s.logger.Debug().
				Str("user", userID).
				Int("institutions", len(ledger)).
				Msg("Ledger pushed to remote")
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to push ledger after retries: %w", lastErr)
}

func (s *RemoteStore) Pull(ctx context.Context, userID string) (models.Ledger, error) {
	doc, err := surrealdb.Select[investmentDocument](ctx, s.db, surrealmodels.NewRecordID(ledgerTable, userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, models.ErrNoRemoteData
		}
		return nil, fmt.Errorf("failed to pull ledger for user '%s': %w", userID, err)
	}
	if doc == nil || doc.Institutions == "" {
		return nil, models.ErrNoRemoteData
	}

	var ledger models.Ledger
	if err := json.Unmarshal([]byte(doc.Institutions), &ledger); err != nil {
		return nil, &models.DeserializationError{Source: "remote", Key: userID, Err: err}
	}
	return ledger, nil
}

func (s *RemoteStore) Close() error {
	s.db.Close(context.Background())
	return nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// Compile-time check
var _ interfaces.RemoteStore = (*RemoteStore)(nil)
