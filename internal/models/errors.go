package models

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a remote operation is attempted
// without an active user session.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrNoRemoteData is returned by an explicit pull when no remote document
// has ever been written for the user.
var ErrNoRemoteData = errors.New("no remote data found")

// DuplicateInstitutionError is returned when adding an institution whose
// name already exists in the ledger (case-sensitive exact match).
type DuplicateInstitutionError struct {
	Name string
}

func (e *DuplicateInstitutionError) Error() string {
	return fmt.Sprintf("institution %q already exists", e.Name)
}

// DeserializationError indicates a malformed cached or remote ledger payload.
// These fail loudly rather than silently coercing to an empty ledger.
type DeserializationError struct {
	Source string // "cache" or "remote"
	Key    string
	Err    error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("failed to decode %s payload for %q: %v", e.Source, e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }
