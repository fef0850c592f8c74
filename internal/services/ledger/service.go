// Package ledger implements the investment ledger core: the per-session
// institution/record store, the selection and period filter, and the
// local-cache/remote-store sync coordinator.
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Service owns the in-memory ledger for the active user session. All state is
// session-scoped: constructed on login, torn down on logout. The local cache
// is authoritative for the active session; the remote store converges
// eventually via fenced background pushes.
type Service struct {
	cache    interfaces.LedgerCache
	remote   interfaces.RemoteStore
	notifier interfaces.Notifier
	logger   *common.Logger
	now      func() time.Time

	mu    sync.Mutex
	state interfaces.SessionState
	sess  *session

	// generation is a fencing token bumped on every login and logout. Async
	// results carrying an older generation are discarded rather than applied
	// across a session boundary.
	generation uint64

	pushes sync.WaitGroup
}

// session holds the state for one logged-in user.
type session struct {
	userID     string
	generation uint64

	ledger   models.Ledger
	selected map[string]bool
	period   models.Period

	// version counters key the memoized filtered view
	ledgerVersion    uint64
	selectionVersion uint64

	view      models.Ledger
	viewKey   viewKey
	viewValid bool
}

func newSession(userID string, generation uint64, l models.Ledger) *session {
	sess := &session{
		userID:     userID,
		generation: generation,
		ledger:     l,
		selected:   make(map[string]bool, len(l)),
		period:     models.PeriodFullTime,
	}
	for _, name := range l.Names() {
		sess.selected[name] = true
	}
	return sess
}

// replaceLedger swaps the ledger wholesale (remote pull) and resets the
// selection to all institutions in the new ledger.
func (sess *session) replaceLedger(l models.Ledger) {
	sess.ledger = l
	sess.selected = make(map[string]bool, len(l))
	for _, name := range l.Names() {
		sess.selected[name] = true
	}
	sess.ledgerVersion++
	sess.selectionVersion++
	sess.viewValid = false
}

// NewService creates the ledger service in the logged-out state.
func NewService(cache interfaces.LedgerCache, remote interfaces.RemoteStore, notifier interfaces.Notifier, logger *common.Logger) *Service {
	return &Service{
		cache:    cache,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		state:    interfaces.SessionLoggedOut,
	}
}

// State returns the current session lifecycle state.
func (s *Service) State() interfaces.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ActiveUser returns the logged-in user id, or empty string.
func (s *Service) ActiveUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return ""
	}
	return s.sess.userID
}

// LoadForUser starts a session for userID: local cache first, then a remote
// pull. A failed remote pull is swallowed and the local ledger kept; local
// data is never destroyed by a failed remote read. A malformed local cache
// entry fails loudly instead.
func (s *Service) LoadForUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.sess = nil
	s.state = interfaces.SessionLoading
	s.mu.Unlock()

	local, err := s.cache.Load(ctx, userID)
	if err != nil {
		s.mu.Lock()
		if s.generation == gen {
			s.state = interfaces.SessionLoggedOut
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	if s.generation != gen {
		// superseded by another login/logout while loading
		s.mu.Unlock()
		return nil
	}
	s.sess = newSession(userID, gen, local)
	s.mu.Unlock()

	remoteLedger, pullErr := s.remote.Pull(ctx, userID)

	s.mu.Lock()
	if s.generation != gen || s.sess == nil {
		// stale pull result: the session already moved on
		s.mu.Unlock()
		return nil
	}
	if pullErr != nil {
		// offline-tolerant default: keep the locally loaded ledger
		s.logger.Info().
			Err(pullErr).
			Str("user", userID).
			Msg("Remote pull failed on login, keeping local ledger")
		s.state = interfaces.SessionReady
		s.mu.Unlock()
		return nil
	}
	s.sess.replaceLedger(remoteLedger)
	s.state = interfaces.SessionReady
	s.mu.Unlock()

	// remote is now source of truth: sync it down to the local cache
	if err := s.cache.Save(ctx, userID, remoteLedger); err != nil {
		return err
	}

	s.logger.Info().
		Str("user", userID).
		Int("institutions", len(remoteLedger)).
		Msg("Session loaded from remote")
	return nil
}

// ClearData ends the session: in-memory ledger and selection are dropped,
// the on-disk cache for the user's key is left intact for next login.
func (s *Service) ClearData() {
	s.mu.Lock()
	s.generation++
	s.sess = nil
	s.state = interfaces.SessionLoggedOut
	s.mu.Unlock()
}

// PushToRemote serializes the current in-memory ledger to the remote store,
// unconditionally overwriting whatever remote holds.
func (s *Service) PushToRemote(ctx context.Context) error {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return models.ErrNotAuthenticated
	}
	userID := s.sess.userID
	snapshot := s.sess.ledger.Clone()
	s.mu.Unlock()

	return s.remote.Push(ctx, userID, snapshot)
}

// PullFromRemote fetches the remote ledger, wholesale-replaces the session
// ledger and selection, and persists the payload to the local cache. Unlike
// the login path, a missing remote document is surfaced to the caller.
func (s *Service) PullFromRemote(ctx context.Context) error {
	s.mu.Lock()
	if s.sess == nil {
		s.mu.Unlock()
		return models.ErrNotAuthenticated
	}
	userID := s.sess.userID
	gen := s.sess.generation
	s.mu.Unlock()

	remoteLedger, err := s.remote.Pull(ctx, userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.generation != gen || s.sess == nil {
		// session ended while the pull was in flight
		s.mu.Unlock()
		return models.ErrNotAuthenticated
	}
	s.sess.replaceLedger(remoteLedger)
	s.mu.Unlock()

	return s.cache.Save(ctx, userID, remoteLedger)
}

// persistLocked writes the session ledger to the local cache and fires a
// best-effort background push to remote. Caller must hold s.mu and have a
// live session. A cache write failure is fatal; a push failure is reported
// via the notifier but never rolls back the mutation.
func (s *Service) persistLocked(ctx context.Context) error {
	userID := s.sess.userID
	gen := s.sess.generation
	snapshot := s.sess.ledger.Clone()

	if err := s.cache.Save(ctx, userID, snapshot); err != nil {
		return err
	}

	s.pushes.Add(1)
	go func() {
		defer s.pushes.Done()
		err := s.remote.Push(context.Background(), userID, snapshot)

		s.mu.Lock()
		stale := s.generation != gen
		s.mu.Unlock()
		if stale {
			// session boundary crossed while the push was in flight
			return
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("user", userID).Msg("Background push failed")
			s.notifier.Error("Cloud sync failed: " + err.Error())
		}
	}()

	return nil
}

// Close waits for in-flight background pushes to settle.
func (s *Service) Close() error {
	s.pushes.Wait()
	return nil
}

// Compile-time check
var _ interfaces.LedgerService = (*Service)(nil)
