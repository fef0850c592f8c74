package ledger

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/shopspring/decimal"
)

// fakeCache is a map-backed LedgerCache mirroring the real cache's contract:
// JSON payload per user, missing key yields an empty ledger.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	saveErr error
	saves   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (c *fakeCache) Save(_ context.Context, userID string, ledger models.Ledger) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.saveErr != nil {
		return c.saveErr
	}
	payload, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	c.entries[userID] = string(payload)
	c.saves++
	return nil
}

func (c *fakeCache) Load(_ context.Context, userID string) (models.Ledger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[userID]
	if !ok {
		return models.Ledger{}, nil
	}
	var ledger models.Ledger
	if err := json.Unmarshal([]byte(payload), &ledger); err != nil {
		return nil, &models.DeserializationError{Source: "cache", Key: userID, Err: err}
	}
	return ledger, nil
}

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) stored(t *testing.T, userID string) models.Ledger {
	t.Helper()
	c.mu.Lock()
	payload, ok := c.entries[userID]
	c.mu.Unlock()
	if !ok {
		return nil
	}
	var ledger models.Ledger
	if err := json.Unmarshal([]byte(payload), &ledger); err != nil {
		t.Fatalf("cached payload for %s is malformed: %v", userID, err)
	}
	return ledger
}

// fakeRemote is a map-backed RemoteStore. Gates let tests hold a pull or push
// in flight to exercise the session fencing paths.
type fakeRemote struct {
	mu      sync.Mutex
	docs    map[string]string
	pullErr error
	pushErr error

	pullGate    chan struct{} // when set, Pull blocks until closed
	pullStarted chan struct{}
	pushGate    chan struct{}
	pushStarted chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string]string)}
}

func (r *fakeRemote) Push(_ context.Context, userID string, ledger models.Ledger) error {
	r.mu.Lock()
	gate, started := r.pushGate, r.pushStarted
	r.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pushErr != nil {
		return r.pushErr
	}
	payload, err := json.Marshal(ledger)
	if err != nil {
		return err
	}
	r.docs[userID] = string(payload)
	return nil
}

func (r *fakeRemote) Pull(_ context.Context, userID string) (models.Ledger, error) {
	r.mu.Lock()
	gate, started := r.pullGate, r.pullStarted
	r.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pullErr != nil {
		return nil, r.pullErr
	}
	payload, ok := r.docs[userID]
	if !ok {
		return nil, models.ErrNoRemoteData
	}
	var ledger models.Ledger
	if err := json.Unmarshal([]byte(payload), &ledger); err != nil {
		return nil, &models.DeserializationError{Source: "remote", Key: userID, Err: err}
	}
	return ledger, nil
}

func (r *fakeRemote) Close() error { return nil }

func (r *fakeRemote) seed(t *testing.T, userID string, ledger models.Ledger) {
	t.Helper()
	payload, err := json.Marshal(ledger)
	if err != nil {
		t.Fatalf("seed remote: %v", err)
	}
	r.mu.Lock()
	r.docs[userID] = string(payload)
	r.mu.Unlock()
}

func (r *fakeRemote) stored(t *testing.T, userID string) models.Ledger {
	t.Helper()
	r.mu.Lock()
	payload, ok := r.docs[userID]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	var ledger models.Ledger
	if err := json.Unmarshal([]byte(payload), &ledger); err != nil {
		t.Fatalf("remote payload for %s is malformed: %v", userID, err)
	}
	return ledger
}

// fakeNotifier records posted messages.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []models.Notification
}

func (n *fakeNotifier) post(message string, severity models.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, models.Notification{Message: message, Severity: severity})
}

func (n *fakeNotifier) Success(message string) { n.post(message, models.SeveritySuccess) }
func (n *fakeNotifier) Error(message string)   { n.post(message, models.SeverityError) }
func (n *fakeNotifier) Info(message string)    { n.post(message, models.SeverityInfo) }
func (n *fakeNotifier) Active() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]models.Notification, len(n.messages))
	copy(out, n.messages)
	return out
}
func (n *fakeNotifier) Dismiss(int64) {}

// --- shared helpers ---

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func record(date, before, after string) models.InvestmentRecord {
	return models.InvestmentRecord{
		Date:         models.MustParseDate(date),
		AmountBefore: dec(before),
		AmountAfter:  dec(after),
	}
}

func newTestService(t *testing.T) (*Service, *fakeCache, *fakeRemote, *fakeNotifier) {
	t.Helper()
	cache := newFakeCache()
	remote := newFakeRemote()
	notifier := &fakeNotifier{}
	svc := NewService(cache, remote, notifier, common.NewSilentLogger())
	return svc, cache, remote, notifier
}

// login starts a session with the given local cache contents. The remote has
// no document for the user, so the login-path pull is a silent no-op.
func login(t *testing.T, svc *Service, cache *fakeCache, userID string, local models.Ledger) {
	t.Helper()
	if err := cache.Save(context.Background(), userID, local); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	if err := svc.LoadForUser(context.Background(), userID); err != nil {
		t.Fatalf("LoadForUser failed: %v", err)
	}
}
