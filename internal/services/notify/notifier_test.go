package notify

import (
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func newTestCenter(t *testing.T, dismissAfter time.Duration) *Center {
	t.Helper()
	c := NewCenter(common.NewSilentLogger(), dismissAfter)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPostAndActive(t *testing.T) {
	c := newTestCenter(t, time.Hour)

	c.Success("saved")
	c.Error("sync failed")
	c.Info("loading")

	active := c.Active()
	if len(active) != 3 {
		t.Fatalf("active = %d, want 3", len(active))
	}

	wantSeverity := []models.Severity{models.SeveritySuccess, models.SeverityError, models.SeverityInfo}
	for i, n := range active {
		if n.Severity != wantSeverity[i] {
			t.Errorf("notification %d severity = %s, want %s", i, n.Severity, wantSeverity[i])
		}
		if n.ID == 0 {
			t.Errorf("notification %d has no id", i)
		}
		if n.CreatedAt.IsZero() {
			t.Errorf("notification %d has no timestamp", i)
		}
	}
	if active[0].ID == active[1].ID || active[1].ID == active[2].ID {
		t.Error("notification ids must be unique")
	}
}

func TestDismiss(t *testing.T) {
	c := newTestCenter(t, time.Hour)

	c.Success("first")
	c.Success("second")
	active := c.Active()

	c.Dismiss(active[0].ID)

	remaining := c.Active()
	if len(remaining) != 1 || remaining[0].ID != active[1].ID {
		t.Errorf("after dismiss, active = %v", remaining)
	}

	// unknown and repeated ids are no-ops
	c.Dismiss(active[0].ID)
	c.Dismiss(999)
	if got := len(c.Active()); got != 1 {
		t.Errorf("active = %d after no-op dismissals, want 1", got)
	}
}

func TestAutoDismiss(t *testing.T) {
	c := newTestCenter(t, 20*time.Millisecond)

	c.Info("transient")
	if got := len(c.Active()); got != 1 {
		t.Fatalf("active = %d, want 1", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(c.Active()) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("notification was not auto-dismissed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestActiveReturnsCopy(t *testing.T) {
	c := newTestCenter(t, time.Hour)
	c.Success("original")

	snapshot := c.Active()
	snapshot[0].Message = "tampered"

	if got := c.Active()[0].Message; got != "original" {
		t.Errorf("message = %q, internal state must not alias returned slice", got)
	}
}

func TestClose(t *testing.T) {
	c := NewCenter(common.NewSilentLogger(), time.Hour)
	c.Success("pending")

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := len(c.Active()); got != 0 {
		t.Errorf("active = %d after close, want 0", got)
	}
}
