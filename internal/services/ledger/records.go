package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/shopspring/decimal"
)

// UpsertRecords writes one dated record per institution named in deltas.
// Amounts not supplied default to the institution's most recent
// amount_after_investment (zero for an institution with no records yet).
// Each touched sequence stays sorted and date-unique; an existing record on
// the same date is overwritten in place. The operation validates everything
// before mutating: either all touched institutions update or none.
func (s *Service) UpsertRecords(ctx context.Context, date models.Date, deltas map[string]models.RecordDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return models.ErrNotAuthenticated
	}
	if date.IsZero() {
		return fmt.Errorf("upsert requires a date")
	}
	if len(deltas) == 0 {
		return nil
	}

	for name, delta := range deltas {
		if s.sess.ledger.Institution(name) == nil {
			return fmt.Errorf("unknown institution %q", name)
		}
		if delta.Before != nil && delta.Before.IsNegative() {
			return fmt.Errorf("institution %q: negative amount_before_investment", name)
		}
		if delta.After != nil && delta.After.IsNegative() {
			return fmt.Errorf("institution %q: negative amount_after_investment", name)
		}
	}

	for name, delta := range deltas {
		inst := s.sess.ledger.Institution(name)
		before, after := resolveDelta(inst, delta)
		upsertRecord(inst, models.InvestmentRecord{
			Date:         date,
			AmountBefore: before,
			AmountAfter:  after,
		})
	}
	s.sess.ledgerVersion++
	s.sess.viewValid = false

	return s.persistLocked(ctx)
}

// RemoveRecordsByDate strips records dated exactly date from every
// institution. No error when nothing matches.
func (s *Service) RemoveRecordsByDate(ctx context.Context, date models.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return models.ErrNotAuthenticated
	}

	for i := range s.sess.ledger {
		inst := &s.sess.ledger[i]
		kept := inst.Investments[:0]
		for _, rec := range inst.Investments {
			if !rec.Date.Equal(date) {
				kept = append(kept, rec)
			}
		}
		inst.Investments = kept
	}
	s.sess.ledgerVersion++
	s.sess.viewValid = false

	return s.persistLocked(ctx)
}

// AddInstitution appends a new institution with an empty record sequence and
// adds it to the selection set. Names are case-sensitive and unique.
func (s *Service) AddInstitution(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sess == nil {
		return models.ErrNotAuthenticated
	}
	if name == "" {
		return fmt.Errorf("institution name is required")
	}
	if s.sess.ledger.Institution(name) != nil {
		return &models.DuplicateInstitutionError{Name: name}
	}

	s.sess.ledger = append(s.sess.ledger, models.InstitutionData{
		Institution: name,
		Investments: []models.InvestmentRecord{},
	})
	s.sess.selected[name] = true
	s.sess.ledgerVersion++
	s.sess.selectionVersion++
	s.sess.viewValid = false

	return s.persistLocked(ctx)
}

// Ledger returns a deep copy of the session ledger.
func (s *Service) Ledger() models.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}
	return s.sess.ledger.Clone()
}

// InstitutionNames returns institution names in ledger order.
func (s *Service) InstitutionNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}
	return s.sess.ledger.Names()
}

// resolveDelta fills unspecified amounts from the institution's most recent
// after-balance.
func resolveDelta(inst *models.InstitutionData, delta models.RecordDelta) (before, after decimal.Decimal) {
	last := inst.LastAfter()
	before, after = last, last
	if delta.Before != nil {
		before = *delta.Before
	}
	if delta.After != nil {
		after = *delta.After
	}
	return before, after
}

// upsertRecord inserts rec into the institution's date-sorted sequence.
// Insertion point is the first record whose date is >= rec's: none means
// append, an exact date match is overwritten in place, otherwise rec is
// inserted before it.
func upsertRecord(inst *models.InstitutionData, rec models.InvestmentRecord) {
	i := sort.Search(len(inst.Investments), func(j int) bool {
		return !inst.Investments[j].Date.Before(rec.Date)
	})
	if i < len(inst.Investments) && inst.Investments[i].Date.Equal(rec.Date) {
		inst.Investments[i] = rec
		return
	}
	inst.Investments = append(inst.Investments, models.InvestmentRecord{})
	copy(inst.Investments[i+1:], inst.Investments[i:])
	inst.Investments[i] = rec
}
