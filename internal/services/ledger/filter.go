package ledger

import (
	"sort"

	"github.com/bobmcallan/folio/internal/models"
)

// viewKey identifies one memoized filtered view. The current date is part of
// the key because a bounded period's cutoff moves with the calendar.
type viewKey struct {
	ledgerVersion    uint64
	selectionVersion uint64
	period           models.Period
	today            models.Date
}

// ToggleInstitution flips membership of name in the selection set. Unknown
// names are added regardless of ledger membership; the selection set is only
// validated against the ledger at read time, in FilteredInstitutions.
func (s *Service) ToggleInstitution(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return
	}
	if s.sess.selected[name] {
		delete(s.sess.selected, name)
	} else {
		s.sess.selected[name] = true
	}
	s.sess.selectionVersion++
	s.sess.viewValid = false
}

// SelectAll selects every institution currently in the ledger.
func (s *Service) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return
	}
	s.sess.selected = make(map[string]bool, len(s.sess.ledger))
	for _, name := range s.sess.ledger.Names() {
		s.sess.selected[name] = true
	}
	s.sess.selectionVersion++
	s.sess.viewValid = false
}

// SelectNone empties the selection set.
func (s *Service) SelectNone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return
	}
	s.sess.selected = make(map[string]bool)
	s.sess.selectionVersion++
	s.sess.viewValid = false
}

// SelectedInstitutions returns the selection set sorted by name.
func (s *Service) SelectedInstitutions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}
	names := make([]string, 0, len(s.sess.selected))
	for name := range s.sess.selected {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetPeriod sets the rolling lookback window for the filtered view.
func (s *Service) SetPeriod(p models.Period) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return
	}
	s.sess.period = p
	s.sess.viewValid = false
}

// Period returns the active period selector.
func (s *Service) Period() models.Period {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return models.PeriodFullTime
	}
	return s.sess.period
}

// FilteredInstitutions derives the view consumed by presentation: selected
// institutions only, records restricted to the period window (cutoff
// inclusive). The base ledger is never mutated; an institution left with no
// records in the window still appears, with an empty sequence. The view is
// memoized on (ledger version, selection version, period, today) and treated
// as read-only by callers.
func (s *Service) FilteredInstitutions() models.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil
	}

	key := viewKey{
		ledgerVersion:    s.sess.ledgerVersion,
		selectionVersion: s.sess.selectionVersion,
		period:           s.sess.period,
		today:            models.DateOf(s.now()),
	}
	if s.sess.viewValid && s.sess.viewKey == key {
		return s.sess.view
	}

	cutoff := s.sess.period.Cutoff(key.today)

	view := make(models.Ledger, 0, len(s.sess.ledger))
	for _, inst := range s.sess.ledger {
		if !s.sess.selected[inst.Institution] {
			continue
		}
		filtered := models.InstitutionData{
			Institution: inst.Institution,
			Investments: []models.InvestmentRecord{},
		}
		for _, rec := range inst.Investments {
			if cutoff.IsZero() || !rec.Date.Before(cutoff) {
				filtered.Investments = append(filtered.Investments, rec)
			}
		}
		view = append(view, filtered)
	}

	s.sess.view = view
	s.sess.viewKey = key
	s.sess.viewValid = true
	return view
}
