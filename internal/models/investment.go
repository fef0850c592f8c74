package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvestmentRecord is a single dated balance snapshot for one institution.
// AmountBefore is the balance immediately preceding the contribution or
// withdrawal noted on that date; AmountAfter the balance immediately following it.
type InvestmentRecord struct {
	Date         Date            `json:"date"`
	AmountBefore decimal.Decimal `json:"amount_before_investment"`
	AmountAfter  decimal.Decimal `json:"amount_after_investment"`
}

// Validate checks that the record has a real date and non-negative amounts.
// Amounts are carried opaquely otherwise: no rounding, no currency handling.
func (r InvestmentRecord) Validate() error {
	if r.Date.IsZero() {
		return fmt.Errorf("record has no date")
	}
	if r.AmountBefore.IsNegative() {
		return fmt.Errorf("record %s: amount_before_investment %s is negative", r.Date, r.AmountBefore)
	}
	if r.AmountAfter.IsNegative() {
		return fmt.Errorf("record %s: amount_after_investment %s is negative", r.Date, r.AmountAfter)
	}
	return nil
}

// InstitutionData is a named institution and its ordered record sequence.
// The institution name is the identity key: unique within a ledger,
// case-sensitive, no surrogate id.
type InstitutionData struct {
	Institution string             `json:"institution"`
	Investments []InvestmentRecord `json:"investments"`
}

// LastAfter returns the most recent amount_after_investment, or zero when the
// institution has no records yet. Relies on the sequence being date-sorted.
func (d *InstitutionData) LastAfter() decimal.Decimal {
	if len(d.Investments) == 0 {
		return decimal.Zero
	}
	return d.Investments[len(d.Investments)-1].AmountAfter
}

// Clone returns a deep copy of the institution and its records.
func (d InstitutionData) Clone() InstitutionData {
	out := InstitutionData{Institution: d.Institution}
	if d.Investments != nil {
		out.Investments = make([]InvestmentRecord, len(d.Investments))
		copy(out.Investments, d.Investments)
	}
	return out
}

// Ledger is the full set of institutions for one user.
// Institution names are unique within a ledger.
type Ledger []InstitutionData

// Institution returns a pointer to the named institution, or nil if absent.
func (l Ledger) Institution(name string) *InstitutionData {
	for i := range l {
		if l[i].Institution == name {
			return &l[i]
		}
	}
	return nil
}

// Names returns institution names in ledger order.
func (l Ledger) Names() []string {
	names := make([]string, len(l))
	for i, inst := range l {
		names[i] = inst.Institution
	}
	return names
}

// Clone returns a deep copy of the ledger.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	for i, inst := range l {
		out[i] = inst.Clone()
	}
	return out
}

// Validate checks ledger invariants: unique institution names, and each
// institution's records sorted ascending by date with no duplicate dates.
func (l Ledger) Validate() error {
	seen := make(map[string]bool, len(l))
	for _, inst := range l {
		if seen[inst.Institution] {
			return fmt.Errorf("duplicate institution %q in ledger", inst.Institution)
		}
		seen[inst.Institution] = true

		for i, rec := range inst.Investments {
			if err := rec.Validate(); err != nil {
				return fmt.Errorf("institution %q: %w", inst.Institution, err)
			}
			if i > 0 && inst.Investments[i-1].Date.Compare(rec.Date) >= 0 {
				return fmt.Errorf("institution %q: records out of order at %s", inst.Institution, rec.Date)
			}
		}
	}
	return nil
}

// RecordDelta carries optional explicit before/after amounts for one
// institution in an upsert. A nil field defaults to the institution's most
// recent amount_after_investment (zero when the institution has no records).
type RecordDelta struct {
	Before *decimal.Decimal `json:"before,omitempty"`
	After  *decimal.Decimal `json:"after,omitempty"`
}
