package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestInvestmentRecordValidate(t *testing.T) {
	valid := InvestmentRecord{
		Date:         MustParseDate("2024-01-01"),
		AmountBefore: dec("100"),
		AmountAfter:  dec("150.25"),
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid record rejected: %v", err)
	}

	if err := (InvestmentRecord{AmountBefore: dec("1"), AmountAfter: dec("1")}).Validate(); err == nil {
		t.Error("expected error for missing date")
	}
	if err := (InvestmentRecord{Date: MustParseDate("2024-01-01"), AmountBefore: dec("-1")}).Validate(); err == nil {
		t.Error("expected error for negative before amount")
	}
	if err := (InvestmentRecord{Date: MustParseDate("2024-01-01"), AmountAfter: dec("-0.01")}).Validate(); err == nil {
		t.Error("expected error for negative after amount")
	}
}

func TestInstitutionLastAfter(t *testing.T) {
	empty := InstitutionData{Institution: "Vanguard"}
	if !empty.LastAfter().IsZero() {
		t.Error("empty institution should default to zero")
	}

	inst := InstitutionData{
		Institution: "Vanguard",
		Investments: []InvestmentRecord{
			{Date: MustParseDate("2024-01-01"), AmountBefore: dec("0"), AmountAfter: dec("100")},
			{Date: MustParseDate("2024-02-01"), AmountBefore: dec("100"), AmountAfter: dec("250")},
		},
	}
	if got := inst.LastAfter(); !got.Equal(dec("250")) {
		t.Errorf("LastAfter = %s, want 250", got)
	}
}

func TestLedgerInstitutionLookup(t *testing.T) {
	l := Ledger{
		{Institution: "Vanguard"},
		{Institution: "Fidelity"},
	}

	if l.Institution("Fidelity") == nil {
		t.Error("expected to find Fidelity")
	}
	if l.Institution("fidelity") != nil {
		t.Error("lookup must be case-sensitive")
	}
	if l.Institution("Schwab") != nil {
		t.Error("expected nil for unknown institution")
	}

	names := l.Names()
	if len(names) != 2 || names[0] != "Vanguard" || names[1] != "Fidelity" {
		t.Errorf("Names = %v", names)
	}
}

func TestLedgerClone(t *testing.T) {
	l := Ledger{
		{Institution: "Vanguard", Investments: []InvestmentRecord{
			{Date: MustParseDate("2024-01-01"), AmountAfter: dec("100")},
		}},
	}
	c := l.Clone()
	c[0].Investments[0].AmountAfter = dec("999")
	if !l[0].Investments[0].AmountAfter.Equal(dec("100")) {
		t.Error("Clone must not share record storage")
	}

	if Ledger(nil).Clone() != nil {
		t.Error("nil ledger clones to nil")
	}
}

func TestLedgerValidate(t *testing.T) {
	good := Ledger{
		{Institution: "Vanguard", Investments: []InvestmentRecord{
			{Date: MustParseDate("2024-01-01"), AmountAfter: dec("1")},
			{Date: MustParseDate("2024-02-01"), AmountAfter: dec("2")},
		}},
	}
	if err := good.Validate(); err != nil {
		t.Errorf("valid ledger rejected: %v", err)
	}

	dup := Ledger{{Institution: "A"}, {Institution: "A"}}
	if err := dup.Validate(); err == nil {
		t.Error("expected error for duplicate institution names")
	}

	unsorted := Ledger{
		{Institution: "A", Investments: []InvestmentRecord{
			{Date: MustParseDate("2024-02-01")},
			{Date: MustParseDate("2024-01-01")},
		}},
	}
	if err := unsorted.Validate(); err == nil {
		t.Error("expected error for out-of-order records")
	}

	duplicateDates := Ledger{
		{Institution: "A", Investments: []InvestmentRecord{
			{Date: MustParseDate("2024-01-01")},
			{Date: MustParseDate("2024-01-01")},
		}},
	}
	if err := duplicateDates.Validate(); err == nil {
		t.Error("expected error for duplicate dates")
	}
}

func TestPeriodCutoff(t *testing.T) {
	today := MustParseDate("2024-06-15")

	tests := []struct {
		period Period
		want   string
	}{
		{PeriodPast3Months, "2024-03-15"},
		{PeriodPast6Months, "2023-12-15"},
		{PeriodPast12Months, "2023-06-15"},
	}
	for _, tt := range tests {
		if got := tt.period.Cutoff(today); got.String() != tt.want {
			t.Errorf("%s cutoff = %s, want %s", tt.period, got, tt.want)
		}
	}

	if !PeriodFullTime.Cutoff(today).IsZero() {
		t.Error("full-time has no cutoff")
	}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"full-time", "past-3-months", "past-6-months", "past-12-months"} {
		if _, err := ParsePeriod(s); err != nil {
			t.Errorf("ParsePeriod(%q) failed: %v", s, err)
		}
	}
	if _, err := ParsePeriod("past-9-months"); err == nil {
		t.Error("expected error for unknown period")
	}
}
