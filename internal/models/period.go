package models

import "fmt"

// Period is a rolling lookback window over record dates.
type Period string

const (
	PeriodFullTime     Period = "full-time"
	PeriodPast3Months  Period = "past-3-months"
	PeriodPast6Months  Period = "past-6-months"
	PeriodPast12Months Period = "past-12-months"
)

// periodMonths maps each bounded period to its lookback in months.
var periodMonths = map[Period]int{
	PeriodPast3Months:  3,
	PeriodPast6Months:  6,
	PeriodPast12Months: 12,
}

// Months returns the lookback in months and true for a bounded period,
// or 0 and false for full-time.
func (p Period) Months() (int, bool) {
	n, ok := periodMonths[p]
	return n, ok
}

// Cutoff returns the inclusive lower date bound for the period relative to
// today. The zero Date (no cutoff) is returned for full-time.
func (p Period) Cutoff(today Date) Date {
	n, ok := p.Months()
	if !ok {
		return Date{}
	}
	return today.AddMonths(-n)
}

// ParsePeriod validates a period string.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	switch p {
	case PeriodFullTime, PeriodPast3Months, PeriodPast6Months, PeriodPast12Months:
		return p, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}
