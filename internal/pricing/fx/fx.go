// Package fx converts line-item amounts into the reporting currency.
package fx

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ReportingCurrency is the single currency every cost is aggregated in.
const ReportingCurrency = "INR"

var (
	// ErrUnknownCurrency indicates the rate table has no entry for the requested code.
	ErrUnknownCurrency = errors.New("fx: unknown currency")
	// ErrInvalidRate indicates a non-positive conversion rate.
	ErrInvalidRate = errors.New("fx: rate must be positive")
)

// Rate is one masterdata rate toward the reporting currency.
type Rate struct {
	Code          string    `json:"code"`
	ToINR         float64   `json:"rate_to_inr"`
	EffectiveDate time.Time `json:"effective_date"`
}

// Table maps ISO currency codes to their rate toward the reporting currency.
type Table map[string]float64

// NewTable builds a lookup table from masterdata rates. Codes are normalised
// to upper case; a non-positive rate is rejected up front rather than at the
// first conversion that happens to hit it.
func NewTable(rates []Rate) (Table, error) {
	table := make(Table, len(rates)+1)
	for _, rate := range rates {
		code := strings.ToUpper(strings.TrimSpace(rate.Code))
		if code == "" {
			return nil, fmt.Errorf("%w: empty currency code", ErrInvalidRate)
		}
		if rate.ToINR <= 0 {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidRate, code, rate.ToINR)
		}
		table[code] = rate.ToINR
	}
	table[ReportingCurrency] = 1
	return table, nil
}

// Convert turns an amount in the given currency into the reporting currency.
// A missing code is an error; defaulting to a 1.0 rate would silently misprice
// every international trip, so the caller must supply a complete table.
func (t Table) Convert(amount float64, code string) (float64, error) {
	normalised := strings.ToUpper(strings.TrimSpace(code))
	if normalised == ReportingCurrency {
		return amount, nil
	}
	rate, ok := t[normalised]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return amount * rate, nil
}
