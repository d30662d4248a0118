// Package trips stores trip plans and their derived quotes. The plan is the
// operator's input; the quote is always recomputed wholesale from it and
// replaced, never patched.
package trips

import (
	"time"

	"github.com/google/uuid"

	"github.com/tripledger/tripledger/internal/pricing"
)

// Plan is everything the operator entered for one trip. It feeds directly into
// the pricing pipeline; conversion rates are resolved at computation time.
type Plan struct {
	TripType pricing.TripType   `json:"trip_type"`
	Scope    pricing.TripScope  `json:"scope"`
	Roster   pricing.Roster     `json:"roster"`
	Stays    []pricing.Stay     `json:"stays"`
	Items    []pricing.LineItem `json:"items"`
	Tax      pricing.TaxParams  `json:"tax"`
}

// Trip is one stored trip document.
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StoredQuote is the latest computed quote for a trip.
type StoredQuote struct {
	TripID     uuid.UUID     `json:"trip_id"`
	Quote      pricing.Quote `json:"quote"`
	ComputedAt time.Time     `json:"computed_at"`
}
