// Package pricing is the computation core for group-trip costing: it houses
// participant categories into room inventories, aggregates multi-currency cost
// line items into INR, applies profit and taxes, and divides the grand total
// across the billable headcount. Everything here is a pure function of its
// inputs; callers recompute wholesale whenever any planning input changes.
package pricing

import "errors"

var (
	// ErrValidation indicates a planning input the operator must correct.
	ErrValidation = errors.New("pricing: invalid input")
)
