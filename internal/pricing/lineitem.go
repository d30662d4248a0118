package pricing

import (
	"fmt"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// CostCategory buckets a trip's spending for the summary breakdown.
type CostCategory string

const (
	CostTransport     CostCategory = "TRANSPORT"
	CostAccommodation CostCategory = "ACCOMMODATION"
	CostMeals         CostCategory = "MEALS"
	CostActivities    CostCategory = "ACTIVITIES"
	CostExtras        CostCategory = "EXTRAS"
	CostOverheads     CostCategory = "OVERHEADS"
)

// CostCategories lists every bucket in display order.
func CostCategories() []CostCategory {
	return []CostCategory{CostTransport, CostAccommodation, CostMeals, CostActivities, CostExtras, CostOverheads}
}

// LineItem is one raw cost entry in its own currency. What items exist is the
// operator's call; this core only converts and aggregates them.
type LineItem struct {
	Category CostCategory `json:"category"`
	Label    string       `json:"label"`
	Amount   float64      `json:"amount"`
	Currency string       `json:"currency"`
}

// CostBreakdown holds the six per-category subtotals in the reporting currency.
type CostBreakdown struct {
	Transport     float64 `json:"transport"`
	Accommodation float64 `json:"accommodation"`
	Meals         float64 `json:"meals"`
	Activities    float64 `json:"activities"`
	Extras        float64 `json:"extras"`
	Overheads     float64 `json:"overheads"`
}

// Subtotal sums the six buckets.
func (b CostBreakdown) Subtotal() float64 {
	return b.Transport + b.Accommodation + b.Meals + b.Activities + b.Extras + b.Overheads
}

// Aggregate converts every line item into the reporting currency and sums the
// buckets, folding the priced stays into accommodation. Each item converts
// independently, so the result does not depend on line-item order.
func Aggregate(items []LineItem, stays []StayAllocation, rates fx.Table) (CostBreakdown, error) {
	var breakdown CostBreakdown
	for _, stay := range stays {
		breakdown.Accommodation += stay.TotalCostINR
	}
	for i, item := range items {
		if item.Amount < 0 {
			return CostBreakdown{}, fmt.Errorf("%w: line item %q amount %v", ErrValidation, item.Label, item.Amount)
		}
		converted, err := rates.Convert(item.Amount, item.Currency)
		if err != nil {
			return CostBreakdown{}, fmt.Errorf("line item %d (%q): %w", i, item.Label, err)
		}
		switch item.Category {
		case CostTransport:
			breakdown.Transport += converted
		case CostAccommodation:
			breakdown.Accommodation += converted
		case CostMeals:
			breakdown.Meals += converted
		case CostActivities:
			breakdown.Activities += converted
		case CostExtras:
			breakdown.Extras += converted
		case CostOverheads:
			breakdown.Overheads += converted
		default:
			return CostBreakdown{}, fmt.Errorf("%w: line item %q category %q", ErrValidation, item.Label, item.Category)
		}
	}
	return breakdown, nil
}
