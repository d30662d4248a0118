package pricing

import (
	"fmt"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// QuoteInput is everything the pipeline needs for one wholesale recomputation.
type QuoteInput struct {
	TripType TripType   `json:"trip_type"`
	Scope    TripScope  `json:"scope"`
	Roster   Roster     `json:"roster"`
	Stays    []Stay     `json:"stays"`
	Items    []LineItem `json:"items"`
	Tax      TaxParams  `json:"tax"`
	Rates    fx.Table   `json:"-"`
	// SearchBudget bounds the cost-optimized room search per category; zero
	// means the engine default.
	SearchBudget int `json:"search_budget,omitempty"`
}

// Quote is the fully derived pricing result. It is stateless: every invocation
// replaces the previous quote wholesale.
type Quote struct {
	Stays               []StayAllocation `json:"stays"`
	Costs               CostBreakdown    `json:"costs"`
	Tax                 TaxComputation   `json:"tax"`
	TotalHeadcount      int              `json:"total_headcount"`
	ChargeableHeadcount int              `json:"chargeable_headcount"`
	CostPerParticipant  float64          `json:"cost_per_participant"`
	// Fallback is set when any room search degraded to the greedy plan, so
	// callers can tell an optimal quote from a budget-limited one.
	Fallback bool `json:"fallback,omitempty"`
}

// ComputeQuote runs the whole pipeline: room allocation per stay, cost
// aggregation, the tax ladder, then the per-capita division. Any invalid input
// aborts the computation; there is nothing to retry, the operator has to fix
// the plan.
func ComputeQuote(input QuoteInput) (Quote, error) {
	if input.TripType != TripInstitute && input.TripType != TripCommercial {
		return Quote{}, fmt.Errorf("%w: trip type %q", ErrValidation, input.TripType)
	}
	if input.Scope != ScopeDomestic && input.Scope != ScopeInternational {
		return Quote{}, fmt.Errorf("%w: trip scope %q", ErrValidation, input.Scope)
	}
	if err := input.Roster.Validate(); err != nil {
		return Quote{}, err
	}

	quote := Quote{
		Stays:          make([]StayAllocation, 0, len(input.Stays)),
		TotalHeadcount: input.Roster.TotalHeadcount(),
	}
	for _, stay := range input.Stays {
		priced, err := PriceStay(stay, input.Roster, input.Rates, input.SearchBudget)
		if err != nil {
			return Quote{}, err
		}
		quote.Stays = append(quote.Stays, priced)
		quote.Fallback = quote.Fallback || priced.Fallback
	}

	costs, err := Aggregate(input.Items, quote.Stays, input.Rates)
	if err != nil {
		return Quote{}, err
	}
	quote.Costs = costs

	params := input.Tax
	params.Scope = input.Scope
	quote.Tax = ComputeTax(costs.Subtotal(), params)

	quote.ChargeableHeadcount = input.Roster.ChargeableHeadcount(input.TripType)
	quote.CostPerParticipant = PerCapita(quote.Tax.GrandTotal, quote.ChargeableHeadcount)
	return quote, nil
}

// PerCapita divides the grand total across the billable headcount. A zero
// headcount yields zero rather than an error so an empty form never blows up
// the whole recomputation.
func PerCapita(grandTotal float64, chargeableHeadcount int) float64 {
	if chargeableHeadcount <= 0 {
		return 0
	}
	return grandTotal / float64(chargeableHeadcount)
}
