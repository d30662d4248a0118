package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripledger/tripledger/internal/pricing/rooms"
)

func TestComputeQuoteInstituteTrip(t *testing.T) {
	input := QuoteInput{
		TripType: TripInstitute,
		Scope:    ScopeDomestic,
		Roster:   InstituteRoster(40, 0, 0, 0),
		Stays: []Stay{{
			Hotel:    "Hilltop Residency",
			City:     "Manali",
			Nights:   2,
			Currency: "INR",
			RoomTypes: []rooms.RoomType{
				{Label: "Triple", Capacity: 3, NightlyCost: 3000},
				{Label: "Double", Capacity: 2, NightlyCost: 2200},
			},
		}},
		Items: []LineItem{
			{Category: CostTransport, Label: "coach", Amount: 17600, Currency: "INR"},
		},
		Tax:   TaxParams{Profit: 10000, GSTPercent: 5, TCSPercent: 5},
		Rates: testRates(t),
	}

	quote, err := ComputeQuote(input)
	require.NoError(t, err)

	assert.Equal(t, 82400.0, quote.Costs.Accommodation)
	assert.Equal(t, 100000.0, quote.Tax.Subtotal)
	assert.Equal(t, 110000.0, quote.Tax.AdminSubtotal)
	assert.Equal(t, 5500.0, quote.Tax.GSTAmount)
	assert.Zero(t, quote.Tax.TCSAmount)
	assert.Equal(t, 115500.0, quote.Tax.GrandTotal)
	assert.Equal(t, 40, quote.ChargeableHeadcount)
	assert.Equal(t, 115500.0/40, quote.CostPerParticipant)
	assert.False(t, quote.Fallback)
}

func TestComputeQuoteInternationalAddsTCS(t *testing.T) {
	input := QuoteInput{
		TripType: TripCommercial,
		Scope:    ScopeInternational,
		Roster:   CommercialRoster(20, 20, 2, 0),
		Items: []LineItem{
			{Category: CostTransport, Label: "flights", Amount: 100000, Currency: "INR"},
		},
		Tax:   TaxParams{Profit: 10000, GSTPercent: 5, TCSPercent: 5},
		Rates: testRates(t),
	}

	quote, err := ComputeQuote(input)
	require.NoError(t, err)

	assert.Equal(t, 5775.0, quote.Tax.TCSAmount)
	assert.Equal(t, 121275.0, quote.Tax.GrandTotal)
	// Chaperones ride free: 40 payers, not 42.
	assert.Equal(t, 40, quote.ChargeableHeadcount)
	assert.Equal(t, 121275.0/40, quote.CostPerParticipant)
}

func TestComputeQuoteEmptyRosterYieldsZeroPerCapita(t *testing.T) {
	input := QuoteInput{
		TripType: TripInstitute,
		Scope:    ScopeDomestic,
		Roster:   InstituteRoster(0, 0, 0, 0),
		Tax:      TaxParams{Profit: 5000, GSTPercent: 5},
		Rates:    testRates(t),
	}
	quote, err := ComputeQuote(input)
	require.NoError(t, err)
	assert.Zero(t, quote.ChargeableHeadcount)
	assert.Zero(t, quote.CostPerParticipant)
	// Profit and GST still apply to an empty plan.
	assert.Equal(t, 5250.0, quote.Tax.GrandTotal)
}

func TestComputeQuoteFacultyOnlyInstituteTrip(t *testing.T) {
	// Faculty are housed and priced but the chargeable headcount is zero, so
	// the division is guarded rather than exploding.
	input := QuoteInput{
		TripType: TripInstitute,
		Scope:    ScopeDomestic,
		Roster:   InstituteRoster(0, 0, 2, 0),
		Stays: []Stay{{
			Hotel:     "City Stay",
			Nights:    1,
			Currency:  "INR",
			RoomTypes: []rooms.RoomType{{Label: "Single", Capacity: 1, NightlyCost: 1400}},
		}},
		Tax:   TaxParams{GSTPercent: 5},
		Rates: testRates(t),
	}
	quote, err := ComputeQuote(input)
	require.NoError(t, err)
	assert.Equal(t, 2800.0, quote.Costs.Accommodation)
	assert.Zero(t, quote.CostPerParticipant)
}

func TestComputeQuotePropagatesFallback(t *testing.T) {
	input := QuoteInput{
		TripType: TripCommercial,
		Scope:    ScopeDomestic,
		Roster:   CommercialRoster(40, 0, 0, 0),
		Stays: []Stay{{
			Hotel:    "Budget Lodge",
			Nights:   1,
			Currency: "INR",
			RoomTypes: []rooms.RoomType{
				{Label: "Triple", Capacity: 3, NightlyCost: 3000},
				{Label: "Double", Capacity: 2, NightlyCost: 2200},
			},
			Strategy: rooms.StrategyCostOptimized,
		}},
		Tax:          TaxParams{GSTPercent: 5},
		Rates:        testRates(t),
		SearchBudget: 1,
	}
	quote, err := ComputeQuote(input)
	require.NoError(t, err)
	assert.True(t, quote.Fallback)
	assert.True(t, quote.Stays[0].Fallback)
}

func TestComputeQuoteRejectsUnknownTripType(t *testing.T) {
	_, err := ComputeQuote(QuoteInput{TripType: "SAFARI", Scope: ScopeDomestic, Rates: testRates(t)})
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = ComputeQuote(QuoteInput{TripType: TripInstitute, Scope: "ORBITAL", Rates: testRates(t)})
	assert.True(t, errors.Is(err, ErrValidation))
}
