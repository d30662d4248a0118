package pricing

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

func testRates(t *testing.T) fx.Table {
	t.Helper()
	table, err := fx.NewTable([]fx.Rate{
		{Code: "USD", ToINR: 83.2},
		{Code: "EUR", ToINR: 90.5},
		{Code: "THB", ToINR: 2.4},
	})
	if err != nil {
		t.Fatalf("NewTable returned error: %v", err)
	}
	return table
}

func TestAggregateBucketsAndSubtotal(t *testing.T) {
	items := []LineItem{
		{Category: CostTransport, Label: "charter flight", Amount: 1000, Currency: "USD"},
		{Category: CostMeals, Label: "breakfasts", Amount: 50000, Currency: "INR"},
		{Category: CostActivities, Label: "island hop", Amount: 10000, Currency: "THB"},
		{Category: CostExtras, Label: "sim cards", Amount: 4000, Currency: "INR"},
		{Category: CostOverheads, Label: "trip lead travel", Amount: 12000, Currency: "INR"},
	}
	stays := []StayAllocation{{TotalCostINR: 82400}}

	breakdown, err := Aggregate(items, stays, testRates(t))
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}
	if breakdown.Transport != 83200 {
		t.Fatalf("transport %v", breakdown.Transport)
	}
	if breakdown.Accommodation != 82400 {
		t.Fatalf("accommodation %v", breakdown.Accommodation)
	}
	if breakdown.Activities != 24000 {
		t.Fatalf("activities %v", breakdown.Activities)
	}
	want := 83200.0 + 82400 + 50000 + 24000 + 4000 + 12000
	if breakdown.Subtotal() != want {
		t.Fatalf("subtotal %v, want %v", breakdown.Subtotal(), want)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	items := []LineItem{
		{Category: CostTransport, Label: "flight", Amount: 1234.56, Currency: "USD"},
		{Category: CostTransport, Label: "coach", Amount: 98000, Currency: "INR"},
		{Category: CostMeals, Label: "dinners", Amount: 431.5, Currency: "EUR"},
		{Category: CostActivities, Label: "museum", Amount: 77.25, Currency: "EUR"},
		{Category: CostExtras, Label: "insurance", Amount: 15000, Currency: "INR"},
		{Category: CostOverheads, Label: "office", Amount: 333.33, Currency: "USD"},
	}
	rates := testRates(t)
	base, err := Aggregate(items, nil, rates)
	if err != nil {
		t.Fatalf("Aggregate returned error: %v", err)
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]LineItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got, err := Aggregate(shuffled, nil, rates)
		if err != nil {
			t.Fatalf("Aggregate returned error: %v", err)
		}
		if math.Abs(got.Subtotal()-base.Subtotal()) > 1e-6 {
			t.Fatalf("shuffle %d changed subtotal: %v vs %v", i, got.Subtotal(), base.Subtotal())
		}
	}
}

func TestAggregateUnknownCurrency(t *testing.T) {
	_, err := Aggregate([]LineItem{{Category: CostMeals, Label: "lunch", Amount: 10, Currency: "XYZ"}}, nil, testRates(t))
	if !errors.Is(err, fx.ErrUnknownCurrency) {
		t.Fatalf("expected ErrUnknownCurrency, got %v", err)
	}
}

func TestAggregateRejectsNegativeAmountAndBadCategory(t *testing.T) {
	_, err := Aggregate([]LineItem{{Category: CostMeals, Label: "lunch", Amount: -1, Currency: "INR"}}, nil, testRates(t))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = Aggregate([]LineItem{{Category: "SOUVENIRS", Label: "mugs", Amount: 1, Currency: "INR"}}, nil, testRates(t))
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
