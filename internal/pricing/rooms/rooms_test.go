package rooms

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

var schoolInventory = []RoomType{
	{Label: "Triple", Capacity: 3, NightlyCost: 3000},
	{Label: "Double", Capacity: 2, NightlyCost: 2200},
}

func TestAllocateGreedyFortyAcrossTripleAndDouble(t *testing.T) {
	alloc, err := Allocate(40, schoolInventory, nil, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	want := Allocation{
		Breakdown: []Breakdown{
			{RoomType: "Triple", Capacity: 3, Rooms: 13, People: 39, CostPerRoom: 3000},
			{RoomType: "Double", Capacity: 2, Rooms: 1, People: 1, CostPerRoom: 2200},
		},
		Rooms: 14,
	}
	if !reflect.DeepEqual(alloc, want) {
		t.Fatalf("unexpected allocation: %+v", alloc)
	}
	if alloc.NightlyCost() != 41200 {
		t.Fatalf("expected nightly cost 41200, got %v", alloc.NightlyCost())
	}
}

func TestAllocateZeroHeadcount(t *testing.T) {
	alloc, err := Allocate(0, schoolInventory, nil, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if len(alloc.Breakdown) != 0 || alloc.Rooms != 0 || alloc.NightlyCost() != 0 {
		t.Fatalf("expected empty allocation, got %+v", alloc)
	}
}

func TestAllocateZeroHeadcountSkipsInventoryRequirement(t *testing.T) {
	if _, err := Allocate(0, nil, nil, StrategyGreedy, 0); err != nil {
		t.Fatalf("zero headcount with empty inventory should not error, got %v", err)
	}
}

func TestAllocateEmptyInventory(t *testing.T) {
	_, err := Allocate(5, nil, nil, StrategyGreedy, 0)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestAllocateRejectsBadInventoryBeforeAllocating(t *testing.T) {
	bad := []RoomType{
		{Label: "Quad", Capacity: 4, NightlyCost: 4000},
		{Label: "Broken", Capacity: 0, NightlyCost: 100},
	}
	_, err := Allocate(3, bad, nil, StrategyGreedy, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	_, err = Allocate(3, []RoomType{{Label: "Neg", Capacity: 2, NightlyCost: -1}}, nil, StrategyGreedy, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for negative cost, got %v", err)
	}
}

func TestAllocateNegativeHeadcount(t *testing.T) {
	_, err := Allocate(-1, schoolInventory, nil, StrategyGreedy, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAllocatePreferenceOrder(t *testing.T) {
	alloc, err := Allocate(7, schoolInventory, []string{"Double", "Triple"}, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	// Doubles first per preference: 3 doubles house 6, one extra double takes
	// the leftover person (Double is the smallest type in the restricted set).
	want := []Breakdown{{RoomType: "Double", Capacity: 2, Rooms: 4, People: 7, CostPerRoom: 2200}}
	if !reflect.DeepEqual(alloc.Breakdown, want) {
		t.Fatalf("unexpected breakdown: %+v", alloc.Breakdown)
	}
}

func TestAllocateUnknownPreference(t *testing.T) {
	_, err := Allocate(4, schoolInventory, []string{"Suite"}, StrategyGreedy, 0)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAllocateNeverUnderHouses(t *testing.T) {
	inventories := [][]RoomType{
		schoolInventory,
		{{Label: "Quad", Capacity: 4, NightlyCost: 4100}, {Label: "Twin", Capacity: 2, NightlyCost: 2600}, {Label: "Single", Capacity: 1, NightlyCost: 1800}},
		{{Label: "Five", Capacity: 5, NightlyCost: 5000}},
	}
	for _, inv := range inventories {
		for headcount := 0; headcount <= 60; headcount++ {
			alloc, err := Allocate(headcount, inv, nil, StrategyGreedy, 0)
			if err != nil {
				t.Fatalf("headcount %d: %v", headcount, err)
			}
			if alloc.People() < headcount {
				t.Fatalf("headcount %d under-housed: %+v", headcount, alloc)
			}
		}
	}
}

func TestAllocateIsDeterministic(t *testing.T) {
	first, err := Allocate(23, schoolInventory, nil, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := Allocate(23, schoolInventory, nil, StrategyGreedy, 0)
		if err != nil {
			t.Fatalf("Allocate returned error: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("allocation differed between runs: %+v vs %+v", first, again)
		}
	}
}

func TestAllocateCostOptimizedBeatsGreedyRemainderRoom(t *testing.T) {
	// Greedy puts 9 people into one quad, one double and one overflow double.
	// Three triples are cheaper.
	inv := []RoomType{
		{Label: "Quad", Capacity: 4, NightlyCost: 5000},
		{Label: "Triple", Capacity: 3, NightlyCost: 3000},
		{Label: "Double", Capacity: 2, NightlyCost: 2800},
	}
	greedy, err := Allocate(9, inv, nil, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	optimized, err := Allocate(9, inv, nil, StrategyCostOptimized, 0)
	if err != nil {
		t.Fatalf("optimized: %v", err)
	}
	if optimized.Fallback {
		t.Fatalf("search should finish within budget")
	}
	if optimized.NightlyCost() != 9000 {
		t.Fatalf("expected three triples at 9000, got %v (%+v)", optimized.NightlyCost(), optimized)
	}
	if optimized.NightlyCost() > greedy.NightlyCost() {
		t.Fatalf("optimization regressed: %v > %v", optimized.NightlyCost(), greedy.NightlyCost())
	}
}

func TestAllocateCostOptimizedNeverWorseThanGreedy(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 50; i++ {
		inv := []RoomType{
			{Label: "A", Capacity: 1 + rng.Intn(5), NightlyCost: float64(1000 + rng.Intn(4000))},
			{Label: "B", Capacity: 1 + rng.Intn(5), NightlyCost: float64(1000 + rng.Intn(4000))},
			{Label: "C", Capacity: 1 + rng.Intn(5), NightlyCost: float64(1000 + rng.Intn(4000))},
		}
		headcount := rng.Intn(40)
		greedy, err := Allocate(headcount, inv, nil, StrategyGreedy, 0)
		if err != nil {
			t.Fatalf("greedy: %v", err)
		}
		optimized, err := Allocate(headcount, inv, nil, StrategyCostOptimized, 0)
		if err != nil {
			t.Fatalf("optimized: %v", err)
		}
		if optimized.NightlyCost() > greedy.NightlyCost() {
			t.Fatalf("case %d: optimized %v worse than greedy %v", i, optimized.NightlyCost(), greedy.NightlyCost())
		}
		if optimized.People() < headcount {
			t.Fatalf("case %d: under-housed %+v", i, optimized)
		}
	}
}

func TestAllocateCostOptimizedBudgetExhaustionFallsBackToGreedy(t *testing.T) {
	alloc, err := Allocate(40, schoolInventory, nil, StrategyCostOptimized, 1)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if !alloc.Fallback {
		t.Fatalf("expected fallback flag with a one-evaluation budget")
	}
	greedy, err := Allocate(40, schoolInventory, nil, StrategyGreedy, 0)
	if err != nil {
		t.Fatalf("greedy: %v", err)
	}
	greedy.Fallback = true
	if !reflect.DeepEqual(alloc, greedy) {
		t.Fatalf("fallback should reuse the greedy plan: %+v", alloc)
	}
}

func TestAllocateSingles(t *testing.T) {
	inv := []RoomType{
		{Label: "Double", Capacity: 2, NightlyCost: 2200},
		{Label: "Single", Capacity: 1, NightlyCost: 1500},
	}
	alloc, err := AllocateSingles(3, inv)
	if err != nil {
		t.Fatalf("AllocateSingles returned error: %v", err)
	}
	want := Allocation{
		Breakdown: []Breakdown{{RoomType: "Single", Capacity: 1, Rooms: 3, People: 3, CostPerRoom: 1500}},
		Rooms:     3,
	}
	if !reflect.DeepEqual(alloc, want) {
		t.Fatalf("unexpected allocation: %+v", alloc)
	}
}

func TestAllocateSinglesWithoutSingleRoomType(t *testing.T) {
	_, err := AllocateSingles(2, schoolInventory)
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if _, err := AllocateSingles(0, schoolInventory); err != nil {
		t.Fatalf("empty single-occupancy category should not error, got %v", err)
	}
}
