package pricing

import (
	"fmt"

	"github.com/tripledger/tripledger/internal/pricing/fx"
	"github.com/tripledger/tripledger/internal/pricing/rooms"
)

// Stay describes one property booking: its room inventory, how long the group
// stays and in which currency the property bills.
type Stay struct {
	Hotel    string           `json:"hotel"`
	City     string           `json:"city"`
	Nights   int              `json:"nights"`
	Currency string           `json:"currency"`
	RoomTypes []rooms.RoomType `json:"room_types"`
	// Preferences optionally restricts and orders the room types per
	// category. Categories without an entry get the capacity-descending
	// default.
	Preferences map[CategoryID][]string `json:"preferences,omitempty"`
	Strategy    rooms.Strategy          `json:"strategy,omitempty"`
}

// StayAllocation is the priced housing plan for one property.
type StayAllocation struct {
	Hotel      string                          `json:"hotel"`
	City       string                          `json:"city"`
	Nights     int                             `json:"nights"`
	Currency   string                          `json:"currency"`
	Categories map[CategoryID]rooms.Allocation `json:"categories"`
	TotalRooms int                             `json:"total_rooms"`
	// NightlyCost and TotalCost are in the stay's own currency.
	NightlyCost  float64 `json:"nightly_cost"`
	TotalCost    float64 `json:"total_cost"`
	TotalCostINR float64 `json:"total_cost_inr"`
	// Fallback is set when any category's cost-optimized search degraded to
	// the greedy plan.
	Fallback bool `json:"fallback,omitempty"`
}

// PriceStay houses every category of the roster at the property and prices the
// result: nightly cost summed over all categories and room types, multiplied
// by nights, converted into the reporting currency.
func PriceStay(stay Stay, roster Roster, rates fx.Table, searchBudget int) (StayAllocation, error) {
	if stay.Nights < 0 {
		return StayAllocation{}, fmt.Errorf("%w: stay %q nights %d", ErrValidation, stay.Hotel, stay.Nights)
	}
	// Broken inventory fails before any category is allocated, not halfway
	// through the roster.
	if err := rooms.ValidateInventory(stay.RoomTypes); err != nil {
		return StayAllocation{}, err
	}

	result := StayAllocation{
		Hotel:      stay.Hotel,
		City:       stay.City,
		Nights:     stay.Nights,
		Currency:   stay.Currency,
		Categories: make(map[CategoryID]rooms.Allocation, len(roster)),
	}
	for _, category := range roster {
		var (
			alloc rooms.Allocation
			err   error
		)
		if category.SingleOccupancy {
			alloc, err = rooms.AllocateSingles(category.Headcount, stay.RoomTypes)
		} else {
			alloc, err = rooms.Allocate(category.Headcount, stay.RoomTypes, stay.Preferences[category.ID], stay.Strategy, searchBudget)
		}
		if err != nil {
			return StayAllocation{}, fmt.Errorf("category %s at %q: %w", category.ID, stay.Hotel, err)
		}
		result.Categories[category.ID] = alloc
		result.TotalRooms += alloc.Rooms
		result.NightlyCost += alloc.NightlyCost()
		result.Fallback = result.Fallback || alloc.Fallback
	}

	result.TotalCost = result.NightlyCost * float64(stay.Nights)
	converted, err := rates.Convert(result.TotalCost, stay.Currency)
	if err != nil {
		return StayAllocation{}, fmt.Errorf("stay %q: %w", stay.Hotel, err)
	}
	result.TotalCostINR = converted
	return result, nil
}
