package trips

import (
	"github.com/tripledger/tripledger/internal/pricing"
	"github.com/tripledger/tripledger/internal/pricing/rooms"
)

// ParticipantCounts is the flat per-category headcount form the UI submits.
// Only the fields matching the trip type are consulted.
type ParticipantCounts struct {
	Boys          int `json:"boys" validate:"gte=0"`
	Girls         int `json:"girls" validate:"gte=0"`
	MaleFaculty   int `json:"male_faculty" validate:"gte=0"`
	FemaleFaculty int `json:"female_faculty" validate:"gte=0"`

	MaleTravellers   int `json:"male_travellers" validate:"gte=0"`
	FemaleTravellers int `json:"female_travellers" validate:"gte=0"`
	MaleChaperones   int `json:"male_chaperones" validate:"gte=0"`
	FemaleChaperones int `json:"female_chaperones" validate:"gte=0"`
}

// StayRequest is one accommodation line item on the form.
type StayRequest struct {
	Hotel     string                          `json:"hotel" validate:"required,max=120"`
	City      string                          `json:"city" validate:"max=120"`
	Nights    int                             `json:"nights" validate:"gte=0"`
	Currency  string                          `json:"currency" validate:"required,len=3,alpha"`
	RoomTypes []RoomTypeRequest               `json:"room_types" validate:"dive"`
	Preferences map[pricing.CategoryID][]string `json:"preferences,omitempty"`
	Strategy  rooms.Strategy                  `json:"strategy,omitempty" validate:"omitempty,oneof=GREEDY COST_OPTIMIZED"`
}

// RoomTypeRequest is one bookable room configuration on the form.
type RoomTypeRequest struct {
	Label       string  `json:"label" validate:"required,max=60"`
	Capacity    int     `json:"capacity" validate:"required,gte=1"`
	NightlyCost float64 `json:"nightly_cost" validate:"gte=0"`
}

// LineItemRequest is one raw cost entry on the form.
type LineItemRequest struct {
	Category pricing.CostCategory `json:"category" validate:"required,oneof=TRANSPORT ACCOMMODATION MEALS ACTIVITIES EXTRAS OVERHEADS"`
	Label    string               `json:"label" validate:"required,max=120"`
	Amount   float64              `json:"amount" validate:"gte=0"`
	Currency string               `json:"currency" validate:"required,len=3,alpha"`
}

// CreateTripRequest creates a trip and computes its first quote.
type CreateTripRequest struct {
	Name         string            `json:"name" validate:"required,max=160"`
	TripType     pricing.TripType  `json:"trip_type" validate:"required,oneof=INSTITUTE COMMERCIAL"`
	Scope        pricing.TripScope `json:"scope" validate:"required,oneof=DOMESTIC INTERNATIONAL"`
	Participants ParticipantCounts `json:"participants"`
	Stays        []StayRequest     `json:"stays" validate:"dive"`
	Items        []LineItemRequest `json:"items" validate:"dive"`
	Profit       float64           `json:"profit" validate:"gte=0"`
	// GSTPercent and TCSPercent fall back to the statutory defaults when nil.
	GSTPercent *float64 `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TCSPercent *float64 `json:"tcs_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// UpdatePlanRequest replaces a trip's plan and recomputes the quote.
type UpdatePlanRequest struct {
	TripType     pricing.TripType  `json:"trip_type" validate:"required,oneof=INSTITUTE COMMERCIAL"`
	Scope        pricing.TripScope `json:"scope" validate:"required,oneof=DOMESTIC INTERNATIONAL"`
	Participants ParticipantCounts `json:"participants"`
	Stays        []StayRequest     `json:"stays" validate:"dive"`
	Items        []LineItemRequest `json:"items" validate:"dive"`
	Profit       float64           `json:"profit" validate:"gte=0"`
	GSTPercent   *float64          `json:"gst_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
	TCSPercent   *float64          `json:"tcs_percent,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// buildPlan converts the form payload into the pricing plan, applying the
// default tax percentages when the form leaves them blank.
func buildPlan(tripType pricing.TripType, scope pricing.TripScope, counts ParticipantCounts, stays []StayRequest, items []LineItemRequest, profit float64, gst, tcs *float64) Plan {
	plan := Plan{
		TripType: tripType,
		Scope:    scope,
		Tax: pricing.TaxParams{
			Profit:     profit,
			GSTPercent: pricing.DefaultGSTPercent,
			TCSPercent: pricing.DefaultTCSPercent,
			Scope:      scope,
		},
	}
	if gst != nil {
		plan.Tax.GSTPercent = *gst
	}
	if tcs != nil {
		plan.Tax.TCSPercent = *tcs
	}

	if tripType == pricing.TripInstitute {
		plan.Roster = pricing.InstituteRoster(counts.Boys, counts.Girls, counts.MaleFaculty, counts.FemaleFaculty)
	} else {
		plan.Roster = pricing.CommercialRoster(counts.MaleTravellers, counts.FemaleTravellers, counts.MaleChaperones, counts.FemaleChaperones)
	}

	for _, stay := range stays {
		types := make([]rooms.RoomType, 0, len(stay.RoomTypes))
		for _, rt := range stay.RoomTypes {
			types = append(types, rooms.RoomType{Label: rt.Label, Capacity: rt.Capacity, NightlyCost: rt.NightlyCost})
		}
		plan.Stays = append(plan.Stays, pricing.Stay{
			Hotel:       stay.Hotel,
			City:        stay.City,
			Nights:      stay.Nights,
			Currency:    stay.Currency,
			RoomTypes:   types,
			Preferences: stay.Preferences,
			Strategy:    stay.Strategy,
		})
	}
	for _, item := range items {
		plan.Items = append(plan.Items, pricing.LineItem{
			Category: item.Category,
			Label:    item.Label,
			Amount:   item.Amount,
			Currency: item.Currency,
		})
	}
	return plan
}
