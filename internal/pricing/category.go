package pricing

import "fmt"

// TripType decides which participant categories exist and who shares the bill.
type TripType string

const (
	// TripInstitute covers school and college groups. Faculty travel with the
	// group but are never divided into the per-student cost.
	TripInstitute TripType = "INSTITUTE"
	// TripCommercial covers general-public departures.
	TripCommercial TripType = "COMMERCIAL"
)

// TripScope gates TCS: it applies to international departures only.
type TripScope string

const (
	ScopeDomestic      TripScope = "DOMESTIC"
	ScopeInternational TripScope = "INTERNATIONAL"
)

// Role classifies a category for billing purposes.
type Role string

const (
	// RoleParticipant is a paying traveller (student or general public).
	RoleParticipant Role = "PARTICIPANT"
	// RoleFaculty is accompanying institute staff.
	RoleFaculty Role = "FACULTY"
	// RoleChaperone is non-paying trip crew travelling with the group.
	RoleChaperone Role = "CHAPERONE"
)

// CategoryID identifies one participant category on a trip.
type CategoryID string

// Standard category identifiers. Trips carry whichever subset applies; the
// allocation and distribution code iterates generically over the roster and
// never switches on individual identifiers.
const (
	CategoryBoys            CategoryID = "boys"
	CategoryGirls           CategoryID = "girls"
	CategoryMaleFaculty     CategoryID = "male_faculty"
	CategoryFemaleFaculty   CategoryID = "female_faculty"
	CategoryMaleTravellers  CategoryID = "male_travellers"
	CategoryFemaleTravellers CategoryID = "female_travellers"
	CategoryMaleChaperones   CategoryID = "male_chaperones"
	CategoryFemaleChaperones CategoryID = "female_chaperones"
)

// Category is one gender/role-segmented participant group. Rooms are never
// shared across categories.
type Category struct {
	ID        CategoryID `json:"id"`
	Role      Role       `json:"role"`
	Headcount int        `json:"headcount"`
	// SingleOccupancy forces one single-capacity room per person, bypassing
	// the allocation strategies. Set for staff and faculty.
	SingleOccupancy bool `json:"single_occupancy,omitempty"`
	// NonBilling excludes the category from the per-capita division.
	NonBilling bool `json:"non_billing,omitempty"`
}

// Roster is the full set of categories travelling on one trip.
type Roster []Category

// InstituteRoster builds the standard student/faculty roster.
func InstituteRoster(boys, girls, maleFaculty, femaleFaculty int) Roster {
	return Roster{
		{ID: CategoryBoys, Role: RoleParticipant, Headcount: boys},
		{ID: CategoryGirls, Role: RoleParticipant, Headcount: girls},
		{ID: CategoryMaleFaculty, Role: RoleFaculty, Headcount: maleFaculty, SingleOccupancy: true},
		{ID: CategoryFemaleFaculty, Role: RoleFaculty, Headcount: femaleFaculty, SingleOccupancy: true},
	}
}

// CommercialRoster builds the general-public roster. Chaperones travel free
// and never appear in the per-capita division.
func CommercialRoster(male, female, maleChaperones, femaleChaperones int) Roster {
	return Roster{
		{ID: CategoryMaleTravellers, Role: RoleParticipant, Headcount: male},
		{ID: CategoryFemaleTravellers, Role: RoleParticipant, Headcount: female},
		{ID: CategoryMaleChaperones, Role: RoleChaperone, Headcount: maleChaperones, NonBilling: true},
		{ID: CategoryFemaleChaperones, Role: RoleChaperone, Headcount: femaleChaperones, NonBilling: true},
	}
}

// Validate rejects negative headcounts and duplicate category identifiers.
func (r Roster) Validate() error {
	seen := make(map[CategoryID]struct{}, len(r))
	for _, c := range r {
		if c.ID == "" {
			return fmt.Errorf("%w: category with empty id", ErrValidation)
		}
		if c.Headcount < 0 {
			return fmt.Errorf("%w: category %s headcount %d", ErrValidation, c.ID, c.Headcount)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("%w: duplicate category %s", ErrValidation, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// TotalHeadcount counts everyone travelling, billable or not.
func (r Roster) TotalHeadcount() int {
	var total int
	for _, c := range r {
		total += c.Headcount
	}
	return total
}

// ChargeableHeadcount counts the participants the grand total is divided by.
// Non-billing categories are always excluded; on institute trips faculty are
// excluded as well, since their cost is folded into the student price.
func (r Roster) ChargeableHeadcount(tripType TripType) int {
	var total int
	for _, c := range r {
		if c.NonBilling {
			continue
		}
		if tripType == TripInstitute && c.Role == RoleFaculty {
			continue
		}
		total += c.Headcount
	}
	return total
}
