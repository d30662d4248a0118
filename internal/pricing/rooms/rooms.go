// Package rooms packs one participant category into a property's room-type
// inventory. Categories never share rooms, so each call covers exactly one
// category's headcount.
package rooms

import (
	"errors"
	"fmt"
	"sort"
)

// Strategy selects how rooms are chosen for a category.
type Strategy string

const (
	// StrategyGreedy fills rooms from the largest capacity (or the explicit
	// preference order) down, topping up the remainder with one extra room of
	// the smallest type.
	StrategyGreedy Strategy = "GREEDY"
	// StrategyCostOptimized searches feasible room-count combinations for the
	// cheapest one that houses the whole category.
	StrategyCostOptimized Strategy = "COST_OPTIMIZED"
)

// DefaultSearchBudget caps the number of combinations the cost-optimized
// search may evaluate before degrading to the greedy result.
const DefaultSearchBudget = 200_000

var (
	// ErrConfiguration indicates no usable room type exists for a non-empty category.
	ErrConfiguration = errors.New("rooms: unusable room configuration")
	// ErrValidation indicates an invalid inventory or headcount.
	ErrValidation = errors.New("rooms: invalid input")
	// ErrInfeasible is reserved for allocation policies that can fail to house
	// a category. The current round-up policy never returns it, but callers
	// should treat it as fatal if it ever surfaces.
	ErrInfeasible = errors.New("rooms: allocation infeasible")
)

// RoomType is one bookable room configuration at a property.
type RoomType struct {
	Label       string  `json:"label"`
	Capacity    int     `json:"capacity"`
	NightlyCost float64 `json:"nightly_cost"`
}

// Breakdown reports how many rooms of one type a category occupies. People may
// be below Rooms*Capacity only on the final remainder room; a partially filled
// room is still billed at the full nightly cost.
type Breakdown struct {
	RoomType    string  `json:"room_type"`
	Capacity    int     `json:"capacity"`
	Rooms       int     `json:"rooms"`
	People      int     `json:"people"`
	CostPerRoom float64 `json:"cost_per_room"`
}

// Allocation is the full housing plan for one category.
type Allocation struct {
	Breakdown []Breakdown `json:"breakdown"`
	Rooms     int         `json:"rooms"`
	// Fallback is set when the cost-optimized search exhausted its budget and
	// the greedy plan was used instead.
	Fallback bool `json:"fallback,omitempty"`
}

// NightlyCost sums the full room rate across the plan, partial rooms included.
func (a Allocation) NightlyCost() float64 {
	var total float64
	for _, b := range a.Breakdown {
		total += float64(b.Rooms) * b.CostPerRoom
	}
	return total
}

// People sums everyone housed by the plan.
func (a Allocation) People() int {
	var total int
	for _, b := range a.Breakdown {
		total += b.People
	}
	return total
}

// ValidateInventory rejects broken room types before any allocation starts, so
// a bad capacity never surfaces halfway through a plan.
func ValidateInventory(types []RoomType) error {
	seen := make(map[string]struct{}, len(types))
	for _, rt := range types {
		if rt.Label == "" {
			return fmt.Errorf("%w: room type with empty label", ErrValidation)
		}
		if rt.Capacity < 1 {
			return fmt.Errorf("%w: room type %q capacity %d", ErrValidation, rt.Label, rt.Capacity)
		}
		if rt.NightlyCost < 0 {
			return fmt.Errorf("%w: room type %q cost %v", ErrValidation, rt.Label, rt.NightlyCost)
		}
		if _, dup := seen[rt.Label]; dup {
			return fmt.Errorf("%w: duplicate room type %q", ErrValidation, rt.Label)
		}
		seen[rt.Label] = struct{}{}
	}
	return nil
}

// Allocate houses headcount people using the given strategy. An empty
// preference list means the engine orders types by descending capacity; a
// non-empty list restricts the inventory to the named types, in that order.
func Allocate(headcount int, types []RoomType, preferences []string, strategy Strategy, searchBudget int) (Allocation, error) {
	if headcount < 0 {
		return Allocation{}, fmt.Errorf("%w: headcount %d", ErrValidation, headcount)
	}
	if err := ValidateInventory(types); err != nil {
		return Allocation{}, err
	}
	if headcount == 0 {
		return Allocation{}, nil
	}
	if len(types) == 0 {
		return Allocation{}, fmt.Errorf("%w: no room types configured", ErrConfiguration)
	}

	ordered, err := orderTypes(types, preferences)
	if err != nil {
		return Allocation{}, err
	}

	greedy := allocateGreedy(headcount, ordered)
	if strategy != StrategyCostOptimized {
		return greedy, nil
	}

	if searchBudget <= 0 {
		searchBudget = DefaultSearchBudget
	}
	optimized, ok := allocateCheapest(headcount, ordered, greedy, searchBudget)
	if !ok {
		greedy.Fallback = true
		return greedy, nil
	}
	return optimized, nil
}

// AllocateSingles houses a category that always gets single rooms, one room
// per person, ignoring preferences and strategy.
func AllocateSingles(headcount int, types []RoomType) (Allocation, error) {
	if headcount < 0 {
		return Allocation{}, fmt.Errorf("%w: headcount %d", ErrValidation, headcount)
	}
	if err := ValidateInventory(types); err != nil {
		return Allocation{}, err
	}
	if headcount == 0 {
		return Allocation{}, nil
	}
	var single *RoomType
	for i := range types {
		if types[i].Capacity != 1 {
			continue
		}
		if single == nil || types[i].NightlyCost < single.NightlyCost {
			single = &types[i]
		}
	}
	if single == nil {
		return Allocation{}, fmt.Errorf("%w: no single-capacity room type for single-occupancy category", ErrConfiguration)
	}
	return Allocation{
		Breakdown: []Breakdown{{
			RoomType:    single.Label,
			Capacity:    1,
			Rooms:       headcount,
			People:      headcount,
			CostPerRoom: single.NightlyCost,
		}},
		Rooms: headcount,
	}, nil
}

// orderTypes applies the preference list, or falls back to descending capacity
// with cheaper-first and label tie-breaks so identical inputs always produce
// identical plans.
func orderTypes(types []RoomType, preferences []string) ([]RoomType, error) {
	if len(preferences) == 0 {
		ordered := make([]RoomType, len(types))
		copy(ordered, types)
		sort.SliceStable(ordered, func(i, j int) bool {
			if ordered[i].Capacity != ordered[j].Capacity {
				return ordered[i].Capacity > ordered[j].Capacity
			}
			if ordered[i].NightlyCost != ordered[j].NightlyCost {
				return ordered[i].NightlyCost < ordered[j].NightlyCost
			}
			return ordered[i].Label < ordered[j].Label
		})
		return ordered, nil
	}

	byLabel := make(map[string]RoomType, len(types))
	for _, rt := range types {
		byLabel[rt.Label] = rt
	}
	ordered := make([]RoomType, 0, len(preferences))
	seen := make(map[string]struct{}, len(preferences))
	for _, label := range preferences {
		rt, ok := byLabel[label]
		if !ok {
			return nil, fmt.Errorf("%w: preference %q does not match a configured room type", ErrValidation, label)
		}
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: duplicate preference %q", ErrValidation, label)
		}
		seen[label] = struct{}{}
		ordered = append(ordered, rt)
	}
	return ordered, nil
}

func allocateGreedy(headcount int, ordered []RoomType) Allocation {
	remaining := headcount
	counts := make([]int, len(ordered))
	people := make([]int, len(ordered))
	for i, rt := range ordered {
		if remaining <= 0 {
			break
		}
		n := remaining / rt.Capacity
		if n == 0 {
			continue
		}
		counts[i] = n
		people[i] = n * rt.Capacity
		remaining -= n * rt.Capacity
	}
	if remaining > 0 {
		// One extra room of the smallest type covers the leftover people. The
		// room is billed in full even when not filled.
		smallest := 0
		for i := range ordered {
			if ordered[i].Capacity < ordered[smallest].Capacity ||
				(ordered[i].Capacity == ordered[smallest].Capacity && ordered[i].NightlyCost < ordered[smallest].NightlyCost) {
				smallest = i
			}
		}
		counts[smallest]++
		people[smallest] += remaining
		remaining = 0
	}
	return buildAllocation(ordered, counts, people)
}

// allocateCheapest enumerates room-count combinations bounded per type by
// ceil(headcount/capacity), seeded with the greedy plan so the optimized cost
// can never regress. It reports false once the evaluation budget runs out.
func allocateCheapest(headcount int, ordered []RoomType, greedy Allocation, budget int) (Allocation, bool) {
	bestCost := greedy.NightlyCost()
	bestCounts := countsOf(ordered, greedy)
	bestRooms := greedy.Rooms
	evaluated := 0
	counts := make([]int, len(ordered))

	var walk func(idx, capacitySoFar int, costSoFar float64, roomsSoFar int) bool
	walk = func(idx, capacitySoFar int, costSoFar float64, roomsSoFar int) bool {
		if costSoFar > bestCost {
			return true
		}
		if capacitySoFar >= headcount {
			evaluated++
			if costSoFar < bestCost || (costSoFar == bestCost && roomsSoFar < bestRooms) {
				bestCost = costSoFar
				bestRooms = roomsSoFar
				copy(bestCounts, counts)
			}
			return evaluated < budget
		}
		if idx == len(ordered) {
			evaluated++
			return evaluated < budget
		}
		rt := ordered[idx]
		max := (headcount - capacitySoFar + rt.Capacity - 1) / rt.Capacity
		for n := 0; n <= max; n++ {
			counts[idx] = n
			ok := walk(idx+1, capacitySoFar+n*rt.Capacity, costSoFar+float64(n)*rt.NightlyCost, roomsSoFar+n)
			counts[idx] = 0
			if !ok {
				return false
			}
		}
		return true
	}

	completed := walk(0, 0, 0, 0)
	if !completed {
		return Allocation{}, false
	}

	people := distributePeople(ordered, bestCounts, headcount)
	return buildAllocation(ordered, bestCounts, people), true
}

func countsOf(ordered []RoomType, a Allocation) []int {
	counts := make([]int, len(ordered))
	for _, b := range a.Breakdown {
		for i, rt := range ordered {
			if rt.Label == b.RoomType {
				counts[i] = b.Rooms
			}
		}
	}
	return counts
}

// distributePeople fills the chosen rooms largest-capacity first so at most
// one room ends up partially occupied.
func distributePeople(ordered []RoomType, counts []int, headcount int) []int {
	people := make([]int, len(ordered))
	remaining := headcount
	idxs := make([]int, 0, len(ordered))
	for i := range ordered {
		if counts[i] > 0 {
			idxs = append(idxs, i)
		}
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return ordered[idxs[a]].Capacity > ordered[idxs[b]].Capacity
	})
	for _, i := range idxs {
		room := counts[i] * ordered[i].Capacity
		if room > remaining {
			room = remaining
		}
		people[i] = room
		remaining -= room
	}
	return people
}

func buildAllocation(ordered []RoomType, counts, people []int) Allocation {
	alloc := Allocation{}
	for i, rt := range ordered {
		if counts[i] == 0 {
			continue
		}
		alloc.Breakdown = append(alloc.Breakdown, Breakdown{
			RoomType:    rt.Label,
			Capacity:    rt.Capacity,
			Rooms:       counts[i],
			People:      people[i],
			CostPerRoom: rt.NightlyCost,
		})
		alloc.Rooms += counts[i]
	}
	return alloc
}
