package models

import "github.com/skyscout/skyscout/internal/timeofday"

// StopFilter constrains results by stop count.
type StopFilter string

const (
	StopsAny     StopFilter = "any"
	StopsNonStop StopFilter = "direct" // exactly 0 stops
	StopsAtMost1 StopFilter = "1"      // 0 or 1 stop
	StopsTwoPlus StopFilter = "2+"     // 2 or more stops
)

type SortOption string

const (
	SortBest     SortOption = "best"
	SortCheapest SortOption = "cheapest"
	SortFastest  SortOption = "fastest"
	SortEarliest SortOption = "earliest"
	SortLatest   SortOption = "latest"
)

func (s SortOption) Valid() bool {
	switch s {
	case SortBest, SortCheapest, SortFastest, SortEarliest, SortLatest:
		return true
	}
	return false
}

// DefaultPriceRangeMax is the upper price bound used before any results
// have arrived (or when a result set is empty).
const DefaultPriceRangeMax = 1000

// Filters is the current filter selection for a results session. The price
// range is inclusive at both ends. Empty Airlines/DepartureBuckets mean
// "all".
type Filters struct {
	Stops            StopFilter         `json:"stops"`
	PriceMin         float64            `json:"price_min"`
	PriceMax         float64            `json:"price_max"`
	Airlines         []string           `json:"airlines"`
	DepartureBuckets []timeofday.Bucket `json:"departure_buckets"`
}

// FilterPatch merges a partial filter edit. Nil fields are left untouched.
type FilterPatch struct {
	Stops            *StopFilter         `json:"stops,omitempty"`
	PriceMin         *float64            `json:"price_min,omitempty"`
	PriceMax         *float64            `json:"price_max,omitempty"`
	Airlines         *[]string           `json:"airlines,omitempty"`
	DepartureBuckets *[]timeofday.Bucket `json:"departure_buckets,omitempty"`
}

// DefaultFilters returns the open filter selection: any stops, all
// airlines, all departure buckets, price range [0, DefaultPriceRangeMax].
func DefaultFilters() Filters {
	return Filters{
		Stops:    StopsAny,
		PriceMin: 0,
		PriceMax: DefaultPriceRangeMax,
	}
}

// Merge returns a copy of f with the patch applied.
func (f Filters) Merge(p FilterPatch) Filters {
	if p.Stops != nil {
		f.Stops = *p.Stops
	}
	if p.PriceMin != nil {
		f.PriceMin = *p.PriceMin
	}
	if p.PriceMax != nil {
		f.PriceMax = *p.PriceMax
	}
	if p.Airlines != nil {
		f.Airlines = append([]string(nil), (*p.Airlines)...)
	}
	if p.DepartureBuckets != nil {
		f.DepartureBuckets = append([]timeofday.Bucket(nil), (*p.DepartureBuckets)...)
	}
	return f
}
