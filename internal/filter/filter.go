// Package filter is the pure filter/sort engine for flight result views.
package filter

import (
	"sort"

	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/internal/ranking"
	"github.com/skyscout/skyscout/internal/timeofday"
)

// Apply produces the ordered view for one raw result set: stop, price,
// airline and time-of-day filters followed by a stable sort for the given
// option. The input slice is never mutated; applying the same criteria to
// its own output yields an identical result.
func Apply(flights []models.Flight, filters models.Filters, sortBy models.SortOption) []models.Flight {
	result := make([]models.Flight, 0, len(flights))
	for _, f := range flights {
		if matches(f, filters) {
			result = append(result, f)
		}
	}
	applySort(result, sortBy)
	return result
}

func matches(f models.Flight, filters models.Filters) bool {
	switch filters.Stops {
	case models.StopsNonStop:
		if f.Stops != 0 {
			return false
		}
	case models.StopsAtMost1:
		if f.Stops > 1 {
			return false
		}
	case models.StopsTwoPlus:
		if f.Stops < 2 {
			return false
		}
	}

	if f.Price < filters.PriceMin || f.Price > filters.PriceMax {
		return false
	}

	if len(filters.Airlines) > 0 {
		found := false
		for _, airline := range filters.Airlines {
			if f.Airline == airline {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(filters.DepartureBuckets) > 0 {
		bucket, ok := timeofday.Of(f.DepartureTime)
		if !ok {
			return false
		}
		found := false
		for _, b := range filters.DepartureBuckets {
			if b == bucket {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// applySort orders flights in place. Sorts are stable so that equal-key
// flights retain their input order.
func applySort(flights []models.Flight, sortBy models.SortOption) {
	switch sortBy {
	case models.SortCheapest:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Price < flights[j].Price
		})

	case models.SortFastest:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].Duration < flights[j].Duration
		})

	case models.SortEarliest:
		// Zero-padded 24-hour times order lexicographically.
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].DepartureTime < flights[j].DepartureTime
		})

	case models.SortLatest:
		sort.SliceStable(flights, func(i, j int) bool {
			return flights[i].DepartureTime > flights[j].DepartureTime
		})

	default: // SortBest
		sort.SliceStable(flights, func(i, j int) bool {
			return ranking.Score(flights[i]) < ranking.Score(flights[j])
		})
	}
}
