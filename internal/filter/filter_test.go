package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyscout/skyscout/internal/filter"
	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/internal/timeofday"
)

func flight(id string, price float64, duration, stops int, departure, airline string) models.Flight {
	return models.Flight{
		ID:            id,
		Airline:       airline,
		Price:         price,
		DepartureTime: departure,
		Duration:      duration,
		Stops:         stops,
	}
}

func openFilters() models.Filters {
	return models.Filters{Stops: models.StopsAny, PriceMin: 0, PriceMax: 100000}
}

func ids(flights []models.Flight) []string {
	out := make([]string, len(flights))
	for i, f := range flights {
		out[i] = f.ID
	}
	return out
}

func TestApply_EmptyInput(t *testing.T) {
	got := filter.Apply(nil, openFilters(), models.SortBest)
	assert.Empty(t, got)
}

func TestApply_DirectStopsWithBestOrder(t *testing.T) {
	flights := []models.Flight{
		flight("a", 300, 120, 0, "08:00", "Garuda"),
		flight("b", 200, 300, 1, "09:00", "Garuda"),
		flight("c", 150, 600, 2, "10:00", "Garuda"),
		flight("d", 250, 100, 0, "11:00", "Garuda"),
	}

	f := openFilters()
	f.Stops = models.StopsNonStop
	got := filter.Apply(flights, f, models.SortBest)

	// d: 250 + 0.5*100 = 300; a: 300 + 0.5*120 = 360.
	assert.Equal(t, []string{"d", "a"}, ids(got))
}

func TestApply_StopBuckets(t *testing.T) {
	flights := []models.Flight{
		flight("direct", 100, 60, 0, "08:00", "A"),
		flight("one", 100, 60, 1, "08:00", "A"),
		flight("two", 100, 60, 2, "08:00", "A"),
		flight("three", 100, 60, 3, "08:00", "A"),
	}

	cases := []struct {
		stops models.StopFilter
		want  []string
	}{
		{models.StopsAny, []string{"direct", "one", "two", "three"}},
		{models.StopsNonStop, []string{"direct"}},
		{models.StopsAtMost1, []string{"direct", "one"}},
		{models.StopsTwoPlus, []string{"two", "three"}},
	}

	for _, tc := range cases {
		f := openFilters()
		f.Stops = tc.stops
		got := filter.Apply(flights, f, models.SortBest)
		assert.Equal(t, tc.want, ids(got), "stops=%s", tc.stops)
	}
}

func TestApply_CheapestSort(t *testing.T) {
	flights := []models.Flight{
		flight("a", 300, 60, 0, "08:00", "A"),
		flight("b", 150, 60, 0, "09:00", "A"),
		flight("c", 420, 60, 0, "10:00", "A"),
	}

	got := filter.Apply(flights, openFilters(), models.SortCheapest)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"b", "a", "c"}, ids(got))
}

func TestApply_PriceRangeInclusiveBothEnds(t *testing.T) {
	flights := []models.Flight{
		flight("low", 100, 60, 0, "08:00", "A"),
		flight("mid", 500, 60, 0, "09:00", "A"),
		flight("high", 999, 60, 0, "10:00", "A"),
	}

	f := openFilters()
	f.PriceMin, f.PriceMax = 0, 500
	got := filter.Apply(flights, f, models.SortCheapest)
	assert.Equal(t, []string{"low", "mid"}, ids(got))

	f.PriceMin, f.PriceMax = 0, 1000
	got = filter.Apply(flights, f, models.SortCheapest)
	assert.Equal(t, []string{"low", "mid", "high"}, ids(got))

	// Both boundaries are inclusive.
	f.PriceMin, f.PriceMax = 100, 999
	got = filter.Apply(flights, f, models.SortCheapest)
	assert.Equal(t, []string{"low", "mid", "high"}, ids(got))
}

func TestApply_AirlineFilterExactMatch(t *testing.T) {
	flights := []models.Flight{
		flight("a", 100, 60, 0, "08:00", "Garuda Indonesia"),
		flight("b", 100, 60, 0, "09:00", "Singapore Airlines"),
		flight("c", 100, 60, 0, "10:00", "Garuda"),
	}

	f := openFilters()
	f.Airlines = []string{"Garuda Indonesia"}
	got := filter.Apply(flights, f, models.SortEarliest)

	assert.Equal(t, []string{"a"}, ids(got))
}

func TestApply_EmptyAirlineSetMeansAll(t *testing.T) {
	flights := []models.Flight{
		flight("a", 100, 60, 0, "08:00", "X"),
		flight("b", 100, 60, 0, "09:00", "Y"),
	}

	got := filter.Apply(flights, openFilters(), models.SortEarliest)
	assert.Len(t, got, 2)
}

func TestApply_DepartureBucketFilter(t *testing.T) {
	flights := []models.Flight{
		flight("night", 100, 60, 0, "03:30", "A"),
		flight("morning", 100, 60, 0, "08:00", "A"),
		flight("afternoon", 100, 60, 0, "13:45", "A"),
		flight("evening", 100, 60, 0, "21:10", "A"),
	}

	f := openFilters()
	f.DepartureBuckets = []timeofday.Bucket{timeofday.Morning, timeofday.Evening}
	got := filter.Apply(flights, f, models.SortEarliest)

	assert.Equal(t, []string{"morning", "evening"}, ids(got))
}

func TestApply_Idempotent(t *testing.T) {
	flights := []models.Flight{
		flight("a", 300, 120, 1, "08:00", "X"),
		flight("b", 200, 300, 0, "22:00", "Y"),
		flight("c", 150, 600, 2, "10:00", "X"),
	}
	f := openFilters()
	f.Stops = models.StopsAtMost1

	for _, sortBy := range []models.SortOption{
		models.SortBest, models.SortCheapest, models.SortFastest,
		models.SortEarliest, models.SortLatest,
	} {
		once := filter.Apply(flights, f, sortBy)
		twice := filter.Apply(once, f, sortBy)
		assert.Equal(t, once, twice, "sort=%s", sortBy)
	}
}

func TestApply_StableForEqualKeys(t *testing.T) {
	// All sort keys equal; input order must survive every sort option.
	flights := []models.Flight{
		flight("first", 200, 120, 0, "08:00", "A"),
		flight("second", 200, 120, 0, "08:00", "B"),
		flight("third", 200, 120, 0, "08:00", "C"),
	}

	for _, sortBy := range []models.SortOption{
		models.SortBest, models.SortCheapest, models.SortFastest,
		models.SortEarliest, models.SortLatest,
	} {
		got := filter.Apply(flights, openFilters(), sortBy)
		assert.Equal(t, []string{"first", "second", "third"}, ids(got), "sort=%s", sortBy)
	}
}

func TestApply_PriceMonotonicity(t *testing.T) {
	flights := []models.Flight{
		flight("a", 120, 60, 0, "08:00", "A"),
		flight("b", 340, 60, 0, "09:00", "A"),
		flight("c", 560, 60, 0, "10:00", "A"),
		flight("d", 780, 60, 0, "11:00", "A"),
	}

	narrow := openFilters()
	narrow.PriceMin, narrow.PriceMax = 300, 600
	wide := openFilters()
	wide.PriceMin, wide.PriceMax = 100, 800

	narrowIDs := ids(filter.Apply(flights, narrow, models.SortCheapest))
	wideIDs := ids(filter.Apply(flights, wide, models.SortCheapest))

	wideSet := make(map[string]bool, len(wideIDs))
	for _, id := range wideIDs {
		wideSet[id] = true
	}
	for _, id := range narrowIDs {
		assert.True(t, wideSet[id], "flight %s in narrow range but not wide", id)
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	flights := []models.Flight{
		flight("z", 420, 60, 0, "10:00", "A"),
		flight("a", 150, 60, 0, "08:00", "A"),
	}

	_ = filter.Apply(flights, openFilters(), models.SortCheapest)

	assert.Equal(t, "z", flights[0].ID)
	assert.Equal(t, "a", flights[1].ID)
}

func TestApply_FastestAndLatestSorts(t *testing.T) {
	flights := []models.Flight{
		flight("a", 100, 300, 0, "06:00", "A"),
		flight("b", 100, 120, 0, "23:00", "A"),
		flight("c", 100, 200, 0, "12:30", "A"),
	}

	got := filter.Apply(flights, openFilters(), models.SortFastest)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))

	got = filter.Apply(flights, openFilters(), models.SortLatest)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))

	got = filter.Apply(flights, openFilters(), models.SortEarliest)
	assert.Equal(t, []string{"a", "c", "b"}, ids(got))
}
