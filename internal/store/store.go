// Package store holds the per-session result state: search criteria, raw
// result sets for each leg, the current filter/sort selection, the derived
// views, and the round-trip selection workflow. Every action is atomic:
// derived views are recomputed before the mutex is released, so observers
// never see a view inconsistent with the raw data and criteria that
// produced it.
package store

import (
	"math"
	"sync"

	"github.com/skyscout/skyscout/internal/airports"
	"github.com/skyscout/skyscout/internal/filter"
	"github.com/skyscout/skyscout/internal/models"
)

// TripLeg is the round-trip selection pointer.
type TripLeg string

const (
	LegOutbound TripLeg = "outbound"
	LegReturn   TripLeg = "return"
)

// Selection is the round-trip selection state. Return is never non-nil
// while Outbound is nil.
type Selection struct {
	Leg      TripLeg        `json:"leg"`
	Outbound *models.Flight `json:"outbound,omitempty"`
	Return   *models.Flight `json:"return,omitempty"`
}

// Store is an explicit, constructible state container. Create one per
// browser session; the airport directory is shared across all of them.
type Store struct {
	mu sync.Mutex

	criteria    models.SearchCriteria
	rawOutbound []models.Flight
	rawReturn   []models.Flight
	hasReturn   bool

	filters models.Filters
	// The return leg keeps its own price bound: outbound and return price
	// scales can differ materially and must not share one.
	returnPriceMin float64
	returnPriceMax float64

	sortBy        models.SortOption
	highlightedID string
	selection     Selection

	outboundView []models.Flight
	returnView   []models.Flight

	loading    bool
	err        string
	generation uint64

	airports *airports.Directory

	subMu  sync.Mutex
	subSeq int
	subs   map[int]func(Snapshot)
}

// New returns an empty store with default filters and "best" sort. The
// directory may be shared between stores; pass nil to get a private one.
func New(dir *airports.Directory) *Store {
	if dir == nil {
		dir = airports.NewDirectory(airports.MaxEntries)
	}
	return &Store{
		criteria:       models.SearchCriteria{TripType: models.TripOneWay, Adults: 1},
		filters:        models.DefaultFilters(),
		returnPriceMin: 0,
		returnPriceMax: models.DefaultPriceRangeMax,
		sortBy:         models.SortBest,
		selection:      Selection{Leg: LegOutbound},
		subs:           make(map[int]func(Snapshot)),
		airports:       dir,
	}
}

// Airports exposes the shared airport directory.
func (s *Store) Airports() *airports.Directory {
	return s.airports
}

// Subscribe registers an observer invoked with a snapshot after every
// completed action. Callbacks run on the mutating goroutine, outside the
// store lock. The returned function removes the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subSeq++
	id := s.subSeq
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()
	s.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

// SetCriteria merges a partial edit into the current criteria. It touches
// nothing else; clearing stale results and selections is SubmitSearch's
// job.
func (s *Store) SetCriteria(patch models.CriteriaPatch) {
	s.mu.Lock()
	s.criteria = s.criteria.Merge(patch)
	s.mu.Unlock()
	s.notify()
}

// SubmitSearch replaces the criteria wholesale and resets everything a new
// search invalidates: raw sets, derived views, selections, and the last
// error. It returns the generation token for this dispatch; completions
// carrying a stale generation are discarded.
func (s *Store) SubmitSearch(criteria models.SearchCriteria) uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.criteria = criteria
	s.rawOutbound = nil
	s.rawReturn = nil
	s.hasReturn = false
	s.outboundView = nil
	s.returnView = nil
	s.highlightedID = ""
	s.selection = Selection{Leg: LegOutbound}
	s.err = ""
	s.loading = true
	s.mu.Unlock()
	s.notify()
	return gen
}

// Generation returns the token of the most recent search dispatch.
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// SetFlights replaces the raw outbound set for the given search
// generation. The price bound is recomputed from the new set and the
// derived view rebuilt; any previous error is cleared. Stale generations
// are ignored.
func (s *Store) SetFlights(gen uint64, flights []models.Flight) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.rawOutbound = append([]models.Flight(nil), flights...)
	s.filters.PriceMin, s.filters.PriceMax = priceBounds(s.rawOutbound)
	s.err = ""
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetReturnFlights replaces the raw return set. The return leg's price
// bound is computed independently from the return set.
func (s *Store) SetReturnFlights(gen uint64, flights []models.Flight) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.rawReturn = append([]models.Flight(nil), flights...)
	s.hasReturn = true
	s.returnPriceMin, s.returnPriceMax = priceBounds(s.rawReturn)
	s.err = ""
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetFilters merges a partial filter edit and rebuilds both derived views.
func (s *Store) SetFilters(patch models.FilterPatch) {
	s.mu.Lock()
	s.filters = s.filters.Merge(patch)
	if patch.PriceMin != nil {
		s.returnPriceMin = *patch.PriceMin
	}
	if patch.PriceMax != nil {
		s.returnPriceMax = *patch.PriceMax
	}
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// ResetFilters restores default filters with price bounds recomputed from
// each leg's raw set.
func (s *Store) ResetFilters() {
	s.mu.Lock()
	s.filters = models.DefaultFilters()
	s.filters.PriceMin, s.filters.PriceMax = priceBounds(s.rawOutbound)
	s.returnPriceMin, s.returnPriceMax = priceBounds(s.rawReturn)
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

func (s *Store) SetSort(sortBy models.SortOption) {
	s.mu.Lock()
	s.sortBy = sortBy
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SetHighlighted reorders the derived views so the given flight leads.
// Pass "" to clear. Filtering is untouched.
func (s *Store) SetHighlighted(id string) {
	s.mu.Lock()
	s.highlightedID = id
	s.recompute()
	s.mu.Unlock()
	s.notify()
}

// SelectOutbound records the outbound choice and advances the leg pointer
// to the return leg. For one-way searches the pointer advance is inert:
// no return set ever exists.
func (s *Store) SelectOutbound(f models.Flight) {
	s.mu.Lock()
	s.selection.Outbound = &f
	s.selection.Leg = LegReturn
	s.mu.Unlock()
	s.notify()
}

// SelectReturn records the return choice. Without a prior outbound
// selection this is a no-op: a return selection must never exist on its
// own.
func (s *Store) SelectReturn(f models.Flight) {
	s.mu.Lock()
	if s.selection.Outbound == nil {
		s.mu.Unlock()
		return
	}
	s.selection.Return = &f
	s.mu.Unlock()
	s.notify()
}

// SelectOutboundByID selects the outbound flight with the given id from
// the raw outbound set. Returns false when no such flight exists.
func (s *Store) SelectOutboundByID(id string) bool {
	s.mu.Lock()
	f, ok := findByID(s.rawOutbound, id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.selection.Outbound = &f
	s.selection.Leg = LegReturn
	s.mu.Unlock()
	s.notify()
	return true
}

// SelectReturnByID selects the return flight with the given id from the
// raw return set. Returns false when no such flight exists or no outbound
// selection is in place.
func (s *Store) SelectReturnByID(id string) bool {
	s.mu.Lock()
	if s.selection.Outbound == nil {
		s.mu.Unlock()
		return false
	}
	f, ok := findByID(s.rawReturn, id)
	if !ok {
		s.mu.Unlock()
		return false
	}
	s.selection.Return = &f
	s.mu.Unlock()
	s.notify()
	return true
}

// DeselectOutbound clears both selections and drops the fetched return
// set: return flights were searched against the outbound's route/date
// pairing, so they do not survive its removal.
func (s *Store) DeselectOutbound() {
	s.mu.Lock()
	s.selection = Selection{Leg: LegOutbound}
	s.rawReturn = nil
	s.hasReturn = false
	s.returnView = nil
	s.returnPriceMin = 0
	s.returnPriceMax = models.DefaultPriceRangeMax
	s.mu.Unlock()
	s.notify()
}

// DeselectReturn clears only the return selection; the outbound selection
// and the fetched return set remain.
func (s *Store) DeselectReturn() {
	s.mu.Lock()
	s.selection.Return = nil
	s.mu.Unlock()
	s.notify()
}

// ClearSelections is DeselectOutbound under the name the search-submission
// path uses.
func (s *Store) ClearSelections() {
	s.DeselectOutbound()
}

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	s.loading = loading
	s.mu.Unlock()
	s.notify()
}

// SetError records a failure reported by a collaborator and forces loading
// off: an error always terminates an in-flight operation from the store's
// point of view. Pass "" to clear.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// FinishSearch turns the loading flag off, but only for the search
// generation that set it.
func (s *Store) FinishSearch(gen uint64) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// FailSearch is SetError guarded by a generation token, for async search
// completions that may have been superseded.
func (s *Store) FailSearch(gen uint64, msg string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.err = msg
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// recompute rebuilds both derived views from scratch. Callers hold the
// mutex.
func (s *Store) recompute() {
	s.outboundView = filter.WithHighlight(filter.Apply(s.rawOutbound, s.filters, s.sortBy), s.highlightedID)

	if !s.hasReturn {
		s.returnView = nil
		return
	}
	returnFilters := s.filters
	returnFilters.PriceMin = s.returnPriceMin
	returnFilters.PriceMax = s.returnPriceMax
	s.returnView = filter.WithHighlight(filter.Apply(s.rawReturn, returnFilters, s.sortBy), s.highlightedID)
}

// priceBounds floors/ceils the set's min/max price to the nearest 10, or
// [0, DefaultPriceRangeMax] for an empty set.
func priceBounds(flights []models.Flight) (float64, float64) {
	if len(flights) == 0 {
		return 0, models.DefaultPriceRangeMax
	}
	min, max := flights[0].Price, flights[0].Price
	for _, f := range flights[1:] {
		if f.Price < min {
			min = f.Price
		}
		if f.Price > max {
			max = f.Price
		}
	}
	return math.Floor(min/10) * 10, math.Ceil(max/10) * 10
}

func findByID(flights []models.Flight, id string) (models.Flight, bool) {
	for _, f := range flights {
		if f.ID == id {
			return f, true
		}
	}
	return models.Flight{}, false
}
