package store

import "github.com/skyscout/skyscout/internal/models"

// Snapshot is the presentation-facing read model: derived views, current
// criteria and filter/sort selection, selections, loading flag, and last
// error. Slices are copies; mutating a snapshot never touches the store.
type Snapshot struct {
	Criteria       models.SearchCriteria `json:"criteria"`
	Filters        models.Filters        `json:"filters"`
	ReturnPriceMin float64               `json:"return_price_min"`
	ReturnPriceMax float64               `json:"return_price_max"`
	Sort           models.SortOption     `json:"sort"`
	HighlightedID  string                `json:"highlighted_id,omitempty"`
	Outbound       []models.Flight       `json:"outbound"`
	Return         []models.Flight       `json:"return,omitempty"`
	HasReturn      bool                  `json:"has_return"`
	Selection      Selection             `json:"selection"`
	Loading        bool                  `json:"loading"`
	Error          string                `json:"error,omitempty"`
	Generation     uint64                `json:"generation"`
}

// Snapshot returns a consistent copy of the store's observable state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Criteria:       s.criteria,
		Filters:        s.filters,
		ReturnPriceMin: s.returnPriceMin,
		ReturnPriceMax: s.returnPriceMax,
		Sort:           s.sortBy,
		HighlightedID:  s.highlightedID,
		Outbound:       append([]models.Flight(nil), s.outboundView...),
		HasReturn:      s.hasReturn,
		Loading:        s.loading,
		Error:          s.err,
		Generation:     s.generation,
	}
	if s.hasReturn {
		snap.Return = append([]models.Flight(nil), s.returnView...)
	}

	snap.Selection.Leg = s.selection.Leg
	if s.selection.Outbound != nil {
		f := *s.selection.Outbound
		snap.Selection.Outbound = &f
	}
	if s.selection.Return != nil {
		f := *s.selection.Return
		snap.Selection.Return = &f
	}
	snap.Filters.Airlines = append(s.filters.Airlines[:0:0], s.filters.Airlines...)
	snap.Filters.DepartureBuckets = append(s.filters.DepartureBuckets[:0:0], s.filters.DepartureBuckets...)
	return snap
}
