package handler

import (
	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/internal/store"
	"github.com/skyscout/skyscout/pkg/currency"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// FlightView is a Flight plus display fields the UI renders directly.
type FlightView struct {
	models.Flight
	PriceFormatted string `json:"price_formatted"`
}

// SessionView is the wire form of a store snapshot.
type SessionView struct {
	Criteria       models.SearchCriteria `json:"criteria"`
	Filters        models.Filters        `json:"filters"`
	ReturnPriceMin float64               `json:"return_price_min"`
	ReturnPriceMax float64               `json:"return_price_max"`
	Sort           models.SortOption     `json:"sort"`
	HighlightedID  string                `json:"highlighted_id,omitempty"`
	Outbound       []FlightView          `json:"outbound"`
	Return         []FlightView          `json:"return,omitempty"`
	HasReturn      bool                  `json:"has_return"`
	Selection      store.Selection       `json:"selection"`
	Loading        bool                  `json:"loading"`
	Error          string                `json:"error,omitempty"`
	Generation     uint64                `json:"generation"`
}

func buildSessionView(snap store.Snapshot) SessionView {
	return SessionView{
		Criteria:       snap.Criteria,
		Filters:        snap.Filters,
		ReturnPriceMin: snap.ReturnPriceMin,
		ReturnPriceMax: snap.ReturnPriceMax,
		Sort:           snap.Sort,
		HighlightedID:  snap.HighlightedID,
		Outbound:       buildFlightViews(snap.Outbound),
		Return:         buildFlightViews(snap.Return),
		HasReturn:      snap.HasReturn,
		Selection:      snap.Selection,
		Loading:        snap.Loading,
		Error:          snap.Error,
		Generation:     snap.Generation,
	}
}

func buildFlightViews(flights []models.Flight) []FlightView {
	if flights == nil {
		return nil
	}
	views := make([]FlightView, len(flights))
	for i, f := range flights {
		views[i] = FlightView{Flight: f, PriceFormatted: currency.FormatUSD(f.Price)}
	}
	return views
}
