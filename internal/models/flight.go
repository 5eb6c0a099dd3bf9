package models

// Leg is one directional segment bundle of an offer: the wall-clock
// departure/arrival timestamps as returned by the provider and the total
// duration in minutes.
type Leg struct {
	Departure string `json:"departure"`
	Arrival   string `json:"arrival"`
	Duration  int    `json:"duration_minutes"`
}

// Flight is an immutable value record for a single offer in one search
// response. Times are local wall-clock, zero-padded "HH:MM"; Price is the
// per-passenger total in the provider currency.
type Flight struct {
	ID            string   `json:"id"`
	Airline       string   `json:"airline"`
	AirlineCode   string   `json:"airline_code"`
	Price         float64  `json:"price"`
	Currency      string   `json:"currency"`
	DepartureTime string   `json:"departure_time"`
	ArrivalTime   string   `json:"arrival_time"`
	Duration      int      `json:"duration_minutes"`
	Stops         int      `json:"stops"`
	StopCities    []string `json:"stop_cities,omitempty"`
	Outbound      Leg      `json:"outbound"`
	// Inbound is set only when the provider bundled a round-trip fare in
	// one offer. The two-leg selection flow fetches legs separately and
	// never reads it.
	Inbound *Leg `json:"inbound,omitempty"`
}

// AirportLocation is a candidate airport or city returned by the location
// search. IATACode is the canonical 3-letter uppercase identifier.
type AirportLocation struct {
	IATACode    string `json:"iata_code"`
	Name        string `json:"name"`
	CityName    string `json:"city_name"`
	CountryCode string `json:"country_code"`
	CountryName string `json:"country_name"`
}
