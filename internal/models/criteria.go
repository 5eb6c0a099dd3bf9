package models

type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
)

// MaxPassengers caps the total traveler count per search.
const MaxPassengers = 9

// SearchCriteria is the immutable snapshot of one search submission. It is
// replaced wholesale on every new search.
type SearchCriteria struct {
	Origin        *AirportLocation `json:"origin"`
	Destination   *AirportLocation `json:"destination"`
	DepartureDate string           `json:"departure_date"`
	ReturnDate    string           `json:"return_date,omitempty"`
	TripType      TripType         `json:"trip_type"`
	Adults        int              `json:"adults"`
	Children      int              `json:"children"`
	Infants       int              `json:"infants"`
}

// CriteriaPatch merges a partial edit into existing criteria. Nil fields
// are left untouched.
type CriteriaPatch struct {
	Origin        *AirportLocation `json:"origin,omitempty"`
	Destination   *AirportLocation `json:"destination,omitempty"`
	DepartureDate *string          `json:"departure_date,omitempty"`
	ReturnDate    *string          `json:"return_date,omitempty"`
	TripType      *TripType        `json:"trip_type,omitempty"`
	Adults        *int             `json:"adults,omitempty"`
	Children      *int             `json:"children,omitempty"`
	Infants       *int             `json:"infants,omitempty"`
}

// Merge returns a copy of c with the patch applied.
func (c SearchCriteria) Merge(p CriteriaPatch) SearchCriteria {
	if p.Origin != nil {
		c.Origin = p.Origin
	}
	if p.Destination != nil {
		c.Destination = p.Destination
	}
	if p.DepartureDate != nil {
		c.DepartureDate = *p.DepartureDate
	}
	if p.ReturnDate != nil {
		c.ReturnDate = *p.ReturnDate
	}
	if p.TripType != nil {
		c.TripType = *p.TripType
	}
	if p.Adults != nil {
		c.Adults = *p.Adults
	}
	if p.Children != nil {
		c.Children = *p.Children
	}
	if p.Infants != nil {
		c.Infants = *p.Infants
	}
	return c
}

func (c *SearchCriteria) Validate() error {
	if c.Origin == nil || c.Origin.IATACode == "" {
		return ErrMissingOrigin
	}
	if c.Destination == nil || c.Destination.IATACode == "" {
		return ErrMissingDestination
	}
	if c.DepartureDate == "" {
		return ErrMissingDepartureDate
	}
	if c.TripType == "" {
		if c.ReturnDate != "" {
			c.TripType = TripRoundTrip
		} else {
			c.TripType = TripOneWay
		}
	}
	if c.TripType == TripRoundTrip && c.ReturnDate == "" {
		return ErrMissingReturnDate
	}
	if c.Adults < 1 {
		return ErrNoAdults
	}
	if c.Children < 0 || c.Infants < 0 {
		return ErrNegativePassengers
	}
	if c.Infants > c.Adults {
		return ErrTooManyInfants
	}
	if c.Adults+c.Children+c.Infants > MaxPassengers {
		return ErrTooManyPassengers
	}
	return nil
}

// Passengers is the total traveler count across all categories.
func (c SearchCriteria) Passengers() int {
	return c.Adults + c.Children + c.Infants
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrMissingDepartureDate ValidationError = "departure_date is required"
	ErrMissingReturnDate    ValidationError = "return_date is required for round trips"
	ErrNoAdults             ValidationError = "at least one adult is required"
	ErrNegativePassengers   ValidationError = "passenger counts cannot be negative"
	ErrTooManyInfants       ValidationError = "infants cannot exceed adults"
	ErrTooManyPassengers    ValidationError = "at most 9 passengers per search"
)
