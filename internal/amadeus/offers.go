package amadeus

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"github.com/skyscout/skyscout/internal/models"
)

const offersLimit = "50"

// FlightQuery is one flight-offers call, one direction per call in the
// two-leg flow. Inputs are assumed validated by the caller.
type FlightQuery struct {
	Origin        string
	Destination   string
	DepartureDate string
	ReturnDate    string
	Adults        int
	Children      int
	Infants       int
}

type offersResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Itineraries []struct {
			Duration string `json:"duration"`
			Segments []struct {
				CarrierCode string `json:"carrierCode"`
				Departure   struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"departure"`
				Arrival struct {
					IATACode string `json:"iataCode"`
					At       string `json:"at"`
				} `json:"arrival"`
			} `json:"segments"`
		} `json:"itineraries"`
		Price struct {
			Total    string `json:"total"`
			Currency string `json:"currency"`
		} `json:"price"`
	} `json:"data"`
	Dictionaries struct {
		Carriers map[string]string `json:"carriers"`
	} `json:"dictionaries"`
}

// SearchFlights runs a flight-offers search and maps the response to the
// app's flight records. An empty offer list is a valid result, not an
// error.
func (c *Client) SearchFlights(ctx context.Context, q FlightQuery) ([]models.Flight, error) {
	query := url.Values{
		"originLocationCode":      {q.Origin},
		"destinationLocationCode": {q.Destination},
		"departureDate":           {q.DepartureDate},
		"adults":                  {strconv.Itoa(q.Adults)},
		"max":                     {offersLimit},
		"currencyCode":            {"USD"},
	}
	if q.ReturnDate != "" {
		query.Set("returnDate", q.ReturnDate)
	}
	if q.Children > 0 {
		query.Set("children", strconv.Itoa(q.Children))
	}
	if q.Infants > 0 {
		query.Set("infants", strconv.Itoa(q.Infants))
	}

	var resp offersResponse
	if err := c.get(ctx, endpointFlights, "/v2/shopping/flight-offers", query, &resp); err != nil {
		return nil, err
	}

	c.log.Debug("flight offers fetched",
		"origin", q.Origin, "destination", q.Destination, "count", len(resp.Data))

	flights := make([]models.Flight, 0, len(resp.Data))
	for _, offer := range resp.Data {
		if len(offer.Itineraries) == 0 || len(offer.Itineraries[0].Segments) == 0 {
			continue
		}
		outbound := offer.Itineraries[0]
		first := outbound.Segments[0]
		last := outbound.Segments[len(outbound.Segments)-1]

		// Intermediate stops: every segment arrival except the final one.
		var stopCities []string
		for _, seg := range outbound.Segments[:len(outbound.Segments)-1] {
			stopCities = append(stopCities, seg.Arrival.IATACode)
		}

		airlineName := resp.Dictionaries.Carriers[first.CarrierCode]
		if airlineName == "" {
			airlineName = first.CarrierCode
		}

		price, err := strconv.ParseFloat(offer.Price.Total, 64)
		if err != nil {
			continue
		}

		f := models.Flight{
			ID:            offer.ID,
			Airline:       airlineName,
			AirlineCode:   first.CarrierCode,
			Price:         price,
			Currency:      offer.Price.Currency,
			DepartureTime: clockTime(first.Departure.At),
			ArrivalTime:   clockTime(last.Arrival.At),
			Duration:      parseISODuration(outbound.Duration),
			Stops:         len(outbound.Segments) - 1,
			StopCities:    stopCities,
			Outbound: models.Leg{
				Departure: first.Departure.At,
				Arrival:   last.Arrival.At,
				Duration:  parseISODuration(outbound.Duration),
			},
		}

		// Providers sometimes bundle a round-trip fare into one offer.
		// Kept for completeness; the two-leg flow fetches legs separately.
		if len(offer.Itineraries) > 1 && len(offer.Itineraries[1].Segments) > 0 {
			inbound := offer.Itineraries[1]
			f.Inbound = &models.Leg{
				Departure: inbound.Segments[0].Departure.At,
				Arrival:   inbound.Segments[len(inbound.Segments)-1].Arrival.At,
				Duration:  parseISODuration(inbound.Duration),
			}
		}

		flights = append(flights, f)
	}
	return flights, nil
}

var isoDurationPattern = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?`)

// parseISODuration converts an ISO-8601 duration like "PT8H25M" to
// minutes. Unparseable input yields 0.
func parseISODuration(iso string) int {
	m := isoDurationPattern.FindStringSubmatch(iso)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

// clockTime extracts the zero-padded "HH:MM" wall-clock portion of a
// local timestamp like "2026-09-04T08:35:00".
func clockTime(at string) string {
	for i := 0; i < len(at); i++ {
		if at[i] == 'T' {
			if i+6 <= len(at) {
				return at[i+1 : i+6]
			}
			break
		}
	}
	return ""
}
