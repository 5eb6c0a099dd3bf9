package amadeus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"

	"github.com/skyscout/skyscout/internal/models"
)

const (
	// MinKeywordLength and MaxKeywordLength bound free-text airport
	// queries before they reach the provider.
	MinKeywordLength = 2
	MaxKeywordLength = 100

	locationsPageLimit = "100"
)

var keywordPattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-']+$`)

// ValidKeyword reports whether a keyword is worth sending to the provider.
func ValidKeyword(keyword string) bool {
	if len(keyword) < MinKeywordLength || len(keyword) > MaxKeywordLength {
		return false
	}
	return keywordPattern.MatchString(keyword)
}

type locationsResponse struct {
	Data []struct {
		IATACode string `json:"iataCode"`
		Name     string `json:"name"`
		Address  struct {
			CityName    string `json:"cityName"`
			CountryCode string `json:"countryCode"`
			CountryName string `json:"countryName"`
		} `json:"address"`
	} `json:"data"`
}

// SearchAirports returns candidate airports and cities for a free-text
// keyword. Too-short or malformed keywords yield an empty result, not an
// error; so does a provider response with no matches.
func (c *Client) SearchAirports(ctx context.Context, keyword string) ([]models.AirportLocation, error) {
	if !ValidKeyword(keyword) {
		return nil, nil
	}

	query := url.Values{
		"subType":     {"AIRPORT,CITY"},
		"keyword":     {keyword},
		"page[limit]": {locationsPageLimit},
	}

	var resp locationsResponse
	if err := c.get(ctx, endpointAirports, "/v1/reference-data/locations", query, &resp); err != nil {
		return nil, err
	}

	results := make([]models.AirportLocation, 0, len(resp.Data))
	for _, loc := range resp.Data {
		cityName := loc.Address.CityName
		if cityName == "" {
			cityName = loc.Name
		}
		results = append(results, models.AirportLocation{
			IATACode:    loc.IATACode,
			Name:        loc.Name,
			CityName:    cityName,
			CountryCode: loc.Address.CountryCode,
			CountryName: loc.Address.CountryName,
		})
	}
	return results, nil
}

func decodeJSON(resp *http.Response, out interface{}) error {
	return json.NewDecoder(resp.Body).Decode(out)
}
