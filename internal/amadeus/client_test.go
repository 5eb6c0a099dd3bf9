package amadeus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyscout/skyscout/internal/amadeus"
	"github.com/skyscout/skyscout/internal/ratelimit"
)

const (
	tokenBody = `{"access_token":"test-token","expires_in":1799}`

	locationsBody = `{
		"data": [
			{"iataCode": "CGK", "name": "SOEKARNO-HATTA INTL",
			 "address": {"cityName": "JAKARTA", "countryCode": "ID", "countryName": "INDONESIA"}},
			{"iataCode": "JKT", "name": "JAKARTA",
			 "address": {"countryCode": "ID", "countryName": "INDONESIA"}}
		]
	}`

	offersBody = `{
		"data": [
			{
				"id": "1",
				"itineraries": [{
					"duration": "PT8H25M",
					"segments": [
						{"carrierCode": "GA",
						 "departure": {"iataCode": "CGK", "at": "2026-09-04T08:35:00"},
						 "arrival": {"iataCode": "SIN", "at": "2026-09-04T11:20:00"}},
						{"carrierCode": "GA",
						 "departure": {"iataCode": "SIN", "at": "2026-09-04T13:00:00"},
						 "arrival": {"iataCode": "NRT", "at": "2026-09-04T17:00:00"}}
					]
				}],
				"price": {"total": "645.50", "currency": "USD"}
			},
			{
				"id": "2",
				"itineraries": [],
				"price": {"total": "100.00", "currency": "USD"}
			},
			{
				"id": "3",
				"itineraries": [{
					"duration": "PT7H",
					"segments": [
						{"carrierCode": "ZZ",
						 "departure": {"iataCode": "CGK", "at": "2026-09-04T22:05:00"},
						 "arrival": {"iataCode": "NRT", "at": "2026-09-05T06:05:00"}}
					]
				}],
				"price": {"total": "not-a-number", "currency": "USD"}
			}
		],
		"dictionaries": {"carriers": {"GA": "GARUDA INDONESIA"}}
	}`

	roundTripOfferBody = `{
		"data": [{
			"id": "rt-1",
			"itineraries": [
				{"duration": "PT3H", "segments": [
					{"carrierCode": "SQ",
					 "departure": {"iataCode": "SIN", "at": "2026-09-04T09:00:00"},
					 "arrival": {"iataCode": "CGK", "at": "2026-09-04T10:45:00"}}
				]},
				{"duration": "PT2H50M", "segments": [
					{"carrierCode": "SQ",
					 "departure": {"iataCode": "CGK", "at": "2026-09-11T18:00:00"},
					 "arrival": {"iataCode": "SIN", "at": "2026-09-11T20:50:00"}}
				]}
			],
			"price": {"total": "412.00", "currency": "USD"}
		}],
		"dictionaries": {"carriers": {"SQ": "SINGAPORE AIRLINES"}}
	}`
)

// openLimiter never throttles; rate-limit behavior is tested separately.
func openLimiter() *ratelimit.EndpointLimiter {
	return ratelimit.NewEndpointLimiter(ratelimit.Config{RequestsPerSecond: 1000, BurstSize: 1000})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *amadeus.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return amadeus.NewClient(amadeus.Config{
		BaseURL:      srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	}, openLimiter(), nil)
}

func TestAccessToken_CachedAcrossCalls(t *testing.T) {
	var tokenCalls int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			atomic.AddInt64(&tokenCalls, 1)
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
			w.Write([]byte(tokenBody))
		case "/v1/reference-data/locations":
			assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"data":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	ctx := context.Background()
	_, err := client.SearchAirports(ctx, "jakarta")
	require.NoError(t, err)
	_, err = client.SearchAirports(ctx, "jakarta")
	require.NoError(t, err)

	assert.Equal(t, int64(1), atomic.LoadInt64(&tokenCalls))
}

func TestSearchAirports_MissingCredentials(t *testing.T) {
	client := amadeus.NewClient(amadeus.Config{BaseURL: "http://127.0.0.1:0"}, openLimiter(), nil)

	_, err := client.SearchAirports(context.Background(), "jakarta")
	assert.ErrorIs(t, err, amadeus.ErrMissingCredentials)
}

func TestSearchAirports_MapsResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		case "/v1/reference-data/locations":
			assert.Equal(t, "jakarta", r.URL.Query().Get("keyword"))
			assert.Equal(t, "AIRPORT,CITY", r.URL.Query().Get("subType"))
			w.Write([]byte(locationsBody))
		}
	})

	got, err := client.SearchAirports(context.Background(), "jakarta")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "CGK", got[0].IATACode)
	assert.Equal(t, "JAKARTA", got[0].CityName)
	assert.Equal(t, "ID", got[0].CountryCode)

	// No cityName in the address block falls back to the location name.
	assert.Equal(t, "JAKARTA", got[1].CityName)
}

func TestSearchAirports_InvalidKeywordShortCircuits(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected, got %s", r.URL.Path)
	})

	for _, keyword := range []string{"", "a", "ja<karta", "city; drop"} {
		got, err := client.SearchAirports(context.Background(), keyword)
		assert.NoError(t, err, keyword)
		assert.Empty(t, got, keyword)
	}
}

func TestValidKeyword(t *testing.T) {
	assert.True(t, amadeus.ValidKeyword("new york"))
	assert.True(t, amadeus.ValidKeyword("o'hare"))
	assert.True(t, amadeus.ValidKeyword("tel-aviv"))
	assert.False(t, amadeus.ValidKeyword("x"))
	assert.False(t, amadeus.ValidKeyword("tōkyō"))
	assert.False(t, amadeus.ValidKeyword(string(make([]byte, amadeus.MaxKeywordLength+1))))
}

func TestSearchFlights_MapsOffers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		case "/v2/shopping/flight-offers":
			q := r.URL.Query()
			assert.Equal(t, "CGK", q.Get("originLocationCode"))
			assert.Equal(t, "NRT", q.Get("destinationLocationCode"))
			assert.Equal(t, "USD", q.Get("currencyCode"))
			assert.Equal(t, "2", q.Get("adults"))
			assert.Empty(t, q.Get("returnDate"))
			w.Write([]byte(offersBody))
		}
	})

	got, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
		Origin:        "CGK",
		Destination:   "NRT",
		DepartureDate: "2026-09-04",
		Adults:        2,
	})
	require.NoError(t, err)

	// Offer 2 has no itineraries and offer 3 an unparseable price; both are
	// skipped rather than failing the whole response.
	require.Len(t, got, 1)

	f := got[0]
	assert.Equal(t, "1", f.ID)
	assert.Equal(t, "GARUDA INDONESIA", f.Airline)
	assert.Equal(t, "GA", f.AirlineCode)
	assert.Equal(t, 645.50, f.Price)
	assert.Equal(t, "08:35", f.DepartureTime)
	assert.Equal(t, "17:00", f.ArrivalTime)
	assert.Equal(t, 8*60+25, f.Duration)
	assert.Equal(t, 1, f.Stops)
	assert.Equal(t, []string{"SIN"}, f.StopCities)
	assert.Nil(t, f.Inbound)
}

func TestSearchFlights_CarrierCodeFallback(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		default:
			// Carrier dictionary omits "ZZ".
			w.Write([]byte(`{
				"data": [{
					"id": "1",
					"itineraries": [{"duration": "PT1H", "segments": [
						{"carrierCode": "ZZ",
						 "departure": {"iataCode": "AAA", "at": "2026-09-04T08:00:00"},
						 "arrival": {"iataCode": "BBB", "at": "2026-09-04T09:00:00"}}
					]}],
					"price": {"total": "50.00", "currency": "USD"}
				}],
				"dictionaries": {"carriers": {}}
			}`))
		}
	})

	got, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
		Origin: "AAA", Destination: "BBB", DepartureDate: "2026-09-04", Adults: 1,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ZZ", got[0].Airline)
}

func TestSearchFlights_BundledInbound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		default:
			assert.Equal(t, "2026-09-11", r.URL.Query().Get("returnDate"))
			w.Write([]byte(roundTripOfferBody))
		}
	})

	got, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
		Origin:        "SIN",
		Destination:   "CGK",
		DepartureDate: "2026-09-04",
		ReturnDate:    "2026-09-11",
		Adults:        1,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)

	f := got[0]
	require.NotNil(t, f.Inbound)
	assert.Equal(t, "2026-09-11T18:00:00", f.Inbound.Departure)
	assert.Equal(t, 2*60+50, f.Inbound.Duration)
	assert.Equal(t, 3*60, f.Outbound.Duration)
}

func TestSearchFlights_EmptyDataIsNotAnError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		default:
			w.Write([]byte(`{"data":[]}`))
		}
	})

	got, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
		Origin: "CGK", Destination: "NRT", DepartureDate: "2026-09-04", Adults: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGet_TooManyRequests(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			w.Write([]byte(tokenBody))
		default:
			w.WriteHeader(http.StatusTooManyRequests)
		}
	})

	_, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
		Origin: "CGK", Destination: "NRT", DepartureDate: "2026-09-04", Adults: 1,
	})
	assert.ErrorIs(t, err, amadeus.ErrRateLimited)
}

func TestGet_LocalLimiterRejects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tokenBody))
	}))
	t.Cleanup(srv.Close)

	limiter := ratelimit.NewEndpointLimiter(ratelimit.Config{RequestsPerSecond: 0.001, BurstSize: 1})
	client := amadeus.NewClient(amadeus.Config{
		BaseURL: srv.URL, ClientID: "id", ClientSecret: "secret",
	}, limiter, nil)

	ctx := context.Background()
	_, err := client.SearchAirports(ctx, "jakarta")
	require.NoError(t, err)

	_, err = client.SearchAirports(ctx, "jakarta")
	assert.ErrorIs(t, err, amadeus.ErrRateLimited)
}

func TestGet_UnauthorizedDropsToken(t *testing.T) {
	var tokenCalls int64
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/security/oauth2/token":
			atomic.AddInt64(&tokenCalls, 1)
			w.Write([]byte(tokenBody))
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	ctx := context.Background()
	_, err := client.SearchAirports(ctx, "jakarta")
	var apiErr *amadeus.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	// Cached token was dropped, so the next call re-authenticates.
	_, _ = client.SearchAirports(ctx, "jakarta")
	assert.Equal(t, int64(2), atomic.LoadInt64(&tokenCalls))
}

func TestParseISODurationViaOffers(t *testing.T) {
	cases := []struct {
		iso  string
		want int
	}{
		{"PT8H25M", 505},
		{"PT45M", 45},
		{"PT2H", 120},
	}

	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/v1/security/oauth2/token":
				w.Write([]byte(tokenBody))
			default:
				w.Write([]byte(`{
					"data": [{
						"id": "1",
						"itineraries": [{"duration": "` + tc.iso + `", "segments": [
							{"carrierCode": "GA",
							 "departure": {"iataCode": "AAA", "at": "2026-09-04T08:00:00"},
							 "arrival": {"iataCode": "BBB", "at": "2026-09-04T09:00:00"}}
						]}],
						"price": {"total": "10.00", "currency": "USD"}
					}]
				}`))
			}
		})

		got, err := client.SearchFlights(context.Background(), amadeus.FlightQuery{
			Origin: "AAA", Destination: "BBB", DepartureDate: "2026-09-04", Adults: 1,
		})
		require.NoError(t, err, tc.iso)
		require.Len(t, got, 1, tc.iso)
		assert.Equal(t, tc.want, got[0].Duration, tc.iso)
	}
}
