// Package search drives provider calls for a search submission: per-leg
// retry with a fixed backoff schedule, and concurrent fan-out for the two
// legs of a round trip.
package search

import (
	"context"
	"time"

	"github.com/skyscout/skyscout/internal/amadeus"
	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/pkg/logger"
)

// FlightClient is the one provider call the searcher needs.
type FlightClient interface {
	SearchFlights(ctx context.Context, q amadeus.FlightQuery) ([]models.Flight, error)
}

type Config struct {
	Timeout     time.Duration
	MaxRetries  int
	RetryDelays []time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:    15 * time.Second,
		MaxRetries: 2,
		RetryDelays: []time.Duration{
			200 * time.Millisecond,
			400 * time.Millisecond,
		},
	}
}

type Searcher struct {
	client FlightClient
	config Config
	log    logger.Logger
}

func New(client FlightClient, config Config, log logger.Logger) *Searcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Searcher{client: client, config: config, log: log}
}

// SearchLeg fetches one direction's offers, retrying transient failures.
// Configuration errors (missing credentials) are terminal and returned
// immediately.
func (s *Searcher) SearchLeg(ctx context.Context, q amadeus.FlightQuery) ([]models.Flight, error) {
	legCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		select {
		case <-legCtx.Done():
			return nil, legCtx.Err()
		default:
		}

		if attempt > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(s.config.RetryDelays) {
				delayIdx = len(s.config.RetryDelays) - 1
			}
			select {
			case <-time.After(s.config.RetryDelays[delayIdx]):
			case <-legCtx.Done():
				return nil, legCtx.Err()
			}
		}

		flights, err := s.client.SearchFlights(legCtx, q)
		if err == nil {
			return flights, nil
		}
		if err == amadeus.ErrMissingCredentials {
			return nil, err
		}

		lastErr = err
		s.log.Warn("flight search attempt failed",
			"origin", q.Origin, "destination", q.Destination,
			"attempt", attempt+1, "error", err)
	}

	return nil, lastErr
}

// RoundTripResult carries both legs of a round-trip search; either error
// may be set independently.
type RoundTripResult struct {
	Outbound    []models.Flight
	Return      []models.Flight
	OutboundErr error
	ReturnErr   error
}

// SearchRoundTrip fetches the outbound and return legs concurrently, one
// provider call per direction with the route reversed for the return leg.
func (s *Searcher) SearchRoundTrip(ctx context.Context, q amadeus.FlightQuery) RoundTripResult {
	tripCtx, cancel := context.WithTimeout(ctx, s.config.Timeout*2)
	defer cancel()

	type legResult struct {
		flights  []models.Flight
		err      error
		isReturn bool
	}

	resultCh := make(chan legResult, 2)

	outboundQ := q
	outboundQ.ReturnDate = ""
	go func() {
		flights, err := s.SearchLeg(tripCtx, outboundQ)
		resultCh <- legResult{flights: flights, err: err}
	}()

	returnQ := amadeus.FlightQuery{
		Origin:        q.Destination,
		Destination:   q.Origin,
		DepartureDate: q.ReturnDate,
		Adults:        q.Adults,
		Children:      q.Children,
		Infants:       q.Infants,
	}
	go func() {
		flights, err := s.SearchLeg(tripCtx, returnQ)
		resultCh <- legResult{flights: flights, err: err, isReturn: true}
	}()

	var result RoundTripResult
	for i := 0; i < 2; i++ {
		lr := <-resultCh
		if lr.isReturn {
			result.Return, result.ReturnErr = lr.flights, lr.err
		} else {
			result.Outbound, result.OutboundErr = lr.flights, lr.err
		}
	}
	return result
}
