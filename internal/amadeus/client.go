// Package amadeus is the client for the Amadeus self-service API: OAuth
// token handling, airport/city lookup, and flight-offers search.
package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/skyscout/skyscout/internal/ratelimit"
	"github.com/skyscout/skyscout/pkg/logger"
)

const (
	// DefaultBaseURL is the self-service test environment.
	DefaultBaseURL = "https://test.api.amadeus.com"

	// tokenExpiryBuffer refreshes the token this long before it expires.
	tokenExpiryBuffer = 60 * time.Second

	endpointAirports = "airports"
	endpointFlights  = "flights"
)

// ErrMissingCredentials is returned when no API key/secret is configured.
// It is a terminal configuration error; callers surface it, never retry.
var ErrMissingCredentials = errors.New("amadeus: API credentials not configured")

// ErrRateLimited reports that the provider (or the local limiter) rejected
// the call for throttling reasons.
var ErrRateLimited = errors.New("amadeus: rate limit exceeded")

// APIError is a non-2xx provider response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("amadeus: %s (status %d)", e.Message, e.Status)
}

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

type Client struct {
	cfg     Config
	http    *http.Client
	limiter *ratelimit.EndpointLimiter
	log     logger.Logger

	tokenMu     sync.Mutex
	token       string
	tokenExpiry time.Time
}

func NewClient(cfg Config, limiter *ratelimit.EndpointLimiter, log logger.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if limiter == nil {
		limiter = ratelimit.NewEndpointLimiterWithDefaults()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		log:     log,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// accessToken returns the cached bearer token, requesting a fresh one when
// the cached token is within the expiry buffer.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	if c.cfg.ClientID == "" || c.cfg.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/security/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Message: "authentication failed"}
	}

	var tok tokenResponse
	if err := decodeJSON(resp, &tok); err != nil {
		return "", err
	}

	c.token = tok.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tok.ExpiresIn)*time.Second - tokenExpiryBuffer)
	c.log.Debug("amadeus token refreshed", "expires_in", tok.ExpiresIn)
	return c.token, nil
}

// get performs an authorized GET against path with the given query,
// honoring the per-endpoint rate limit.
func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	if !c.limiter.Allow(endpoint) {
		return ErrRateLimited
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized:
		// Token may have been revoked server-side; drop it so the next
		// call re-authenticates.
		c.tokenMu.Lock()
		c.token = ""
		c.tokenMu.Unlock()
		return &APIError{Status: resp.StatusCode, Message: "authorization rejected"}
	case resp.StatusCode != http.StatusOK:
		return &APIError{Status: resp.StatusCode, Message: "request failed"}
	}

	return decodeJSON(resp, out)
}
