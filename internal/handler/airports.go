package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyscout/skyscout/internal/airports"
	"github.com/skyscout/skyscout/internal/amadeus"
	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/pkg/logger"
	"github.com/skyscout/skyscout/pkg/metrics"
)

// AirportSearcher is the provider call behind the airport lookup.
type AirportSearcher interface {
	SearchAirports(ctx context.Context, keyword string) ([]models.AirportLocation, error)
}

// defaultAirportKeywords seed the airport picker with hubs from a few
// regions before the user has typed anything.
var defaultAirportKeywords = []string{"new", "lon", "tok"}

// AirportHandler serves keyword lookups through the shared directory
// cache, falling back to the provider and persisting what it learns.
type AirportHandler struct {
	directory *airports.Directory
	searcher  AirportSearcher
	persister airports.Persister
	metrics   *metrics.Metrics
	log       logger.Logger
}

func NewAirportHandler(dir *airports.Directory, searcher AirportSearcher, persister airports.Persister, m *metrics.Metrics, log logger.Logger) *AirportHandler {
	if persister == nil {
		persister = airports.NewNoopPersister()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &AirportHandler{
		directory: dir,
		searcher:  searcher,
		persister: persister,
		metrics:   m,
		log:       log,
	}
}

// Search handles GET /airports?keyword=. Cache first; any non-empty
// provider result is cached under the keyword. Keywords the provider
// would reject yield an empty list, not an error.
func (h *AirportHandler) Search(c echo.Context) error {
	keyword := c.QueryParam("keyword")
	if !amadeus.ValidKeyword(keyword) {
		return c.JSON(http.StatusOK, []models.AirportLocation{})
	}

	if cached, ok := h.directory.Cache.Get(keyword); ok {
		if h.metrics != nil {
			h.metrics.AirportCacheHits.Inc()
		}
		return c.JSON(http.StatusOK, cached)
	}
	if h.metrics != nil {
		h.metrics.AirportCacheMiss.Inc()
	}

	results, err := h.searcher.SearchAirports(c.Request().Context(), keyword)
	if err != nil {
		return h.providerError(c, err)
	}

	if len(results) > 0 {
		h.directory.Cache.Put(keyword, results)
		h.persist()
	}
	if results == nil {
		results = []models.AirportLocation{}
	}
	return c.JSON(http.StatusOK, results)
}

// Defaults handles GET /airports/defaults: the seed airport list, fetched
// once from the provider and kept in the durable directory state.
func (h *AirportHandler) Defaults(c echo.Context) error {
	if defaults, fetched := h.directory.Defaults(); fetched {
		return c.JSON(http.StatusOK, defaults)
	}

	ctx := c.Request().Context()
	var combined []models.AirportLocation
	seen := make(map[string]bool)
	for _, keyword := range defaultAirportKeywords {
		results, err := h.searcher.SearchAirports(ctx, keyword)
		if err != nil {
			return h.providerError(c, err)
		}
		for _, a := range results {
			if !seen[a.IATACode] {
				seen[a.IATACode] = true
				combined = append(combined, a)
			}
		}
	}

	if len(combined) > 0 {
		h.directory.SetDefaults(combined)
		h.persist()
	}
	if combined == nil {
		combined = []models.AirportLocation{}
	}
	return c.JSON(http.StatusOK, combined)
}

// persist writes the directory state out in the background; persistence
// failures are logged, never surfaced to the user.
func (h *AirportHandler) persist() {
	state := airports.SnapshotDirectory(h.directory)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.persister.Save(ctx, state); err != nil {
			h.log.Warn("failed to persist airport directory", "error", err)
		}
	}()
}

func (h *AirportHandler) providerError(c echo.Context, err error) error {
	h.log.Error("airport search failed", "error", err)
	status := http.StatusBadGateway
	message := "Failed to search airports. Please try again."
	switch err {
	case amadeus.ErrRateLimited:
		status = http.StatusTooManyRequests
		message = "Too many lookups right now. Please wait a moment."
	case amadeus.ErrMissingCredentials:
		status = http.StatusServiceUnavailable
		message = "Airport search is not configured."
	}
	return c.JSON(status, ErrorResponse{
		Error:   "airport_search_error",
		Message: message,
		Code:    status,
	})
}
