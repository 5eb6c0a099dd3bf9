package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/skyscout/skyscout/internal/amadeus"
	"github.com/skyscout/skyscout/internal/models"
	"github.com/skyscout/skyscout/internal/search"
	"github.com/skyscout/skyscout/internal/session"
	"github.com/skyscout/skyscout/internal/store"
	"github.com/skyscout/skyscout/pkg/logger"
	"github.com/skyscout/skyscout/pkg/metrics"
)

// FlightSearcher is the provider-facing surface the session handler
// dispatches searches through.
type FlightSearcher interface {
	SearchLeg(ctx context.Context, q amadeus.FlightQuery) ([]models.Flight, error)
	SearchRoundTrip(ctx context.Context, q amadeus.FlightQuery) search.RoundTripResult
}

// SessionHandler exposes the store's actions over HTTP: the browser
// dispatches intents here and re-reads the derived snapshot.
type SessionHandler struct {
	registry *session.Registry
	searcher FlightSearcher
	metrics  *metrics.Metrics
	log      logger.Logger

	// searchBudget bounds the background fetch that completes into the
	// store after the dispatch response has gone out.
	searchBudget time.Duration
}

func NewSessionHandler(registry *session.Registry, searcher FlightSearcher, m *metrics.Metrics, log logger.Logger) *SessionHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &SessionHandler{
		registry:     registry,
		searcher:     searcher,
		metrics:      m,
		log:          log,
		searchBudget: 45 * time.Second,
	}
}

func (h *SessionHandler) Create(c echo.Context) error {
	id, st := h.registry.Create()
	if h.metrics != nil {
		h.metrics.SessionsCreated.Inc()
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"session_id": id,
		"state":      buildSessionView(st.Snapshot()),
	})
}

func (h *SessionHandler) Snapshot(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

// Search submits a new search: criteria are replaced wholesale, stale
// selections cleared, and the provider fetch runs in the background. The
// response carries the generation token; completions for older
// generations never reach the store.
func (h *SessionHandler) Search(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}

	var criteria models.SearchCriteria
	if err := c.Bind(&criteria); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}
	if err := criteria.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	gen := st.SubmitSearch(criteria)
	if h.metrics != nil {
		h.metrics.SearchesTotal.WithLabelValues(string(criteria.TripType)).Inc()
	}

	go h.runSearch(st, gen, criteria)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"generation": gen,
		"state":      buildSessionView(st.Snapshot()),
	})
}

// runSearch performs the provider calls for one dispatch and reports the
// outcome into the store under the dispatch's generation.
func (h *SessionHandler) runSearch(st *store.Store, gen uint64, criteria models.SearchCriteria) {
	ctx, cancel := context.WithTimeout(context.Background(), h.searchBudget)
	defer cancel()

	started := time.Now()
	q := amadeus.FlightQuery{
		Origin:        criteria.Origin.IATACode,
		Destination:   criteria.Destination.IATACode,
		DepartureDate: criteria.DepartureDate,
		ReturnDate:    criteria.ReturnDate,
		Adults:        criteria.Adults,
		Children:      criteria.Children,
		Infants:       criteria.Infants,
	}

	if criteria.TripType == models.TripRoundTrip {
		result := h.searcher.SearchRoundTrip(ctx, q)
		if result.OutboundErr != nil {
			h.fail(st, gen, result.OutboundErr)
			return
		}
		st.SetFlights(gen, result.Outbound)
		if result.ReturnErr != nil {
			// Outbound results are still usable; surface the return-leg
			// failure without discarding them.
			h.log.Warn("return leg search failed", "error", result.ReturnErr)
		} else {
			st.SetReturnFlights(gen, result.Return)
		}
	} else {
		q.ReturnDate = ""
		flights, err := h.searcher.SearchLeg(ctx, q)
		if err != nil {
			h.fail(st, gen, err)
			return
		}
		st.SetFlights(gen, flights)
	}

	st.FinishSearch(gen)
	if h.metrics != nil {
		h.metrics.SearchDuration.Observe(time.Since(started).Seconds())
	}
}

func (h *SessionHandler) fail(st *store.Store, gen uint64, err error) {
	if h.metrics != nil {
		h.metrics.SearchErrors.Inc()
	}
	h.log.Error("flight search failed", "error", err)
	st.FailSearch(gen, searchErrorMessage(err))
}

// searchErrorMessage keeps provider details out of user-facing errors
// while preserving the taxonomy the UI distinguishes.
func searchErrorMessage(err error) string {
	switch {
	case err == amadeus.ErrMissingCredentials:
		return "Flight search is not configured. Please try again later."
	case err == amadeus.ErrRateLimited:
		return "Too many searches right now. Please wait a moment and retry."
	default:
		return "Failed to fetch flights. Please try again."
	}
}

func (h *SessionHandler) SetCriteria(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var patch models.CriteriaPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, err)
	}
	st.SetCriteria(patch)
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) SetFilters(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var patch models.FilterPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c, err)
	}
	st.SetFilters(patch)
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) ResetFilters(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	st.ResetFilters()
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) SetSort(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		Sort models.SortOption `json:"sort"`
	}
	if err := c.Bind(&body); err != nil {
		return bindError(c, err)
	}
	if !body.Sort.Valid() {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "unknown sort option",
			Code:    http.StatusBadRequest,
		})
	}
	st.SetSort(body.Sort)
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) SetHighlight(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		FlightID string `json:"flight_id"`
	}
	if err := c.Bind(&body); err != nil {
		return bindError(c, err)
	}
	st.SetHighlighted(body.FlightID)
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) SelectOutbound(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		FlightID string `json:"flight_id"`
	}
	if err := c.Bind(&body); err != nil {
		return bindError(c, err)
	}
	if !st.SelectOutboundByID(body.FlightID) {
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "no outbound flight with that id in the current results",
			Code:    http.StatusNotFound,
		})
	}
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) SelectReturn(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	var body struct {
		FlightID string `json:"flight_id"`
	}
	if err := c.Bind(&body); err != nil {
		return bindError(c, err)
	}
	if !st.SelectReturnByID(body.FlightID) {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:   "invalid_selection",
			Message: "return selection requires a selected outbound flight and a known flight id",
			Code:    http.StatusConflict,
		})
	}
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) DeselectOutbound(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	st.DeselectOutbound()
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

func (h *SessionHandler) DeselectReturn(c echo.Context) error {
	st, ok := h.session(c)
	if !ok {
		return nil
	}
	st.DeselectReturn()
	return c.JSON(http.StatusOK, buildSessionView(st.Snapshot()))
}

// session resolves the :id path param to a live store, writing a 404 when
// the session is unknown or expired.
func (h *SessionHandler) session(c echo.Context) (*store.Store, bool) {
	st, ok := h.registry.Get(c.Param("id"))
	if !ok {
		_ = c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "session_not_found",
			Message: "unknown or expired session",
			Code:    http.StatusNotFound,
		})
		return nil, false
	}
	return st, true
}

func bindError(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Failed to parse request body: " + err.Error(),
		Code:    http.StatusBadRequest,
	})
}
