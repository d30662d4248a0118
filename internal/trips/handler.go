package trips

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tripledger/tripledger/internal/platform/httpx"
	"github.com/tripledger/tripledger/internal/pricing"
)

// Handler serves the trip endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the trips handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers the trip endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.Show)
	r.Put("/{id}/plan", h.UpdatePlan)
	r.Get("/{id}/quote", h.Quote)
	r.Get("/{id}/summary", h.Summary)
	r.Post("/{id}/recompute", h.Recompute)
}

// Create stores a trip and computes its first quote.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTripRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	trip, quote, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondServiceError(w, "create trip", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"trip": trip, "quote": quote})
}

// List returns stored trips.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	listed, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.respondServiceError(w, "list trips", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"trips": listed})
}

// Show returns one trip document.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tripID(w, r)
	if !ok {
		return
	}
	trip, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get trip", err)
		return
	}
	httpx.JSON(w, http.StatusOK, trip)
}

// UpdatePlan replaces the plan and recomputes the quote.
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tripID(w, r)
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	quote, err := h.service.UpdatePlan(r.Context(), id, req)
	if err != nil {
		h.respondServiceError(w, "update plan", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// Quote returns the latest stored quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tripID(w, r)
	if !ok {
		return
	}
	quote, err := h.service.Quote(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get quote", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

// Summary renders the quote headline figures with formatted INR amounts.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tripID(w, r)
	if !ok {
		return
	}
	stored, err := h.service.Quote(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "get quote", err)
		return
	}
	q := stored.Quote
	httpx.JSON(w, http.StatusOK, map[string]any{
		"trip_id":              stored.TripID,
		"computed_at":          stored.ComputedAt,
		"subtotal":             formatINR(q.Tax.Subtotal),
		"admin_subtotal":       formatINR(q.Tax.AdminSubtotal),
		"gst_amount":           formatINR(q.Tax.GSTAmount),
		"tcs_amount":           formatINR(q.Tax.TCSAmount),
		"grand_total":          formatINR(q.Tax.GrandTotal),
		"cost_per_participant": formatINR(q.CostPerParticipant),
		"chargeable_headcount": q.ChargeableHeadcount,
		"total_rooms":          totalRooms(q),
		"fallback":             q.Fallback,
	})
}

// Recompute re-prices the trip against the current rate table.
func (h *Handler) Recompute(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tripID(w, r)
	if !ok {
		return
	}
	quote, err := h.service.Recompute(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, "recompute", err)
		return
	}
	httpx.JSON(w, http.StatusOK, quote)
}

func totalRooms(q pricing.Quote) int {
	var total int
	for _, stay := range q.Stays {
		total += stay.TotalRooms
	}
	return total
}

func (h *Handler) tripID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid trip id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.RespondError(w, httpx.ErrNotFound)
	case errors.Is(err, ErrDuplicateName):
		httpx.RespondError(w, httpx.ErrDuplicate)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.RespondError(w, err)
	}
}
