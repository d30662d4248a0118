package rates

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tripledger/tripledger/internal/platform/httpx"
	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// UpsertRateRequest is the payload for storing one currency rate.
type UpsertRateRequest struct {
	Code          string    `json:"code" validate:"required,len=3,alpha"`
	RateToINR     float64   `json:"rate_to_inr" validate:"required,gt=0"`
	EffectiveDate time.Time `json:"effective_date"`
}

// Handler serves the rate masterdata endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs the rates handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers the rate endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/", h.Upsert)
}

// List returns every stored rate.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listed, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list rates", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"rates": listed})
}

// Upsert stores one rate and triggers a quote recompute.
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Malformed JSON", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	if req.EffectiveDate.IsZero() {
		req.EffectiveDate = time.Now().UTC()
	}

	rate := fx.Rate{Code: req.Code, ToINR: req.RateToINR, EffectiveDate: req.EffectiveDate}
	if err := h.service.Upsert(r.Context(), rate); err != nil {
		h.logger.Error("upsert rate", slog.String("code", req.Code), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rate)
}
