package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"namereg/internal/platform/middleware"
	"namereg/internal/registrar/models"
	"namereg/internal/transport/http/shared"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// Service defines the fee and premium administration operations.
type Service interface {
	SetBaseFee(ctx context.Context, fee uint64) (models.FeeConfig, error)
	SetRenewFee(ctx context.Context, fee uint64) (models.FeeConfig, error)
	SetPremiumMultiplier(ctx context.Context, multiplier uint64) (models.FeeConfig, error)
	SetFeeRecipient(ctx context.Context, account string) (models.FeeConfig, error)
	SetProtocolTreasury(ctx context.Context, account string) (models.FeeConfig, error)
	SetProtocolFeePercent(ctx context.Context, percent uint64) (models.FeeConfig, error)
	SetPremiumLabel(ctx context.Context, label string, premium bool) error
}

// Handler exposes the admin surface. Authorization is enforced twice: the
// route group requires a valid bearer token, and the service rejects any
// caller that is not the configured admin account.
type Handler struct {
	logger    *slog.Logger
	admin     Service
	validator middleware.TokenValidator
}

func New(admin Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		admin:     admin,
		validator: validator,
	}
}

// Register mounts the admin routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(h.validator, h.logger))

		r.Put("/admin/fees/base", h.handleSetBaseFee)
		r.Put("/admin/fees/renewal", h.handleSetRenewFee)
		r.Put("/admin/fees/premium-multiplier", h.handleSetPremiumMultiplier)
		r.Put("/admin/fees/recipient", h.handleSetFeeRecipient)
		r.Put("/admin/fees/treasury", h.handleSetProtocolTreasury)
		r.Put("/admin/fees/protocol-percent", h.handleSetProtocolFeePercent)
		r.Put("/admin/premium-labels/{label}", h.handleSetPremiumLabel)
	})
}

type amountRequest struct {
	Amount uint64 `json:"amount"`
}

type accountRequest struct {
	Account string `json:"account"`
}

func (h *Handler) handleSetBaseFee(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "set base fee", h.admin.SetBaseFee)
}

func (h *Handler) handleSetRenewFee(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "set renew fee", h.admin.SetRenewFee)
}

func (h *Handler) handleSetPremiumMultiplier(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "set premium multiplier", h.admin.SetPremiumMultiplier)
}

func (h *Handler) handleSetProtocolFeePercent(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, "set protocol fee percent", h.admin.SetProtocolFeePercent)
}

func (h *Handler) handleSetFeeRecipient(w http.ResponseWriter, r *http.Request) {
	h.applyAccount(w, r, "set fee recipient", h.admin.SetFeeRecipient)
}

func (h *Handler) handleSetProtocolTreasury(w http.ResponseWriter, r *http.Request) {
	h.applyAccount(w, r, "set protocol treasury", h.admin.SetProtocolTreasury)
}

type premiumLabelRequest struct {
	Premium bool `json:"premium"`
}

func (h *Handler) handleSetPremiumLabel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	var req premiumLabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.admin.SetPremiumLabel(ctx, label, req.Premium); err != nil {
		h.logWarn(ctx, "set premium label", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) applyAmount(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, uint64) (models.FeeConfig, error)) {
	ctx := r.Context()

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	cfg, err := fn(ctx, req.Amount)
	if err != nil {
		h.logWarn(ctx, op, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) applyAccount(w http.ResponseWriter, r *http.Request, op string, fn func(context.Context, string) (models.FeeConfig, error)) {
	ctx := r.Context()

	var req accountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	cfg, err := fn(ctx, req.Account)
	if err != nil {
		h.logWarn(ctx, op, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) logWarn(ctx context.Context, op string, err error) {
	h.logger.WarnContext(ctx, op+" failed",
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
