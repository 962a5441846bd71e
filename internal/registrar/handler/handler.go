package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"namereg/internal/platform/middleware"
	"namereg/internal/registrar/models"
	"namereg/internal/registrar/service"
	"namereg/internal/transport/http/shared"
	dErrors "namereg/pkg/domain-errors"
	"namereg/pkg/requestcontext"
)

// Service defines the registrar operations the HTTP layer exposes.
type Service interface {
	Register(ctx context.Context, rawLabel string) (*service.RegistrationResult, error)
	RegisterMultiple(ctx context.Context, labels []string) ([]service.BatchItem, error)
	Renew(ctx context.Context, rawLabel string) (*service.RenewalResult, error)
	Transfer(ctx context.Context, rawLabel, newOwner string) error
	SetResolver(ctx context.Context, rawLabel, resolverRef string) error
	ClearResolver(ctx context.Context, rawLabel string) error
	Resolve(ctx context.Context, rawLabel, resolverRef string) ([]byte, error)
	SetPrimaryName(ctx context.Context, rawLabel string) error
	ClearPrimaryName(ctx context.Context) error

	GetName(ctx context.Context, label string) (*models.NameRecord, error)
	IsAvailable(ctx context.Context, rawLabel string) (bool, error)
	InGracePeriod(ctx context.Context, label string) (bool, error)
	QuoteRegistrationFee(ctx context.Context, rawLabel string) (fee uint64, premium bool, err error)
	QuoteRenewalFee(ctx context.Context) (uint64, error)
	FeeConfigSnapshot(ctx context.Context) (models.FeeConfig, error)
	OwnedNameIDs(ctx context.Context, account string) ([]uint64, error)
	LabelByID(ctx context.Context, nameID uint64) (string, error)
	PrimaryFullName(ctx context.Context, account string) (string, bool, error)
	DisplayName(ctx context.Context, account string) (string, error)
	TotalNames(ctx context.Context) (uint64, error)
	TotalFeesCollected(ctx context.Context) (uint64, error)
}

// Handler exposes the registrar over HTTP.
type Handler struct {
	logger    *slog.Logger
	registrar Service
	validator middleware.TokenValidator
}

// New creates a registrar Handler.
func New(registrar Service, logger *slog.Logger, validator middleware.TokenValidator) *Handler {
	return &Handler{
		logger:    logger,
		registrar: registrar,
		validator: validator,
	}
}

// Register mounts the registrar routes. Mutations require a bearer token;
// queries are public.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(h.validator, h.logger))

		r.Post("/names", h.handleRegister)
		r.Post("/names/batch", h.handleRegisterBatch)
		r.Post("/names/{label}/renew", h.handleRenew)
		r.Post("/names/{label}/transfer", h.handleTransfer)
		r.Put("/names/{label}/resolver", h.handleSetResolver)
		r.Delete("/names/{label}/resolver", h.handleClearResolver)
		r.Put("/me/primary", h.handleSetPrimary)
		r.Delete("/me/primary", h.handleClearPrimary)
	})

	r.Get("/names/{label}", h.handleGetName)
	r.Get("/names/{label}/availability", h.handleAvailability)
	r.Get("/names/{label}/resolve", h.handleResolve)
	r.Get("/quotes/registration", h.handleQuoteRegistration)
	r.Get("/quotes/renewal", h.handleQuoteRenewal)
	r.Get("/fees", h.handleFeeConfig)
	r.Get("/accounts/{account}/names", h.handleOwnedNames)
	r.Get("/accounts/{account}/primary", h.handlePrimaryName)
	r.Get("/accounts/{account}/display-name", h.handleDisplayName)
	r.Get("/ids/{id}", h.handleLabelByID)
	r.Get("/stats", h.handleStats)
}

type registerRequest struct {
	Label string `json:"label"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	res, err := h.registrar.Register(ctx, req.Label)
	if err != nil {
		h.logWarn(ctx, "register failed", req.Label, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, res)
}

type registerBatchRequest struct {
	Labels []string `json:"labels"`
}

func (h *Handler) handleRegisterBatch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	items, err := h.registrar.RegisterMultiple(ctx, req.Labels)
	if err != nil {
		h.logWarn(ctx, "batch register rejected", "", err)
		shared.WriteError(w, err)
		return
	}
	// Per-label failures ride inside the items; the batch itself is a 200.
	shared.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	res, err := h.registrar.Renew(ctx, label)
	if err != nil {
		h.logWarn(ctx, "renew failed", label, err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, res)
}

type transferRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.registrar.Transfer(ctx, label, req.NewOwner); err != nil {
		h.logWarn(ctx, "transfer failed", label, err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setResolverRequest struct {
	Resolver string `json:"resolver"`
}

func (h *Handler) handleSetResolver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	var req setResolverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.registrar.SetResolver(ctx, label, req.Resolver); err != nil {
		h.logWarn(ctx, "set resolver failed", label, err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearResolver(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	if err := h.registrar.ClearResolver(ctx, label); err != nil {
		h.logWarn(ctx, "clear resolver failed", label, err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")
	resolver := r.URL.Query().Get("resolver")

	payload, err := h.registrar.Resolve(ctx, label, resolver)
	if err != nil {
		h.logWarn(ctx, "resolve failed", label, err)
		shared.WriteError(w, err)
		return
	}
	if payload == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"payload": payload})
}

type setPrimaryRequest struct {
	Label string `json:"label"`
}

func (h *Handler) handleSetPrimary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req setPrimaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	if err := h.registrar.SetPrimaryName(ctx, req.Label); err != nil {
		h.logWarn(ctx, "set primary failed", req.Label, err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleClearPrimary(w http.ResponseWriter, r *http.Request) {
	if err := h.registrar.ClearPrimaryName(r.Context()); err != nil {
		h.logWarn(r.Context(), "clear primary failed", "", err)
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type nameResponse struct {
	NameID        uint64    `json:"name_id"`
	Label         string    `json:"label"`
	FullName      string    `json:"full_name"`
	Owner         string    `json:"owner"`
	Resolver      string    `json:"resolver,omitempty"`
	ExpiryAt      time.Time `json:"expiry_at"`
	IsPremium     bool      `json:"is_premium"`
	InGracePeriod bool      `json:"in_grace_period"`
	CreatedAt     time.Time `json:"created_at"`
	LastRenewedAt time.Time `json:"last_renewed_at"`
}

func (h *Handler) handleGetName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	label := chi.URLParam(r, "label")

	rec, err := h.registrar.GetName(ctx, label)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	grace, err := h.registrar.InGracePeriod(ctx, label)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, nameResponse{
		NameID:        rec.NameID,
		Label:         rec.Label,
		FullName:      rec.FullName,
		Owner:         rec.Owner,
		Resolver:      rec.Resolver,
		ExpiryAt:      rec.ExpiryAt,
		IsPremium:     rec.IsPremium,
		InGracePeriod: grace,
		CreatedAt:     rec.CreatedAt,
		LastRenewedAt: rec.LastRenewedAt,
	})
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "label")

	available, err := h.registrar.IsAvailable(r.Context(), label)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"label":     label,
		"available": available,
	})
}

func (h *Handler) handleQuoteRegistration(w http.ResponseWriter, r *http.Request) {
	label := r.URL.Query().Get("label")

	fee, premium, err := h.registrar.QuoteRegistrationFee(r.Context(), label)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"label":   label,
		"fee":     fee,
		"premium": premium,
	})
}

func (h *Handler) handleQuoteRenewal(w http.ResponseWriter, r *http.Request) {
	fee, err := h.registrar.QuoteRenewalFee(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{"fee": fee})
}

func (h *Handler) handleFeeConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.registrar.FeeConfigSnapshot(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, cfg)
}

func (h *Handler) handleOwnedNames(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	ids, err := h.registrar.OwnedNameIDs(r.Context(), account)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"account":  account,
		"name_ids": ids,
	})
}

func (h *Handler) handlePrimaryName(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	fullName, ok, err := h.registrar.PrimaryFullName(r.Context(), account)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no primary name"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"account":   account,
		"full_name": fullName,
	})
}

func (h *Handler) handleDisplayName(w http.ResponseWriter, r *http.Request) {
	account := chi.URLParam(r, "account")

	display, err := h.registrar.DisplayName(r.Context(), account)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]string{
		"account":      account,
		"display_name": display,
	})
}

func (h *Handler) handleLabelByID(w http.ResponseWriter, r *http.Request) {
	nameID, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid name id"))
		return
	}

	label, err := h.registrar.LabelByID(r.Context(), nameID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]any{
		"name_id": nameID,
		"label":   label,
	})
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := h.registrar.TotalNames(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	fees, err := h.registrar.TotalFeesCollected(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, map[string]uint64{
		"total_names":          total,
		"total_fees_collected": fees,
	})
}

func (h *Handler) logWarn(ctx context.Context, msg, label string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"label", label,
		"error", err.Error(),
	)
}
