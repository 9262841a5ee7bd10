package handler

import (
	"net/http"

	"lms/internal/api/v1/dto"
	"lms/internal/api/v1/response"
	"lms/internal/apperr"
	"lms/internal/middleware"
	"lms/internal/model"
	"lms/internal/service"

	"github.com/rs/zerolog"
)

// SubscriptionHandler handles payment-subscription endpoints. The gateway
// signature flow lives with the payment provider, not here.
type SubscriptionHandler struct {
	subscriptionService service.SubscriptionService
	logger              zerolog.Logger
}

// NewSubscriptionHandler creates a new SubscriptionHandler
func NewSubscriptionHandler(subscriptionService service.SubscriptionService, logger zerolog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
		logger:              logger.With().Str("handler", "SubscriptionHandler").Logger(),
	}
}

// RegisterRoutes mounts payment routes
func (h *SubscriptionHandler) RegisterRoutes(mux *http.ServeMux, authenticate, adminOnly, subscriberOnly func(http.Handler) http.Handler) {
	mux.Handle("/payments", middleware.Chain(authenticate, adminOnly)(http.HandlerFunc(h.listPayments)))
	mux.Handle("/payments/subscribe", authenticate(http.HandlerFunc(h.subscribe)))
	mux.Handle("/payments/unsubscribe", middleware.Chain(authenticate, subscriberOnly)(http.HandlerFunc(h.unsubscribe)))
}

// subscribe godoc
// @Summary Activate the caller's subscription
// @Tags payments
// @Produce json
// @Success 200 {object} response.Body
// @Router /payments/subscribe [post]
func (h *SubscriptionHandler) subscribe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r, http.MethodPost)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Subscribe(r.Context(), identity.UserID)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "subscribed successfully", map[string]any{
		"subscription": dto.SubscriptionFromModel(sub),
	})
}

// unsubscribe godoc
// @Summary Cancel the caller's subscription
// @Tags payments
// @Produce json
// @Success 200 {object} response.Body
// @Router /payments/unsubscribe [post]
func (h *SubscriptionHandler) unsubscribe(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.requireIdentity(w, r, http.MethodPost)
	if !ok {
		return
	}
	sub, err := h.subscriptionService.Cancel(r.Context(), identity.UserID)
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "unsubscribed successfully", map[string]any{
		"subscription": dto.SubscriptionFromModel(sub),
	})
}

// listPayments godoc
// @Summary List all payment records
// @Tags payments
// @Produce json
// @Success 200 {object} response.Body
// @Router /payments [get]
func (h *SubscriptionHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		response.NotFound(w, h.logger)
		return
	}
	payments, err := h.subscriptionService.ListPayments(r.Context())
	if err != nil {
		response.Err(w, h.logger, err)
		return
	}
	response.OK(w, h.logger, http.StatusOK, "payments fetched successfully", map[string]any{
		"payments": dto.PaymentsFromModel(payments),
	})
}

func (h *SubscriptionHandler) requireIdentity(w http.ResponseWriter, r *http.Request, method string) (*model.Identity, bool) {
	if r.Method != method {
		response.NotFound(w, h.logger)
		return nil, false
	}
	identity, found := middleware.IdentityFrom(r.Context())
	if !found {
		response.Err(w, h.logger, apperr.New(apperr.Unauthenticated, "unauthenticated, please login"))
		return nil, false
	}
	return identity, true
}
