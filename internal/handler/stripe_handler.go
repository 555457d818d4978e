package handler

import (
	"net/http"

	"bayanihan/internal/middleware"
	"bayanihan/internal/repository"
	"bayanihan/internal/service"
	"bayanihan/pkg/stripe"

	"github.com/gin-gonic/gin"
)

// StripeHandler drives the card rail: a hosted checkout session, then a
// verified confirmation that marks the order paid without touching the
// ledger.
type StripeHandler struct {
	stripe    *stripe.Client
	store     *service.StoreService
	orderRepo *repository.OrderRepository
}

func NewStripeHandler(stripeClient *stripe.Client, store *service.StoreService, orderRepo *repository.OrderRepository) *StripeHandler {
	return &StripeHandler{stripe: stripeClient, store: store, orderRepo: orderRepo}
}

type checkoutSessionReq struct {
	OrderID    uint   `json:"order_id" binding:"required"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

func (h *StripeHandler) CreateCheckoutSession(c *gin.Context) {
	if !h.stripe.IsConfigured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "card payments are not available"})
		return
	}
	var req checkoutSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !h.stripe.RedirectAllowed(req.SuccessURL) || !h.stripe.RedirectAllowed(req.CancelURL) {
		badRequest(c, "redirect url not allowed")
		return
	}
	userID := middleware.GetUserID(c)
	order, err := h.orderRepo.GetForUser(userID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	session, err := h.stripe.CreateCheckoutSession(c.Request.Context(), order.ID, order.Total, order.Currency, req.SuccessURL, req.CancelURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": session.ID, "url": session.URL})
}

type confirmReq struct {
	OrderID   uint   `json:"order_id" binding:"required"`
	SessionID string `json:"session_id" binding:"required"`
}

// Confirm checks the session with Stripe before marking the order paid.
// Client-supplied state is never trusted on its own.
func (h *StripeHandler) Confirm(c *gin.Context) {
	var req confirmReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	session, err := h.stripe.GetSession(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	if session.PaymentStatus != "paid" {
		badRequest(c, "session is not paid")
		return
	}
	order, err := h.store.ConfirmProviderPaid(req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
