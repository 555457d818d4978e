package handler

import (
	"net/http"
	"strconv"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentsHandler struct {
	payments *service.PaymentsService
}

func NewPaymentsHandler(payments *service.PaymentsService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

func (h *PaymentsHandler) ListBanks(c *gin.Context) {
	banks, err := h.payments.ListBanks()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

func (h *PaymentsHandler) GetBank(c *gin.Context) {
	bank, err := h.payments.GetBank(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

type bankConfigReq struct {
	Enabled    *bool            `json:"enabled"`
	DailyLimit *decimal.Decimal `json:"daily_limit"`
}

func (h *PaymentsHandler) SetBankConfig(c *gin.Context) {
	var req bankConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	bank, err := h.payments.SetBankConfig(c.Param("code"), req.Enabled, req.DailyLimit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bank)
}

type bankConfigBulkReq struct {
	Items []service.BankConfigItem `json:"items" binding:"required,min=1"`
}

func (h *PaymentsHandler) SetBankConfigBulk(c *gin.Context) {
	var req bankConfigBulkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	banks, err := h.payments.SetBankConfigBulk(req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"banks": banks})
}

type manualRequestReq struct {
	BankCode string          `json:"bank_code" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Currency string          `json:"currency"`
	Notes    string          `json:"notes"`
}

func (h *PaymentsHandler) CreateManualRequest(c *gin.Context) {
	var req manualRequestReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID := middleware.GetUserID(c)
	request, err := h.payments.CreateManualRequest(userID, req.BankCode, req.Amount, req.Currency, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *PaymentsHandler) ListMyRequests(c *gin.Context) {
	userID := middleware.GetUserID(c)
	requests, err := h.payments.ListUserRequests(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *PaymentsHandler) ListPendingRequests(c *gin.Context) {
	requests, err := h.payments.ListPendingRequests()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

type reviewReq struct {
	Notes string `json:"notes"`
}

func (h *PaymentsHandler) ReviewRequest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	request, err := h.payments.ReviewRequest(id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

type approveReq struct {
	Ref   string `json:"ref"`
	Notes string `json:"notes"`
}

func (h *PaymentsHandler) ApproveRequest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	request, err := h.payments.ApproveRequest(id, req.Ref, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (h *PaymentsHandler) RejectRequest(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req reviewReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	request, err := h.payments.RejectRequest(id, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

// parseID reads a positive uint path param, writing the 400 itself on
// failure.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, strconv.ErrSyntax
	}
	return uint(id), nil
}
