package handler

import (
	"net/http"

	"bayanihan/internal/middleware"
	"bayanihan/internal/repository"

	"github.com/gin-gonic/gin"
)

// LedgerHandler exposes the member's derived balance and entry history.
// Entries are read-only over HTTP; only settlement and approvals write them.
type LedgerHandler struct {
	ledgerRepo *repository.LedgerRepository
}

func NewLedgerHandler(ledgerRepo *repository.LedgerRepository) *LedgerHandler {
	return &LedgerHandler{ledgerRepo: ledgerRepo}
}

func (h *LedgerHandler) GetBalance(c *gin.Context) {
	userID := middleware.GetUserID(c)
	currency := c.DefaultQuery("currency", "PHP")
	balance, err := h.ledgerRepo.Balance(userID, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balance":  balance,
		"currency": currency,
	})
}

func (h *LedgerHandler) ListEntries(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entries, err := h.ledgerRepo.ListByUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
