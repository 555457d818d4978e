package handler

import (
	"net/http"
	"time"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type UbiHandler struct {
	ubi *service.UbiService
}

func NewUbiHandler(ubi *service.UbiService) *UbiHandler {
	return &UbiHandler{ubi: ubi}
}

type createProgramReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Currency    string          `json:"currency"`
}

func (h *UbiHandler) CreateProgram(c *gin.Context) {
	var req createProgramReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Currency == "" {
		req.Currency = "PHP"
	}
	program, err := h.ubi.CreateProgram(req.Name, req.Description, req.Amount, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, program)
}

func (h *UbiHandler) ListPrograms(c *gin.Context) {
	programs, err := h.ubi.ListPrograms()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"programs": programs})
}

func (h *UbiHandler) Enroll(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	enrollment, err := h.ubi.Enroll(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

type createCycleReq struct {
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

func (h *UbiHandler) CreateCycle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req createCycleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cycle, err := h.ubi.CreateCycle(id, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cycle)
}

func (h *UbiHandler) ComputeCycle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	cycle, err := h.ubi.ComputeCycle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *UbiHandler) SubmitCycle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	cycle, err := h.ubi.SubmitCycle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *UbiHandler) ApproveCycle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	cycle, err := h.ubi.ApproveCycle(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cycle)
}

func (h *UbiHandler) ListPayouts(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	payouts, err := h.ubi.ListPayouts(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": payouts})
}

// MyLedger lists the member's UBI credits only.
func (h *UbiHandler) MyLedger(c *gin.Context) {
	userID := middleware.GetUserID(c)
	entries, err := h.ubi.MemberLedger(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
