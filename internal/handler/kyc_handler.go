package handler

import (
	"net/http"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type KycHandler struct {
	kyc *service.KycService
}

func NewKycHandler(kyc *service.KycService) *KycHandler {
	return &KycHandler{kyc: kyc}
}

type kycApplyReq struct {
	Documents []service.KycDocumentInput `json:"documents" binding:"required,min=1,dive"`
}

func (h *KycHandler) Apply(c *gin.Context) {
	var req kycApplyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID := middleware.GetUserID(c)
	app, err := h.kyc.Apply(userID, req.Documents)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *KycHandler) List(c *gin.Context) {
	apps, err := h.kyc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *KycHandler) ListDecisions(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	decisions, err := h.kyc.ListDecisions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decisions": decisions})
}

type kycDecisionReq struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func (h *KycHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req kycDecisionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	reviewer := middleware.GetUserID(c)
	app, err := h.kyc.SetStatus(id, req.Status, req.Notes, &reviewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
