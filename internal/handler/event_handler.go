package handler

import (
	"net/http"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	events *service.EventService
}

func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	events, total, err := h.events.List(page, limit, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "total": total, "page": page})
}

func (h *EventHandler) Create(c *gin.Context) {
	var req service.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := h.events.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := h.events.SetStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Register(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	reg, err := h.events.Register(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reg)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	reg, err := h.events.Cancel(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

type checkInReq struct {
	UserID uint `json:"user_id" binding:"required"`
}

// CheckIn is an admin action performed at the door.
func (h *EventHandler) CheckIn(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req checkInReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	reg, err := h.events.CheckIn(id, req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reg)
}

func (h *EventHandler) MyRegistrations(c *gin.Context) {
	userID := middleware.GetUserID(c)
	regs, err := h.events.MyRegistrations(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"registrations": regs})
}
