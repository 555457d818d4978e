package handler

import (
	"net/http"

	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type templateReq struct {
	Key     string `json:"key" binding:"required"`
	Channel string `json:"channel" binding:"required,oneof=email sms"`
	Subject string `json:"subject"`
	Body    string `json:"body" binding:"required"`
}

func (h *NotificationHandler) UpsertTemplate(c *gin.Context) {
	var req templateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	tpl, err := h.notifications.UpsertTemplate(req.Key, req.Channel, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (h *NotificationHandler) ListTemplates(c *gin.Context) {
	templates, err := h.notifications.ListTemplates(c.Query("channel"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

type sendReq struct {
	Channel     string                 `json:"channel" binding:"required,oneof=email sms"`
	To          string                 `json:"to" binding:"required"`
	Subject     string                 `json:"subject"`
	Body        string                 `json:"body"`
	TemplateKey string                 `json:"template_key"`
	Variables   map[string]interface{} `json:"variables"`
	UserID      *uint                  `json:"user_id"`
}

func (h *NotificationHandler) Send(c *gin.Context) {
	var req sendReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	msg, err := h.notifications.Send(c.Request.Context(), service.SendInput{
		Channel:     req.Channel,
		To:          req.To,
		Subject:     req.Subject,
		Body:        req.Body,
		TemplateKey: req.TemplateKey,
		Variables:   req.Variables,
		UserID:      req.UserID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

func (h *NotificationHandler) Retry(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	msg, err := h.notifications.Retry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

func (h *NotificationHandler) ListMessages(c *gin.Context) {
	messages, err := h.notifications.ListMessages(c.Query("status"), c.Query("channel"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
