package handler

import (
	"net/http"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type BulletinHandler struct {
	bulletins *service.BulletinService
}

func NewBulletinHandler(bulletins *service.BulletinService) *BulletinHandler {
	return &BulletinHandler{bulletins: bulletins}
}

func (h *BulletinHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	bulletins, total, err := h.bulletins.ListPublished(page, limit, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bulletins": bulletins, "total": total, "page": page})
}

func (h *BulletinHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	bulletin, err := h.bulletins.Get(id, middleware.HasRole(c, "admin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulletin)
}

type bulletinReq struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

func (h *BulletinHandler) Create(c *gin.Context) {
	var req bulletinReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	bulletin, err := h.bulletins.Create(req.Title, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bulletin)
}

type bulletinUpdateReq struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func (h *BulletinHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req bulletinUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	bulletin, err := h.bulletins.Update(id, req.Title, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulletin)
}

func (h *BulletinHandler) Publish(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	bulletin, err := h.bulletins.Publish(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulletin)
}

func (h *BulletinHandler) Unpublish(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	bulletin, err := h.bulletins.Unpublish(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulletin)
}

type revertReq struct {
	Version int `json:"version" binding:"required,min=1"`
}

func (h *BulletinHandler) Revert(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req revertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	bulletin, err := h.bulletins.Revert(id, req.Version)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bulletin)
}

func (h *BulletinHandler) Versions(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	versions, err := h.bulletins.Versions(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"versions": versions})
}
