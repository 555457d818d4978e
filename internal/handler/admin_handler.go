package handler

import (
	"net/http"
	"strconv"

	"bayanihan/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler manages users, roles and membership tiers.
type AdminHandler struct {
	userRepo *repository.UserRepository
}

func NewAdminHandler(userRepo *repository.UserRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	users, total, err := h.userRepo.List(c.Query("q"), c.Query("status"), (page-1)*limit, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "total": total, "page": page})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	user, err := h.userRepo.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	switch req.Status {
	case "active", "suspended":
	default:
		badRequest(c, "invalid status")
		return
	}
	if err := h.userRepo.SetStatus(id, req.Status); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

type roleReq struct {
	Role string `json:"role" binding:"required,oneof=member admin finance"`
}

func (h *AdminHandler) AddRole(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req roleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.userRepo.AddRole(id, req.Role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role granted"})
}

func (h *AdminHandler) RemoveRole(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	role := c.Param("role")
	if role == "" {
		badRequest(c, "role is required")
		return
	}
	if err := h.userRepo.RemoveRole(id, role); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "role removed"})
}

func (h *AdminHandler) ListTiers(c *gin.Context) {
	tiers, err := h.userRepo.ListTiers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tiers": tiers})
}

type setTierReq struct {
	TierID *uint `json:"tier_id"`
}

// SetUserTier assigns a membership tier; null clears it.
func (h *AdminHandler) SetUserTier(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req setTierReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.TierID != nil {
		tier, err := h.userRepo.GetTier(*req.TierID)
		if err != nil {
			respondError(c, err)
			return
		}
		if tier == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "tier not found: " + strconv.FormatUint(uint64(*req.TierID), 10)})
			return
		}
	}
	if err := h.userRepo.SetTier(id, req.TierID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "tier updated"})
}
