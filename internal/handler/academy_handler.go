package handler

import (
	"net/http"
	"time"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type AcademyHandler struct {
	academy *service.AcademyService
}

func NewAcademyHandler(academy *service.AcademyService) *AcademyHandler {
	return &AcademyHandler{academy: academy}
}

func (h *AcademyHandler) ListCourses(c *gin.Context) {
	page, limit := pageParams(c)
	courses, total, err := h.academy.ListCourses(page, limit, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": total, "page": page})
}

type courseReq struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (h *AcademyHandler) CreateCourse(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	course, err := h.academy.CreateCourse(req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

type courseUpdateReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *AcademyHandler) UpdateCourse(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req courseUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	course, err := h.academy.UpdateCourse(id, req.Title, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type statusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *AcademyHandler) SetCourseStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	course, err := h.academy.SetCourseStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, course)
}

type cohortReq struct {
	Name     string    `json:"name" binding:"required"`
	StartAt  time.Time `json:"start_at" binding:"required"`
	EndAt    time.Time `json:"end_at" binding:"required"`
	Capacity *int      `json:"capacity"`
}

func (h *AcademyHandler) CreateCohort(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req cohortReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	cohort, err := h.academy.CreateCohort(id, req.Name, req.StartAt, req.EndAt, req.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cohort)
}

func (h *AcademyHandler) ListCohorts(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	cohorts, err := h.academy.ListCohorts(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cohorts": cohorts})
}

func (h *AcademyHandler) Enroll(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	enrollment, err := h.academy.Enroll(id, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

type progressReq struct {
	Progress *int `json:"progress" binding:"required"`
}

func (h *AcademyHandler) UpdateProgress(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req progressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID := middleware.GetUserID(c)
	enrollment, err := h.academy.UpdateProgress(id, userID, *req.Progress, middleware.HasRole(c, "admin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h *AcademyHandler) IssueCertificate(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	cert, err := h.academy.IssueCertificate(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cert)
}

func (h *AcademyHandler) MyEnrollments(c *gin.Context) {
	userID := middleware.GetUserID(c)
	enrollments, err := h.academy.MyEnrollments(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"enrollments": enrollments})
}
