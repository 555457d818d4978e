package handler

import (
	"io"
	"net/http"
	"time"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"
	"bayanihan/pkg/ninjavan"

	"github.com/gin-gonic/gin"
)

type ShippingHandler struct {
	shipping *service.ShippingService
	uploader service.Uploader
}

func NewShippingHandler(shipping *service.ShippingService, uploader service.Uploader) *ShippingHandler {
	return &ShippingHandler{shipping: shipping, uploader: uploader}
}

type createShipmentReq struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	CarrierName    string `json:"carrier_name" binding:"required"`
	TrackingNumber string `json:"tracking_number"`
}

func (h *ShippingHandler) Create(c *gin.Context) {
	var req createShipmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	shipment, err := h.shipping.CreateShipment(req.OrderID, req.CarrierName, req.TrackingNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

type carrierShipmentReq struct {
	OrderID uint             `json:"order_id" binding:"required"`
	From    ninjavan.Address `json:"from" binding:"required"`
	To      ninjavan.Address `json:"to" binding:"required"`
}

func (h *ShippingHandler) CreateCarrier(c *gin.Context) {
	var req carrierShipmentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	shipment, err := h.shipping.CreateCarrierShipment(c.Request.Context(), req.OrderID, req.From, req.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shipment)
}

func (h *ShippingHandler) RefreshTracking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	view, err := h.shipping.RefreshTracking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *ShippingHandler) SetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	shipment, err := h.shipping.UpdateStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

type shipmentEventReq struct {
	Status      string     `json:"status"`
	Description string     `json:"description" binding:"required"`
	OccurredAt  *time.Time `json:"occurred_at"`
}

func (h *ShippingHandler) AddEvent(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req shipmentEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	event, err := h.shipping.AddEvent(id, req.Status, req.Description, req.OccurredAt)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UploadLabel takes a multipart "label" file, stores it with the uploader
// and records the reference on the shipment.
func (h *ShippingHandler) UploadLabel(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	fileHeader, err := c.FormFile("label")
	if err != nil {
		badRequest(c, "label file is required")
		return
	}
	if fileHeader.Size > 5<<20 {
		badRequest(c, "label file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}
	ref, err := h.uploader.UploadBytes("labels", fileHeader.Filename, data)
	if err != nil {
		respondError(c, err)
		return
	}
	shipment, err := h.shipping.SetLabelRef(id, ref)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shipment)
}

func (h *ShippingHandler) Track(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	view, err := h.shipping.Track(id, userID, middleware.HasRole(c, "admin"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
