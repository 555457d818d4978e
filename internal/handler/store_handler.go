package handler

import (
	"net/http"
	"strconv"

	"bayanihan/internal/middleware"
	"bayanihan/internal/service"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	store *service.StoreService
}

func NewStoreHandler(store *service.StoreService) *StoreHandler {
	return &StoreHandler{store: store}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func (h *StoreHandler) ListProducts(c *gin.Context) {
	page, limit := pageParams(c)
	products, total, err := h.store.ListProducts(page, limit, c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products, "total": total, "page": page})
}

type createOrderReq struct {
	Items []service.OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

func (h *StoreHandler) CreateOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	userID := middleware.GetUserID(c)
	order, err := h.store.CreateOrder(userID, req.Items)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *StoreHandler) ListMyOrders(c *gin.Context) {
	userID := middleware.GetUserID(c)
	orders, err := h.store.ListMyOrders(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *StoreHandler) Checkout(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	view, err := h.store.Checkout(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *StoreHandler) Settle(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	userID := middleware.GetUserID(c)
	order, err := h.store.Settle(userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *StoreHandler) Fulfill(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	order, err := h.store.Fulfill(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// --- admin product management ---

func (h *StoreHandler) CreateProduct(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	product, err := h.store.CreateProduct(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *StoreHandler) UpdateProduct(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req service.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	req.StockSet = req.Stock != nil
	product, err := h.store.UpdateProduct(id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type productStatusReq struct {
	Status string `json:"status" binding:"required"`
}

func (h *StoreHandler) SetProductStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req productStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	product, err := h.store.SetProductStatus(id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type productStockReq struct {
	Stock *int `json:"stock"`
}

func (h *StoreHandler) SetProductStock(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}
	var req productStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	product, err := h.store.SetProductStock(id, req.Stock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
