package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/millworks/planboard-api/internal/dto"
	"github.com/millworks/planboard-api/internal/models"
	"github.com/millworks/planboard-api/internal/service"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
	"github.com/millworks/planboard-api/pkg/response"
)

// OrderHandler exposes the order list, detail, and entry endpoints.
type OrderHandler struct {
	service *service.OrderService
}

// NewOrderHandler constructs handler.
func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// List returns annotated orders matching the query filters.
func (h *OrderHandler) List(c *gin.Context) {
	var filter models.OrderFilter
	filter.Status = models.OrderStatus(c.Query("status"))
	if plant, ok := models.ParsePlant(c.Query("plant")); ok {
		filter.Plant = plant
	}
	filter.ProductName = c.Query("product")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		filter.PageSize = limit
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	views, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	response.JSON(c, http.StatusOK, views, pagination)
}

// Get returns one order with its live fulfillment breakdown.
func (h *OrderHandler) Get(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Create registers a new pending order.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	ord, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ord)
}
