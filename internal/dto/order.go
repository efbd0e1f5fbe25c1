package dto

import "github.com/millworks/planboard-api/internal/models"

// CreateOrderRequest registers a new pending order.
type CreateOrderRequest struct {
	OrderNumber  string  `json:"orderNumber" validate:"required"`
	CustomerName string  `json:"customerName" validate:"required"`
	ProductName  string  `json:"productName" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"gt=0"`
	UOM          string  `json:"uom" validate:"required"`
	Plant        string  `json:"plant" validate:"required"`
	RequiredBy   string  `json:"requiredBy" validate:"omitempty,datetime=2006-01-02"`
}

// OrderDetail is the order detail view: the annotated order plus its live
// fulfillment breakdown.
type OrderDetail struct {
	Order       models.OrderView            `json:"order"`
	Fulfillment models.FulfillmentBreakdown `json:"fulfillment"`
}
