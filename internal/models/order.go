package models

import "time"

// OrderStatus tracks the scheduling lifecycle of a customer order. Status
// only moves forward: Pending -> Scheduled -> Completed.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusScheduled OrderStatus = "Scheduled"
	OrderStatusCompleted OrderStatus = "Completed"
)

// CanTransitionTo reports whether the status may move to the target state.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusScheduled || target == OrderStatusCompleted
	case OrderStatusScheduled:
		return target == OrderStatusCompleted
	default:
		return false
	}
}

// Order is a customer request for a quantity of a product by a required date.
// Orders are never deleted, only superseded.
type Order struct {
	ID                string      `db:"id" json:"id"`
	OrderNumber       string      `db:"order_number" json:"order_number"`
	CustomerName      string      `db:"customer_name" json:"customer_name"`
	ProductName       string      `db:"product_name" json:"product_name"`
	Quantity          float64     `db:"quantity" json:"quantity"`
	UOM               string      `db:"uom" json:"uom"`
	Plant             Plant       `db:"plant" json:"plant"`
	RequiredBy        *time.Time  `db:"required_by" json:"required_by,omitempty"`
	Status            OrderStatus `db:"status" json:"status"`
	IsSplitOrder      bool        `db:"is_split_order" json:"is_split_order"`
	FulfilledQuantity float64     `db:"fulfilled_quantity" json:"fulfilled_quantity"`
	CreatedAt         time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time   `db:"updated_at" json:"updated_at"`
}

// OrderFilter describes query params for listing orders.
type OrderFilter struct {
	Status      OrderStatus
	Plant       Plant
	ProductName string
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

// OrderView is an order annotated with display flags derived by the
// lateness/status classifier.
type OrderView struct {
	Order
	IsLate  bool `json:"is_late"`
	IsSplit bool `json:"is_split"`
}
