package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// FulfillmentRepository aggregates inventory-stock and shift-production
// volumes recorded against an order. Sums are null-safe: absent rows and
// null quantities contribute zero.
type FulfillmentRepository struct {
	db *sqlx.DB
}

// NewFulfillmentRepository creates a new fulfillment repository.
func NewFulfillmentRepository(db *sqlx.DB) *FulfillmentRepository {
	return &FulfillmentRepository{db: db}
}

// SumInventoryForOrder returns the total stock quantity booked against an
// order number.
func (r *FulfillmentRepository) SumInventoryForOrder(ctx context.Context, orderNumber string) (float64, error) {
	const query = `SELECT COALESCE(SUM(COALESCE(quantity, 0)), 0) FROM inventory_stock WHERE order_number = $1`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, orderNumber); err != nil {
		return 0, fmt.Errorf("sum inventory for order: %w", err)
	}
	return total, nil
}

// SumProductionForOrder returns the total shift-production quantity recorded
// against an order number.
func (r *FulfillmentRepository) SumProductionForOrder(ctx context.Context, orderNumber string) (float64, error) {
	const query = `SELECT COALESCE(SUM(COALESCE(quantity, 0)), 0) FROM shift_production WHERE order_number = $1`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, orderNumber); err != nil {
		return 0, fmt.Errorf("sum production for order: %w", err)
	}
	return total, nil
}
