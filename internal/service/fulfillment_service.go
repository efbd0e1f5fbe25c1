package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type fulfillmentSumReader interface {
	SumInventoryForOrder(ctx context.Context, orderNumber string) (float64, error)
	SumProductionForOrder(ctx context.Context, orderNumber string) (float64, error)
}

type fulfillmentOrderReader interface {
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

// FulfillmentService computes how much of an order has been satisfied from
// warehouse stock and recorded shift production. Fulfillment is always
// derived fresh from the two source tables; nothing here is persisted.
type FulfillmentService struct {
	sums   fulfillmentSumReader
	orders fulfillmentOrderReader
	logger *zap.Logger
}

// NewFulfillmentService constructs a fulfillment service.
func NewFulfillmentService(sums fulfillmentSumReader, orders fulfillmentOrderReader, logger *zap.Logger) *FulfillmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FulfillmentService{sums: sums, orders: orders, logger: logger}
}

// Breakdown computes the fulfillment state of one order. Remaining never goes
// negative; over-delivery is surfaced through the OverFulfilled flag instead.
func (s *FulfillmentService) Breakdown(ctx context.Context, orderNumber string) (*models.FulfillmentBreakdown, error) {
	ord, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "order not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	return s.BreakdownForOrder(ctx, ord)
}

// BreakdownForOrder computes fulfillment for an already loaded order.
func (s *FulfillmentService) BreakdownForOrder(ctx context.Context, ord *models.Order) (*models.FulfillmentBreakdown, error) {
	fromStock, err := s.sums.SumInventoryForOrder(ctx, ord.OrderNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum inventory allocations")
	}
	fromProduction, err := s.sums.SumProductionForOrder(ctx, ord.OrderNumber)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum production entries")
	}

	total := fromStock + fromProduction
	remaining := ord.Quantity - total
	if remaining < 0 {
		remaining = 0
	}

	return &models.FulfillmentBreakdown{
		OrderNumber:    ord.OrderNumber,
		FromStock:      fromStock,
		FromProduction: fromProduction,
		FulfilledTotal: total,
		Remaining:      remaining,
		TotalRequested: ord.Quantity,
		OverFulfilled:  total > ord.Quantity,
	}, nil
}
