package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type fakeFulfillmentSums struct {
	stock      float64
	production float64
	calls      int
}

func (f *fakeFulfillmentSums) SumInventoryForOrder(context.Context, string) (float64, error) {
	f.calls++
	return f.stock, nil
}

func (f *fakeFulfillmentSums) SumProductionForOrder(context.Context, string) (float64, error) {
	return f.production, nil
}

type fakeOrderFinder struct {
	order *models.Order
	err   error
}

func (f *fakeOrderFinder) FindByNumber(context.Context, string) (*models.Order, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.order, nil
}

func TestFulfillmentBreakdown(t *testing.T) {
	sums := &fakeFulfillmentSums{stock: 30, production: 40}
	orders := &fakeOrderFinder{order: &models.Order{OrderNumber: "SO-100", Quantity: 100}}
	svc := NewFulfillmentService(sums, orders, nil)

	breakdown, err := svc.Breakdown(context.Background(), "SO-100")
	require.NoError(t, err)

	assert.Equal(t, 30.0, breakdown.FromStock)
	assert.Equal(t, 40.0, breakdown.FromProduction)
	assert.Equal(t, 70.0, breakdown.FulfilledTotal)
	assert.Equal(t, 30.0, breakdown.Remaining)
	assert.Equal(t, 100.0, breakdown.TotalRequested)
	assert.False(t, breakdown.OverFulfilled)
}

func TestFulfillmentRemainingNeverNegative(t *testing.T) {
	sums := &fakeFulfillmentSums{stock: 80, production: 50}
	orders := &fakeOrderFinder{order: &models.Order{OrderNumber: "SO-101", Quantity: 100}}
	svc := NewFulfillmentService(sums, orders, nil)

	breakdown, err := svc.Breakdown(context.Background(), "SO-101")
	require.NoError(t, err)

	assert.Equal(t, 0.0, breakdown.Remaining)
	assert.Equal(t, 130.0, breakdown.FulfilledTotal)
	assert.True(t, breakdown.OverFulfilled)
}

func TestFulfillmentIdempotent(t *testing.T) {
	sums := &fakeFulfillmentSums{stock: 10, production: 20}
	orders := &fakeOrderFinder{order: &models.Order{OrderNumber: "SO-102", Quantity: 60}}
	svc := NewFulfillmentService(sums, orders, nil)

	first, err := svc.Breakdown(context.Background(), "SO-102")
	require.NoError(t, err)
	second, err := svc.Breakdown(context.Background(), "SO-102")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFulfillmentOrderNotFound(t *testing.T) {
	svc := NewFulfillmentService(&fakeFulfillmentSums{}, &fakeOrderFinder{err: sql.ErrNoRows}, nil)

	_, err := svc.Breakdown(context.Background(), "SO-404")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSplitDetectionAcrossFulfillmentRise(t *testing.T) {
	sums := &fakeFulfillmentSums{stock: 30, production: 40}
	orders := &fakeOrderFinder{order: &models.Order{OrderNumber: "SO-103", Quantity: 100}}
	svc := NewFulfillmentService(sums, orders, nil)

	breakdown, err := svc.Breakdown(context.Background(), "SO-103")
	require.NoError(t, err)
	assert.Equal(t, 30.0, breakdown.Remaining)
	assert.Equal(t, 70.0, breakdown.FulfilledTotal)

	ord := models.Order{Quantity: 100, FulfilledQuantity: breakdown.FulfilledTotal, IsSplitOrder: true}
	assert.True(t, IsSplit(ord))

	// Production catches up; the split flag stops reporting.
	sums.production = 70
	breakdown, err = svc.Breakdown(context.Background(), "SO-103")
	require.NoError(t, err)
	assert.Equal(t, 100.0, breakdown.FulfilledTotal)

	ord.FulfilledQuantity = breakdown.FulfilledTotal
	assert.False(t, IsSplit(ord))
}
