package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/millworks/planboard-api/internal/dto"
	"github.com/millworks/planboard-api/internal/models"
	appErrors "github.com/millworks/planboard-api/pkg/errors"
)

type orderRepository interface {
	List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error)
	FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	Create(ctx context.Context, ord *models.Order) error
}

// OrderService serves the order list and detail views. Orders arrive from
// order entry upstream; this service reads them and annotates lateness and
// split flags for display.
type OrderService struct {
	repo        orderRepository
	fulfillment *FulfillmentService
	validate    *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewOrderService constructs an order service.
func NewOrderService(repo orderRepository, fulfillment *FulfillmentService, validate *validator.Validate, logger *zap.Logger) *OrderService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:        repo,
		fulfillment: fulfillment,
		validate:    validate,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns annotated orders matching the filter plus the total count.
func (s *OrderService) List(ctx context.Context, filter models.OrderFilter) ([]models.OrderView, int, error) {
	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list orders")
	}
	today := s.now()
	views := make([]models.OrderView, 0, len(orders))
	for _, ord := range orders {
		views = append(views, models.OrderView{
			Order:   ord,
			IsLate:  IsLateOrder(ord, today),
			IsSplit: IsSplit(ord),
		})
	}
	return views, total, nil
}

// Get returns one annotated order with its live fulfillment breakdown.
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*dto.OrderDetail, error) {
	ord, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("order %s not found", orderNumber))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load order")
	}
	breakdown, err := s.fulfillment.BreakdownForOrder(ctx, ord)
	if err != nil {
		return nil, err
	}
	today := s.now()
	return &dto.OrderDetail{
		Order: models.OrderView{
			Order:   *ord,
			IsLate:  IsLateOrder(*ord, today),
			IsSplit: IsSplit(*ord),
		},
		Fulfillment: *breakdown,
	}, nil
}

// Create stores a new pending order.
func (s *OrderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*models.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid order")
	}
	plant, ok := models.ParsePlant(req.Plant)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown plant %q", req.Plant))
	}
	ord := &models.Order{
		OrderNumber:  req.OrderNumber,
		CustomerName: req.CustomerName,
		ProductName:  req.ProductName,
		Quantity:     req.Quantity,
		UOM:          req.UOM,
		Plant:        plant,
		Status:       models.OrderStatusPending,
	}
	if req.RequiredBy != "" {
		requiredBy, parseErr := time.ParseInLocation("2006-01-02", req.RequiredBy, time.UTC)
		if parseErr != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid required_by date %q", req.RequiredBy))
		}
		ord.RequiredBy = &requiredBy
	}
	if err := s.repo.Create(ctx, ord); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create order")
	}
	s.logger.Info("order created",
		zap.String("order_number", ord.OrderNumber),
		zap.String("plant", string(ord.Plant)),
		zap.Float64("quantity", ord.Quantity))
	return ord, nil
}
