package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/millworks/planboard-api/internal/models"
)

const orderColumns = "id, order_number, customer_name, product_name, quantity, uom, plant, required_by, status, is_split_order, fulfilled_quantity, created_at, updated_at"

// OrderRepository provides persistence for customer orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// List returns orders with optional filtering and pagination.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	base := "FROM orders WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Plant != "" {
		conditions = append(conditions, fmt.Sprintf("plant = $%d", len(args)+1))
		args = append(args, filter.Plant)
	}
	if filter.ProductName != "" {
		conditions = append(conditions, fmt.Sprintf("product_name = $%d", len(args)+1))
		args = append(args, filter.ProductName)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{
		"order_number": true,
		"required_by":  true,
		"created_at":   true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", orderColumns, base, sortBy, order, size, offset)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	return orders, total, nil
}

// FindByNumber loads an order by its stable order number.
func (r *OrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE order_number = $1", orderColumns)
	var ord models.Order
	if err := r.db.GetContext(ctx, &ord, query, orderNumber); err != nil {
		return nil, err
	}
	return &ord, nil
}

// FindByNumbers loads the orders matching the given order numbers.
func (r *OrderRepository) FindByNumbers(ctx context.Context, orderNumbers []string) ([]models.Order, error) {
	if len(orderNumbers) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM orders WHERE order_number IN (?)", orderColumns), orderNumbers)
	if err != nil {
		return nil, fmt.Errorf("build order lookup: %w", err)
	}
	query = r.db.Rebind(query)
	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("find orders by numbers: %w", err)
	}
	return orders, nil
}

// Create stores a new order record.
func (r *OrderRepository) Create(ctx context.Context, ord *models.Order) error {
	if ord.ID == "" {
		ord.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if ord.CreatedAt.IsZero() {
		ord.CreatedAt = now
	}
	ord.UpdatedAt = now
	if ord.Status == "" {
		ord.Status = models.OrderStatusPending
	}

	const query = `
INSERT INTO orders (id, order_number, customer_name, product_name, quantity, uom, plant, required_by, status, is_split_order, fulfilled_quantity, created_at, updated_at)
VALUES (:id, :order_number, :customer_name, :product_name, :quantity, :uom, :plant, :required_by, :status, :is_split_order, :fulfilled_quantity, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, ord); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// UpdateStatus moves an order to a new status. It participates in an
// enclosing transaction when exec is non-nil.
func (r *OrderRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, orderNumber string, status models.OrderStatus) (int64, error) {
	target := r.exec(exec)
	res, err := target.ExecContext(ctx,
		"UPDATE orders SET status = $1, updated_at = $2 WHERE order_number = $3",
		status, time.Now().UTC(), orderNumber)
	if err != nil {
		return 0, fmt.Errorf("update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update order status rows: %w", err)
	}
	return affected, nil
}

// MarkSplit flags an order as partially fulfilled for human review.
func (r *OrderRepository) MarkSplit(ctx context.Context, orderNumber string, isSplit bool) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE orders SET is_split_order = $1, updated_at = $2 WHERE order_number = $3",
		isSplit, time.Now().UTC(), orderNumber); err != nil {
		return fmt.Errorf("mark split order: %w", err)
	}
	return nil
}

func (r *OrderRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}
