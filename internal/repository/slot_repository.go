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

const slotColumns = "id, order_number, product_name, plant, shift, date, quantity, uom, required_by, locked, fulfilled_qty, pending_qty, is_split_order, original_date, created_at, updated_at"

// SlotRepository provides persistence for slot assignments. Assignments are
// planning records of truth and are never deleted here.
type SlotRepository struct {
	db *sqlx.DB
}

// NewSlotRepository creates a new slot assignment repository.
func NewSlotRepository(db *sqlx.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

func (r *SlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns slot assignments with optional filtering and pagination.
func (r *SlotRepository) List(ctx context.Context, filter models.SlotAssignmentFilter) ([]models.SlotAssignment, int, error) {
	base := "FROM slot_assignments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.OrderNumber != "" {
		conditions = append(conditions, fmt.Sprintf("order_number = $%d", len(args)+1))
		args = append(args, filter.OrderNumber)
	}
	if filter.Plant != "" {
		conditions = append(conditions, fmt.Sprintf("plant = $%d", len(args)+1))
		args = append(args, filter.Plant)
	}
	if filter.Shift != "" {
		conditions = append(conditions, fmt.Sprintf("shift = $%d", len(args)+1))
		args = append(args, filter.Shift)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date < $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}
	if filter.LockedOnly {
		conditions = append(conditions, "locked = TRUE")
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 200
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY date ASC, shift ASC, order_number ASC LIMIT %d OFFSET %d", slotColumns, base, size, offset)
	var assignments []models.SlotAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list slot assignments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count slot assignments: %w", err)
	}

	return assignments, total, nil
}

// FindByID loads a slot assignment by id.
func (r *SlotRepository) FindByID(ctx context.Context, id string) (*models.SlotAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM slot_assignments WHERE id = $1", slotColumns)
	var assignment models.SlotAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByOrder returns the most recent assignment for an order, if any.
func (r *SlotRepository) FindByOrder(ctx context.Context, orderNumber string) (*models.SlotAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM slot_assignments WHERE order_number = $1 ORDER BY created_at DESC LIMIT 1", slotColumns)
	var assignment models.SlotAssignment
	if err := r.db.GetContext(ctx, &assignment, query, orderNumber); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListBySlot returns every assignment occupying one (plant, shift, date) slot.
func (r *SlotRepository) ListBySlot(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) ([]models.SlotAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM slot_assignments WHERE plant = $1 AND shift = $2 AND date = $3 ORDER BY order_number ASC", slotColumns)
	var assignments []models.SlotAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, plant, shift, date); err != nil {
		return nil, fmt.Errorf("list assignments by slot: %w", err)
	}
	return assignments, nil
}

// ListByPlantRange returns assignments for a plant within [from, to), used by
// the suggestion heuristic to compute slot loads in one round trip.
func (r *SlotRepository) ListByPlantRange(ctx context.Context, plant models.Plant, from, to time.Time) ([]models.SlotAssignment, error) {
	query := fmt.Sprintf("SELECT %s FROM slot_assignments WHERE plant = $1 AND date >= $2 AND date < $3", slotColumns)
	var assignments []models.SlotAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, plant, from, to); err != nil {
		return nil, fmt.Errorf("list assignments by plant range: %w", err)
	}
	return assignments, nil
}

// SumQuantityBySlot returns the total quantity assigned to one slot.
func (r *SlotRepository) SumQuantityBySlot(ctx context.Context, plant models.Plant, shift models.Shift, date time.Time) (float64, error) {
	const query = `SELECT COALESCE(SUM(quantity), 0) FROM slot_assignments WHERE plant = $1 AND shift = $2 AND date = $3`
	var total float64
	if err := r.db.GetContext(ctx, &total, query, plant, shift, date); err != nil {
		return 0, fmt.Errorf("sum slot quantity: %w", err)
	}
	return total, nil
}

// Create stores a new slot assignment. It participates in an enclosing
// transaction when exec is non-nil.
func (r *SlotRepository) Create(ctx context.Context, exec sqlx.ExtContext, assignment *models.SlotAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	assignment.PendingQty = assignment.Quantity - assignment.FulfilledQty
	if assignment.PendingQty < 0 {
		assignment.PendingQty = 0
	}

	const query = `
INSERT INTO slot_assignments (id, order_number, product_name, plant, shift, date, quantity, uom, required_by, locked, fulfilled_qty, pending_qty, is_split_order, original_date, created_at, updated_at)
VALUES (:id, :order_number, :product_name, :plant, :shift, :date, :quantity, :uom, :required_by, :locked, :fulfilled_qty, :pending_qty, :is_split_order, :original_date, :created_at, :updated_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, assignment); err != nil {
		return fmt.Errorf("create slot assignment: %w", err)
	}
	return nil
}

// BulkCreateWithTx inserts a batch of assignments inside the supplied
// transaction.
func (r *SlotRepository) BulkCreateWithTx(ctx context.Context, tx *sqlx.Tx, assignments []models.SlotAssignment) error {
	for i := range assignments {
		if err := r.Create(ctx, tx, &assignments[i]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateSlot moves an assignment to a new (plant, shift, date). The update is
// guarded by locked = FALSE so a concurrent lock wins the race; callers must
// treat zero affected rows as a locked assignment.
func (r *SlotRepository) UpdateSlot(ctx context.Context, exec sqlx.ExtContext, id string, plant models.Plant, shift models.Shift, date time.Time) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx,
		"UPDATE slot_assignments SET plant = $1, shift = $2, date = $3, updated_at = $4 WHERE id = $5 AND locked = FALSE",
		plant, shift, date, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("update slot assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update slot assignment rows: %w", err)
	}
	return affected, nil
}

// Reassign moves an assignment to a new slot and rewrites its quantity,
// recomputing pending_qty. Same locked = FALSE guard as UpdateSlot.
func (r *SlotRepository) Reassign(ctx context.Context, exec sqlx.ExtContext, id string, plant models.Plant, shift models.Shift, date time.Time, quantity float64) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx,
		"UPDATE slot_assignments SET plant = $1, shift = $2, date = $3, quantity = $4, pending_qty = GREATEST($4 - fulfilled_qty, 0), updated_at = $5 WHERE id = $6 AND locked = FALSE",
		plant, shift, date, quantity, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("reassign slot assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reassign slot assignment rows: %w", err)
	}
	return affected, nil
}

// Lock freezes an assignment with a compare-and-set on locked = FALSE. Zero
// affected rows means another actor locked it first; the caller treats that
// as a no-op, never a failure.
func (r *SlotRepository) Lock(ctx context.Context, exec sqlx.ExtContext, id string, fulfilled, pending float64, isSplit bool) (int64, error) {
	res, err := r.exec(exec).ExecContext(ctx,
		"UPDATE slot_assignments SET locked = TRUE, fulfilled_qty = $1, pending_qty = $2, is_split_order = $3, updated_at = $4 WHERE id = $5 AND locked = FALSE",
		fulfilled, pending, isSplit, time.Now().UTC(), id)
	if err != nil {
		return 0, fmt.Errorf("lock slot assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("lock slot assignment rows: %w", err)
	}
	return affected, nil
}

// RollForward re-dates every stale, unlocked assignment whose order is not
// completed to the given day and returns the moved rows. original_date is
// only written on the first roll; later rolls keep the first-seen date.
// Running it twice with the same day is a no-op on the second pass.
func (r *SlotRepository) RollForward(ctx context.Context, today time.Time) ([]models.SlotAssignment, error) {
	query := fmt.Sprintf(`
UPDATE slot_assignments
SET original_date = COALESCE(original_date, date),
    date = $1,
    updated_at = $2
WHERE locked = FALSE
  AND date < $1
  AND order_number NOT IN (SELECT order_number FROM orders WHERE status = $3)
RETURNING %s`, slotColumns)

	var rolled []models.SlotAssignment
	if err := r.db.SelectContext(ctx, &rolled, query, today, time.Now().UTC(), models.OrderStatusCompleted); err != nil {
		return nil, fmt.Errorf("roll forward stale assignments: %w", err)
	}
	return rolled, nil
}
