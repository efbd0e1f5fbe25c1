package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/millworks/planboard-api/internal/models"
)

// AuditRepository appends reschedule audit entries. The scheduling core is
// write-only here; the audit log screen reads through List.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository creates a new audit repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Append stores one audit entry, joining an enclosing transaction when exec
// is non-nil.
func (r *AuditRepository) Append(ctx context.Context, exec sqlx.ExtContext, entry *models.RescheduleAudit) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.ChangedAt.IsZero() {
		entry.ChangedAt = time.Now().UTC()
	}
	if entry.ChangedBy == "" {
		entry.ChangedBy = "system"
	}

	const query = `
INSERT INTO reschedule_audit (id, order_number, action, old_plant, old_shift, old_date, new_plant, new_shift, new_date, changed_by, changed_at)
VALUES (:id, :order_number, :action, :old_plant, :old_shift, :old_date, :new_plant, :new_shift, :new_date, :changed_by, :changed_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, entry); err != nil {
		return fmt.Errorf("append reschedule audit: %w", err)
	}
	return nil
}

// List returns audit entries, newest first.
func (r *AuditRepository) List(ctx context.Context, page, pageSize int) ([]models.RescheduleAudit, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, order_number, action, old_plant, old_shift, old_date, new_plant, new_shift, new_date, changed_by, changed_at
FROM reschedule_audit ORDER BY changed_at DESC LIMIT %d OFFSET %d`, pageSize, offset)
	var entries []models.RescheduleAudit
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, 0, fmt.Errorf("list reschedule audit: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM reschedule_audit"); err != nil {
		return nil, 0, fmt.Errorf("count reschedule audit: %w", err)
	}
	return entries, total, nil
}
