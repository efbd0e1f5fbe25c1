package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/millworks/planboard-api/internal/models"
)

// CapacityRepository reads configured capacity rules. Rules are admin data:
// the scheduling core never writes them.
type CapacityRepository struct {
	db *sqlx.DB
}

// NewCapacityRepository creates a new capacity repository.
func NewCapacityRepository(db *sqlx.DB) *CapacityRepository {
	return &CapacityRepository{db: db}
}

// ListActive returns every active capacity rule.
func (r *CapacityRepository) ListActive(ctx context.Context) ([]models.CapacityRule, error) {
	const query = `SELECT id, plant, shift, product_name, max_capacity, active, created_at
FROM capacity_rules WHERE active = TRUE ORDER BY plant ASC, shift ASC, product_name ASC NULLS FIRST`
	var rules []models.CapacityRule
	if err := r.db.SelectContext(ctx, &rules, query); err != nil {
		return nil, fmt.Errorf("list capacity rules: %w", err)
	}
	return rules, nil
}
