package dto

import (
	"time"

	"github.com/millworks/planboard-api/internal/models"
)

// AssignRequest binds one order onto a (plant, shift, date) slot.
type AssignRequest struct {
	OrderNumber string  `json:"orderNumber" validate:"required"`
	Plant       string  `json:"plant" validate:"required"`
	Shift       string  `json:"shift" validate:"required"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
}

// AssignResponse carries the stored assignment plus capacity warnings.
// Overbooking and missing capacity configuration are successful outcomes
// with flags, never hard failures.
type AssignResponse struct {
	Assignment       models.SlotAssignment       `json:"assignment"`
	CapacityUnknown  bool                        `json:"capacity_unknown"`
	CapacityExceeded bool                        `json:"capacity_exceeded"`
	Utilization      *models.UtilizationSnapshot `json:"utilization,omitempty"`
}

// ReslotRequest moves an unlocked assignment to a new slot.
type ReslotRequest struct {
	Plant     string `json:"plant" validate:"required"`
	Shift     string `json:"shift" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	ChangedBy string `json:"changedBy"`
}

// LockRequest freezes an assignment. Locking an already locked assignment is
// a no-op.
type LockRequest struct {
	ChangedBy string `json:"changedBy"`
}

// BulkAssignRequest applies one (shift, date) to many pending orders in a
// single transaction-like batch.
type BulkAssignRequest struct {
	OrderNumbers []string `json:"orderNumbers" validate:"required,min=1,dive,required"`
	Shift        string   `json:"shift" validate:"required"`
	Date         string   `json:"date" validate:"required,datetime=2006-01-02"`
}

// BulkAssignResponse reports the assignments created for the batch.
type BulkAssignResponse struct {
	Assignments []models.SlotAssignment `json:"assignments"`
	Scheduled   []string                `json:"scheduled"`
}

// SuggestedSlot is the least-loaded candidate returned by the suggestion
// heuristic.
type SuggestedSlot struct {
	Plant       models.Plant `json:"plant"`
	Shift       models.Shift `json:"shift"`
	Date        time.Time    `json:"date"`
	Utilization float64      `json:"utilization_percent"`
}

// SuggestResponse wraps a suggestion. Slot is nil when no candidate in the
// lookahead window has any defined capacity.
type SuggestResponse struct {
	OrderNumber string         `json:"order_number"`
	Slot        *SuggestedSlot `json:"slot,omitempty"`
	WindowDays  int            `json:"window_days"`
}

// BoardResponse is one full schedule board refresh: every assignment in the
// window annotated for display, plus the jobs rolled forward during this
// refresh.
type BoardResponse struct {
	Assignments []models.SlotAssignmentView `json:"assignments"`
	RolledJobs  []models.SlotAssignment     `json:"rolled_jobs"`
	WindowStart time.Time                   `json:"window_start"`
	WindowDays  int                         `json:"window_days"`
}
