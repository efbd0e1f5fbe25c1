package models

import "time"

// SlotAssignment binds one order (or part of one) to a (plant, shift, date)
// slot. Assignments are planning records of truth: they are never physically
// deleted, and once locked their slot and quantity are frozen.
//
// OrderNumber is a weak reference to the order, not ownership. RequiredBy is
// a denormalized copy of the order's date so lateness checks do not need an
// order lookup. OriginalDate is set by the first roll-forward and never
// overwritten by later rolls.
type SlotAssignment struct {
	ID           string     `db:"id" json:"id"`
	OrderNumber  string     `db:"order_number" json:"order_number"`
	ProductName  string     `db:"product_name" json:"product_name"`
	Plant        Plant      `db:"plant" json:"plant"`
	Shift        Shift      `db:"shift" json:"shift"`
	Date         time.Time  `db:"date" json:"date"`
	Quantity     float64    `db:"quantity" json:"quantity"`
	UOM          string     `db:"uom" json:"uom"`
	RequiredBy   *time.Time `db:"required_by" json:"required_by,omitempty"`
	Locked       bool       `db:"locked" json:"locked"`
	FulfilledQty float64    `db:"fulfilled_qty" json:"fulfilled_qty"`
	PendingQty   float64    `db:"pending_qty" json:"pending_qty"`
	IsSplitOrder bool       `db:"is_split_order" json:"is_split_order"`
	OriginalDate *time.Time `db:"original_date" json:"original_date,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`

	// IsRollForward is a transient read-time annotation set by the
	// roll-forward engine; it is not persisted.
	IsRollForward bool `db:"-" json:"is_roll_forward"`
}

// SlotKey identifies one schedulable production window.
type SlotKey struct {
	Plant Plant     `json:"plant"`
	Shift Shift     `json:"shift"`
	Date  time.Time `json:"date"`
}

// SlotAssignmentFilter describes query params for listing slot assignments.
type SlotAssignmentFilter struct {
	OrderNumber string
	Plant       Plant
	Shift       Shift
	DateFrom    *time.Time
	DateTo      *time.Time
	LockedOnly  bool
	Page        int
	PageSize    int
}

// SlotStatus is the derived completion state of one assignment.
type SlotStatus struct {
	Status  string `json:"status"`
	Percent int    `json:"percent"`
}

const (
	SlotStatusCompleted  = "Completed"
	SlotStatusInProgress = "In Progress"
)

// SlotAssignmentView is an assignment annotated with classifier flags for
// the schedule board.
type SlotAssignmentView struct {
	SlotAssignment
	Status        SlotStatus `json:"slot_status"`
	LateNow       bool       `json:"late_now"`
	PlanningLate  bool       `json:"planning_late"`
	SplitDetected bool       `json:"split_detected"`
}

// BulkAssignFailure records one order that could not be scheduled in a bulk
// batch, with enough context to render an actionable message.
type BulkAssignFailure struct {
	OrderNumber string `json:"order_number"`
	Reason      string `json:"reason"`
}

// BulkAssignError reports a partially failed bulk assignment. The underlying
// transaction is rolled back before this is returned, so no order is ever
// left marked Scheduled without a matching slot assignment.
type BulkAssignError struct {
	Succeeded []string            `json:"succeeded"`
	Failed    []BulkAssignFailure `json:"failed"`
}

// Error implements the error interface.
func (e *BulkAssignError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return "bulk assignment failed for one or more orders"
}
