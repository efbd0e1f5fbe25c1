package service

import (
	"math"
	"time"

	"github.com/millworks/planboard-api/internal/models"
)

// dayOf truncates a timestamp to its UTC date portion. All lateness
// comparisons operate on date portions only.
func dayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IsLateOrder reports whether an order is overdue right now: required_by is
// set, the order is not completed, and the required date has passed relative
// to today.
func IsLateOrder(ord models.Order, today time.Time) bool {
	if ord.RequiredBy == nil || ord.Status == models.OrderStatusCompleted {
		return false
	}
	return dayOf(*ord.RequiredBy).Before(dayOf(today))
}

// IsLatePlanned reports planning-time lateness for a slot assignment: the
// slot it is scheduled into falls after its required date. This is distinct
// from IsLateOrder and deliberately ignores today's date — an assignment
// scheduled past its required_by is late even before the calendar catches up.
func IsLatePlanned(a models.SlotAssignment) bool {
	if a.RequiredBy == nil {
		return false
	}
	if ComputeStatus(a).Status == models.SlotStatusCompleted {
		return false
	}
	return dayOf(*a.RequiredBy).Before(dayOf(a.Date))
}

// IsLateAssignmentNow reports whether a slot assignment is overdue against
// today, mirroring the order-list predicate for board display.
func IsLateAssignmentNow(a models.SlotAssignment, today time.Time) bool {
	if a.RequiredBy == nil {
		return false
	}
	if ComputeStatus(a).Status == models.SlotStatusCompleted {
		return false
	}
	return dayOf(*a.RequiredBy).Before(dayOf(today))
}

// ComputeStatus derives the completion state of a slot assignment from its
// quantities.
func ComputeStatus(a models.SlotAssignment) models.SlotStatus {
	percent := 0
	if a.Quantity > 0 {
		percent = int(math.Round(a.FulfilledQty / a.Quantity * 100))
	}
	if a.FulfilledQty >= a.Quantity && a.Quantity > 0 {
		return models.SlotStatus{Status: models.SlotStatusCompleted, Percent: percent}
	}
	return models.SlotStatus{Status: models.SlotStatusInProgress, Percent: percent}
}

// IsSplit reports whether an order is currently a split order: flagged as
// split and still only partially fulfilled. Once fulfillment catches up the
// flag stops reporting.
func IsSplit(ord models.Order) bool {
	return ord.IsSplitOrder && ord.FulfilledQuantity < ord.Quantity
}

// BuildSlotView annotates an assignment with every classifier flag the
// schedule board renders.
func BuildSlotView(a models.SlotAssignment, today time.Time) models.SlotAssignmentView {
	return models.SlotAssignmentView{
		SlotAssignment: a,
		Status:         ComputeStatus(a),
		LateNow:        IsLateAssignmentNow(a, today),
		PlanningLate:   IsLatePlanned(a),
		SplitDetected:  a.IsSplitOrder && a.FulfilledQty < a.Quantity,
	}
}
