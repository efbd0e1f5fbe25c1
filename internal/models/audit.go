package models

import "time"

// Audit actions emitted by the scheduling core.
const (
	AuditActionReslot = "RESLOT"
	AuditActionLock   = "LOCK"
)

// RescheduleAudit records one slot move or lock. The core only appends these
// entries; the audit log screen reads them back through its own endpoint.
type RescheduleAudit struct {
	ID          string    `db:"id" json:"id"`
	OrderNumber string    `db:"order_number" json:"order_number"`
	Action      string    `db:"action" json:"action"`
	OldPlant    Plant     `db:"old_plant" json:"old_plant"`
	OldShift    Shift     `db:"old_shift" json:"old_shift"`
	OldDate     time.Time `db:"old_date" json:"old_date"`
	NewPlant    Plant     `db:"new_plant" json:"new_plant"`
	NewShift    Shift     `db:"new_shift" json:"new_shift"`
	NewDate     time.Time `db:"new_date" json:"new_date"`
	ChangedBy   string    `db:"changed_by" json:"changed_by"`
	ChangedAt   time.Time `db:"changed_at" json:"changed_at"`
}
