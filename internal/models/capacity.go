package models

import "time"

// CapacityRule is the configured maximum throughput for one (plant, shift)
// pair, optionally narrowed to a single product. At most one active rule
// exists per (plant, shift, product) key. Rules are admin data, read-only to
// the scheduling core.
type CapacityRule struct {
	ID          string    `db:"id" json:"id"`
	Plant       Plant     `db:"plant" json:"plant"`
	Shift       Shift     `db:"shift" json:"shift"`
	ProductName *string   `db:"product_name" json:"product_name,omitempty"`
	MaxCapacity float64   `db:"max_capacity" json:"max_capacity"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// CapacitySource records where a capacity figure came from, so the UI can
// show "capacity not configured" instead of silently hiding the condition.
type CapacitySource string

const (
	CapacitySourceRule     CapacitySource = "rule"
	CapacitySourceProduct  CapacitySource = "product_rule"
	CapacitySourceFallback CapacitySource = "fallback"
	CapacitySourceNone     CapacitySource = "none"
)

// DefaultCapacityMatrix is the static fallback used when no capacity rule is
// configured for a slot. Figures mirror the plant commissioning defaults.
func DefaultCapacityMatrix() []CapacityRule {
	return []CapacityRule{
		{Plant: PlantPineMill, Shift: ShiftMorning, MaxCapacity: 20, Active: true},
		{Plant: PlantPineMill, Shift: ShiftAfternoon, MaxCapacity: 10, Active: true},
		{Plant: PlantPineMill, Shift: ShiftNight, MaxCapacity: 20, Active: true},
		{Plant: PlantHardwoodMill, Shift: ShiftMorning, MaxCapacity: 15, Active: true},
		{Plant: PlantHardwoodMill, Shift: ShiftAfternoon, MaxCapacity: 15, Active: true},
		{Plant: PlantHardwoodMill, Shift: ShiftNight, MaxCapacity: 15, Active: true},
		{Plant: PlantRoundingMill, Shift: ShiftMorning, MaxCapacity: 12, Active: true},
		{Plant: PlantRoundingMill, Shift: ShiftAfternoon, MaxCapacity: 12, Active: true},
		{Plant: PlantRoundingMill, Shift: ShiftNight, MaxCapacity: 12, Active: true},
		{Plant: PlantDestripShed, Shift: ShiftMorning, MaxCapacity: 8, Active: true},
		{Plant: PlantDestripShed, Shift: ShiftAfternoon, MaxCapacity: 8, Active: true},
		{Plant: PlantDestripShed, Shift: ShiftNight, MaxCapacity: 8, Active: true},
	}
}

// UtilizationSeverity bands utilization percentages for display.
type UtilizationSeverity string

const (
	UtilizationNormal   UtilizationSeverity = "normal"
	UtilizationElevated UtilizationSeverity = "elevated"
	UtilizationHigh     UtilizationSeverity = "high"
	UtilizationOver     UtilizationSeverity = "over"
)

// SeverityForPercent maps a utilization percentage onto a display band.
func SeverityForPercent(pct float64) UtilizationSeverity {
	switch {
	case pct > 100:
		return UtilizationOver
	case pct >= 90:
		return UtilizationHigh
	case pct >= 70:
		return UtilizationElevated
	default:
		return UtilizationNormal
	}
}

// UtilizationSnapshot is a derived, read-side view of one slot's load against
// its capacity. It is never persisted.
type UtilizationSnapshot struct {
	Plant         Plant               `json:"plant"`
	Shift         Shift               `json:"shift"`
	Date          time.Time           `json:"date"`
	Load          float64             `json:"load"`
	MaxCapacity   float64             `json:"max_capacity"`
	Percent       float64             `json:"percent"`
	CapacityKnown bool                `json:"capacity_known"`
	Source        CapacitySource      `json:"capacity_source"`
	OverCapacity  bool                `json:"over_capacity"`
	Severity      UtilizationSeverity `json:"severity"`
}
