package models

// FulfillmentBreakdown aggregates how much of an order has been satisfied
// from inventory stock and shift production. It is a pure read-side
// computation: calling it twice against unchanged data yields identical
// results.
//
// Remaining is clamped at zero. When concurrent edits push fulfilled volume
// past the requested quantity the order is flagged for human review via
// OverFulfilled rather than failed.
type FulfillmentBreakdown struct {
	OrderNumber    string  `json:"order_number"`
	FromStock      float64 `json:"from_stock"`
	FromProduction float64 `json:"from_production"`
	FulfilledTotal float64 `json:"fulfilled_total"`
	Remaining      float64 `json:"remaining"`
	TotalRequested float64 `json:"total_requested"`
	OverFulfilled  bool    `json:"over_fulfilled"`
}

// Percent returns the whole-number fulfillment percentage.
func (f FulfillmentBreakdown) Percent() int {
	if f.TotalRequested <= 0 {
		return 0
	}
	pct := f.FulfilledTotal / f.TotalRequested * 100
	if pct > 100 {
		pct = 100
	}
	return int(pct + 0.5)
}
