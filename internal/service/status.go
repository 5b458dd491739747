package service

import (
	"time"

	"github.com/qrtable/restaurant-pos/internal/model"
	"github.com/qrtable/restaurant-pos/internal/repository"
)

// Occupancy classifies what a table's current order reference means for
// a new order attempt.
type Occupancy int

const (
	// OccupancyFree means the table has no current order.
	OccupancyFree Occupancy = iota
	// OccupancyActive means the current order is still non-terminal; a
	// new order must be rejected.
	OccupancyActive
	// OccupancyStale means the table still points at a terminal or
	// missing order, state left behind by a crashed or partial prior
	// transaction. A new order may proceed; occupying the table heals
	// the reference.
	OccupancyStale
)

// classifyOccupancy maps a table row plus the status of its referenced
// order (empty string when the order row is gone) onto an Occupancy.
func classifyOccupancy(table *model.Table, orderStatus string) Occupancy {
	if table.CurrentOrderID == nil {
		return OccupancyFree
	}
	if orderStatus != "" && model.IsActiveStatus(orderStatus) {
		return OccupancyActive
	}
	return OccupancyStale
}

// timestampPatch computes which milestone timestamp columns a transition
// to newStatus fills, honoring the fill-once rule: a timestamp that is
// already set is never overwritten, so re-applying a transition leaves
// history intact.
func timestampPatch(o *model.Order, newStatus string, now time.Time) map[string]time.Time {
	stamps := make(map[string]time.Time)
	switch newStatus {
	case model.OrderCooking:
		if o.KitchenReceivedAt == nil {
			stamps["kitchen_received_at"] = now
		}
	case model.OrderReady:
		if o.ReadyAt == nil {
			stamps["ready_at"] = now
		}
	case model.OrderServed:
		if o.ServedAt == nil {
			stamps["served_at"] = now
		}
	case model.OrderPaid:
		if o.PaidAt == nil {
			stamps["paid_at"] = now
		}
		if o.CompletedAt == nil {
			stamps["completed_at"] = now
		}
	}
	return stamps
}

// classifyClaim decides whether a waiter may claim the table.  Only a
// table being actively served is worth claiming, and the first open
// assignment wins; the loser of a race learns the table was just taken.
func classifyClaim(table *model.Table, orderStatus string, existing *model.TableAssignment) error {
	if table.CurrentOrderID == nil || !model.IsActiveStatus(orderStatus) {
		return ErrTableNotOccupied
	}
	if existing != nil && existing.Active() {
		return repository.ErrTableAssigned
	}
	return nil
}

// canVoid applies the role-gated terminal-ness rule for item voids:
// once the parent order has moved past pending the kitchen has started,
// and only an admin may still pull items off the ticket.
func canVoid(role, orderStatus string) bool {
	if role == model.RoleAdmin {
		return true
	}
	return orderStatus == model.OrderPending
}
