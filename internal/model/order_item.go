package model

import "time"

// OrderItem is a single cart line attached to an order.  PriceAtTimeCents
// snapshots the menu price at submission and never changes afterwards, so
// the customer is charged what they were quoted even if the menu moves.
// Voiding is a soft delete: voided items drop out of kitchen queues and
// customer totals but stay on the row for billing audit.
//
// Fields:
//  ID               – primary key identifier.
//  OrderID          – parent order UUID.
//  MenuItemID       – menu item the line refers to.
//  Quantity         – number of units ordered.
//  PriceAtTimeCents – per-unit price in cents, immutable once written.
//  Modifiers        – free-form option map (e.g. "spice": "mild").
//  VoidedAt         – when the line was voided, nil while active.
//  VoidedBy         – staff member who voided the line.
//  VoidReason       – reason supplied at void time.
type OrderItem struct {
	ID               int64             `json:"id"`                  // order_items.id
	OrderID          string            `json:"order_id"`            // order_items.order_id
	MenuItemID       int64             `json:"menu_item_id"`        // order_items.menu_item_id
	Quantity         int64             `json:"quantity"`            // order_items.quantity
	PriceAtTimeCents int64             `json:"price_at_time_cents"` // order_items.price_at_time_cents
	Modifiers        map[string]string `json:"modifiers"`           // order_items.modifiers (JSON column)
	VoidedAt         *time.Time        `json:"voided_at"`           // order_items.voided_at (nullable)
	VoidedBy         *int64            `json:"voided_by"`           // order_items.voided_by (nullable)
	VoidReason       *string           `json:"void_reason"`         // order_items.void_reason (nullable)
}

// Voided reports whether the line has been soft-deleted.
func (i *OrderItem) Voided() bool { return i.VoidedAt != nil }
