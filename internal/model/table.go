package model

import "time"

// Table statuses.  A table is a physical seating unit identified by the
// small integer printed on its QR code.  Tables are created lazily on
// first reference and never deleted.
const (
	TableEmpty           = "empty"
	TableOccupied        = "occupied"
	TableNeedsAssistance = "needs_assistance"
	TableNeedsBill       = "needs_bill"
)

// Table mirrors the restaurant_tables row.  CurrentOrderID is set if and
// only if the table is not empty and the referenced order has not yet
// reached a terminal status.
//
// Fields:
//  ID             – restaurant-assigned table number (stable primary key).
//  Status         – one of the Table* constants above.
//  CurrentOrderID – UUID of the active order, nil when the table is free.
//  CreatedAt      – when the row was lazily materialized.
//  UpdatedAt      – last status change.
type Table struct {
	ID             int64      `json:"id"`               // restaurant_tables.id
	Status         string     `json:"status"`           // restaurant_tables.status
	CurrentOrderID *string    `json:"current_order_id"` // restaurant_tables.current_order_id (nullable)
	CreatedAt      time.Time  `json:"created_at"`       // restaurant_tables.created_at
	UpdatedAt      time.Time  `json:"updated_at"`       // restaurant_tables.updated_at
}
