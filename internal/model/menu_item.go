package model

import "time"

// MenuItem is a dish or drink on the menu.  The live price here is only a
// quote source: once an order line is written its price_at_time snapshot
// is authoritative and later menu edits do not touch it.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name.
//  Category   – menu section (e.g. "mains", "drinks").
//  PriceCents – current price in cents.
//  IsActive   – inactive items are hidden from the customer menu.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last edit.
type MenuItem struct {
	ID         int64     `json:"id"`          // menu_items.id
	Name       string    `json:"name"`        // menu_items.name
	Category   string    `json:"category"`    // menu_items.category
	PriceCents int64     `json:"price_cents"` // menu_items.price_cents
	IsActive   bool      `json:"is_active"`   // menu_items.is_active
	CreatedAt  time.Time `json:"created_at"`  // menu_items.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // menu_items.updated_at
}
