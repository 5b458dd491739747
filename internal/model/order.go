package model

import "time"

// Order statuses in issuance order.  The happy path moves monotonically
// forward: pending → cooking → ready → served → waiting_payment → paid.
// paid and cancelled are terminal; an order in either keeps its rows for
// history but no longer counts as active.
const (
	OrderPending        = "pending"
	OrderCooking        = "cooking"
	OrderReady          = "ready"
	OrderServed         = "served"
	OrderWaitingPayment = "waiting_payment"
	OrderPaid           = "paid"
	OrderCancelled      = "cancelled"
)

// ActiveOrderStatuses lists every non-terminal status.  A table may hold
// at most one order whose status is in this set.
var ActiveOrderStatuses = []string{
	OrderPending, OrderCooking, OrderReady, OrderServed, OrderWaitingPayment,
}

// statusRank orders the non-terminal statuses for forward-transition
// checks.  Terminal statuses rank above every non-terminal one.
var statusRank = map[string]int{
	OrderPending:        0,
	OrderCooking:        1,
	OrderReady:          2,
	OrderServed:         3,
	OrderWaitingPayment: 4,
	OrderPaid:           5,
	OrderCancelled:      5,
}

// ValidOrderStatus reports whether s is one of the seven known statuses.
func ValidOrderStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// IsTerminalStatus reports whether s is paid or cancelled.
func IsTerminalStatus(s string) bool {
	return s == OrderPaid || s == OrderCancelled
}

// IsActiveStatus reports whether s is a known non-terminal status.
func IsActiveStatus(s string) bool {
	return ValidOrderStatus(s) && !IsTerminalStatus(s)
}

// IsForwardTransition reports whether moving from to next follows the
// issuance order.  Out-of-order moves are still permitted (staff
// override) but callers log them.
func IsForwardTransition(from, to string) bool {
	a, ok1 := statusRank[from]
	b, ok2 := statusRank[to]
	return ok1 && ok2 && b > a
}

// Order is one customer visit's bill.  It is created with status pending
// and mutated only through defined status transitions; rows are never
// deleted.
//
// Fields:
//  ID                – UUIDv4 assigned at creation.
//  TableID           – table the order belongs to.
//  Status            – one of the Order* constants above.
//  TotalCents        – total price in cents as quoted at submission.
//  CreatedBy         – staff member who keyed the order, nil for QR orders.
//  PaidBy            – staff member who settled the bill, nil until paid.
//  StartedAt         – order creation time.
//  KitchenReceivedAt – set on the first transition to cooking.
//  ReadyAt           – set on the first transition to ready.
//  ServedAt          – set on the first transition to served.
//  PaidAt            – set on the first transition to paid.
//  CompletedAt       – set together with PaidAt.
type Order struct {
	ID                string     `json:"id"`                  // orders.id
	TableID           int64      `json:"table_id"`            // orders.table_id
	Status            string     `json:"status"`              // orders.status
	TotalCents        int64      `json:"total_cents"`         // orders.total_cents
	CreatedBy         *int64     `json:"created_by"`          // orders.created_by (nullable)
	PaidBy            *int64     `json:"paid_by"`             // orders.paid_by (nullable)
	StartedAt         time.Time  `json:"started_at"`          // orders.started_at
	KitchenReceivedAt *time.Time `json:"kitchen_received_at"` // orders.kitchen_received_at (nullable)
	ReadyAt           *time.Time `json:"ready_at"`            // orders.ready_at (nullable)
	ServedAt          *time.Time `json:"served_at"`           // orders.served_at (nullable)
	PaidAt            *time.Time `json:"paid_at"`             // orders.paid_at (nullable)
	CompletedAt       *time.Time `json:"completed_at"`        // orders.completed_at (nullable)
	CreatedAt         time.Time  `json:"created_at"`          // orders.created_at
	UpdatedAt         time.Time  `json:"updated_at"`          // orders.updated_at
}
