package model

import "time"

// TableAssignment links a waiter to a table they are serving.  A row is
// active while UnassignedAt is nil; releasing the table or settling its
// order closes the row instead of deleting it, so the shift history
// stays queryable.
//
// Fields:
//  ID           – auto-increment row ID.
//  TableID      – the claimed table.
//  WaiterID     – staff member serving the table.
//  AssignedAt   – when the claim was made.
//  UnassignedAt – when the claim was closed, nil while active.
type TableAssignment struct {
	ID           int64      `json:"id"`            // waiter_assignments.id
	TableID      int64      `json:"table_id"`      // waiter_assignments.table_id
	WaiterID     int64      `json:"waiter_id"`     // waiter_assignments.waiter_id
	AssignedAt   time.Time  `json:"assigned_at"`   // waiter_assignments.assigned_at
	UnassignedAt *time.Time `json:"unassigned_at"` // waiter_assignments.unassigned_at (nullable)
}

// Active reports whether the assignment is still open.
func (a *TableAssignment) Active() bool { return a.UnassignedAt == nil }
