// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// order service and handlers to distinguish between different failure
// scenarios without string matching. Infrastructure failures are wrapped
// with %w and surface separately from these business sentinels.
package repository

import "errors"

// ErrTableOccupied is returned when a table already holds an order in a
// non-terminal status. Creating a second active order for the same table
// must fail cleanly; the service translates this into a descriptive
// "table occupied" rejection.
var ErrTableOccupied = errors.New("table occupied")

// ErrOrderNotFound is returned when an order lookup by ID matches no row.
var ErrOrderNotFound = errors.New("order not found")

// ErrItemNotFound is returned when an order item lookup by ID matches no
// row.
var ErrItemNotFound = errors.New("order item not found")

// ErrItemVoided is returned when voiding an order item that has already
// been voided. Voids are not stacked; the first void wins and keeps its
// actor and reason.
var ErrItemVoided = errors.New("order item already voided")

// ErrStaffNotFound is returned when a staff lookup by ID matches no row
// or the staff member has been deactivated.
var ErrStaffNotFound = errors.New("staff not found")

// ErrTableAssigned is returned when claiming a table that already has an
// open waiter assignment. Two waiters racing for the same table
// serialize on the table row lock; the loser sees this error.
var ErrTableAssigned = errors.New("table already assigned")
