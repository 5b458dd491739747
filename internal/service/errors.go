// Package service implements the order/table lifecycle engine: order
// creation against the one-active-order-per-table invariant, status
// transitions with fill-once milestone timestamps, role-gated item voids
// and the customer assistance calls.  Business-rule rejections are the
// sentinel errors below; anything else that comes out of a service method
// is an infrastructure failure.
package service

import "errors"

// ErrAccessExpired is returned when the customer's recorded table access
// is older than the staleness window. The client should prompt a
// re-scan of the table QR code.
var ErrAccessExpired = errors.New("access expired")

// ErrEmptyCart is returned when an order is submitted with no valid
// lines. An order must carry at least one item from the moment it is
// created.
var ErrEmptyCart = errors.New("cart is empty")

// ErrInvalidCart is returned when a cart line has a non-positive
// quantity, price or menu item reference.
var ErrInvalidCart = errors.New("invalid cart line")

// ErrVoidAfterCooking is returned when a non-admin actor tries to void
// an item after the kitchen has started on the order. Retroactive cart
// edits would waste prepared food; only an admin may override.
var ErrVoidAfterCooking = errors.New("cannot void after cooking")

// ErrUnknownStatus is returned when a transition names a status outside
// the order state machine.
var ErrUnknownStatus = errors.New("unknown order status")

// ErrOrderHasNoItems is returned when an order with zero active lines is
// sent to the kitchen. Such an order is incomplete and must never reach
// cooking.
var ErrOrderHasNoItems = errors.New("order has no items")

// ErrTableNotOccupied is returned when a customer requests assistance or
// the bill for a table with no active order.
var ErrTableNotOccupied = errors.New("table has no active order")

// ErrNotAssigned is returned when releasing a table the waiter does not
// hold an open assignment for.
var ErrNotAssigned = errors.New("table not assigned to you")
