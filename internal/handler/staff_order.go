package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/middleware"
	"github.com/qrtable/restaurant-pos/internal/repository"
	"github.com/qrtable/restaurant-pos/internal/service"
)

// StaffHandler serves the authenticated endpoints behind JWT + role
// middleware: staff-keyed orders, lifecycle transitions, item voids and
// the kitchen/floor views.  All methods assume JWTAuth has already put a
// valid actor in the context.
type StaffHandler struct {
	Orders *service.OrderService
	Audit  *repository.AuditRepo
}

// NewStaffHandler constructs a StaffHandler.
func NewStaffHandler(orders *service.OrderService, auditRepo *repository.AuditRepo) *StaffHandler {
	if orders == nil || auditRepo == nil {
		panic("nil dependency passed to NewStaffHandler")
	}
	return &StaffHandler{Orders: orders, Audit: auditRepo}
}

// CreateOrder handles POST /v1/staff/orders.  A waiter or cashier keys
// an order for a table; the anti-abuse validation is bypassed and the
// actor is stamped as created_by.
func (h *StaffHandler) CreateOrder(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	var body struct {
		TableID    int64              `json:"table_id"`
		Items      []service.CartLine `json:"items"`
		TotalCents int64              `json:"total_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if body.TableID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid table id"})
	}

	res, err := h.Orders.CreateOrder(c.Request().Context(), body.TableID, body.Items, body.TotalCents, &actor, nil, requestMeta(c))
	switch {
	case errors.Is(err, repository.ErrTableOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "table is occupied by an active order"})
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to create order"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "order_id": res.OrderID})
}

// UpdateStatus handles PATCH /v1/orders/:id/status.  The body names the
// new status; milestone timestamps fill once, and marking an order paid
// frees its table.
func (h *StaffHandler) UpdateStatus(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	orderID := c.Param("id")
	if orderID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid order id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}

	err := h.Orders.UpdateStatus(c.Request().Context(), orderID, body.Status, &actor, requestMeta(c))
	switch {
	case errors.Is(err, service.ErrUnknownStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "unknown order status"})
	case errors.Is(err, service.ErrOrderHasNoItems):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "order has no items and cannot be cooked"})
	case errors.Is(err, repository.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "order not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update order"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// VoidItem handles POST /v1/order-items/:id/void.  Non-admin staff can
// only void while the order is still pending.
func (h *StaffHandler) VoidItem(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid item id"})
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if body.Reason == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "reason is required"})
	}

	err = h.Orders.VoidOrderItem(c.Request().Context(), itemID, body.Reason, actor, requestMeta(c))
	switch {
	case errors.Is(err, service.ErrVoidAfterCooking):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "cannot void after cooking"})
	case errors.Is(err, repository.ErrItemVoided):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "item already voided"})
	case errors.Is(err, repository.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "order item not found"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to void item"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ClaimTable handles POST /v1/tables/:id/claim.  A waiter assigns
// themselves to a table being served; the first claim wins and a racing
// waiter is told the table was just taken.
func (h *StaffHandler) ClaimTable(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	tableID, ok := tableIDParam(c)
	if !ok {
		return badTableID(c)
	}

	err := h.Orders.ClaimTable(c.Request().Context(), tableID, actor, requestMeta(c))
	switch {
	case errors.Is(err, repository.ErrTableAssigned):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "table was just assigned to another waiter"})
	case errors.Is(err, service.ErrTableNotOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "table has no active order"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to claim table"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// ReleaseTable handles POST /v1/tables/:id/release.  A waiter gives a
// claimed table back; an admin may release any waiter's claim.
func (h *StaffHandler) ReleaseTable(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	tableID, ok := tableIDParam(c)
	if !ok {
		return badTableID(c)
	}

	err := h.Orders.ReleaseTable(c.Request().Context(), tableID, actor, requestMeta(c))
	switch {
	case errors.Is(err, service.ErrNotAssigned):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "table not assigned to you"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to release table"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// MyTables handles GET /v1/staff/my-tables: the waiter's open claims
// with each table's live state, oldest claim first.
func (h *StaffHandler) MyTables(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized"})
	}
	assignments, err := h.Orders.MyTables(c.Request().Context(), actor.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load assignments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "assignments": assignments})
}

// KitchenQueue handles GET /v1/kitchen/queue: outstanding tickets oldest
// first, voided lines excluded.
func (h *StaffHandler) KitchenQueue(c echo.Context) error {
	tickets, err := h.Orders.KitchenQueue(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load kitchen queue"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "tickets": tickets})
}

// ListTables handles GET /v1/tables: the floor board for cashier and
// waiter dashboards.
func (h *StaffHandler) ListTables(c echo.Context) error {
	tables, err := h.Orders.ListTables(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load tables"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "tables": tables})
}

// ListAudit handles GET /v1/admin/audit.  The optional limit query
// parameter caps the number of entries returned, newest first.
func (h *StaffHandler) ListAudit(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	entries, err := h.Audit.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load audit log"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "entries": entries})
}
