package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/access"
	"github.com/qrtable/restaurant-pos/internal/repository"
	"github.com/qrtable/restaurant-pos/internal/service"
)

// CustomerHandler serves the anonymous table-side endpoints reached
// through a QR scan.  No authentication applies here; the anti-abuse
// validation payload and the rate limiter are the only gates.  Expected
// business-rule failures come back as structured JSON, never as thrown
// errors.
type CustomerHandler struct {
	Orders *service.OrderService
	Menu   *repository.MenuItemRepo
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(orders *service.OrderService, menu *repository.MenuItemRepo) *CustomerHandler {
	if orders == nil || menu == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Orders: orders, Menu: menu}
}

// CreateOrder handles POST /v1/tables/:id/orders.  The body carries the
// cart, the quoted total and the device's validation payload.  A silent
// redirect (device locked to another table) returns 200 with
// redirect_to_table and no error message, so the client can navigate
// without alarming the customer.
func (h *CustomerHandler) CreateOrder(c echo.Context) error {
	tableID, ok := tableIDParam(c)
	if !ok {
		return badTableID(c)
	}
	var body struct {
		Items      []service.CartLine     `json:"items"`
		TotalCents int64                  `json:"total_cents"`
		Validation *access.ValidationData `json:"validation"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if body.Validation == nil {
		// The customer path always validates; an absent payload gets the
		// benefit-of-the-doubt zero value, not the staff bypass.
		body.Validation = &access.ValidationData{}
	}

	res, err := h.Orders.CreateOrder(c.Request().Context(), tableID, body.Items, body.TotalCents, nil, body.Validation, requestMeta(c))
	switch {
	case errors.Is(err, service.ErrAccessExpired):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "error": access.ReasonExpired})
	case errors.Is(err, repository.ErrTableOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "table is occupied by an active order"})
	case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInvalidCart):
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to create order"})
	}
	if res.RedirectToTable != 0 {
		return c.JSON(http.StatusOK, echo.Map{
			"success":           false,
			"redirect_to_table": res.RedirectToTable,
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success":  true,
		"order_id": res.OrderID,
	})
}

// GetActiveOrder handles GET /v1/tables/:id/order.  It returns the
// table's active order with its items and the customer total (voided
// items excluded).  When the items could not be loaded the order still
// comes back with an empty item list; the client retries.
func (h *CustomerHandler) GetActiveOrder(c echo.Context) error {
	tableID, ok := tableIDParam(c)
	if !ok {
		return badTableID(c)
	}
	active, err := h.Orders.GetActiveOrder(c.Request().Context(), tableID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load order"})
	}
	if active == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "no active order found"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": active})
}

// RequestAssistance handles POST /v1/tables/:id/assistance.
func (h *CustomerHandler) RequestAssistance(c echo.Context) error {
	return h.flagTable(c, h.Orders.RequestAssistance)
}

// RequestBill handles POST /v1/tables/:id/bill.
func (h *CustomerHandler) RequestBill(c echo.Context) error {
	return h.flagTable(c, h.Orders.RequestBill)
}

func (h *CustomerHandler) flagTable(c echo.Context, call func(context.Context, int64, service.RequestMeta) error) error {
	tableID, ok := tableIDParam(c)
	if !ok {
		return badTableID(c)
	}
	err := call(c.Request().Context(), tableID, requestMeta(c))
	switch {
	case errors.Is(err, service.ErrTableNotOccupied):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "error": "table has no active order"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to update table"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// GetMenu handles GET /v1/menu.  The route is wrapped by the Redis
// response cache, so most requests never reach the database.
func (h *CustomerHandler) GetMenu(c echo.Context) error {
	items, err := h.Menu.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to load menu"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "items": items})
}
