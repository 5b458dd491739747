package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/service"
)

// tableIDParam parses the :id path parameter as a table number.  Table
// numbers are small positive integers printed on the QR codes.
func tableIDParam(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// badTableID writes the standard rejection for a malformed :id, keeping
// parameter failures in the same response shape as every other error.
func badTableID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid table id"})
}

// requestMeta collects the client metadata recorded on audit entries.
func requestMeta(c echo.Context) service.RequestMeta {
	return service.RequestMeta{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
