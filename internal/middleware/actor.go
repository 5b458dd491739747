package middleware

// actor.go provides the accessor handlers use to read the authenticated
// staff member out of the Echo context.  The values are placed there by
// JWTAuth; on customer routes no actor is present.

import (
	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/service"
)

// ActorFrom returns the staff actor for the request, or false when the
// request is unauthenticated (customer path).
func ActorFrom(c echo.Context) (service.Actor, bool) {
	id, okID := c.Get(ctxActorID).(int64)
	role, okRole := c.Get(ctxRole).(string)
	if !okID || !okRole {
		return service.Actor{}, false
	}
	return service.Actor{ID: id, Role: role}, true
}
