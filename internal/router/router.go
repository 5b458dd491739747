package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/qrtable/restaurant-pos/internal/config"
	"github.com/qrtable/restaurant-pos/internal/handler"
	"github.com/qrtable/restaurant-pos/internal/middleware"
	"github.com/qrtable/restaurant-pos/internal/model"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth      *handler.AuthHandler
	Customer  *handler.CustomerHandler
	Staff     *handler.StaffHandler
	JWTSecret string
	Redis     *redis.Client // nil disables rate limiting and caching
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// Register wires all routes onto the provided Echo instance.  Customer
// routes are anonymous behind the Redis token bucket; staff routes sit
// behind JWT auth plus per-route role checks.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	e.POST("/v1/auth/pin-login", d.Auth.PinLogin)

	// Customer surface: reached by scanning a table QR code.  No
	// authentication; the token bucket and the order service's
	// validation layer are the gates.
	limited := middleware.NewTokenBucket(d.RateLimit, d.Redis)
	e.GET("/v1/menu", d.Customer.GetMenu, middleware.NewRedisCache(d.Cache, d.Redis))
	e.POST("/v1/tables/:id/orders", d.Customer.CreateOrder, limited)
	e.GET("/v1/tables/:id/order", d.Customer.GetActiveOrder, limited)
	e.POST("/v1/tables/:id/assistance", d.Customer.RequestAssistance, limited)
	e.POST("/v1/tables/:id/bill", d.Customer.RequestBill, limited)

	// Staff surface.  Every route requires a valid access token; the
	// role sets mirror who touches what on the floor.
	staff := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))

	frontOfHouse := middleware.RequireRole(model.RoleCashier, model.RoleWaiter, model.RoleAdmin)
	staff.POST("/staff/orders", d.Staff.CreateOrder, frontOfHouse)
	staff.GET("/tables", d.Staff.ListTables, frontOfHouse)

	// Any role may move an order through the lifecycle: the kitchen
	// flips cooking/ready, waiters mark served, cashiers settle bills.
	anyStaff := middleware.RequireRole(model.RoleCashier, model.RoleWaiter, model.RoleKitchen, model.RoleAdmin)
	staff.PATCH("/orders/:id/status", d.Staff.UpdateStatus, anyStaff)
	staff.POST("/order-items/:id/void", d.Staff.VoidItem, frontOfHouse)

	// Waiter-table assignments: waiters claim tables off the shared
	// board and work from their own list.
	waiters := middleware.RequireRole(model.RoleWaiter, model.RoleAdmin)
	staff.POST("/tables/:id/claim", d.Staff.ClaimTable, waiters)
	staff.POST("/tables/:id/release", d.Staff.ReleaseTable, waiters)
	staff.GET("/staff/my-tables", d.Staff.MyTables, waiters)

	staff.GET("/kitchen/queue", d.Staff.KitchenQueue, middleware.RequireRole(model.RoleKitchen, model.RoleAdmin))
	staff.GET("/admin/audit", d.Staff.ListAudit, middleware.RequireRole(model.RoleAdmin))
}
