package middleware // middleware contains reusable HTTP middleware for staff routes

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth and read by ActorFrom.
const (
	ctxActorID = "actor_id"
	ctxRole    = "role"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token issued by the PIN login and injects the staff ID and role into
// the request context.  The provided secret must match the one used when
// issuing tokens.  Customer routes never carry a token and are not
// wrapped with this middleware.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				// Reject anything but HMAC; the secret is only valid for HS256.
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			// Numeric claims decode as float64 from JSON; normalize the
			// staff ID to int64 here so handlers never deal with that.
			sub, ok := claims["sub"].(float64)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid subject"})
			}
			role, ok := claims["role"].(string)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid role claim"})
			}

			c.Set(ctxActorID, int64(sub))
			c.Set(ctxRole, role)
			return next(c)
		}
	}
}
