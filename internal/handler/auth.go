package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/repository"
	"github.com/qrtable/restaurant-pos/internal/utils"
)

// AuthHandler implements staff PIN login.  Identity management (account
// creation, PIN resets) lives outside this service; all this handler
// does is exchange a valid staff ID + PIN for a short-lived access
// token.
type AuthHandler struct {
	Staff        *repository.StaffRepo
	JWTSecret    string
	AccessTTLMin int
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(staff *repository.StaffRepo, jwtSecret string, accessTTLMin int) *AuthHandler {
	if staff == nil {
		panic("nil staff repository passed to NewAuthHandler")
	}
	return &AuthHandler{Staff: staff, JWTSecret: jwtSecret, AccessTTLMin: accessTTLMin}
}

// PinLogin handles POST /v1/auth/pin-login.  The body carries a staff ID
// and PIN; on success the response contains a bearer token with the
// staff member's role baked in.  Wrong ID and wrong PIN return the same
// 401 so the endpoint leaks nothing about which IDs exist.
func (h *AuthHandler) PinLogin(c echo.Context) error {
	var body struct {
		StaffID int64  `json:"staff_id"`
		PIN     string `json:"pin"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request body"})
	}
	if body.StaffID <= 0 || body.PIN == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "staff_id and pin are required"})
	}

	staff, err := h.Staff.GetActiveByID(c.Request().Context(), body.StaffID)
	if err != nil {
		if errors.Is(err, repository.ErrStaffNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "database error"})
	}
	if !utils.VerifyPIN(staff.PINHash, body.PIN) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
	}

	tok, err := utils.NewStaffToken(h.JWTSecret, staff.ID, staff.Role, h.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "failed to issue token"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success":      true,
		"access_token": tok.Token,
		"expires_at":   tok.Exp.Format(time.RFC3339),
		"staff": echo.Map{
			"id":   staff.ID,
			"name": staff.Name,
			"role": staff.Role,
		},
	})
}
