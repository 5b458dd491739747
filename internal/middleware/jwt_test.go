package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/model"
	"github.com/qrtable/restaurant-pos/internal/utils"
)

const testSecret = "test-secret"

func doJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/staff/tables", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, c
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewStaffToken(testSecret, 42, model.RoleWaiter, 15)
	if err != nil {
		t.Fatalf("NewStaffToken() error = %v", err)
	}

	rec, c := doJWT(t, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	actor, ok := ActorFrom(c)
	if !ok {
		t.Fatal("ActorFrom() reported no actor after successful auth")
	}
	if actor.ID != 42 || actor.Role != model.RoleWaiter {
		t.Errorf("actor = %+v, want ID 42 role waiter", actor)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	otherSecret, err := utils.NewStaffToken("wrong-secret", 42, model.RoleWaiter, 15)
	if err != nil {
		t.Fatalf("NewStaffToken() error = %v", err)
	}
	expired, err := utils.NewStaffToken(testSecret, 42, model.RoleWaiter, -5)
	if err != nil {
		t.Fatalf("NewStaffToken() error = %v", err)
	}

	tests := []struct {
		name          string
		authorization string
	}{
		{"missingHeader", ""},
		{"notBearer", "Basic abc123"},
		{"garbageToken", "Bearer not.a.jwt"},
		{"wrongSecret", "Bearer " + otherSecret.Token},
		{"expiredToken", "Bearer " + expired.Token},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := doJWT(t, tt.authorization)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if _, ok := ActorFrom(c); ok {
				t.Error("ActorFrom() returned an actor on rejected request")
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     any
		allowed  []string
		wantCode int
	}{
		{"roleAllowed", model.RoleKitchen, []string{model.RoleKitchen, model.RoleAdmin}, http.StatusOK},
		{"roleDenied", model.RoleWaiter, []string{model.RoleKitchen, model.RoleAdmin}, http.StatusForbidden},
		{"missingRole", nil, []string{model.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/v1/staff/kitchen/queue", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tt.role != nil {
				c.Set(ctxRole, tt.role)
			}

			handler := RequireRole(tt.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			})
			if err := handler(c); err != nil {
				t.Fatalf("handler returned error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}
