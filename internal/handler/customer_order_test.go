package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qrtable/restaurant-pos/internal/access"
	"github.com/qrtable/restaurant-pos/internal/service"
)

// The handler paths below terminate in the service's validation layer,
// so a service wired with nil repositories never reaches the database.

func postOrder(t *testing.T, tableParam, body string) *httptest.ResponseRecorder {
	t.Helper()
	h := &CustomerHandler{Orders: service.NewOrderService(nil, nil, nil, nil, nil, nil)}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/tables/"+tableParam+"/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(tableParam)

	if err := h.CreateOrder(c); err != nil {
		t.Fatalf("CreateOrder() returned error: %v", err)
	}
	return rec
}

func TestCustomerCreateOrderExpiredAccess(t *testing.T) {
	stale := time.Now().Add(-11 * time.Minute).UnixMilli()
	body := `{
		"items": [{"menu_item_id": 1, "quantity": 1, "price_cents": 500}],
		"total_cents": 500,
		"validation": {"device_fingerprint": "fp1", "table_access_timestamp": ` + itoa(stale) + `}
	}`

	rec := postOrder(t, "3", body)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403; body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["error"] != access.ReasonExpired {
		t.Errorf("error = %v, want %q", resp["error"], access.ReasonExpired)
	}
}

func TestCustomerCreateOrderRedirect(t *testing.T) {
	fresh := time.Now().UnixMilli()
	body := `{
		"items": [{"menu_item_id": 1, "quantity": 1, "price_cents": 500}],
		"total_cents": 500,
		"validation": {"device_fingerprint": "fp1", "table_access_timestamp": ` + itoa(fresh) + `, "original_table_id": 5}
	}`

	rec := postOrder(t, "7", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if got, _ := resp["redirect_to_table"].(float64); got != 5 {
		t.Errorf("redirect_to_table = %v, want 5", resp["redirect_to_table"])
	}
	if _, hasError := resp["error"]; hasError {
		t.Error("redirect response carries an error message, must be silent")
	}
}

func TestCustomerCreateOrderBadRequests(t *testing.T) {
	tests := []struct {
		name     string
		table    string
		body     string
		wantCode int
	}{
		{"emptyCart", "3", `{"items": [], "total_cents": 0}`, http.StatusBadRequest},
		{"invalidLine", "3", `{"items": [{"menu_item_id": 1, "quantity": 0, "price_cents": 100}], "total_cents": 100}`, http.StatusBadRequest},
		{"malformedBody", "3", `{not json`, http.StatusBadRequest},
		{"badTableID", "abc", `{"items": []}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postOrder(t, tt.table, tt.body)
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			// Every rejection, parameter failures included, uses the
			// same response shape.
			var resp map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response is not JSON: %v; body %s", err, rec.Body.String())
			}
			if success, _ := resp["success"].(bool); success {
				t.Error("success = true on a rejected request")
			}
			if msg, _ := resp["error"].(string); msg == "" {
				t.Error("rejection carries no error message")
			}
		})
	}
}

func itoa(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
