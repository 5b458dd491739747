package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qrtable/restaurant-pos/internal/access"
	"github.com/qrtable/restaurant-pos/internal/model"
)

// The checks below run before the service touches the database, so a
// service with nil dependencies exercises them directly.

func TestCreateOrderAccessChecks(t *testing.T) {
	s := NewOrderService(nil, nil, nil, nil, nil, nil)
	lines := []CartLine{{MenuItemID: 1, Quantity: 2, PriceCents: 950}}

	t.Run("staleAccessRejected", func(t *testing.T) {
		data := &access.ValidationData{
			DeviceFingerprint:    "fp1",
			TableAccessTimestamp: time.Now().Add(-11 * time.Minute).UnixMilli(),
		}
		_, err := s.CreateOrder(context.Background(), 3, lines, 1900, nil, data, RequestMeta{})
		if !errors.Is(err, ErrAccessExpired) {
			t.Fatalf("CreateOrder() error = %v, want ErrAccessExpired", err)
		}
	})

	t.Run("lockedDeviceSilentlyRedirected", func(t *testing.T) {
		data := &access.ValidationData{
			DeviceFingerprint:    "fp1",
			TableAccessTimestamp: time.Now().UnixMilli(),
			OriginalTableID:      5,
		}
		res, err := s.CreateOrder(context.Background(), 7, lines, 1900, nil, data, RequestMeta{})
		if err != nil {
			t.Fatalf("CreateOrder() error = %v, want silent redirect", err)
		}
		if res.RedirectToTable != 5 {
			t.Errorf("RedirectToTable = %d, want 5", res.RedirectToTable)
		}
		if res.OrderID != "" {
			t.Errorf("OrderID = %q, want empty on redirect", res.OrderID)
		}
	})
}

func TestCreateOrderCartChecks(t *testing.T) {
	s := NewOrderService(nil, nil, nil, nil, nil, nil)
	staff := &Actor{ID: 1, Role: "cashier"}

	t.Run("emptyCart", func(t *testing.T) {
		_, err := s.CreateOrder(context.Background(), 3, nil, 0, staff, nil, RequestMeta{})
		if !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("CreateOrder() error = %v, want ErrEmptyCart", err)
		}
	})

	badLines := []struct {
		name string
		line CartLine
	}{
		{"zeroQuantity", CartLine{MenuItemID: 1, Quantity: 0, PriceCents: 100}},
		{"negativeQuantity", CartLine{MenuItemID: 1, Quantity: -1, PriceCents: 100}},
		{"missingMenuItem", CartLine{Quantity: 1, PriceCents: 100}},
		{"negativePrice", CartLine{MenuItemID: 1, Quantity: 1, PriceCents: -50}},
	}
	for _, tt := range badLines {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateOrder(context.Background(), 3, []CartLine{tt.line}, 100, staff, nil, RequestMeta{})
			if !errors.Is(err, ErrInvalidCart) {
				t.Fatalf("CreateOrder() error = %v, want ErrInvalidCart", err)
			}
		})
	}
}

func TestVoidAuditEntry(t *testing.T) {
	item := &model.OrderItem{ID: 12, OrderID: "ord-1", MenuItemID: 4}
	actor := Actor{ID: 7, Role: model.RoleAdmin}

	entry := voidAuditEntry(12, item, model.OrderCooking, "dropped plate", actor)

	if entry.EntityType != "order_item" || entry.EntityID != "12" {
		t.Errorf("entity = %s/%s, want order_item/12", entry.EntityType, entry.EntityID)
	}
	if entry.ActorID == nil || *entry.ActorID != 7 {
		t.Errorf("actor = %v, want 7", entry.ActorID)
	}
	if entry.Payload["order_id"] != "ord-1" {
		t.Errorf("payload order_id = %v, want ord-1", entry.Payload["order_id"])
	}
	if entry.Payload["reason"] != "dropped plate" {
		t.Errorf("payload reason = %v, want dropped plate", entry.Payload["reason"])
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	s := NewOrderService(nil, nil, nil, nil, nil, nil)
	for _, status := range []string{"", "preparing", "DONE"} {
		err := s.UpdateStatus(context.Background(), "ord-1", status, nil, RequestMeta{})
		if !errors.Is(err, ErrUnknownStatus) {
			t.Errorf("UpdateStatus(%q) error = %v, want ErrUnknownStatus", status, err)
		}
	}
}
