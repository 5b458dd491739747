package service

import (
	"errors"
	"testing"
	"time"

	"github.com/qrtable/restaurant-pos/internal/model"
	"github.com/qrtable/restaurant-pos/internal/repository"
)

func TestClassifyOccupancy(t *testing.T) {
	orderID := "ord-1"

	tests := []struct {
		name        string
		table       model.Table
		orderStatus string
		want        Occupancy
	}{
		{
			name:  "noCurrentOrder",
			table: model.Table{ID: 1, Status: model.TableEmpty},
			want:  OccupancyFree,
		},
		{
			name:        "activeOrderBlocks",
			table:       model.Table{ID: 1, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderCooking,
			want:        OccupancyActive,
		},
		{
			name:        "waitingPaymentStillActive",
			table:       model.Table{ID: 1, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderWaitingPayment,
			want:        OccupancyActive,
		},
		{
			name:        "terminalOrderIsStale",
			table:       model.Table{ID: 1, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderPaid,
			want:        OccupancyStale,
		},
		{
			name:        "cancelledOrderIsStale",
			table:       model.Table{ID: 1, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderCancelled,
			want:        OccupancyStale,
		},
		{
			name:        "danglingOrderReferenceIsStale",
			table:       model.Table{ID: 1, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: "",
			want:        OccupancyStale,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyOccupancy(&tt.table, tt.orderStatus); got != tt.want {
				t.Errorf("classifyOccupancy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimestampPatch(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("cookingStampsKitchenReceived", func(t *testing.T) {
		stamps := timestampPatch(&model.Order{Status: model.OrderPending}, model.OrderCooking, now)
		if _, ok := stamps["kitchen_received_at"]; !ok || len(stamps) != 1 {
			t.Fatalf("stamps = %v, want only kitchen_received_at", stamps)
		}
	})

	t.Run("paidStampsBothPaidAndCompleted", func(t *testing.T) {
		stamps := timestampPatch(&model.Order{Status: model.OrderWaitingPayment}, model.OrderPaid, now)
		if len(stamps) != 2 {
			t.Fatalf("stamps = %v, want paid_at and completed_at", stamps)
		}
		for _, col := range []string{"paid_at", "completed_at"} {
			if _, ok := stamps[col]; !ok {
				t.Errorf("stamps missing %s", col)
			}
		}
	})

	t.Run("fillOnceNeverOverwrites", func(t *testing.T) {
		earlier := now.Add(-10 * time.Minute)
		o := &model.Order{Status: model.OrderCooking, KitchenReceivedAt: &earlier}
		if stamps := timestampPatch(o, model.OrderCooking, now); len(stamps) != 0 {
			t.Errorf("stamps = %v, want none on repeat transition", stamps)
		}
	})

	t.Run("paidFillsOnlyMissingColumn", func(t *testing.T) {
		earlier := now.Add(-time.Minute)
		o := &model.Order{Status: model.OrderWaitingPayment, PaidAt: &earlier}
		stamps := timestampPatch(o, model.OrderPaid, now)
		if _, ok := stamps["paid_at"]; ok {
			t.Error("paid_at already set, must not be restamped")
		}
		if _, ok := stamps["completed_at"]; !ok {
			t.Error("completed_at still unset, should be stamped")
		}
	})

	t.Run("pendingAndCancelledStampNothing", func(t *testing.T) {
		for _, status := range []string{model.OrderPending, model.OrderCancelled, model.OrderWaitingPayment} {
			if stamps := timestampPatch(&model.Order{}, status, now); len(stamps) != 0 {
				t.Errorf("timestampPatch(%s) = %v, want none", status, stamps)
			}
		}
	})
}

func TestClassifyClaim(t *testing.T) {
	orderID := "ord-1"
	closed := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		table       model.Table
		orderStatus string
		existing    *model.TableAssignment
		wantErr     error
	}{
		{
			name:        "unclaimedServedTable",
			table:       model.Table{ID: 3, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderPending,
		},
		{
			name:    "emptyTableNotClaimable",
			table:   model.Table{ID: 3, Status: model.TableEmpty},
			wantErr: ErrTableNotOccupied,
		},
		{
			name:        "settledOrderNotClaimable",
			table:       model.Table{ID: 3, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderPaid,
			wantErr:     ErrTableNotOccupied,
		},
		{
			name:        "openAssignmentBlocksClaim",
			table:       model.Table{ID: 3, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderCooking,
			existing:    &model.TableAssignment{TableID: 3, WaiterID: 9},
			wantErr:     repository.ErrTableAssigned,
		},
		{
			name:        "closedAssignmentDoesNotBlock",
			table:       model.Table{ID: 3, Status: model.TableOccupied, CurrentOrderID: &orderID},
			orderStatus: model.OrderCooking,
			existing:    &model.TableAssignment{TableID: 3, WaiterID: 9, UnassignedAt: &closed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classifyClaim(&tt.table, tt.orderStatus, tt.existing)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("classifyClaim() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCanVoid(t *testing.T) {
	tests := []struct {
		role        string
		orderStatus string
		want        bool
	}{
		{model.RoleCashier, model.OrderPending, true},
		{model.RoleCashier, model.OrderCooking, false},
		{model.RoleCashier, model.OrderServed, false},
		{model.RoleWaiter, model.OrderPending, true},
		{model.RoleWaiter, model.OrderReady, false},
		{model.RoleKitchen, model.OrderCooking, false},
		{model.RoleAdmin, model.OrderPending, true},
		{model.RoleAdmin, model.OrderCooking, true},
		{model.RoleAdmin, model.OrderWaitingPayment, true},
	}

	for _, tt := range tests {
		if got := canVoid(tt.role, tt.orderStatus); got != tt.want {
			t.Errorf("canVoid(%s, %s) = %v, want %v", tt.role, tt.orderStatus, got, tt.want)
		}
	}
}
