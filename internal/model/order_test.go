package model

import "testing"

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderPending, OrderCooking, OrderReady, OrderServed,
		OrderWaitingPayment, OrderPaid, OrderCancelled,
	} {
		if !ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%s) = false", s)
		}
	}
	for _, s := range []string{"", "preparing", "PAID", "done"} {
		if ValidOrderStatus(s) {
			t.Errorf("ValidOrderStatus(%q) = true", s)
		}
	}
}

func TestTerminalAndActiveStatus(t *testing.T) {
	for _, s := range ActiveOrderStatuses {
		if IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = true", s)
		}
		if !IsActiveStatus(s) {
			t.Errorf("IsActiveStatus(%s) = false", s)
		}
	}
	for _, s := range []string{OrderPaid, OrderCancelled} {
		if !IsTerminalStatus(s) {
			t.Errorf("IsTerminalStatus(%s) = false", s)
		}
		if IsActiveStatus(s) {
			t.Errorf("IsActiveStatus(%s) = true", s)
		}
	}
	if IsActiveStatus("bogus") {
		t.Error("IsActiveStatus(bogus) = true")
	}
}

func TestIsForwardTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderPending, OrderCooking, true},
		{OrderCooking, OrderReady, true},
		{OrderServed, OrderWaitingPayment, true},
		{OrderWaitingPayment, OrderPaid, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderServed, true}, // skipping steps is still forward
		{OrderReady, OrderCooking, false},
		{OrderServed, OrderPending, false},
		{OrderPaid, OrderCancelled, false}, // terminal statuses rank equal
		{OrderCooking, OrderCooking, false},
		{OrderPending, "bogus", false},
		{"bogus", OrderCooking, false},
	}

	for _, tt := range tests {
		if got := IsForwardTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("IsForwardTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
