package entity

import "testing"

func TestOrderStatus(t *testing.T) {
	tests := []struct {
		s        OrderStatus
		valid    bool
		terminal bool
		rank     int
	}{
		{StatusWaitingForPayment, true, false, 0},
		{StatusProcessing, true, false, 1},
		{StatusPreparing, true, false, 2},
		{StatusDelivering, true, false, 3},
		{StatusCompleted, true, true, 4},
		{StatusCanceled, true, true, -1},
		{"shipped", false, false, -1},
		{"", false, false, -1},
	}
	for _, tc := range tests {
		if got := tc.s.Valid(); got != tc.valid {
			t.Errorf("%q.Valid() = %v", tc.s, got)
		}
		if got := tc.s.Terminal(); got != tc.terminal {
			t.Errorf("%q.Terminal() = %v", tc.s, got)
		}
		if got := tc.s.Rank(); got != tc.rank {
			t.Errorf("%q.Rank() = %d, want %d", tc.s, got, tc.rank)
		}
	}
	if len(OrderStatuses) != 6 {
		t.Fatalf("OrderStatuses has %d entries", len(OrderStatuses))
	}
	if StatusWaitingForPayment.Label() != "Waiting for payment" {
		t.Fatalf("label = %q", StatusWaitingForPayment.Label())
	}
}
