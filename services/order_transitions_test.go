package services

import (
	"context"
	"testing"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"
)

func TestCanManagerTransition(t *testing.T) {
	const (
		waiting    = entity.StatusWaitingForPayment
		processing = entity.StatusProcessing
		preparing  = entity.StatusPreparing
		delivering = entity.StatusDelivering
		completed  = entity.StatusCompleted
		canceled   = entity.StatusCanceled
	)
	tests := []struct {
		from, to entity.OrderStatus
		want     bool
	}{
		{processing, preparing, true},
		{processing, delivering, true},
		{preparing, completed, true},
		{delivering, completed, true},
		{processing, canceled, true},
		{waiting, canceled, true},
		{waiting, processing, false},
		{waiting, preparing, false},
		{preparing, processing, false},
		{delivering, delivering, false},
		{processing, waiting, false},
		{completed, canceled, false},
		{canceled, processing, false},
		{completed, delivering, false},
		{processing, "shipped", false},
		{"", processing, false},
	}
	for _, tc := range tests {
		if got := CanManagerTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanManagerTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.paidOrder(t, f.customer, f.pizza, 1)

	tests := []struct {
		name  string
		actor Actor
		req   UpdateStatusReq
		kind  Kind
	}{
		{"customer", f.customer, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusPreparing}, KindUnauthorized},
		{"anonymous", Actor{}, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusPreparing}, KindUnauthorized},
		{"unknown status", f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: "shipped"}, KindValidation},
		{"missing status", f.manager, UpdateStatusReq{OrderID: out.OrderID}, KindValidation},
		{"negative wait", f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusPreparing, WaitMinutes: -5}, KindValidation},
		{"missing order", f.manager, UpdateStatusReq{OrderID: 9999, Status: entity.StatusPreparing}, KindNotFound},
		{"other restaurant", f.otherManager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusCanceled}, KindForbidden},
		{"backwards", f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusWaitingForPayment}, KindValidation},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.UpdateStatus(ctx, tc.actor, tc.req)
			wantKind(t, err, tc.kind)
		})
	}
	if got := f.orderStatus(t, out.OrderID); got != entity.StatusProcessing {
		t.Fatalf("status = %s after rejected updates", got)
	}
}

func TestUpdateStatusUnpaidOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.placeOrder(t, f.customer, f.pizza, 1)

	_, err := f.orders.UpdateStatus(ctx, f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusProcessing})
	wantKind(t, err, KindValidation)
	wantMsg(t, err, "invalid status transition")

	if _, err := f.orders.UpdateStatus(ctx, f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusCanceled}); err != nil {
		t.Fatalf("cancel unpaid order: %v", err)
	}
	_, err = f.payments.Confirm(ctx, f.customer, out.PaymentCode)
	wantMsg(t, err, "invalid payment code")
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out := f.paidOrder(t, f.customer, f.pizza, 1)

	res, err := f.orders.UpdateStatus(ctx, f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusDelivering})
	if err != nil {
		t.Fatalf("processing -> delivering: %v", err)
	}
	if res.Status != entity.StatusDelivering || f.orderStatus(t, out.OrderID) != entity.StatusDelivering {
		t.Fatalf("status not updated: %+v", res)
	}
	ev := f.notes.last(t)
	if ev.Kind != notify.StatusChanged || ev.StatusLabel != "Delivering" || ev.WaitMinutes != 30 || ev.Recipient != f.customer.Email {
		t.Fatalf("event = %+v", ev)
	}

	if _, err := f.orders.UpdateStatus(ctx, f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusCompleted, WaitMinutes: 12}); err != nil {
		t.Fatalf("delivering -> completed: %v", err)
	}
	if ev := f.notes.last(t); ev.WaitMinutes != 12 || ev.Status != entity.StatusCompleted {
		t.Fatalf("event = %+v", ev)
	}

	_, err = f.orders.UpdateStatus(ctx, f.manager, UpdateStatusReq{OrderID: out.OrderID, Status: entity.StatusCanceled})
	wantKind(t, err, KindValidation)

	hist, err := f.orders.History(ctx, f.customer, out.OrderID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	want := []entity.OrderStatus{
		entity.StatusWaitingForPayment, entity.StatusProcessing, entity.StatusDelivering, entity.StatusCompleted,
	}
	if len(hist) != len(want) {
		t.Fatalf("history = %+v", hist)
	}
	for i, h := range hist {
		if h.To != want[i] {
			t.Fatalf("history[%d].To = %s, want %s", i, h.To, want[i])
		}
		if i > 0 && h.From != want[i-1] {
			t.Fatalf("history[%d].From = %s, want %s", i, h.From, want[i-1])
		}
	}
	if hist[3].ChangedBy != f.manager.UserID {
		t.Fatalf("changedBy = %d", hist[3].ChangedBy)
	}
}
