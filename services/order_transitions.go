package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"

	"gorm.io/gorm"
)

// CanManagerTransition is the manager policy: the pipeline only moves
// forward (skipping steps is allowed), canceled is reachable from any
// non-terminal status, and nothing leaves completed or canceled. Leaving
// waitingForPayment other than by cancel happens only through payment.
func CanManagerTransition(from, to entity.OrderStatus) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	if to == entity.StatusCanceled {
		return true
	}
	if from == entity.StatusWaitingForPayment {
		return false
	}
	return to.Rank() > from.Rank()
}

type UpdateStatusReq struct {
	OrderID     uint               `json:"orderId"`
	Status      entity.OrderStatus `json:"status"`
	WaitMinutes int                `json:"waitMinutes"`
}

type StatusChangeRes struct {
	OrderID uint               `json:"orderId"`
	Status  entity.OrderStatus `json:"status"`
}

// ----- Manager action -----

func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, req UpdateStatusReq) (*StatusChangeRes, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if req.OrderID == 0 || req.Status == "" {
		return nil, invalid("orderId and status are required")
	}
	if !req.Status.Valid() {
		return nil, invalid("invalid order status")
	}
	if req.WaitMinutes < 0 {
		return nil, invalid("waitMinutes must not be negative")
	}

	o, err := s.Repo.GetOrder(ctx, req.OrderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order not found")
	}
	if err != nil {
		return nil, internal("load order", err)
	}
	if _, err := s.managerOrder(ctx, actor, o); err != nil {
		return nil, err
	}
	if !CanManagerTransition(o.Status, req.Status) {
		return nil, &Error{Kind: KindValidation, Msg: "invalid status transition",
			Err: fmt.Errorf("%s -> %s", o.Status, req.Status)}
	}

	from := o.Status
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := s.Repo.UpdateStatusFromTo(tx, o.ID, from, req.Status)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("order status was changed by someone else, reload and retry")
		}
		return s.Repo.AddHistory(tx, &entity.OrderStatusHistory{
			OrderID: o.ID, From: from, To: req.Status, ChangedBy: actor.UserID,
		})
	})
	if err != nil {
		return nil, wrapStore("update order status", err)
	}

	wait := req.WaitMinutes
	if wait == 0 {
		wait = s.DefaultWaitMinutes
	}
	s.dispatcher().send(ctx, notify.Event{
		Kind:        notify.StatusChanged,
		Recipient:   s.contactEmail(ctx, Actor{UserID: o.UserID}),
		UserID:      o.UserID,
		OrderID:     o.ID,
		Status:      req.Status,
		StatusLabel: req.Status.Label(),
		WaitMinutes: wait,
	})

	return &StatusChangeRes{OrderID: o.ID, Status: req.Status}, nil
}
