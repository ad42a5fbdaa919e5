package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/repository"

	"gorm.io/gorm"
)

// AttemptLimiter counts failed payment-code submissions per customer.
type AttemptLimiter interface {
	Blocked(ctx context.Context, userID uint) (bool, error)
	Fail(ctx context.Context, userID uint) error
	Reset(ctx context.Context, userID uint) error
}

type PaymentService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	UserRepo *repository.UserRepository
	Limiter  AttemptLimiter

	Notifier      notify.Notifier
	Log           *slog.Logger
	NotifyTimeout time.Duration
}

func NewPaymentService(db *gorm.DB, repo *repository.OrderRepository, userRepo *repository.UserRepository, limiter AttemptLimiter, n notify.Notifier, log *slog.Logger) *PaymentService {
	return &PaymentService{DB: db, Repo: repo, UserRepo: userRepo, Limiter: limiter, Notifier: n, Log: log}
}

// errInvalidCode is returned alike for a wrong code, an order that is
// already paid and another customer's code.
var errInvalidCode = &Error{Kind: KindValidation, Msg: "invalid payment code"}

// Confirm moves the customer's order holding code from waitingForPayment to
// processing. Repeating it fails with the same error as a wrong code.
func (s *PaymentService) Confirm(ctx context.Context, actor Actor, code string) (*StatusChangeRes, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, invalid("paymentCode is required")
	}
	if s.blocked(ctx, actor.UserID) {
		return nil, invalid("too many attempts")
	}

	var order *entity.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.Repo.FindPending(tx, actor.UserID, code)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errInvalidCode
		}
		if err != nil {
			return err
		}
		ok, err := s.Repo.UpdateStatusFromTo(tx, o.ID, entity.StatusWaitingForPayment, entity.StatusProcessing)
		if err != nil {
			return err
		}
		if !ok {
			return errInvalidCode
		}
		o.Status = entity.StatusProcessing
		order = o
		return s.Repo.AddHistory(tx, &entity.OrderStatusHistory{
			OrderID: o.ID, From: entity.StatusWaitingForPayment, To: entity.StatusProcessing, ChangedBy: actor.UserID,
		})
	})
	if errors.Is(err, errInvalidCode) {
		s.recordFailure(ctx, actor.UserID)
		return nil, errInvalidCode
	}
	if err != nil {
		return nil, wrapStore("confirm payment", err)
	}
	s.resetFailures(ctx, actor.UserID)

	recipient := actor.Email
	if s.UserRepo != nil {
		if email, err := s.UserRepo.ContactEmail(ctx, actor.UserID); err == nil && email != "" {
			recipient = email
		}
	}
	d := dispatcher{notifier: s.Notifier, log: s.Log, timeout: s.NotifyTimeout}
	d.send(ctx, notify.Event{
		Kind:        notify.PaymentConfirmed,
		Recipient:   recipient,
		UserID:      actor.UserID,
		OrderID:     order.ID,
		Status:      order.Status,
		StatusLabel: order.Status.Label(),
	})

	return &StatusChangeRes{OrderID: order.ID, Status: order.Status}, nil
}

// Limiter failures are logged and treated as "not blocked".
func (s *PaymentService) blocked(ctx context.Context, userID uint) bool {
	if s.Limiter == nil {
		return false
	}
	b, err := s.Limiter.Blocked(ctx, userID)
	if err != nil {
		s.logger().WarnContext(ctx, "payment attempt limiter unavailable", "err", err)
		return false
	}
	return b
}

func (s *PaymentService) recordFailure(ctx context.Context, userID uint) {
	if s.Limiter == nil {
		return
	}
	if err := s.Limiter.Fail(ctx, userID); err != nil {
		s.logger().WarnContext(ctx, "record payment attempt failed", "err", err)
	}
}

func (s *PaymentService) resetFailures(ctx context.Context, userID uint) {
	if s.Limiter == nil {
		return
	}
	if err := s.Limiter.Reset(ctx, userID); err != nil {
		s.logger().WarnContext(ctx, "reset payment attempts failed", "err", err)
	}
}

func (s *PaymentService) logger() *slog.Logger {
	if s.Log == nil {
		return slog.Default()
	}
	return s.Log
}
