package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/repository"

	"gorm.io/gorm"
)

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	CartRepo *repository.CartRepository
	RestRepo *repository.RestaurantRepository
	UserRepo *repository.UserRepository

	Notifier      notify.Notifier
	Log           *slog.Logger
	NotifyTimeout time.Duration

	// DefaultWaitMinutes is reported in statusChanged notifications when the
	// manager does not give an estimate.
	DefaultWaitMinutes int

	// NewPaymentCode is swapped in tests; nil means RandomPaymentCode.
	NewPaymentCode func() (string, error)
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	cartRepo *repository.CartRepository,
	restRepo *repository.RestaurantRepository,
	userRepo *repository.UserRepository,
	n notify.Notifier,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		DB: db, Repo: repo, CartRepo: cartRepo, RestRepo: restRepo, UserRepo: userRepo,
		Notifier: n, Log: log,
		DefaultWaitMinutes: 30,
	}
}

func (s *OrderService) dispatcher() dispatcher {
	return dispatcher{notifier: s.Notifier, log: s.Log, timeout: s.NotifyTimeout}
}

// ----- DTOs -----

type CreateOrderRes struct {
	OrderID     uint               `json:"orderId"`
	PaymentCode string             `json:"paymentCode"`
	Status      entity.OrderStatus `json:"status"`
	Pricing
	Items []entity.OrderItem `json:"items"`
}

type OrderDetail struct {
	OrderID      uint               `json:"orderId"`
	RestaurantID uint               `json:"restaurantId"`
	Status       entity.OrderStatus `json:"status"`
	TotalPrice   int64              `json:"totalPrice"`
	Tax          int64              `json:"tax"`
	CreatedAt    time.Time          `json:"createdAt"`
	Items        []entity.OrderItem `json:"items"`
}

func newOrderDetail(o *entity.Order) *OrderDetail {
	items := o.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	return &OrderDetail{
		OrderID: o.ID, RestaurantID: o.RestaurantID, Status: o.Status,
		TotalPrice: o.TotalPrice, Tax: o.Tax, CreatedAt: o.CreatedAt, Items: items,
	}
}

var errCartEmpty = &Error{Kind: KindValidation, Msg: "cart is empty"}

// ----- Create -----

// CreateFromCart turns the customer's cart into an order awaiting payment.
// Order, item snapshot and cart clearing commit together or not at all; the
// payment code is sent only after the commit.
func (s *OrderService) CreateFromCart(ctx context.Context, actor Actor) (*CreateOrderRes, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}

	var (
		order   entity.Order
		pricing Pricing
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.CartRepo.FindByUser(tx, actor.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errCartEmpty
		}
		if err != nil {
			return err
		}
		lines, err := s.CartRepo.Items(tx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return errCartEmpty
		}

		restID := lines[0].Food.RestaurantID
		snapshot := make([]entity.OrderItem, 0, len(lines))
		priced := make([]Line, 0, len(lines))
		for _, it := range lines {
			if it.Food.RestaurantID != restID {
				return invalid("cart contains food from more than one restaurant")
			}
			snapshot = append(snapshot, entity.OrderItem{
				FoodID:          it.FoodID,
				FoodName:        it.Food.Name,
				FoodPrice:       it.Food.Price,
				FoodDescription: it.Food.Description,
				FoodCategoryID:  it.Food.CategoryID,
				Quantity:        it.Quantity,
			})
			priced = append(priced, Line{UnitPrice: it.Food.Price, Quantity: it.Quantity})
		}
		pricing = CalculatePricing(priced)

		order = entity.Order{
			UserID:       actor.UserID,
			RestaurantID: restID,
			Status:       entity.StatusWaitingForPayment,
			TotalPrice:   pricing.TotalPrice,
			Tax:          pricing.Tax,
			Items:        snapshot,
		}
		if err := s.insertWithPaymentCode(tx, &order); err != nil {
			return err
		}
		if err := s.Repo.AddHistory(tx, &entity.OrderStatusHistory{
			OrderID: order.ID, To: entity.StatusWaitingForPayment, ChangedBy: actor.UserID,
		}); err != nil {
			return err
		}
		return s.CartRepo.ClearCart(tx, cart.ID)
	})
	if err != nil {
		return nil, wrapStore("create order", err)
	}

	s.dispatcher().send(ctx, notify.Event{
		Kind:        notify.PaymentCodeIssued,
		Recipient:   s.contactEmail(ctx, actor),
		UserID:      actor.UserID,
		OrderID:     order.ID,
		PaymentCode: order.PaymentCode,
		Status:      order.Status,
		StatusLabel: order.Status.Label(),
	})

	return &CreateOrderRes{
		OrderID:     order.ID,
		PaymentCode: order.PaymentCode,
		Status:      order.Status,
		Pricing:     pricing,
		Items:       order.Items,
	}, nil
}

// insertWithPaymentCode draws codes until one is free. The existence check
// avoids most collisions; the unique index catches the rest, and the insert
// runs under a savepoint so a collision leaves tx usable for the next try.
func (s *OrderService) insertWithPaymentCode(tx *gorm.DB, o *entity.Order) error {
	gen := s.NewPaymentCode
	if gen == nil {
		gen = RandomPaymentCode
	}
	for attempt := 0; attempt < maxPaymentCodeTries; attempt++ {
		code, err := gen()
		if err != nil {
			return internal("generate payment code", err)
		}
		taken, err := s.Repo.PaymentCodeExists(tx, code)
		if err != nil {
			return err
		}
		if taken {
			continue
		}

		o.PaymentCode = code
		err = tx.Transaction(func(sp *gorm.DB) error { return s.Repo.CreateOrder(sp, o) })
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			o.ID = 0
			for i := range o.Items {
				o.Items[i].ID, o.Items[i].OrderID = 0, 0
			}
			continue
		}
		return err
	}
	return internal("could not allocate a unique payment code", nil)
}

func (s *OrderService) contactEmail(ctx context.Context, actor Actor) string {
	if s.UserRepo != nil {
		if email, err := s.UserRepo.ContactEmail(ctx, actor.UserID); err == nil && email != "" {
			return email
		}
	}
	return actor.Email
}

// ----- Customer reads -----

func (s *OrderService) LastForUser(ctx context.Context, actor Actor) (*OrderDetail, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	o, err := s.Repo.LatestForUser(ctx, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("no order found for this customer")
	}
	if err != nil {
		return nil, internal("load last order", err)
	}
	return newOrderDetail(o), nil
}

func (s *OrderService) DetailForUser(ctx context.Context, actor Actor, orderID uint) (*OrderDetail, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	if orderID == 0 {
		return nil, invalid("orderId is required")
	}
	o, err := s.Repo.GetOrderForUser(ctx, actor.UserID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order not found")
	}
	if err != nil {
		return nil, internal("load order", err)
	}
	return newOrderDetail(o), nil
}

func (s *OrderService) ListForUser(ctx context.Context, actor Actor, limit int) ([]repository.OrderSummary, error) {
	if err := requireCustomer(actor); err != nil {
		return nil, err
	}
	out, err := s.Repo.ListOrdersForUser(ctx, actor.UserID, limit)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return out, nil
}

// History is visible to the ordering customer and to the owning manager.
func (s *OrderService) History(ctx context.Context, actor Actor, orderID uint) ([]entity.OrderStatusHistory, error) {
	if !actor.IsCustomer() && !actor.IsManager() {
		return nil, ErrUnauthorized
	}
	o, err := s.Repo.GetOrder(ctx, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order not found")
	}
	if err != nil {
		return nil, internal("load order", err)
	}
	if actor.IsCustomer() && o.UserID != actor.UserID {
		return nil, notFound("order not found")
	}
	if actor.IsManager() {
		if _, err := s.managerOrder(ctx, actor, o); err != nil {
			return nil, err
		}
	}
	rows, err := s.Repo.History(ctx, o.ID)
	if err != nil {
		return nil, internal("load order history", err)
	}
	return rows, nil
}

// ----- Manager reads -----

type OwnerOrderListOut struct {
	Items []repository.OwnerOrderSummary `json:"items"`
	Total int64                          `json:"total"`
	Page  int                            `json:"page"`
	Limit int                            `json:"limit"`
}

func (s *OrderService) ListForRestaurant(ctx context.Context, actor Actor, status entity.OrderStatus, page, limit int) (*OwnerOrderListOut, error) {
	if err := requireManager(actor); err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return nil, invalid("invalid order status")
	}
	rest, err := s.managerRestaurant(ctx, actor)
	if err != nil {
		return nil, err
	}
	items, total, err := s.Repo.ListOrdersForRestaurant(ctx, rest.ID, status, page, limit)
	if err != nil {
		return nil, internal("list restaurant orders", err)
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	return &OwnerOrderListOut{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *OrderService) managerRestaurant(ctx context.Context, actor Actor) (*entity.Restaurant, error) {
	rest, err := s.RestRepo.FindByManager(ctx, actor.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, forbidden("manager has no restaurant")
	}
	if err != nil {
		return nil, internal("load restaurant", err)
	}
	return rest, nil
}

// managerOrder checks that o belongs to the manager's restaurant.
func (s *OrderService) managerOrder(ctx context.Context, actor Actor, o *entity.Order) (*entity.Restaurant, error) {
	rest, err := s.managerRestaurant(ctx, actor)
	if err != nil {
		return nil, err
	}
	if o.RestaurantID != rest.ID {
		return nil, forbidden("this order does not belong to your restaurant")
	}
	return rest, nil
}
