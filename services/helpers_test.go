package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/SinaAfzali/elite-bite/configs"
	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/repository"

	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := configs.OpenDB("sqlite", "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// recorder is a Notifier that keeps every event.
type recorder struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (r *recorder) Notify(_ context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func (r *recorder) all() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

func (r *recorder) last(t *testing.T) notify.Event {
	t.Helper()
	evs := r.all()
	if len(evs) == 0 {
		t.Fatal("no notification recorded")
	}
	return evs[len(evs)-1]
}

type fixture struct {
	db    *gorm.DB
	notes *recorder

	customer, otherCustomer Actor
	manager, otherManager   Actor
	rest, otherRest         entity.Restaurant
	pizza, soda, foreign    entity.Food

	carts    *CartService
	orders   *OrderService
	payments *PaymentService
	reviews  *ReviewService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{db: db, notes: &recorder{}}

	mkUser := func(email, role string) Actor {
		u := entity.User{Email: email, Password: "x", FirstName: "Test", LastName: role, Role: role}
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("create user: %v", err)
		}
		return Actor{UserID: u.ID, Email: u.Email, Role: u.Role}
	}
	f.customer = mkUser("alice@example.com", entity.RoleCustomer)
	f.otherCustomer = mkUser("bob@example.com", entity.RoleCustomer)
	f.manager = mkUser("chef@example.com", entity.RoleManager)
	f.otherManager = mkUser("rival@example.com", entity.RoleManager)

	f.rest = entity.Restaurant{Name: "Elite Pizza", ManagerID: f.manager.UserID}
	f.otherRest = entity.Restaurant{Name: "Rival Burger", ManagerID: f.otherManager.UserID}
	for _, r := range []*entity.Restaurant{&f.rest, &f.otherRest} {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("create restaurant: %v", err)
		}
	}

	cat := entity.FoodCategory{Name: "Pizza"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	f.pizza = entity.Food{Name: "Margherita", Price: 100, Description: "tomato", IsAvailable: true, CategoryID: cat.ID, RestaurantID: f.rest.ID}
	f.soda = entity.Food{Name: "Soda", Price: 35, IsAvailable: true, CategoryID: cat.ID, RestaurantID: f.rest.ID}
	f.foreign = entity.Food{Name: "Burger", Price: 50, IsAvailable: true, CategoryID: cat.ID, RestaurantID: f.otherRest.ID}
	for _, food := range []*entity.Food{&f.pizza, &f.soda, &f.foreign} {
		if err := db.Create(food).Error; err != nil {
			t.Fatalf("create food: %v", err)
		}
	}

	users := repository.NewUserRepository(db)
	foods := repository.NewFoodRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	restRepo := repository.NewRestaurantRepository(db)

	f.carts = NewCartService(db, cartRepo, foods)
	f.orders = NewOrderService(db, orderRepo, cartRepo, restRepo, users, f.notes, nil)
	f.payments = NewPaymentService(db, orderRepo, users, nil, f.notes, nil)
	f.reviews = NewReviewService(db, repository.NewReviewRepository(db), foods, orderRepo)
	return f
}

func (f *fixture) addToCart(t *testing.T, actor Actor, food entity.Food, times int) *CartView {
	t.Helper()
	var view *CartView
	for i := 0; i < times; i++ {
		v, err := f.carts.Add(context.Background(), actor, food.ID)
		if err != nil {
			t.Fatalf("add %s: %v", food.Name, err)
		}
		view = v
	}
	return view
}

func (f *fixture) placeOrder(t *testing.T, actor Actor, food entity.Food, qty int) *CreateOrderRes {
	t.Helper()
	f.addToCart(t, actor, food, qty)
	out, err := f.orders.CreateFromCart(context.Background(), actor)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return out
}

func (f *fixture) paidOrder(t *testing.T, actor Actor, food entity.Food, qty int) *CreateOrderRes {
	t.Helper()
	out := f.placeOrder(t, actor, food, qty)
	if _, err := f.payments.Confirm(context.Background(), actor, out.PaymentCode); err != nil {
		t.Fatalf("confirm payment: %v", err)
	}
	return out
}

func (f *fixture) orderStatus(t *testing.T, id uint) entity.OrderStatus {
	t.Helper()
	var o entity.Order
	if err := f.db.First(&o, id).Error; err != nil {
		t.Fatalf("load order: %v", err)
	}
	return o.Status
}

func wantKind(t *testing.T, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("want %s error, got nil", want)
	}
	if got := KindOf(err); got != want {
		t.Fatalf("want %s error, got %s (%v)", want, got, err)
	}
}

func wantMsg(t *testing.T, err error, msg string) {
	t.Helper()
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("want *Error, got %T (%v)", err, err)
	}
	if e.Msg != msg {
		t.Fatalf("message = %q, want %q", e.Msg, msg)
	}
}
