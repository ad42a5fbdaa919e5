package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/SinaAfzali/elite-bite/configs"
	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/notify"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type recorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *recorder) Notify(_ context.Context, ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type api struct {
	t *testing.T
	r *gin.Engine
}

func (a api) call(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: bad body %q", method, path, w.Body.String())
	}
	return w.Code, env
}

func (a api) must(method, path, token string, body any, want int, out any) {
	a.t.Helper()
	code, env := a.call(method, path, token, body)
	if code != want {
		a.t.Fatalf("%s %s = %d (%s), want %d", method, path, code, env.Message, want)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			a.t.Fatalf("%s %s: decode data: %v", method, path, err)
		}
	}
}

// demoPassword is what SeedDemo gives its accounts.
const demoPassword = "password"

func (a api) login(email, password string) string {
	a.t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	a.must(http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": password}, http.StatusOK, &out)
	return out.Token
}

func newAPI(t *testing.T) (api, *gorm.DB, *recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := configs.OpenDB("sqlite", "file:routes_"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := configs.SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := configs.SeedLookups(db); err != nil {
		t.Fatalf("seed lookups: %v", err)
	}
	if err := configs.SeedDemo(db, log); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	rec := &recorder{}
	r := gin.New()
	RegisterRoutes(r, Deps{
		DB: db, Log: log,
		JWTSecret: "test-secret", JWTTTL: time.Hour,
		Notifier:     rec,
		PaymentRPS:   100,
		PaymentBurst: 100,
	})
	return api{t: t, r: r}, db, rec
}

func TestHealthAndAuthErrors(t *testing.T) {
	a, _, _ := newAPI(t)

	a.must(http.MethodGet, "/health", "", nil, http.StatusOK, nil)

	code, env := a.call(http.MethodGet, "/cart", "", nil)
	if code != http.StatusUnauthorized || env.Status != "error" {
		t.Fatalf("anonymous cart = %d %+v", code, env)
	}

	code, env = a.call(http.MethodPost, "/auth/login", "", gin.H{"email": "customer@elitebite.local", "password": "nope"})
	if code != http.StatusUnauthorized || env.Message != "invalid credentials" {
		t.Fatalf("bad login = %d %+v", code, env)
	}

	reg := gin.H{"email": "new@example.com", "password": "secret1", "firstName": "New", "lastName": "User"}
	a.must(http.MethodPost, "/auth/register", "", reg, http.StatusCreated, nil)
	code, env = a.call(http.MethodPost, "/auth/register", "", reg)
	if code != http.StatusBadRequest || env.Message != "email already registered" {
		t.Fatalf("duplicate register = %d %+v", code, env)
	}
	tok := a.login("new@example.com", "secret1")
	var me entity.User
	a.must(http.MethodGet, "/auth/me", tok, nil, http.StatusOK, &me)
	if me.Email != "new@example.com" || me.Role != entity.RoleCustomer {
		t.Fatalf("me = %+v", me)
	}
}

func TestOrderFlow(t *testing.T) {
	a, db, rec := newAPI(t)
	customer := a.login("customer@elitebite.local", demoPassword)
	manager := a.login("manager@elitebite.local", demoPassword)

	var pizza entity.Food
	if err := db.Where("name = ?", "Margherita").First(&pizza).Error; err != nil {
		t.Fatalf("load food: %v", err)
	}

	var cart struct {
		Foods      []struct{ Quantity int } `json:"foods"`
		Price      int64                    `json:"price"`
		Tax        int64                    `json:"tax"`
		TotalPrice int64                    `json:"totalPrice"`
	}
	a.must(http.MethodPost, "/cart/add", customer, gin.H{"foodId": pizza.ID}, http.StatusOK, nil)
	a.must(http.MethodPost, "/cart/add", customer, gin.H{"foodId": pizza.ID}, http.StatusOK, &cart)
	if len(cart.Foods) != 1 || cart.Foods[0].Quantity != 2 || cart.Price != 200 || cart.Tax != 20 || cart.TotalPrice != 220 {
		t.Fatalf("cart = %+v", cart)
	}

	// managers do not have carts
	code, _ := a.call(http.MethodPost, "/cart/add", manager, gin.H{"foodId": pizza.ID})
	if code != http.StatusForbidden {
		t.Fatalf("manager cart add = %d", code)
	}

	var order struct {
		OrderID     uint   `json:"orderId"`
		PaymentCode string `json:"paymentCode"`
		Status      string `json:"status"`
		TotalPrice  int64  `json:"totalPrice"`
		Tax         int64  `json:"tax"`
	}
	a.must(http.MethodPost, "/order/add", customer, nil, http.StatusCreated, &order)
	if order.Status != "waitingForPayment" || order.TotalPrice != 220 || order.Tax != 20 || len(order.PaymentCode) != 5 {
		t.Fatalf("order = %+v", order)
	}
	code, env := a.call(http.MethodPost, "/order/add", customer, nil)
	if code != http.StatusBadRequest || env.Message != "cart is empty" {
		t.Fatalf("second order = %d %+v", code, env)
	}

	rec.mu.Lock()
	issued := rec.events[0]
	rec.mu.Unlock()
	if issued.Kind != notify.PaymentCodeIssued || issued.PaymentCode != order.PaymentCode || issued.Recipient != "customer@elitebite.local" {
		t.Fatalf("issued = %+v", issued)
	}

	wrong := "99999"
	if order.PaymentCode == wrong {
		wrong = "99998"
	}
	code, env = a.call(http.MethodPost, "/order/payment", customer, gin.H{"paymentCode": wrong})
	if code != http.StatusBadRequest || env.Message != "invalid payment code" {
		t.Fatalf("wrong code = %d %+v", code, env)
	}
	a.must(http.MethodPost, "/order/payment", customer, gin.H{"paymentCode": order.PaymentCode}, http.StatusOK, nil)

	code, _ = a.call(http.MethodPost, "/order/changeStatus", customer, gin.H{"orderId": order.OrderID, "status": "delivering"})
	if code != http.StatusForbidden {
		t.Fatalf("customer changeStatus = %d", code)
	}
	a.must(http.MethodPost, "/order/changeStatus", manager, gin.H{"orderId": order.OrderID, "status": "delivering", "waitMinutes": 15}, http.StatusOK, nil)

	var list struct {
		Total int64 `json:"total"`
	}
	a.must(http.MethodGet, "/manager/orders?status=delivering", manager, nil, http.StatusOK, &list)
	if list.Total != 1 {
		t.Fatalf("manager list total = %d", list.Total)
	}

	review := gin.H{"foodId": pizza.ID, "rating": 5, "comment": "great"}
	code, _ = a.call(http.MethodPost, "/review/submit", customer, review)
	if code != http.StatusForbidden {
		t.Fatalf("review before completion = %d", code)
	}
	a.must(http.MethodPost, "/order/changeStatus", manager, gin.H{"orderId": order.OrderID, "status": "completed"}, http.StatusOK, nil)
	a.must(http.MethodPost, "/review/submit", customer, review, http.StatusCreated, nil)

	var hist []entity.OrderStatusHistory
	a.must(http.MethodGet, "/orders/"+itoa(order.OrderID)+"/history", customer, nil, http.StatusOK, &hist)
	if len(hist) != 4 || hist[3].To != entity.StatusCompleted {
		t.Fatalf("history = %+v", hist)
	}

	var food entity.Food
	a.must(http.MethodGet, "/foods/"+itoa(pizza.ID), "", nil, http.StatusOK, &food)
	if food.RatingScore != 5 || food.RatingTotalVoters != 1 {
		t.Fatalf("food rating = %v/%d", food.RatingScore, food.RatingTotalVoters)
	}

	var last struct {
		OrderID uint   `json:"orderId"`
		Status  string `json:"status"`
	}
	a.must(http.MethodGet, "/order/last", customer, nil, http.StatusOK, &last)
	if last.OrderID != order.OrderID || last.Status != "completed" {
		t.Fatalf("last = %+v", last)
	}
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
