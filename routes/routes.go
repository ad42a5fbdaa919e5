package routes

import (
	"log/slog"
	"time"

	"github.com/SinaAfzali/elite-bite/controllers"
	"github.com/SinaAfzali/elite-bite/entity"
	"github.com/SinaAfzali/elite-bite/middlewares"
	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/repository"
	"github.com/SinaAfzali/elite-bite/services"
	"github.com/SinaAfzali/elite-bite/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Deps is everything the HTTP layer is built from.
type Deps struct {
	DB  *gorm.DB
	Log *slog.Logger

	JWTSecret string
	JWTTTL    time.Duration

	Notifier           notify.Notifier
	Limiter            services.AttemptLimiter
	Hub                *ws.OrderHub // optional
	NotifyTimeout      time.Duration
	DefaultWaitMinutes int

	PaymentRPS   float64
	PaymentBurst int
	CORSOrigins  []string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(d.Log))
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "success"}) })

	userRepo := repository.NewUserRepository(d.DB)
	foodRepo := repository.NewFoodRepository(d.DB)
	cartRepo := repository.NewCartRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)
	restRepo := repository.NewRestaurantRepository(d.DB)
	reviewRepo := repository.NewReviewRepository(d.DB)

	authSvc := services.NewAuthService(userRepo, d.JWTSecret, d.JWTTTL)
	cartSvc := services.NewCartService(d.DB, cartRepo, foodRepo)
	orderSvc := services.NewOrderService(d.DB, orderRepo, cartRepo, restRepo, userRepo, d.Notifier, d.Log)
	orderSvc.NotifyTimeout = d.NotifyTimeout
	if d.DefaultWaitMinutes > 0 {
		orderSvc.DefaultWaitMinutes = d.DefaultWaitMinutes
	}
	paySvc := services.NewPaymentService(d.DB, orderRepo, userRepo, d.Limiter, d.Notifier, d.Log)
	paySvc.NotifyTimeout = d.NotifyTimeout
	reviewSvc := services.NewReviewService(d.DB, reviewRepo, foodRepo, orderRepo)

	authCtrl := controllers.NewAuthController(authSvc)
	foodCtrl := controllers.NewFoodController(foodRepo, reviewSvc)
	cartCtrl := controllers.NewCartController(cartSvc)
	orderCtrl := controllers.NewOrderController(orderSvc)
	ownerCtrl := controllers.NewOwnerOrderController(orderSvc)
	payCtrl := controllers.NewPaymentController(paySvc)
	reviewCtrl := controllers.NewReviewController(reviewSvc)

	customer := middlewares.AuthMiddleware(d.JWTSecret, entity.RoleCustomer)
	manager := middlewares.AuthMiddleware(d.JWTSecret, entity.RoleManager)

	// Auth
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
		a.GET("/me", middlewares.AuthMiddleware(d.JWTSecret), authCtrl.Me)
	}

	// Catalog (public)
	r.GET("/foods/:id", foodCtrl.Detail)
	r.GET("/foods/:id/reviews", foodCtrl.Reviews)

	// Cart (customer)
	cart := r.Group("/cart", customer)
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/add", cartCtrl.Add)
		cart.POST("/remove", cartCtrl.Remove)
	}

	// Order (customer)
	payLimit := middlewares.NewRateLimiter(d.PaymentRPS, d.PaymentBurst)
	o := r.Group("/order")
	{
		o.POST("/add", customer, orderCtrl.Create)
		o.POST("/payment", payLimit.Limit(), customer, payCtrl.Confirm)
		o.GET("/last", customer, orderCtrl.Last)
		o.POST("/changeStatus", manager, ownerCtrl.ChangeStatus)
	}
	orders := r.Group("/orders", customer)
	{
		orders.GET("", orderCtrl.ListForMe)
		orders.GET("/:id", orderCtrl.Detail)
		orders.GET("/:id/history", orderCtrl.History)
	}

	// Manager
	m := r.Group("/manager", manager)
	{
		m.GET("/orders", ownerCtrl.List)
		m.GET("/orders/:id/history", ownerCtrl.History)
	}

	// Review (customer)
	r.POST("/review/submit", customer, reviewCtrl.Submit)

	// Order tracking
	if d.Hub != nil {
		r.GET("/ws/orders", middlewares.WSAuthMiddleware(d.JWTSecret), d.Hub.HandleWebSocket)
	}
}
