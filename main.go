package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/SinaAfzali/elite-bite/configs"
	"github.com/SinaAfzali/elite-bite/notify"
	"github.com/SinaAfzali/elite-bite/pkg/attempts"
	"github.com/SinaAfzali/elite-bite/pkg/logging"
	"github.com/SinaAfzali/elite-bite/pkg/shutdown"
	"github.com/SinaAfzali/elite-bite/routes"
	"github.com/SinaAfzali/elite-bite/services"
	"github.com/SinaAfzali/elite-bite/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}
	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := shutdown.WithSignals(context.Background())
	defer stop()

	// DB
	db, err := configs.OpenDB(cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return err
	}
	if err := configs.SetupDatabase(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := configs.SeedLookups(db); err != nil {
		return fmt.Errorf("seed lookups: %w", err)
	}
	if cfg.SeedDemo {
		if err := configs.SeedDemo(db, log); err != nil {
			return fmt.Errorf("seed demo: %w", err)
		}
	}

	// Notifications
	hub := ws.NewOrderHub(log)
	go hub.Run(ctx)
	sinks := notify.Multi{notify.NewLogNotifier(log), hub}
	if cfg.AMQPURL != "" {
		pub, err := notify.DialAMQP(ctx, log, cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer pub.Close()
		sinks = append(sinks, pub)
		log.Info("publishing notifications to amqp", "exchange", notify.Exchange)
	}

	// Payment attempt limiter
	var limiter services.AttemptLimiter = attempts.Noop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		limiter = attempts.NewRedisLimiter(rdb, "payment_attempts", cfg.PaymentMaxAttempts, cfg.PaymentAttemptWindow)
	}

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	routes.RegisterRoutes(r, routes.Deps{
		DB:                 db,
		Log:                log,
		JWTSecret:          cfg.JWTSecret,
		JWTTTL:             cfg.JWTTTL,
		Notifier:           sinks,
		Limiter:            limiter,
		Hub:                hub,
		NotifyTimeout:      cfg.NotifyTimeout,
		DefaultWaitMinutes: cfg.DefaultWaitMinutes,
		PaymentRPS:         cfg.RateLimitRPS,
		PaymentBurst:       cfg.RateLimitBurst,
		CORSOrigins:        cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server running", "addr", srv.Addr, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
