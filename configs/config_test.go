package configs

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"DB_DRIVER", "DB_SOURCE", "PORT", "JWT_TTL", "DEFAULT_WAIT_MINUTES",
		"NOTIFY_TIMEOUT", "PAYMENT_MAX_ATTEMPTS", "PAYMENT_ATTEMPT_WINDOW", "CORS_ORIGINS", "SEED_DEMO", "AMQP_URL", "REDIS_ADDR"} {
		t.Setenv(k, "")
	}
	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.Port != "8000" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.DefaultWaitMinutes != 30 || cfg.NotifyTimeout != 5*time.Second {
		t.Fatalf("wait=%d timeout=%s", cfg.DefaultWaitMinutes, cfg.NotifyTimeout)
	}
	if cfg.PaymentMaxAttempts != 5 || cfg.PaymentAttemptWindow != 15*time.Minute {
		t.Fatalf("attempts=%d window=%s", cfg.PaymentMaxAttempts, cfg.PaymentAttemptWindow)
	}
	if cfg.JWTTTL != 24*time.Hour || cfg.SeedDemo || cfg.CORSOrigins != nil || cfg.AMQPURL != "" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_SOURCE", "host=db user=app")
	t.Setenv("DEFAULT_WAIT_MINUTES", "45")
	t.Setenv("NOTIFY_TIMEOUT", "2s")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.DBDriver != "postgres" || cfg.DefaultWaitMinutes != 45 || cfg.NotifyTimeout != 2*time.Second || !cfg.SeedDemo {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("origins = %q", cfg.CORSOrigins)
	}
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct{ key, val string }{
		{"DB_DRIVER", "mysql"},
		{"NOTIFY_TIMEOUT", "soon"},
		{"PAYMENT_MAX_ATTEMPTS", "five"},
		{"DEFAULT_WAIT_MINUTES", "0"},
		{"SEED_DEMO", "maybe"},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("%s=%s: want error", tc.key, tc.val)
			}
		})
	}
}

func TestSeed(t *testing.T) {
	db, err := OpenDB("sqlite", "file:configs_seed?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()
	if err := SetupDatabase(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// twice: both seeders are idempotent
	for i := 0; i < 2; i++ {
		if err := SeedLookups(db); err != nil {
			t.Fatalf("seed lookups: %v", err)
		}
		if err := SeedDemo(db, discardLogger()); err != nil {
			t.Fatalf("seed demo: %v", err)
		}
	}
	var cats, foods int64
	db.Table("food_categories").Count(&cats)
	db.Table("foods").Count(&foods)
	if cats != int64(len(defaultCategories)) || foods != 3 {
		t.Fatalf("categories=%d foods=%d", cats, foods)
	}
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
