package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver  string
	DBSource  string
	Port      string
	LogLevel  string
	JWTSecret string
	JWTTTL    time.Duration

	AMQPURL   string
	RedisAddr string

	DefaultWaitMinutes   int
	NotifyTimeout        time.Duration
	PaymentMaxAttempts   int
	PaymentAttemptWindow time.Duration

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	SeedDemo       bool
}

// LoadConfig reads .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var p parser
	cfg := &Config{
		DBDriver:  getEnv("DB_DRIVER", "sqlite"),
		DBSource:  getEnv("DB_SOURCE", "elitebite.db"),
		Port:      getEnv("PORT", "8000"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    p.duration("JWT_TTL", 24*time.Hour),

		AMQPURL:   os.Getenv("AMQP_URL"),
		RedisAddr: os.Getenv("REDIS_ADDR"),

		DefaultWaitMinutes:   p.integer("DEFAULT_WAIT_MINUTES", 30),
		NotifyTimeout:        p.duration("NOTIFY_TIMEOUT", 5*time.Second),
		PaymentMaxAttempts:   p.integer("PAYMENT_MAX_ATTEMPTS", 5),
		PaymentAttemptWindow: p.duration("PAYMENT_ATTEMPT_WINDOW", 15*time.Minute),

		RateLimitRPS:   p.float("RATE_LIMIT_RPS", 1),
		RateLimitBurst: p.integer("RATE_LIMIT_BURST", 5),
		CORSOrigins:    splitList(os.Getenv("CORS_ORIGINS")),
		SeedDemo:       p.boolean("SEED_DEMO", false),
	}
	if p.err != nil {
		return nil, p.err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.DBSource == "" {
		return errors.New("DB_SOURCE is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.DefaultWaitMinutes <= 0 {
		return errors.New("DEFAULT_WAIT_MINUTES must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser keeps the first conversion error so LoadConfig reports it once.
type parser struct{ err error }

func (p *parser) fail(key, val string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s=%q: %w", key, val, err)
	}
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return d
}

func (p *parser) integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return b
}
