package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := GenerateToken(42, "alice@example.com", "customer", "s3cret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	c, err := ParseToken(tok, "s3cret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if c.UserID != 42 || c.Email != "alice@example.com" || c.Role != "customer" {
		t.Fatalf("claims = %+v", c)
	}
}

func TestParseTokenRejects(t *testing.T) {
	good, _ := GenerateToken(1, "a@b.c", "customer", "s3cret", time.Hour)
	expired, _ := GenerateToken(1, "a@b.c", "customer", "s3cret", -time.Minute)
	anon, _ := GenerateToken(0, "", "customer", "s3cret", time.Hour)

	tests := []struct {
		name, token, secret string
	}{
		{"wrong secret", good, "other"},
		{"expired", expired, "s3cret"},
		{"no user", anon, "s3cret"},
		{"garbage", "not.a.token", "s3cret"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseToken(tc.token, tc.secret); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}
