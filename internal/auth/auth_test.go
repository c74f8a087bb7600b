package auth

import (
	"errors"
	"testing"
	"time"

	"fintrack/internal/config"
	"fintrack/internal/core"
)

func testConfig(expires time.Duration) *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret-at-least-16-chars",
		JWTExpiresIn: expires,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testConfig(time.Hour))

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	userID, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken returned error: %v", err)
	}
	if userID != 42 {
		t.Errorf("VerifyToken user id = %d, want 42", userID)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testConfig(time.Hour))

	for _, token := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := svc.VerifyToken(token); !errors.Is(err, core.ErrUnauthorized) {
			t.Errorf("VerifyToken(%q) error = %v, want ErrUnauthorized", token, err)
		}
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	svc := NewTokenService(testConfig(-time.Minute))

	token, err := svc.GenerateToken(42)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := svc.VerifyToken(token); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expired token error = %v, want ErrUnauthorized", err)
	}
}

func TestVerifyTokenRejectsWrongKey(t *testing.T) {
	issuer := NewTokenService(&config.Config{JWTSecret: "issuer-secret-0123456789", JWTExpiresIn: time.Hour})
	verifier := NewTokenService(&config.Config{JWTSecret: "other-secret-abcdefghij", JWTExpiresIn: time.Hour})

	token, err := issuer.GenerateToken(7)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := verifier.VerifyToken(token); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("token signed with another key: error = %v, want ErrUnauthorized", err)
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}

	if err := VerifyPassword("correct horse battery staple", hash); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}
	if err := VerifyPassword("wrong password", hash); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("VerifyPassword with wrong password = %v, want ErrUnauthorized", err)
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("HashPassword(short) error = %v, want ErrWeakPassword", err)
	}
}
