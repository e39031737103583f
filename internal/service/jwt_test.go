package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateJWT(42)
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	userID, err := ParseJWT(token)
	if err != nil {
		t.Fatalf("ParseJWT failed: %v", err)
	}
	if userID != 42 {
		t.Fatalf("expected user_id 42, got %d", userID)
	}
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	InitJWT("test-secret")

	if _, err := ParseJWT("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	InitJWT("test-secret")

	claims := jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := ParseJWT(signed); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestParseJWTRejectsExpired(t *testing.T) {
	InitJWT("test-secret")

	claims := jwt.MapClaims{
		"user_id": int64(42),
		"exp":     time.Now().Add(-time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	if _, err := ParseJWT(signed); err == nil {
		t.Fatal("expected error for expired token")
	}
}
