package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}

	privatePEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	publicPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: publicDER,
	})

	svc, err := NewService(privatePEM, publicPEM, 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.GenerateTokenPair(42, true)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}

	access, err := svc.ValidateToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("validate access: %v", err)
	}
	if access.UserID != 42 || access.TokenType != "access" {
		t.Fatalf("access claims = %+v", access)
	}
	if !access.MustChangePassword {
		t.Fatal("must_change_password not carried")
	}

	refresh, err := svc.ValidateToken(pair.RefreshToken)
	if err != nil {
		t.Fatalf("validate refresh: %v", err)
	}
	if refresh.TokenType != "refresh" {
		t.Fatalf("refresh token type = %q", refresh.TokenType)
	}
	if refresh.ID == "" {
		t.Fatal("refresh token missing jti")
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	for _, tok := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := svc.ValidateToken(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("token %q: err = %v, want ErrInvalidToken", tok, err)
		}
	}
}

func TestValidateTokenRejectsForeignKey(t *testing.T) {
	issuer := newTestService(t)
	verifier := newTestService(t)

	pair, err := issuer.GenerateTokenPair(1, false)
	if err != nil {
		t.Fatalf("generate pair: %v", err)
	}
	if _, err := verifier.ValidateToken(pair.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("err = %v, want ErrInvalidToken for foreign signature", err)
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}
