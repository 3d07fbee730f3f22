package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestErrorKinds(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(KindInvalidTransition, "booking.Authorize", "booking is completed"))

	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("errors.Is(%v, ErrInvalidTransition) = false", err)
	}
	if errors.Is(err, ErrAuth) {
		t.Fatalf("errors.Is(%v, ErrAuth) = true", err)
	}
	if got := KindOf(err); got != KindInvalidTransition {
		t.Fatalf("KindOf = %s", got)
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("plain errors carry no kind")
	}

	cause := errors.New("dial tcp: refused")
	wrapped := WrapError(KindTransport, "gateway.GetProviders", cause, "request failed")
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped error lost its cause")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want int
	}{
		{KindAuth, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindValidation, http.StatusBadRequest},
		{KindInvalidTransition, http.StatusBadRequest},
		{KindInvalidState, http.StatusBadRequest},
		{KindTransport, http.StatusBadGateway},
	}
	for _, tt := range tests {
		if got := StatusFor(NewError(tt.kind, "op", "msg")); got != tt.want {
			t.Errorf("StatusFor(%s) = %d, want %d", tt.kind, got, tt.want)
		}
	}
	if got := StatusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("StatusFor(plain) = %d", got)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	tok, err := GenerateToken(secret, "42", "provider", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateToken(secret, tok)
	if err != nil || claims.Subject != "42" || claims.Role != "provider" {
		t.Fatalf("claims = %+v, err = %v", claims, err)
	}
	if _, err := ValidateToken([]byte("other"), tok); err == nil {
		t.Fatal("token verified with the wrong secret")
	}

	exp, ok := TokenExpiry(tok)
	if !ok || exp.Before(time.Now().Add(59*time.Minute)) {
		t.Fatalf("TokenExpiry = %v, %v", exp, ok)
	}
	if _, ok := TokenExpiry("opaque-token"); ok {
		t.Fatal("opaque tokens have no expiry")
	}

	expired, _ := GenerateToken(secret, "42", "user", -time.Minute)
	if _, err := ValidateToken(secret, expired); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestCheckHealthWithoutServices(t *testing.T) {
	st := CheckHealth(context.Background(), nil, nil)
	if !st.Healthy() || st.Mongo != nil || st.Redis != nil {
		t.Fatalf("status = %+v", st)
	}
	if got := GetHealthStatus(); !got.CheckedAt.Equal(st.CheckedAt) {
		t.Fatalf("snapshot not stored: %+v", got)
	}

	down := false
	if (HealthStatus{Redis: &down}).Healthy() {
		t.Fatal("a failed redis check must be unhealthy")
	}
}
