package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func TestOwnerIDFromToken(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"id": "owner-42"})

	id, err := v.OwnerIDFromToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "owner-42" {
		t.Errorf("expected owner-42, got %q", id)
	}
}

func TestOwnerIDFromToken_BadSignature(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, "other-secret", jwt.MapClaims{"id": "owner-42"})

	if _, err := v.OwnerIDFromToken(token); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestOwnerIDFromToken_MissingClaim(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "owner-42"})

	if _, err := v.OwnerIDFromToken(token); err == nil {
		t.Fatal("expected rejection without id claim")
	}
}

func TestMiddleware_BearerHeader(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"id": "owner-1"})

	var gotOwner string
	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOwner = OwnerID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotOwner != "owner-1" {
		t.Errorf("expected owner-1 in context, got %q", gotOwner)
	}
}

func TestMiddleware_CookieFallback(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{"id": "owner-1"})

	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected cookie auth to pass, got %d", rec.Code)
	}
}

func TestMiddleware_Unauthenticated(t *testing.T) {
	v := NewVerifier(testSecret)
	handler := v.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/holdings", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
