package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/internal/cart"
)

func TestCartTokenKeepsValidHeader(t *testing.T) {
	token := uuid.NewString()
	var seen string
	handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartTokenFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(cart.TokenHeader, token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if seen != token {
		t.Fatalf("expected token %s in context, got %s", token, seen)
	}
	if got := rec.Header().Get(cart.TokenHeader); got != token {
		t.Fatalf("expected token echoed, got %s", got)
	}
}

func TestCartTokenIssuesWhenMissingOrInvalid(t *testing.T) {
	for _, header := range []string{"", "not-a-token"} {
		var seen string
		handler := CartToken()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = CartTokenFromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set(cart.TokenHeader, header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if !cart.ValidToken(seen) {
			t.Fatalf("expected a fresh token for header %q, got %q", header, seen)
		}
		if rec.Header().Get(cart.TokenHeader) != seen {
			t.Fatalf("expected issued token on response")
		}
	}
}
