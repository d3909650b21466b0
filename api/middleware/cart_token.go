package middleware

import (
	"net/http"
	"strings"

	"github.com/procifarmed/storefront-api/internal/cart"
)

// CartToken resolves the anonymous cart token from X-Cart-Token, minting a
// new one when the header is missing or malformed. The effective token is
// echoed back on every response.
func CartToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(cart.TokenHeader))
			if !cart.ValidToken(token) {
				token = cart.NewToken()
			}
			w.Header().Set(cart.TokenHeader, token)
			next.ServeHTTP(w, r.WithContext(WithCartToken(r.Context(), token)))
		})
	}
}
