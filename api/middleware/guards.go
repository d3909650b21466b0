package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/procifarmed/storefront-api/api/responses"
	"github.com/procifarmed/storefront-api/internal/auth"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

// OriginPathHeader lets clients report the page that triggered the call so
// the login redirect can send the user back to it.
const OriginPathHeader = "X-Origin-Path"

type adminChecker interface {
	IsAdmin(ctx context.Context, userID uuid.UUID) bool
}

// RequireSession rejects anonymous requests with a pointer to the login page.
func RequireSession(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if UserUUIDFromContext(r.Context()) == uuid.Nil {
				writeLoginRequired(w, r, logg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin runs the privileged role check for every request. Any failure
// of the check counts as not admin.
func RequireAdmin(checker adminChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserUUIDFromContext(r.Context())
			if userID == uuid.Nil {
				writeLoginRequired(w, r, logg)
				return
			}
			if checker == nil || !checker.IsAdmin(r.Context(), userID) {
				err := pkgerrors.New(pkgerrors.CodeForbidden, "admin access required").
					WithDetails(map[string]string{"redirect": auth.AccountPath})
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeLoginRequired(w http.ResponseWriter, r *http.Request, logg *logger.Logger) {
	from := strings.TrimSpace(r.Header.Get(OriginPathHeader))
	if from == "" {
		from = r.URL.Path
	}
	err := pkgerrors.New(pkgerrors.CodeUnauthorized, "login required").
		WithDetails(map[string]string{
			"redirect": auth.LoginPath,
			"from":     from,
		})
	responses.WriteError(r.Context(), logg, w, err)
}
