package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
)

type stubAdminChecker struct {
	admins map[uuid.UUID]bool
	calls  int
}

func (s *stubAdminChecker) IsAdmin(_ context.Context, userID uuid.UUID) bool {
	s.calls++
	return s.admins[userID]
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSessionRedirectsAnonymous(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set(OriginPathHeader, "/conta/pedidos")
	rec := httptest.NewRecorder()
	RequireSession(nil)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	body := decodeErrorBody(t, rec)
	if body.Error.Code != string(pkgerrors.CodeUnauthorized) {
		t.Fatalf("unexpected code %s", body.Error.Code)
	}
	if body.Error.Details["redirect"] != "/entrar" {
		t.Fatalf("expected login redirect, got %v", body.Error.Details)
	}
	if body.Error.Details["from"] != "/conta/pedidos" {
		t.Fatalf("expected origin path preserved, got %v", body.Error.Details)
	}
}

func TestRequireSessionFallsBackToRequestPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	rec := httptest.NewRecorder()
	RequireSession(nil)(okHandler()).ServeHTTP(rec, req)

	body := decodeErrorBody(t, rec)
	if body.Error.Details["from"] != "/api/v1/profile" {
		t.Fatalf("expected request path as origin, got %v", body.Error.Details)
	}
}

func TestRequireSessionAllowsAuthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	RequireSession(nil)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := uuid.New()
	customer := uuid.New()
	checker := &stubAdminChecker{admins: map[uuid.UUID]bool{admin: true}}
	handler := RequireAdmin(checker, nil)(okHandler())

	cases := []struct {
		name     string
		userID   string
		status   int
		redirect string
	}{
		{"anonymous", "", http.StatusUnauthorized, "/entrar"},
		{"customer", customer.String(), http.StatusForbidden, "/conta"},
		{"admin", admin.String(), http.StatusOK, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
			if tc.userID != "" {
				req = req.WithContext(WithUserID(req.Context(), tc.userID))
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("expected %d got %d", tc.status, rec.Code)
			}
			if tc.redirect != "" {
				if got := decodeErrorBody(t, rec).Error.Details["redirect"]; got != tc.redirect {
					t.Fatalf("expected redirect %s got %s", tc.redirect, got)
				}
			}
		})
	}

	if checker.calls != 2 {
		t.Fatalf("expected role check per authenticated request, got %d", checker.calls)
	}
}

func TestRequireAdminNilCheckerDenies(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/orders", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	RequireAdmin(nil, nil)(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}
