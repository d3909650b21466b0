package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/procifarmed/storefront-api/internal/address"
	"github.com/procifarmed/storefront-api/internal/auth"
	"github.com/procifarmed/storefront-api/internal/cart"
	"github.com/procifarmed/storefront-api/internal/catalog"
	"github.com/procifarmed/storefront-api/internal/checkout"
	"github.com/procifarmed/storefront-api/internal/orders"
	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/internal/users"
	"github.com/procifarmed/storefront-api/pkg/auth/session"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db/dbtest"
	"github.com/procifarmed/storefront-api/pkg/enums"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

// memoryKV stands in for redis across sessions, carts, rate limits and
// idempotency records.
type memoryKV struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}}
}

func asString(value any) string {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (m *memoryKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = asString(value)
	return nil
}

func (m *memoryKV) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (m *memoryKV) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = asString(value)
	return true, nil
}

func (m *memoryKV) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryKV) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := "rl:" + scope
	var n int64
	fmt.Sscan(m.data[key], &n)
	n++
	m.data[key] = fmt.Sprint(n)
	return n <= limit, n, nil
}

func (m *memoryKV) Ping(context.Context) error { return nil }

func (m *memoryKV) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }
func (m *memoryKV) AccessSessionKey(id string) string      { return "session:" + id }
func (m *memoryKV) CartKey(token string) string            { return "cart:" + token }

type harness struct {
	handler http.Handler
	users   *users.Repository
	product uuid.UUID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	conn := dbtest.Open(t)
	kv := newMemoryKV()
	cfg := &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "procifarmed",
			ExpirationMinutes:      15,
			RefreshTokenTTLMinutes: 60,
		},
		Password: config.PasswordConfig{
			ArgonMemoryKB:    1024,
			ArgonTime:        1,
			ArgonParallelism: 1,
			ArgonSaltLen:     16,
			ArgonKeyLen:      32,
		},
		Checkout: config.CheckoutConfig{PixKey: "pix@procifarmed.com.br", PixBeneficiary: "Procifarmed", IdempotencyTTL: time.Hour},
	}
	logg := logger.Nop()

	catalogRepo := catalog.NewRepository(conn.DB())
	if _, err := catalog.Seed(ctx, catalogRepo); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	sessions, err := session.NewManager(kv, cfg.JWT)
	must(t, err)
	userRepo := users.NewRepository(conn.DB())
	profileSvc, err := profiles.NewService(profiles.NewRepository(conn.DB()))
	must(t, err)
	authSvc, err := auth.NewService(auth.ServiceParams{
		DB:             conn,
		UserRepo:       userRepo,
		Profiles:       profileSvc,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	must(t, err)
	catalogSvc, err := catalog.NewService(catalogRepo)
	must(t, err)
	storage, err := cart.NewRedisStorage(kv, time.Hour)
	must(t, err)
	cartSvc, err := cart.NewService(storage, catalogRepo, logg)
	must(t, err)
	addressSvc, err := address.NewService(conn, address.NewRepository(conn.DB()))
	must(t, err)
	ordersRepo := orders.NewRepository(conn.DB())
	ordersSvc, err := orders.NewService(ordersRepo, logg)
	must(t, err)
	checkoutSvc, err := checkout.NewService(checkout.ServiceParams{
		DB:       conn,
		Cart:     cartSvc,
		Orders:   ordersRepo,
		Profiles: profileSvc,
		Config:   cfg.Checkout,
		Logger:   logg,
	})
	must(t, err)

	handler := NewRouter(cfg, logg, Dependencies{
		DB:        conn,
		Redis:     kv,
		Store:     kv,
		Sessions:  sessions,
		Auth:      authSvc,
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Profiles:  profileSvc,
		Addresses: addressSvc,
		Checkout:  checkoutSvc,
		Orders:    ordersSvc,
	})

	return &harness{
		handler: handler,
		users:   userRepo,
		product: catalog.SeedProducts()[0].ID,
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
}

type call struct {
	method  string
	path    string
	body    string
	token   string
	headers map[string]string
}

func (h *harness) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if c.body != "" {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v (%s)", err, rec.Body.String())
	}
	return env.Data
}

func (h *harness) signup(t *testing.T, email string) auth.Result {
	t.Helper()
	rec := h.do(t, call{
		method: http.MethodPost,
		path:   "/api/v1/auth/signup",
		body:   `{"email":"` + email + `","password":"segredo1","full_name":"Cliente Teste"}`,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	return decode[auth.Result](t, rec)
}

func TestHealthLive(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, call{method: http.MethodGet, path: "/health/live"}); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if rec := h.do(t, call{method: http.MethodGet, path: "/health/ready"}); rec.Code != http.StatusOK {
		t.Fatalf("expected ready 200 got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCatalogIsPublic(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, call{method: http.MethodGet, path: "/api/v1/catalog/products?category=all"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	products := decode[[]catalog.ProductDTO](t, rec)
	if len(products) != len(catalog.SeedProducts()) {
		t.Fatalf("expected seeded products, got %d", len(products))
	}
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, call{
		method:  http.MethodGet,
		path:    "/api/v1/orders",
		headers: map[string]string{"X-Origin-Path": "/conta/pedidos"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/entrar"`) || !strings.Contains(rec.Body.String(), `"from":"/conta/pedidos"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	h := newHarness(t)
	result := h.signup(t, "cliente@procifarmed.com.br")

	rec := h.do(t, call{method: http.MethodGet, path: "/api/v1/admin/orders", token: result.Tokens.AccessToken})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/conta"`) {
		t.Fatalf("expected account redirect, got %s", rec.Body.String())
	}

	if err := h.users.GrantRole(context.Background(), result.Session.User.ID, enums.RoleAdmin); err != nil {
		t.Fatalf("grant admin: %v", err)
	}
	rec = h.do(t, call{method: http.MethodGet, path: "/api/v1/admin/orders", token: result.Tokens.AccessToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after grant, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	h := newHarness(t)
	result := h.signup(t, "sair@procifarmed.com.br")

	rec := h.do(t, call{method: http.MethodPost, path: "/api/v1/auth/logout", token: result.Tokens.AccessToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	rec = h.do(t, call{method: http.MethodGet, path: "/api/v1/profile", token: result.Tokens.AccessToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected revoked token to be rejected, got %d", rec.Code)
	}
}

func TestCheckoutFlow(t *testing.T) {
	h := newHarness(t)
	result := h.signup(t, "compra@procifarmed.com.br")
	token := result.Tokens.AccessToken

	rec := h.do(t, call{
		method: http.MethodPost,
		path:   "/api/v1/cart/items",
		body:   `{"product_id":"` + h.product.String() + `","quantity":2}`,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add to cart: expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	cartToken := rec.Header().Get(cart.TokenHeader)
	if !cart.ValidToken(cartToken) {
		t.Fatalf("expected issued cart token, got %q", cartToken)
	}

	rec = h.do(t, call{
		method: http.MethodPost,
		path:   "/api/v1/addresses",
		token:  token,
		body:   `{"recipient_name":"Cliente Teste","postal_code":"01001-000","street":"Praça da Sé","number":"1","city":"São Paulo","state":"SP"}`,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add address: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	addr := decode[address.AddressDTO](t, rec)
	if !addr.IsDefault {
		t.Fatalf("first address should be default")
	}

	checkoutCall := call{
		method: http.MethodPost,
		path:   "/api/v1/checkout",
		token:  token,
		body:   `{"address_id":"` + addr.ID.String() + `"}`,
		headers: map[string]string{
			cart.TokenHeader:  cartToken,
			"Idempotency-Key": "pedido-1",
		},
	}

	rec = h.do(t, checkoutCall)
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout: expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	placed := decode[checkout.Result](t, rec)
	if placed.Redirect != "/pedido/"+placed.OrderID.String() {
		t.Fatalf("unexpected redirect %q", placed.Redirect)
	}
	if placed.Order.TotalLabel != "R$ 179,00" {
		t.Fatalf("unexpected total %q", placed.Order.TotalLabel)
	}

	replay := h.do(t, checkoutCall)
	if replay.Code != http.StatusCreated {
		t.Fatalf("replay: expected stored 201 got %d", replay.Code)
	}
	if decode[checkout.Result](t, replay).OrderID != placed.OrderID {
		t.Fatalf("replay returned a different order")
	}

	rec = h.do(t, call{method: http.MethodGet, path: "/api/v1/cart", headers: map[string]string{cart.TokenHeader: cartToken}})
	if view := decode[cart.View](t, rec); view.Count != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d items", view.Count)
	}

	rec = h.do(t, call{method: http.MethodGet, path: "/api/v1/orders", token: token})
	if list := decode[[]orders.OrderDTO](t, rec); len(list) != 1 {
		t.Fatalf("expected one order in history, got %d", len(list))
	}

	rec = h.do(t, call{method: http.MethodGet, path: "/api/v1/orders/" + placed.OrderID.String() + "/receipt.pdf", token: token})
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatalf("expected pdf receipt, got %d", rec.Code)
	}
}

func TestCheckoutRequiresIdempotencyKey(t *testing.T) {
	h := newHarness(t)
	result := h.signup(t, "chave@procifarmed.com.br")

	rec := h.do(t, call{
		method: http.MethodPost,
		path:   "/api/v1/checkout",
		token:  result.Tokens.AccessToken,
		body:   `{"address_id":"` + uuid.NewString() + `"}`,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestMetricsRouteOptional(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, call{method: http.MethodGet, path: "/metrics"}); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without metrics handler, got %d", rec.Code)
	}
}
