package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procifarmed/storefront-api/internal/address"
	"github.com/procifarmed/storefront-api/internal/cart"
	"github.com/procifarmed/storefront-api/internal/notifications"
	"github.com/procifarmed/storefront-api/internal/orders"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db"
	"github.com/procifarmed/storefront-api/pkg/db/dbtest"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/metrics"
)

type fakeCarts struct {
	carts   map[string]*cart.Cart
	cleared []string
}

func (f *fakeCarts) Get(_ context.Context, token string) (*cart.Cart, error) {
	if c, ok := f.carts[token]; ok {
		return c, nil
	}
	return cart.New(token), nil
}

func (f *fakeCarts) Clear(_ context.Context, token string) error {
	f.cleared = append(f.cleared, token)
	delete(f.carts, token)
	return nil
}

type fakeNotifier struct {
	sent []notifications.OrderPlaced
	err  error
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) OrderPlaced(_ context.Context, msg notifications.OrderPlaced) error {
	f.sent = append(f.sent, msg)
	return f.err
}

type fixture struct {
	svc      Service
	client   *db.Client
	carts    *fakeCarts
	notifier *fakeNotifier
	registry *prometheus.Registry
	userID   uuid.UUID
	addrID   uuid.UUID
	token    string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	client := dbtest.Open(t)
	userID := uuid.New()

	addrSvc, err := address.NewService(client, address.NewRepository(client.DB()))
	require.NoError(t, err)
	addr, err := addrSvc.Add(context.Background(), userID, address.CreateAddressInput{
		RecipientName: "Maria Souza",
		PostalCode:    "01310-100",
		Street:        "Av. Paulista",
		Number:        "1000",
		City:          "São Paulo",
		State:         "SP",
	})
	require.NoError(t, err)

	token := cart.NewToken()
	carts := &fakeCarts{carts: map[string]*cart.Cart{
		token: cart.Restore(token, []cart.Item{
			{ProductID: uuid.New(), SKU: "PROC-IMUN-0060", Name: "Vitaminas Diárias", UnitPriceCents: 8950, Quantity: 2},
			{ProductID: uuid.New(), SKU: "PROC-INF-0300", Name: "Xarope Infantil", UnitPriceCents: 3975, Quantity: 1},
		}),
	}}
	notifier := &fakeNotifier{}
	registry := prometheus.NewRegistry()

	svc, err := NewService(ServiceParams{
		DB:            client,
		Cart:          carts,
		Orders:        orders.NewRepository(client.DB()),
		Notifications: notifier,
		Metrics:       metrics.NewCheckoutMetrics(registry),
		Config:        config.CheckoutConfig{PixKey: "00.000.000/0001-00", PixBeneficiary: "Procifarmed LTDA"},
		PublicBaseURL: "https://procifarmed.com.br/",
	})
	require.NoError(t, err)
	return &fixture{svc: svc, client: client, carts: carts, notifier: notifier, registry: registry, userID: userID, addrID: addr.ID, token: token}
}

func (f *fixture) input(key string) PlaceOrderInput {
	return PlaceOrderInput{
		UserID:         f.userID,
		Email:          "maria@exemplo.com",
		CartToken:      f.token,
		AddressID:      f.addrID,
		IdempotencyKey: key,
	}
}

func TestPlaceOrderPersistsSnapshotAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, "/pedido/"+res.OrderID.String(), res.Redirect)
	assert.Equal(t, 21875, res.Order.SubtotalCents)
	assert.Equal(t, 0, res.Order.ShippingCents)
	assert.Equal(t, 21875, res.Order.TotalCents)
	assert.Equal(t, enums.OrderStatusPendingPayment, res.Order.Status)
	assert.Equal(t, enums.PaymentStatusAwaiting, res.Order.PaymentStatus)
	require.NotNil(t, res.Order.PaymentInstructions)
	assert.Contains(t, *res.Order.PaymentInstructions, "Realize o PIX no valor de R$ 218,75")
	assert.Contains(t, *res.Order.PaymentInstructions, "Chave PIX: 00.000.000/0001-00")

	stored, err := orders.NewRepository(f.client.DB()).FindForUser(ctx, f.userID, res.OrderID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "Vitaminas Diárias", stored.Items[0].ProductName)
	assert.Equal(t, 8950, stored.Items[0].UnitPriceCents)
	assert.Equal(t, 2, stored.Items[0].Quantity)

	assert.Equal(t, []string{f.token}, f.carts.cleared)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "https://procifarmed.com.br/pedido/"+res.OrderID.String(), f.notifier.sent[0].OrderURL)
}

func TestPlaceOrderKeepsDeliveryAfterAddressRemoval(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)
	require.NotNil(t, res.Order.Delivery)
	assert.Equal(t, "Maria Souza", res.Order.Delivery.RecipientName)

	addrSvc, err := address.NewService(f.client, address.NewRepository(f.client.DB()))
	require.NoError(t, err)
	require.NoError(t, addrSvc.Remove(ctx, f.userID, f.addrID))

	stored, err := orders.NewRepository(f.client.DB()).FindForUser(ctx, f.userID, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "Av. Paulista", stored.Delivery.Street)
	assert.Equal(t, "1000", stored.Delivery.Number)
	assert.Equal(t, "São Paulo", stored.Delivery.City)
	assert.Equal(t, "01310-100", stored.Delivery.PostalCode)
}

func TestPlaceOrderReplaysSameIdempotencyKey(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)

	second, err := f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.OrderID, second.OrderID)

	list, err := orders.NewRepository(f.client.DB()).ListForUser(ctx, f.userID, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Len(t, f.notifier.sent, 1)
}

func TestPlaceOrderRejectsEmptyCart(t *testing.T) {
	f := newFixture(t)
	input := f.input("key-1")
	input.CartToken = cart.NewToken()

	_, err := f.svc.PlaceOrder(context.Background(), input)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)
	assert.Contains(t, err.Error(), "carrinho")
}

func TestPlaceOrderRejectsForeignOrMissingAddress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	input := f.input("key-1")
	input.AddressID = uuid.Nil
	_, err := f.svc.PlaceOrder(ctx, input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = f.input("key-2")
	input.UserID = uuid.New()
	_, err = f.svc.PlaceOrder(ctx, input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "address of another user: %v", err)

	list, err := orders.NewRepository(f.client.DB()).ListAll(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.carts.cleared)
}

func TestPlaceOrderRequiresIdempotencyKey(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PlaceOrder(context.Background(), f.input("  "))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.PlaceOrder(context.Background(), f.input(strings.Repeat("k", MaxIdempotencyKeyLength+1)))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "too long")
}

func TestPlaceOrderSurvivesEmailFailure(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("smtp down")

	res, err := f.svc.PlaceOrder(context.Background(), f.input("key-1"))
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, res.OrderID)
}

func TestPlaceOrderRecordsMetrics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(ctx, f.input("key-1"))
	require.NoError(t, err)

	mfs, err := f.registry.Gather()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != "checkout_orders_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			outcomes[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}
	assert.Equal(t, map[string]float64{metrics.OutcomePlaced: 1, metrics.OutcomeReplayed: 1}, outcomes)
}

func TestPixInstructions(t *testing.T) {
	text := PixInstructions(8950, "chave", "Favorecido X")
	want := "Pagamento via PIX (manual).\n\n1) Realize o PIX no valor de R$ 89,50\n"
	assert.True(t, strings.HasPrefix(text, want), text)
	assert.True(t, strings.HasSuffix(text, "Chave PIX: chave\nFavorecido: Favorecido X"), text)
}
