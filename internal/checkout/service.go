// Package checkout turns a cart into a persisted order awaiting PIX payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/internal/address"
	"github.com/procifarmed/storefront-api/internal/cart"
	"github.com/procifarmed/storefront-api/internal/notifications"
	"github.com/procifarmed/storefront-api/internal/orders"
	"github.com/procifarmed/storefront-api/internal/profiles"
	"github.com/procifarmed/storefront-api/pkg/config"
	"github.com/procifarmed/storefront-api/pkg/db"
	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
	"github.com/procifarmed/storefront-api/pkg/metrics"
)

// MaxIdempotencyKeyLength bounds the Idempotency-Key header, both at the
// HTTP layer and on the stored order.
const MaxIdempotencyKeyLength = 200

const idempotencyConstraint = "orders_user_idempotency_key"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartStore interface {
	Get(ctx context.Context, token string) (*cart.Cart, error)
	Clear(ctx context.Context, token string) error
}

type profileReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*profiles.ProfileDTO, error)
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Result, error)
}

// PlaceOrderInput identifies the buyer, the cart and the chosen address.
type PlaceOrderInput struct {
	UserID         uuid.UUID
	Email          string
	CartToken      string
	AddressID      uuid.UUID
	IdempotencyKey string
}

// Result is the checkout response. Replayed marks a duplicate submission
// answered with the order created by the first one.
type Result struct {
	OrderID  uuid.UUID       `json:"order_id"`
	Order    orders.OrderDTO `json:"order"`
	Redirect string          `json:"redirect"`
	Replayed bool            `json:"replayed"`
}

// ServiceParams bundles the checkout dependencies.
type ServiceParams struct {
	DB            txRunner
	Cart          cartStore
	Orders        orders.Repository
	Profiles      profileReader
	Notifications notifications.Service
	Metrics       *metrics.CheckoutMetrics
	Config        config.CheckoutConfig
	PublicBaseURL string
	Logger        *logger.Logger
}

type service struct {
	db       txRunner
	cart     cartStore
	orders   orders.Repository
	profiles profileReader
	notify   notifications.Service
	metrics  *metrics.CheckoutMetrics
	cfg      config.CheckoutConfig
	baseURL  string
	logg     *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		db:       params.DB,
		cart:     params.Cart,
		orders:   params.Orders,
		profiles: params.Profiles,
		notify:   params.Notifications,
		metrics:  params.Metrics,
		cfg:      params.Config,
		baseURL:  strings.TrimRight(params.PublicBaseURL, "/"),
		logg:     logg,
	}, nil
}

// OrderPath is the confirmation page of an order.
func OrderPath(orderID uuid.UUID) string {
	return "/pedido/" + orderID.String()
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Result, error) {
	started := time.Now()
	result, err := s.placeOrder(ctx, input)
	switch {
	case err == nil && result.Replayed:
		s.metrics.Observe(metrics.OutcomeReplayed, time.Since(started))
	case err == nil:
		s.metrics.Observe(metrics.OutcomePlaced, time.Since(started))
		s.metrics.AddRevenue(result.Order.TotalCents)
	case isRejection(err):
		s.metrics.Observe(metrics.OutcomeRejected, time.Since(started))
	default:
		s.metrics.Observe(metrics.OutcomeFailed, time.Since(started))
	}
	return result, err
}

func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput) (*Result, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "login required")
	}
	key := strings.TrimSpace(input.IdempotencyKey)
	switch {
	case key == "":
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header is required")
	case len(key) > MaxIdempotencyKeyLength:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header is too long")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Selecione um endereço de entrega.").
			WithDetails(map[string]string{"address_id": "is required"})
	}

	if existing, err := s.orders.FindByIdempotencyKey(ctx, input.UserID, key); err == nil {
		return s.replay(ctx, input.UserID, existing.ID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup idempotency key")
	}

	c, err := s.cart.Get(ctx, input.CartToken)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Seu carrinho está vazio.")
	}

	order := s.buildOrder(input.UserID, input.AddressID, key, c)
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		addr, err := address.NewRepository(tx).FindOwned(ctx, input.UserID, input.AddressID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation, "Selecione um endereço de entrega.").
					WithDetails(map[string]string{"address_id": "not found"})
			}
			return err
		}
		order.Delivery = addr.Delivery()
		return s.orders.WithTx(tx).CreateOrder(ctx, order)
	})
	if err != nil {
		if db.IsUniqueViolation(err, idempotencyConstraint) {
			existing, findErr := s.orders.FindByIdempotencyKey(ctx, input.UserID, key)
			if findErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "load replayed order")
			}
			return s.replay(ctx, input.UserID, existing.ID)
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":    order.ID.String(),
		"user_id":     input.UserID.String(),
		"total_cents": order.TotalCents,
		"items":       len(order.Items),
	})
	s.logg.Info(logCtx, "checkout.order_placed")

	if err := s.cart.Clear(ctx, input.CartToken); err != nil {
		s.logg.Warn(s.logg.WithField(logCtx, "error", err.Error()), "checkout.cart_clear_failed")
	}
	s.sendConfirmation(logCtx, input, order)

	return &Result{
		OrderID:  order.ID,
		Order:    orders.FromModel(*order),
		Redirect: OrderPath(order.ID),
	}, nil
}

func (s *service) buildOrder(userID, addressID uuid.UUID, key string, c *cart.Cart) *models.Order {
	subtotal := c.SubtotalCents()
	shipping := 0
	total := subtotal + shipping
	instructions := PixInstructions(total, s.cfg.PixKey, s.cfg.PixBeneficiary)

	order := &models.Order{
		ID:                  uuid.New(),
		UserID:              userID,
		AddressID:           addressID,
		Status:              enums.OrderStatusPendingPayment,
		PaymentStatus:       enums.PaymentStatusAwaiting,
		PaymentMethod:       enums.PaymentMethodPixManual,
		PaymentInstructions: &instructions,
		SubtotalCents:       subtotal,
		ShippingCents:       shipping,
		TotalCents:          total,
		IdempotencyKey:      &key,
	}
	for i, line := range c.Items() {
		productID := line.ProductID
		order.Items = append(order.Items, models.OrderItem{
			OrderID:        order.ID,
			ProductID:      &productID,
			ProductName:    line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			Position:       i,
		})
	}
	return order
}

func (s *service) replay(ctx context.Context, userID, orderID uuid.UUID) (*Result, error) {
	order, err := s.orders.FindForUser(ctx, userID, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load replayed order")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", orderID.String()), "checkout.order_replayed")
	return &Result{
		OrderID:  order.ID,
		Order:    orders.FromModel(*order),
		Redirect: OrderPath(order.ID),
		Replayed: true,
	}, nil
}

// sendConfirmation runs after commit; failures are logged only.
func (s *service) sendConfirmation(ctx context.Context, input PlaceOrderInput, order *models.Order) {
	if s.notify == nil || !s.notify.Enabled() || strings.TrimSpace(input.Email) == "" {
		return
	}
	msg := notifications.OrderPlaced{
		OrderID:    order.ID,
		Email:      input.Email,
		TotalCents: order.TotalCents,
	}
	if order.PaymentInstructions != nil {
		msg.PaymentInstructions = *order.PaymentInstructions
	}
	if s.baseURL != "" {
		msg.OrderURL = s.baseURL + OrderPath(order.ID)
	}
	if s.profiles != nil {
		if profile, err := s.profiles.Get(ctx, input.UserID); err == nil && profile.FullName != nil {
			msg.CustomerName = *profile.FullName
		}
	}
	for _, item := range order.Items {
		msg.Items = append(msg.Items, notifications.OrderPlacedItem{
			Name:           item.ProductName,
			Quantity:       item.Quantity,
			LineTotalCents: item.UnitPriceCents * item.Quantity,
		})
	}
	if err := s.notify.OrderPlaced(ctx, msg); err != nil {
		s.logg.Error(ctx, "checkout.confirmation_email_failed", err)
	}
}

func isRejection(err error) bool {
	typed := pkgerrors.As(err)
	if typed == nil {
		return false
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation, pkgerrors.CodeUnauthorized, pkgerrors.CodeNotFound, pkgerrors.CodeConflict:
		return true
	}
	return false
}
