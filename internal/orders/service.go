// Package orders serves order history, receipts and the admin order desk.
package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procifarmed/storefront-api/pkg/db/models"
	"github.com/procifarmed/storefront-api/pkg/enums"
	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

const (
	// AdminListLimit caps the admin order listing.
	AdminListLimit = 200
	// HistoryLimit caps a customer's order history.
	HistoryLimit = 100
)

// Service defines the order reads and the admin status updates.
type Service interface {
	ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error)
	GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	Receipt(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error)
	ListAll(ctx context.Context) ([]OrderDTO, error)
	Export(ctx context.Context) ([]byte, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, value string) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, value string) (*OrderDTO, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the orders service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]OrderDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID, HistoryLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return fromModels(rows), nil
}

// GetMine returns the order with its items. Orders of other users are NOT_FOUND.
func (s *service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.findMine(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) Receipt(ctx context.Context, userID, orderID uuid.UUID) ([]byte, error) {
	order, err := s.findMine(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	pdf, err := RenderReceipt(*order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render receipt")
	}
	return pdf, nil
}

func (s *service) ListAll(ctx context.Context) ([]OrderDTO, error) {
	rows, err := s.repo.ListAll(ctx, AdminListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return fromModels(rows), nil
}

func (s *service) Export(ctx context.Context) ([]byte, error) {
	rows, err := s.repo.ListAll(ctx, AdminListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	data, err := RenderExport(rows)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render export")
	}
	return data, nil
}

// UpdateStatus moves the fulfillment status one legal step. Writing the
// current value again is a no-op.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, value string) (*OrderDTO, error) {
	next, err := enums.ParseOrderStatus(strings.TrimSpace(value))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]string{"status": value})
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == next {
		dto := FromModel(*order)
		return &dto, nil
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move order from %s to %s", order.Status, next)
	}
	applied, err := s.repo.UpdateStatus(ctx, orderID, order.Status, next)
	if err != nil {
		return nil, mapErr(err, "update order status")
	}
	if !applied {
		return nil, s.lostRace(ctx, orderID, "order status")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"from":     order.Status.String(),
		"to":       next.String(),
	}), "orders.status_updated")

	order.Status = next
	dto := FromModel(*order)
	return &dto, nil
}

// UpdatePaymentStatus follows the payment reconciliation table.
func (s *service) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, value string) (*OrderDTO, error) {
	next, err := enums.ParsePaymentStatus(strings.TrimSpace(value))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status").
			WithDetails(map[string]string{"payment_status": value})
	}
	order, err := s.find(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == next {
		dto := FromModel(*order)
		return &dto, nil
	}
	if !order.PaymentStatus.CanTransitionTo(next) {
		return nil, pkgerrors.Newf(pkgerrors.CodeStateConflict, "cannot move payment from %s to %s", order.PaymentStatus, next)
	}
	applied, err := s.repo.UpdatePaymentStatus(ctx, orderID, order.PaymentStatus, next)
	if err != nil {
		return nil, mapErr(err, "update payment status")
	}
	if !applied {
		return nil, s.lostRace(ctx, orderID, "payment status")
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"order_id": orderID.String(),
		"from":     order.PaymentStatus.String(),
		"to":       next.String(),
	}), "orders.payment_status_updated")

	order.PaymentStatus = next
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) find(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, mapErr(err, "load order")
	}
	return order, nil
}

// lostRace explains a conditional write that matched no row: either the
// order is gone or someone else moved it after it was read.
func (s *service) lostRace(ctx context.Context, orderID uuid.UUID, field string) error {
	current, err := s.find(ctx, orderID)
	if err != nil {
		return err
	}
	s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
		"order_id":       orderID.String(),
		"field":          field,
		"status":         current.Status.String(),
		"payment_status": current.PaymentStatus.String(),
	}), "orders.concurrent_update")
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "%s changed concurrently, reload the order", field)
}

func (s *service) findMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindForUser(ctx, userID, orderID)
	if err != nil {
		return nil, mapErr(err, "load order")
	}
	return order, nil
}

func mapErr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
