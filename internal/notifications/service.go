// Package notifications sends transactional e-mails to customers.
package notifications

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	pkgerrors "github.com/procifarmed/storefront-api/pkg/errors"
	"github.com/procifarmed/storefront-api/pkg/logger"
)

// OrderPlacedItem is one line of the confirmation e-mail.
type OrderPlacedItem struct {
	Name           string
	Quantity       int
	LineTotalCents int
}

// OrderPlaced carries what the confirmation e-mail shows.
type OrderPlaced struct {
	OrderID             uuid.UUID
	Email               string
	CustomerName        string
	TotalCents          int
	PaymentInstructions string
	OrderURL            string
	Items               []OrderPlacedItem
}

// Service defines the outgoing customer notifications.
type Service interface {
	Enabled() bool
	OrderPlaced(ctx context.Context, msg OrderPlaced) error
}

type service struct {
	sender Sender
	from   string
	logg   *logger.Logger
}

// NewService wires the mail sender. A nil sender disables delivery and
// every send becomes a logged no-op.
func NewService(s Sender, from string, logg *logger.Logger) (Service, error) {
	if s != nil && strings.TrimSpace(from) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mail from address required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{sender: s, from: from, logg: logg}, nil
}

func (s *service) Enabled() bool {
	return s.sender != nil
}

func (s *service) OrderPlaced(ctx context.Context, msg OrderPlaced) error {
	ctx = s.logg.WithField(ctx, "order_id", msg.OrderID.String())
	if s.sender == nil {
		s.logg.Debug(ctx, "notifications.mail_disabled")
		return nil
	}
	if strings.TrimSpace(msg.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient email required")
	}

	body, err := renderOrderPlaced(msg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render order email")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.Email)
	m.SetHeader("Subject", fmt.Sprintf("Pedido %s recebido", shortID(msg.OrderID)))
	m.SetBody("text/html", body)

	if err := s.sender.DialAndSend(m); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send order email")
	}
	s.logg.Info(ctx, "notifications.order_placed_sent")
	return nil
}

func shortID(id uuid.UUID) string {
	return strings.ToUpper(id.String()[:8])
}
