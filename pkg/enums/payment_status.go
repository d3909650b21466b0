package enums

import "fmt"

// PaymentStatus tracks the manual reconciliation state of an order payment.
type PaymentStatus string

const (
	PaymentStatusAwaiting PaymentStatus = "awaiting"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusAwaiting,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

var paymentStatusLabels = map[PaymentStatus]string{
	PaymentStatusAwaiting: "Aguardando",
	PaymentStatusPaid:     "Pago",
	PaymentStatusFailed:   "Falhou",
	PaymentStatusRefunded: "Estornado",
}

var paymentStatusTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusAwaiting: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:     {PaymentStatusRefunded},
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label returns the pt-BR display label, falling back to the raw value.
func (p PaymentStatus) Label() string {
	if label, ok := paymentStatusLabels[p]; ok {
		return label
	}
	return string(p)
}

// CanTransitionTo reports whether next is reachable from p in one step.
func (p PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, candidate := range paymentStatusTransitions[p] {
		if candidate == next {
			return true
		}
	}
	return false
}

// PaymentStatuses lists every payment status.
func PaymentStatuses() []PaymentStatus {
	return append([]PaymentStatus(nil), validPaymentStatuses...)
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
