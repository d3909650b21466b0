package enums

import "testing"

func TestPaymentStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		allowed  bool
	}{
		{PaymentStatusAwaiting, PaymentStatusPaid, true},
		{PaymentStatusAwaiting, PaymentStatusFailed, true},
		{PaymentStatusPaid, PaymentStatusRefunded, true},
		{PaymentStatusAwaiting, PaymentStatusRefunded, false},
		{PaymentStatusFailed, PaymentStatusPaid, false},
		{PaymentStatusRefunded, PaymentStatusPaid, false},
		{PaymentStatusPaid, PaymentStatusAwaiting, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestPaymentStatusLabels(t *testing.T) {
	want := map[PaymentStatus]string{
		PaymentStatusAwaiting: "Aguardando",
		PaymentStatusPaid:     "Pago",
		PaymentStatusFailed:   "Falhou",
		PaymentStatusRefunded: "Estornado",
	}
	for status, label := range want {
		if got := status.Label(); got != label {
			t.Fatalf("status %s: expected %q got %q", status, label, got)
		}
	}
}
