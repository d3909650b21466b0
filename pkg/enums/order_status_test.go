package enums

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusPendingPayment, OrderStatusProcessing, true},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusPendingPayment, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusPendingPayment, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusPendingPayment, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
		{OrderStatusCompleted, OrderStatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Fatalf("%s -> %s: expected allowed=%v got %v", tt.from, tt.to, tt.allowed, got)
		}
	}
}

func TestOrderStatusTerminalStates(t *testing.T) {
	for _, status := range OrderStatuses() {
		terminal := status == OrderStatusCompleted || status == OrderStatusCancelled
		if status.IsTerminal() != terminal {
			t.Fatalf("status %s: expected terminal=%v", status, terminal)
		}
	}
}

func TestOrderStatusLabelsAndParse(t *testing.T) {
	if got := OrderStatusPendingPayment.Label(); got != "Aguardando pagamento" {
		t.Fatalf("unexpected label %q", got)
	}
	if got := OrderStatus("legacy").Label(); got != "legacy" {
		t.Fatalf("unknown status should fall back to raw value, got %q", got)
	}
	if _, err := ParseOrderStatus("shipped"); err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := ParseOrderStatus("lost"); err == nil {
		t.Fatal("expected parse error for unknown status")
	}
}
