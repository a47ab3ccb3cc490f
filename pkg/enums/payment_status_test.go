package enums

import "testing"

func TestPaymentStatusFromResponseCode(t *testing.T) {
	tests := []struct {
		code string
		want PaymentStatus
	}{
		{code: "0000", want: PaymentStatusSuccess},
		{code: "2001", want: PaymentStatusCancelled},
		{code: "0005", want: PaymentStatusPending},
		{code: "", want: PaymentStatusPending},
		{code: "garbage", want: PaymentStatusPending},
	}
	for _, tt := range tests {
		if got := PaymentStatusFromResponseCode(tt.code); got != tt.want {
			t.Fatalf("code %q: expected %s got %s", tt.code, tt.want, got)
		}
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if PaymentStatusPending.Terminal() {
		t.Fatalf("pending must not be terminal")
	}
	if !PaymentStatusSuccess.Terminal() || !PaymentStatusCancelled.Terminal() {
		t.Fatalf("success and cancelled must be terminal")
	}
}

func TestPaymentMethodRequiresGateway(t *testing.T) {
	if !PaymentMethodMobileMoney.RequiresGateway() || !PaymentMethodCard.RequiresGateway() {
		t.Fatalf("gateway methods misreported")
	}
	if PaymentMethodCashOnDelivery.RequiresGateway() || PaymentMethodCashOnPickup.RequiresGateway() {
		t.Fatalf("cash methods must not require the gateway")
	}
}

func TestParsePaymentMethod(t *testing.T) {
	if _, err := ParsePaymentMethod("Mobile Money"); err != nil {
		t.Fatalf("expected valid method: %v", err)
	}
	if _, err := ParsePaymentMethod("Barter"); err == nil {
		t.Fatalf("expected parse error for unknown method")
	}
}
