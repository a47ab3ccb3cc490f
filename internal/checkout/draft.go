package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
)

// ValidationReason names the first rule a draft failed.
type ValidationReason string

const (
	ReasonNameRequiresRealValue     ValidationReason = "NameRequiresRealValue"
	ReasonPaymentMethodRequired     ValidationReason = "PaymentMethodRequired"
	ReasonAddressRequired           ValidationReason = "AddressRequired"
	ReasonRecipientNameRequired     ValidationReason = "RecipientNameRequired"
	ReasonContactNumberRequired     ValidationReason = "ContactNumberRequired"
	ReasonCashOnDeliveryUnavailable ValidationReason = "CashOnDeliveryUnavailable"
)

// CartItem is one purchasable line inside a draft.
type CartItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Amount    decimal.Decimal `json:"amount"`
}

// DeliverySelection captures where the order ships and at what fee. A
// manually typed address carries no applicable fee regardless of any
// numeric value left behind by the picker.
type DeliverySelection struct {
	Town   string          `json:"town"`
	Region string          `json:"region"`
	Fee    decimal.Decimal `json:"fee"`
	Manual bool            `json:"manual"`
}

// Draft is everything the checkout screen collected for one submission.
type Draft struct {
	CustomerID       string              `json:"customerId"`
	CartID           string              `json:"cartId"`
	RecipientName    string              `json:"recipientName"`
	RecipientContact string              `json:"recipientContact"`
	DeliveryAddress  string              `json:"deliveryAddress"`
	OrderNote        string              `json:"orderNote"`
	PaymentMethod    enums.PaymentMethod `json:"paymentMethod"`
	Delivery         DeliverySelection   `json:"delivery"`
	Items            []CartItem          `json:"items"`
}

// EffectiveDeliveryFee is zero for manual addresses, the selected fee
// otherwise.
func (d Draft) EffectiveDeliveryFee() decimal.Decimal {
	if d.Delivery.Manual {
		return decimal.Zero
	}
	return d.Delivery.Fee
}

// Total sums the cart line amounts plus the effective delivery fee.
func (d Draft) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range d.Items {
		total = total.Add(item.Amount)
	}
	return total.Add(d.EffectiveDeliveryFee())
}

// Validate applies the submission rules in a fixed order; the first failing
// rule wins and the rest are skipped.
func Validate(d Draft) error {
	name := strings.TrimSpace(d.RecipientName)

	if name == "" || strings.Contains(strings.ToLower(name), "guest") {
		return validationError(ReasonNameRequiresRealValue, "a real recipient name is required")
	}
	if d.PaymentMethod == "" {
		return validationError(ReasonPaymentMethodRequired, "select a payment method")
	}
	if strings.TrimSpace(d.DeliveryAddress) == "" {
		return validationError(ReasonAddressRequired, "delivery address is required")
	}
	if name == "" {
		return validationError(ReasonRecipientNameRequired, "recipient name is required")
	}
	if strings.TrimSpace(d.RecipientContact) == "" {
		return validationError(ReasonContactNumberRequired, "recipient contact number is required")
	}
	if d.PaymentMethod == enums.PaymentMethodCashOnDelivery &&
		(d.Delivery.Manual || d.EffectiveDeliveryFee().IsZero()) {
		return validationError(ReasonCashOnDeliveryUnavailable, "cash on delivery is not available for this address")
	}
	return nil
}

func validationError(reason ValidationReason, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(map[string]any{
		"reason": string(reason),
	})
}

// FailedReason extracts the ValidationReason from a validation error, or ""
// for other errors.
func FailedReason(err error) ValidationReason {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		return ""
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		return ""
	}
	reason, _ := details["reason"].(string)
	return ValidationReason(reason)
}
