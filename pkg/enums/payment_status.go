package enums

import "fmt"

// PaymentStatus is the per-poll outcome of a gateway payment attempt. It is
// derived from the callback endpoint's response code and never persisted.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

const (
	// ResponseCodeSuccess is reported by the callback endpoint once the
	// customer completes the hosted payment page.
	ResponseCodeSuccess = "0000"
	// ResponseCodeCancelled is reported when the customer aborts or the
	// gateway declines the attempt.
	ResponseCodeCancelled = "2001"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusSuccess,
	PaymentStatusCancelled,
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

// Terminal reports whether polling should stop at this status.
func (p PaymentStatus) Terminal() bool {
	return p == PaymentStatusSuccess || p == PaymentStatusCancelled
}

// PaymentStatusFromResponseCode maps a callback response code onto a status.
// Unknown codes count as still pending.
func PaymentStatusFromResponseCode(code string) PaymentStatus {
	switch code {
	case ResponseCodeSuccess:
		return PaymentStatusSuccess
	case ResponseCodeCancelled:
		return PaymentStatusCancelled
	default:
		return PaymentStatusPending
	}
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
