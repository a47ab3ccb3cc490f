package orderapi

import (
	"github.com/shopspring/decimal"
)

// CartLine is one purchased product inside a checkout request.
type CartLine struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// CheckoutRequest is the order-create payload posted to /Order/CheckOutDbCart.
type CheckoutRequest struct {
	OrderCode     string          `json:"orderCode"`
	CustomerID    string          `json:"customerId"`
	CartID        string          `json:"cartId"`
	PaymentMode   string          `json:"paymentMode"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	RecipientName string          `json:"recipientName"`
	ContactNumber string          `json:"contactNumber"`
	OrderNote     string          `json:"orderNote,omitempty"`
	Items         []CartLine      `json:"items"`
}

// CheckoutResponse is the order-create reply. ResponseCode mirrors the
// backend's string codes; Message is free-form.
type CheckoutResponse struct {
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message"`
	OrderCode    string `json:"orderCode"`
}

// DeliveryAddressRequest updates where an order ships.
type DeliveryAddressRequest struct {
	OrderCode     string `json:"orderCode"`
	Address       string `json:"address"`
	GeoLocation   string `json:"geoLocation"`
	RecipientName string `json:"recipientName"`
	ContactNumber string `json:"contactNumber"`
	CustomerID    string `json:"customerId"`
}

// SalesOrderLine is one line of a fetched sales order.
type SalesOrderLine struct {
	OrderCode   string          `json:"orderCode"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"imageUrl,omitempty"`
}

// OrderSummary is one row of a customer's order history.
type OrderSummary struct {
	OrderCode   string          `json:"orderCode"`
	OrderDate   string          `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	PaymentMode string          `json:"paymentMode"`
	Status      string          `json:"orderStatus"`
}

// DeliveryAddress is the stored shipping record for an order.
type DeliveryAddress struct {
	OrderCode     string `json:"orderCode"`
	Address       string `json:"address"`
	GeoLocation   string `json:"geoLocation"`
	RecipientName string `json:"recipientName"`
	ContactNumber string `json:"contactNumber"`
}

// CallbackStatusResponse reports the gateway outcome for a pending order.
type CallbackStatusResponse struct {
	ResponseCode string `json:"responseCode"`
	Message      string `json:"message,omitempty"`
}
