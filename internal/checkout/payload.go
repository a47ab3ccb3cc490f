package checkout

import (
	"strings"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
)

func buildCheckoutRequest(orderCode string, d Draft) orderapi.CheckoutRequest {
	lines := make([]orderapi.CartLine, 0, len(d.Items))
	for _, item := range d.Items {
		lines = append(lines, orderapi.CartLine{
			ProductID:   item.ProductID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}
	return orderapi.CheckoutRequest{
		OrderCode:     orderCode,
		CustomerID:    d.CustomerID,
		CartID:        d.CartID,
		PaymentMode:   d.PaymentMethod.String(),
		TotalAmount:   d.Total(),
		RecipientName: strings.TrimSpace(d.RecipientName),
		ContactNumber: strings.TrimSpace(d.RecipientContact),
		OrderNote:     strings.TrimSpace(d.OrderNote),
		Items:         lines,
	}
}

func buildAddressRequest(orderCode string, d Draft) orderapi.DeliveryAddressRequest {
	address := strings.TrimSpace(d.DeliveryAddress)
	if address == "" {
		address = deliveryLabel(d.Delivery)
	}
	return orderapi.DeliveryAddressRequest{
		OrderCode:     orderCode,
		Address:       address,
		GeoLocation:   "N/A",
		RecipientName: strings.TrimSpace(d.RecipientName),
		ContactNumber: strings.TrimSpace(d.RecipientContact),
		CustomerID:    d.CustomerID,
	}
}

func deliveryLabel(sel DeliverySelection) string {
	parts := make([]string, 0, 2)
	if town := strings.TrimSpace(sel.Town); town != "" {
		parts = append(parts, town)
	}
	if region := strings.TrimSpace(sel.Region); region != "" {
		parts = append(parts, region)
	}
	return strings.Join(parts, ", ")
}
