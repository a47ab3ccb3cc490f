package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Owusua22/Franko-MobileApp-sub001/api/responses"
	"github.com/Owusua22/Franko-MobileApp-sub001/api/validators"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

const defaultHistoryWindow = 90 * 24 * time.Hour

// OrderReader is the slice of the order API client the HTTP layer needs.
type OrderReader interface {
	SalesOrderGet(ctx context.Context, orderID string) ([]orderapi.SalesOrderLine, error)
	GetOrderByCustomer(ctx context.Context, customerID, from, to string) ([]orderapi.OrderSummary, error)
	GetOrderDeliveryAddress(ctx context.Context, orderCode string) (*orderapi.DeliveryAddress, error)
}

// OrderHistory lists a customer's orders within a date window.
func OrderHistory(orders OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customerID, err := validators.RequireQuery(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		now := time.Now().UTC()
		from, err := validators.ParseQueryDate(r, "from", now.Add(-defaultHistoryWindow))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to", now)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID)
		}

		summaries, err := orders.GetOrderByCustomer(ctx, customerID, from.Format("2006-01-02"), to.Format("2006-01-02"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, summaries)
	}
}

// OrderDetail fetches the line items of one sales order.
func OrderDetail(orders OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderID := chi.URLParam(r, "orderId")
		lines, err := orders.SalesOrderGet(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if len(lines) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order not found"))
			return
		}

		responses.WriteSuccess(w, lines)
	}
}

// OrderDeliveryAddress fetches the stored shipping record for an order.
func OrderDeliveryAddress(orders OrderReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if orders == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		orderCode := chi.URLParam(r, "orderId")
		address, err := orders.GetOrderDeliveryAddress(r.Context(), orderCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if address == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "delivery address not found"))
			return
		}

		responses.WriteSuccess(w, address)
	}
}
