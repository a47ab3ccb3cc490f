package controllers

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Owusua22/Franko-MobileApp-sub001/api/responses"
	"github.com/Owusua22/Franko-MobileApp-sub001/api/validators"
	checkoutsvc "github.com/Owusua22/Franko-MobileApp-sub001/internal/checkout"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

// CheckoutService is the slice of the checkout service the HTTP layer needs.
type CheckoutService interface {
	Submit(ctx context.Context, draft checkoutsvc.Draft) (*checkoutsvc.SubmitResult, error)
	Resume(ctx context.Context, customerID string) (bool, error)
	Status(ctx context.Context, customerID string) (*checkoutsvc.StatusResult, error)
}

type checkoutItemRequest struct {
	ProductID string          `json:"productId" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	Amount    decimal.Decimal `json:"amount"`
}

type checkoutSubmitRequest struct {
	CustomerID       string                `json:"customerId" validate:"required"`
	CartID           string                `json:"cartId" validate:"required"`
	RecipientName    string                `json:"recipientName"`
	RecipientContact string                `json:"recipientContact"`
	DeliveryAddress  string                `json:"deliveryAddress"`
	OrderNote        string                `json:"orderNote"`
	PaymentMethod    string                `json:"paymentMethod"`
	DeliveryTown     string                `json:"deliveryTown"`
	DeliveryRegion   string                `json:"deliveryRegion"`
	DeliveryFee      decimal.Decimal       `json:"deliveryFee"`
	ManualAddress    bool                  `json:"manualAddress"`
	Items            []checkoutItemRequest `json:"items" validate:"required,min=1,dive"`
}

type checkoutResumeRequest struct {
	CustomerID string `json:"customerId" validate:"required"`
}

// CheckoutSubmit accepts a checkout draft and dispatches it.
func CheckoutSubmit(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// An empty method is left for draft validation so the documented
		// rule order stays intact.
		if payload.PaymentMethod != "" {
			if _, err := enums.ParsePaymentMethod(payload.PaymentMethod); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method").
						WithDetails(map[string]any{"paymentMethod": payload.PaymentMethod}))
				return
			}
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, payload.CustomerID)
		}

		result, err := svc.Submit(ctx, newDraft(payload))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutResume restarts the payment watch after an interruption.
func CheckoutResume(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutResumeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, payload.CustomerID)
		}

		active, err := svc.Resume(ctx, payload.CustomerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"watching": active})
	}
}

// CheckoutStatus reports the customer's in-flight checkout.
func CheckoutStatus(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := validators.RequireQuery(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCustomerID(ctx, customerID)
		}

		status, err := svc.Status(ctx, customerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccess(w, status)
	}
}

func newDraft(payload checkoutSubmitRequest) checkoutsvc.Draft {
	items := make([]checkoutsvc.CartItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, checkoutsvc.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Amount:    item.Amount,
		})
	}
	return checkoutsvc.Draft{
		CustomerID:       payload.CustomerID,
		CartID:           payload.CartID,
		RecipientName:    payload.RecipientName,
		RecipientContact: payload.RecipientContact,
		DeliveryAddress:  payload.DeliveryAddress,
		OrderNote:        payload.OrderNote,
		PaymentMethod:    enums.PaymentMethod(payload.PaymentMethod),
		Delivery: checkoutsvc.DeliverySelection{
			Town:   payload.DeliveryTown,
			Region: payload.DeliveryRegion,
			Fee:    payload.DeliveryFee,
			Manual: payload.ManualAddress,
		},
		Items: items,
	}
}
