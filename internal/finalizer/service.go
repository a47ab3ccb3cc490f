package finalizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/metrics"
)

type orderSubmitter interface {
	CheckOutDbCart(ctx context.Context, req orderapi.CheckoutRequest) (*orderapi.CheckoutResponse, error)
	OrderDeliveryUpdate(ctx context.Context, orderCode string, req orderapi.DeliveryAddressRequest) error
}

type stateStore interface {
	Clear(ctx context.Context, customerID string) error
	ClearCart(ctx context.Context, customerID string) error
}

// Service submits a confirmed checkout to the Order API and cleans up the
// locally persisted state afterwards.
type Service struct {
	orders  orderSubmitter
	store   stateStore
	logger  *logger.Logger
	metrics *metrics.CheckoutMetrics
}

// NewService builds the finalizer.
func NewService(orders orderSubmitter, store stateStore, logg *logger.Logger, m *metrics.CheckoutMetrics) (*Service, error) {
	if orders == nil {
		return nil, errors.New("order submitter required")
	}
	if store == nil {
		return nil, errors.New("state store required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	return &Service{orders: orders, store: store, logger: logg, metrics: m}, nil
}

// Finalize runs the two-step submission: order create, then delivery-address
// update. The steps are not transactional. A failed first step aborts the
// whole operation; an odd-looking first response is logged but does not stop
// the address update. A failed second step after a created order surfaces as
// a partial submission and is not rolled back or retried here.
func (s *Service) Finalize(ctx context.Context, customerID string, record pending.Checkout) error {
	ctx = s.logger.WithOrderCode(ctx, record.OrderCode)
	started := time.Now()

	resp, err := s.orders.CheckOutDbCart(ctx, record.Payload)
	if err != nil {
		s.metrics.ObserveFinalize("order_create_failed", time.Since(started))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order create failed").
			WithDetails(map[string]any{"step": "order_create"})
	}
	if resp == nil || resp.OrderCode == "" {
		s.logger.Warn(ctx, "order create returned unexpected response shape")
	}

	if err := s.orders.OrderDeliveryUpdate(ctx, record.OrderCode, record.Address); err != nil {
		s.metrics.ObserveFinalize("partial", time.Since(started))
		combined := multierr.Append(
			fmt.Errorf("order %s created but delivery update failed", record.OrderCode),
			err,
		)
		return pkgerrors.Wrap(pkgerrors.CodePartialSubmission, combined, "delivery address update failed").
			WithDetails(map[string]any{"step": "delivery_update", "order_code": record.OrderCode})
	}

	var cleanupErr error
	if err := s.store.ClearCart(ctx, customerID); err != nil {
		cleanupErr = multierr.Append(cleanupErr, err)
	}
	if err := s.store.Clear(ctx, customerID); err != nil {
		cleanupErr = multierr.Append(cleanupErr, err)
	}
	if cleanupErr != nil {
		// The order is fully submitted; stale local state is worth a log
		// line, not a failed checkout.
		s.logger.Error(ctx, "clearing local checkout state failed", cleanupErr)
	}

	s.metrics.ObserveFinalize("success", time.Since(started))
	s.logger.Info(ctx, "order finalized")
	return nil
}
