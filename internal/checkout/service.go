package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/gateway"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderid"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/poller"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/metrics"
)

type stateStore interface {
	Save(ctx context.Context, customerID string, record pending.Checkout) error
	Load(ctx context.Context, customerID string) (*pending.Checkout, error)
	PendingOrderCode(ctx context.Context, customerID string) (string, error)
	ClearMarker(ctx context.Context, customerID string) error
	Clear(ctx context.Context, customerID string) error
	UsedOrderCodes(ctx context.Context, customerID string) (map[string]struct{}, error)
	SaveUsedOrderCodes(ctx context.Context, customerID string, codes map[string]struct{}) error
}

type checkoutGateway interface {
	InitiateCheckout(ctx context.Context, params gateway.InitiateParams) (string, error)
}

type finalizeRunner interface {
	Finalize(ctx context.Context, customerID string, record pending.Checkout) error
}

type statusFetcher interface {
	CallbackStatus(ctx context.Context, orderCode string) (*orderapi.CallbackStatusResponse, error)
}

// SubmitResult reports what happened to a checkout submission. Finalized is
// true on the direct path; on the gateway path the caller must send the
// customer to CheckoutURL and watch the status.
type SubmitResult struct {
	OrderCode   string          `json:"orderCode"`
	TotalAmount string          `json:"totalAmount"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
	Finalized   bool            `json:"finalized"`
	State       enums.PollState `json:"state"`
}

// StatusResult is the current view of a customer's in-flight checkout.
type StatusResult struct {
	OrderCode string              `json:"orderCode"`
	State     enums.PollState     `json:"state"`
	Payment   enums.PaymentStatus `json:"payment,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// ServiceParams wires the checkout service.
type ServiceParams struct {
	Generator    *orderid.Generator
	Store        stateStore
	Gateway      checkoutGateway
	Finalizer    finalizeRunner
	Statuses     statusFetcher
	Logger       *logger.Logger
	Metrics      *metrics.CheckoutMetrics
	PollInterval time.Duration
}

// Service orchestrates checkout submission, the gateway hand-off, and the
// background payment watch.
type Service struct {
	generator    *orderid.Generator
	store        stateStore
	gateway      checkoutGateway
	finalizer    finalizeRunner
	statuses     statusFetcher
	logger       *logger.Logger
	metrics      *metrics.CheckoutMetrics
	pollInterval time.Duration

	mu       sync.Mutex
	watchers map[string]*watch
	wg       sync.WaitGroup
}

type watch struct {
	orderCode string
	cancel    context.CancelFunc
	poller    *poller.Poller
	done      chan struct{}

	mu     sync.Mutex
	status enums.PaymentStatus
	errMsg string
}

// NewService validates dependencies and builds the service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Generator == nil {
		return nil, errors.New("order code generator required")
	}
	if params.Store == nil {
		return nil, errors.New("pending store required")
	}
	if params.Gateway == nil {
		return nil, errors.New("gateway client required")
	}
	if params.Finalizer == nil {
		return nil, errors.New("finalizer required")
	}
	if params.Statuses == nil {
		return nil, errors.New("status fetcher required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	return &Service{
		generator:    params.Generator,
		store:        params.Store,
		gateway:      params.Gateway,
		finalizer:    params.Finalizer,
		statuses:     params.Statuses,
		logger:       params.Logger,
		metrics:      params.Metrics,
		pollInterval: params.PollInterval,
		watchers:     map[string]*watch{},
	}, nil
}

// Submit validates the draft and dispatches it down the direct or gateway
// path. Validation always completes before identifier generation, and
// identifier generation before any network submission.
func (s *Service) Submit(ctx context.Context, draft Draft) (*SubmitResult, error) {
	if err := Validate(draft); err != nil {
		s.metrics.IncSubmission("validation", "rejected")
		return nil, err
	}

	outstanding, err := s.store.PendingOrderCode(ctx, draft.CustomerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading pending checkout state")
	}
	if outstanding != "" {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a checkout is already awaiting payment").
			WithDetails(map[string]any{"order_code": outstanding})
	}

	used, err := s.store.UsedOrderCodes(ctx, draft.CustomerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading used order codes")
	}
	orderCode := s.generator.Generate(used)
	if err := s.store.SaveUsedOrderCodes(ctx, draft.CustomerID, used); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting used order codes")
	}

	total := draft.Total()
	record := pending.Checkout{
		OrderCode: orderCode,
		Payload:   buildCheckoutRequest(orderCode, draft),
		Address:   buildAddressRequest(orderCode, draft),
		CreatedAt: time.Now().UTC(),
	}

	ctx = s.logger.WithOrderCode(ctx, orderCode)

	if !draft.PaymentMethod.RequiresGateway() {
		if err := s.finalizer.Finalize(ctx, draft.CustomerID, record); err != nil {
			s.metrics.IncSubmission("direct", "failed")
			return nil, err
		}
		s.metrics.IncSubmission("direct", "accepted")
		s.logger.Info(ctx, "direct checkout finalized")
		return &SubmitResult{
			OrderCode:   orderCode,
			TotalAmount: total.StringFixed(2),
			Finalized:   true,
			State:       enums.PollStateResolved,
		}, nil
	}

	if err := s.store.Save(ctx, draft.CustomerID, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persisting pending checkout")
	}

	checkoutURL, err := s.gateway.InitiateCheckout(ctx, gateway.InitiateParams{
		OrderCode:   orderCode,
		TotalAmount: total,
		Description: fmt.Sprintf("Order %s", orderCode),
	})
	if err != nil {
		// Clear the record so the customer can retry from scratch.
		if clearErr := s.store.Clear(ctx, draft.CustomerID); clearErr != nil {
			s.logger.Error(ctx, "clearing failed checkout state", clearErr)
		}
		s.metrics.IncSubmission("gateway", "failed")
		return nil, err
	}

	s.startWatch(draft.CustomerID, record)
	s.metrics.IncSubmission("gateway", "accepted")
	s.logger.Info(ctx, "gateway checkout initiated")

	return &SubmitResult{
		OrderCode:   orderCode,
		TotalAmount: total.StringFixed(2),
		CheckoutURL: checkoutURL,
		Finalized:   false,
		State:       enums.PollStatePolling,
	}, nil
}

// Resume restarts the payment watch for a customer whose checkout was
// interrupted, the server-side analog of the app returning to the
// foreground. It reports whether a watch is now running.
func (s *Service) Resume(ctx context.Context, customerID string) (bool, error) {
	s.mu.Lock()
	if _, active := s.watchers[customerID]; active {
		s.mu.Unlock()
		return true, nil
	}
	s.mu.Unlock()

	code, err := s.store.PendingOrderCode(ctx, customerID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading pending checkout state")
	}
	if code == "" {
		return false, nil
	}
	record, err := s.store.Load(ctx, customerID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading pending checkout")
	}
	if record == nil {
		// Marker without payload; drop the marker rather than poll forever.
		if err := s.store.ClearMarker(ctx, customerID); err != nil {
			return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing orphaned pending marker")
		}
		return false, nil
	}

	s.startWatch(customerID, *record)
	return true, nil
}

// Status reports the customer's in-flight checkout, preferring the live
// watch over persisted state.
func (s *Service) Status(ctx context.Context, customerID string) (*StatusResult, error) {
	s.mu.Lock()
	w := s.watchers[customerID]
	s.mu.Unlock()

	if w != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		return &StatusResult{
			OrderCode: w.orderCode,
			State:     w.poller.State(),
			Payment:   w.status,
			Error:     w.errMsg,
		}, nil
	}

	code, err := s.store.PendingOrderCode(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading pending checkout state")
	}
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no checkout in progress")
	}
	return &StatusResult{OrderCode: code, State: enums.PollStateIdle}, nil
}

// Close cancels every active watch and waits for the pollers to stop.
func (s *Service) Close() {
	s.mu.Lock()
	for _, w := range s.watchers {
		w.cancel()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *Service) startWatch(customerID string, record pending.Checkout) {
	p, err := poller.New(poller.Params{
		CustomerID: customerID,
		Record:     record,
		Statuses:   s.statuses,
		Finalizer:  s.finalizer,
		Store:      s.store,
		Logger:     s.logger,
		Metrics:    s.metrics,
		Interval:   s.pollInterval,
	})
	if err != nil {
		s.logger.Error(context.Background(), "building payment watch failed", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &watch{
		orderCode: record.OrderCode,
		cancel:    cancel,
		poller:    p,
		done:      make(chan struct{}),
	}

	s.mu.Lock()
	if existing, active := s.watchers[customerID]; active {
		select {
		case <-existing.done:
			// Resolved watch kept for status visibility; replace it.
		default:
			s.mu.Unlock()
			cancel()
			return
		}
	}
	s.watchers[customerID] = w
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		status, err := p.Run(ctx)

		w.mu.Lock()
		w.status = status
		if err != nil && !errors.Is(err, context.Canceled) {
			w.errMsg = err.Error()
		}
		w.mu.Unlock()
		close(w.done)

		// Keep resolved results visible briefly through Status; a fresh
		// checkout replaces the entry anyway.
		if status.Terminal() {
			return
		}
		s.mu.Lock()
		if s.watchers[customerID] == w {
			delete(s.watchers, customerID)
		}
		s.mu.Unlock()
	}()
}
