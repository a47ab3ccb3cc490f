package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/metrics"
)

const defaultInterval = 3 * time.Second

type statusFetcher interface {
	CallbackStatus(ctx context.Context, orderCode string) (*orderapi.CallbackStatusResponse, error)
}

type finalizeRunner interface {
	Finalize(ctx context.Context, customerID string, record pending.Checkout) error
}

type markerStore interface {
	ClearMarker(ctx context.Context, customerID string) error
}

// Params wires one poller to its collaborators.
type Params struct {
	CustomerID string
	Record     pending.Checkout
	Statuses   statusFetcher
	Finalizer  finalizeRunner
	Store      markerStore
	Logger     *logger.Logger
	Metrics    *metrics.CheckoutMetrics
	Interval   time.Duration
}

// Poller watches the callback-status endpoint for one pending order code
// until the gateway reports a terminal state. A poller is single-use; a new
// checkout gets a fresh instance.
type Poller struct {
	customerID string
	record     pending.Checkout
	statuses   statusFetcher
	finalizer  finalizeRunner
	store      markerStore
	logger     *logger.Logger
	metrics    *metrics.CheckoutMetrics
	interval   time.Duration

	mu    sync.Mutex
	state enums.PollState
}

// New validates the params and builds a poller in the idle state.
func New(params Params) (*Poller, error) {
	if params.Record.OrderCode == "" {
		return nil, errors.New("order code required")
	}
	if params.Statuses == nil {
		return nil, errors.New("status fetcher required")
	}
	if params.Finalizer == nil {
		return nil, errors.New("finalizer required")
	}
	if params.Store == nil {
		return nil, errors.New("marker store required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger required")
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		customerID: params.CustomerID,
		record:     params.Record,
		statuses:   params.Statuses,
		finalizer:  params.Finalizer,
		store:      params.Store,
		logger:     params.Logger,
		metrics:    params.Metrics,
		interval:   interval,
		state:      enums.PollStateIdle,
	}, nil
}

// State reports where the poller is in its lifecycle.
func (p *Poller) State() enums.PollState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) setState(state enums.PollState) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

// Run polls the callback endpoint on a fixed interval until the payment
// resolves or ctx is cancelled. Ticks are sequential: a slow response delays
// the next tick instead of overlapping it. Per-tick errors are swallowed so
// a single network hiccup does not abort the loop.
//
// On a success code the finalizer is invoked exactly once and the pending
// marker is cleared. On a cancelled code the marker is cleared but the
// payload stays, leaving the retry policy to the caller. Cancelling ctx
// returns ctx.Err with no resolution.
func (p *Poller) Run(ctx context.Context) (enums.PaymentStatus, error) {
	ctx = p.logger.WithOrderCode(ctx, p.record.OrderCode)
	p.setState(enums.PollStatePolling)
	p.logger.Info(ctx, "payment polling started")

	for {
		if err := p.sleep(ctx); err != nil {
			p.logger.Info(ctx, "payment polling stopped")
			return "", err
		}

		resp, err := p.statuses.CallbackStatus(ctx, p.record.OrderCode)
		if err != nil {
			p.metrics.IncPollTick("error")
			p.logger.Warn(ctx, "callback status fetch failed, will retry")
			continue
		}

		status := enums.PaymentStatusFromResponseCode(resp.ResponseCode)
		p.metrics.IncPollTick(status.String())
		if !status.Terminal() {
			continue
		}

		p.setState(enums.PollStateResolved)
		if err := p.store.ClearMarker(ctx, p.customerID); err != nil {
			p.logger.Error(ctx, "clearing pending marker failed", err)
		}

		if status == enums.PaymentStatusCancelled {
			p.logger.Info(ctx, "payment cancelled by gateway")
			return status, nil
		}

		if err := p.finalizer.Finalize(ctx, p.customerID, p.record); err != nil {
			p.logger.Error(ctx, "finalize after payment failed", err)
			return status, err
		}
		p.logger.Info(ctx, "payment confirmed and order finalized")
		return status, nil
	}
}

func (p *Poller) sleep(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
