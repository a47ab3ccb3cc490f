package poller

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

type scriptedStatuses struct {
	mu    sync.Mutex
	codes []string
	errs  []error
	calls int
}

func (s *scriptedStatuses) CallbackStatus(context.Context, string) (*orderapi.CallbackStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	code := "9999"
	if idx < len(s.codes) {
		code = s.codes[idx]
	} else if len(s.codes) > 0 {
		code = s.codes[len(s.codes)-1]
	}
	return &orderapi.CallbackStatusResponse{ResponseCode: code}, nil
}

func (s *scriptedStatuses) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type countingFinalizer struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingFinalizer) Finalize(context.Context, string, pending.Checkout) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.err
}

func (c *countingFinalizer) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

type markerRecorder struct {
	mu     sync.Mutex
	clears int
}

func (m *markerRecorder) ClearMarker(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clears++
	return nil
}

func newTestPoller(t *testing.T, statuses *scriptedStatuses, fin *countingFinalizer, store *markerRecorder) *Poller {
	t.Helper()
	p, err := New(Params{
		CustomerID: "cust-1",
		Record:     pending.Checkout{OrderCode: "APP-123-456"},
		Statuses:   statuses,
		Finalizer:  fin,
		Store:      store,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Interval:   time.Millisecond,
	})
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}
	return p
}

func TestRunFinalizesOnceOnSuccess(t *testing.T) {
	statuses := &scriptedStatuses{codes: []string{"0005", "0005", "0000"}}
	fin := &countingFinalizer{}
	store := &markerRecorder{}
	p := newTestPoller(t, statuses, fin, store)

	status, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if status != enums.PaymentStatusSuccess {
		t.Fatalf("expected success, got %s", status)
	}
	if fin.callCount() != 1 {
		t.Fatalf("finalizer must run exactly once, ran %d times", fin.callCount())
	}
	if got := statuses.callCount(); got != 3 {
		t.Fatalf("expected exactly 3 poll ticks, got %d", got)
	}
	if store.clears != 1 {
		t.Fatalf("pending marker should be cleared once")
	}
	if p.State() != enums.PollStateResolved {
		t.Fatalf("expected resolved state, got %s", p.State())
	}
}

func TestRunStopsWithoutFinalizeOnCancelledCode(t *testing.T) {
	statuses := &scriptedStatuses{codes: []string{"2001"}}
	fin := &countingFinalizer{}
	store := &markerRecorder{}
	p := newTestPoller(t, statuses, fin, store)

	status, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if status != enums.PaymentStatusCancelled {
		t.Fatalf("expected cancelled, got %s", status)
	}
	if fin.callCount() != 0 {
		t.Fatalf("finalizer must not run for a cancelled payment")
	}
	if store.clears != 1 {
		t.Fatalf("pending marker should still be cleared")
	}
}

func TestRunSwallowsTransientErrors(t *testing.T) {
	statuses := &scriptedStatuses{
		codes: []string{"", "", "0000"},
		errs:  []error{errors.New("dns failure"), errors.New("timeout"), nil},
	}
	fin := &countingFinalizer{}
	p := newTestPoller(t, statuses, fin, &markerRecorder{})

	status, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("transient errors must not abort the loop: %v", err)
	}
	if status != enums.PaymentStatusSuccess {
		t.Fatalf("expected success after retries, got %s", status)
	}
	if fin.callCount() != 1 {
		t.Fatalf("finalizer should run once, ran %d", fin.callCount())
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	statuses := &scriptedStatuses{codes: []string{"0005"}}
	fin := &countingFinalizer{}
	p := newTestPoller(t, statuses, fin, &markerRecorder{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var runErr error
	go func() {
		_, runErr = p.Run(ctx)
		close(done)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("poller did not stop after cancel")
	}
	if !errors.Is(runErr, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", runErr)
	}
	if fin.callCount() != 0 {
		t.Fatalf("cancel must not trigger finalize")
	}
}

func TestRunSurfacesFinalizeFailureAfterSuccessCode(t *testing.T) {
	statuses := &scriptedStatuses{codes: []string{"0000"}}
	fin := &countingFinalizer{err: errors.New("order api down")}
	p := newTestPoller(t, statuses, fin, &markerRecorder{})

	status, err := p.Run(context.Background())
	if status != enums.PaymentStatusSuccess {
		t.Fatalf("payment itself resolved successfully, got %s", status)
	}
	if err == nil {
		t.Fatalf("finalize failure must surface")
	}
}
