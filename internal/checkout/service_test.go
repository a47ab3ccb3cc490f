package checkout

import (
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/gateway"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderid"
	"github.com/Owusua22/Franko-MobileApp-sub001/internal/pending"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/enums"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/metrics"
)

type memStore struct {
	mu      sync.Mutex
	pending map[string]pending.Checkout
	marker  map[string]string
	used    map[string]map[string]struct{}
	saveErr error
}

func newMemStore() *memStore {
	return &memStore{
		pending: map[string]pending.Checkout{},
		marker:  map[string]string{},
		used:    map[string]map[string]struct{}{},
	}
}

func (m *memStore) Save(_ context.Context, customerID string, record pending.Checkout) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.pending[customerID] = record
	m.marker[customerID] = record.OrderCode
	return nil
}

func (m *memStore) Load(_ context.Context, customerID string) (*pending.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, ok := m.pending[customerID]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (m *memStore) PendingOrderCode(_ context.Context, customerID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.marker[customerID], nil
}

func (m *memStore) ClearMarker(_ context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.marker, customerID)
	return nil
}

func (m *memStore) Clear(_ context.Context, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.marker, customerID)
	delete(m.pending, customerID)
	return nil
}

func (m *memStore) UsedOrderCodes(_ context.Context, customerID string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := map[string]struct{}{}
	for code := range m.used[customerID] {
		codes[code] = struct{}{}
	}
	return codes, nil
}

func (m *memStore) SaveUsedOrderCodes(_ context.Context, customerID string, codes map[string]struct{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.used[customerID] = codes
	return nil
}

type stubGateway struct {
	mu     sync.Mutex
	calls  []gateway.InitiateParams
	url    string
	err    error
}

func (g *stubGateway) InitiateCheckout(_ context.Context, params gateway.InitiateParams) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, params)
	if g.err != nil {
		return "", g.err
	}
	return g.url, nil
}

type countingFinalizer struct {
	mu    sync.Mutex
	calls int
	store *memStore
	err   error
}

func (f *countingFinalizer) Finalize(ctx context.Context, customerID string, _ pending.Checkout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.store != nil {
		_ = f.store.Clear(ctx, customerID)
	}
	return nil
}

func (f *countingFinalizer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type scriptedStatuses struct {
	mu    sync.Mutex
	codes []string
	calls int
}

func (s *scriptedStatuses) CallbackStatus(context.Context, string) (*orderapi.CallbackStatusResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	code := s.codes[len(s.codes)-1]
	if s.calls < len(s.codes) {
		code = s.codes[s.calls]
	}
	s.calls++
	return &orderapi.CallbackStatusResponse{ResponseCode: code}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
}

func newTestService(t *testing.T, store *memStore, gw *stubGateway, fin *countingFinalizer, statuses *scriptedStatuses) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Generator:    orderid.NewGenerator(),
		Store:        store,
		Gateway:      gw,
		Finalizer:    fin,
		Statuses:     statuses,
		Logger:       testLogger(),
		Metrics:      metrics.NewCheckoutMetrics(nil),
		PollInterval: time.Millisecond,
	})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func awaitWatch(t *testing.T, svc *Service, customerID string) {
	t.Helper()
	svc.mu.Lock()
	w := svc.watchers[customerID]
	svc.mu.Unlock()
	if w == nil {
		t.Fatal("no watch running")
	}
	select {
	case <-w.done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not resolve")
	}
}

func TestSubmitDirectPathFinalizesImmediately(t *testing.T) {
	store := newMemStore()
	fin := &countingFinalizer{store: store}
	svc := newTestService(t, store, &stubGateway{url: "https://pay.example/x"}, fin, &scriptedStatuses{codes: []string{"0000"}})
	defer svc.Close()

	draft := validDraft()
	draft.PaymentMethod = enums.PaymentMethodCashOnPickup

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Finalized {
		t.Fatal("expected immediate finalization")
	}
	if result.CheckoutURL != "" {
		t.Fatalf("unexpected checkout URL %q", result.CheckoutURL)
	}
	if !strings.HasPrefix(result.OrderCode, "APP-") {
		t.Fatalf("unexpected order code %q", result.OrderCode)
	}
	if fin.count() != 1 {
		t.Fatalf("got %d finalize calls, want 1", fin.count())
	}
}

func TestSubmitGatewayPathResolvesAfterPolling(t *testing.T) {
	store := newMemStore()
	fin := &countingFinalizer{store: store}
	gw := &stubGateway{url: "https://pay.example/session/abc"}
	statuses := &scriptedStatuses{codes: []string{"1111", "1111", "0000"}}
	svc := newTestService(t, store, gw, fin, statuses)
	defer svc.Close()

	draft := validDraft()
	draft.Items = []CartItem{{ProductID: "p1", Name: "Blender", Quantity: 1, Amount: decimal.NewFromInt(110)}}
	draft.Delivery.Fee = decimal.NewFromInt(10)

	result, err := svc.Submit(context.Background(), draft)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Finalized {
		t.Fatal("gateway path must not finalize synchronously")
	}
	if result.CheckoutURL != gw.url {
		t.Fatalf("got checkout URL %q, want %q", result.CheckoutURL, gw.url)
	}
	if result.TotalAmount != "120.00" {
		t.Fatalf("got total %s, want 120.00", result.TotalAmount)
	}

	awaitWatch(t, svc, draft.CustomerID)

	if fin.count() != 1 {
		t.Fatalf("got %d finalize calls, want exactly 1", fin.count())
	}
	if code, _ := store.PendingOrderCode(context.Background(), draft.CustomerID); code != "" {
		t.Fatalf("pending marker %q survived resolution", code)
	}

	status, err := svc.Status(context.Background(), draft.CustomerID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.State != enums.PollStateResolved || status.Payment != enums.PaymentStatusSuccess {
		t.Fatalf("got state=%s payment=%s", status.State, status.Payment)
	}
}

func TestSubmitRejectsSecondPendingCheckout(t *testing.T) {
	store := newMemStore()
	fin := &countingFinalizer{store: store}
	// Never resolves, so the first checkout stays outstanding.
	statuses := &scriptedStatuses{codes: []string{"1111"}}
	svc := newTestService(t, store, &stubGateway{url: "https://pay.example/x"}, fin, statuses)
	defer svc.Close()

	if _, err := svc.Submit(context.Background(), validDraft()); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	_, err := svc.Submit(context.Background(), validDraft())
	if err == nil {
		t.Fatal("expected second submit to be rejected")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("got %v, want conflict", err)
	}
}

func TestSubmitClearsStateWhenInitiationFails(t *testing.T) {
	store := newMemStore()
	fin := &countingFinalizer{store: store}
	gw := &stubGateway{err: pkgerrors.New(pkgerrors.CodeInvalidPaymentURL, "payment page rejected")}
	svc := newTestService(t, store, gw, fin, &scriptedStatuses{codes: []string{"0000"}})
	defer svc.Close()

	_, err := svc.Submit(context.Background(), validDraft())
	if err == nil {
		t.Fatal("expected initiation failure")
	}
	if code, _ := store.PendingOrderCode(context.Background(), "cust-1"); code != "" {
		t.Fatalf("pending marker %q kept after failed initiation", code)
	}
	if fin.count() != 0 {
		t.Fatal("finalizer must not run on initiation failure")
	}
}

func TestResumeRestartsWatchForPendingCheckout(t *testing.T) {
	store := newMemStore()
	fin := &countingFinalizer{store: store}
	statuses := &scriptedStatuses{codes: []string{"0000"}}
	svc := newTestService(t, store, &stubGateway{}, fin, statuses)
	defer svc.Close()

	record := pending.Checkout{
		OrderCode: "APP-321-654",
		Payload:   orderapi.CheckoutRequest{OrderCode: "APP-321-654", CustomerID: "cust-9"},
		Address:   orderapi.DeliveryAddressRequest{OrderCode: "APP-321-654", CustomerID: "cust-9"},
		CreatedAt: time.Now().UTC(),
	}
	if err := store.Save(context.Background(), "cust-9", record); err != nil {
		t.Fatalf("seeding store: %v", err)
	}

	active, err := svc.Resume(context.Background(), "cust-9")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if !active {
		t.Fatal("expected a watch to start")
	}

	awaitWatch(t, svc, "cust-9")
	if fin.count() != 1 {
		t.Fatalf("got %d finalize calls, want 1", fin.count())
	}
}

func TestResumeWithoutPendingCheckout(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, &stubGateway{}, &countingFinalizer{store: store}, &scriptedStatuses{codes: []string{"0000"}})
	defer svc.Close()

	active, err := svc.Resume(context.Background(), "cust-9")
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if active {
		t.Fatal("no watch expected without pending state")
	}
}

func TestStatusWithoutCheckout(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, &stubGateway{}, &countingFinalizer{store: store}, &scriptedStatuses{codes: []string{"0000"}})
	defer svc.Close()

	_, err := svc.Status(context.Background(), "cust-9")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestSubmitValidatesBeforeTouchingState(t *testing.T) {
	store := newMemStore()
	svc := newTestService(t, store, &stubGateway{}, &countingFinalizer{store: store}, &scriptedStatuses{codes: []string{"0000"}})
	defer svc.Close()

	draft := validDraft()
	draft.RecipientName = "guest"

	_, err := svc.Submit(context.Background(), draft)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("got %v, want validation error", err)
	}
	if len(store.used["cust-1"]) != 0 {
		t.Fatal("order code generated for invalid draft")
	}
}
