package pending

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Owusua22/Franko-MobileApp-sub001/internal/orderapi"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/redis"
)

// Field names mirror the storefront's persisted keys.
const (
	fieldPendingOrderID   = "pendingOrderId"
	fieldCheckoutDetails  = "checkoutDetails"
	fieldDeliveryDetails  = "orderDeliveryDetails"
	fieldUsedOrderIDs     = "usedOrderIds"
	fieldCart             = "cart"
	fieldCartID           = "cartId"
	fieldCartDetails      = "cartDetails"
	fieldSelectedLocation = "selectedLocation"
)

// Checkout is the locally persisted record of an order awaiting payment
// confirmation. It is owned by this store until resolved.
type Checkout struct {
	OrderCode string                          `json:"orderCode"`
	Payload   orderapi.CheckoutRequest        `json:"checkoutPayload"`
	Address   orderapi.DeliveryAddressRequest `json:"addressPayload"`
	CreatedAt time.Time                       `json:"createdAt"`
}

// KV is the slice of the redis client this store needs.
type KV interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	CheckoutKey(customerID, field string) string
	CartKey(customerID, field string) string
}

// Store persists checkout state per customer. At most one pending checkout
// may be outstanding per customer at a time; Save refuses to overwrite an
// unresolved one.
type Store struct {
	kv  KV
	ttl time.Duration
}

// NewStore builds the pending-state store.
func NewStore(kv KV, ttl time.Duration) (*Store, error) {
	if kv == nil {
		return nil, errors.New("kv client required")
	}
	return &Store{kv: kv, ttl: ttl}, nil
}

// Save records a new pending checkout. It fails with an error when another
// checkout is still pending for the customer, preserving the single
// in-flight invariant.
func (s *Store) Save(ctx context.Context, customerID string, record Checkout) error {
	existing, err := s.PendingOrderCode(ctx, customerID)
	if err != nil {
		return err
	}
	if existing != "" && existing != record.OrderCode {
		return fmt.Errorf("checkout %s is still pending", existing)
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding pending checkout: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutKey(customerID, fieldCheckoutDetails), string(raw), s.ttl); err != nil {
		return err
	}

	addr, err := json.Marshal(record.Address)
	if err != nil {
		return fmt.Errorf("encoding delivery details: %w", err)
	}
	if err := s.kv.Set(ctx, s.kv.CheckoutKey(customerID, fieldDeliveryDetails), string(addr), s.ttl); err != nil {
		return err
	}

	return s.kv.Set(ctx, s.kv.CheckoutKey(customerID, fieldPendingOrderID), record.OrderCode, s.ttl)
}

// Load returns the pending checkout, or nil when none is outstanding.
func (s *Store) Load(ctx context.Context, customerID string) (*Checkout, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutKey(customerID, fieldCheckoutDetails))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var record Checkout
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, fmt.Errorf("decoding pending checkout: %w", err)
	}
	return &record, nil
}

// PendingOrderCode returns the outstanding order code, or "" when none.
func (s *Store) PendingOrderCode(ctx context.Context, customerID string) (string, error) {
	code, err := s.kv.Get(ctx, s.kv.CheckoutKey(customerID, fieldPendingOrderID))
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

// ClearMarker removes the pending marker only. The checkout payload is kept
// so a cancelled payment can be retried with the same order code.
func (s *Store) ClearMarker(ctx context.Context, customerID string) error {
	return s.kv.Del(ctx, s.kv.CheckoutKey(customerID, fieldPendingOrderID))
}

// Clear removes the pending marker and both persisted payloads.
func (s *Store) Clear(ctx context.Context, customerID string) error {
	return s.kv.Del(ctx,
		s.kv.CheckoutKey(customerID, fieldPendingOrderID),
		s.kv.CheckoutKey(customerID, fieldCheckoutDetails),
		s.kv.CheckoutKey(customerID, fieldDeliveryDetails),
	)
}

// ClearCart drops the customer's cart state after a successful finalize.
func (s *Store) ClearCart(ctx context.Context, customerID string) error {
	return s.kv.Del(ctx,
		s.kv.CartKey(customerID, fieldCart),
		s.kv.CartKey(customerID, fieldCartID),
		s.kv.CartKey(customerID, fieldCartDetails),
		s.kv.CartKey(customerID, fieldSelectedLocation),
	)
}

// UsedOrderCodes loads the customer's previously generated order codes.
func (s *Store) UsedOrderCodes(ctx context.Context, customerID string) (map[string]struct{}, error) {
	raw, err := s.kv.Get(ctx, s.kv.CheckoutKey(customerID, fieldUsedOrderIDs))
	if err == redis.Nil {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := json.Unmarshal([]byte(raw), &codes); err != nil {
		return nil, fmt.Errorf("decoding used order codes: %w", err)
	}
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set, nil
}

// SaveUsedOrderCodes persists the updated identifier set.
func (s *Store) SaveUsedOrderCodes(ctx context.Context, customerID string, codes map[string]struct{}) error {
	list := make([]string, 0, len(codes))
	for code := range codes {
		list = append(list, code)
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding used order codes: %w", err)
	}
	// Used codes outlive individual checkouts.
	return s.kv.Set(ctx, s.kv.CheckoutKey(customerID, fieldUsedOrderIDs), string(raw), 0)
}
