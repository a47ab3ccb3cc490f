package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/config"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

var errLoggerRequired = errors.New("order api logger is required")

// Client consumes the remote Order REST API that owns all order data.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logger.Logger
}

// NewClient validates the configuration and builds the Order API wrapper.
func NewClient(cfg config.OrderAPIConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("order api base url is required")
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:  logg,
	}, nil
}

// CheckOutDbCart creates the order on the backend.
func (c *Client) CheckOutDbCart(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	err := c.post(ctx, "/Order/CheckOutDbCart", req, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderDeliveryUpdate stores the delivery address for the given order code.
func (c *Client) OrderDeliveryUpdate(ctx context.Context, orderCode string, req DeliveryAddressRequest) error {
	path := fmt.Sprintf("/Order/OrderDeliveryUpdate/%s", url.PathEscape(orderCode))
	return c.post(ctx, path, req, nil)
}

// SalesOrderGet fetches the line items of one order.
func (c *Client) SalesOrderGet(ctx context.Context, orderID string) ([]SalesOrderLine, error) {
	var lines []SalesOrderLine
	path := fmt.Sprintf("/Order/SalesOrderGet/%s", url.PathEscape(orderID))
	if err := c.get(ctx, path, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// GetOrderDeliveryAddress fetches the stored shipping record.
func (c *Client) GetOrderDeliveryAddress(ctx context.Context, orderCode string) (*DeliveryAddress, error) {
	var addr DeliveryAddress
	path := fmt.Sprintf("/Order/GetOrderDeliveryAddress/%s", url.PathEscape(orderCode))
	if err := c.get(ctx, path, &addr); err != nil {
		return nil, err
	}
	return &addr, nil
}

// GetOrderByCustomer lists a customer's orders inside a date window.
func (c *Client) GetOrderByCustomer(ctx context.Context, customerID, from, to string) ([]OrderSummary, error) {
	var summaries []OrderSummary
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	query.Set("customerId", customerID)
	if err := c.get(ctx, "/Order/GetOrderByCustomer?"+query.Encode(), &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CallbackStatus looks up the gateway outcome for a pending order code.
// Callers interpret the response code; unknown codes mean still pending.
func (c *Client) CallbackStatus(ctx context.Context, orderCode string) (*CallbackStatusResponse, error) {
	var status CallbackStatusResponse
	path := fmt.Sprintf("/Payment/CallbackStatus/%s", url.PathEscape(orderCode))
	if err := c.get(ctx, path, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) post(ctx context.Context, path string, body any, dest any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding order api request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building order api request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, path, dest)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building order api request")
	}
	return c.do(req, path, dest)
}

func (c *Client) do(req *http.Request, path string, dest any) error {
	op := req.Method + " " + trimQuery(path)
	resp, err := c.http.Do(req)
	if err != nil {
		c.logError(req.Context(), op, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("order api %s failed", op))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("order api %s returned %d: %s", op, resp.StatusCode, strings.TrimSpace(string(raw)))
		c.logError(req.Context(), op, err)
		return pkgerrors.Wrap(codeForStatus(resp.StatusCode), err, fmt.Sprintf("order api %s failed", op))
	}

	if dest == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.logError(req.Context(), op, err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("order api %s returned malformed body", op))
	}
	return nil
}

func (c *Client) logError(ctx context.Context, op string, err error) {
	if c.logger == nil {
		return
	}
	ctx = c.logger.WithField(ctx, "operation", op)
	c.logger.Error(ctx, "order api request failed", err)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.CodeValidation
	default:
		return pkgerrors.CodeDependency
	}
}

func trimQuery(path string) string {
	if idx := strings.IndexByte(path, '?'); idx >= 0 {
		return path[:idx]
	}
	return path
}
