package gateway

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

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/config"
	pkgerrors "github.com/Owusua22/Franko-MobileApp-sub001/pkg/errors"
	"github.com/Owusua22/Franko-MobileApp-sub001/pkg/logger"
)

var (
	errCredentialsRequired = errors.New("gateway api id and key are required")
	errLoggerRequired      = errors.New("gateway logger is required")
)

// InitiateParams describes one hosted-checkout request.
type InitiateParams struct {
	OrderCode   string
	TotalAmount decimal.Decimal
	Description string
}

// initiateRequest is the wire payload for POST /items/initiate.
type initiateRequest struct {
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	Description           string          `json:"description"`
	CallbackURL           string          `json:"callbackUrl"`
	ReturnURL             string          `json:"returnUrl"`
	MerchantAccountNumber string          `json:"merchantAccountNumber"`
	CancellationURL       string          `json:"cancellationUrl"`
	ClientReference       string          `json:"clientReference"`
}

type initiateResponse struct {
	Status string `json:"status"`
	Data   struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"data"`
}

// Client talks to the hosted payment page provider. Credentials live in
// server config only.
type Client struct {
	cfg    config.GatewayConfig
	http   *http.Client
	logger *logger.Logger
}

// NewClient validates the gateway credentials and builds the wrapper.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	if strings.TrimSpace(cfg.APIID) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errCredentialsRequired
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, errors.New("gateway base url is required")
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		logger: logg,
	}, nil
}

// InitiateCheckout requests a hosted checkout page for the order and returns
// its URL. The return URL carries the order code so the storefront can route
// back to the right pending checkout; the URL is validated before it is
// handed to any browser context.
func (c *Client) InitiateCheckout(ctx context.Context, params InitiateParams) (string, error) {
	body := initiateRequest{
		TotalAmount:           params.TotalAmount,
		Description:           params.Description,
		CallbackURL:           c.cfg.CallbackURL,
		ReturnURL:             returnURLFor(c.cfg.ReturnURL, params.OrderCode),
		MerchantAccountNumber: c.cfg.MerchantAccountNumber,
		CancellationURL:       c.cfg.CancellationURL,
		ClientReference:       fmt.Sprintf("%s-%s", params.OrderCode, uuid.NewString()),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding gateway request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/items/initiate", bytes.NewReader(payload))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building gateway request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.APIID, c.cfg.APIKey)

	ctx = c.logger.WithOrderCode(ctx, params.OrderCode)
	c.logger.Info(ctx, "gateway checkout initiate")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error(ctx, "gateway initiate failed", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway initiate failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err := fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
		c.logger.Error(ctx, "gateway initiate rejected", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway initiate failed")
	}

	var decoded initiateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error(ctx, "gateway response malformed", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "gateway returned malformed body")
	}

	checkoutURL := strings.TrimSpace(decoded.Data.CheckoutURL)
	if !IsValidCheckoutURL(checkoutURL) {
		err := fmt.Errorf("gateway returned unusable checkout url %q", checkoutURL)
		c.logger.Error(ctx, "gateway checkout url rejected", err)
		return "", pkgerrors.Wrap(pkgerrors.CodeInvalidPaymentURL, err, "invalid payment url")
	}

	return checkoutURL, nil
}

// IsValidCheckoutURL accepts only absolute http/https URLs. about:/srcdoc
// pseudo-URLs and script schemes are rejected before the URL reaches a
// browser context.
func IsValidCheckoutURL(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	lowered := strings.ToLower(raw)
	if strings.HasPrefix(lowered, "about:") || lowered == "srcdoc" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	return parsed.Host != ""
}

func returnURLFor(base, orderCode string) string {
	parsed, err := url.Parse(base)
	if err != nil {
		return base
	}
	query := parsed.Query()
	query.Set("orderId", orderCode)
	parsed.RawQuery = query.Encode()
	return parsed.String()
}
