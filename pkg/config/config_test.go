package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FRANKO_APP_ENV", "dev")
	t.Setenv("FRANKO_APP_PORT", "8080")
	t.Setenv("FRANKO_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("FRANKO_ORDER_API_BASE_URL", "https://orders.example.com/api")
	t.Setenv("FRANKO_GATEWAY_BASE_URL", "https://payproxy.example.com")
	t.Setenv("FRANKO_GATEWAY_API_ID", "merchant-id")
	t.Setenv("FRANKO_GATEWAY_API_KEY", "merchant-key")
	t.Setenv("FRANKO_GATEWAY_MERCHANT_ACCOUNT", "HM000000")
	t.Setenv("FRANKO_GATEWAY_CALLBACK_URL", "https://orders.example.com/api/payment/callback")
	t.Setenv("FRANKO_GATEWAY_RETURN_URL", "https://shop.example.com/payment-check")
	t.Setenv("FRANKO_GATEWAY_CANCELLATION_URL", "https://shop.example.com/cart")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Poller.Interval != 3*time.Second {
		t.Fatalf("expected 3s poll interval, got %s", cfg.Poller.Interval)
	}
	if cfg.Checkout.PendingTTL != 24*time.Hour {
		t.Fatalf("expected 24h pending ttl, got %s", cfg.Checkout.PendingTTL)
	}
	if cfg.App.LogLevel != "info" {
		t.Fatalf("expected default log level, got %s", cfg.App.LogLevel)
	}
	if !cfg.App.IsDev() || cfg.App.IsProd() {
		t.Fatalf("env helpers disagree with FRANKO_APP_ENV=dev")
	}
}

func TestLoadRejectsMissingGatewayCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FRANKO_GATEWAY_API_KEY", "   ")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for blank gateway key")
	}
}
