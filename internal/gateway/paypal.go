package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/plutov/paypal/v4"
)

// PayPal captures an already approved PayPal order.
type PayPal struct {
	client  *paypal.Client
	timeout time.Duration
}

func NewPayPal(clientID, secret string, sandbox bool) (port.Gateway, error) {
	if clientID == "" || secret == "" {
		return nil, fmt.Errorf("clientID or secret is empty")
	}

	apiBase := paypal.APIBaseLive
	if sandbox {
		apiBase = paypal.APIBaseSandBox
	}

	client, err := paypal.NewClient(clientID, secret, apiBase)
	if err != nil {
		return nil, fmt.Errorf("paypal.NewClient: %w", err)
	}

	return &PayPal{client: client, timeout: chargeTimeout}, nil
}

func (g *PayPal) Charge(ctx context.Context, _ domain.Order, payload domain.PaymentPayload) (bool, error) {
	if payload.PayPalOrderID == "" {
		return false, fmt.Errorf("paypalOrderID is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.client.GetAccessToken(ctx); err != nil {
		return false, fmt.Errorf("client.GetAccessToken: %w", err)
	}

	capture, err := g.client.CaptureOrder(ctx, payload.PayPalOrderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return false, fmt.Errorf("client.CaptureOrder: %w", err)
	}

	return capture.Status == "COMPLETED", nil
}
