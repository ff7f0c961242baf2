package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
)

const chargeTimeout = 30 * time.Second

// Stripe confirms a payment intent for the order total. The caller-supplied
// payment method id must already be attached on the Stripe side.
type Stripe struct {
	timeout time.Duration
}

func NewStripe(secretKey string) (port.Gateway, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secretKey is empty")
	}

	stripe.Key = secretKey

	return &Stripe{timeout: chargeTimeout}, nil
}

func (g *Stripe) Charge(ctx context.Context, order domain.Order, payload domain.PaymentPayload) (bool, error) {
	if payload.PaymentMethodID == "" {
		return false, fmt.Errorf("paymentMethodID is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(order.Total.MinorUnits()),
		Currency:      stripe.String(strings.ToLower(order.Total.Currency.String())),
		PaymentMethod: stripe.String(payload.PaymentMethodID),
		Confirm:       stripe.Bool(true),
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		return false, fmt.Errorf("paymentintent.New: %w", err)
	}

	return intent.Status == stripe.PaymentIntentStatusSucceeded, nil
}
