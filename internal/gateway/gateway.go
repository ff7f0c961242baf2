// Package gateway holds one adapter per payment provider. Each adapter
// exposes the single Charge capability; the orchestrator treats adapter
// errors and timeouts as a declined payment.
package gateway

import (
	"fmt"

	"github.com/AndresTafur217/StorePrototypeApi/internal/config"
	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
)

// FromConfig builds the adapter set for every configured provider.
// A provider without credentials is simply not registered; paying with it
// then fails as unsupported.
func FromConfig(cfg config.Gateways) (map[domain.PaymentMethod]port.Gateway, error) {
	gateways := make(map[domain.PaymentMethod]port.Gateway)

	if cfg.Stripe.SecretKey != "" {
		g, err := NewStripe(cfg.Stripe.SecretKey)
		if err != nil {
			return nil, fmt.Errorf("gateway.NewStripe: %w", err)
		}
		gateways[domain.PaymentMethodStripe] = g
	}

	if cfg.PayPal.ClientID != "" {
		g, err := NewPayPal(cfg.PayPal.ClientID, cfg.PayPal.Secret, cfg.PayPal.Sandbox)
		if err != nil {
			return nil, fmt.Errorf("gateway.NewPayPal: %w", err)
		}
		gateways[domain.PaymentMethodPayPal] = g
	}

	if cfg.PSE.APIKey != "" {
		g, err := NewPSE(cfg.PSE.BaseURL, cfg.PSE.APIKey)
		if err != nil {
			return nil, fmt.Errorf("gateway.NewPSE: %w", err)
		}
		gateways[domain.PaymentMethodPSE] = g
	}

	if len(gateways) == 0 {
		return nil, fmt.Errorf("no payment gateway configured")
	}

	return gateways, nil
}
