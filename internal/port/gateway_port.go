package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
)

// Gateway is one payment provider. Charge reports whether the provider
// confirmed the payment; a transport error or timeout is returned as err and
// treated as declined by the orchestrator.
type Gateway interface {
	Charge(ctx context.Context, order domain.Order, payload domain.PaymentPayload) (bool, error)
}
