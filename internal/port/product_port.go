package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// StockLedger owns every mutation of product stock and the status derived
// from it. All batch operations run under a single acquisition of the
// products table lock, so two concurrent deltas on the same product cannot
// interleave.
type StockLedger interface {
	// PriceLines resolves and prices the requested lines without touching
	// stock. Stock is only decremented at payment time.
	PriceLines(ctx context.Context, requests []domain.LineRequest) (domain.Money, []domain.OrderLine, error)

	// ApplyDecrements subtracts each line quantity from its product stock,
	// failing the whole batch if any product has insufficient stock.
	// It returns the products it updated, post-decrement.
	ApplyDecrements(ctx context.Context, lines []domain.OrderLine) ([]domain.Product, error)

	// ApplyRestorations adds each line quantity back. A missing product is
	// skipped: restoring stock for a deleted product is a no-op.
	ApplyRestorations(ctx context.Context, lines []domain.OrderLine) error
}
