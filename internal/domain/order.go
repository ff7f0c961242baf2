package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Order struct {
	ID      uuid.UUID   `json:"id"`
	BuyerID string      `json:"buyer_id"`
	Total   Money       `json:"total"`
	Status  OrderStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderLine is immutable once created: later stock or price changes never
// rewrite historical lines. The product reference is weak, the product may be
// deleted while the line survives.
type OrderLine struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"order_id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
}

// LineRequest is a requested product+quantity pair before pricing.
type LineRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func ValidateLineRequests(lines []LineRequest) error {
	if len(lines) == 0 {
		return errors.New("no items in order")
	}

	for i, line := range lines {
		if line.ProductID == uuid.Nil {
			return fmt.Errorf("line[%d]: productID is empty", i)
		}

		if line.Quantity < 1 {
			return fmt.Errorf("line[%d]: quantity must be at least 1", i)
		}
	}

	return nil
}

// PlacedOrder is what order creation returns: the order, its lines and the
// invoice created synchronously with it.
type PlacedOrder struct {
	Order   Order       `json:"order"`
	Lines   []OrderLine `json:"lines"`
	Invoice Invoice     `json:"invoice"`
}

// OrderView is an order hydrated with its lines for read paths.
// Product is nil when the referenced product no longer exists.
type OrderView struct {
	Order Order           `json:"order"`
	Lines []OrderLineView `json:"lines"`
}

type OrderLineView struct {
	Line    OrderLine `json:"line"`
	Product *Product  `json:"product,omitempty"`
}
