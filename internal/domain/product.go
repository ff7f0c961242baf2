package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type ProductStatus string

const (
	ProductStatusAvailable ProductStatus = "available"
	ProductStatusLow       ProductStatus = "low"
	ProductStatusOut       ProductStatus = "out"
)

// DefaultLowStockThreshold is the stock level below which a product is reported
// as running low, matching the original store behaviour.
const DefaultLowStockThreshold = 10

// StatusForStock derives the product status from its stock level.
// The status is never stored independently of the stock it was derived from.
func StatusForStock(stock, lowThreshold int) ProductStatus {
	switch {
	case stock <= 0:
		return ProductStatusOut
	case stock < lowThreshold:
		return ProductStatusLow
	default:
		return ProductStatusAvailable
	}
}

type Product struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       Money         `json:"price"`
	Stock       int           `json:"stock"`
	Status      ProductStatus `json:"status"`
	SellerID    string        `json:"seller_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Product) Validate() error {
	if p.Name == "" {
		return errors.New("name is empty")
	}

	if p.Price.IsNegative() {
		return errors.New("price is negative")
	}

	if p.Stock < 0 {
		return errors.New("stock is negative")
	}

	return nil
}
