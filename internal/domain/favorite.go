package domain

import (
	"time"

	"github.com/google/uuid"
)

// Favorite is a product bookmarked by a user. A user holds at most one
// favorite per product.
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`

	CreatedAt time.Time `json:"created_at"`
}

// FavoriteView joins a favorite with its product. Product is nil when the
// product has been removed since it was bookmarked.
type FavoriteView struct {
	Favorite Favorite `json:"favorite"`
	Product  *Product `json:"product,omitempty"`
}
