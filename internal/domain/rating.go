package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Rating is a buyer's score for a product, one to five stars. SellerID is
// captured at rating time so seller aggregates survive product deletion.
type Rating struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	SellerID  string    `json:"seller_id"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (r Rating) Validate() error {
	if r.ProductID == uuid.Nil {
		return errors.New("productID is empty")
	}

	if r.UserID == "" {
		return errors.New("userID is empty")
	}

	if r.Score < 1 || r.Score > 5 {
		return errors.New("score must be between 1 and 5")
	}

	return nil
}

// SellerScore aggregates the ratings received by one seller.
type SellerScore struct {
	SellerID string   `json:"seller_id"`
	Count    int      `json:"count"`
	Average  float64  `json:"average"`
	Ratings  []Rating `json:"ratings"`
}
