package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/google/uuid"
)

type RatingRepository interface {
	InsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error)

	ListRatingsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Rating, error)
	ListRatingsBySeller(ctx context.Context, sellerID string) ([]domain.Rating, error)
}
