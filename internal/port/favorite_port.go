package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/google/uuid"
)

type FavoriteRepository interface {
	// AddFavorite persists the bookmark. A second favorite for the same
	// user and product is rejected.
	AddFavorite(ctx context.Context, userID string, productID uuid.UUID) (domain.Favorite, error)

	ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error)

	// RemoveFavorite deletes the favorite only when it belongs to userID.
	RemoveFavorite(ctx context.Context, favoriteID uuid.UUID, userID string) error
}
