package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const favoritesTable = "favorites"

type favoriteRepository struct {
	s *store.Store
}

func NewFavorite(s *store.Store) (port.FavoriteRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	return &favoriteRepository{s: s}, nil
}

func (r *favoriteRepository) AddFavorite(ctx context.Context, userID string, productID uuid.UUID) (domain.Favorite, error) {
	var zero domain.Favorite

	if userID == "" {
		return zero, fmt.Errorf("userID is empty")
	}

	if productID == uuid.Nil {
		return zero, fmt.Errorf("productID is empty")
	}

	favorite := domain.Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}

	created, err := store.WithLock(ctx, r.s, favoritesTable, func(favorites []domain.Favorite) ([]domain.Favorite, domain.Favorite, error) {
		_, exists := lo.Find(favorites, func(f domain.Favorite) bool {
			return f.UserID == userID && f.ProductID == productID
		})
		if exists {
			return nil, zero, fmt.Errorf("product[%s]: %w", productID, domain.ErrFavoriteExists)
		}

		return append(favorites, favorite), favorite, nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return created, nil
}

func (r *favoriteRepository) ListFavoritesByUser(ctx context.Context, userID string) ([]domain.Favorite, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	favorites, err := store.ReadAll[domain.Favorite](ctx, r.s, favoritesTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(favorites, func(f domain.Favorite, _ int) bool {
		return f.UserID == userID
	}), nil
}

func (r *favoriteRepository) RemoveFavorite(ctx context.Context, favoriteID uuid.UUID, userID string) error {
	if favoriteID == uuid.Nil {
		return fmt.Errorf("favoriteID is empty")
	}

	_, err := store.WithLock(ctx, r.s, favoritesTable, func(favorites []domain.Favorite) ([]domain.Favorite, struct{}, error) {
		remaining := lo.Reject(favorites, func(f domain.Favorite, _ int) bool {
			return f.ID == favoriteID && f.UserID == userID
		})

		if len(remaining) == len(favorites) {
			return nil, struct{}{}, domain.ErrFavoriteNotFound
		}

		return remaining, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock: %w", err)
	}

	return nil
}
