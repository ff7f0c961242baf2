package service

import (
	"context"
	"fmt"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// FavoriteService manages per-user product bookmarks. Favorites are always
// scoped to the acting user, there is no admin view.
type FavoriteService struct {
	favorites port.FavoriteRepository
	products  port.ProductRepository
}

func NewFavoriteService(favorites port.FavoriteRepository, products port.ProductRepository) (*FavoriteService, error) {
	if favorites == nil {
		return nil, fmt.Errorf("favorites repository is nil")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is nil")
	}

	return &FavoriteService{favorites: favorites, products: products}, nil
}

// AddFavorite bookmarks an existing product for the actor.
func (s *FavoriteService) AddFavorite(ctx context.Context, actor domain.Actor, productID uuid.UUID) (domain.Favorite, error) {
	var zero domain.Favorite

	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return zero, fmt.Errorf("products.GetProduct: %w", err)
	}

	favorite, err := s.favorites.AddFavorite(ctx, actor.ID, productID)
	if err != nil {
		return zero, fmt.Errorf("favorites.AddFavorite: %w", err)
	}

	return favorite, nil
}

// ListFavorites returns the actor's favorites hydrated with their products,
// optionally narrowed to a creation time range. A favorite whose product has
// since been deleted keeps a nil product.
func (s *FavoriteService) ListFavorites(ctx context.Context, actor domain.Actor, createdAt *domain.TimeRange) ([]domain.FavoriteView, error) {
	if createdAt != nil {
		if err := createdAt.Validate(); err != nil {
			return nil, fmt.Errorf("createdAt.Validate: %w", err)
		}
	}

	favorites, err := s.favorites.ListFavoritesByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("favorites.ListFavoritesByUser: %w", err)
	}

	if createdAt != nil {
		favorites = lo.Filter(favorites, func(f domain.Favorite, _ int) bool {
			return createdAt.Contains(f.CreatedAt)
		})
	}

	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("products.ListProducts: %w", err)
	}

	productByID := lo.KeyBy(products, func(p domain.Product) uuid.UUID { return p.ID })

	views := make([]domain.FavoriteView, 0, len(favorites))
	for _, favorite := range favorites {
		view := domain.FavoriteView{Favorite: favorite}
		if product, ok := productByID[favorite.ProductID]; ok {
			view.Product = &product
		}
		views = append(views, view)
	}

	return views, nil
}

// RemoveFavorite deletes the actor's favorite. A favorite belonging to another
// user is reported as not found, not as forbidden.
func (s *FavoriteService) RemoveFavorite(ctx context.Context, actor domain.Actor, favoriteID uuid.UUID) error {
	if favoriteID == uuid.Nil {
		return fmt.Errorf("favoriteID is empty")
	}

	if err := s.favorites.RemoveFavorite(ctx, favoriteID, actor.ID); err != nil {
		return fmt.Errorf("favorites.RemoveFavorite: %w", err)
	}

	return nil
}
