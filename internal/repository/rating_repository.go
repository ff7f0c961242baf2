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

const ratingsTable = "ratings"

type ratingRepository struct {
	s *store.Store
}

func NewRating(s *store.Store) (port.RatingRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	return &ratingRepository{s: s}, nil
}

func (r *ratingRepository) InsertRating(ctx context.Context, rating domain.Rating) (domain.Rating, error) {
	var zero domain.Rating

	if err := rating.Validate(); err != nil {
		return zero, fmt.Errorf("rating.Validate: %w", err)
	}

	rating.ID = uuid.New()
	rating.CreatedAt = time.Now().UTC()

	created, err := store.WithLock(ctx, r.s, ratingsTable, func(ratings []domain.Rating) ([]domain.Rating, domain.Rating, error) {
		return append(ratings, rating), rating, nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return created, nil
}

func (r *ratingRepository) ListRatingsByProduct(ctx context.Context, productID uuid.UUID) ([]domain.Rating, error) {
	if productID == uuid.Nil {
		return nil, fmt.Errorf("productID is empty")
	}

	ratings, err := store.ReadAll[domain.Rating](ctx, r.s, ratingsTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(ratings, func(rt domain.Rating, _ int) bool {
		return rt.ProductID == productID
	}), nil
}

func (r *ratingRepository) ListRatingsBySeller(ctx context.Context, sellerID string) ([]domain.Rating, error) {
	if sellerID == "" {
		return nil, fmt.Errorf("sellerID is empty")
	}

	ratings, err := store.ReadAll[domain.Rating](ctx, r.s, ratingsTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(ratings, func(rt domain.Rating, _ int) bool {
		return rt.SellerID == sellerID
	}), nil
}
