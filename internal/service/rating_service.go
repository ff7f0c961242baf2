package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/google/uuid"
)

// RatingService records product ratings and derives seller scores from them.
type RatingService struct {
	ratings  port.RatingRepository
	products port.ProductRepository
	notifier port.Notifier
	logger   *slog.Logger
}

func NewRatingService(
	ratings port.RatingRepository,
	products port.ProductRepository,
	notifier port.Notifier,
	logger *slog.Logger,
) (*RatingService, error) {
	if ratings == nil {
		return nil, fmt.Errorf("ratings repository is nil")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &RatingService{
		ratings:  ratings,
		products: products,
		notifier: notifier,
		logger:   logger,
	}, nil
}

// RateProduct scores an existing product on behalf of the actor. The seller is
// pinned into the rating so seller scores outlive the product, and gets
// notified of the new rating.
func (s *RatingService) RateProduct(ctx context.Context, actor domain.Actor, productID uuid.UUID, score int, comment string) (domain.Rating, error) {
	var zero domain.Rating

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return zero, fmt.Errorf("products.GetProduct: %w", err)
	}

	rating, err := s.ratings.InsertRating(ctx, domain.Rating{
		UserID:    actor.ID,
		ProductID: productID,
		SellerID:  product.SellerID,
		Score:     score,
		Comment:   comment,
	})
	if err != nil {
		return zero, fmt.Errorf("ratings.InsertRating: %w", err)
	}

	s.notify(ctx, product.SellerID,
		fmt.Sprintf("Product %q received a new rating (%d/5)", product.Name, score),
		domain.SeverityInfo)

	return rating, nil
}

// ProductRatings returns every rating of one product.
func (s *RatingService) ProductRatings(ctx context.Context, productID uuid.UUID) ([]domain.Rating, error) {
	ratings, err := s.ratings.ListRatingsByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("ratings.ListRatingsByProduct: %w", err)
	}

	return ratings, nil
}

// SellerScore aggregates a seller's ratings into count and average.
func (s *RatingService) SellerScore(ctx context.Context, sellerID string) (domain.SellerScore, error) {
	var zero domain.SellerScore

	ratings, err := s.ratings.ListRatingsBySeller(ctx, sellerID)
	if err != nil {
		return zero, fmt.Errorf("ratings.ListRatingsBySeller: %w", err)
	}

	score := domain.SellerScore{
		SellerID: sellerID,
		Count:    len(ratings),
		Ratings:  ratings,
	}

	if len(ratings) > 0 {
		var sum int
		for _, r := range ratings {
			sum += r.Score
		}
		score.Average = float64(sum) / float64(len(ratings))
	}

	return score, nil
}

func (s *RatingService) notify(ctx context.Context, userID, message string, severity domain.Severity) {
	if s.notifier == nil || userID == "" {
		return
	}

	if err := s.notifier.Notify(ctx, userID, message, severity); err != nil {
		s.logger.Warn("notification failed", "user_id", userID, "error", err)
	}
}
