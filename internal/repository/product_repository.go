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

const productsTable = "products"

type productRepository struct {
	s            *store.Store
	lowThreshold int
}

func NewProduct(s *store.Store, lowThreshold int) (port.ProductRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	if lowThreshold <= 0 {
		lowThreshold = domain.DefaultLowStockThreshold
	}

	return &productRepository{s: s, lowThreshold: lowThreshold}, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	var p domain.Product

	if productID == uuid.Nil {
		return p, fmt.Errorf("productID is empty")
	}

	products, err := store.ReadAll[domain.Product](ctx, r.s, productsTable)
	if err != nil {
		return p, fmt.Errorf("store.ReadAll: %w", err)
	}

	product, found := lo.Find(products, func(p domain.Product) bool {
		return p.ID == productID
	})
	if !found {
		return p, domain.ErrProductNotFound
	}

	return product, nil
}

func (r *productRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := store.ReadAll[domain.Product](ctx, r.s, productsTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return products, nil
}

func (r *productRepository) InsertProduct(ctx context.Context, product domain.Product) (uuid.UUID, error) {
	if err := product.Validate(); err != nil {
		return uuid.Nil, fmt.Errorf("product.Validate: %w", err)
	}

	now := time.Now().UTC()

	product.ID = uuid.New()
	product.Status = domain.StatusForStock(product.Stock, r.lowThreshold)
	product.CreatedAt = now
	product.UpdatedAt = now

	_, err := store.WithLock(ctx, r.s, productsTable, func(products []domain.Product) ([]domain.Product, struct{}, error) {
		return append(products, product), struct{}{}, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store.WithLock: %w", err)
	}

	return product.ID, nil
}

func (r *productRepository) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return fmt.Errorf("productID is empty")
	}

	_, err := store.WithLock(ctx, r.s, productsTable, func(products []domain.Product) ([]domain.Product, struct{}, error) {
		remaining := lo.Reject(products, func(p domain.Product, _ int) bool {
			return p.ID == productID
		})

		if len(remaining) == len(products) {
			return nil, struct{}{}, domain.ErrProductNotFound
		}

		return remaining, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock: %w", err)
	}

	return nil
}
