package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/google/uuid"
)

// stockLedger is the only writer of product stock and status. Each batch runs
// under one acquisition of the products table lock, so concurrent payments
// touching the same product serialize instead of losing updates.
type stockLedger struct {
	s            *store.Store
	lowThreshold int
}

func NewStockLedger(s *store.Store, lowThreshold int) (port.StockLedger, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	if lowThreshold <= 0 {
		lowThreshold = domain.DefaultLowStockThreshold
	}

	return &stockLedger{s: s, lowThreshold: lowThreshold}, nil
}

func (l *stockLedger) PriceLines(ctx context.Context, requests []domain.LineRequest) (domain.Money, []domain.OrderLine, error) {
	var zero domain.Money

	if err := domain.ValidateLineRequests(requests); err != nil {
		return zero, nil, fmt.Errorf("domain.ValidateLineRequests: %w", err)
	}

	type priced struct {
		total domain.Money
		lines []domain.OrderLine
	}

	// Read-only, but under the lock so every line is priced against the same
	// snapshot of the table.
	result, err := store.WithLock(ctx, l.s, productsTable, func(products []domain.Product) ([]domain.Product, priced, error) {
		byID := make(map[uuid.UUID]domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}

		var (
			total domain.Money
			lines []domain.OrderLine
		)

		for i, req := range requests {
			product, ok := byID[req.ProductID]
			if !ok {
				return nil, priced{}, fmt.Errorf("product[%s]: %w", req.ProductID, domain.ErrProductNotFound)
			}

			extended := product.Price.MulInt(int64(req.Quantity))

			if i == 0 {
				total = extended
			} else {
				summed, err := total.Add(extended)
				if err != nil {
					return nil, priced{}, fmt.Errorf("total.Add: %w", err)
				}
				total = summed
			}

			lines = append(lines, domain.OrderLine{
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
			})
		}

		return products, priced{total: total, lines: lines}, nil
	})
	if err != nil {
		return zero, nil, fmt.Errorf("store.WithLock: %w", err)
	}

	return result.total, result.lines, nil
}

func (l *stockLedger) ApplyDecrements(ctx context.Context, lines []domain.OrderLine) ([]domain.Product, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("no lines to apply")
	}

	updated, err := store.WithLock(ctx, l.s, productsTable, func(products []domain.Product) ([]domain.Product, []domain.Product, error) {
		index := make(map[uuid.UUID]int, len(products))
		for i, p := range products {
			index[p.ID] = i
		}

		now := time.Now().UTC()
		var touched []domain.Product

		for _, line := range lines {
			i, ok := index[line.ProductID]
			if !ok {
				return nil, nil, fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrProductNotFound)
			}

			if products[i].Stock < line.Quantity {
				return nil, nil, fmt.Errorf("product[%s]: stock %d < quantity %d: %w",
					line.ProductID, products[i].Stock, line.Quantity, domain.ErrInsufficientStock)
			}

			products[i].Stock -= line.Quantity
			products[i].Status = domain.StatusForStock(products[i].Stock, l.lowThreshold)
			products[i].UpdatedAt = now
		}

		for _, line := range lines {
			touched = append(touched, products[index[line.ProductID]])
		}

		return products, touched, nil
	})
	if err != nil {
		return nil, fmt.Errorf("store.WithLock: %w", err)
	}

	return updated, nil
}

func (l *stockLedger) ApplyRestorations(ctx context.Context, lines []domain.OrderLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("no lines to restore")
	}

	_, err := store.WithLock(ctx, l.s, productsTable, func(products []domain.Product) ([]domain.Product, struct{}, error) {
		index := make(map[uuid.UUID]int, len(products))
		for i, p := range products {
			index[p.ID] = i
		}

		now := time.Now().UTC()

		for _, line := range lines {
			i, ok := index[line.ProductID]
			if !ok {
				// product deleted since the order was placed
				continue
			}

			products[i].Stock += line.Quantity
			products[i].Status = domain.StatusForStock(products[i].Stock, l.lowThreshold)
			products[i].UpdatedAt = now
		}

		return products, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock: %w", err)
	}

	return nil
}
