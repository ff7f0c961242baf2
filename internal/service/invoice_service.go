package service

import (
	"context"
	"fmt"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// InvoiceService covers the read side of the invoice lifecycle. Invoice
// creation and payment transitions are owned by the order aggregate and the
// payment orchestrator respectively.
type InvoiceService struct {
	invoices port.InvoiceRepository
	orders   port.OrderRepository
	products port.ProductRepository
}

func NewInvoiceService(invoices port.InvoiceRepository, orders port.OrderRepository, products port.ProductRepository) (*InvoiceService, error) {
	if invoices == nil {
		return nil, fmt.Errorf("invoices repository is nil")
	}
	if orders == nil {
		return nil, fmt.Errorf("orders repository is nil")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is nil")
	}

	return &InvoiceService{invoices: invoices, orders: orders, products: products}, nil
}

// ListInvoices scopes like order listing: admins all, sellers invoices of
// orders containing their products, buyers their own.
func (s *InvoiceService) ListInvoices(ctx context.Context, actor domain.Actor) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoices.ListInvoices: %w", err)
	}

	switch actor.Role {
	case domain.RoleAdmin:
		return invoices, nil

	case domain.RoleSeller:
		lines, err := s.orders.ListLines(ctx)
		if err != nil {
			return nil, fmt.Errorf("orders.ListLines: %w", err)
		}

		products, err := s.products.ListProducts(ctx)
		if err != nil {
			return nil, fmt.Errorf("products.ListProducts: %w", err)
		}

		sellerProductIDs := sellerProducts(products, actor.ID)

		sellerOrderIDs := make(map[uuid.UUID]struct{})
		for _, line := range lines {
			if _, ok := sellerProductIDs[line.ProductID]; ok {
				sellerOrderIDs[line.OrderID] = struct{}{}
			}
		}

		return lo.Filter(invoices, func(inv domain.Invoice, _ int) bool {
			_, ok := sellerOrderIDs[inv.OrderID]
			return ok
		}), nil

	default:
		return lo.Filter(invoices, func(inv domain.Invoice, _ int) bool {
			return inv.BuyerID == actor.ID
		}), nil
	}
}

// FilterInvoices returns the actor's own invoices created within the range.
func (s *InvoiceService) FilterInvoices(ctx context.Context, actor domain.Actor, createdAt domain.TimeRange) ([]domain.Invoice, error) {
	if err := createdAt.Validate(); err != nil {
		return nil, fmt.Errorf("createdAt.Validate: %w", err)
	}

	invoices, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("invoices.ListInvoices: %w", err)
	}

	return lo.Filter(invoices, func(inv domain.Invoice, _ int) bool {
		return inv.BuyerID == actor.ID && createdAt.Contains(inv.CreatedAt)
	}), nil
}
