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

const invoicesTable = "invoices"

type invoiceRepository struct {
	s *store.Store
}

func NewInvoice(s *store.Store) (port.InvoiceRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	return &invoiceRepository{s: s}, nil
}

func (r *invoiceRepository) CreateInvoice(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	var zero domain.Invoice

	if invoice.OrderID == uuid.Nil {
		return zero, fmt.Errorf("orderID is empty")
	}

	now := time.Now().UTC()

	invoice.ID = uuid.New()
	invoice.Status = domain.InvoiceStatusPending
	invoice.Method = nil
	invoice.PaidAt = nil
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	created, err := store.WithLock(ctx, r.s, invoicesTable, func(invoices []domain.Invoice) ([]domain.Invoice, domain.Invoice, error) {
		_, exists := lo.Find(invoices, func(inv domain.Invoice) bool {
			return inv.OrderID == invoice.OrderID
		})
		if exists {
			return nil, zero, fmt.Errorf("order[%s]: %w", invoice.OrderID, domain.ErrInvoiceExists)
		}

		return append(invoices, invoice), invoice, nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return created, nil
}

func (r *invoiceRepository) GetInvoice(ctx context.Context, invoiceID uuid.UUID) (domain.Invoice, error) {
	var zero domain.Invoice

	if invoiceID == uuid.Nil {
		return zero, fmt.Errorf("invoiceID is empty")
	}

	invoices, err := store.ReadAll[domain.Invoice](ctx, r.s, invoicesTable)
	if err != nil {
		return zero, fmt.Errorf("store.ReadAll: %w", err)
	}

	invoice, found := lo.Find(invoices, func(inv domain.Invoice) bool {
		return inv.ID == invoiceID
	})
	if !found {
		return zero, domain.ErrInvoiceNotFound
	}

	return invoice, nil
}

func (r *invoiceRepository) GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (domain.Invoice, error) {
	var zero domain.Invoice

	if orderID == uuid.Nil {
		return zero, fmt.Errorf("orderID is empty")
	}

	invoices, err := store.ReadAll[domain.Invoice](ctx, r.s, invoicesTable)
	if err != nil {
		return zero, fmt.Errorf("store.ReadAll: %w", err)
	}

	invoice, found := lo.Find(invoices, func(inv domain.Invoice) bool {
		return inv.OrderID == orderID
	})
	if !found {
		return zero, domain.ErrInvoiceNotFound
	}

	return invoice, nil
}

func (r *invoiceRepository) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	invoices, err := store.ReadAll[domain.Invoice](ctx, r.s, invoicesTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return invoices, nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, invoiceID uuid.UUID, method domain.PaymentMethod) (domain.Invoice, error) {
	var zero domain.Invoice

	if invoiceID == uuid.Nil {
		return zero, fmt.Errorf("invoiceID is empty")
	}

	if method == "" {
		return zero, fmt.Errorf("method is empty")
	}

	paid, err := store.WithLock(ctx, r.s, invoicesTable, func(invoices []domain.Invoice) ([]domain.Invoice, domain.Invoice, error) {
		current, i, found := lo.FindIndexOf(invoices, func(inv domain.Invoice) bool {
			return inv.ID == invoiceID
		})
		if !found {
			return nil, zero, domain.ErrInvoiceNotFound
		}

		if current.Status == domain.InvoiceStatusPaid {
			return nil, zero, domain.ErrInvoiceAlreadyPaid
		}

		now := time.Now().UTC()

		invoices[i].Status = domain.InvoiceStatusPaid
		invoices[i].Method = &method
		invoices[i].PaidAt = &now
		invoices[i].UpdatedAt = now

		return invoices, invoices[i], nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return paid, nil
}

func (r *invoiceRepository) DeleteInvoiceByOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	_, err := store.WithLock(ctx, r.s, invoicesTable, func(invoices []domain.Invoice) ([]domain.Invoice, struct{}, error) {
		remaining := lo.Reject(invoices, func(inv domain.Invoice, _ int) bool {
			return inv.OrderID == orderID
		})
		return remaining, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock: %w", err)
	}

	return nil
}
