package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/google/uuid"
)

type InvoiceRepository interface {
	// CreateInvoice persists a new pending invoice. A second invoice for the
	// same order is rejected, there is exactly one invoice per order.
	CreateInvoice(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error)

	GetInvoice(ctx context.Context, invoiceID uuid.UUID) (domain.Invoice, error)
	GetInvoiceByOrder(ctx context.Context, orderID uuid.UUID) (domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)

	// MarkPaid transitions pending->paid under the invoice table lock,
	// rejecting an already paid invoice.
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, method domain.PaymentMethod) (domain.Invoice, error)

	// DeleteInvoiceByOrder removes the invoice belonging to a deleted order.
	// Removing a missing invoice is not an error.
	DeleteInvoiceByOrder(ctx context.Context, orderID uuid.UUID) error
}
