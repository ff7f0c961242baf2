package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func ToInvoiceStatus(s string) (InvoiceStatus, error) {
	switch status := InvoiceStatus(s); status {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return status, nil
	}

	return "", errors.New("invalid invoice status")
}

// Invoice is 1:1 with an order and created synchronously with it.
// Amount is copied from the order total at creation and never recomputed.
type Invoice struct {
	ID      uuid.UUID      `json:"id"`
	OrderID uuid.UUID      `json:"order_id"`
	BuyerID string         `json:"buyer_id"`
	Amount  Money          `json:"amount"`
	Method  *PaymentMethod `json:"method,omitempty"`
	Status  InvoiceStatus  `json:"status"`
	PaidAt  *time.Time     `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
