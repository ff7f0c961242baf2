package domain

import "errors"

// Sentinel errors shared across components. Repositories and services wrap
// them with call-site context; callers classify with errors.Is.
var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvoiceNotFound  = errors.New("invoice not found")
	ErrFavoriteNotFound = errors.New("favorite not found")

	ErrFavoriteExists = errors.New("product is already a favorite")

	ErrInsufficientStock = errors.New("insufficient stock")

	ErrOrderAlreadyPaid      = errors.New("order is already paid")
	ErrOrderAlreadyCancelled = errors.New("order is already cancelled")
	ErrInvoiceAlreadyPaid    = errors.New("invoice is already paid")
	ErrInvoiceExists         = errors.New("invoice already exists for order")

	ErrUnsupportedPaymentMethod = errors.New("unsupported payment method")
	ErrPaymentDeclined          = errors.New("payment declined")

	ErrForbidden = errors.New("forbidden")
)
