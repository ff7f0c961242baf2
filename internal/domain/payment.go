package domain

import (
	"errors"
	"time"
)

type PaymentMethod string

// remember to add new methods to the validPaymentMethods map
const (
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodPSE    PaymentMethod = "pse"
)

var validPaymentMethods = map[PaymentMethod]struct{}{
	PaymentMethodStripe: {},
	PaymentMethodPayPal: {},
	PaymentMethodPSE:    {},
}

func ToPaymentMethod(s string) (PaymentMethod, error) {
	method := PaymentMethod(s)
	if _, ok := validPaymentMethods[method]; ok {
		return method, nil
	}

	return "", errors.New("invalid payment method")
}

func PaymentMethods() []PaymentMethod {
	result := make([]PaymentMethod, 0, len(validPaymentMethods))
	for method := range validPaymentMethods {
		result = append(result, method)
	}
	return result
}

// PaymentPayload carries the gateway-specific fields of a payment request.
// Only the fields for the selected method are consulted.
type PaymentPayload struct {
	// Stripe
	PaymentMethodID string `json:"payment_method_id,omitempty"`

	// PayPal: id of the approved PayPal order to capture.
	PayPalOrderID string `json:"paypal_order_id,omitempty"`

	// PSE
	BankCode string `json:"bank_code,omitempty"`
	Name     string `json:"name,omitempty"`
	LastName string `json:"last_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PaymentReceipt is the result of a successful payment.
type PaymentReceipt struct {
	Order   Order   `json:"order"`
	Invoice Invoice `json:"invoice"`
}

// OrderPaidEvent is emitted after a successful payment for the notification
// collaborators, delivery is best-effort.
type OrderPaidEvent struct {
	OrderID   string    `json:"order_id"`
	InvoiceID string    `json:"invoice_id"`
	BuyerID   string    `json:"buyer_id"`
	Amount    Money     `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}
