package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/pkg/metrics"
	"github.com/google/uuid"
)

// PartialFailureError marks an operation that changed part of the order's
// records but could not finish the remaining steps. No safe automatic
// compensation exists at that point; the record must be reconciled manually.
type PartialFailureError struct {
	OrderID    uuid.UUID
	FailedStep string
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("order %s partially updated, %s failed: %v (manual reconciliation required)",
		e.OrderID, e.FailedStep, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// PaymentService orchestrates gateway execution and applies the result to
// order, invoice and stock as one logical unit.
type PaymentService struct {
	orders   port.OrderRepository
	invoices port.InvoiceRepository
	ledger   port.StockLedger
	gateways map[domain.PaymentMethod]port.Gateway
	notifier port.Notifier
	events   port.EventPublisher
	metrics  *metrics.StoreMetrics
	logger   *slog.Logger
}

func NewPaymentService(
	orders port.OrderRepository,
	invoices port.InvoiceRepository,
	ledger port.StockLedger,
	gateways map[domain.PaymentMethod]port.Gateway,
	notifier port.Notifier,
	events port.EventPublisher,
	m *metrics.StoreMetrics,
	logger *slog.Logger,
) (*PaymentService, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders repository is nil")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoices repository is nil")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger is nil")
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("no gateways configured")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PaymentService{
		orders:   orders,
		invoices: invoices,
		ledger:   ledger,
		gateways: gateways,
		notifier: notifier,
		events:   events,
		metrics:  m,
		logger:   logger,
	}, nil
}

// Pay charges the selected gateway and, on success, applies the
// decrement -> invoice -> order saga. Stock decrement happens here and only
// here: a failed decrement aborts the payment with no other mutation, while a
// failure after the decrement surfaces as a PartialFailureError. Retrying such
// an order resumes at the first unfinished step instead of charging and
// decrementing again.
func (s *PaymentService) Pay(ctx context.Context, orderID uuid.UUID, method domain.PaymentMethod, payload domain.PaymentPayload) (domain.PaymentReceipt, error) {
	var zero domain.PaymentReceipt

	if orderID == uuid.Nil {
		return zero, fmt.Errorf("orderID is empty")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.GetOrder: %w", err)
	}

	switch order.Status {
	case domain.OrderStatusPaid:
		s.metrics.PaymentObserved(string(method), "already_paid")
		return zero, domain.ErrOrderAlreadyPaid
	case domain.OrderStatusCancelled:
		return zero, domain.ErrOrderAlreadyCancelled
	}

	invoice, err := s.invoices.GetInvoiceByOrder(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("invoices.GetInvoiceByOrder: %w", err)
	}

	if invoice.Status == domain.InvoiceStatusPaid {
		// a previous attempt already charged and decremented but died before
		// the order transition; only that step remains
		return s.resumePayment(ctx, orderID, invoice, method)
	}

	gateway, ok := s.gateways[method]
	if !ok {
		return zero, fmt.Errorf("method %q: %w", method, domain.ErrUnsupportedPaymentMethod)
	}

	confirmed, err := gateway.Charge(ctx, order, payload)
	if err != nil {
		// fail closed: a gateway error or timeout is a decline
		s.metrics.PaymentObserved(string(method), "declined")
		return zero, fmt.Errorf("gateway.Charge: %w: %w", domain.ErrPaymentDeclined, err)
	}
	if !confirmed {
		s.metrics.PaymentObserved(string(method), "declined")
		return zero, fmt.Errorf("gateway.Charge: %w", domain.ErrPaymentDeclined)
	}

	lines, err := s.orders.GetOrderLines(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.GetOrderLines: %w", err)
	}

	touched, err := s.ledger.ApplyDecrements(ctx, lines)
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			s.metrics.StockConflictObserved()
			s.metrics.PaymentObserved(string(method), "insufficient_stock")
		}
		return zero, fmt.Errorf("ledger.ApplyDecrements: %w", err)
	}

	// Past this point stock is decremented; failures can no longer abort
	// cleanly and must surface for reconciliation.

	paidInvoice, err := s.invoices.MarkPaid(ctx, invoice.ID, method)
	switch {
	case err == nil:
		invoice = paidInvoice
	case errors.Is(err, domain.ErrInvoiceAlreadyPaid):
		// a concurrent attempt settled the invoice between our read and this
		// write; undo our decrement and report the conflict
		if restErr := s.ledger.ApplyRestorations(ctx, lines); restErr != nil {
			return zero, &PartialFailureError{OrderID: orderID, FailedStep: "undo_decrement", Err: restErr}
		}
		s.metrics.PaymentObserved(string(method), "already_paid")
		return zero, domain.ErrOrderAlreadyPaid
	default:
		return zero, &PartialFailureError{OrderID: orderID, FailedStep: "mark_invoice_paid", Err: err}
	}

	paidOrder, err := s.orders.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusPaid)
	if err != nil {
		return zero, &PartialFailureError{OrderID: orderID, FailedStep: "mark_order_paid", Err: err}
	}

	s.metrics.PaymentObserved(string(method), "success")
	s.afterPayment(ctx, paidOrder, invoice, method, touched)

	return domain.PaymentReceipt{Order: paidOrder, Invoice: invoice}, nil
}

// resumePayment finishes a payment whose invoice is already settled while the
// order is still pending. The gateway is not charged and stock is not
// decremented again, those steps completed in the earlier attempt.
func (s *PaymentService) resumePayment(ctx context.Context, orderID uuid.UUID, invoice domain.Invoice, method domain.PaymentMethod) (domain.PaymentReceipt, error) {
	var zero domain.PaymentReceipt

	s.logger.Info("resuming partially applied payment", "order_id", orderID, "invoice_id", invoice.ID)

	// the earlier attempt fixed the settlement method
	if invoice.Method != nil {
		method = *invoice.Method
	}

	paidOrder, err := s.orders.UpdateOrderStatus(ctx, orderID, domain.OrderStatusPending, domain.OrderStatusPaid)
	if err != nil {
		return zero, &PartialFailureError{OrderID: orderID, FailedStep: "mark_order_paid", Err: err}
	}

	s.metrics.PaymentObserved(string(method), "success")
	s.afterPayment(ctx, paidOrder, invoice, method, nil)

	return domain.PaymentReceipt{Order: paidOrder, Invoice: invoice}, nil
}

// afterPayment runs the best-effort side effects: buyer and seller
// notifications plus the order-paid event. None of them can fail the payment.
func (s *PaymentService) afterPayment(ctx context.Context, order domain.Order, invoice domain.Invoice, method domain.PaymentMethod, touched []domain.Product) {
	s.notify(ctx, order.BuyerID,
		fmt.Sprintf("Your payment for order #%s has been processed", order.ID),
		domain.SeveritySuccess)

	for _, product := range touched {
		switch product.Status {
		case domain.ProductStatusOut:
			s.notify(ctx, product.SellerID,
				fmt.Sprintf("Product %q is sold out", product.Name),
				domain.SeverityError)
		case domain.ProductStatusLow:
			s.notify(ctx, product.SellerID,
				fmt.Sprintf("Product %q is running low (stock: %d)", product.Name, product.Stock),
				domain.SeverityWarning)
		}
	}

	if s.events == nil {
		return
	}

	event := domain.OrderPaidEvent{
		OrderID:   order.ID.String(),
		InvoiceID: invoice.ID.String(),
		BuyerID:   order.BuyerID,
		Amount:    invoice.Amount,
		Method:    string(method),
		PaidAt:    time.Now().UTC(),
	}
	if err := s.events.PublishOrderPaid(ctx, event); err != nil {
		s.logger.Warn("order paid event not published", "order_id", order.ID, "error", err)
	}
}

func (s *PaymentService) notify(ctx context.Context, userID, message string, severity domain.Severity) {
	if s.notifier == nil || userID == "" {
		return
	}

	if err := s.notifier.Notify(ctx, userID, message, severity); err != nil {
		s.logger.Warn("notification failed", "user_id", userID, "error", err)
	}
}
