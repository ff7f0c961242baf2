package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/saga"
	"github.com/AndresTafur217/StorePrototypeApi/pkg/metrics"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// OrderService is the order aggregate: creation, role-scoped reads and
// cancellation. Stock is never touched at order creation, pricing is read-only.
type OrderService struct {
	orders   port.OrderRepository
	invoices port.InvoiceRepository
	products port.ProductRepository
	ledger   port.StockLedger
	notifier port.Notifier
	metrics  *metrics.StoreMetrics
	logger   *slog.Logger
}

func NewOrderService(
	orders port.OrderRepository,
	invoices port.InvoiceRepository,
	products port.ProductRepository,
	ledger port.StockLedger,
	notifier port.Notifier,
	m *metrics.StoreMetrics,
	logger *slog.Logger,
) (*OrderService, error) {
	if orders == nil {
		return nil, fmt.Errorf("orders repository is nil")
	}
	if invoices == nil {
		return nil, fmt.Errorf("invoices repository is nil")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository is nil")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &OrderService{
		orders:   orders,
		invoices: invoices,
		products: products,
		ledger:   ledger,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}, nil
}

// CreateOrder places an order: price the lines against the current product
// table, persist order+lines, then create the pending invoice. The order must
// never exist without its invoice, so an invoice failure compensates the
// order away again.
func (s *OrderService) CreateOrder(ctx context.Context, buyerID string, requests []domain.LineRequest) (domain.PlacedOrder, error) {
	var zero domain.PlacedOrder

	if buyerID == "" {
		return zero, fmt.Errorf("buyerID is empty")
	}

	if err := domain.ValidateLineRequests(requests); err != nil {
		return zero, fmt.Errorf("domain.ValidateLineRequests: %w", err)
	}

	total, lines, err := s.ledger.PriceLines(ctx, requests)
	if err != nil {
		return zero, fmt.Errorf("ledger.PriceLines: %w", err)
	}

	sg := saga.New("create_order", s.logger)

	orderID, err := s.orders.InsertOrder(ctx, domain.Order{
		BuyerID: buyerID,
		Total:   total,
		Status:  domain.OrderStatusPending,
	}, lines)
	if err != nil {
		return zero, fmt.Errorf("orders.InsertOrder: %w", err)
	}

	sg.Ran("persist_order", func(ctx context.Context) error {
		return s.orders.DeleteOrder(ctx, orderID)
	})

	invoice, err := s.invoices.CreateInvoice(ctx, domain.Invoice{
		OrderID: orderID,
		BuyerID: buyerID,
		Amount:  total,
	})
	if err != nil {
		if compErr := sg.Compensate(ctx); compErr != nil {
			return zero, fmt.Errorf("invoices.CreateInvoice: %w (compensation failed: %w)", err, compErr)
		}
		return zero, fmt.Errorf("invoices.CreateInvoice: %w", err)
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.GetOrder: %w", err)
	}

	persistedLines, err := s.orders.GetOrderLines(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.GetOrderLines: %w", err)
	}

	s.metrics.OrderCreated()
	s.notify(ctx, buyerID, "Your order has been placed", domain.SeveritySuccess)

	return domain.PlacedOrder{
		Order:   order,
		Lines:   persistedLines,
		Invoice: invoice,
	}, nil
}

// ListOrders returns the orders visible to the actor: admins see all, sellers
// see orders containing at least one of their products, buyers see their own.
func (s *OrderService) ListOrders(ctx context.Context, actor domain.Actor) ([]domain.OrderView, error) {
	orders, lines, products, err := s.readJoinTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.readJoinTables: %w", err)
	}

	visible := scopeOrders(orders, lines, products, actor)

	productByID := lo.KeyBy(products, func(p domain.Product) uuid.UUID { return p.ID })
	linesByOrder := lo.GroupBy(lines, func(l domain.OrderLine) uuid.UUID { return l.OrderID })

	views := make([]domain.OrderView, 0, len(visible))
	for _, order := range visible {
		view := domain.OrderView{Order: order}

		for _, line := range linesByOrder[order.ID] {
			lineView := domain.OrderLineView{Line: line}
			if product, ok := productByID[line.ProductID]; ok {
				lineView.Product = &product
			}
			view.Lines = append(view.Lines, lineView)
		}

		views = append(views, view)
	}

	return views, nil
}

// FilterOrders returns the actor's own orders placed within the time range.
func (s *OrderService) FilterOrders(ctx context.Context, actor domain.Actor, createdAt domain.TimeRange) ([]domain.Order, error) {
	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		BuyerIDs:  []string{actor.ID},
		CreatedAt: &createdAt,
	})
	if err != nil {
		return nil, fmt.Errorf("orders.SearchOrders: %w", err)
	}

	return orders, nil
}

// SalesHistory returns paid orders containing the seller's products.
// Admins see every paid order.
func (s *OrderService) SalesHistory(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if actor.Role != domain.RoleSeller && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	orders, lines, products, err := s.readJoinTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.readJoinTables: %w", err)
	}

	paid := lo.Filter(orders, func(o domain.Order, _ int) bool {
		return o.Status == domain.OrderStatusPaid
	})

	if actor.IsAdmin() {
		return paid, nil
	}

	sellerProductIDs := sellerProducts(products, actor.ID)

	return lo.Filter(paid, func(o domain.Order, _ int) bool {
		return orderContainsAny(lines, o.ID, sellerProductIDs)
	}), nil
}

// CancelOrder is the state-aware reversal: stock is restored only when the
// order had actually reached paid, a still-pending order never touched stock.
// The cancellation is won first, under the orders table lock, and only the
// winner restores stock; concurrent cancellations of the same order cannot
// restore twice.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID, actor domain.Actor) (domain.Order, error) {
	var zero domain.Order

	if orderID == uuid.Nil {
		return zero, fmt.Errorf("orderID is empty")
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.GetOrder: %w", err)
	}

	if !actor.IsAdmin() && order.BuyerID != actor.ID {
		return zero, domain.ErrForbidden
	}

	cancelled, prior, err := s.orders.MarkCancelled(ctx, orderID)
	if err != nil {
		return zero, fmt.Errorf("orders.MarkCancelled: %w", err)
	}

	if prior == domain.OrderStatusPaid {
		lines, err := s.orders.GetOrderLines(ctx, orderID)
		if err != nil {
			return zero, &PartialFailureError{OrderID: orderID, FailedStep: "restore_stock", Err: err}
		}

		if err := s.ledger.ApplyRestorations(ctx, lines); err != nil {
			return zero, &PartialFailureError{OrderID: orderID, FailedStep: "restore_stock", Err: err}
		}
	}

	s.metrics.CancellationObserved(string(prior))
	s.notify(ctx, order.BuyerID, fmt.Sprintf("Your order #%s has been cancelled", orderID), domain.SeverityInfo)

	return cancelled, nil
}

// DeleteOrder removes an order, its lines and its invoice entirely. Admin only.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uuid.UUID, actor domain.Actor) error {
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}

	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return fmt.Errorf("orders.DeleteOrder: %w", err)
	}

	if err := s.invoices.DeleteInvoiceByOrder(ctx, orderID); err != nil {
		return fmt.Errorf("invoices.DeleteInvoiceByOrder: %w", err)
	}

	return nil
}

// readJoinTables loads the three collections a role-scoped listing joins
// across. Reads on disjoint tables run in parallel.
func (s *OrderService) readJoinTables(ctx context.Context) ([]domain.Order, []domain.OrderLine, []domain.Product, error) {
	var (
		orders   []domain.Order
		lines    []domain.OrderLine
		products []domain.Product
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		orders, err = s.orders.ListOrders(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		lines, err = s.orders.ListLines(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		products, err = s.products.ListProducts(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, nil, fmt.Errorf("g.Wait: %w", err)
	}

	return orders, lines, products, nil
}

func (s *OrderService) notify(ctx context.Context, userID, message string, severity domain.Severity) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.Notify(ctx, userID, message, severity); err != nil {
		s.logger.Warn("notification failed", "user_id", userID, "error", err)
	}
}

func scopeOrders(orders []domain.Order, lines []domain.OrderLine, products []domain.Product, actor domain.Actor) []domain.Order {
	switch actor.Role {
	case domain.RoleAdmin:
		return orders
	case domain.RoleSeller:
		sellerProductIDs := sellerProducts(products, actor.ID)
		return lo.Filter(orders, func(o domain.Order, _ int) bool {
			return orderContainsAny(lines, o.ID, sellerProductIDs)
		})
	default:
		return lo.Filter(orders, func(o domain.Order, _ int) bool {
			return o.BuyerID == actor.ID
		})
	}
}

func sellerProducts(products []domain.Product, sellerID string) map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{})
	for _, p := range products {
		if p.SellerID == sellerID {
			ids[p.ID] = struct{}{}
		}
	}
	return ids
}

func orderContainsAny(lines []domain.OrderLine, orderID uuid.UUID, productIDs map[uuid.UUID]struct{}) bool {
	for _, line := range lines {
		if line.OrderID != orderID {
			continue
		}
		if _, ok := productIDs[line.ProductID]; ok {
			return true
		}
	}
	return false
}
