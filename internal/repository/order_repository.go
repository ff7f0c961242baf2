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

const (
	ordersTable     = "orders"
	orderLinesTable = "order_products"
)

type orderRepository struct {
	s *store.Store
}

func NewOrder(s *store.Store) (port.OrderRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	return &orderRepository{s: s}, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	var o domain.Order

	if orderID == uuid.Nil {
		return o, fmt.Errorf("orderID is empty")
	}

	orders, err := store.ReadAll[domain.Order](ctx, r.s, ordersTable)
	if err != nil {
		return o, fmt.Errorf("store.ReadAll: %w", err)
	}

	order, found := lo.Find(orders, func(o domain.Order) bool {
		return o.ID == orderID
	})
	if !found {
		return o, domain.ErrOrderNotFound
	}

	return order, nil
}

func (r *orderRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error) {
	if orderID == uuid.Nil {
		return nil, fmt.Errorf("orderID is empty")
	}

	lines, err := store.ReadAll[domain.OrderLine](ctx, r.s, orderLinesTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(lines, func(l domain.OrderLine, _ int) bool {
		return l.OrderID == orderID
	}), nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := store.ReadAll[domain.Order](ctx, r.s, ordersTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) ListLines(ctx context.Context) ([]domain.OrderLine, error) {
	lines, err := store.ReadAll[domain.OrderLine](ctx, r.s, orderLinesTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lines, nil
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	orders, err := store.ReadAll[domain.Order](ctx, r.s, ordersTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(orders, func(o domain.Order, _ int) bool {
		return filter.Matches(o)
	}), nil
}

// InsertOrder persists the order and then its lines. There is no lock spanning
// both tables: if line persistence fails, the already written order row is
// removed again as the compensating action.
func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (uuid.UUID, error) {
	if len(lines) == 0 {
		return uuid.Nil, fmt.Errorf("no items in order")
	}

	now := time.Now().UTC()

	order.ID = uuid.New()
	order.CreatedAt = now
	order.UpdatedAt = now

	for i := range lines {
		lines[i].ID = uuid.New()
		lines[i].OrderID = order.ID
		lines[i].CreatedAt = now
	}

	_, err := store.WithLock(ctx, r.s, ordersTable, func(orders []domain.Order) ([]domain.Order, struct{}, error) {
		return append(orders, order), struct{}{}, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("store.WithLock[orders]: %w", err)
	}

	_, err = store.WithLock(ctx, r.s, orderLinesTable, func(existing []domain.OrderLine) ([]domain.OrderLine, struct{}, error) {
		return append(existing, lines...), struct{}{}, nil
	})
	if err != nil {
		if delErr := r.deleteOrderRow(ctx, order.ID); delErr != nil {
			return uuid.Nil, fmt.Errorf("store.WithLock[order_products]: %w (compensation failed: %w)", err, delErr)
		}
		return uuid.Nil, fmt.Errorf("store.WithLock[order_products]: %w", err)
	}

	return order.ID, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (domain.Order, error) {
	var zero domain.Order

	if orderID == uuid.Nil {
		return zero, fmt.Errorf("orderID is empty")
	}

	if to == "" {
		return zero, fmt.Errorf("status is empty")
	}

	updated, err := store.WithLock(ctx, r.s, ordersTable, func(orders []domain.Order) ([]domain.Order, domain.Order, error) {
		current, i, found := lo.FindIndexOf(orders, func(o domain.Order) bool {
			return o.ID == orderID
		})
		if !found {
			return nil, zero, domain.ErrOrderNotFound
		}

		if current.Status != from {
			return nil, zero, statusConflict(current.Status)
		}

		orders[i].Status = to
		orders[i].UpdatedAt = time.Now().UTC()

		return orders, orders[i], nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return updated, nil
}

func (r *orderRepository) MarkCancelled(ctx context.Context, orderID uuid.UUID) (domain.Order, domain.OrderStatus, error) {
	var zero domain.Order

	if orderID == uuid.Nil {
		return zero, "", fmt.Errorf("orderID is empty")
	}

	type cancelled struct {
		order domain.Order
		prior domain.OrderStatus
	}

	result, err := store.WithLock(ctx, r.s, ordersTable, func(orders []domain.Order) ([]domain.Order, cancelled, error) {
		current, i, found := lo.FindIndexOf(orders, func(o domain.Order) bool {
			return o.ID == orderID
		})
		if !found {
			return nil, cancelled{}, domain.ErrOrderNotFound
		}

		if current.Status == domain.OrderStatusCancelled {
			return nil, cancelled{}, domain.ErrOrderAlreadyCancelled
		}

		prior := current.Status
		orders[i].Status = domain.OrderStatusCancelled
		orders[i].UpdatedAt = time.Now().UTC()

		return orders, cancelled{order: orders[i], prior: prior}, nil
	})
	if err != nil {
		return zero, "", fmt.Errorf("store.WithLock: %w", err)
	}

	return result.order, result.prior, nil
}

// statusConflict maps the actual stored status of an order to the rejection
// its unexpected presence implies.
func statusConflict(actual domain.OrderStatus) error {
	switch actual {
	case domain.OrderStatusPaid:
		return domain.ErrOrderAlreadyPaid
	case domain.OrderStatusCancelled:
		return domain.ErrOrderAlreadyCancelled
	default:
		return fmt.Errorf("unexpected order status %q", actual)
	}
}

func (r *orderRepository) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty")
	}

	if err := r.deleteOrderRow(ctx, orderID); err != nil {
		return fmt.Errorf("r.deleteOrderRow: %w", err)
	}

	_, err := store.WithLock(ctx, r.s, orderLinesTable, func(lines []domain.OrderLine) ([]domain.OrderLine, struct{}, error) {
		remaining := lo.Reject(lines, func(l domain.OrderLine, _ int) bool {
			return l.OrderID == orderID
		})
		return remaining, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock[order_products]: %w", err)
	}

	return nil
}

func (r *orderRepository) deleteOrderRow(ctx context.Context, orderID uuid.UUID) error {
	_, err := store.WithLock(ctx, r.s, ordersTable, func(orders []domain.Order) ([]domain.Order, struct{}, error) {
		remaining := lo.Reject(orders, func(o domain.Order, _ int) bool {
			return o.ID == orderID
		})

		if len(remaining) == len(orders) {
			return nil, struct{}{}, domain.ErrOrderNotFound
		}

		return remaining, struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("store.WithLock[orders]: %w", err)
	}

	return nil
}
