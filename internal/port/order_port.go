package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/google/uuid"
)

type OrderRepository interface {
	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]domain.OrderLine, error)

	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListLines(ctx context.Context) ([]domain.OrderLine, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// InsertOrder persists the order and then its lines, each under its own
	// table lock. If line persistence fails the order row is compensated away.
	InsertOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (uuid.UUID, error)

	// UpdateOrderStatus is a compare-and-set: the transition is applied only
	// when the stored status still equals from, otherwise it is rejected with
	// a conflict derived from the actual stored status.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (domain.Order, error)

	// MarkCancelled transitions any non-cancelled order to cancelled and
	// reports its prior status. The whole decision happens under the orders
	// table lock, so of N concurrent cancellations exactly one observes a
	// non-cancelled prior status; the rest get ErrOrderAlreadyCancelled.
	MarkCancelled(ctx context.Context, orderID uuid.UUID) (domain.Order, domain.OrderStatus, error)

	DeleteOrder(ctx context.Context, orderID uuid.UUID) error
}
