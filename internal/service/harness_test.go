package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/repository"
	"github.com/AndresTafur217/StorePrototypeApi/internal/service"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

// harness wires the services over a real record store in a temp directory,
// with a stub gateway instead of the real providers.
type harness struct {
	store     *store.Store
	orders    port.OrderRepository
	invoices  port.InvoiceRepository
	products  port.ProductRepository
	ledger    port.StockLedger
	favorites port.FavoriteRepository
	ratings   port.RatingRepository

	gateway  *stubGateway
	notifier *recordingNotifier

	orderService    *service.OrderService
	paymentService  *service.PaymentService
	invoiceService  *service.InvoiceService
	favoriteService *service.FavoriteService
	ratingService   *service.RatingService
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	s, err := store.New(t.TempDir(), store.DefaultLockTimeout)
	require.NoError(t, err)

	h := &harness{
		store:    s,
		gateway:  &stubGateway{confirm: true},
		notifier: &recordingNotifier{},
	}

	h.orders, err = repository.NewOrder(s)
	require.NoError(t, err)

	h.invoices, err = repository.NewInvoice(s)
	require.NoError(t, err)

	h.products, err = repository.NewProduct(s, domain.DefaultLowStockThreshold)
	require.NoError(t, err)

	h.ledger, err = repository.NewStockLedger(s, domain.DefaultLowStockThreshold)
	require.NoError(t, err)

	h.orderService, err = service.NewOrderService(
		h.orders, h.invoices, h.products, h.ledger, h.notifier, nil, nil)
	require.NoError(t, err)

	h.paymentService, err = service.NewPaymentService(
		h.orders, h.invoices, h.ledger,
		map[domain.PaymentMethod]port.Gateway{domain.PaymentMethodStripe: h.gateway},
		h.notifier, nil, nil, nil)
	require.NoError(t, err)

	h.invoiceService, err = service.NewInvoiceService(h.invoices, h.orders, h.products)
	require.NoError(t, err)

	h.favorites, err = repository.NewFavorite(s)
	require.NoError(t, err)

	h.ratings, err = repository.NewRating(s)
	require.NoError(t, err)

	h.favoriteService, err = service.NewFavoriteService(h.favorites, h.products)
	require.NoError(t, err)

	h.ratingService, err = service.NewRatingService(h.ratings, h.products, h.notifier, nil)
	require.NoError(t, err)

	return h
}

// seedProduct inserts a product and returns it as stored.
func (h *harness) seedProduct(t *testing.T, price string, stock int, sellerID string) domain.Product {
	t.Helper()
	ctx := t.Context()

	productID, err := h.products.InsertProduct(ctx, domain.Product{
		Name:        gofakeit.ProductName(),
		Description: gofakeit.ProductDescription(),
		Price: domain.Money{
			Amount:   decimal.RequireFromString(price),
			Currency: currency.MustParseISO("USD"),
		},
		Stock:    stock,
		SellerID: sellerID,
	})
	require.NoError(t, err)

	stored, err := h.products.GetProduct(ctx, productID)
	require.NoError(t, err)

	return stored
}

func (h *harness) productStock(t *testing.T, product domain.Product) int {
	t.Helper()

	stored, err := h.products.GetProduct(t.Context(), product.ID)
	require.NoError(t, err)

	return stored.Stock
}

type stubGateway struct {
	mu      sync.Mutex
	confirm bool
	err     error
	calls   int
}

func (g *stubGateway) Charge(_ context.Context, _ domain.Order, _ domain.PaymentPayload) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	return g.confirm, g.err
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.calls
}

type sentNote struct {
	userID   string
	message  string
	severity domain.Severity
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []sentNote
}

func (n *recordingNotifier) Notify(_ context.Context, userID, message string, severity domain.Severity) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.notes = append(n.notes, sentNote{userID: userID, message: message, severity: severity})
	return nil
}

func (n *recordingNotifier) sentTo(userID string) []sentNote {
	n.mu.Lock()
	defer n.mu.Unlock()

	var result []sentNote
	for _, note := range n.notes {
		if note.userID == userID {
			result = append(result, note)
		}
	}
	return result
}

// failingInvoices wraps the real repository and fails selected operations.
type failingInvoices struct {
	port.InvoiceRepository

	createErr   error
	markPaidErr error
}

func (f *failingInvoices) CreateInvoice(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	if f.createErr != nil {
		return domain.Invoice{}, f.createErr
	}
	return f.InvoiceRepository.CreateInvoice(ctx, invoice)
}

func (f *failingInvoices) MarkPaid(ctx context.Context, invoiceID uuid.UUID, method domain.PaymentMethod) (domain.Invoice, error) {
	if f.markPaidErr != nil {
		return domain.Invoice{}, f.markPaidErr
	}
	return f.InvoiceRepository.MarkPaid(ctx, invoiceID, method)
}

// failingOrders wraps the real repository and fails the status transition.
type failingOrders struct {
	port.OrderRepository

	updateStatusErr error
}

func (f *failingOrders) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, from, to domain.OrderStatus) (domain.Order, error) {
	if f.updateStatusErr != nil {
		return domain.Order{}, f.updateStatusErr
	}
	return f.OrderRepository.UpdateOrderStatus(ctx, orderID, from, to)
}
