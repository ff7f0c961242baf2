package server_test

import (
	"testing"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/repository"
	"github.com/AndresTafur217/StorePrototypeApi/internal/server"
	"github.com/AndresTafur217/StorePrototypeApi/internal/service"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestNewServerRequiresDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)

	s, err := store.New(t.TempDir(), store.DefaultLockTimeout)
	require.NoError(t, err)

	orders, err := repository.NewOrder(s)
	require.NoError(t, err)

	invoices, err := repository.NewInvoice(s)
	require.NoError(t, err)

	products, err := repository.NewProduct(s, domain.DefaultLowStockThreshold)
	require.NoError(t, err)

	notifications, err := repository.NewNotification(s)
	require.NoError(t, err)

	ledger, err := repository.NewStockLedger(s, domain.DefaultLowStockThreshold)
	require.NoError(t, err)

	favorites, err := repository.NewFavorite(s)
	require.NoError(t, err)

	ratings, err := repository.NewRating(s)
	require.NoError(t, err)

	orderService, err := service.NewOrderService(orders, invoices, products, ledger, nil, nil, nil)
	require.NoError(t, err)

	paymentService, err := service.NewPaymentService(
		orders, invoices, ledger,
		map[domain.PaymentMethod]port.Gateway{domain.PaymentMethodStripe: &approvingGateway{}},
		nil, nil, nil, nil)
	require.NoError(t, err)

	invoiceService, err := service.NewInvoiceService(invoices, orders, products)
	require.NoError(t, err)

	favoriteService, err := service.NewFavoriteService(favorites, products)
	require.NoError(t, err)

	ratingService, err := service.NewRatingService(ratings, products, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name string
		run  func() (*server.Server, error)
	}{
		{
			name: "nil order service",
			run: func() (*server.Server, error) {
				return server.New(nil, paymentService, invoiceService, favoriteService, ratingService, products, notifications, nil)
			},
		},
		{
			name: "nil favorite service",
			run: func() (*server.Server, error) {
				return server.New(orderService, paymentService, invoiceService, nil, ratingService, products, notifications, nil)
			},
		},
		{
			name: "nil products repository",
			run: func() (*server.Server, error) {
				return server.New(orderService, paymentService, invoiceService, favoriteService, ratingService, nil, notifications, nil)
			},
		},
		{
			name: "nil notifications repository",
			run: func() (*server.Server, error) {
				return server.New(orderService, paymentService, invoiceService, favoriteService, ratingService, products, nil, nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, err := tt.run()
			require.Error(t, err)
			require.Nil(t, srv)
		})
	}

	// the full set constructs
	srv, err := server.New(orderService, paymentService, invoiceService, favoriteService, ratingService, products, notifications, nil)
	require.NoError(t, err)
	require.NotNil(t, srv)
}
