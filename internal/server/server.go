// Package server is the outer request layer: it maps transport concerns onto
// the order, payment and invoice services and their tagged errors onto HTTP
// statuses. Authentication itself happens upstream; the actor arrives in
// trusted headers.
package server

import (
	"fmt"
	"log/slog"

	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/service"
	"github.com/AndresTafur217/StorePrototypeApi/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type Server struct {
	orders        *service.OrderService
	payments      *service.PaymentService
	invoices      *service.InvoiceService
	favorites     *service.FavoriteService
	ratings       *service.RatingService
	products      port.ProductRepository
	notifications port.NotificationRepository
	logger        *slog.Logger
	router        *gin.Engine
}

func New(
	orders *service.OrderService,
	payments *service.PaymentService,
	invoices *service.InvoiceService,
	favorites *service.FavoriteService,
	ratings *service.RatingService,
	products port.ProductRepository,
	notifications port.NotificationRepository,
	logger *slog.Logger,
) (*Server, error) {
	if orders == nil || payments == nil || invoices == nil || favorites == nil || ratings == nil {
		return nil, fmt.Errorf("service is nil")
	}

	if products == nil {
		return nil, fmt.Errorf("products repository is nil")
	}

	if notifications == nil {
		return nil, fmt.Errorf("notifications repository is nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		orders:        orders,
		payments:      payments,
		invoices:      invoices,
		favorites:     favorites,
		ratings:       ratings,
		products:      products,
		notifications: notifications,
		logger:        logger,
		router:        router,
	}

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	router.POST("/orders", s.handleCreateOrder)
	router.GET("/orders", s.handleListOrders)
	router.GET("/orders/filter", s.handleFilterOrders)
	router.GET("/orders/sales", s.handleSalesHistory)
	router.POST("/orders/:id/cancel", s.handleCancelOrder)
	router.DELETE("/orders/:id", s.handleDeleteOrder)

	router.POST("/payments", s.handlePay)

	router.GET("/invoices", s.handleListInvoices)
	router.GET("/invoices/filter", s.handleFilterInvoices)

	router.POST("/products", s.handleCreateProduct)
	router.GET("/products", s.handleListProducts)
	router.POST("/products/:id/ratings", s.handleRateProduct)
	router.GET("/products/:id/ratings", s.handleProductRatings)
	router.GET("/sellers/:id/score", s.handleSellerScore)

	router.POST("/favorites", s.handleAddFavorite)
	router.GET("/favorites", s.handleListFavorites)
	router.GET("/favorites/filter", s.handleFilterFavorites)
	router.DELETE("/favorites/:id", s.handleRemoveFavorite)

	router.GET("/notifications", s.handleListNotifications)

	return s, nil
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router is exposed for httptest in handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
