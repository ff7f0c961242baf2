package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/service"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
)

func successResponse(data any, message string) gin.H {
	return gin.H{"success": true, "message": message, "data": data}
}

func errorResponse(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

// actorFrom trusts the identity headers set by the upstream auth layer.
// An unknown role degrades to customer, the least privileged scope.
func actorFrom(c *gin.Context) (domain.Actor, bool) {
	userID := c.GetHeader(headerUserID)
	if userID == "" {
		return domain.Actor{}, false
	}

	role, err := domain.ToRole(c.GetHeader(headerUserRole))
	if err != nil {
		role = domain.RoleCustomer
	}

	return domain.Actor{ID: userID, Role: role}, true
}

// writeError maps the error taxonomy onto transport statuses.
func (s *Server) writeError(c *gin.Context, err error) {
	var partial *service.PartialFailureError

	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrInvoiceNotFound),
		errors.Is(err, domain.ErrFavoriteNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))

	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))

	case errors.Is(err, domain.ErrInsufficientStock),
		errors.Is(err, domain.ErrOrderAlreadyPaid),
		errors.Is(err, domain.ErrOrderAlreadyCancelled),
		errors.Is(err, domain.ErrInvoiceAlreadyPaid),
		errors.Is(err, domain.ErrInvoiceExists),
		errors.Is(err, domain.ErrFavoriteExists):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))

	case errors.Is(err, domain.ErrUnsupportedPaymentMethod):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))

	case errors.Is(err, domain.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, errorResponse(err.Error()))

	case errors.As(err, &partial):
		s.logger.Error("partial failure", "order_id", partial.OrderID, "step", partial.FailedStep, "error", partial.Err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success":  false,
			"message":  "operation partially applied, manual reconciliation required",
			"order_id": partial.OrderID,
		})

	case errors.Is(err, store.ErrBusy):
		c.JSON(http.StatusServiceUnavailable, errorResponse("storage is busy, retry"))

	default:
		s.logger.Error("request failed", "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createOrderRequest struct {
	Lines []struct {
		ProductID string `json:"product_id" binding:"required"`
		Quantity  int    `json:"quantity"`
	} `json:"lines" binding:"required"`
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	requests := make([]domain.LineRequest, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid product_id"))
			return
		}

		requests = append(requests, domain.LineRequest{ProductID: productID, Quantity: line.Quantity})
	}

	if err := domain.ValidateLineRequests(requests); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	placed, err := s.orders.CreateOrder(c.Request.Context(), actor.ID, requests)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(placed, "Order and invoice created"))
}

func (s *Server) handleListOrders(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	views, err := s.orders.ListOrders(c.Request.Context(), actor)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(views, "Orders found"))
}

func (s *Server) handleFilterOrders(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	timeRange, err := timeRangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	orders, err := s.orders.FilterOrders(c.Request.Context(), actor, timeRange)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(orders, "Orders found"))
}

func (s *Server) handleSalesHistory(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	orders, err := s.orders.SalesHistory(c.Request.Context(), actor)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(orders, "Sales history"))
}

func (s *Server) handleCancelOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid order id"))
		return
	}

	cancelled, err := s.orders.CancelOrder(c.Request.Context(), orderID, actor)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(cancelled, "Order cancelled"))
}

func (s *Server) handleDeleteOrder(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid order id"))
		return
	}

	if err := s.orders.DeleteOrder(c.Request.Context(), orderID, actor); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(nil, "Order deleted"))
}

type payRequest struct {
	OrderID string                `json:"order_id" binding:"required"`
	Method  string                `json:"method" binding:"required"`
	Payload domain.PaymentPayload `json:"payload"`
}

func (s *Server) handlePay(c *gin.Context) {
	if _, ok := actorFrom(c); !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	var req payRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid order_id"))
		return
	}

	method, err := domain.ToPaymentMethod(req.Method)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	receipt, err := s.payments.Pay(c.Request.Context(), orderID, method, req.Payload)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(receipt, "Payment processed and stock updated"))
}

func (s *Server) handleListInvoices(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	invoices, err := s.invoices.ListInvoices(c.Request.Context(), actor)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(invoices, "Invoices found"))
}

func (s *Server) handleFilterInvoices(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	timeRange, err := timeRangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	invoices, err := s.invoices.FilterInvoices(c.Request.Context(), actor, timeRange)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(invoices, "Invoices found"))
}

type createProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Currency    string `json:"currency" binding:"required"`
	Stock       int    `json:"stock"`
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	if actor.Role != domain.RoleSeller && !actor.IsAdmin() {
		c.JSON(http.StatusForbidden, errorResponse("only sellers can create products"))
		return
	}

	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	amount, err := decimal.NewFromString(req.Price)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid price"))
		return
	}

	unit, err := currency.ParseISO(req.Currency)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid currency"))
		return
	}

	productID, err := s.products.InsertProduct(c.Request.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       domain.NewMoney(amount, unit),
		Stock:       req.Stock,
		SellerID:    actor.ID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(gin.H{"id": productID}, "Product created"))
}

func (s *Server) handleListProducts(c *gin.Context) {
	products, err := s.products.ListProducts(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(products, "Products found"))
}

type addFavoriteRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

func (s *Server) handleAddFavorite(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid product_id"))
		return
	}

	favorite, err := s.favorites.AddFavorite(c.Request.Context(), actor, productID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(favorite, "Product added to favorites"))
}

func (s *Server) handleListFavorites(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	views, err := s.favorites.ListFavorites(c.Request.Context(), actor, nil)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(views, "Favorites found"))
}

func (s *Server) handleFilterFavorites(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	timeRange, err := timeRangeFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	views, err := s.favorites.ListFavorites(c.Request.Context(), actor, &timeRange)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(views, "Favorites found"))
}

func (s *Server) handleRemoveFavorite(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	favoriteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid favorite id"))
		return
	}

	if err := s.favorites.RemoveFavorite(c.Request.Context(), actor, favoriteID); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(nil, "Favorite removed"))
}

type rateProductRequest struct {
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

func (s *Server) handleRateProduct(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid product id"))
		return
	}

	var req rateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := (domain.Rating{UserID: actor.ID, ProductID: productID, Score: req.Score}).Validate(); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	rating, err := s.ratings.RateProduct(c.Request.Context(), actor, productID, req.Score, req.Comment)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(rating, "Rating recorded"))
}

func (s *Server) handleProductRatings(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid product id"))
		return
	}

	ratings, err := s.ratings.ProductRatings(c.Request.Context(), productID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(ratings, "Ratings found"))
}

func (s *Server) handleSellerScore(c *gin.Context) {
	sellerID := c.Param("id")
	if sellerID == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid seller id"))
		return
	}

	score, err := s.ratings.SellerScore(c.Request.Context(), sellerID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(score, "Seller score"))
}

func (s *Server) handleListNotifications(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("missing identity"))
		return
	}

	notifications, err := s.notifications.ListNotificationsByUser(c.Request.Context(), actor.ID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(notifications, "Notifications found"))
}

// timeRangeFromQuery parses the start/end query parameters shared by the
// filter endpoints.
func timeRangeFromQuery(c *gin.Context) (domain.TimeRange, error) {
	var zero domain.TimeRange

	start, end := c.Query("start"), c.Query("end")
	if start == "" || end == "" {
		return zero, errors.New("start and end query parameters are required")
	}

	after, err := parseDate(start)
	if err != nil {
		return zero, errors.New("invalid start date, use YYYY-MM-DD or RFC3339")
	}

	before, err := parseDate(end)
	if err != nil {
		return zero, errors.New("invalid end date, use YYYY-MM-DD or RFC3339")
	}

	return domain.TimeRange{After: lo.ToPtr(after), Before: lo.ToPtr(before)}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	return time.Parse("2006-01-02", s)
}
