package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/hassanhashmi16/Clothing-Store/kafka"
	"github.com/hassanhashmi16/Clothing-Store/models"
	aws_pkg "github.com/hassanhashmi16/Clothing-Store/pkg/aws"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ShippingDetails comes from the checkout form; every field is required.
type ShippingDetails struct {
	Address string `json:"address" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	ZipCode string `json:"zipCode" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// PlaceOrderRequest is the checkout payload. The caller supplies the
// totals (standard shipping is free, express carries a fixed surcharge
// computed client-side); the service records them as sent.
type PlaceOrderRequest struct {
	ShippingDetails ShippingDetails `json:"shippingDetails" binding:"required"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shippingCost"`
	Total           float64         `json:"total" binding:"min=0"`
	PaymentMethod   string          `json:"paymentMethod" binding:"required"`
}

// AdminOrderStats aggregates lifetime and same-day revenue.
type AdminOrderStats struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalOrders  int     `json:"totalOrders"`
	TodayRevenue float64 `json:"todayRevenue"`
}

// IdempotencyStore is satisfied by database.IdempotencyStore.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, orderID string) error
}

// OrderService defines the interface for checkout and order business logic.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest, idempotencyKey string) (*models.Order, *ServiceError)
	GetUserOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError)
	GetOrderByID(ctx context.Context, userID, orderID string) (*models.Order, *ServiceError)
	GetAllOrdersWithStats(ctx context.Context) ([]models.Order, *AdminOrderStats, *ServiceError)
	UpdateOrderStatus(ctx context.Context, orderID, status, paymentStatus string) (*models.Order, *ServiceError)
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	idemStore   IdempotencyStore
	producer    kafka.ProducerAPI
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. The idempotency store,
// Kafka producer and SNS client may be nil; the related behavior is
// then skipped.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	idemStore IdempotencyStore,
	producer kafka.ProducerAPI,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		idemStore:   idemStore,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// PlaceOrder converts the user's cart into an order: snapshots current
// product data into frozen order lines, persists the order and clears
// the cart in one transaction, then emits order events.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID string, req *PlaceOrderRequest, idempotencyKey string) (*models.Order, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Total < 0 || req.ShippingCost < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Total cannot be negative"}
	}

	// The stored key is scoped to the caller so one user's key can never
	// replay another user's order.
	idemKey := ""
	if idempotencyKey != "" && s.idemStore != nil {
		idemKey = uid.Hex() + ":" + idempotencyKey
		orderID, err := s.idemStore.Get(ctx, idemKey)
		if err != nil {
			s.logger.Warn("Idempotency lookup failed", zap.Error(err))
		} else if orderID != "" {
			replayed, svcErr := s.replayOrder(ctx, orderID, uid)
			if svcErr != nil {
				return nil, svcErr
			}
			if replayed != nil {
				return replayed, nil
			}
		}
	}

	cart, err := s.cartRepo.FindByUser(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to fetch cart for checkout", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve products for checkout", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to place order"}
	}

	// Freeze current product data into the order. Lines whose product
	// has since been removed from the catalog are dropped.
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	var subtotal float64
	for _, item := range cart.Items {
		product, ok := products[item.ProductID]
		if !ok {
			s.logger.Warn("Skipping cart line for removed product",
				zap.String("product_id", item.ProductID.Hex()))
			continue
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Image:     product.PrimaryImage(),
		})
		subtotal += product.Price * float64(item.Quantity)
	}
	if len(orderItems) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Cart is empty"}
	}

	// The caller-supplied total is recorded as-is, but a mismatch against
	// the server-side recomputation is worth surfacing in the logs.
	if math.Abs(subtotal+req.ShippingCost-req.Total) > 0.01 {
		s.logger.Warn("Checkout total differs from recomputed total",
			zap.String("user_id", userID),
			zap.Float64("client_total", req.Total),
			zap.Float64("server_subtotal", subtotal),
			zap.Float64("shipping_cost", req.ShippingCost),
		)
	}

	order := &models.Order{
		ID:          primitive.NewObjectID(),
		UserID:      uid,
		Items:       orderItems,
		TotalAmount: req.Total,
		ShippingAddress: models.ShippingAddress{
			Street:  req.ShippingDetails.Address,
			City:    req.ShippingDetails.City,
			State:   req.ShippingDetails.State,
			ZipCode: req.ShippingDetails.ZipCode,
			Country: req.ShippingDetails.Country,
		},
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		CreatedAt:     time.Now(),
	}

	if err := s.orderRepo.CreateAndClearCart(ctx, order); err != nil {
		s.logger.Error("Failed to place order", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to place order"}
	}

	if idemKey != "" {
		if err := s.idemStore.Set(ctx, idemKey, order.ID.Hex()); err != nil {
			s.logger.Warn("Failed to record idempotency key", zap.Error(err))
		}
	}

	s.publishOrderEvent(ctx, order)

	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", userID),
		zap.Float64("total", order.TotalAmount),
	)
	return order, nil
}

// GetUserOrders returns the caller's orders, most recent first.
func (s *orderServiceImpl) GetUserOrders(ctx context.Context, userID string) ([]models.Order, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	orders, err := s.orderRepo.FindByUser(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// GetOrderByID returns a single order belonging to the caller.
func (s *orderServiceImpl) GetOrderByID(ctx context.Context, userID, orderID string) (*models.Order, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID"}
	}

	order, err := s.orderRepo.FindByIDAndUser(ctx, oid, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch order"}
	}
	return order, nil
}

// GetAllOrdersWithStats returns every order newest-first together with
// revenue aggregates for the admin dashboard.
func (s *orderServiceImpl) GetAllOrdersWithStats(ctx context.Context) ([]models.Order, *AdminOrderStats, *ServiceError) {
	orders, err := s.orderRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to fetch all orders", zap.Error(err))
		return nil, nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch orders"}
	}
	if orders == nil {
		orders = []models.Order{}
	}

	stats := computeOrderStats(orders, time.Now())
	return orders, stats, nil
}

// computeOrderStats sums lifetime revenue and revenue since local
// midnight of the reference day.
func computeOrderStats(orders []models.Order, now time.Time) *AdminOrderStats {
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	stats := &AdminOrderStats{TotalOrders: len(orders)}
	for _, order := range orders {
		stats.TotalRevenue += order.TotalAmount
		if !order.CreatedAt.Before(startOfToday) {
			stats.TodayRevenue += order.TotalAmount
		}
	}
	return stats
}

// UpdateOrderStatus sets the order status (and optionally the payment
// status). Any of the four statuses may be set in any order; the
// progression is not enforced to be forward-only.
func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID, status, paymentStatus string) (*models.Order, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order ID"}
	}

	if !models.ValidOrderStatus(status) {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid order status"}
	}
	if paymentStatus != "" && !models.ValidPaymentStatus(paymentStatus) {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid payment status"}
	}

	order, err := s.orderRepo.UpdateStatus(ctx, oid, status, paymentStatus)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Order not found"}
		}
		s.logger.Error("Failed to update order status", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update order"}
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("status", status),
	)
	return order, nil
}

// replayOrder resolves a stored idempotency entry. The lookup is scoped
// by owner; an entry that does not resolve to one of the caller's own
// orders returns (nil, nil) so checkout proceeds fresh.
func (s *orderServiceImpl) replayOrder(ctx context.Context, orderID string, uid primitive.ObjectID) (*models.Order, *ServiceError) {
	oid, err := primitive.ObjectIDFromHex(orderID)
	if err != nil {
		return nil, nil
	}
	order, err := s.orderRepo.FindByIDAndUser(ctx, oid, uid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		s.logger.Error("Failed to replay idempotent order", zap.String("order_id", orderID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to place order"}
	}
	return order, nil
}

// publishOrderEvent emits the order event to Kafka and SNS. Both are
// best-effort: a broker failure never fails a checkout that already
// committed.
func (s *orderServiceImpl) publishOrderEvent(ctx context.Context, order *models.Order) {
	event := models.OrderEvent{
		Event:       "order.created",
		OrderID:     order.ID.Hex(),
		UserID:      order.UserID.Hex(),
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.Items),
		Timestamp:   time.Now(),
	}

	if s.producer != nil {
		if err := s.producer.SendOrderEvent(ctx, event); err != nil {
			s.logger.Warn("Failed to publish order event to Kafka", zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Warn("Failed to marshal order event", zap.Error(err))
			return
		}
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Warn("Failed to publish order event to SNS", zap.Error(err))
		}
	}
}
