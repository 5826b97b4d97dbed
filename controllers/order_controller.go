package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hassanhashmi16/Clothing-Store/middleware"
	"github.com/hassanhashmi16/Clothing-Store/services"
)

type OrderController struct {
	orderService services.OrderService
}

func NewOrderController(orderService services.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// PlaceOrder converts the caller's cart into an order. A repeated
// request with the same Idempotency-Key returns the original order.
func (oc *OrderController) PlaceOrder(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req services.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	order, svcErr := oc.orderService.PlaceOrder(c.Request.Context(), userID, &req, idempotencyKey)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrders returns the caller's orders, newest first.
func (oc *OrderController) GetOrders(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orders, svcErr := oc.orderService.GetUserOrders(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID returns one of the caller's orders.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, svcErr := oc.orderService.GetOrderByID(c.Request.Context(), userID, c.Param("id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}

// GetAllOrders returns every order plus revenue stats (admin only; the
// role gate lives on the route group).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, stats, svcErr := oc.orderService.GetAllOrdersWithStats(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"stats":  stats,
	})
}

type updateOrderStatusRequest struct {
	OrderID       string `json:"orderId" binding:"required"`
	Status        string `json:"status" binding:"required"`
	PaymentStatus string `json:"paymentStatus"`
}

// UpdateOrderStatus sets an order's status (admin only).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	var req updateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order ID and status required"})
		return
	}

	order, svcErr := oc.orderService.UpdateOrderStatus(c.Request.Context(), req.OrderID, req.Status, req.PaymentStatus)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, order)
}
