package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hassanhashmi16/Clothing-Store/controllers"
	"github.com/hassanhashmi16/Clothing-Store/middleware"
)

// SetupRoutes registers all application routes. Public catalog reads
// need no identity; cart and order routes need an authenticated user;
// everything under /admin additionally needs the admin role.
func SetupRoutes(
	r *gin.Engine,
	jwtSecret string,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// Public catalog
	products := r.Group("/products")
	{
		products.GET("", productController.GetProducts)
		products.GET("/:id", productController.GetProductByID)
	}

	auth := middleware.AuthMiddleware(jwtSecret)

	// Cart
	cart := r.Group("/cart", auth)
	{
		cart.GET("", cartController.GetCart)
		cart.POST("", cartController.AddItem)
		cart.PATCH("", cartController.UpdateItem)
		cart.DELETE("", cartController.RemoveItem)
		cart.DELETE("/all", cartController.ClearCart)
	}

	// Orders
	orders := r.Group("/orders", auth)
	{
		orders.POST("", orderController.PlaceOrder)
		orders.GET("", orderController.GetOrders)
		orders.GET("/:id", orderController.GetOrderByID)
	}

	// Admin back-office
	admin := r.Group("/admin", auth, middleware.RequireRole(middleware.RoleAdmin))
	{
		admin.GET("/orders", orderController.GetAllOrders)
		admin.PATCH("/orders", orderController.UpdateOrderStatus)

		admin.GET("/products", productController.GetAllProducts)
		admin.POST("/products", productController.CreateProduct)
		admin.PATCH("/products", productController.UpdateProduct)
		admin.DELETE("/products", productController.DeleteProduct)
	}
}
