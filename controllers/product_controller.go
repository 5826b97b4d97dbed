package controllers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hassanhashmi16/Clothing-Store/repository"
	"github.com/hassanhashmi16/Clothing-Store/services"
)

type ProductController struct {
	productService services.ProductService
	cache          *CacheManager
}

func NewProductController(productService services.ProductService, cache *CacheManager) *ProductController {
	return &ProductController{productService: productService, cache: cache}
}

// GetProducts returns the filtered public catalog. Responses are served
// from Redis when a matching listing is cached.
func (pc *ProductController) GetProducts(c *gin.Context) {
	q := repository.ProductQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.DefaultQuery("sort", "newest"),
	}

	if featured := c.Query("featured"); featured != "" {
		val := featured == "true"
		q.Featured = &val
	}
	if sizes := c.Query("sizes"); sizes != "" {
		q.Sizes = strings.Split(sizes, ",")
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("perPage", "20"))
	if err != nil || perPage <= 0 {
		perPage = 20
	}
	q.Page = page
	q.PerPage = perPage

	ctx := c.Request.Context()
	if cached, ok := pc.cache.GetProductList(ctx, q); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	products, total, svcErr := pc.productService.List(ctx, q)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	response := map[string]interface{}{
		"products": products,
		"meta": gin.H{
			"page":       page,
			"perPage":    perPage,
			"total":      total,
			"totalPages": int(math.Ceil(float64(total) / float64(perPage))),
		},
	}
	pc.cache.SetProductListAsync(q, response)

	c.JSON(http.StatusOK, response)
}

// GetProductByID returns a single catalog entry.
func (pc *ProductController) GetProductByID(c *gin.Context) {
	product, svcErr := pc.productService.GetByID(c.Request.Context(), c.Param("id"))
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GetAllProducts returns the whole catalog for the admin view.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	products, svcErr := pc.productService.ListAll(c.Request.Context())
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, products)
}

// CreateProduct adds a catalog entry (admin only).
func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.Create(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct applies a partial update (admin only).
func (pc *ProductController) UpdateProduct(c *gin.Context) {
	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	product, svcErr := pc.productService.Update(c.Request.Context(), &req)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a catalog entry by the id query parameter
// (admin only).
func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Product ID required"})
		return
	}

	if svcErr := pc.productService.Delete(c.Request.Context(), id); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}

	pc.cache.Invalidate(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
