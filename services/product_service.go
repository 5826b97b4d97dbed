package services

import (
	"context"
	"errors"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// CreateProductRequest is the admin payload for adding a catalog entry.
type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Price       float64  `json:"price"`
	Category    string   `json:"category" binding:"required"`
	Subcategory string   `json:"subcategory" binding:"required"`
	Sizes       []string `json:"sizes" binding:"required"`
	Colors      []string `json:"colors" binding:"required"`
	Images      []string `json:"images" binding:"required"`
	Stock       *int     `json:"stock" binding:"required"`
	Featured    bool     `json:"featured"`
}

// UpdateProductRequest carries a partial update; nil fields are left
// untouched.
type UpdateProductRequest struct {
	ID          string    `json:"id" binding:"required"`
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Subcategory *string   `json:"subcategory"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Featured    *bool     `json:"featured"`
}

// ProductService defines the interface for catalog business logic.
type ProductService interface {
	List(ctx context.Context, q repository.ProductQuery) ([]models.Product, int64, *ServiceError)
	GetByID(ctx context.Context, id string) (*models.Product, *ServiceError)
	ListAll(ctx context.Context) ([]models.Product, *ServiceError)
	Create(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError)
	Update(ctx context.Context, req *UpdateProductRequest) (*models.Product, *ServiceError)
	Delete(ctx context.Context, id string) *ServiceError
}

type productServiceImpl struct {
	repo   repository.ProductRepository
	logger *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repository.ProductRepository, logger *zap.Logger) ProductService {
	return &productServiceImpl{repo: repo, logger: logger}
}

// List returns the filtered storefront catalog.
func (s *productServiceImpl) List(ctx context.Context, q repository.ProductQuery) ([]models.Product, int64, *ServiceError) {
	if q.Category != "" && !models.ValidCategory(q.Category) {
		return nil, 0, &ServiceError{StatusCode: 400, Message: "Invalid category"}
	}

	products, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, 0, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, total, nil
}

func (s *productServiceImpl) GetByID(ctx context.Context, id string) (*models.Product, *ServiceError) {
	pid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product ID"}
	}

	product, err := s.repo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("id", id), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch product"}
	}
	return product, nil
}

// ListAll returns the whole catalog newest-first for the admin view.
func (s *productServiceImpl) ListAll(ctx context.Context) ([]models.Product, *ServiceError) {
	products, err := s.repo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch products"}
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// Create validates and persists a new catalog entry.
func (s *productServiceImpl) Create(ctx context.Context, req *CreateProductRequest) (*models.Product, *ServiceError) {
	if !models.ValidCategory(req.Category) {
		return nil, &ServiceError{StatusCode: 400, Message: "Category must be men or women"}
	}
	if req.Price < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Price cannot be negative"}
	}
	if req.Stock == nil || *req.Stock < 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "Stock cannot be negative"}
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Sizes:       req.Sizes,
		Colors:      req.Colors,
		Images:      req.Images,
		Stock:       *req.Stock,
		Featured:    req.Featured,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.String("name", req.Name), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to create product"}
	}

	s.logger.Info("Product created", zap.String("id", product.ID.Hex()), zap.String("name", product.Name))
	return product, nil
}

// Update applies the non-nil fields of the request.
func (s *productServiceImpl) Update(ctx context.Context, req *UpdateProductRequest) (*models.Product, *ServiceError) {
	pid, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product ID"}
	}

	updates := bson.M{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Price cannot be negative"}
		}
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		if !models.ValidCategory(*req.Category) {
			return nil, &ServiceError{StatusCode: 400, Message: "Category must be men or women"}
		}
		updates["category"] = *req.Category
	}
	if req.Subcategory != nil {
		updates["subcategory"] = *req.Subcategory
	}
	if req.Sizes != nil {
		updates["sizes"] = *req.Sizes
	}
	if req.Colors != nil {
		updates["colors"] = *req.Colors
	}
	if req.Images != nil {
		updates["images"] = *req.Images
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, &ServiceError{StatusCode: 400, Message: "Stock cannot be negative"}
		}
		updates["stock"] = *req.Stock
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if len(updates) == 0 {
		return nil, &ServiceError{StatusCode: 400, Message: "No fields to update"}
	}

	product, err := s.repo.Update(ctx, pid, updates)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to update product", zap.String("id", req.ID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update product"}
	}
	return product, nil
}

// Delete removes a product from the catalog. Existing cart lines keep
// their dangling reference; order snapshots are unaffected.
func (s *productServiceImpl) Delete(ctx context.Context, id string) *ServiceError {
	pid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return &ServiceError{StatusCode: 400, Message: "Invalid product ID"}
	}

	deleted, err := s.repo.Delete(ctx, pid)
	if err != nil {
		s.logger.Error("Failed to delete product", zap.String("id", id), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to delete product"}
	}
	if !deleted {
		return &ServiceError{StatusCode: 404, Message: "Product not found"}
	}

	s.logger.Info("Product deleted", zap.String("id", id))
	return nil
}
