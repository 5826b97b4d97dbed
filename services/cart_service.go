package services

import (
	"context"
	"errors"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"github.com/hassanhashmi16/Clothing-Store/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AddItemRequest is the payload for adding a line to the cart.
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

// UpdateItemRequest sets a line's quantity exactly.
type UpdateItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

// CartService defines the interface for cart business logic.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.CartView, *ServiceError)
	AddItem(ctx context.Context, userID string, req *AddItemRequest) (*models.CartView, *ServiceError)
	UpdateQuantity(ctx context.Context, userID string, req *UpdateItemRequest) (*models.CartView, *ServiceError)
	RemoveItem(ctx context.Context, userID, itemID string) (*models.CartView, *ServiceError)
	ClearCart(ctx context.Context, userID string) *ServiceError
}

type cartServiceImpl struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetCart returns the user's cart resolved against the live catalog.
// A user with no cart document gets an empty view, not an error.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.CartView, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	cart, err := s.cartRepo.FindByUser(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if cart == nil {
		return &models.CartView{UserID: uid, Items: []models.CartViewItem{}}, nil
	}

	return s.resolve(ctx, cart)
}

// AddItem adds a line to the cart, merging by (product, size, color).
// The cart document is created lazily on the first add.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *AddItemRequest) (*models.CartView, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Quantity < 1 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
	}

	pid, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid product ID"}
	}

	product, err := s.productRepo.FindByID(ctx, pid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &ServiceError{StatusCode: 404, Message: "Product not found"}
		}
		s.logger.Error("Failed to fetch product", zap.String("product_id", req.ProductID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to validate product"}
	}

	if !product.OffersSize(req.Size) {
		return nil, &ServiceError{StatusCode: 400, Message: "Size not offered for this product"}
	}
	if !product.OffersColor(req.Color) {
		return nil, &ServiceError{StatusCode: 400, Message: "Color not offered for this product"}
	}

	// Try a positional increment first; it is a single atomic document
	// update, so two concurrent adds of the same variant both land.
	matched, err := s.cartRepo.IncrementItem(ctx, uid, pid, req.Quantity, req.Size, req.Color)
	if err != nil {
		s.logger.Error("Failed to update cart item", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
	}
	if !matched {
		item := models.CartItem{
			ID:        primitive.NewObjectID(),
			ProductID: pid,
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
		}
		if err := s.cartRepo.PushItem(ctx, uid, item); err != nil {
			s.logger.Error("Failed to add cart item", zap.String("user_id", userID), zap.Error(err))
			return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
		}
	}

	return s.reload(ctx, uid)
}

// UpdateQuantity sets a line's quantity exactly (not additive).
func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, userID string, req *UpdateItemRequest) (*models.CartView, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	if req.Quantity < 1 {
		return nil, &ServiceError{StatusCode: 400, Message: "Quantity must be at least 1"}
	}

	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid item ID"}
	}

	matched, err := s.cartRepo.SetItemQuantity(ctx, uid, itemID, req.Quantity)
	if err != nil {
		s.logger.Error("Failed to update cart item quantity", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
	}
	if !matched {
		return nil, &ServiceError{StatusCode: 404, Message: "Item not found in cart"}
	}

	return s.reload(ctx, uid)
}

// RemoveItem deletes a line by id. Removing an id that is not in the
// cart succeeds with the cart unchanged; only a missing cart is an error.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, itemID string) (*models.CartView, *ServiceError) {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return nil, svcErr
	}

	iid, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, &ServiceError{StatusCode: 400, Message: "Invalid item ID"}
	}

	cart, err := s.cartRepo.FindByUser(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if cart == nil {
		return nil, &ServiceError{StatusCode: 404, Message: "Cart not found"}
	}

	if err := s.cartRepo.RemoveItem(ctx, uid, iid); err != nil {
		s.logger.Error("Failed to remove cart item", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to update cart"}
	}

	return s.reload(ctx, uid)
}

// ClearCart empties the item list.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) *ServiceError {
	uid, svcErr := parseUserID(userID)
	if svcErr != nil {
		return svcErr
	}

	if err := s.cartRepo.Clear(ctx, uid); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("user_id", userID), zap.Error(err))
		return &ServiceError{StatusCode: 500, Message: "Failed to clear cart"}
	}
	return nil
}

func (s *cartServiceImpl) reload(ctx context.Context, uid primitive.ObjectID) (*models.CartView, *ServiceError) {
	cart, err := s.cartRepo.FindByUser(ctx, uid)
	if err != nil {
		s.logger.Error("Failed to reload cart", zap.String("user_id", uid.Hex()), zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}
	if cart == nil {
		return &models.CartView{UserID: uid, Items: []models.CartViewItem{}}, nil
	}
	return s.resolve(ctx, cart)
}

// resolve joins cart lines with current product data. Lines whose
// product has been removed from the catalog keep their reference but
// carry no product payload.
func (s *cartServiceImpl) resolve(ctx context.Context, cart *models.Cart) (*models.CartView, *ServiceError) {
	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("Failed to resolve cart products", zap.Error(err))
		return nil, &ServiceError{StatusCode: 500, Message: "Failed to fetch cart"}
	}

	view := &models.CartView{
		UserID:    cart.UserID,
		Items:     make([]models.CartViewItem, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}
	for _, item := range cart.Items {
		view.Items = append(view.Items, models.CartViewItem{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
			Product:   products[item.ProductID],
		})
	}
	return view, nil
}

func parseUserID(userID string) (primitive.ObjectID, *ServiceError) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, &ServiceError{StatusCode: 401, Message: "Unauthorized"}
	}
	return uid, nil
}
