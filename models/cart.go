package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is a single line in a cart. Lines are keyed by
// (product, size, color); adding the same variant again increments
// the existing line instead of appending a duplicate.
type CartItem struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	ProductID primitive.ObjectID `json:"productId" bson:"product_id"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Size      string             `json:"size" bson:"size"`
	Color     string             `json:"color" bson:"color"`
}

// SameVariant reports whether two lines refer to the same purchasable variant.
func (i *CartItem) SameVariant(productID primitive.ObjectID, size, color string) bool {
	return i.ProductID == productID && i.Size == size && i.Color == color
}

// Cart holds a user's intended purchases. Exactly one cart document
// exists per user; it is created lazily on the first add.
type Cart struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"user_id"`
	Items     []CartItem         `json:"items" bson:"items"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updated_at"`
}

// CartViewItem is a cart line resolved against the live catalog.
// Product is nil when the referenced product no longer exists.
type CartViewItem struct {
	ID        primitive.ObjectID `json:"_id"`
	ProductID primitive.ObjectID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Size      string             `json:"size"`
	Color     string             `json:"color"`
	Product   *Product           `json:"product,omitempty"`
}

// CartView is what cart endpoints return: line items joined with
// current product data (name, price, images).
type CartView struct {
	UserID    primitive.ObjectID `json:"userId,omitempty"`
	Items     []CartViewItem     `json:"items"`
	UpdatedAt time.Time          `json:"updatedAt,omitempty"`
}
