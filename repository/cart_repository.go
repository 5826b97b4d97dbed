package repository

import (
	"context"
	"time"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CartRepository defines the interface for cart data access. All writes
// are single-document atomic updates so concurrent adds to the same
// variant cannot lose an increment.
type CartRepository interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	IncrementItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int, size, color string) (bool, error)
	PushItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) error
	SetItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error)
	RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

// MongoCartRepository implements CartRepository over the carts
// collection. One document per user, enforced by a unique index.
type MongoCartRepository struct {
	collection *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) *MongoCartRepository {
	return &MongoCartRepository{collection: db.Collection("carts")}
}

// FindByUser returns the user's cart, or (nil, nil) when none exists.
func (r *MongoCartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// IncrementItem bumps the quantity of an existing (product, size, color)
// line with a positional $inc. Returns false when no such line exists.
func (r *MongoCartRepository) IncrementItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int, size, color string) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"user_id": userID,
			"items": bson.M{"$elemMatch": bson.M{
				"product_id": productID,
				"size":       size,
				"color":      color,
			}},
		},
		bson.M{
			"$inc": bson.M{"items.$.quantity": quantity},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// PushItem appends a new line, creating the cart document lazily via
// upsert when the user has none.
func (r *MongoCartRepository) PushItem(ctx context.Context, userID primitive.ObjectID, item models.CartItem) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$push": bson.M{"items": item},
			"$set":  bson.M{"updated_at": time.Now()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// SetItemQuantity sets a line's quantity exactly (not additive).
// Returns false when the item is not in the user's cart.
func (r *MongoCartRepository) SetItemQuantity(ctx context.Context, userID, itemID primitive.ObjectID, quantity int) (bool, error) {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID, "items._id": itemID},
		bson.M{
			"$set": bson.M{
				"items.$.quantity": quantity,
				"updated_at":       time.Now(),
			},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// RemoveItem pulls a line by id. Pulling an absent id is not an error.
func (r *MongoCartRepository) RemoveItem(ctx context.Context, userID, itemID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"_id": itemID}},
			"$set":  bson.M{"updated_at": time.Now()},
		},
	)
	return err
}

// Clear empties the item list but keeps the cart document.
func (r *MongoCartRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set": bson.M{
				"items":      []models.CartItem{},
				"updated_at": time.Now(),
			},
		},
	)
	return err
}
