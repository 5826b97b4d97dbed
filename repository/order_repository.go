package repository

import (
	"context"
	"strings"
	"time"

	"github.com/hassanhashmi16/Clothing-Store/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	CreateAndClearCart(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindAll(ctx context.Context) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) (*models.Order, error)
}

// MongoOrderRepository implements OrderRepository over the orders
// collection. It also touches the carts collection inside the checkout
// transaction.
type MongoOrderRepository struct {
	client *mongo.Client
	orders *mongo.Collection
	carts  *mongo.Collection
}

func NewMongoOrderRepository(client *mongo.Client, db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		client: client,
		orders: db.Collection("orders"),
		carts:  db.Collection("carts"),
	}
}

// CreateAndClearCart inserts the order and empties the user's cart in a
// single multi-document transaction, so a crash between the two writes
// can neither lose the order nor leave the cart populated after a
// reported success. Standalone deployments without transaction support
// fall back to sequential writes.
func (r *MongoOrderRepository) CreateAndClearCart(ctx context.Context, order *models.Order) error {
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}

	session, err := r.client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.orders.InsertOne(sc, order); err != nil {
			return nil, err
		}
		if err := r.clearCart(sc, order.UserID); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err == nil {
		return nil
	}

	if !transactionsUnsupported(err) {
		return err
	}

	// Standalone mongod: no transaction support. Do the two writes in
	// order; the cart clear is retried once so a transient failure does
	// not leave a non-empty cart behind a created order.
	zap.L().Warn("Transactions unsupported, falling back to sequential checkout writes", zap.Error(err))

	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return err
	}
	if err := r.clearCart(ctx, order.UserID); err != nil {
		if retryErr := r.clearCart(ctx, order.UserID); retryErr != nil {
			zap.L().Error("Failed to clear cart after order creation",
				zap.String("order_id", order.ID.Hex()), zap.Error(retryErr))
			return retryErr
		}
	}
	return nil
}

func (r *MongoOrderRepository) clearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.carts.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"items": []models.CartItem{}, "updated_at": time.Now()}},
	)
	return err
}

func transactionsUnsupported(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "Transaction numbers are only allowed") ||
		strings.Contains(msg, "transactions are not supported")
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *MongoOrderRepository) FindByIDAndUser(ctx context.Context, id, userID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByUser returns the user's orders, most recent first.
func (r *MongoOrderRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// FindAll returns every order, most recent first.
func (r *MongoOrderRepository) FindAll(ctx context.Context) ([]models.Order, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoOrderRepository) find(ctx context.Context, filter bson.M) ([]models.Order, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.orders.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets status and, when non-empty, paymentStatus, returning
// the updated order. Everything else on an order is immutable.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, paymentStatus string) (*models.Order, error) {
	set := bson.M{"status": status}
	if paymentStatus != "" {
		set["payment_status"] = paymentStatus
	}

	var order models.Order
	err := r.orders.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}
