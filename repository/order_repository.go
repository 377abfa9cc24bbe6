package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository persists orders. An empty ownerID means "any owner"; a
// non-empty one is part of every filter so other users' orders never match.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id, ownerID string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter, page models.PageRequest) ([]models.Order, int64, error)
	// UpdateIfStatus applies update only while the order's status is one of
	// expected and returns the updated order. ErrNotFound means nothing matched.
	UpdateIfStatus(ctx context.Context, id, ownerID string, expected []models.OrderStatus, update models.OrderUpdate) (*models.Order, error)
	// SoftDeleteIfStatus marks the order deleted. A nil expected accepts any status.
	SoftDeleteIfStatus(ctx context.Context, id, ownerID string, expected []models.OrderStatus, at time.Time) error
}

type MongoOrderRepository struct {
	orders *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{orders: db.Collection(database.OrdersCollection)}
}

func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("insert order: %w", translate(err))
	}
	return nil
}

func scopedFilter(id, ownerID string, expected []models.OrderStatus) bson.M {
	filter := bson.M{"_id": id, "deletedAt": nil}
	if ownerID != "" {
		filter["userId"] = ownerID
	}
	if len(expected) > 0 {
		filter["status"] = bson.M{"$in": expected}
	}
	return filter
}

func (r *MongoOrderRepository) FindByID(ctx context.Context, id, ownerID string) (*models.Order, error) {
	var order models.Order
	if err := r.orders.FindOne(ctx, scopedFilter(id, ownerID, nil)).Decode(&order); err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) List(ctx context.Context, filter models.OrderFilter, page models.PageRequest) ([]models.Order, int64, error) {
	query := bson.M{"deletedAt": nil}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	page = page.Normalize()
	return findPage[models.Order](ctx, r.orders, query,
		bson.D{{Key: "orderDate", Value: -1}, {Key: "_id", Value: -1}},
		page.Skip(), int64(page.PerPage))
}

func (r *MongoOrderRepository) UpdateIfStatus(ctx context.Context, id, ownerID string, expected []models.OrderStatus, update models.OrderUpdate) (*models.Order, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.TrackingNumber != nil {
		set["trackingNumber"] = *update.TrackingNumber
	}
	if update.Items != nil {
		set["items"] = update.Items
	}
	if update.ShippingAddress != nil {
		set["shippingAddress"] = *update.ShippingAddress
	}
	if update.PaymentMethod != nil {
		set["paymentMethod"] = *update.PaymentMethod
	}

	var order models.Order
	err := r.orders.FindOneAndUpdate(ctx,
		scopedFilter(id, ownerID, expected),
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *MongoOrderRepository) SoftDeleteIfStatus(ctx context.Context, id, ownerID string, expected []models.OrderStatus, at time.Time) error {
	result, err := r.orders.UpdateOne(ctx,
		scopedFilter(id, ownerID, expected),
		bson.M{"$set": bson.M{"deletedAt": at, "updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
