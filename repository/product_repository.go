package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string, includeDeleted bool) (*models.Product, error)
	// FindByIDs returns the products found, soft-deleted ones included, keyed by hex id.
	FindByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int64, error)
	Save(ctx context.Context, product *models.Product) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type MongoProductRepository struct {
	products *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{products: db.Collection(database.ProductsCollection)}
}

func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	if _, err := r.products.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("insert product: %w", translate(err))
	}
	return nil
}

func (r *MongoProductRepository) FindByID(ctx context.Context, id string, includeDeleted bool) (*models.Product, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": oid}
	if !includeDeleted {
		filter["deletedAt"] = nil
	}

	var product models.Product
	if err := r.products.FindOne(ctx, filter).Decode(&product); err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *MongoProductRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*models.Product, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := objectID(id); err == nil {
			oids = append(oids, oid)
		}
	}
	found := make(map[string]*models.Product, len(oids))
	if len(oids) == 0 {
		return found, nil
	}

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		found[product.ID.Hex()] = &product
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return found, nil
}

func (r *MongoProductRepository) List(ctx context.Context, filter models.ProductFilter, page models.PageRequest) ([]models.Product, int64, error) {
	query := bson.M{"deletedAt": nil}
	if filter.Search != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.IsActive != nil {
		query["isActive"] = *filter.IsActive
	}

	page = page.Normalize()
	return findPage[models.Product](ctx, r.products, query,
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		page.Skip(), int64(page.PerPage))
}

// Save replaces a live product document.
func (r *MongoProductRepository) Save(ctx context.Context, product *models.Product) error {
	result, err := r.products.ReplaceOne(ctx, bson.M{"_id": product.ID, "deletedAt": nil}, product)
	if err != nil {
		return fmt.Errorf("replace product: %w", translate(err))
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProductRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	result, err := r.products.UpdateOne(ctx,
		bson.M{"_id": oid, "deletedAt": nil},
		bson.M{"$set": bson.M{"deletedAt": at, "updatedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("soft delete product: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
