package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/database"
	"github.com/Madhav-Gupta-28/kopi-shop-backend-go/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AddressRepository is owner-scoped: every method takes the owner's user id
// and includes it in the query filter.
type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	FindByID(ctx context.Context, userID, id string) (*models.Address, error)
	List(ctx context.Context, userID string, page models.PageRequest) ([]models.Address, int64, error)
	Update(ctx context.Context, userID, id string, update models.AddressUpdate) (*models.Address, error)
	Delete(ctx context.Context, userID, id string) error
}

type MongoAddressRepository struct {
	addresses *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *MongoAddressRepository {
	return &MongoAddressRepository{addresses: db.Collection(database.AddressesCollection)}
}

func ownedFilter(userID, id string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "userId": userID}, nil
}

func (r *MongoAddressRepository) Create(ctx context.Context, address *models.Address) error {
	if address.ID.IsZero() {
		address.ID = primitive.NewObjectID()
	}
	if _, err := r.addresses.InsertOne(ctx, address); err != nil {
		return fmt.Errorf("insert address: %w", translate(err))
	}
	return nil
}

func (r *MongoAddressRepository) FindByID(ctx context.Context, userID, id string) (*models.Address, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}
	var address models.Address
	if err := r.addresses.FindOne(ctx, filter).Decode(&address); err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *MongoAddressRepository) List(ctx context.Context, userID string, page models.PageRequest) ([]models.Address, int64, error) {
	page = page.Normalize()
	return findPage[models.Address](ctx, r.addresses, bson.M{"userId": userID},
		bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		page.Skip(), int64(page.PerPage))
}

func (r *MongoAddressRepository) Update(ctx context.Context, userID, id string, update models.AddressUpdate) (*models.Address, error) {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	unset := bson.M{}
	if update.Alamat != nil {
		set["alamat"] = *update.Alamat
	}
	setOrUnset(set, unset, "latitude", update.Latitude)
	setOrUnset(set, unset, "longitude", update.Longitude)
	setOrUnset(set, unset, "accuracy", update.Accuracy)

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}

	var address models.Address
	err = r.addresses.FindOneAndUpdate(ctx, filter,
		doc,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&address)
	if err != nil {
		return nil, translate(err)
	}
	return &address, nil
}

func (r *MongoAddressRepository) Delete(ctx context.Context, userID, id string) error {
	filter, err := ownedFilter(userID, id)
	if err != nil {
		return err
	}
	result, err := r.addresses.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// setOrUnset writes a present value, removes the field on an explicit null
// and skips an absent key.
func setOrUnset[T any](set, unset bson.M, field string, v models.Nullable[T]) {
	switch {
	case !v.Set:
	case v.Value == nil:
		unset[field] = ""
	default:
		set[field] = *v.Value
	}
}
